// Package po defines persistence-facing data objects used by the repository
// layer. PO structs map database rows and are never exposed to API callers
// directly.
package po

import (
	"time"

	"github.com/google/uuid"
)

// Video is the database entity behind media.videos. A video always owns its
// primary file; the thumbnail is optional because thumbnail generation is
// best-effort and allowed to fail without failing the upload.
type Video struct {
	VideoID      uuid.UUID `db:"video_id"`
	Seq          int64     `db:"seq"` // insertion order, listing tie-break
	Title        string    `db:"title"`
	Description  *string   `db:"description"`
	IsPrivate    bool      `db:"is_private"`
	UploaderID   uuid.UUID `db:"uploader_id"`
	UploaderName string    `db:"uploader_name"`

	VideoFile     StoredFile
	ThumbnailFile *StoredFile

	CreatedAt time.Time `db:"created_at"`
}

// HasThumbnail reports whether a thumbnail blob was stored for this video.
func (v *Video) HasThumbnail() bool {
	return v != nil && v.ThumbnailFile != nil
}
