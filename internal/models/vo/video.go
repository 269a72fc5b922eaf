// Package vo defines view objects returned by the service layer. VOs carry
// only the fields the API surface needs, keeping PO internals (stored
// filenames, filesystem paths) out of responses.
package vo

import (
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/google/uuid"
)

// Video is the caller-visible projection of a catalog record. Stored
// filenames and paths are deliberately absent.
type Video struct {
	VideoID      uuid.UUID `json:"video_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	IsPrivate    bool      `json:"is_private"`
	UploaderName string    `json:"uploader_name"`
	HasThumbnail bool      `json:"has_thumbnail"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewVideo builds the view from a persistent entity.
func NewVideo(v *po.Video) *Video {
	if v == nil {
		return nil
	}
	return &Video{
		VideoID:      v.VideoID,
		Title:        v.Title,
		Description:  v.Description,
		IsPrivate:    v.IsPrivate,
		UploaderName: v.UploaderName,
		HasThumbnail: v.HasThumbnail(),
		CreatedAt:    v.CreatedAt,
	}
}

// NewVideoList maps a slice of entities preserving order.
func NewVideoList(items []*po.Video) []*Video {
	out := make([]*Video, 0, len(items))
	for _, item := range items {
		out = append(out, NewVideo(item))
	}
	return out
}
