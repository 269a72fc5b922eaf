// Package mappers converts between database rows and persistent objects.
package mappers

import (
	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/jackc/pgx/v5/pgtype"
)

// VideoColumns is the canonical select list for media.videos. Every scan in
// the repository uses this order.
const VideoColumns = `video_id, seq, title, description, is_private, uploader_id, uploader_name,
	video_original_filename, video_stored_filename, video_content_type, video_size_bytes, video_file_path,
	thumb_original_filename, thumb_stored_filename, thumb_content_type, thumb_size_bytes, thumb_file_path,
	created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanVideo scans one media.videos row (in VideoColumns order) into a PO.
// The five thumbnail columns are either all set or all NULL; a row with a
// NULL stored filename yields a nil ThumbnailFile.
func ScanVideo(row rowScanner) (*po.Video, error) {
	var (
		v           po.Video
		description pgtype.Text
		thumbOrig   pgtype.Text
		thumbStored pgtype.Text
		thumbCT     pgtype.Text
		thumbSize   pgtype.Int8
		thumbPath   pgtype.Text
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&v.VideoID, &v.Seq, &v.Title, &description, &v.IsPrivate, &v.UploaderID, &v.UploaderName,
		&v.VideoFile.OriginalFilename, &v.VideoFile.StoredFilename, &v.VideoFile.ContentType,
		&v.VideoFile.SizeBytes, &v.VideoFile.FilePath,
		&thumbOrig, &thumbStored, &thumbCT, &thumbSize, &thumbPath,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		d := description.String
		v.Description = &d
	}
	if thumbStored.Valid {
		v.ThumbnailFile = &po.StoredFile{
			OriginalFilename: thumbOrig.String,
			StoredFilename:   thumbStored.String,
			ContentType:      thumbCT.String,
			SizeBytes:        thumbSize.Int64,
			FilePath:         thumbPath.String,
		}
	}
	if createdAt.Valid {
		v.CreatedAt = createdAt.Time.UTC()
	}
	return &v, nil
}

// NullableText maps an optional string to a pgtype.Text parameter.
func NullableText(value *string) pgtype.Text {
	if value == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *value, Valid: true}
}

// NullableInt8 maps an optional int64 to a pgtype.Int8 parameter.
func NullableInt8(value *int64) pgtype.Int8 {
	if value == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *value, Valid: true}
}

// ThumbnailParams flattens an optional thumbnail blob into the five insert
// parameters for the thumb_* columns.
func ThumbnailParams(thumb *po.StoredFile) (orig, stored, contentType pgtype.Text, size pgtype.Int8, path pgtype.Text) {
	if thumb == nil {
		return
	}
	orig = pgtype.Text{String: thumb.OriginalFilename, Valid: true}
	stored = pgtype.Text{String: thumb.StoredFilename, Valid: true}
	contentType = pgtype.Text{String: thumb.ContentType, Valid: true}
	size = pgtype.Int8{Int64: thumb.SizeBytes, Valid: true}
	path = pgtype.Text{String: thumb.FilePath, Valid: true}
	return
}
