// Package dto translates between the HTTP surface and the service layer:
// request parsing on the way in, view objects to JSON shapes on the way out.
package dto

import (
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/vo"

	"github.com/google/uuid"
)

// ParseVideoID parses the video_id path segment.
func ParseVideoID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid video_id: %w", err)
	}
	return id, nil
}

// VideoResponse is the JSON shape for one catalog record.
type VideoResponse struct {
	VideoID      string  `json:"video_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	IsPrivate    bool    `json:"is_private"`
	UploaderName string  `json:"uploader_name"`
	HasThumbnail bool    `json:"has_thumbnail"`
	CreatedAt    string  `json:"created_at"`
}

// VideoListResponse wraps the listing payload.
type VideoListResponse struct {
	Videos []VideoResponse `json:"videos"`
}

// NewVideoResponse maps a view object to its JSON shape.
func NewVideoResponse(v *vo.Video) VideoResponse {
	if v == nil {
		return VideoResponse{}
	}
	return VideoResponse{
		VideoID:      v.VideoID.String(),
		Title:        v.Title,
		Description:  v.Description,
		IsPrivate:    v.IsPrivate,
		UploaderName: v.UploaderName,
		HasThumbnail: v.HasThumbnail,
		CreatedAt:    FormatTime(v.CreatedAt),
	}
}

// NewVideoListResponse maps a list of view objects preserving order.
func NewVideoListResponse(items []*vo.Video) VideoListResponse {
	videos := make([]VideoResponse, 0, len(items))
	for _, item := range items {
		videos = append(videos, NewVideoResponse(item))
	}
	return VideoListResponse{Videos: videos}
}

// FormatTime renders timestamps as RFC 3339 UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
