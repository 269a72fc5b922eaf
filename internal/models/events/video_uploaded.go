// Package events defines the domain events this service emits through the
// transactional outbox. Payloads are JSON; consumers must tolerate unknown
// fields.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/google/uuid"
)

const (
	// AggregateVideo is the aggregate type attached to video events.
	AggregateVideo = "video"
	// TypeVideoUploaded marks a completed upload with a persisted catalog record.
	TypeVideoUploaded = "video.uploaded"
)

// DomainEvent is the envelope written to the outbox table.
type DomainEvent struct {
	EventID       uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	OccurredAt    time.Time
	Payload       []byte
}

// VideoUploadedPayload is the wire body of a video.uploaded event.
type VideoUploadedPayload struct {
	VideoID        uuid.UUID `json:"video_id"`
	UploaderID     uuid.UUID `json:"uploader_id"`
	Title          string    `json:"title"`
	IsPrivate      bool      `json:"is_private"`
	SizeBytes      int64     `json:"size_bytes"`
	ContentType    string    `json:"content_type"`
	HasThumbnail   bool      `json:"has_thumbnail"`
	UploadedAtUnix int64     `json:"uploaded_at_unix"`
}

// NewVideoUploadedEvent builds the event emitted when an upload is persisted.
func NewVideoUploadedEvent(video *po.Video, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if video == nil {
		return nil, fmt.Errorf("video is required")
	}
	if eventID == uuid.Nil {
		eventID = uuid.New()
	}
	occurredAt = occurredAt.UTC()

	payload, err := json.Marshal(VideoUploadedPayload{
		VideoID:        video.VideoID,
		UploaderID:     video.UploaderID,
		Title:          video.Title,
		IsPrivate:      video.IsPrivate,
		SizeBytes:      video.VideoFile.SizeBytes,
		ContentType:    video.VideoFile.ContentType,
		HasThumbnail:   video.HasThumbnail(),
		UploadedAtUnix: occurredAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal video.uploaded payload: %w", err)
	}

	return &DomainEvent{
		EventID:       eventID,
		AggregateType: AggregateVideo,
		AggregateID:   video.VideoID,
		EventType:     TypeVideoUploaded,
		OccurredAt:    occurredAt,
		Payload:       payload,
	}, nil
}
