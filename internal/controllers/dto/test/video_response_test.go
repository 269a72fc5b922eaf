package dto_test

import (
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoID(t *testing.T) {
	id := uuid.New()

	parsed, err := dto.ParseVideoID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = dto.ParseVideoID("not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid video_id")
}

func TestNewVideoResponse(t *testing.T) {
	description := "Beach trip"
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	video := &vo.Video{
		VideoID:      uuid.New(),
		Title:        "Holiday",
		Description:  &description,
		IsPrivate:    true,
		UploaderName: "alice",
		HasThumbnail: true,
		CreatedAt:    created,
	}

	resp := dto.NewVideoResponse(video)

	assert.Equal(t, video.VideoID.String(), resp.VideoID)
	assert.Equal(t, "Holiday", resp.Title)
	require.NotNil(t, resp.Description)
	assert.Equal(t, description, *resp.Description)
	assert.True(t, resp.IsPrivate)
	assert.Equal(t, "alice", resp.UploaderName)
	assert.True(t, resp.HasThumbnail)
	assert.Equal(t, "2026-03-14T09:26:53Z", resp.CreatedAt)
}

func TestNewVideoListResponse(t *testing.T) {
	first := &vo.Video{VideoID: uuid.New(), Title: "first"}
	second := &vo.Video{VideoID: uuid.New(), Title: "second"}

	resp := dto.NewVideoListResponse([]*vo.Video{first, second})

	require.Len(t, resp.Videos, 2)
	assert.Equal(t, "first", resp.Videos[0].Title)
	assert.Equal(t, "second", resp.Videos[1].Title)

	empty := dto.NewVideoListResponse(nil)
	assert.NotNil(t, empty.Videos)
	assert.Empty(t, empty.Videos)
}
