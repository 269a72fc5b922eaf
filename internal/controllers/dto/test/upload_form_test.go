package dto_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, fields map[string]string, withFile bool) (body *bytes.Buffer, contentType string) {
	t.Helper()
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if withFile {
		part, err := writer.CreateFormFile("file", "holiday.mp4")
		require.NoError(t, err)
		_, err = part.Write([]byte("movie bytes"))
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestParseUploadForm(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		body, contentType := multipartRequest(t, map[string]string{
			"title":       "Holiday",
			"description": "Beach trip",
			"private":     "true",
		}, true)

		req := httptest.NewRequest("POST", "/api/videos/upload", body)
		req.Header.Set("Content-Type", contentType)

		form, err := dto.ParseUploadForm(req)
		require.NoError(t, err)
		defer form.Close()

		assert.Equal(t, "Holiday", form.Title)
		require.NotNil(t, form.Description)
		assert.Equal(t, "Beach trip", *form.Description)
		assert.True(t, form.Private)
		assert.Equal(t, "holiday.mp4", form.Header.Filename)
		assert.Equal(t, int64(11), form.Header.Size)
	})

	t.Run("defaults", func(t *testing.T) {
		body, contentType := multipartRequest(t, map[string]string{"title": "Holiday"}, true)

		req := httptest.NewRequest("POST", "/api/videos/upload", body)
		req.Header.Set("Content-Type", contentType)

		form, err := dto.ParseUploadForm(req)
		require.NoError(t, err)
		defer form.Close()

		assert.Nil(t, form.Description)
		assert.False(t, form.Private)
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartRequest(t, map[string]string{"title": "Holiday"}, false)

		req := httptest.NewRequest("POST", "/api/videos/upload", body)
		req.Header.Set("Content-Type", contentType)

		_, err := dto.ParseUploadForm(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file is required")
	})

	t.Run("invalid private flag", func(t *testing.T) {
		body, contentType := multipartRequest(t, map[string]string{
			"title":   "Holiday",
			"private": "maybe",
		}, true)

		req := httptest.NewRequest("POST", "/api/videos/upload", body)
		req.Header.Set("Content-Type", contentType)

		_, err := dto.ParseUploadForm(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid private flag")
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/videos/upload", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")

		_, err := dto.ParseUploadForm(req)
		require.Error(t, err)
	})
}

func TestToUploadInput(t *testing.T) {
	body, contentType := multipartRequest(t, map[string]string{
		"title":   "Holiday",
		"private": "1",
	}, true)

	req := httptest.NewRequest("POST", "/api/videos/upload", body)
	req.Header.Set("Content-Type", contentType)

	form, err := dto.ParseUploadForm(req)
	require.NoError(t, err)
	defer form.Close()

	caller := services.Principal{UserID: uuid.New(), Username: "alice"}
	input := form.ToUploadInput(caller)

	assert.Equal(t, "holiday.mp4", input.OriginalFilename)
	assert.Equal(t, int64(11), input.SizeBytes)
	assert.Equal(t, "Holiday", input.Title)
	assert.True(t, input.Private)
	assert.Equal(t, caller, input.Caller)
	assert.NotNil(t, input.File)
}
