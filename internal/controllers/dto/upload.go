package dto

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/services"
)

// maxUploadMemory bounds how much of a multipart body stays in memory; the
// remainder spills to temp files managed by net/http.
const maxUploadMemory = 32 << 20

// UploadForm holds the parsed multipart upload request. Close must be called
// once the file has been consumed.
type UploadForm struct {
	File        multipart.File
	Header      *multipart.FileHeader
	Title       string
	Description *string
	Private     bool
}

// Close releases the underlying multipart file handle.
func (f *UploadForm) Close() {
	if f != nil && f.File != nil {
		_ = f.File.Close()
	}
}

// ParseUploadForm extracts the upload fields from a multipart request.
// Field-level validation (title length, emptiness) belongs to the service
// layer; this only handles request-shape errors.
func ParseUploadForm(req *http.Request) (*UploadForm, error) {
	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, fmt.Errorf("file is required")
		}
		return nil, fmt.Errorf("read file part: %w", err)
	}

	form := &UploadForm{
		File:   file,
		Header: header,
		Title:  req.FormValue("title"),
	}
	if raw := req.FormValue("description"); raw != "" {
		form.Description = &raw
	}
	if raw := strings.TrimSpace(req.FormValue("private")); raw != "" {
		private, err := strconv.ParseBool(raw)
		if err != nil {
			form.Close()
			return nil, fmt.Errorf("invalid private flag: %q", raw)
		}
		form.Private = private
	}
	return form, nil
}

// ToUploadInput builds the service-layer input from the parsed form.
func (f *UploadForm) ToUploadInput(caller services.Principal) services.UploadInput {
	return services.UploadInput{
		File:             f.File,
		SizeBytes:        f.Header.Size,
		OriginalFilename: f.Header.Filename,
		ContentType:      f.Header.Header.Get("Content-Type"),
		Title:            f.Title,
		Description:      f.Description,
		Private:          f.Private,
		Caller:           caller,
	}
}
