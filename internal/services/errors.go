package services

import (
	stderrors "errors"

	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/blobstore"

	"github.com/go-kratos/kratos/v2/errors"
)

// Error reason codes surfaced to the boundary layer. The boundary maps the
// attached HTTP status; messages stay free of internal detail.
const (
	ReasonInvalidInput       = "INVALID_INPUT"
	ReasonUnauthorized       = "UNAUTHORIZED"
	ReasonForbidden          = "PRIVATE_VIDEO_ACCESS_DENIED"
	ReasonVideoNotFound      = "VIDEO_NOT_FOUND"
	ReasonThumbnailNotFound  = "THUMBNAIL_NOT_FOUND"
	ReasonFileNotFound       = "FILE_NOT_FOUND"
	ReasonPathEscape         = "PATH_ESCAPE"
	ReasonStorageUnavailable = "STORAGE_UNAVAILABLE"
	ReasonSaveVideoFailed    = "SAVE_VIDEO_FAILED"
	ReasonQueryVideoFailed   = "QUERY_VIDEO_FAILED"
	ReasonQueryTimeout       = "QUERY_TIMEOUT"
)

// Sentinel typed failures shared across services.
var (
	// ErrVideoNotFound is returned when no record exists for the id.
	ErrVideoNotFound = errors.NotFound(ReasonVideoNotFound, "video not found")
	// ErrThumbnailNotFound is returned when the record has no thumbnail blob.
	ErrThumbnailNotFound = errors.NotFound(ReasonThumbnailNotFound, "thumbnail not found")
	// ErrUnauthorized is returned for anonymous callers on operations that
	// require a known identity.
	ErrUnauthorized = errors.Unauthorized(ReasonUnauthorized, "authentication required")
	// ErrPrivateVideoAccessDenied is returned when an authenticated caller
	// is not the uploader of a private video.
	ErrPrivateVideoAccessDenied = errors.Forbidden(ReasonForbidden, "private video access denied")
)

// mapBlobError converts blob store sentinels into the typed taxonomy.
// Unclassified failures become opaque storage errors with the cause kept
// server-side only.
func mapBlobError(err error) *errors.Error {
	switch {
	case stderrors.Is(err, blobstore.ErrEmptyFile):
		return errors.BadRequest(ReasonInvalidInput, "file is required")
	case stderrors.Is(err, blobstore.ErrPathEscape):
		return errors.BadRequest(ReasonPathEscape, "invalid file name")
	case stderrors.Is(err, blobstore.ErrNotFound):
		return errors.NotFound(ReasonFileNotFound, "file not found")
	default:
		return errors.InternalServer(ReasonStorageUnavailable, "storage unavailable").WithCause(err)
	}
}
