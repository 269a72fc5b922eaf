package controllers

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
)

// DownloadHandler streams video and thumbnail blobs. Responses bypass the
// JSON codec: bytes are copied straight from the blob store to the wire.
type DownloadHandler struct {
	*BaseHandler
	svc *services.DownloadService
	log *log.Helper
}

// NewDownloadHandler constructs the download handler.
func NewDownloadHandler(svc *services.DownloadService, base *BaseHandler, logger log.Logger) *DownloadHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &DownloadHandler{BaseHandler: base, svc: svc, log: log.NewHelper(logger)}
}

// DownloadVideo handles GET /api/videos/{video_id}/download. The blob is
// served as an attachment named after the original upload.
func (h *DownloadHandler) DownloadVideo(ctx khttp.Context) error {
	return h.stream(ctx, "attachment", func(timeoutCtx context.Context, videoID uuid.UUID, caller services.Principal) (*services.Download, error) {
		return h.svc.OpenVideo(timeoutCtx, videoID, caller)
	})
}

// DownloadThumbnail handles GET /api/videos/{video_id}/thumbnail. The blob
// is served inline for embedding.
func (h *DownloadHandler) DownloadThumbnail(ctx khttp.Context) error {
	return h.stream(ctx, "inline", func(timeoutCtx context.Context, videoID uuid.UUID, caller services.Principal) (*services.Download, error) {
		return h.svc.OpenThumbnail(timeoutCtx, videoID, caller)
	})
}

func (h *DownloadHandler) stream(ctx khttp.Context, disposition string, open func(context.Context, uuid.UUID, services.Principal) (*services.Download, error)) error {
	videoID, err := dto.ParseVideoID(ctx.Vars().Get("video_id"))
	if err != nil {
		return errors.BadRequest(services.ReasonInvalidInput, err.Error())
	}

	caller, meta := h.ExtractCaller(ctx.Request().Header)

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	download, err := open(timeoutCtx, videoID, caller)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := download.Resource.Close(); cerr != nil {
			h.log.WithContext(ctx).Warnf("close blob %s: %v", videoID, cerr)
		}
	}()

	w := ctx.Response()
	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(download.Resource.Size(), 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": download.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, download.Resource); err != nil {
		// Headers are already on the wire; all we can do is log and abort
		// the connection.
		h.log.WithContext(ctx).Warnf("stream blob %s: %v", videoID, err)
		return fmt.Errorf("stream blob: %w", err)
	}
	return nil
}
