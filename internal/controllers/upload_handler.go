package controllers

import (
	"net/http"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// UploadHandler serves the multipart upload endpoint.
type UploadHandler struct {
	*BaseHandler
	svc *services.UploadService
}

// NewUploadHandler constructs the upload handler.
func NewUploadHandler(svc *services.UploadService, base *BaseHandler) *UploadHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &UploadHandler{BaseHandler: base, svc: svc}
}

// Upload handles POST /api/videos/upload. The request body is a multipart
// form with a file part plus title, description and private fields.
func (h *UploadHandler) Upload(ctx khttp.Context) error {
	caller, meta := h.ExtractCaller(ctx.Request().Header)

	form, err := dto.ParseUploadForm(ctx.Request())
	if err != nil {
		return errors.BadRequest(services.ReasonInvalidInput, err.Error())
	}
	defer form.Close()

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	video, err := h.svc.Upload(timeoutCtx, form.ToUploadInput(caller))
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusCreated, dto.NewVideoResponse(video))
}
