package controllers

import (
	"net/http"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// VideoQueryHandler serves the catalog read endpoints.
type VideoQueryHandler struct {
	*BaseHandler
	svc *services.VideoQueryService
}

// NewVideoQueryHandler constructs the query handler.
func NewVideoQueryHandler(svc *services.VideoQueryService, base *BaseHandler) *VideoQueryHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &VideoQueryHandler{BaseHandler: base, svc: svc}
}

// List handles GET /api/videos. An optional search parameter narrows the
// result by title or description substring.
func (h *VideoQueryHandler) List(ctx khttp.Context) error {
	caller, meta := h.ExtractCaller(ctx.Request().Header)

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	videos, err := h.svc.List(timeoutCtx, ctx.Query().Get("search"), caller)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoListResponse(videos))
}

// GetVideo handles GET /api/videos/{video_id}.
func (h *VideoQueryHandler) GetVideo(ctx khttp.Context) error {
	videoID, err := dto.ParseVideoID(ctx.Vars().Get("video_id"))
	if err != nil {
		return errors.BadRequest(services.ReasonInvalidInput, err.Error())
	}

	caller, meta := h.ExtractCaller(ctx.Request().Header)

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	video, err := h.svc.GetVideo(timeoutCtx, videoID, caller)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoResponse(video))
}
