package controllers

import (
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Query    *VideoQueryHandler
	Upload   *UploadHandler
	Download *DownloadHandler
}

// NewHandlers groups the handlers for the server wiring.
func NewHandlers(query *VideoQueryHandler, upload *UploadHandler, download *DownloadHandler) *Handlers {
	return &Handlers{Query: query, Upload: upload, Download: download}
}

// RegisterRoutes attaches the media API routes to the server.
func RegisterRoutes(srv *khttp.Server, h *Handlers) {
	api := srv.Route("/api")
	api.GET("/videos", h.Query.List)
	api.POST("/videos/upload", h.Upload.Upload)
	api.GET("/videos/{video_id}", h.Query.GetVideo)
	api.GET("/videos/{video_id}/download", h.Download.DownloadVideo)
	api.GET("/videos/{video_id}/thumbnail", h.Download.DownloadThumbnail)
}
