package transcoder

import (
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet exposes the thumbnailer constructor for Wire.
var ProviderSet = wire.NewSet(ProvideThumbnailer)

// ProvideThumbnailer binds the ffmpeg implementation to the Thumbnailer
// capability consumed by the upload pipeline.
func ProvideThumbnailer(cfg Config, logger log.Logger) Thumbnailer {
	return NewFFmpeg(cfg, logger)
}
