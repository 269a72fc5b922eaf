package logger

import "github.com/google/wire"

// ProviderSet exposes the logger constructor for Wire.
var ProviderSet = wire.NewSet(NewLogger)
