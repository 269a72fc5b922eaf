package httpserver

import "github.com/google/wire"

// ProviderSet exposes the HTTP server constructor for DI.
var ProviderSet = wire.NewSet(NewHTTPServer)
