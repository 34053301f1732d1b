package tracker

import "github.com/rs/zerolog"

// log is the package logger. It discards everything until the host installs
// a real logger with SetLogger, so library users pay nothing by default.
var log = zerolog.Nop()

// SetLogger installs the logger used by the engine's I/O paths (store,
// rate and price fetches, import).
func SetLogger(l zerolog.Logger) { log = l }
