// Package routerlog is the thin logging abstraction the dispatch handlers
// log through, backed by logrus the way cmd/skipper/main.go configures it
// for the rest of the codebase.
package routerlog

import (
	log "github.com/sirupsen/logrus"
)

// Logger is the minimal surface dispatch handlers need. It is satisfied
// by *logrus.Logger and by the package-level functions below through
// Default.
type Logger interface {
	Errorf(format string, args ...any)
	Infof(format string, args ...any)
}

type stdLogger struct{}

func (stdLogger) Errorf(format string, args ...any) { log.Errorf(format, args...) }
func (stdLogger) Infof(format string, args ...any)  { log.Infof(format, args...) }

// Default returns a Logger backed by logrus's package-level (standard)
// logger.
func Default() Logger { return stdLogger{} }

// SetLevel parses level (e.g. "debug", "info", "warning") and applies it
// to the standard logger, failing the same way cmd/skipper does on an
// unrecognized level.
func SetLevel(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	return nil
}
