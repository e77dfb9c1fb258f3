package core

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// GlogLogger implements Logger by forwarding to glog at INFO level
type GlogLogger struct{}

// Printf implements Logger
func (GlogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// NewDefaultLogger returns the logger used when callers don't provide one
func NewDefaultLogger() Logger {
	return GlogLogger{}
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}
