// Package logging provides logrus loggers tagged with a component field.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel overrides the log level (e.g. "debug", "info", "warn").
const EnvLogLevel = "BAUTRIBO_LOG_LEVEL"

var (
	mu      sync.Mutex
	root    *logrus.Logger
	loggers = make(map[string]*logrus.Entry)
)

// NewLogger returns a logger entry for the given component. Entries for the
// same component are shared.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}

	if root == nil {
		root = logrus.New()
		root.SetOutput(os.Stderr)
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		level := logrus.InfoLevel
		if v := os.Getenv(EnvLogLevel); v != "" {
			if parsed, err := logrus.ParseLevel(v); err == nil {
				level = parsed
			}
		}
		root.SetLevel(level)
	}

	entry := root.WithField("component", component)
	loggers[component] = entry
	return entry
}
