package dialog

import (
	"github.com/arzzra/imsphone/internal/logging"
	"github.com/arzzra/imsphone/internal/metrics"
)

// Option configures a Session at construction, generalizing the teacher's
// functional-options shape (pkg/dialog/opts.go) from call-session options
// to this engine's logging/metrics collaborators.
type Option func(*Session)

// WithLogger attaches a component logger; a Session built without one logs
// nowhere (nil Logger methods are no-ops).
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics attaches a metrics collector; a Session built without one
// records nothing.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Session) { s.metrics = m }
}
