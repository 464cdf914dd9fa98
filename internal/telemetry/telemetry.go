// Package telemetry wraps sentry-go behind an explicit handle
// (*Reporter) rather than the SDK's process-global client, so main can
// construct it once and thread it through config.Context without any
// package-level state.
package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// Config configures the Sentry client. DSN empty disables reporting:
// Report becomes a no-op rather than erroring, so running without a
// DSN configured is always safe.
type Config struct {
	DSN         string
	Environment string
	Release     string
}

// Reporter satisfies config.Reporter. Safe for concurrent use; Sentry's
// own client already serializes event sends internally.
type Reporter struct {
	enabled bool
}

// New initializes the Sentry SDK (a no-op Reporter if cfg.DSN is empty)
// and returns a handle. Call Close before process exit to flush.
func New(cfg Config) (*Reporter, error) {
	if cfg.DSN == "" {
		return &Reporter{enabled: false}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
	}); err != nil {
		return nil, errors.New(err).
			Component("telemetry").
			Category(errors.CategoryGeneric).
			Build()
	}
	return &Reporter{enabled: true}, nil
}

// Report sends err to Sentry, tagged with its component/category when
// it's one of our *errors.EnhancedError values.
func (r *Reporter) Report(err error) {
	if r == nil || !r.enabled || err == nil {
		return
	}

	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("component", ee.Component())
			scope.SetTag("category", string(ee.Category))
			sentry.CaptureException(err)
		})
		return
	}
	sentry.CaptureException(err)
}

// Close flushes any buffered events, waiting up to timeout.
func (r *Reporter) Close(timeout time.Duration) {
	if r == nil || !r.enabled {
		return
	}
	sentry.Flush(timeout)
}
