package config

import (
	"log/slog"

	"github.com/emmjayh/SingWithMe/internal/logging"
)

// Reporter is the narrow interface telemetry.Reporter satisfies. Context
// depends on this instead of the concrete type so the config package
// never imports telemetry, avoiding a cycle and keeping the dependency
// direction pointing outward from main.
type Reporter interface {
	Report(err error)
}

// Context bundles everything a component needs besides its own state: a
// config snapshot, a logger tagged for that component, and an optional
// telemetry handle. It is built once in main and passed down explicitly —
// nothing under internal/ reaches for a package-level global of any of
// these.
type Context struct {
	Config   RuntimeConfig
	Logger   *slog.Logger
	Reporter Reporter
}

// NewContext builds a Context for a named component. reporter may be nil;
// callers that don't want telemetry pass nil rather than a no-op stub.
func NewContext(cfg RuntimeConfig, component string, reporter Reporter) *Context {
	return &Context{
		Config:   cfg,
		Logger:   logging.ForComponent(component),
		Reporter: reporter,
	}
}

// WithComponent returns a copy of c scoped to a different component name,
// sharing the same config and reporter. Used when one owner (the
// pipeline) hands sub-contexts to the modules it composes.
func (c *Context) WithComponent(component string) *Context {
	return &Context{
		Config:   c.Config,
		Logger:   logging.ForComponent(component),
		Reporter: c.Reporter,
	}
}

// ReportError logs err and forwards it to the reporter if one is set.
func (c *Context) ReportError(err error) {
	if err == nil {
		return
	}
	c.Logger.Error(err.Error())
	if c.Reporter != nil {
		c.Reporter.Report(err)
	}
}
