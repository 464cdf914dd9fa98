// Package errors provides centralized, categorized error construction for
// the pipeline and its control plane. It is a drop-in companion to the
// standard errors package: Is/As/Unwrap/Join all pass through.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrorCategory groups errors for logging and metrics purposes.
type ErrorCategory string

const (
	CategoryVAD           ErrorCategory = "vad"
	CategoryPitch         ErrorCategory = "pitch"
	CategoryGate          ErrorCategory = "gate"
	CategoryCalibration   ErrorCategory = "calibration"
	CategoryMedia         ErrorCategory = "media"
	CategoryMixer         ErrorCategory = "mixer"
	CategoryPipeline      ErrorCategory = "pipeline"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryDevice        ErrorCategory = "device"
	CategoryStore         ErrorCategory = "store"
	CategoryControl       ErrorCategory = "control"
	CategoryBroadcast     ErrorCategory = "broadcast"
	CategoryValidation    ErrorCategory = "validation"
	CategoryFileIO        ErrorCategory = "file-io"
	CategoryState         ErrorCategory = "state"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when the component cannot be determined.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with component/category/context metadata.
type EnhancedError struct {
	Err       error
	component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
	mu        sync.RWMutex
	detected  bool
}

func (ee *EnhancedError) Error() string  { return ee.Err.Error() }
func (ee *EnhancedError) Unwrap() error  { return ee.Err }

func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return Is(ee.Err, target)
}

// Component returns the component name, detecting it lazily from the call
// stack if the builder did not set one explicitly.
func (ee *EnhancedError) Component() string {
	ee.mu.RLock()
	if ee.detected {
		c := ee.component
		ee.mu.RUnlock()
		return c
	}
	ee.mu.RUnlock()

	ee.mu.Lock()
	defer ee.mu.Unlock()
	if !ee.detected {
		if ee.component == "" {
			ee.component = detectComponent()
		}
		ee.detected = true
	}
	return ee.component
}

// GetContext returns a copy of the error's context map.
func (ee *EnhancedError) GetContext() map[string]any {
	ee.mu.RLock()
	defer ee.mu.RUnlock()
	if ee.Context == nil {
		return nil
	}
	cp := make(map[string]any, len(ee.Context))
	maps.Copy(cp, ee.Context)
	return cp
}

// ErrorBuilder is a fluent constructor for EnhancedError.
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New starts a new error builder around err.
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf builds a formatted error.
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build materializes the EnhancedError. It never reports to telemetry
// itself — callers that want reporting pass the result to an explicit
// *telemetry.Reporter, keeping this package free of global state.
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
		detected:  eb.component != "",
	}
	if ee.Category == "" {
		ee.Category = CategoryGeneric
	}
	return ee
}

var (
	componentRegistry = make(map[string]string)
	registryMutex     sync.RWMutex
)

// RegisterComponent associates a package-path substring with a component
// name used by automatic detection.
func RegisterComponent(packagePattern, componentName string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	componentRegistry[packagePattern] = componentName
}

func init() {
	for _, pkg := range []string{"vad", "pitch", "gate", "calibrate", "media", "mixer", "pipeline", "config", "device", "store", "control", "mqttpublish", "telemetry"} {
		RegisterComponent(pkg, pkg)
	}
}

func detectComponent() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	for i := 0; i < n; i++ {
		fn := runtime.FuncForPC(pcs[i])
		if fn == nil {
			continue
		}
		name := fn.Name()
		if strings.Contains(name, "/internal/errors") {
			continue
		}
		if c := lookupComponent(name); c != "" {
			return c
		}
	}
	return ComponentUnknown
}

func lookupComponent(funcName string) string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	for pattern, component := range componentRegistry {
		if strings.Contains(funcName, pattern) {
			return component
		}
	}
	return ""
}

// Standard-library passthroughs, so this package can be used wherever
// the standard errors package would be.

func NewStd(text string) error       { return stderrors.New(text) }
func Is(err, target error) bool      { return stderrors.Is(err, target) }
func As(err error, target any) bool  { return stderrors.As(err, target) }
func Unwrap(err error) error         { return stderrors.Unwrap(err) }
func Join(errs ...error) error       { return stderrors.Join(errs...) }

// IsCategory reports whether err is an EnhancedError tagged with category.
func IsCategory(err error, category ErrorCategory) bool {
	var ee *EnhancedError
	return As(err, &ee) && ee.Category == category
}
