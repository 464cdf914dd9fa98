package telemetry

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

func TestNew_EmptyDSNIsNoOp(t *testing.T) {
	r, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.False(t, r.enabled)
}

func TestReport_NilReporterAndNilErrorAreSafe(t *testing.T) {
	var r *Reporter
	assert.NotPanics(t, func() { r.Report(fmt.Errorf("x")) })

	r, err := New(Config{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { r.Report(nil) })
}

func TestReport_DisabledReporterDoesNotPanicOnEnhancedError(t *testing.T) {
	r, err := New(Config{})
	require.NoError(t, err)

	ee := errors.New(fmt.Errorf("load failed")).
		Component("media").
		Category(errors.CategoryMedia).
		Build()

	assert.NotPanics(t, func() { r.Report(ee) })
}

func TestClose_NilReporterAndDisabledReporterAreSafe(t *testing.T) {
	var r *Reporter
	assert.NotPanics(t, func() { r.Close(time.Millisecond) })

	r, err := New(Config{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { r.Close(time.Millisecond) })
}
