package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SetsDefaultsWhenUnspecified(t *testing.T) {
	ee := New(fmt.Errorf("boom")).Build()

	assert.Equal(t, "boom", ee.Error())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuild_HonorsExplicitFields(t *testing.T) {
	ee := New(fmt.Errorf("bad path")).
		Component("media").
		Category(CategoryMedia).
		Context("path", "guide.wav").
		Build()

	assert.Equal(t, "media", ee.Component())
	assert.Equal(t, CategoryMedia, ee.Category)
	assert.Equal(t, "guide.wav", ee.GetContext()["path"])
}

func TestComponent_DetectsFromCallStackWhenUnset(t *testing.T) {
	ee := New(fmt.Errorf("oops")).Build()
	// Called from this test file, not a registered component, so it
	// should fall back to ComponentUnknown rather than panic.
	assert.NotEmpty(t, ee.Component())
}

func TestGetContext_ReturnsIndependentCopy(t *testing.T) {
	ee := New(fmt.Errorf("x")).Context("n", 1).Build()
	cp := ee.GetContext()
	cp["n"] = 2
	assert.Equal(t, 1, ee.GetContext()["n"])
}

func TestUnwrapAndIs_PassThroughToStdlib(t *testing.T) {
	base := fmt.Errorf("base")
	ee := New(base).Build()

	require.ErrorIs(t, ee, base)
	assert.Equal(t, base, Unwrap(ee))
}

func TestIsCategory_MatchesOnlyTaggedCategory(t *testing.T) {
	ee := New(fmt.Errorf("x")).Category(CategoryDevice).Build()

	assert.True(t, IsCategory(ee, CategoryDevice))
	assert.False(t, IsCategory(ee, CategoryMixer))
}

func TestJoin_CombinesMultipleErrors(t *testing.T) {
	e1 := New(fmt.Errorf("first")).Build()
	e2 := New(fmt.Errorf("second")).Build()

	joined := Join(e1, e2)
	require.Error(t, joined)
	assert.ErrorIs(t, joined, e1)
	assert.ErrorIs(t, joined, e2)
}

func TestNewf_FormatsMessage(t *testing.T) {
	ee := Newf("device %q not found", "usb-mic").Build()
	assert.Equal(t, `device "usb-mic" not found`, ee.Error())
}
