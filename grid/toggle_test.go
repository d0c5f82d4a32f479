package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckboxReportsNegation(t *testing.T) {
	var got []bool
	on := NewCheckbox(true, func(v bool) { got = append(got, v) })
	off := NewCheckbox(false, func(v bool) { got = append(got, v) })

	on.Toggle()
	off.Toggle()

	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, on.Checked(), "checkbox must not change its own state")
	assert.Equal(t, "[x]", on.Glyph())
	assert.Equal(t, "[ ]", off.Glyph())
	assert.Equal(t, HookCheckbox, on.Hook())
}

func TestRadioReportsActivation(t *testing.T) {
	calls := 0
	r := NewRadio(false, func() { calls++ })
	r.Toggle()
	r.Toggle()

	assert.Equal(t, 2, calls)
	assert.False(t, r.Checked())
	assert.Equal(t, "( )", r.Glyph())
	assert.Equal(t, "(•)", NewRadio(true, nil).Glyph())
	assert.Equal(t, HookRadio, r.Hook())
}

func TestNilHandlersAreSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCheckbox(false, nil).Toggle()
		NewRadio(false, nil).Toggle()
	})
}

func TestControlFor(t *testing.T) {
	assert.Nil(t, controlFor(SelectNone, false, nil))

	single := controlFor(SelectSingle, true, nil)
	assert.IsType(t, Radio{}, single)
	assert.True(t, single.Checked())

	calls := 0
	multi := controlFor(SelectMultiple, false, func() { calls++ })
	assert.IsType(t, Checkbox{}, multi)
	multi.Toggle()
	assert.Equal(t, 1, calls)
}
