package grid

// Control is a controlled boolean toggle. It holds no state of its own:
// Checked reflects what the grid passed in and Toggle only emits the change
// intent to the owner.
type Control interface {
	Checked() bool
	Toggle()
	Glyph() string
	Hook() string
}

// Checkbox reports the requested new value to onChange.
type Checkbox struct {
	checked  bool
	onChange func(bool)
}

func NewCheckbox(checked bool, onChange func(bool)) Checkbox {
	return Checkbox{checked: checked, onChange: onChange}
}

func (c Checkbox) Checked() bool { return c.checked }
func (c Checkbox) Hook() string  { return HookCheckbox }

func (c Checkbox) Toggle() {
	if c.onChange != nil {
		c.onChange(!c.checked)
	}
}

func (c Checkbox) Glyph() string {
	if c.checked {
		return "[x]"
	}
	return "[ ]"
}

// Radio reports activation only; it never asks to be unchecked.
type Radio struct {
	checked  bool
	onChange func()
}

func NewRadio(checked bool, onChange func()) Radio {
	return Radio{checked: checked, onChange: onChange}
}

func (r Radio) Checked() bool { return r.checked }
func (r Radio) Hook() string  { return HookRadio }

func (r Radio) Toggle() {
	if r.onChange != nil {
		r.onChange()
	}
}

func (r Radio) Glyph() string {
	if r.checked {
		return "(•)"
	}
	return "( )"
}

// controlWidth is the cell width of every control glyph.
const controlWidth = 3

// controlFor picks the toggle variant for a selection mode. It returns nil
// for SelectNone.
func controlFor(mode SelectionMode, checked bool, onSelect func()) Control {
	switch mode {
	case SelectSingle:
		return NewRadio(checked, onSelect)
	case SelectMultiple:
		return NewCheckbox(checked, func(bool) {
			if onSelect != nil {
				onSelect()
			}
		})
	default:
		return nil
	}
}
