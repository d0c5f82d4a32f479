package grid

import "strings"

// Hooks are stable markers on tree nodes. Renderers map them to classes or
// styles and tests query by them.
const (
	HookGrid            = "grid"
	HookHeader          = "grid-header"
	HookHeaderCell      = "grid-header-cell"
	HookHeaderFocus     = "grid-header-cell-focused"
	HookSortGlyph       = "grid-sort"
	HookSortAscending   = "grid-sort-ascending"
	HookSortDescending  = "grid-sort-descending"
	HookSortUnsorted    = "grid-sort-unsorted"
	HookSelectionHeader = "grid-header-selection-cell"
	HookTitle           = "grid-title"
	HookBody            = "grid-body"
	HookRow             = "grid-row"
	HookRowSelected     = "grid-row-selected"
	HookRowUnselected   = "grid-row-unselected"
	HookRowCursor       = "grid-row-cursor"
	HookSelectionCell   = "grid-selection-cell"
	HookCheckbox        = "grid-checkbox"
	HookRadio           = "grid-radio"
	HookChecked         = "checked"
	HookUnchecked       = "unchecked"
	HookCell            = "grid-cell"
	HookDivider         = "grid-row-divider"
	HookCompactCell     = "grid-cell-compact"
	HookCompactHeader   = "grid-cell-compact-header"
	HookCompactText     = "grid-cell-compact-text"
	HookAlignLeft       = "left-aligned"
	HookAlignRight      = "right-aligned"
)

// Node is one element of the rendered grid. Width is in logical units and
// zero means natural width. Property is set on header cells and cells,
// Position on rows (-1 elsewhere).
type Node struct {
	Hooks    []string
	Text     string
	Width    int
	Align    Alignment
	Property string
	Position int
	Control  Control
	OnClick  func()
	Children []*Node
}

func newNode(hooks ...string) *Node {
	return &Node{Hooks: hooks, Position: -1}
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) Has(hook string) bool {
	if n == nil {
		return false
	}
	for _, h := range n.Hooks {
		if h == hook {
			return true
		}
	}
	return false
}

// Class joins the hooks with spaces.
func (n *Node) Class() string {
	return strings.Join(n.Hooks, " ")
}

// Click runs the node's click handler, if any, and reports whether one ran.
func (n *Node) Click() bool {
	if n == nil || n.OnClick == nil {
		return false
	}
	n.OnClick()
	return true
}

// Walk visits n and its descendants depth first, in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every node carrying hook, in document order.
func (n *Node) FindAll(hook string) []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.Has(hook) {
			out = append(out, node)
		}
	})
	return out
}

// Find returns the first node carrying hook, or nil.
func (n *Node) Find(hook string) *Node {
	if found := n.FindAll(hook); len(found) > 0 {
		return found[0]
	}
	return nil
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.Walk(func(node *Node) {
		b.WriteString(node.Text)
	})
	return b.String()
}

// HeaderCell returns the header cell for property, or nil.
func (n *Node) HeaderCell(property string) *Node {
	for _, cell := range n.FindAll(HookHeaderCell) {
		if cell.Property == property {
			return cell
		}
	}
	return nil
}

// Rows returns the row nodes in display order.
func (n *Node) Rows() []*Node {
	return n.FindAll(HookRow)
}
