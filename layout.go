package prism

import (
	"github.com/agiangrant/prism/geom"
	"github.com/agiangrant/prism/internal/flex"
)

// LayoutID is the handle the layout engine returns when a node's style
// and children are submitted. Handles are owned by the engine for the
// frame's duration and invalidated by the next frame's clear. Zero is
// never a valid handle.
type LayoutID uint32

// Re-exports of the solver vocabulary element authors need to declare
// styles, so implementing Element never requires reaching into
// internal packages.
type (
	LayoutStyle = flex.Style
	Value       = flex.Value
	Direction   = flex.Direction
	Justify     = flex.Justify
	Align       = flex.Align
	Position    = flex.Position
	Display     = flex.Display
	Inset       = flex.Inset
	MeasureMode = flex.MeasureMode
	MeasureFunc = flex.MeasureFunc
)

const (
	Row           = flex.Row
	Column        = flex.Column
	RowReverse    = flex.RowReverse
	ColumnReverse = flex.ColumnReverse

	JustifyStart        = flex.JustifyStart
	JustifyCenter       = flex.JustifyCenter
	JustifyEnd          = flex.JustifyEnd
	JustifySpaceBetween = flex.JustifySpaceBetween
	JustifySpaceAround  = flex.JustifySpaceAround
	JustifySpaceEvenly  = flex.JustifySpaceEvenly

	AlignStretch = flex.AlignStretch
	AlignStart   = flex.AlignStart
	AlignCenter  = flex.AlignCenter
	AlignEnd     = flex.AlignEnd

	Relative = flex.Relative
	Absolute = flex.Absolute

	DisplayFlex = flex.DisplayFlex
	DisplayNone = flex.DisplayNone

	MeasureUndefined = flex.MeasureUndefined
	MeasureExactly   = flex.MeasureExactly
	MeasureAtMost    = flex.MeasureAtMost
)

// Px is a pixel dimension value.
func Px(v float32) Value { return flex.Px(v) }

// Percent is a percentage of the parent's content box.
func Percent(v float32) Value { return flex.Percent(v) }

// AutoValue is the automatic dimension value.
func AutoValue() Value { return flex.Auto() }

// DefaultLayoutStyle returns the CSS-default style: items shrink.
// The zero LayoutStyle differs only in FlexShrink 0, which containers
// whose content must overflow (scrollers) rely on.
func DefaultLayoutStyle() LayoutStyle { return flex.DefaultStyle() }

// LayoutEngine wraps the flexbox solver behind frame-scoped handles.
// Nodes are registered during request-layout, solved once per frame,
// and read back by handle during prepaint and paint.
type LayoutEngine struct {
	nodes []*flex.Node
}

// NewLayoutEngine returns an empty engine.
func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{}
}

// Clear invalidates every handle. Called at the start of each frame.
func (e *LayoutEngine) Clear() {
	e.nodes = e.nodes[:0]
}

// Len returns the number of registered nodes this frame.
func (e *LayoutEngine) Len() int { return len(e.nodes) }

// Request registers a node with the given style and children and
// returns its handle.
func (e *LayoutEngine) Request(style LayoutStyle, children ...LayoutID) LayoutID {
	n := &flex.Node{Style: style}
	if len(children) > 0 {
		n.Children = make([]*flex.Node, len(children))
		for i, c := range children {
			n.Children[i] = e.node(c)
		}
	}
	e.nodes = append(e.nodes, n)
	return LayoutID(len(e.nodes))
}

// RequestMeasured registers a leaf whose content size comes from
// measure.
func (e *LayoutEngine) RequestMeasured(style LayoutStyle, measure MeasureFunc) LayoutID {
	n := &flex.Node{Style: style, Measure: measure}
	e.nodes = append(e.nodes, n)
	return LayoutID(len(e.nodes))
}

// Solve lays out the tree rooted at root within avail. Positions are
// stored per node relative to its parent; the walk contexts accumulate
// absolute origins.
func (e *LayoutEngine) Solve(root LayoutID, avail geom.Size) {
	flex.Calculate(e.node(root), avail.Width, avail.Height)
}

// SolveDetached lays out a subtree that is not part of the main tree.
// Negative available dimensions are unconstrained: the subtree sizes
// to content on that axis. Virtualized list items are solved this way,
// one at a time, after the main solve.
func (e *LayoutEngine) SolveDetached(id LayoutID, availWidth, availHeight float32) {
	flex.Calculate(e.node(id), availWidth, availHeight)
}

// RelBounds returns id's solved rectangle relative to its parent (or
// to the solve origin for roots).
func (e *LayoutEngine) RelBounds(id LayoutID) geom.Bounds {
	return e.node(id).Layout.Bounds()
}

// ContentSize returns the extent of id's in-flow content from its
// padding-box origin. Exceeds the node's own size when content
// overflows.
func (e *LayoutEngine) ContentSize(id LayoutID) geom.Size {
	return e.node(id).ContentSize
}

func (e *LayoutEngine) node(id LayoutID) *flex.Node {
	return e.nodes[id-1]
}
