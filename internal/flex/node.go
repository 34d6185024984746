package flex

import "github.com/agiangrant/prism/geom"

// Layout is the resolved border-box rectangle of a node. X and Y are
// relative to the parent's border box; the solve root sits at (0, 0).
type Layout struct {
	X, Y, Width, Height float32
}

// Bounds returns the layout as a rectangle.
func (l Layout) Bounds() geom.Bounds {
	return geom.Bounds{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// Node is one box in the tree handed to Calculate. Nodes are built
// fresh for every solve; Calculate fills Layout and ContentSize.
type Node struct {
	Style    Style
	Children []*Node

	// Measure reports the content size of a leaf. Ignored when the
	// node has children.
	Measure MeasureFunc

	// Layout is the solved rectangle, valid after Calculate.
	Layout Layout

	// ContentSize is the extent of in-flow children plus padding,
	// measured from the padding-box origin. It can exceed the node's
	// own size when content overflows; scrolling reads it.
	ContentSize geom.Size

	// solver scratch, meaningful only mid-solve
	flexBase   float32
	hypoMain   float32
	targetMain float32
	hypoCross  float32
	frozen     bool
	violation  float32
	mainPos    float32
	crossPos   float32
}

// NewNode returns a node with the default style.
func NewNode() *Node {
	return &Node{Style: DefaultStyle()}
}
