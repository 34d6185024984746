// Package geom holds the primitive value types shared by the layout
// solver, the scene, and the engine core: points, sizes, rectangles,
// edge/corner quads, and packed colors. All coordinates are float32
// logical pixels with the origin at the top left.
package geom

// Point is a position or a delta in logical pixels.
type Point struct {
	X, Y float32
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width, Height float32
}

// Bounds is an axis-aligned rectangle. Width or Height <= 0 means empty.
type Bounds struct {
	X, Y, Width, Height float32
}

// BoundsAt builds a Bounds from an origin and a size.
func BoundsAt(origin Point, size Size) Bounds {
	return Bounds{origin.X, origin.Y, size.Width, size.Height}
}

func (b Bounds) Right() float32  { return b.X + b.Width }
func (b Bounds) Bottom() float32 { return b.Y + b.Height }
func (b Bounds) Origin() Point   { return Point{b.X, b.Y} }
func (b Bounds) Size() Size      { return Size{b.Width, b.Height} }
func (b Bounds) Empty() bool     { return b.Width <= 0 || b.Height <= 0 }

// Contains reports whether p lies inside b. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height
}

// LocalPoint converts a point from the shared coordinate space into
// b's own space.
func (b Bounds) LocalPoint(p Point) Point {
	return Point{p.X - b.X, p.Y - b.Y}
}

// Offset returns b translated by d.
func (b Bounds) Offset(d Point) Bounds {
	return Bounds{b.X + d.X, b.Y + d.Y, b.Width, b.Height}
}

// Intersect returns the overlap of b and o. The result is empty when
// they do not overlap.
func (b Bounds) Intersect(o Bounds) Bounds {
	x0 := maxf(b.X, o.X)
	y0 := maxf(b.Y, o.Y)
	x1 := minf(b.Right(), o.Right())
	y1 := minf(b.Bottom(), o.Bottom())
	return Bounds{x0, y0, x1 - x0, y1 - y0}
}

// Union returns the smallest rectangle covering both b and o. Empty
// inputs are ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x0 := minf(b.X, o.X)
	y0 := minf(b.Y, o.Y)
	x1 := maxf(b.Right(), o.Right())
	y1 := maxf(b.Bottom(), o.Bottom())
	return Bounds{x0, y0, x1 - x0, y1 - y0}
}

// Inset shrinks b by e on each side.
func (b Bounds) Inset(e Edges) Bounds {
	return Bounds{
		X:      b.X + e.Left,
		Y:      b.Y + e.Top,
		Width:  b.Width - e.Left - e.Right,
		Height: b.Height - e.Top - e.Bottom,
	}
}

// Edges is a per-side quad of pixel values, used for padding, borders
// and margins.
type Edges struct {
	Top, Right, Bottom, Left float32
}

// EdgesAll returns Edges with the same value on every side.
func EdgesAll(v float32) Edges { return Edges{v, v, v, v} }

func (e Edges) Horizontal() float32 { return e.Left + e.Right }
func (e Edges) Vertical() float32   { return e.Top + e.Bottom }

// Corners is a per-corner quad of radii.
type Corners struct {
	TopLeft, TopRight, BottomRight, BottomLeft float32
}

// CornersAll returns Corners with the same radius in every corner.
func CornersAll(r float32) Corners { return Corners{r, r, r, r} }

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
