package prism

import "github.com/agiangrant/prism/geom"

// ScrollHandleID identifies one scroll container's state in the
// window's scroll table. Zero means "no handle". Allocate with
// Window.AllocScrollHandle and keep the id in element state so the
// same container finds its offset again next frame.
type ScrollHandleID uint64

// ScrollState holds one scroll container's offset and the two sizes
// that bound it. The offset is re-clamped on every mutation, so
// readers can rely on 0 <= offset <= max(0, content-viewport) at all
// times, componentwise.
type ScrollState struct {
	offset   geom.Point
	content  geom.Size
	viewport geom.Size
}

// Offset returns the current scroll offset.
func (s *ScrollState) Offset() geom.Point { return s.offset }

// ContentSize returns the scrollable content extent.
func (s *ScrollState) ContentSize() geom.Size { return s.content }

// ViewportSize returns the visible region size.
func (s *ScrollState) ViewportSize() geom.Size { return s.viewport }

// MaxOffset returns the largest valid offset for the current sizes.
func (s *ScrollState) MaxOffset() geom.Point {
	return geom.Point{
		X: maxf32(0, s.content.Width-s.viewport.Width),
		Y: maxf32(0, s.content.Height-s.viewport.Height),
	}
}

// ScrollBy moves the offset by (dx, dy), clamped.
func (s *ScrollState) ScrollBy(dx, dy float32) {
	s.offset.X += dx
	s.offset.Y += dy
	s.clamp()
}

// SetOffset sets the offset directly, clamped.
func (s *ScrollState) SetOffset(x, y float32) {
	s.offset = geom.Point{X: x, Y: y}
	s.clamp()
}

// SetContentSize records the content extent measured during prepaint.
// Shrinking content pulls an out-of-range offset back in.
func (s *ScrollState) SetContentSize(size geom.Size) {
	s.content = size
	s.clamp()
}

// SetViewportSize records the container's inner size. Growing the
// viewport pulls an out-of-range offset back in.
func (s *ScrollState) SetViewportSize(size geom.Size) {
	s.viewport = size
	s.clamp()
}

func (s *ScrollState) clamp() {
	max := s.MaxOffset()
	s.offset.X = clampf32(s.offset.X, 0, max.X)
	s.offset.Y = clampf32(s.offset.Y, 0, max.Y)
}

// ScrollIntoViewY adjusts the vertical offset just enough to reveal
// the span [top, bottom) in content coordinates, with padding from the
// viewport edges. Already-visible spans leave the offset untouched.
func (s *ScrollState) ScrollIntoViewY(top, bottom, padding float32) {
	visibleTop := s.offset.Y + padding
	visibleBottom := s.offset.Y + s.viewport.Height - padding
	if top >= visibleTop && bottom <= visibleBottom {
		return
	}

	target := s.offset.Y
	if bottom > visibleBottom {
		target = bottom - s.viewport.Height + padding
		// Never push the span's top above the padded viewport top.
		if limit := top - padding; target > limit {
			target = limit
		}
	} else if top < visibleTop {
		target = top - padding
	}
	s.SetOffset(s.offset.X, target)
}

// scrollEntry pairs a state with the frame it was last visited, for
// the same mark-and-sweep lifecycle element state uses.
type scrollEntry struct {
	state     *ScrollState
	lastFrame uint64
}

// scrollTable maps handle ids to scroll states. One per window.
type scrollTable struct {
	entries map[ScrollHandleID]*scrollEntry
}

func newScrollTable() *scrollTable {
	return &scrollTable{entries: make(map[ScrollHandleID]*scrollEntry)}
}

// visit returns the state for id, creating it on first use, and marks
// it live for the given frame.
func (t *scrollTable) visit(id ScrollHandleID, frame uint64) *ScrollState {
	e := t.entries[id]
	if e == nil {
		e = &scrollEntry{state: &ScrollState{}}
		t.entries[id] = e
	}
	e.lastFrame = frame
	return e.state
}

// lookup returns the state for id without marking it, or nil. Dispatch
// uses this between frames.
func (t *scrollTable) lookup(id ScrollHandleID) *ScrollState {
	if e := t.entries[id]; e != nil {
		return e.state
	}
	return nil
}

// sweep drops every state not visited during frame.
func (t *scrollTable) sweep(frame uint64) {
	for id, e := range t.entries {
		if e.lastFrame != frame {
			delete(t.entries, id)
		}
	}
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
