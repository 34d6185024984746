// Package scene holds one frame's draw list: the ordered primitives a
// renderer backend consumes. The engine appends during paint, the
// backend reads Ops back in order; order is composition order, there
// is no z-index. Every op carries the clip that was in force when it
// was appended, already intersected down the ancestor stack, so the
// backend never needs clip state of its own.
package scene

import (
	"github.com/agiangrant/prism/geom"
	"github.com/agiangrant/prism/text"
)

// Op is one draw primitive: Quad, Shadow, or GlyphRun.
type Op interface{ op() }

// Quad is a filled and/or stroked rounded rectangle.
type Quad struct {
	Bounds      geom.Bounds
	Mask        geom.Bounds
	Background  geom.Color
	BorderColor geom.Color
	BorderWidth geom.Edges
	CornerRadii geom.Corners
}

func (Quad) op() {}

// Shadow is a blurred drop shadow cast by a rounded rectangle.
type Shadow struct {
	Bounds      geom.Bounds
	Mask        geom.Bounds
	Color       geom.Color
	Blur        float32
	Offset      geom.Point
	CornerRadii geom.Corners
}

func (Shadow) op() {}

// GlyphRun draws shaped glyphs. Origin is the baseline-left point of
// the run in window coordinates; glyph offsets are relative to it.
type GlyphRun struct {
	Origin geom.Point
	Mask   geom.Bounds
	Color  geom.Color
	Size   float32
	Face   *text.Face
	Glyphs []text.Glyph
}

func (GlyphRun) op() {}

// Scene accumulates ops for one frame. Reset reuses the backing
// storage, so a double-buffered pair of Scenes allocates only while
// the frame shape is still growing.
type Scene struct {
	ops   []Op
	clips []geom.Bounds
}

// New returns an empty scene.
func New() *Scene { return &Scene{} }

// Reset drops all ops and clips, keeping capacity.
func (s *Scene) Reset() {
	s.ops = s.ops[:0]
	s.clips = s.clips[:0]
}

// Ops returns the draw list in paint order. The slice is owned by the
// scene and valid until the next Reset.
func (s *Scene) Ops() []Op { return s.ops }

// Len reports the number of ops.
func (s *Scene) Len() int { return len(s.ops) }

// PushClip narrows the active clip to its intersection with b.
func (s *Scene) PushClip(b geom.Bounds) {
	s.clips = append(s.clips, s.Clip().Intersect(b))
}

// PopClip restores the clip in force before the matching PushClip.
func (s *Scene) PopClip() {
	if len(s.clips) > 0 {
		s.clips = s.clips[:len(s.clips)-1]
	}
}

// Clip returns the active clip. With nothing pushed it is effectively
// unbounded.
func (s *Scene) Clip() geom.Bounds {
	if len(s.clips) == 0 {
		return unbounded()
	}
	return s.clips[len(s.clips)-1]
}

// AddQuad appends a quad, stamping it with the active clip. Fully
// invisible or fully clipped quads are dropped.
func (s *Scene) AddQuad(q Quad) {
	if !q.Background.Visible() && !q.BorderColor.Visible() {
		return
	}
	q.Mask = s.Clip()
	if q.Mask.Intersect(q.Bounds).Empty() {
		return
	}
	s.ops = append(s.ops, q)
}

// AddShadow appends a shadow, stamping it with the active clip.
func (s *Scene) AddShadow(sh Shadow) {
	if !sh.Color.Visible() {
		return
	}
	sh.Mask = s.Clip()
	s.ops = append(s.ops, sh)
}

// AddGlyphRun appends a glyph run, stamping it with the active clip.
func (s *Scene) AddGlyphRun(r GlyphRun) {
	if len(r.Glyphs) == 0 || !r.Color.Visible() {
		return
	}
	r.Mask = s.Clip()
	s.ops = append(s.ops, r)
}

func unbounded() geom.Bounds {
	const big = float32(1 << 30)
	return geom.Bounds{X: -big, Y: -big, Width: 2 * big, Height: 2 * big}
}
