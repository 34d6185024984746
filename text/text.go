// Package text provides the measurement and shaping service the engine
// consumes during layout and paint. Layout only needs sizes; paint
// needs positioned glyphs. Both come from the same Shape call so a
// cache in front of a Measurer serves the whole frame.
//
// Two implementations ship: System, backed by go-text/typesetting's
// HarfBuzz shaper and real font files, and Fixed, a deterministic
// metrics table with no font dependency that drives tests and headless
// runs.
package text

import (
	"github.com/go-text/typesetting/font"

	"github.com/agiangrant/prism/geom"
)

// Style selects the size of a piece of text. LineHeight of 0 uses the
// face's natural line height.
type Style struct {
	Size       float32
	LineHeight float32
}

// Metrics are the scaled vertical metrics of a face at some size.
// Descent is a positive distance below the baseline.
type Metrics struct {
	Ascent  float32
	Descent float32
	LineGap float32
}

// LineHeight returns the natural distance between baselines.
func (m Metrics) LineHeight() float32 { return m.Ascent + m.Descent + m.LineGap }

func (s Style) lineHeight(m Metrics) float32 {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	return m.LineHeight()
}

// Glyph is one positioned glyph. X and Y are offsets from the line
// origin on the baseline; Cluster is the byte offset of the source
// character in the shaped string.
type Glyph struct {
	ID      uint32
	Cluster int
	X, Y    float32
	Advance float32
}

// Line is one laid-out line of a Shaped block. Baseline is measured
// from the top of the block; Start and End bound the source bytes the
// line covers.
type Line struct {
	Glyphs   []Glyph
	Width    float32
	Baseline float32
	Start    int
	End      int
}

// Shaped is the result of shaping and wrapping a string.
type Shaped struct {
	Lines   []Line
	Size    geom.Size
	Metrics Metrics
	Face    *Face
}

// Face is a handle to a loaded font the renderer can rasterize from.
// Faces created by Fixed carry no font.
type Face struct {
	fnt  *font.Font
	name string
}

// Name identifies the face for logging and debugging.
func (f *Face) Name() string { return f.name }

// Font exposes the parsed font, or nil for synthetic faces.
func (f *Face) Font() *font.Font { return f.fnt }

// Measurer is the engine's view of a text system. A maxWidth <= 0
// means no wrapping.
type Measurer interface {
	// Measure returns the size the text occupies when wrapped at
	// maxWidth.
	Measure(text string, style Style, maxWidth float32) geom.Size
	// Shape returns positioned glyphs for painting, wrapped the same
	// way Measure wraps.
	Shape(text string, style Style, maxWidth float32) *Shaped
}
