package text

import "github.com/agiangrant/prism/geom"

// Fixed is a Measurer with synthetic, perfectly regular metrics: every
// glyph advances the same em fraction. It needs no font files, so it
// backs tests, examples, and headless windows where real shaping is
// irrelevant. Sizes it reports are exact and reproducible.
type Fixed struct {
	// Advance is the width of every glyph as a fraction of the em.
	Advance float32
	// Ascent and Descent are em fractions; together they set the
	// natural line height.
	Ascent  float32
	Descent float32

	face Face
}

// NewFixed returns a Fixed with monospace-like proportions.
func NewFixed() *Fixed {
	return &Fixed{
		Advance: 0.6,
		Ascent:  0.8,
		Descent: 0.2,
		face:    Face{name: "fixed"},
	}
}

// Face returns the synthetic face glyph runs will reference.
func (f *Fixed) Face() *Face { return &f.face }

// MetricsFor returns the scaled metrics at the style's size.
func (f *Fixed) MetricsFor(style Style) Metrics {
	return Metrics{
		Ascent:  f.Ascent * style.Size,
		Descent: f.Descent * style.Size,
	}
}

// Measure implements Measurer.
func (f *Fixed) Measure(text string, style Style, maxWidth float32) geom.Size {
	return f.Shape(text, style, maxWidth).Size
}

// Shape implements Measurer. Lines break at spaces, or mid-word when a
// single word exceeds maxWidth; '\n' always breaks. Empty text still
// occupies one line of height.
func (f *Fixed) Shape(text string, style Style, maxWidth float32) *Shaped {
	m := f.MetricsFor(style)
	lh := style.lineHeight(m)
	adv := f.Advance * style.Size

	shaped := &Shaped{Metrics: m, Face: &f.face}
	var (
		glyphs    []Glyph
		lineStart = 0
		width     = float32(0)
		lastSpace = -1 // index into glyphs of the last space on this line
		maxW      = float32(0)
	)

	flush := func(end int) {
		line := Line{
			Glyphs:   glyphs,
			Width:    width,
			Baseline: m.Ascent + float32(len(shaped.Lines))*lh,
			Start:    lineStart,
			End:      end,
		}
		if width > maxW {
			maxW = width
		}
		shaped.Lines = append(shaped.Lines, line)
		glyphs = nil
		width = 0
		lastSpace = -1
	}

	for i, r := range text {
		if r == '\n' {
			flush(i)
			lineStart = i + len("\n")
			continue
		}
		if maxWidth > 0 && width+adv > maxWidth && len(glyphs) > 0 {
			if lastSpace >= 0 {
				// break after the space; carry the tail to a new line
				tail := glyphs[lastSpace+1:]
				head := glyphs[:lastSpace+1]
				ts := tailStart(tail, i)
				glyphs, width = head, float32(len(head))*adv
				flush(ts)
				lineStart = ts
				for ti := range tail {
					tail[ti].X = float32(ti) * adv
				}
				glyphs = append(glyphs, tail...)
				width = float32(len(tail)) * adv
			} else {
				flush(i)
				lineStart = i
			}
		}
		glyphs = append(glyphs, Glyph{
			ID:      uint32(r),
			Cluster: i,
			X:       width,
			Advance: adv,
		})
		width += adv
		if r == ' ' {
			lastSpace = len(glyphs) - 1
		}
	}
	flush(len(text))

	shaped.Size = geom.Size{Width: maxW, Height: float32(len(shaped.Lines)) * lh}
	return shaped
}

// tailStart returns the source offset the carried-over glyphs begin
// at, falling back to the current position for an empty tail.
func tailStart(tail []Glyph, fallback int) int {
	if len(tail) > 0 {
		return tail[0].Cluster
	}
	return fallback
}
