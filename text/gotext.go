package text

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/agiangrant/prism/geom"
)

// System is a Measurer backed by a real font through go-text's
// HarfBuzz shaper: kerning, ligatures, and complex scripts come out
// correctly positioned. Mixed-direction text is segmented with the
// Unicode bidi algorithm and shaped run by run in visual order.
//
// The parsed font.Font is read-only and shared; HarfbuzzShaper
// instances carry mutable buffers and are pooled, and a lightweight
// font.Face is created per call, so a System may be shared between
// windows.
type System struct {
	face    *Face
	shapers sync.Pool
}

// NewSystem parses TTF/OTF font data and returns a System using it.
func NewSystem(fontData []byte) (*System, error) {
	parsed, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &System{
		face: &Face{fnt: parsed.Font, name: "system"},
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}, nil
}

// Face returns the loaded face glyph runs will reference.
func (s *System) Face() *Face { return s.face }

// Measure implements Measurer.
func (s *System) Measure(text string, style Style, maxWidth float32) geom.Size {
	return s.Shape(text, style, maxWidth).Size
}

// Shape implements Measurer. Paragraphs split on '\n'; within a
// paragraph, lines break greedily at spaces when maxWidth > 0.
func (s *System) Shape(text string, style Style, maxWidth float32) *Shaped {
	shaped := &Shaped{Face: s.face}
	var m Metrics

	off := 0
	for _, para := range strings.Split(text, "\n") {
		glyphs, pm := s.shapeParagraph(para, style)
		m = mergeMetrics(m, pm)
		for _, line := range breakGlyphs(para, glyphs, maxWidth) {
			for gi := range line.Glyphs {
				line.Glyphs[gi].Cluster += off
			}
			line.Start += off
			line.End += off
			shaped.Lines = append(shaped.Lines, line)
		}
		off += len(para) + 1
	}

	if m == (Metrics{}) {
		// nothing shaped (empty or whitespace-free input); prime the
		// vertical metrics so empty labels still occupy a line
		_, m = s.shapeParagraph("x", style)
	}
	lh := style.lineHeight(m)
	var maxW float32
	for i := range shaped.Lines {
		shaped.Lines[i].Baseline = m.Ascent + float32(i)*lh
		if w := shaped.Lines[i].Width; w > maxW {
			maxW = w
		}
	}
	shaped.Metrics = m
	shaped.Size = geom.Size{Width: maxW, Height: float32(len(shaped.Lines)) * lh}
	return shaped
}

// shapeParagraph shapes one newline-free string into glyphs positioned
// on a single unbounded line, with clusters as byte offsets into para.
func (s *System) shapeParagraph(para string, style Style) ([]Glyph, Metrics) {
	var m Metrics
	if para == "" {
		return nil, m
	}

	sh := s.shapers.Get().(*shaping.HarfbuzzShaper)
	defer s.shapers.Put(sh)
	fc := font.NewFace(s.face.fnt)

	var glyphs []Glyph
	x := float32(0)

	shapeRun := func(str string, start int, dir di.Direction) {
		runes := []rune(str)
		if len(runes) == 0 {
			return
		}
		byteOff := make([]int, len(runes)+1)
		bo := 0
		for ri, r := range runes {
			byteOff[ri] = bo
			bo += utf8.RuneLen(r)
		}
		byteOff[len(runes)] = len(str)

		out := sh.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Face:      fc,
			Size:      fixed.Int26_6(style.Size * 64),
			Script:    scriptOf(runes),
			Language:  language.NewLanguage("en"),
		})
		m = mergeMetrics(m, Metrics{
			Ascent:  f26(out.LineBounds.Ascent),
			Descent: -f26(out.LineBounds.Descent),
			LineGap: f26(out.LineBounds.Gap),
		})
		for _, g := range out.Glyphs {
			ri := g.TextIndex()
			if ri < 0 {
				ri = 0
			}
			if ri > len(runes) {
				ri = len(runes)
			}
			glyphs = append(glyphs, Glyph{
				ID:      uint32(g.GlyphID),
				Cluster: start + byteOff[ri],
				X:       x + f26(g.XOffset),
				Y:       f26(g.YOffset),
				Advance: f26(g.Advance),
			})
			x += f26(g.Advance)
		}
	}

	var p bidi.Paragraph
	if _, err := p.SetString(para); err == nil {
		if order, err := p.Order(); err == nil {
			for i := 0; i < order.NumRuns(); i++ {
				run := order.Run(i)
				start, _ := run.Pos()
				d := di.DirectionLTR
				if run.Direction() == bidi.RightToLeft {
					d = di.DirectionRTL
				}
				shapeRun(run.String(), start, d)
			}
			return glyphs, m
		}
	}
	shapeRun(para, 0, di.DirectionLTR)
	return glyphs, m
}

// breakGlyphs splits a shaped paragraph into lines at space clusters,
// or mid-word when a single word exceeds maxWidth. Glyph X positions
// are rebased to each line's origin.
func breakGlyphs(para string, glyphs []Glyph, maxWidth float32) []Line {
	if maxWidth <= 0 || len(glyphs) == 0 {
		w := float32(0)
		for _, g := range glyphs {
			if r := g.X + g.Advance; r > w {
				w = r
			}
		}
		return []Line{{Glyphs: glyphs, Width: w, Start: 0, End: len(para)}}
	}

	var lines []Line
	lineStart := 0 // glyph index
	baseX := float32(0)
	lastSpace := -1

	flush := func(end int) {
		seg := glyphs[lineStart:end]
		w := float32(0)
		for gi := range seg {
			seg[gi].X -= baseX
			if r := seg[gi].X + seg[gi].Advance; r > w {
				w = r
			}
		}
		line := Line{Glyphs: seg, Width: w, Start: 0, End: len(para)}
		if len(seg) > 0 {
			line.Start = minCluster(seg)
			line.End = maxClusterEnd(seg, para)
		} else if len(lines) > 0 {
			line.Start = lines[len(lines)-1].End
			line.End = line.Start
		}
		lines = append(lines, line)
		lineStart = end
		if end < len(glyphs) {
			baseX = glyphs[end].X
		}
		lastSpace = -1
	}

	for i, g := range glyphs {
		if i > lineStart && g.X+g.Advance-baseX > maxWidth {
			if lastSpace >= lineStart {
				flush(lastSpace + 1)
			} else {
				flush(i)
			}
		}
		if c := g.Cluster; c < len(para) && para[c] == ' ' {
			lastSpace = i
		}
	}
	flush(len(glyphs))
	return lines
}

func minCluster(glyphs []Glyph) int {
	m := glyphs[0].Cluster
	for _, g := range glyphs[1:] {
		if g.Cluster < m {
			m = g.Cluster
		}
	}
	return m
}

func maxClusterEnd(glyphs []Glyph, para string) int {
	m := glyphs[0].Cluster
	for _, g := range glyphs[1:] {
		if g.Cluster > m {
			m = g.Cluster
		}
	}
	// extend to the end of the rune starting at the max cluster
	if m < len(para) {
		_, sz := utf8.DecodeRuneInString(para[m:])
		return m + sz
	}
	return m
}

func mergeMetrics(a, b Metrics) Metrics {
	if b.Ascent > a.Ascent {
		a.Ascent = b.Ascent
	}
	if b.Descent > a.Descent {
		a.Descent = b.Descent
	}
	if b.LineGap > a.LineGap {
		a.LineGap = b.LineGap
	}
	return a
}

// scriptOf returns the script of the first non-space rune.
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func f26(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
