package prism

import "github.com/agiangrant/prism/geom"

// Style is the visual half of an element's appearance: what paint
// emits, as opposed to the LayoutStyle the solver consumes. The zero
// value paints nothing.
type Style struct {
	Background  geom.Color
	BorderColor geom.Color
	BorderWidth geom.Edges
	CornerRadii geom.Corners
	Shadow      *ShadowStyle

	// Text properties, consumed by text-bearing elements.
	TextColor  geom.Color
	TextSize   float32
	LineHeight float32
}

// ShadowStyle describes a drop shadow painted beneath an element.
type ShadowStyle struct {
	Color  geom.Color
	Blur   float32
	Offset geom.Point
}

// visible reports whether the style paints any box decoration.
func (s *Style) visible() bool {
	return s.Background.Visible() || s.BorderColor.Visible() || s.Shadow != nil
}
