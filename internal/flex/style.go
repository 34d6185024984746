// Package flex implements the flexbox solve used by the layout engine.
// It is a self-contained pass over a throwaway node tree: the engine
// rebuilds the tree every frame, calls Calculate, and reads back
// resolved rectangles. All style sizes are border-box.
package flex

import "github.com/agiangrant/prism/geom"

// Unit discriminates the dimension value kinds. The zero value is Auto
// so a zero Style is fully automatic.
type Unit uint8

const (
	UnitAuto Unit = iota
	UnitPx
	UnitPercent
)

// Value is a dimension: auto, pixels, or a percentage of the parent's
// content box (0-100).
type Value struct {
	Unit Unit
	Val  float32
}

func Auto() Value              { return Value{} }
func Px(v float32) Value       { return Value{UnitPx, v} }
func Percent(v float32) Value  { return Value{UnitPercent, v} }
func (v Value) IsAuto() bool   { return v.Unit == UnitAuto }

// resolve turns a Value into pixels. Percent needs a definite base;
// auto and unresolvable percent report ok=false.
func (v Value) resolve(base float32, baseOK bool) (float32, bool) {
	switch v.Unit {
	case UnitPx:
		return v.Val, true
	case UnitPercent:
		if baseOK {
			return v.Val * base / 100, true
		}
	}
	return 0, false
}

// Direction is the main axis of a flex container.
type Direction uint8

const (
	Row Direction = iota
	Column
	RowReverse
	ColumnReverse
)

func (d Direction) horizontal() bool { return d == Row || d == RowReverse }
func (d Direction) reversed() bool   { return d == RowReverse || d == ColumnReverse }

// Justify distributes leftover main-axis space.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align places items on the cross axis. The zero value is Stretch,
// matching the CSS default for align-items and align-content.
type Align uint8

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Position selects flow layout or absolute positioning via Inset.
type Position uint8

const (
	Relative Position = iota
	Absolute
)

// Display removes a node from layout entirely when None.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

// Inset is the offset box for absolutely positioned nodes. Auto sides
// are unset.
type Inset struct {
	Top, Right, Bottom, Left Value
}

// Style carries every layout-affecting property of a node.
type Style struct {
	Display   Display
	Position  Position
	Direction Direction
	Wrap      bool

	Justify      Justify
	AlignItems   Align
	AlignSelf    *Align // nil inherits the container's AlignItems
	AlignContent Align

	Width, Height       Value
	MinWidth, MinHeight Value
	MaxWidth, MaxHeight Value
	AspectRatio         float32 // width/height, 0 = none

	FlexGrow   float32
	FlexShrink float32
	FlexBasis  Value

	RowGap    float32 // vertical gap between rows
	ColumnGap float32 // horizontal gap between columns

	Padding geom.Edges
	Border  geom.Edges
	Margin  geom.Edges

	Inset Inset
}

// DefaultStyle returns the style new nodes should start from. Only
// FlexShrink differs from the zero value: CSS items shrink by default.
func DefaultStyle() Style {
	return Style{FlexShrink: 1}
}

func (s *Style) alignFor(container *Style) Align {
	if s.AlignSelf != nil {
		return *s.AlignSelf
	}
	return container.AlignItems
}

// MeasureMode qualifies one axis of the space offered to a measure
// function.
type MeasureMode uint8

const (
	// MeasureUndefined offers unbounded space: size to content.
	MeasureUndefined MeasureMode = iota
	// MeasureExactly demands exactly the offered size.
	MeasureExactly
	// MeasureAtMost offers an upper bound: size to content, capped.
	MeasureAtMost
)

// MeasureFunc reports the content size of a leaf given the offered
// space. Text is the usual client: width drives wrapping, the returned
// height follows.
type MeasureFunc func(width float32, widthMode MeasureMode, height float32, heightMode MeasureMode) geom.Size
