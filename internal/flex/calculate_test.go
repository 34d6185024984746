package flex

import (
	"testing"

	"github.com/agiangrant/prism/geom"
)

func TestCalculateRow(t *testing.T) {
	tests := map[string]struct {
		build func() *Node
		want  []Layout // one per child, in order
	}{
		"fixed widths stretch to container height": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(100), Height: Px(50)},
					Children: []*Node{
						{Style: Style{Width: Px(30)}},
						{Style: Style{Width: Px(50)}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 30, Height: 50},
				{X: 30, Y: 0, Width: 50, Height: 50},
			},
		},
		"grow fills free space": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(200), Height: Px(40)},
					Children: []*Node{
						{Style: Style{FlexGrow: 1}},
						{Style: Style{Width: Px(50)}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 150, Height: 40},
				{X: 150, Y: 0, Width: 50, Height: 40},
			},
		},
		"grow splits by factor": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(200), Height: Px(40)},
					Children: []*Node{
						{Style: Style{FlexGrow: 1}},
						{Style: Style{FlexGrow: 3}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 50, Height: 40},
				{X: 50, Y: 0, Width: 150, Height: 40},
			},
		},
		"shrink divides overflow by scaled factor": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(100), Height: Px(40)},
					Children: []*Node{
						{Style: Style{Width: Px(80), FlexShrink: 1}},
						{Style: Style{Width: Px(80), FlexShrink: 1}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 50, Height: 40},
				{X: 50, Y: 0, Width: 50, Height: 40},
			},
		},
		"shrink respects min width": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(100), Height: Px(40)},
					Children: []*Node{
						{Style: Style{Width: Px(80), MinWidth: Px(70), FlexShrink: 1}},
						{Style: Style{Width: Px(80), FlexShrink: 1}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 70, Height: 40},
				{X: 70, Y: 0, Width: 30, Height: 40},
			},
		},
		"gap between items": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(100), Height: Px(20), ColumnGap: 10},
					Children: []*Node{
						{Style: Style{Width: Px(20)}},
						{Style: Style{Width: Px(20)}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 20, Height: 20},
				{X: 30, Y: 0, Width: 20, Height: 20},
			},
		},
		"padding and border offset children": {
			build: func() *Node {
				return &Node{
					Style: Style{
						Width: Px(100), Height: Px(100),
						Padding: geom.EdgesAll(10),
						Border:  geom.EdgesAll(5),
					},
					Children: []*Node{{Style: Style{Width: Px(20)}}},
				}
			},
			want: []Layout{{X: 15, Y: 15, Width: 20, Height: 70}},
		},
		"percent resolves against content box": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(200), Height: Px(50)},
					Children: []*Node{
						{Style: Style{Width: Percent(50)}},
						{Style: Style{Width: Percent(25)}},
					},
				}
			},
			want: []Layout{
				{X: 0, Y: 0, Width: 100, Height: 50},
				{X: 100, Y: 0, Width: 50, Height: 50},
			},
		},
		"margins push items apart": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(100), Height: Px(50)},
					Children: []*Node{
						{Style: Style{Width: Px(20), Margin: geom.Edges{Left: 5, Right: 5}}},
						{Style: Style{Width: Px(20), Margin: geom.Edges{Top: 10}}},
					},
				}
			},
			want: []Layout{
				{X: 5, Y: 0, Width: 20, Height: 50},
				{X: 30, Y: 10, Width: 20, Height: 40},
			},
		},
		"row reverse mirrors positions": {
			build: func() *Node {
				return &Node{
					Style: Style{Direction: RowReverse, Width: Px(100), Height: Px(20)},
					Children: []*Node{
						{Style: Style{Width: Px(30)}},
						{Style: Style{Width: Px(20)}},
					},
				}
			},
			want: []Layout{
				{X: 70, Y: 0, Width: 30, Height: 20},
				{X: 50, Y: 0, Width: 20, Height: 20},
			},
		},
		"display none removes from flow": {
			build: func() *Node {
				return &Node{
					Style: Style{Width: Px(100), Height: Px(20)},
					Children: []*Node{
						{Style: Style{Width: Px(30), Display: DisplayNone}},
						{Style: Style{FlexGrow: 1}},
					},
				}
			},
			want: []Layout{
				{},
				{X: 0, Y: 0, Width: 100, Height: 20},
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := tt.build()
			Calculate(root, -1, -1)
			for i, want := range tt.want {
				if got := root.Children[i].Layout; got != want {
					t.Errorf("child %d layout = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestCalculateJustify(t *testing.T) {
	build := func(j Justify) *Node {
		return &Node{
			Style: Style{Width: Px(100), Height: Px(20), Justify: j},
			Children: []*Node{
				{Style: Style{Width: Px(20)}},
				{Style: Style{Width: Px(20)}},
			},
		}
	}
	tests := map[string]struct {
		justify Justify
		wantX   [2]float32
	}{
		"start":         {JustifyStart, [2]float32{0, 20}},
		"center":        {JustifyCenter, [2]float32{30, 50}},
		"end":           {JustifyEnd, [2]float32{60, 80}},
		"space between": {JustifySpaceBetween, [2]float32{0, 80}},
		"space around":  {JustifySpaceAround, [2]float32{15, 65}},
		"space evenly":  {JustifySpaceEvenly, [2]float32{20, 60}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := build(tt.justify)
			Calculate(root, -1, -1)
			for i, want := range tt.wantX {
				if got := root.Children[i].Layout.X; got != want {
					t.Errorf("child %d x = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestCalculateAlign(t *testing.T) {
	build := func(items Align, self *Align) *Node {
		return &Node{
			Style: Style{Width: Px(100), Height: Px(60), AlignItems: items},
			Children: []*Node{
				{Style: Style{Width: Px(20), Height: Px(30), AlignSelf: self}},
			},
		}
	}
	self := AlignEnd
	tests := map[string]struct {
		items Align
		self  *Align
		wantY float32
	}{
		"start":               {AlignStart, nil, 0},
		"center":              {AlignCenter, nil, 15},
		"end":                 {AlignEnd, nil, 30},
		"self overrides items": {AlignStart, &self, 30},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := build(tt.items, tt.self)
			Calculate(root, -1, -1)
			if got := root.Children[0].Layout.Y; got != tt.wantY {
				t.Errorf("y = %v, want %v", got, tt.wantY)
			}
		})
	}
}

func TestCalculateColumn(t *testing.T) {
	root := &Node{
		Style: Style{Direction: Column, Width: Px(100), Height: Px(200), RowGap: 10},
		Children: []*Node{
			{Style: Style{Height: Px(40)}},
			{Style: Style{FlexGrow: 1}},
			{Style: Style{Height: Px(30)}},
		},
	}
	Calculate(root, -1, -1)
	want := []Layout{
		{X: 0, Y: 0, Width: 100, Height: 40},
		{X: 0, Y: 50, Width: 100, Height: 110},
		{X: 0, Y: 170, Width: 100, Height: 30},
	}
	for i, w := range want {
		if got := root.Children[i].Layout; got != w {
			t.Errorf("child %d layout = %+v, want %+v", i, got, w)
		}
	}
}

func TestCalculateNested(t *testing.T) {
	inner := &Node{
		Style: Style{Direction: Column, Width: Px(80)},
		Children: []*Node{
			{Style: Style{Height: Px(20)}},
			{Style: Style{Height: Px(30)}},
		},
	}
	root := &Node{
		Style:    Style{Width: Px(200), Height: Px(100), Padding: geom.EdgesAll(10)},
		Children: []*Node{inner},
	}
	Calculate(root, -1, -1)

	if got, want := inner.Layout, (Layout{X: 10, Y: 10, Width: 80, Height: 80}); got != want {
		t.Fatalf("inner layout = %+v, want %+v", got, want)
	}
	// grandchildren are relative to the inner container
	if got, want := inner.Children[0].Layout, (Layout{X: 0, Y: 0, Width: 80, Height: 20}); got != want {
		t.Errorf("first grandchild layout = %+v, want %+v", got, want)
	}
	if got, want := inner.Children[1].Layout, (Layout{X: 0, Y: 20, Width: 80, Height: 30}); got != want {
		t.Errorf("second grandchild layout = %+v, want %+v", got, want)
	}
}

func TestCalculateContentSizedContainer(t *testing.T) {
	root := &Node{
		Style: Style{Direction: Column},
		Children: []*Node{
			{Style: Style{Width: Px(120), Height: Px(40)}},
			{Style: Style{Width: Px(80), Height: Px(30)}},
		},
	}
	Calculate(root, -1, -1)
	if got, want := root.Layout, (Layout{Width: 120, Height: 70}); got != want {
		t.Errorf("root layout = %+v, want %+v", got, want)
	}
}

func TestCalculateMeasureFunc(t *testing.T) {
	// Fake text: 250px of glyphs at 10px line height, wrapping at the
	// offered width.
	measure := func(w float32, wm MeasureMode, h float32, hm MeasureMode) geom.Size {
		if wm == MeasureUndefined {
			return geom.Size{Width: 250, Height: 10}
		}
		lines := float32(1)
		for lines*w < 250 {
			lines++
		}
		return geom.Size{Width: w, Height: lines * 10}
	}
	root := &Node{
		Style:    Style{Direction: Column, Width: Px(100)},
		Children: []*Node{{Measure: measure}},
	}
	Calculate(root, -1, -1)
	if got, want := root.Children[0].Layout, (Layout{X: 0, Y: 0, Width: 100, Height: 30}); got != want {
		t.Errorf("measured child layout = %+v, want %+v", got, want)
	}
	if got, want := root.Layout.Height, float32(30); got != want {
		t.Errorf("container height = %v, want %v", got, want)
	}
}

func TestCalculateWrap(t *testing.T) {
	root := &Node{
		Style: Style{Width: Px(100), Wrap: true},
		Children: []*Node{
			{Style: Style{Width: Px(40), Height: Px(20)}},
			{Style: Style{Width: Px(40), Height: Px(20)}},
			{Style: Style{Width: Px(40), Height: Px(20)}},
		},
	}
	Calculate(root, -1, -1)
	want := []Layout{
		{X: 0, Y: 0, Width: 40, Height: 20},
		{X: 40, Y: 0, Width: 40, Height: 20},
		{X: 0, Y: 20, Width: 40, Height: 20},
	}
	for i, w := range want {
		if got := root.Children[i].Layout; got != w {
			t.Errorf("child %d layout = %+v, want %+v", i, got, w)
		}
	}
	if got, want := root.Layout.Height, float32(40); got != want {
		t.Errorf("wrapped container height = %v, want %v", got, want)
	}
}

func TestCalculateAbsolute(t *testing.T) {
	tests := map[string]struct {
		child *Node
		want  Layout
	}{
		"left top insets": {
			child: &Node{Style: Style{
				Position: Absolute,
				Width:    Px(30), Height: Px(40),
				Inset: Inset{Left: Px(10), Top: Px(20)},
			}},
			want: Layout{X: 10, Y: 20, Width: 30, Height: 40},
		},
		"right bottom insets": {
			child: &Node{Style: Style{
				Position: Absolute,
				Width:    Px(30), Height: Px(40),
				Inset: Inset{Right: Px(10), Bottom: Px(20)},
			}},
			want: Layout{X: 60, Y: 40, Width: 30, Height: 40},
		},
		"size from opposing insets": {
			child: &Node{Style: Style{
				Position: Absolute,
				Inset:    Inset{Left: Px(10), Right: Px(20), Top: Px(10), Bottom: Px(10)},
			}},
			want: Layout{X: 10, Y: 10, Width: 70, Height: 80},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := &Node{
				Style:    Style{Width: Px(100), Height: Px(100)},
				Children: []*Node{tt.child},
			}
			Calculate(root, -1, -1)
			if got := tt.child.Layout; got != tt.want {
				t.Errorf("layout = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateAbsoluteSkipsFlow(t *testing.T) {
	root := &Node{
		Style: Style{Width: Px(100), Height: Px(20)},
		Children: []*Node{
			{Style: Style{Position: Absolute, Width: Px(50), Height: Px(10), Inset: Inset{Left: Px(0), Top: Px(0)}}},
			{Style: Style{FlexGrow: 1}},
		},
	}
	Calculate(root, -1, -1)
	if got, want := root.Children[1].Layout, (Layout{X: 0, Y: 0, Width: 100, Height: 20}); got != want {
		t.Errorf("flow child layout = %+v, want %+v", got, want)
	}
}

func TestCalculateContentSize(t *testing.T) {
	root := &Node{
		Style: Style{Direction: Column, Width: Px(100), Height: Px(50)},
		Children: []*Node{
			{Style: Style{Height: Px(30)}},
			{Style: Style{Height: Px(30)}},
			{Style: Style{Height: Px(30)}},
		},
	}
	Calculate(root, -1, -1)
	if got, want := root.ContentSize, (geom.Size{Width: 100, Height: 90}); got != want {
		t.Errorf("content size = %+v, want %+v", got, want)
	}
}

func TestCalculateAvailableSpace(t *testing.T) {
	// An auto-sized root fills exact available space.
	root := &Node{
		Children: []*Node{{Style: Style{FlexGrow: 1}}},
	}
	Calculate(root, 640, 480)
	if got, want := root.Layout, (Layout{Width: 640, Height: 480}); got != want {
		t.Errorf("root layout = %+v, want %+v", got, want)
	}

	// A definite root style wins over the offered space.
	sized := &Node{Style: Style{Width: Px(100), Height: Px(50)}}
	Calculate(sized, 640, 480)
	if got, want := sized.Layout, (Layout{Width: 100, Height: 50}); got != want {
		t.Errorf("sized root layout = %+v, want %+v", got, want)
	}
}

func TestCalculateMaxConstrainsContainer(t *testing.T) {
	root := &Node{
		Style: Style{Direction: Column, Width: Px(100), MaxHeight: Px(50)},
		Children: []*Node{
			{Style: Style{Height: Px(40)}},
			{Style: Style{Height: Px(40)}},
		},
	}
	Calculate(root, -1, -1)
	if got, want := root.Layout.Height, float32(50); got != want {
		t.Errorf("container height = %v, want %v", got, want)
	}
	// children keep their size (no shrink factor) and overflow
	if got, want := root.ContentSize.Height, float32(80); got != want {
		t.Errorf("content height = %v, want %v", got, want)
	}
}
