package prism

import "testing"

func TestListStateReset(t *testing.T) {
	s := NewListState(10)
	s.Reset(5)

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	for i := 0; i < 5; i++ {
		if got := s.ItemY(i); got != float32(i)*10 {
			t.Errorf("ItemY(%d) = %g, want %g", i, got, float32(i)*10)
		}
		if got := s.ItemHeight(i); got != 10 {
			t.Errorf("ItemHeight(%d) = %g, want 10", i, got)
		}
	}
	if got := s.TotalHeight(); got != 50 {
		t.Errorf("TotalHeight() = %g, want 50", got)
	}
	s.verify()

	// Reset discards measurements.
	s.SetItemHeight(2, 99)
	s.Reset(3)
	if got := s.TotalHeight(); got != 30 {
		t.Errorf("TotalHeight() after re-Reset = %g, want 30", got)
	}
	s.verify()

	s.Reset(-4)
	if s.Len() != 0 {
		t.Errorf("Len() after Reset(-4) = %d, want 0", s.Len())
	}
}

func TestListStateDefaultEstimate(t *testing.T) {
	s := NewListState(0)
	want := DefaultConfig().List.EstimatedItemHeight
	if got := s.EstimatedHeight(); got != want {
		t.Errorf("EstimatedHeight() = %g, want %g", got, want)
	}
}

func TestListStateSetItemHeight(t *testing.T) {
	s := NewListState(10)
	s.Reset(4)

	s.SetItemHeight(1, 25)
	wantY := []float32{0, 10, 35, 45}
	for i, want := range wantY {
		if got := s.ItemY(i); got != want {
			t.Errorf("ItemY(%d) = %g, want %g", i, got, want)
		}
	}
	if got := s.TotalHeight(); got != 55 {
		t.Errorf("TotalHeight() = %g, want 55", got)
	}
	s.verify()

	// Negative heights clamp to zero.
	s.SetItemHeight(2, -5)
	if got := s.ItemHeight(2); got != 0 {
		t.Errorf("ItemHeight(2) = %g, want 0", got)
	}
	if got := s.ItemY(3); got != 35 {
		t.Errorf("ItemY(3) = %g, want 35", got)
	}
	s.verify()

	// Out-of-range writes are dropped.
	s.SetItemHeight(-1, 50)
	s.SetItemHeight(4, 50)
	if got := s.TotalHeight(); got != 45 {
		t.Errorf("TotalHeight() after out-of-range writes = %g, want 45", got)
	}
	s.verify()
}

func TestListStateFindItemAtY(t *testing.T) {
	s := NewListState(10)
	s.Reset(4)
	s.SetItemHeight(1, 30) // spans [10, 40); item 2 starts at 40

	tests := []struct {
		y    float32
		want int
	}{
		{y: -5, want: 0},
		{y: 0, want: 0},
		{y: 9.5, want: 0},
		{y: 10, want: 1},
		{y: 39, want: 1},
		{y: 40, want: 2},
		{y: 55, want: 3},
		{y: 1000, want: 3},
	}
	for _, tt := range tests {
		if got := s.FindItemAtY(tt.y); got != tt.want {
			t.Errorf("FindItemAtY(%g) = %d, want %d", tt.y, got, tt.want)
		}
	}

	empty := NewListState(10)
	if got := empty.FindItemAtY(5); got != 0 {
		t.Errorf("FindItemAtY on empty state = %d, want 0", got)
	}
}

func TestListStateVisibleRange(t *testing.T) {
	s := NewListState(10)
	s.Reset(100)

	tests := []struct {
		name      string
		scrollY   float32
		viewport  float32
		overdraw  int
		wantStart int
		wantEnd   int
	}{
		{name: "top", scrollY: 0, viewport: 30, overdraw: 0, wantStart: 0, wantEnd: 4},
		{name: "middle", scrollY: 95, viewport: 30, overdraw: 0, wantStart: 9, wantEnd: 13},
		{name: "middle with overdraw", scrollY: 95, viewport: 30, overdraw: 2, wantStart: 7, wantEnd: 15},
		{name: "overdraw clamps at top", scrollY: 0, viewport: 30, overdraw: 5, wantStart: 0, wantEnd: 9},
		{name: "bottom", scrollY: 980, viewport: 100, overdraw: 0, wantStart: 98, wantEnd: 100},
		{name: "past the end", scrollY: 5000, viewport: 100, overdraw: 3, wantStart: 96, wantEnd: 100},
		{name: "negative overdraw treated as zero", scrollY: 95, viewport: 30, overdraw: -3, wantStart: 9, wantEnd: 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := s.VisibleRange(tt.scrollY, tt.viewport, tt.overdraw)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("VisibleRange(%g, %g, %d) = [%d, %d), want [%d, %d)",
					tt.scrollY, tt.viewport, tt.overdraw, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}

	empty := NewListState(10)
	if start, end := empty.VisibleRange(0, 100, 2); start != 0 || end != 0 {
		t.Errorf("VisibleRange on empty state = [%d, %d), want [0, 0)", start, end)
	}
}

func TestListStateSplice(t *testing.T) {
	t.Run("equal counts invalidate in place", func(t *testing.T) {
		s := NewListState(10)
		s.Reset(3)
		s.SetItemHeight(1, 30)

		s.Splice(1, 1, 1)
		if got := s.ItemHeight(1); got != 10 {
			t.Errorf("ItemHeight(1) = %g, want estimate 10", got)
		}
		if got := s.TotalHeight(); got != 30 {
			t.Errorf("TotalHeight() = %g, want 30", got)
		}
		s.verify()
	})

	t.Run("insert shifts later items", func(t *testing.T) {
		s := NewListState(10)
		s.Reset(3)
		s.SetItemHeight(2, 40)

		s.Splice(1, 0, 2)
		if s.Len() != 5 {
			t.Fatalf("Len() = %d, want 5", s.Len())
		}
		// The measured item moved from index 2 to 4.
		if got := s.ItemHeight(4); got != 40 {
			t.Errorf("ItemHeight(4) = %g, want 40", got)
		}
		if got := s.ItemY(4); got != 40 {
			t.Errorf("ItemY(4) = %g, want 40", got)
		}
		if got := s.TotalHeight(); got != 80 {
			t.Errorf("TotalHeight() = %g, want 80", got)
		}
		s.verify()
	})

	t.Run("delete removes spans", func(t *testing.T) {
		s := NewListState(10)
		s.Reset(5)
		s.SetItemHeight(4, 40)

		s.Splice(0, 2, 0)
		if s.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", s.Len())
		}
		if got := s.ItemY(2); got != 20 {
			t.Errorf("ItemY(2) = %g, want 20", got)
		}
		if got := s.TotalHeight(); got != 60 {
			t.Errorf("TotalHeight() = %g, want 60", got)
		}
		s.verify()
	})

	t.Run("delete count clamps to length", func(t *testing.T) {
		s := NewListState(10)
		s.Reset(5)

		s.Splice(3, 99, 0)
		if s.Len() != 3 {
			t.Errorf("Len() = %d, want 3", s.Len())
		}
		if got := s.TotalHeight(); got != 30 {
			t.Errorf("TotalHeight() = %g, want 30", got)
		}
		s.verify()
	})

	t.Run("out-of-range arguments clamp", func(t *testing.T) {
		s := NewListState(10)
		s.Reset(3)

		s.Splice(-2, -1, 2)
		if s.Len() != 5 {
			t.Errorf("Len() = %d, want 5", s.Len())
		}
		s.verify()
	})
}

func TestListStateScrollTargetForItem(t *testing.T) {
	tests := []struct {
		name     string
		item     int
		scrollY  float32
		viewport float32
		setup    func(*ListState)
		want     float32
	}{
		{name: "visible item keeps offset", item: 50, scrollY: 495, viewport: 100, want: 495},
		{name: "item below bottom-aligns", item: 50, scrollY: 0, viewport: 100, want: 410},
		{name: "item above top-aligns", item: 2, scrollY: 480, viewport: 100, want: 20},
		{name: "last item clamps to max", item: 99, scrollY: 0, viewport: 100, want: 900},
		{name: "index clamps", item: 500, scrollY: 0, viewport: 100, want: 900},
		{
			name: "item taller than viewport top-aligns",
			item: 50, scrollY: 0, viewport: 100,
			setup: func(s *ListState) { s.SetItemHeight(50, 300) },
			want: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewListState(10)
			s.Reset(100)
			if tt.setup != nil {
				tt.setup(s)
			}
			if got := s.ScrollTargetForItem(tt.item, tt.scrollY, tt.viewport); got != tt.want {
				t.Errorf("ScrollTargetForItem(%d, %g, %g) = %g, want %g",
					tt.item, tt.scrollY, tt.viewport, got, tt.want)
			}
		})
	}

	empty := NewListState(10)
	if got := empty.ScrollTargetForItem(3, 50, 100); got != 0 {
		t.Errorf("ScrollTargetForItem on empty state = %g, want 0", got)
	}
}
