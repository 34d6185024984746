package prism

import (
	"fmt"
	"sort"
)

// debugChecks re-verifies the cumulative-y invariant after every
// ListState mutation. Violations are programming errors inside this
// package, so the checks stay off in normal builds; flip on while
// changing the recompute paths.
const debugChecks = false

// ListState is the height cache behind a virtualized list: N items of
// unknown, independently varying height, measured lazily as they
// scroll into view. Unmeasured items use the estimated height, so the
// engine can pick a plausible visible range before measuring anything.
//
// Invariant, restored after every write: cumulative y of item i equals
// cumulative y of i-1 plus the effective height of i-1, with item 0 at
// zero.
type ListState struct {
	estimated float32
	entries   []itemEntry
	total     float32
}

type itemEntry struct {
	height   float32
	cumY     float32
	measured bool
}

// NewListState returns an empty list state. Non-positive estimates
// fall back to the configuration default.
func NewListState(estimatedHeight float32) *ListState {
	if estimatedHeight <= 0 {
		estimatedHeight = DefaultConfig().List.EstimatedItemHeight
	}
	return &ListState{estimated: estimatedHeight}
}

// Len returns the item count.
func (s *ListState) Len() int { return len(s.entries) }

// EstimatedHeight returns the height assumed for unmeasured items.
func (s *ListState) EstimatedHeight() float32 { return s.estimated }

// Reset replaces the cache with count unmeasured entries. This is the
// only full invalidation path; O(n).
func (s *ListState) Reset(count int) {
	if count < 0 {
		Logger().Warn("list: reset with negative count", "count", count)
		count = 0
	}
	if cap(s.entries) >= count {
		s.entries = s.entries[:count]
	} else {
		s.entries = make([]itemEntry, count)
	}
	for i := range s.entries {
		s.entries[i] = itemEntry{cumY: float32(i) * s.estimated}
	}
	s.total = float32(count) * s.estimated
	if debugChecks {
		s.verify()
	}
}

func (s *ListState) effectiveHeight(i int) float32 {
	if s.entries[i].measured {
		return s.entries[i].height
	}
	return s.estimated
}

// ItemHeight returns item i's effective height: measured if known,
// estimated otherwise.
func (s *ListState) ItemHeight(i int) float32 {
	if i < 0 || i >= len(s.entries) {
		return 0
	}
	return s.effectiveHeight(i)
}

// ItemY returns item i's top edge in content coordinates.
func (s *ListState) ItemY(i int) float32 {
	if i < 0 || i >= len(s.entries) {
		return 0
	}
	return s.entries[i].cumY
}

// TotalHeight returns the full content height under current knowledge.
func (s *ListState) TotalHeight() float32 { return s.total }

// SetItemHeight records a measured height for item i. A changed value
// triggers a suffix recompute of cumulative y from i on; O(n-i).
func (s *ListState) SetItemHeight(i int, h float32) {
	if i < 0 || i >= len(s.entries) {
		Logger().Warn("list: height index out of range", "index", i, "len", len(s.entries))
		return
	}
	if h < 0 {
		Logger().Warn("list: negative item height clamped", "index", i, "height", h)
		h = 0
	}
	if s.entries[i].measured && s.entries[i].height == h {
		return
	}
	s.entries[i].height = h
	s.entries[i].measured = true
	s.recomputeFrom(i)
	if debugChecks {
		s.verify()
	}
}

// recomputeFrom restores the cumulative-y invariant for entries[i:]
// and the total.
func (s *ListState) recomputeFrom(i int) {
	var cum float32
	if i > 0 {
		cum = s.entries[i-1].cumY + s.effectiveHeight(i-1)
	}
	for j := i; j < len(s.entries); j++ {
		s.entries[j].cumY = cum
		cum += s.effectiveHeight(j)
	}
	s.total = cum
}

// FindItemAtY returns the index of the item containing content-space
// y. Binary search, O(log n). Clamped to the first item for y < 0 and
// the last item for y past the end.
func (s *ListState) FindItemAtY(y float32) int {
	n := len(s.entries)
	if n == 0 {
		return 0
	}
	if y < 0 {
		return 0
	}
	// First entry starting strictly after y, minus one, is the entry
	// whose [cumY, cumY+height) span holds y.
	i := sort.Search(n, func(i int) bool { return s.entries[i].cumY > y }) - 1
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// VisibleRange returns the half-open index range [start, end) that a
// viewport at scrollY should render. Overdraw widens the range on both
// sides so items are measured before they scroll into view.
func (s *ListState) VisibleRange(scrollY, viewportHeight float32, overdraw int) (start, end int) {
	n := len(s.entries)
	if n == 0 {
		return 0, 0
	}
	if overdraw < 0 {
		overdraw = 0
	}
	start = s.FindItemAtY(scrollY) - overdraw
	if start < 0 {
		start = 0
	}
	end = s.FindItemAtY(scrollY+viewportHeight) + overdraw + 1
	if end > n {
		end = n
	}
	return start, end
}

// Splice applies an item mutation: deleteCount items removed at start,
// insertCount unmeasured items inserted in their place. Differing
// counts rebuild the entry array around the change; equal counts only
// invalidate the affected heights in place. Either way the cumulative
// invariant is restored from start onward.
func (s *ListState) Splice(start, deleteCount, insertCount int) {
	n := len(s.entries)
	if start < 0 || start > n || deleteCount < 0 || insertCount < 0 {
		Logger().Warn("list: splice arguments clamped",
			"start", start, "delete", deleteCount, "insert", insertCount, "len", n)
		start = clampInt(start, 0, n)
		if deleteCount < 0 {
			deleteCount = 0
		}
		if insertCount < 0 {
			insertCount = 0
		}
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	if deleteCount == insertCount {
		for i := start; i < start+deleteCount; i++ {
			s.entries[i].measured = false
		}
	} else {
		out := make([]itemEntry, 0, n-deleteCount+insertCount)
		out = append(out, s.entries[:start]...)
		out = append(out, make([]itemEntry, insertCount)...)
		out = append(out, s.entries[start+deleteCount:]...)
		s.entries = out
	}
	s.recomputeFrom(start)
	if debugChecks {
		s.verify()
	}
}

// ScrollTargetForItem returns the scroll offset that reveals item i,
// moving as little as possible from the current offset: items below
// the viewport bottom-align, items above top-align, visible items
// leave the offset unchanged. The result is clamped to the valid
// scroll range for the given viewport.
func (s *ListState) ScrollTargetForItem(i int, scrollY, viewportHeight float32) float32 {
	if len(s.entries) == 0 {
		return 0
	}
	i = clampInt(i, 0, len(s.entries)-1)
	top := s.entries[i].cumY
	bottom := top + s.effectiveHeight(i)

	target := scrollY
	switch {
	case top >= scrollY && bottom <= scrollY+viewportHeight:
		// already fully visible
	case bottom > scrollY+viewportHeight:
		target = bottom - viewportHeight
		if target > top {
			target = top
		}
	default:
		target = top
	}
	return clampf32(target, 0, maxf32(0, s.total-viewportHeight))
}

// verify panics when the cumulative-y invariant is broken. Tests call
// it directly; mutation paths call it under debugChecks.
func (s *ListState) verify() {
	var cum float32
	for i := range s.entries {
		if s.entries[i].cumY != cum {
			panic(fmt.Sprintf("list: cumulative y broken at %d: have %g, want %g", i, s.entries[i].cumY, cum))
		}
		cum += s.effectiveHeight(i)
	}
	if s.total != cum {
		panic(fmt.Sprintf("list: total height %g does not match entries (%g)", s.total, cum))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
