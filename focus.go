package prism

// FocusID identifies one focusable handle. Zero means "no handle".
// Allocate with Window.AllocFocusID and keep the id in element state.
type FocusID uint64

// focusStack is an ordered stack of focused handles. Focus is
// membership, not a single value: a modal can hold primary focus while
// a toolbar control deeper in the stack stays focused for key routing.
// Push and Remove are idempotent.
type focusStack struct {
	ids []FocusID
}

// Push focuses id by placing it on top of the stack. Pushing an id
// already in the stack is a no-op: siblings keep their positions.
func (f *focusStack) Push(id FocusID) {
	if id == 0 || f.Contains(id) {
		return
	}
	f.ids = append(f.ids, id)
}

// Remove unfocuses id wherever it sits in the stack. Removing an
// absent id is a no-op.
func (f *focusStack) Remove(id FocusID) {
	for i, v := range f.ids {
		if v == id {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			return
		}
	}
}

// Contains reports whether id is focused, anywhere in the stack.
func (f *focusStack) Contains(id FocusID) bool {
	for _, v := range f.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Top returns the most recently pushed id, or zero when empty.
func (f *focusStack) Top() FocusID {
	if len(f.ids) == 0 {
		return 0
	}
	return f.ids[len(f.ids)-1]
}

func (f *focusStack) Len() int { return len(f.ids) }

// advanceTabStop picks the tab stop to focus after moving by dir
// (+1 forward, -1 backward) from the currently focused stop. stops is
// the prepaint-registered traversal order. Returns zero when there is
// nothing to focus.
func advanceTabStop(stops []FocusID, f *focusStack, dir int) FocusID {
	if len(stops) == 0 {
		return 0
	}

	// The active stop is the topmost focused id that is also a tab
	// stop; focus held by non-stop handles does not anchor traversal.
	current := -1
	for i := len(f.ids) - 1; i >= 0 && current < 0; i-- {
		for j, s := range stops {
			if s == f.ids[i] {
				current = j
				break
			}
		}
	}

	if current < 0 {
		if dir < 0 {
			return stops[len(stops)-1]
		}
		return stops[0]
	}
	next := (current + dir + len(stops)) % len(stops)
	return stops[next]
}
