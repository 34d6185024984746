package prism

// elementStateMap holds per-element state that must survive across
// frames: scroll handles, list caches, text controllers. Lifecycle is
// mark-and-sweep: an entry is created when an element first stores
// state, marked every frame the element is rendered, and dropped by
// the sweep the first frame it is not.
type elementStateMap struct {
	entries map[ElementID]*stateEntry
}

type stateEntry struct {
	state     any
	lastFrame uint64
}

func newElementStateMap() *elementStateMap {
	return &elementStateMap{entries: make(map[ElementID]*stateEntry)}
}

func (m *elementStateMap) get(id ElementID) any {
	if e := m.entries[id]; e != nil {
		return e.state
	}
	return nil
}

func (m *elementStateMap) set(id ElementID, v any, frame uint64) {
	e := m.entries[id]
	if e == nil {
		e = &stateEntry{}
		m.entries[id] = e
	}
	e.state = v
	e.lastFrame = frame
}

// touch marks an existing entry live for frame. Rendering an element
// counts as a visit even when it does not rewrite its state.
func (m *elementStateMap) touch(id ElementID, frame uint64) {
	if e := m.entries[id]; e != nil {
		e.lastFrame = frame
	}
}

// sweep drops every entry not visited during frame. Runs only after
// successfully completed frames; an aborted frame's partial marks must
// not GC still-live state.
func (m *elementStateMap) sweep(frame uint64) {
	for id, e := range m.entries {
		if e.lastFrame != frame {
			delete(m.entries, id)
		}
	}
}

func (m *elementStateMap) len() int { return len(m.entries) }
