package prism

import (
	"github.com/agiangrant/prism/geom"
	"github.com/agiangrant/prism/scene"
	"github.com/agiangrant/prism/text"
)

// ElementID identifies one element instance within a window. Ids are
// allocated by a per-frame counter in request-layout traversal order,
// so a tree whose shape does not change keeps the same ids frame after
// frame; persistent state keyed by id survives exactly as long as the
// element is rendered every frame.
type ElementID uint64

// Element is the contract every UI node implements. The window invokes
// the four operations in strict order within a frame: RequestLayout
// for the whole tree, then Prepaint once absolute bounds are solved,
// then Paint, then HitTest bottom-up while the paint walk unwinds.
// Containers recurse through the phase contexts; the engine never
// discovers children on its own.
//
// Implementations must be pointer types: the engine uses the element
// value as a map key to make repeated RequestChild calls idempotent.
type Element interface {
	// RequestLayout declares the node's style and children to the
	// layout engine and returns its LayoutID plus whatever state the
	// later phases need. An error aborts the whole frame before any
	// paint.
	RequestLayout(cx *RequestContext) (LayoutID, any, error)

	// Prepaint runs after the global solve with final bounds known.
	// This is where hitboxes, focus and tab stops, scroll sizes, and
	// deferred overlay draws are registered, and where virtualized
	// containers lay out their items. An error aborts the frame before
	// paint.
	Prepaint(cx *PrepaintContext, bounds geom.Bounds, req any) (any, error)

	// Paint emits scene primitives. It receives only resolved data and
	// must not mutate registries or persistent state read by a later
	// phase; there is nothing left to fail, so it returns no error.
	Paint(cx *PaintContext, bounds geom.Bounds, pre any)

	// HitTest wraps the already-built child nodes into this element's
	// hit-test node, or returns nil to contribute none; the children
	// then pass through to the nearest contributing ancestor.
	HitTest(bounds geom.Bounds, children []*HitTestNode) *HitTestNode
}

// RequestContext is the request-layout phase API. One instance per
// window, valid only during RenderFrame.
type RequestContext struct {
	w *Window
}

// ElementID returns the id of the element currently being requested.
func (cx *RequestContext) ElementID() ElementID { return cx.w.currentElem() }

// State returns the persistent state stored for the current element,
// or nil on first visit.
func (cx *RequestContext) State() any { return cx.w.states.get(cx.w.currentElem()) }

// SetState stores persistent state for the current element. State
// survives as long as the element is rendered every frame and is
// garbage-collected the frame after it disappears.
func (cx *RequestContext) SetState(v any) {
	cx.w.states.set(cx.w.currentElem(), v, cx.w.frameNum)
}

// Config returns the window's configuration.
func (cx *RequestContext) Config() *Config { return &cx.w.cfg }

// Text returns the window's text measurement service.
func (cx *RequestContext) Text() text.Measurer { return cx.w.text }

// AllocFocusID allocates a fresh focus handle. Allocate once and keep
// the id in element state; ids are never reused within a window.
func (cx *RequestContext) AllocFocusID() FocusID { return cx.w.allocFocusID() }

// AllocScrollHandle allocates a fresh scroll handle id.
func (cx *RequestContext) AllocScrollHandle() ScrollHandleID { return cx.w.allocScrollHandle() }

// Hovered reports whether the current element was under the pointer at
// the end of the previous frame.
func (cx *RequestContext) Hovered() bool { return cx.w.hoverSet[cx.w.currentElem()] }

// Pressed reports whether a mouse button went down on the current
// element and has not been released yet.
func (cx *RequestContext) Pressed() bool { return cx.w.pressedSet[cx.w.currentElem()] }

// Focused reports whether id is anywhere in the focus stack.
func (cx *RequestContext) Focused(id FocusID) bool { return cx.w.focus.Contains(id) }

// Request registers a layout node with the given style and already-
// requested children and returns its handle. The handle is valid until
// the next frame's clear.
func (cx *RequestContext) Request(style LayoutStyle, children ...LayoutID) LayoutID {
	return cx.w.engine.Request(style, children...)
}

// RequestMeasured registers a leaf node whose content size comes from
// measure, typically a text measurement closure.
func (cx *RequestContext) RequestMeasured(style LayoutStyle, measure MeasureFunc) LayoutID {
	return cx.w.engine.RequestMeasured(style, measure)
}

// RequestChild runs child's RequestLayout, allocating its ElementID
// and recording its request state for the later phases. Calling it
// again for the same child in the same frame returns the memoized
// LayoutID without re-registering anything.
func (cx *RequestContext) RequestChild(child Element) (LayoutID, error) {
	return cx.w.requestElement(child)
}

// PrepaintContext is the prepaint phase API: registries are open for
// registration and nested layout is allowed for virtualized subtrees.
type PrepaintContext struct {
	w *Window
}

// ElementID returns the id of the element currently prepainting.
func (cx *PrepaintContext) ElementID() ElementID { return cx.w.currentElem() }

// State returns the persistent state for the current element.
func (cx *PrepaintContext) State() any { return cx.w.states.get(cx.w.currentElem()) }

// SetState stores persistent state for the current element.
func (cx *PrepaintContext) SetState(v any) {
	cx.w.states.set(cx.w.currentElem(), v, cx.w.frameNum)
}

// Config returns the window's configuration.
func (cx *PrepaintContext) Config() *Config { return &cx.w.cfg }

// Text returns the window's text measurement service.
func (cx *PrepaintContext) Text() text.Measurer { return cx.w.text }

// Hovered reports whether the current element was under the pointer at
// the end of the previous frame.
func (cx *PrepaintContext) Hovered() bool { return cx.w.hoverSet[cx.w.currentElem()] }

// Pressed reports whether a mouse button is down on the current element.
func (cx *PrepaintContext) Pressed() bool { return cx.w.pressedSet[cx.w.currentElem()] }

// Focused reports whether id is anywhere in the focus stack.
func (cx *PrepaintContext) Focused(id FocusID) bool { return cx.w.focus.Contains(id) }

// AddHitbox registers an interactive rectangle for pointer and hover
// resolution. The active clip intersection is stamped as its mask; the
// current element as its owner. Returns the per-frame hitbox id.
func (cx *PrepaintContext) AddHitbox(bounds geom.Bounds, behavior HitboxBehavior, cursor CursorStyle) HitboxID {
	return cx.w.addHitbox(bounds, behavior, cursor)
}

// PushMask intersects b with the active clip for hit purposes.
// Hitboxes and hit-test nodes registered while the mask is pushed are
// not hoverable outside it. Pair with PopMask.
func (cx *PrepaintContext) PushMask(b geom.Bounds) { cx.w.pushMask(b) }

// PopMask restores the previous clip intersection.
func (cx *PrepaintContext) PopMask() { cx.w.popMask() }

// RegisterTabStop appends a focus handle to this frame's tab order.
// Registration order is traversal order.
func (cx *PrepaintContext) RegisterTabStop(id FocusID) {
	if id != 0 {
		cx.w.tabStops = append(cx.w.tabStops, id)
	}
}

// ScrollState returns the scroll state for handle id, creating it on
// first use and marking it live for this frame. Unvisited states are
// swept at frame end.
func (cx *PrepaintContext) ScrollState(id ScrollHandleID) *ScrollState {
	return cx.w.scrolls.visit(id, cx.w.frameNum)
}

// DeferDraw schedules fn to run after the main tree has painted.
// Deferred draws run in registration order, so later registrations
// paint on top; overlay subtrees painted this way also hit-test on
// top. Popovers and tooltips use this.
func (cx *PrepaintContext) DeferDraw(fn func(*PaintContext)) {
	cx.w.deferred = append(cx.w.deferred, fn)
}

// DeferPrepaint schedules fn to run after the main tree has finished
// prepainting, with the mask stack reset to unclipped. Overlay subtrees
// register here so their hitboxes land above everything registered
// during the main walk and escape any ancestor clip.
func (cx *PrepaintContext) DeferPrepaint(fn func(*PrepaintContext) error) {
	cx.w.deferredPre = append(cx.w.deferredPre, fn)
}

// PrepaintChild prepaints the child node id at its solved position
// relative to the current element.
func (cx *PrepaintContext) PrepaintChild(id LayoutID) error {
	return cx.w.prepaintNode(id, cx.w.currentOrigin())
}

// PrepaintChildAt prepaints the child node id with its solved position
// offset from origin instead of the current element's origin. Scroll
// containers pass their content origin minus the scroll offset;
// virtualized lists pass each item's computed position.
func (cx *PrepaintContext) PrepaintChildAt(id LayoutID, origin geom.Point) error {
	return cx.w.prepaintNode(id, origin)
}

// RequestDetached runs elem's RequestLayout outside the main tree, for
// subtrees whose membership is only known after the global solve, like
// virtualized list items. Solve the returned id with SolveDetached.
func (cx *PrepaintContext) RequestDetached(elem Element) (LayoutID, error) {
	return cx.w.requestElement(elem)
}

// SolveDetached lays out a detached subtree within the given available
// space. A negative dimension is unconstrained: the subtree sizes to
// its content on that axis.
func (cx *PrepaintContext) SolveDetached(id LayoutID, availWidth, availHeight float32) {
	cx.w.engine.SolveDetached(id, availWidth, availHeight)
}

// NodeSize returns the solved border-box size of a layout node.
func (cx *PrepaintContext) NodeSize(id LayoutID) geom.Size {
	return cx.w.engine.RelBounds(id).Size()
}

// ContentSize returns the extent of id's in-flow content, which can
// exceed the node's own size when content overflows. Scroll containers
// feed this to their ScrollState.
func (cx *PrepaintContext) ContentSize(id LayoutID) geom.Size {
	return cx.w.engine.ContentSize(id)
}

// PaintContext is the paint phase API: scene emission and child
// painting only. Registries and persistent state are closed.
type PaintContext struct {
	w *Window
}

// ElementID returns the id of the element currently painting.
func (cx *PaintContext) ElementID() ElementID { return cx.w.currentElem() }

// State returns the persistent state for the current element. Paint
// may read state but has no way to write it.
func (cx *PaintContext) State() any { return cx.w.states.get(cx.w.currentElem()) }

// Config returns the window's configuration.
func (cx *PaintContext) Config() *Config { return &cx.w.cfg }

// Text returns the window's text measurement service, for shaping at
// paint time.
func (cx *PaintContext) Text() text.Measurer { return cx.w.text }

// Hovered reports whether the current element was under the pointer at
// the end of the previous frame.
func (cx *PaintContext) Hovered() bool { return cx.w.hoverSet[cx.w.currentElem()] }

// Pressed reports whether a mouse button is down on the current element.
func (cx *PaintContext) Pressed() bool { return cx.w.pressedSet[cx.w.currentElem()] }

// Focused reports whether id is anywhere in the focus stack.
func (cx *PaintContext) Focused(id FocusID) bool { return cx.w.focus.Contains(id) }

// Scene returns the frame's scene under construction. Primitives are
// composited in emission order; use the scene's clip stack to confine
// children of clipping containers.
func (cx *PaintContext) Scene() *scene.Scene { return cx.w.buildScene }

// PaintChild paints the child node id at its solved position relative
// to the current element, then collects its hit-test node.
func (cx *PaintContext) PaintChild(id LayoutID) {
	cx.w.paintNode(id, cx.w.currentOrigin())
}

// PaintChildAt paints the child node id offset from origin instead of
// the current element's origin, mirroring PrepaintChildAt.
func (cx *PaintContext) PaintChildAt(id LayoutID, origin geom.Point) {
	cx.w.paintNode(id, origin)
}
