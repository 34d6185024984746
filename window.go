package prism

import (
	"errors"
	"fmt"

	"github.com/agiangrant/prism/geom"
	"github.com/agiangrant/prism/scene"
	"github.com/agiangrant/prism/text"
)

var (
	// ErrNoRoot is returned by RenderFrame when called without a root
	// element.
	ErrNoRoot = errors.New("render without a root element")

	// ErrFrameInFlight is returned when RenderFrame is reentered, which
	// can only happen if an element calls back into the window.
	ErrFrameInFlight = errors.New("frame already in flight")
)

// Window runs the frame pipeline for one native window: request-layout
// over the element tree, one flex solve, prepaint, paint, then an
// atomic swap of the finished scene and hit-test tree. Input events
// dispatch against the last completed frame, so a failed frame leaves
// everything the user can see or click exactly as it was.
//
// A window owns all cross-frame engine state: the persistent element
// state map, the scroll table, the focus stack, and the dispatcher's
// pointer state. Everything is single-threaded; methods must be called
// from one goroutine.
type Window struct {
	cfg      Config
	platform Platform
	text     text.Measurer

	engine  *LayoutEngine
	states  *elementStateMap
	scrolls *scrollTable
	focus   focusStack
	disp    *dispatcher

	hoverSet   map[ElementID]bool
	pressedSet map[ElementID]bool

	size      geom.Size
	frameNum  uint64
	rendering bool

	nextFocusID  FocusID
	nextScrollID ScrollHandleID

	// Presented surfaces from the last completed frame.
	presented *scene.Scene
	roots     []*HitTestNode

	// Per-frame build state, reset by beginFrame.
	buildScene  *scene.Scene
	slots       []frameSlot
	requested   map[Element]LayoutID
	nextElemID  ElementID
	elemStack   []ElementID
	originStack []geom.Point
	maskStack   []geom.Bounds
	hitboxes    []Hitbox
	tabStops    []FocusID
	deferred    []func(*PaintContext)
	deferredPre []func(*PrepaintContext) error
	htStack     [][]*HitTestNode

	reqCx   *RequestContext
	preCx   *PrepaintContext
	paintCx *PaintContext
}

// frameSlot carries one element's per-frame products across the
// phases, indexed by its LayoutID.
type frameSlot struct {
	elem   Element
	elemID ElementID
	req    any
	pre    any
	mask   geom.Bounds
}

// NewWindow creates a window with the given configuration. A nil
// platform gets a Headless, a nil measurer gets the fixed metrics
// table; either way the measurer is wrapped in the LRU shape cache
// unless it already is one.
func NewWindow(cfg Config, p Platform, m text.Measurer) *Window {
	if p == nil {
		p = NewHeadless()
	}
	if m == nil {
		m = text.NewFixed()
	}
	if _, ok := m.(*text.Cached); !ok {
		m = text.NewCached(m, 0)
	}
	w := &Window{
		cfg:        cfg,
		platform:   p,
		text:       m,
		engine:     NewLayoutEngine(),
		states:     newElementStateMap(),
		scrolls:    newScrollTable(),
		hoverSet:   make(map[ElementID]bool),
		pressedSet: make(map[ElementID]bool),
		size:       geom.Size{Width: cfg.Window.Width, Height: cfg.Window.Height},
		presented:  scene.New(),
		buildScene: scene.New(),
		requested:  make(map[Element]LayoutID),
	}
	w.disp = newDispatcher(&w.cfg, &w.focus, w.scrolls, w.hoverSet, w.pressedSet, p)
	w.reqCx = &RequestContext{w: w}
	w.preCx = &PrepaintContext{w: w}
	w.paintCx = &PaintContext{w: w}
	return w
}

// RenderFrame runs the full pipeline for one frame and returns the
// presented scene. On error the previous frame's scene and hit-test
// tree stay live and no persistent state is swept; the error wraps
// whatever phase failure aborted the frame.
func (w *Window) RenderFrame(root Element) (*scene.Scene, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	if w.rendering {
		return nil, ErrFrameInFlight
	}
	w.rendering = true
	defer func() { w.rendering = false }()

	w.frameNum++
	w.beginFrame()

	rootID, err := w.requestElement(root)
	if err != nil {
		return w.abortFrame(err)
	}

	w.engine.Solve(rootID, w.size)

	if err := w.prepaintNode(rootID, geom.Point{}); err != nil {
		return w.abortFrame(err)
	}
	// Overlay subtrees prepaint after the main tree, unclipped, so
	// their hitboxes and hit-test nodes land above everything else.
	// The loop is index-based: an overlay may defer another.
	for i := 0; i < len(w.deferredPre); i++ {
		w.maskStack = w.maskStack[:0]
		if err := w.deferredPre[i](w.preCx); err != nil {
			return w.abortFrame(err)
		}
	}

	w.htStack = append(w.htStack[:0], nil)
	w.paintNode(rootID, geom.Point{})
	for i := 0; i < len(w.deferred); i++ {
		w.deferred[i](w.paintCx)
	}
	roots := w.htStack[0]

	// Commit: swap the scene buffers, publish the new tree, sweep
	// state nothing touched this frame. Sweeps run only on success so
	// an aborted frame cannot collect state for elements it never
	// reached.
	w.presented, w.buildScene = w.buildScene, w.presented
	w.roots = roots
	w.states.sweep(w.frameNum)
	w.scrolls.sweep(w.frameNum)
	w.disp.setFrame(roots, w.hitboxes, w.tabStops)

	// The published slices must survive until the frame after next;
	// dropping them keeps beginFrame from recycling their backing.
	w.htStack = nil
	w.hitboxes = nil
	w.tabStops = nil

	return w.presented, nil
}

func (w *Window) beginFrame() {
	w.engine.Clear()
	w.buildScene.Reset()
	w.slots = w.slots[:0]
	clear(w.requested)
	w.nextElemID = 1
	w.elemStack = w.elemStack[:0]
	w.originStack = w.originStack[:0]
	w.maskStack = w.maskStack[:0]
	w.hitboxes = w.hitboxes[:0]
	w.tabStops = w.tabStops[:0]
	w.deferred = w.deferred[:0]
	w.deferredPre = w.deferredPre[:0]
	w.htStack = w.htStack[:0]
}

func (w *Window) abortFrame(err error) (*scene.Scene, error) {
	err = fmt.Errorf("render frame %d: %w", w.frameNum, err)
	Logger().Warn("frame aborted, previous frame stays presented", "err", err)
	return nil, err
}

// requestElement runs elem's RequestLayout once per frame, allocating
// its ElementID in traversal order and recording the phase slot under
// its LayoutID. Repeat calls within the frame return the memoized id.
func (w *Window) requestElement(elem Element) (LayoutID, error) {
	if elem == nil {
		return 0, errors.New("nil element requested")
	}
	if id, ok := w.requested[elem]; ok {
		return id, nil
	}

	eid := w.nextElemID
	w.nextElemID++
	w.states.touch(eid, w.frameNum)

	w.elemStack = append(w.elemStack, eid)
	id, req, err := elem.RequestLayout(w.reqCx)
	w.elemStack = w.elemStack[:len(w.elemStack)-1]
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("element %T returned no layout node", elem)
	}

	w.requested[elem] = id
	for len(w.slots) < int(id) {
		w.slots = append(w.slots, frameSlot{})
	}
	w.slots[id-1] = frameSlot{elem: elem, elemID: eid, req: req}
	return id, nil
}

// prepaintNode resolves id's absolute bounds against origin, stamps
// the ancestor mask, and runs the element's Prepaint.
func (w *Window) prepaintNode(id LayoutID, origin geom.Point) error {
	slot := w.slot(id)
	rel := w.engine.RelBounds(id)
	bounds := geom.BoundsAt(origin.Add(rel.Origin()), rel.Size())
	slot.mask = w.currentMask()

	w.elemStack = append(w.elemStack, slot.elemID)
	w.originStack = append(w.originStack, bounds.Origin())
	pre, err := slot.elem.Prepaint(w.preCx, bounds, slot.req)
	w.originStack = w.originStack[:len(w.originStack)-1]
	w.elemStack = w.elemStack[:len(w.elemStack)-1]
	if err != nil {
		return err
	}
	slot.pre = pre
	return nil
}

// paintNode paints id's subtree and folds its hit-test contribution
// into the frame under construction. Children nodes collect while the
// element paints; on unwind the element either wraps them in its own
// node or passes them through to the nearest contributing ancestor.
func (w *Window) paintNode(id LayoutID, origin geom.Point) {
	slot := w.slot(id)
	rel := w.engine.RelBounds(id)
	bounds := geom.BoundsAt(origin.Add(rel.Origin()), rel.Size())

	w.elemStack = append(w.elemStack, slot.elemID)
	w.originStack = append(w.originStack, bounds.Origin())
	w.htStack = append(w.htStack, nil)
	slot.elem.Paint(w.paintCx, bounds, slot.pre)
	kids := w.htStack[len(w.htStack)-1]
	w.htStack = w.htStack[:len(w.htStack)-1]
	w.originStack = w.originStack[:len(w.originStack)-1]
	w.elemStack = w.elemStack[:len(w.elemStack)-1]

	if node := slot.elem.HitTest(bounds, kids); node != nil {
		node.Elem = slot.elemID
		node.Mask = slot.mask
		w.htAppend(node)
	} else {
		for _, k := range kids {
			w.htAppend(k)
		}
	}
}

func (w *Window) htAppend(n *HitTestNode) {
	top := len(w.htStack) - 1
	w.htStack[top] = append(w.htStack[top], n)
}

func (w *Window) slot(id LayoutID) *frameSlot {
	if id == 0 || int(id) > len(w.slots) || w.slots[id-1].elem == nil {
		panic(fmt.Sprintf("prism: layout id %d was not produced by RequestChild", id))
	}
	return &w.slots[id-1]
}

func (w *Window) currentElem() ElementID {
	if len(w.elemStack) == 0 {
		return 0
	}
	return w.elemStack[len(w.elemStack)-1]
}

func (w *Window) currentOrigin() geom.Point {
	if len(w.originStack) == 0 {
		return geom.Point{}
	}
	return w.originStack[len(w.originStack)-1]
}

func (w *Window) currentMask() geom.Bounds {
	if len(w.maskStack) == 0 {
		return geom.Bounds{}
	}
	return w.maskStack[len(w.maskStack)-1]
}

func (w *Window) pushMask(b geom.Bounds) {
	if cur := w.currentMask(); cur != (geom.Bounds{}) {
		b = cur.Intersect(b)
	}
	w.maskStack = append(w.maskStack, b)
}

func (w *Window) popMask() {
	if len(w.maskStack) > 0 {
		w.maskStack = w.maskStack[:len(w.maskStack)-1]
	}
}

func (w *Window) addHitbox(b geom.Bounds, behavior HitboxBehavior, cursor CursorStyle) HitboxID {
	id := HitboxID(len(w.hitboxes) + 1)
	w.hitboxes = append(w.hitboxes, Hitbox{
		ID:       id,
		Elem:     w.currentElem(),
		Bounds:   b,
		Mask:     w.currentMask(),
		Behavior: behavior,
		Cursor:   cursor,
	})
	return id
}

func (w *Window) allocFocusID() FocusID {
	w.nextFocusID++
	return w.nextFocusID
}

func (w *Window) allocScrollHandle() ScrollHandleID {
	w.nextScrollID++
	return w.nextScrollID
}

// Scene returns the last presented scene. Valid until the next
// successful RenderFrame.
func (w *Window) Scene() *scene.Scene { return w.presented }

// Size returns the window's logical size.
func (w *Window) Size() geom.Size { return w.size }

// Frame returns the number of the most recently started frame.
func (w *Window) Frame() uint64 { return w.frameNum }

// Config returns the window's configuration.
func (w *Window) Config() *Config { return &w.cfg }

// Resize updates the logical size for the next frame.
func (w *Window) Resize(size geom.Size) {
	if size.Width < 0 {
		size.Width = 0
	}
	if size.Height < 0 {
		size.Height = 0
	}
	if size == w.size {
		return
	}
	w.size = size
	w.platform.RequestFrame()
}

// HitTestAt returns the root-to-leaf hit path at p in the last
// completed frame, or nil.
func (w *Window) HitTestAt(p geom.Point) []*HitTestNode {
	return HitTest(w.roots, p)
}

// ScrollState returns the scroll state behind a handle, or nil if the
// handle was not visited by the last frame. Offsets written here apply
// on the next frame.
func (w *Window) ScrollState(id ScrollHandleID) *ScrollState {
	return w.scrolls.lookup(id)
}

// MouseDown feeds a button press at pos in window coordinates.
func (w *Window) MouseDown(pos geom.Point, button MouseButton, mods Modifiers) {
	w.disp.mouseDown(pos, button, mods)
}

// MouseUp feeds a button release.
func (w *Window) MouseUp(pos geom.Point, button MouseButton, mods Modifiers) {
	w.disp.mouseUp(pos, button, mods)
}

// MouseMove feeds pointer motion.
func (w *Window) MouseMove(pos geom.Point, mods Modifiers) {
	w.disp.mouseMove(pos, mods)
}

// MouseLeave tells the window the pointer left it entirely.
func (w *Window) MouseLeave() {
	w.disp.mouseLeaveWindow()
}

// Wheel feeds a scroll gesture with a pixel delta.
func (w *Window) Wheel(pos geom.Point, delta geom.Point, mods Modifiers) {
	w.disp.wheel(pos, delta, mods)
}

// WheelLines feeds a line-based scroll gesture, converted to pixels by
// the configured line height.
func (w *Window) WheelLines(pos geom.Point, lines float32, mods Modifiers) {
	w.disp.wheel(pos, geom.Point{Y: lines * w.cfg.Input.WheelLineHeight}, mods)
}

// KeyDown feeds a key press. Reports whether a handler consumed it.
func (w *Window) KeyDown(keyCode uint32, key string, char rune, mods Modifiers, repeat bool) bool {
	return w.disp.keyDown(keyCode, key, char, mods, repeat)
}

// KeyUp feeds a key release.
func (w *Window) KeyUp(keyCode uint32, key string, char rune, mods Modifiers) bool {
	return w.disp.keyUp(keyCode, key, char, mods)
}

// Focus gives keyboard focus to a handle, firing Blur and Focus
// events against the current tree.
func (w *Window) Focus(id FocusID) { w.disp.focusOn(id) }

// Blur removes a handle from the focus stack.
func (w *Window) Blur(id FocusID) { w.disp.blur(id) }

// FocusedID returns the handle on top of the focus stack, 0 for none.
func (w *Window) FocusedID() FocusID { return w.focus.Top() }

// IsFocused reports whether id is anywhere in the focus stack.
func (w *Window) IsFocused(id FocusID) bool { return w.focus.Contains(id) }

// FocusNext moves focus to the next registered tab stop.
func (w *Window) FocusNext() { w.disp.focusAdvance(1) }

// FocusPrev moves focus to the previous registered tab stop.
func (w *Window) FocusPrev() { w.disp.focusAdvance(-1) }

// KeyContexts returns the key context labels along the focused path,
// root to leaf, for an external shortcut resolver.
func (w *Window) KeyContexts() []string {
	scratch := acquirePath()
	path := focusedPath(w.roots, &w.focus, scratch)
	if path == nil {
		releasePath(scratch)
		return nil
	}
	out := keyContexts(path, nil)
	releasePath(path)
	return out
}
