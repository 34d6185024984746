package prism

import (
	"math"
	"runtime/debug"
	"time"

	"github.com/agiangrant/prism/geom"
)

// dispatcher routes input against the most recent completed frame: the
// hit-test tree for bubbling, the hitbox list for capture and cursor
// resolution, the tab stop order for traversal. It owns the transient
// pointer state machine: hover, pressed, click counting, and drag.
//
// All methods run on the window's thread. Node paths retained across
// events (pressed, drag source) keep pointing into the frame that was
// current when they were captured; handler closures stay valid, and
// cross-frame identity checks go through ElementID.
type dispatcher struct {
	cfg     *Config
	focus   *focusStack
	scrolls *scrollTable

	hover   map[ElementID]bool
	pressed map[ElementID]bool

	now          func() time.Time
	setCursor    func(CursorStyle)
	requestFrame func()

	roots    []*HitTestNode
	hitboxes []Hitbox
	tabStops []FocusID

	pointer   geom.Point
	pointerIn bool

	hoverPath []*HitTestNode

	pressedPath []*HitTestNode
	pressedBtn  MouseButton

	clickCount   int
	lastClickAt  time.Time
	lastClickPos geom.Point

	drag          dragState
	suppressClick bool

	cursor CursorStyle
}

// dragState tracks one drag gesture. A drag arms on mouse down when a
// source's OnDragStart returns a payload, activates once the pointer
// travels past the threshold, and clears unconditionally on mouse up.
type dragState struct {
	pending bool
	active  bool
	payload any
	source  *HitTestNode
	origin  geom.Point
	button  MouseButton
}

func newDispatcher(cfg *Config, focus *focusStack, scrolls *scrollTable, hover, pressed map[ElementID]bool, p Platform) *dispatcher {
	return &dispatcher{
		cfg:          cfg,
		focus:        focus,
		scrolls:      scrolls,
		hover:        hover,
		pressed:      pressed,
		now:          p.Now,
		setCursor:    p.SetCursor,
		requestFrame: p.RequestFrame,
	}
}

// setFrame swaps in a completed frame's dispatch surfaces and
// recomputes hover at the remembered pointer position, so a tree that
// changed under a motionless pointer still fires enter and leave.
func (d *dispatcher) setFrame(roots []*HitTestNode, hitboxes []Hitbox, tabStops []FocusID) {
	d.roots = roots
	d.hitboxes = hitboxes
	d.tabStops = tabStops
	d.updateHover()
}

// pathAt hit-tests the tree, honoring capture: while a capture hitbox
// is active, points outside it dispatch to nothing.
func (d *dispatcher) pathAt(p geom.Point) []*HitTestNode {
	if captureBlocks(d.hitboxes, p) {
		return nil
	}
	buf := acquirePath()
	path := hitTestInto(d.roots, p, buf)
	if path == nil {
		releasePath(buf)
	}
	return path
}

func (d *dispatcher) mouseDown(pos geom.Point, button MouseButton, mods Modifiers) {
	d.pointer = pos
	d.pointerIn = true

	now := d.now()
	if now.Sub(d.lastClickAt) <= d.cfg.Input.DoubleClickInterval() &&
		pointDist(pos, d.lastClickPos) <= d.cfg.Input.DoubleClickDistance {
		d.clickCount++
	} else {
		d.clickCount = 1
	}
	d.lastClickAt = now
	d.lastClickPos = pos

	path := d.pathAt(pos)
	e := NewMouseEvent(EventMouseDown, pos, button, mods)
	e.ClickCount = d.clickCount
	d.bubble(path, e, func(h *HandlerSet) MouseHandler { return h.OnMouseDown })

	releasePath(d.pressedPath)
	d.pressedPath = copyPath(path)
	d.pressedBtn = button
	clear(d.pressed)
	for _, n := range path {
		d.pressed[n.Elem] = true
	}

	// Clicking a focusable element focuses its deepest focus handle on
	// the path, unless a handler prevented the default.
	if !e.IsDefaultPrevented() {
		for i := len(path) - 1; i >= 0; i-- {
			if path[i].Focus != 0 {
				d.focusOn(path[i].Focus)
				break
			}
		}
	}

	// Arm a drag from the deepest source willing to provide a payload.
	if !e.IsDefaultPrevented() {
		for i := len(path) - 1; i >= 0; i-- {
			n := path[i]
			if n.Handlers == nil || n.Handlers.OnDragStart == nil {
				continue
			}
			e.target = n
			e.currentTarget = n
			e.Local = n.Bounds.LocalPoint(pos)
			if payload := d.invokeDragStart(n.Handlers.OnDragStart, e); payload != nil {
				d.drag = dragState{pending: true, payload: payload, source: n, origin: pos, button: button}
				break
			}
		}
	}

	e.Release()
	releasePath(path)
	d.frameDirty()
}

func (d *dispatcher) mouseMove(pos geom.Point, mods Modifiers) {
	d.pointer = pos
	d.pointerIn = true

	if d.drag.pending && pointDist(pos, d.drag.origin) >= d.cfg.Input.DragThreshold {
		d.drag.pending = false
		d.drag.active = true
		// An activated drag eats the click that would otherwise fire on
		// release.
		d.suppressClick = true
	}

	if d.drag.active {
		e := NewMouseEvent(EventDragMove, pos, d.drag.button, mods)
		d.notifyMouse(d.drag.source, e, func(h *HandlerSet) MouseHandler { return h.OnDragMove })
		e.Release()
		d.updateHover()
		d.frameDirty()
		return
	}

	path := d.pathAt(pos)
	e := NewMouseEvent(EventMouseMove, pos, MouseButtonNone, mods)
	d.bubble(path, e, func(h *HandlerSet) MouseHandler { return h.OnMouseMove })
	e.Release()
	d.updateHoverWith(path)
	releasePath(path)
	d.frameDirty()
}

func (d *dispatcher) mouseUp(pos geom.Point, button MouseButton, mods Modifiers) {
	d.pointer = pos
	d.pointerIn = true

	path := d.pathAt(pos)
	e := NewMouseEvent(EventMouseUp, pos, button, mods)
	d.bubble(path, e, func(h *HandlerSet) MouseHandler { return h.OnMouseUp })
	e.Release()

	// A press that ends off-element still tells the pressed node about
	// the release, so buttons can reset their visuals.
	if leaf := d.pressedLeaf(); leaf != nil && !pathContainsElem(path, leaf.Elem) {
		ue := NewMouseEvent(EventMouseUp, pos, button, mods)
		d.notifyMouse(leaf, ue, func(h *HandlerSet) MouseHandler { return h.OnMouseUp })
		ue.Release()
	}

	if d.drag.active {
		d.finishDrag(path, pos, button, mods)
	}

	// Click: bubbles from the deepest node that saw both the press and
	// the release of the same button.
	if !d.suppressClick && button == d.pressedBtn {
		clickIdx := -1
		for i := len(path) - 1; i >= 0; i-- {
			if pathContainsElem(d.pressedPath, path[i].Elem) {
				clickIdx = i
				break
			}
		}
		if clickIdx >= 0 {
			ce := NewMouseEvent(EventClick, pos, button, mods)
			ce.ClickCount = d.clickCount
			d.bubble(path[:clickIdx+1], ce, func(h *HandlerSet) MouseHandler { return h.OnClick })
			ce.Release()
		}
	}

	d.drag = dragState{}
	d.suppressClick = false
	releasePath(d.pressedPath)
	d.pressedPath = nil
	d.pressedBtn = MouseButtonNone
	clear(d.pressed)

	d.updateHoverWith(path)
	releasePath(path)
	d.frameDirty()
}

// finishDrag resolves the drop target and closes out the gesture. The
// drop goes to the deepest node under the release point that has an
// OnDrop and whose CanDrop accepts the payload; the source then gets
// OnDragEnd whether or not anything accepted.
func (d *dispatcher) finishDrag(path []*HitTestNode, pos geom.Point, button MouseButton, mods Modifiers) {
	payload := d.drag.payload
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if n.Handlers == nil || n.Handlers.OnDrop == nil {
			continue
		}
		if n.Handlers.CanDrop != nil && !d.invokeCanDrop(n.Handlers.CanDrop, payload) {
			continue
		}
		de := NewMouseEvent(EventDrop, pos, button, mods)
		de.target = n
		de.currentTarget = n
		de.Local = n.Bounds.LocalPoint(pos)
		d.invokeDrop(n.Handlers.OnDrop, payload, de)
		de.Release()
		break
	}
	ee := NewMouseEvent(EventDragEnd, pos, button, mods)
	d.notifyMouse(d.drag.source, ee, func(h *HandlerSet) MouseHandler { return h.OnDragEnd })
	ee.Release()
}

// wheel dispatches a scroll gesture. Delta is in pixels; positive Y
// scrolls the content up (the offset grows). Custom OnWheel handlers
// run first; unless one prevents the default, the nearest scrollable
// ancestor of the hit absorbs the whole delta, clamped or not, and
// deeper or shallower scrollables never chain.
func (d *dispatcher) wheel(pos geom.Point, delta geom.Point, mods Modifiers) {
	d.pointer = pos
	d.pointerIn = true

	path := d.pathAt(pos)
	e := NewMouseEvent(EventMouseWheel, pos, MouseButtonNone, mods)
	e.Delta = delta
	d.bubble(path, e, func(h *HandlerSet) MouseHandler { return h.OnWheel })

	if !e.IsDefaultPrevented() {
		for i := len(path) - 1; i >= 0; i-- {
			if path[i].Scroll == 0 {
				continue
			}
			if ss := d.scrolls.lookup(path[i].Scroll); ss != nil {
				ss.ScrollBy(delta.X, delta.Y)
			}
			break
		}
	}

	e.Release()
	releasePath(path)
	d.frameDirty()
}

// keyDown routes a key press along the focused path and applies the
// Tab traversal default. Reports whether any handler saw the event.
func (d *dispatcher) keyDown(keyCode uint32, key string, char rune, mods Modifiers, repeat bool) bool {
	e := NewKeyEvent(EventKeyDown, keyCode, key, char, mods, repeat)
	invoked := d.dispatchKey(e, func(h *HandlerSet) KeyHandler { return h.OnKeyDown })

	handled := invoked > 0
	if key == "Tab" && !e.IsDefaultPrevented() {
		dir := 1
		if mods.Shift() {
			dir = -1
		}
		d.focusAdvance(dir)
		handled = true
	}
	e.Release()
	d.frameDirty()
	return handled
}

// keyUp routes a key release along the focused path.
func (d *dispatcher) keyUp(keyCode uint32, key string, char rune, mods Modifiers) bool {
	e := NewKeyEvent(EventKeyUp, keyCode, key, char, mods, false)
	invoked := d.dispatchKey(e, func(h *HandlerSet) KeyHandler { return h.OnKeyUp })
	e.Release()
	d.frameDirty()
	return invoked > 0
}

func (d *dispatcher) dispatchKey(e *KeyEvent, pick func(*HandlerSet) KeyHandler) int {
	scratch := acquirePath()
	path := focusedPath(d.roots, d.focus, scratch)
	if path == nil {
		releasePath(scratch)
		return 0
	}
	invoked := 0
	e.target = path[len(path)-1]
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if n.Handlers == nil {
			continue
		}
		fn := pick(n.Handlers)
		if fn == nil {
			continue
		}
		e.currentTarget = n
		invoked++
		d.invokeKey(fn, e)
		if e.IsPropagationStopped() {
			break
		}
	}
	releasePath(path)
	return invoked
}

// mouseLeaveWindow clears hover when the pointer exits the window.
func (d *dispatcher) mouseLeaveWindow() {
	d.pointerIn = false
	d.updateHover()
	d.frameDirty()
}

// focusOn pushes id onto the focus stack and fires Blur then Focus. An
// id already buried in the stack stays where it is and fires nothing.
func (d *dispatcher) focusOn(id FocusID) {
	if id == 0 {
		return
	}
	old := d.focus.Top()
	if old == id {
		return
	}
	d.focus.Push(id)
	if d.focus.Top() != id {
		return
	}
	if old != 0 {
		d.notifyFocus(old, EventBlur)
	}
	d.notifyFocus(id, EventFocus)
}

// blur removes id from the focus stack wherever it sits. Removing the
// top re-delivers Focus to the handle the pop reveals.
func (d *dispatcher) blur(id FocusID) {
	if id == 0 || !d.focus.Contains(id) {
		return
	}
	wasTop := d.focus.Top() == id
	d.focus.Remove(id)
	d.notifyFocus(id, EventBlur)
	if wasTop {
		if top := d.focus.Top(); top != 0 {
			d.notifyFocus(top, EventFocus)
		}
	}
}

// focusAdvance moves focus to the next or previous tab stop of the
// current frame. Traversal moves the anchoring stop rather than
// nesting scopes: the stop that loses focus leaves the stack, so
// repeated Tab presses cycle instead of piling up.
func (d *dispatcher) focusAdvance(dir int) {
	next := advanceTabStop(d.tabStops, d.focus, dir)
	if next == 0 {
		return
	}
	cur := d.activeTabStop()
	if cur == next {
		return
	}
	if d.focus.Contains(next) && d.focus.Top() != next {
		// A buried stop cannot be re-pushed; surface it.
		d.focus.Remove(next)
	}
	prevTop := d.focus.Top()
	d.focusOn(next)
	if cur != 0 {
		d.focus.Remove(cur)
		if cur != prevTop {
			// focusOn only blurred the previous top; an anchor buried
			// beneath a non-stop scope still needs its Blur.
			d.notifyFocus(cur, EventBlur)
		}
	}
}

// activeTabStop returns the topmost focused id that is a tab stop, the
// anchor Tab traversal advances from.
func (d *dispatcher) activeTabStop() FocusID {
	for i := len(d.focus.ids) - 1; i >= 0; i-- {
		for _, s := range d.tabStops {
			if s == d.focus.ids[i] {
				return s
			}
		}
	}
	return 0
}

func (d *dispatcher) notifyFocus(id FocusID, t EventType) {
	n := findFocusNode(d.roots, id)
	if n == nil || n.Handlers == nil {
		return
	}
	var fn FocusHandler
	if t == EventFocus {
		fn = n.Handlers.OnFocus
	} else {
		fn = n.Handlers.OnBlur
	}
	if fn == nil {
		return
	}
	e := &FocusEvent{ID: id}
	e.eventType = t
	e.target = n
	e.currentTarget = n
	d.invokeFocus(fn, e)
}

// updateHover recomputes the hover path at the stored pointer.
func (d *dispatcher) updateHover() {
	var path []*HitTestNode
	if d.pointerIn {
		path = d.pathAt(d.pointer)
	}
	d.updateHoverWith(path)
	releasePath(path)
}

// updateHoverWith diffs the previous hover path against path. Leave
// fires leaf to root on nodes that dropped out, enter fires root to
// leaf on nodes that appeared; neither bubbles. Cross-frame identity
// is by ElementID, so a rebuilt tree does not re-enter everything.
func (d *dispatcher) updateHoverWith(path []*HitTestNode) {
	for i := len(d.hoverPath) - 1; i >= 0; i-- {
		n := d.hoverPath[i]
		if pathContainsElem(path, n.Elem) {
			continue
		}
		e := NewMouseEvent(EventMouseLeave, d.pointer, MouseButtonNone, 0)
		d.notifyMouse(n, e, func(h *HandlerSet) MouseHandler { return h.OnMouseLeave })
		e.Release()
	}
	for _, n := range path {
		if pathContainsElem(d.hoverPath, n.Elem) {
			continue
		}
		e := NewMouseEvent(EventMouseEnter, d.pointer, MouseButtonNone, 0)
		d.notifyMouse(n, e, func(h *HandlerSet) MouseHandler { return h.OnMouseEnter })
		e.Release()
	}

	releasePath(d.hoverPath)
	d.hoverPath = copyPath(path)
	clear(d.hover)
	for _, n := range path {
		d.hover[n.Elem] = true
	}
	// Elements with a hitbox but no hit-test node, cursor-only ones,
	// still count as hovered.
	if d.pointerIn {
		if hb, ok := hitboxAt(d.hitboxes, d.pointer); ok {
			d.hover[hb.Elem] = true
		}
	}
	d.resolveCursor()
}

// resolveCursor picks the pointer cursor from the topmost hovered
// hitbox, with an active drag overriding everything.
func (d *dispatcher) resolveCursor() {
	c := CursorDefault
	switch {
	case d.drag.active:
		c = CursorGrabbing
	case d.pointerIn:
		if hb, ok := hitboxAt(d.hitboxes, d.pointer); ok {
			c = hb.Cursor
		}
	}
	if c != d.cursor {
		d.cursor = c
		d.setCursor(c)
	}
}

// bubble walks path leaf to root, invoking the picked handler at each
// node until one stops propagation. Local is rewritten per node.
func (d *dispatcher) bubble(path []*HitTestNode, e *MouseEvent, pick func(*HandlerSet) MouseHandler) int {
	if len(path) == 0 {
		return 0
	}
	invoked := 0
	e.target = path[len(path)-1]
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if n.Handlers == nil {
			continue
		}
		fn := pick(n.Handlers)
		if fn == nil {
			continue
		}
		e.currentTarget = n
		e.Local = n.Bounds.LocalPoint(e.Position)
		invoked++
		d.invokeMouse(fn, e)
		if e.IsPropagationStopped() {
			break
		}
	}
	return invoked
}

// notifyMouse invokes the picked handler on a single node without
// bubbling.
func (d *dispatcher) notifyMouse(n *HitTestNode, e *MouseEvent, pick func(*HandlerSet) MouseHandler) {
	if n == nil || n.Handlers == nil {
		return
	}
	fn := pick(n.Handlers)
	if fn == nil {
		return
	}
	e.target = n
	e.currentTarget = n
	e.Local = n.Bounds.LocalPoint(e.Position)
	d.invokeMouse(fn, e)
}

// Handler invocation is isolated: a panicking handler is logged and
// its writes to the propagation flags are rolled back, so one broken
// callback cannot wedge the rest of the dispatch.

func (d *dispatcher) invokeMouse(fn MouseHandler, e *MouseEvent) {
	stopped, prevented := e.propagationStopped, e.defaultPrevented
	defer func() {
		if r := recover(); r != nil {
			e.propagationStopped, e.defaultPrevented = stopped, prevented
			logHandlerPanic(e.Type(), r)
		}
	}()
	fn(e)
}

func (d *dispatcher) invokeKey(fn KeyHandler, e *KeyEvent) {
	stopped, prevented := e.propagationStopped, e.defaultPrevented
	defer func() {
		if r := recover(); r != nil {
			e.propagationStopped, e.defaultPrevented = stopped, prevented
			logHandlerPanic(e.Type(), r)
		}
	}()
	fn(e)
}

func (d *dispatcher) invokeFocus(fn FocusHandler, e *FocusEvent) {
	defer func() {
		if r := recover(); r != nil {
			logHandlerPanic(e.Type(), r)
		}
	}()
	fn(e)
}

func (d *dispatcher) invokeDragStart(fn func(*MouseEvent) any, e *MouseEvent) (payload any) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			logHandlerPanic(e.Type(), r)
		}
	}()
	return fn(e)
}

func (d *dispatcher) invokeCanDrop(fn func(any) bool, payload any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logHandlerPanic(EventDrop, r)
		}
	}()
	return fn(payload)
}

func (d *dispatcher) invokeDrop(fn func(any, *MouseEvent), payload any, e *MouseEvent) {
	defer func() {
		if r := recover(); r != nil {
			logHandlerPanic(e.Type(), r)
		}
	}()
	fn(payload, e)
}

func logHandlerPanic(t EventType, r any) {
	Logger().Error("event handler panicked",
		"event", t.String(),
		"panic", r,
		"stack", string(debug.Stack()),
	)
}

func (d *dispatcher) pressedLeaf() *HitTestNode {
	if len(d.pressedPath) == 0 {
		return nil
	}
	return d.pressedPath[len(d.pressedPath)-1]
}

func (d *dispatcher) frameDirty() {
	if d.requestFrame != nil {
		d.requestFrame()
	}
}

func findFocusNode(roots []*HitTestNode, id FocusID) *HitTestNode {
	for i := len(roots) - 1; i >= 0; i-- {
		if n := findFocusIn(roots[i], id); n != nil {
			return n
		}
	}
	return nil
}

func findFocusIn(n *HitTestNode, id FocusID) *HitTestNode {
	if n == nil {
		return nil
	}
	if n.Focus == id {
		return n
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if found := findFocusIn(n.Children[i], id); found != nil {
			return found
		}
	}
	return nil
}

func pathContainsElem(path []*HitTestNode, id ElementID) bool {
	for _, n := range path {
		if n.Elem == id {
			return true
		}
	}
	return false
}

func copyPath(path []*HitTestNode) []*HitTestNode {
	if len(path) == 0 {
		return nil
	}
	return append(acquirePath(), path...)
}

func pointDist(a, b geom.Point) float32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return float32(math.Hypot(dx, dy))
}
