package prism

import (
	"fmt"

	"github.com/agiangrant/prism/geom"
	"github.com/agiangrant/prism/scene"
	"github.com/agiangrant/prism/text"
)

// Builder helpers for common element patterns.
// These provide a fluent API for constructing UI trees: constructors
// return the concrete element and Set*/On* methods chain on it. Trees
// are rebuilt every frame; anything that must survive the frame lives
// in window-side element state.

// Container creates a generic flex container.
func Container(children ...Element) *Div {
	return &Div{layout: DefaultLayoutStyle(), children: children}
}

// VStack creates a vertical stack container.
// Children are laid out top-to-bottom.
func VStack(children ...Element) *Div {
	d := Container(children...)
	d.layout.Direction = Column
	return d
}

// HStack creates a horizontal stack container.
// Children are laid out left-to-right.
func HStack(children ...Element) *Div {
	d := Container(children...)
	d.layout.Direction = Row
	return d
}

// ScrollView creates a vertically scrolling container. Content lays
// out at its natural height and the view clips and offsets it by the
// scroll position; the wheel scrolls it once no descendant claims the
// event.
func ScrollView(children ...Element) *Div {
	d := VStack(children...)
	d.scrollable = true
	return d
}

// Spacer creates an empty element that expands to absorb leftover
// space along the main axis.
func Spacer() *Div {
	d := Container()
	d.layout.FlexGrow = 1
	return d
}

// Text creates a text element.
func Text(s string) *Label {
	return &Label{text: s, layout: DefaultLayoutStyle(), color: geom.RGB(0x1f, 0x29, 0x37), size: 14}
}

// Button creates a clickable, focusable button with a text label.
func Button(label string, onClick MouseHandler) *Div {
	d := Container(Text(label).SetTextColor(geom.RGB(0xff, 0xff, 0xff)))
	d.layout.Padding = geom.Edges{Top: 6, Right: 12, Bottom: 6, Left: 12}
	d.layout.AlignItems = AlignCenter
	d.layout.Justify = JustifyCenter
	return d.
		SetBackgroundColor(geom.RGB(0x3b, 0x82, 0xf6)).
		SetCornerRadius(4).
		SetCursor(CursorPointer).
		SetFocusable(true).
		OnClick(onClick)
}

// VirtualList creates a virtualized vertical list over state. Only the
// rows intersecting the viewport (plus overdraw) are built each frame,
// via render.
func VirtualList(state *ListState, render func(index int) Element) *List {
	return &List{state: state, render: render, layout: DefaultLayoutStyle(), overdraw: -1}
}

// Div is the general-purpose container element: a flex box with
// optional decoration, event handlers, focus, clipping scroll, and a
// deferred overlay. The zero value is unusable; construct through
// Container and friends.
type Div struct {
	layout   LayoutStyle
	style    Style
	handlers HandlerSet
	children []Element

	focusable  bool
	keyContext string
	cursor     CursorStyle
	behavior   HitboxBehavior
	scrollable bool

	overlay   Element
	overlayAt func(anchor geom.Bounds, size geom.Size) geom.Point

	// Frame-scoped, written during RequestLayout for HitTest to read.
	st *divState
}

// divState is the persistent window-side state of a Div: the focus and
// scroll handles it allocated, stable across frames.
type divState struct {
	focus  FocusID
	scroll ScrollHandleID
}

type divRequest struct {
	id   LayoutID
	kids []LayoutID
	st   *divState
}

type divPre struct {
	kids     []LayoutID
	scrolled bool
	origin   geom.Point
	clip     geom.Bounds
	offset   geom.Point
	content  geom.Size
}

// SetLayout replaces the whole layout style. Later granular setters
// still apply on top.
func (d *Div) SetLayout(s LayoutStyle) *Div {
	d.layout = s
	return d
}

// SetDirection sets the main axis.
func (d *Div) SetDirection(dir Direction) *Div {
	d.layout.Direction = dir
	return d
}

// SetJustify distributes leftover main-axis space.
func (d *Div) SetJustify(j Justify) *Div {
	d.layout.Justify = j
	return d
}

// SetAlignItems places children on the cross axis.
func (d *Div) SetAlignItems(a Align) *Div {
	d.layout.AlignItems = a
	return d
}

// SetSize sets a fixed width and height in pixels.
func (d *Div) SetSize(width, height float32) *Div {
	d.layout.Width = Px(width)
	d.layout.Height = Px(height)
	return d
}

// SetWidth sets a fixed width in pixels.
func (d *Div) SetWidth(width float32) *Div {
	d.layout.Width = Px(width)
	return d
}

// SetHeight sets a fixed height in pixels.
func (d *Div) SetHeight(height float32) *Div {
	d.layout.Height = Px(height)
	return d
}

// SetWidthPercent sets the width as a percentage of the parent.
func (d *Div) SetWidthPercent(percent float32) *Div {
	d.layout.Width = Percent(percent)
	return d
}

// SetHeightPercent sets the height as a percentage of the parent.
func (d *Div) SetHeightPercent(percent float32) *Div {
	d.layout.Height = Percent(percent)
	return d
}

// SetFlexGrow sets how much leftover space this element absorbs.
func (d *Div) SetFlexGrow(grow float32) *Div {
	d.layout.FlexGrow = grow
	return d
}

// SetFlexShrink sets how much this element shrinks under pressure.
func (d *Div) SetFlexShrink(shrink float32) *Div {
	d.layout.FlexShrink = shrink
	return d
}

// SetGap sets the gap between children on both axes.
func (d *Div) SetGap(gap float32) *Div {
	d.layout.RowGap = gap
	d.layout.ColumnGap = gap
	return d
}

// SetPadding sets uniform padding on all sides.
func (d *Div) SetPadding(padding float32) *Div {
	d.layout.Padding = geom.EdgesAll(padding)
	return d
}

// SetPaddingAll sets each padding side separately.
func (d *Div) SetPaddingAll(top, right, bottom, left float32) *Div {
	d.layout.Padding = geom.Edges{Top: top, Right: right, Bottom: bottom, Left: left}
	return d
}

// SetMargin sets uniform margin on all sides.
func (d *Div) SetMargin(margin float32) *Div {
	d.layout.Margin = geom.EdgesAll(margin)
	return d
}

// SetBackgroundColor sets the fill color.
func (d *Div) SetBackgroundColor(c geom.Color) *Div {
	d.style.Background = c
	return d
}

// SetBorder sets a uniform border. The width participates in layout.
func (d *Div) SetBorder(width float32, c geom.Color) *Div {
	d.layout.Border = geom.EdgesAll(width)
	d.style.BorderWidth = geom.EdgesAll(width)
	d.style.BorderColor = c
	return d
}

// SetCornerRadius rounds all four corners.
func (d *Div) SetCornerRadius(radius float32) *Div {
	d.style.CornerRadii = geom.CornersAll(radius)
	return d
}

// SetShadow adds a drop shadow beneath the element.
func (d *Div) SetShadow(c geom.Color, blur float32, offset geom.Point) *Div {
	d.style.Shadow = &ShadowStyle{Color: c, Blur: blur, Offset: offset}
	return d
}

// SetCursor sets the pointer cursor shown while hovering.
func (d *Div) SetCursor(c CursorStyle) *Div {
	d.cursor = c
	return d
}

// SetFocusable makes the element a tab stop that can hold keyboard
// focus.
func (d *Div) SetFocusable(focusable bool) *Div {
	d.focusable = focusable
	return d
}

// SetKeyContext tags the element with a named keyboard context. The
// window reports the contexts along the focused path so shortcut maps
// can switch on them.
func (d *Div) SetKeyContext(name string) *Div {
	d.keyContext = name
	return d
}

// SetHitBehavior overrides how the element's hitbox participates in
// pointer resolution. Capture makes it a modal barrier.
func (d *Div) SetHitBehavior(b HitboxBehavior) *Div {
	d.behavior = b
	return d
}

// SetOverlay attaches an element drawn after the main tree, positioned
// below this element's bounds by default. Overlays escape ancestor
// clips and hit-test above everything painted before them.
func (d *Div) SetOverlay(elem Element) *Div {
	d.overlay = elem
	return d
}

// SetOverlayPosition overrides overlay placement. The callback gets
// the anchor bounds and the overlay's solved size.
func (d *Div) SetOverlayPosition(fn func(anchor geom.Bounds, size geom.Size) geom.Point) *Div {
	d.overlayAt = fn
	return d
}

// AddChild appends a child element.
func (d *Div) AddChild(child Element) *Div {
	d.children = append(d.children, child)
	return d
}

// OnClick registers a click handler.
func (d *Div) OnClick(fn MouseHandler) *Div {
	d.handlers.OnClick = fn
	return d
}

// OnMouseDown registers a mouse button press handler.
func (d *Div) OnMouseDown(fn MouseHandler) *Div {
	d.handlers.OnMouseDown = fn
	return d
}

// OnMouseUp registers a mouse button release handler.
func (d *Div) OnMouseUp(fn MouseHandler) *Div {
	d.handlers.OnMouseUp = fn
	return d
}

// OnMouseMove registers a pointer move handler.
func (d *Div) OnMouseMove(fn MouseHandler) *Div {
	d.handlers.OnMouseMove = fn
	return d
}

// OnMouseEnter registers a hover enter handler.
func (d *Div) OnMouseEnter(fn MouseHandler) *Div {
	d.handlers.OnMouseEnter = fn
	return d
}

// OnMouseLeave registers a hover leave handler.
func (d *Div) OnMouseLeave(fn MouseHandler) *Div {
	d.handlers.OnMouseLeave = fn
	return d
}

// OnWheel registers a wheel handler that runs before scroll
// absorption. Call PreventDefault to keep ancestors from scrolling.
func (d *Div) OnWheel(fn MouseHandler) *Div {
	d.handlers.OnWheel = fn
	return d
}

// OnKeyDown registers a key press handler, delivered along the focused
// path.
func (d *Div) OnKeyDown(fn KeyHandler) *Div {
	d.handlers.OnKeyDown = fn
	return d
}

// OnKeyUp registers a key release handler.
func (d *Div) OnKeyUp(fn KeyHandler) *Div {
	d.handlers.OnKeyUp = fn
	return d
}

// OnFocus registers a focus gained handler.
func (d *Div) OnFocus(fn FocusHandler) *Div {
	d.handlers.OnFocus = fn
	return d
}

// OnBlur registers a focus lost handler.
func (d *Div) OnBlur(fn FocusHandler) *Div {
	d.handlers.OnBlur = fn
	return d
}

// OnDragStart makes the element a drag source. The callback returns
// the drag payload, or nil to decline the drag.
func (d *Div) OnDragStart(fn func(*MouseEvent) any) *Div {
	d.handlers.OnDragStart = fn
	return d
}

// OnDragMove registers a handler called on the source while its drag
// is active.
func (d *Div) OnDragMove(fn MouseHandler) *Div {
	d.handlers.OnDragMove = fn
	return d
}

// OnDragEnd registers a handler called on the source when its drag
// finishes, dropped or not.
func (d *Div) OnDragEnd(fn MouseHandler) *Div {
	d.handlers.OnDragEnd = fn
	return d
}

// SetCanDrop makes the element a drop target for payloads the
// predicate accepts.
func (d *Div) SetCanDrop(fn func(payload any) bool) *Div {
	d.handlers.CanDrop = fn
	return d
}

// OnDrop registers the handler that receives an accepted payload.
func (d *Div) OnDrop(fn func(payload any, e *MouseEvent)) *Div {
	d.handlers.OnDrop = fn
	return d
}

func (d *Div) RequestLayout(cx *RequestContext) (LayoutID, any, error) {
	var st *divState
	if d.focusable || d.scrollable {
		st, _ = cx.State().(*divState)
		if st == nil {
			st = &divState{}
			cx.SetState(st)
		}
		if d.focusable && st.focus == 0 {
			st.focus = cx.AllocFocusID()
		}
		if d.scrollable && st.scroll == 0 {
			st.scroll = cx.AllocScrollHandle()
		}
	}
	d.st = st

	rq := &divRequest{st: st}
	if d.scrollable {
		// Content goes in a non-shrinking wrapper element so it keeps
		// its natural height and overflows the clipped viewport.
		outer, inner := splitScrollStyle(d.layout)
		cid, err := cx.RequestChild(&scrollContent{style: inner, children: d.children})
		if err != nil {
			return 0, nil, err
		}
		rq.id = cx.Request(outer, cid)
		rq.kids = []LayoutID{cid}
	} else {
		ids := make([]LayoutID, 0, len(d.children))
		for _, c := range d.children {
			id, err := cx.RequestChild(c)
			if err != nil {
				return 0, nil, err
			}
			ids = append(ids, id)
		}
		rq.id = cx.Request(d.layout, ids...)
		rq.kids = ids
	}
	return rq.id, rq, nil
}

func (d *Div) Prepaint(cx *PrepaintContext, bounds geom.Bounds, req any) (any, error) {
	rq := req.(*divRequest)
	if d.hasHitbox() {
		cx.AddHitbox(bounds, d.behavior, d.cursor)
	}
	if d.focusable && rq.st != nil {
		cx.RegisterTabStop(rq.st.focus)
	}

	pre := &divPre{kids: rq.kids}
	if d.scrollable && rq.st != nil {
		ss := cx.ScrollState(rq.st.scroll)
		viewport := bounds.Inset(d.layout.Border)
		ss.SetViewportSize(viewport.Size())
		ss.SetContentSize(cx.ContentSize(rq.id))
		off := ss.Offset()

		pre.scrolled = true
		pre.clip = viewport
		pre.origin = bounds.Origin().Sub(off)
		pre.offset = off
		pre.content = ss.ContentSize()

		cx.PushMask(viewport)
		err := cx.PrepaintChildAt(rq.kids[0], pre.origin)
		cx.PopMask()
		if err != nil {
			return nil, err
		}
	} else {
		for _, kid := range rq.kids {
			if err := cx.PrepaintChild(kid); err != nil {
				return nil, err
			}
		}
	}

	if d.overlay != nil {
		anchor := bounds
		overlay := d.overlay
		place := d.overlayAt
		cx.DeferPrepaint(func(pcx *PrepaintContext) error {
			oid, err := pcx.RequestDetached(overlay)
			if err != nil {
				return err
			}
			pcx.SolveDetached(oid, -1, -1)
			origin := geom.Point{X: anchor.X, Y: anchor.Bottom()}
			if place != nil {
				origin = place(anchor, pcx.NodeSize(oid))
			}
			if err := pcx.PrepaintChildAt(oid, origin); err != nil {
				return err
			}
			pcx.DeferDraw(func(p *PaintContext) { p.PaintChildAt(oid, origin) })
			return nil
		})
	}
	return pre, nil
}

func (d *Div) Paint(cx *PaintContext, bounds geom.Bounds, preAny any) {
	pre := preAny.(*divPre)
	sc := cx.Scene()
	paintBox(sc, bounds, &d.style)
	if pre.scrolled {
		sc.PushClip(pre.clip)
		cx.PaintChildAt(pre.kids[0], pre.origin)
		sc.PopClip()
		d.paintScrollThumb(sc, pre)
	} else {
		for _, kid := range pre.kids {
			cx.PaintChild(kid)
		}
	}
}

func (d *Div) HitTest(bounds geom.Bounds, children []*HitTestNode) *HitTestNode {
	var focus FocusID
	var scroll ScrollHandleID
	if d.st != nil {
		focus = d.st.focus
		scroll = d.st.scroll
	}
	if d.handlers.empty() && focus == 0 && scroll == 0 && d.keyContext == "" {
		return nil
	}
	n := &HitTestNode{
		Bounds:     bounds,
		Focus:      focus,
		Scroll:     scroll,
		KeyContext: d.keyContext,
		Children:   children,
	}
	if !d.handlers.empty() {
		n.Handlers = &d.handlers
	}
	return n
}

func (d *Div) hasHitbox() bool {
	return !d.handlers.empty() || d.focusable || d.scrollable ||
		d.cursor != CursorDefault || d.behavior != BehaviorNormal
}

// paintScrollThumb draws a minimal scroll indicator when the content
// overflows the viewport.
func (d *Div) paintScrollThumb(sc *scene.Scene, pre *divPre) {
	vp := pre.clip
	if pre.content.Height <= vp.Height || vp.Height <= 0 {
		return
	}
	const thumbW, inset = 4, 2
	trackH := vp.Height - 2*inset
	thumbH := maxf32(trackH*vp.Height/pre.content.Height, 16)
	maxOff := pre.content.Height - vp.Height
	thumbY := vp.Y + inset + (trackH-thumbH)*(pre.offset.Y/maxOff)
	sc.AddQuad(scene.Quad{
		Bounds: geom.Bounds{
			X: vp.Right() - thumbW - inset, Y: thumbY,
			Width: thumbW, Height: thumbH,
		},
		Background:  geom.RGBA(0, 0, 0, 0x50),
		CornerRadii: geom.CornersAll(thumbW / 2),
	})
}

// scrollContent is the wrapper element a scrolling Div puts its
// children in. It exists so the content subtree has its own layout
// node with FlexShrink 0; it contributes nothing to hit testing.
type scrollContent struct {
	style    LayoutStyle
	children []Element
}

func (s *scrollContent) RequestLayout(cx *RequestContext) (LayoutID, any, error) {
	ids := make([]LayoutID, 0, len(s.children))
	for _, c := range s.children {
		id, err := cx.RequestChild(c)
		if err != nil {
			return 0, nil, err
		}
		ids = append(ids, id)
	}
	return cx.Request(s.style, ids...), ids, nil
}

func (s *scrollContent) Prepaint(cx *PrepaintContext, _ geom.Bounds, req any) (any, error) {
	ids := req.([]LayoutID)
	for _, id := range ids {
		if err := cx.PrepaintChild(id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *scrollContent) Paint(cx *PaintContext, _ geom.Bounds, pre any) {
	for _, id := range pre.([]LayoutID) {
		cx.PaintChild(id)
	}
}

func (s *scrollContent) HitTest(geom.Bounds, []*HitTestNode) *HitTestNode { return nil }

// splitScrollStyle divides a scroll container's style between the
// clipping viewport box and the content wrapper inside it. Flow
// properties travel inward; box properties stay outside.
func splitScrollStyle(s LayoutStyle) (outer, inner LayoutStyle) {
	outer = s
	outer.Direction = Column
	outer.Wrap = false
	outer.Justify = JustifyStart
	outer.AlignItems = AlignStretch
	outer.AlignContent = AlignStretch
	outer.RowGap = 0
	outer.ColumnGap = 0

	inner = DefaultLayoutStyle()
	inner.Direction = s.Direction
	inner.Wrap = s.Wrap
	inner.Justify = s.Justify
	inner.AlignItems = s.AlignItems
	inner.AlignContent = s.AlignContent
	inner.RowGap = s.RowGap
	inner.ColumnGap = s.ColumnGap
	inner.FlexShrink = 0
	return outer, inner
}

// paintBox emits an element's decoration: shadow first, then the quad
// above it.
func paintBox(sc *scene.Scene, bounds geom.Bounds, s *Style) {
	if s.Shadow != nil {
		sc.AddShadow(scene.Shadow{
			Bounds:      bounds,
			Color:       s.Shadow.Color,
			Blur:        s.Shadow.Blur,
			Offset:      s.Shadow.Offset,
			CornerRadii: s.CornerRadii,
		})
	}
	sc.AddQuad(scene.Quad{
		Bounds:      bounds,
		Background:  s.Background,
		BorderColor: s.BorderColor,
		BorderWidth: s.BorderWidth,
		CornerRadii: s.CornerRadii,
	})
}

// Label is a text leaf. It measures through the window's text service
// and shapes again at paint time, which the measurement cache makes
// cheap.
type Label struct {
	text   string
	layout LayoutStyle
	color  geom.Color
	size   float32
	lineHi float32
}

// SetLayout replaces the label's layout style; margins and flex
// factors are the usual reason.
func (l *Label) SetLayout(s LayoutStyle) *Label {
	l.layout = s
	return l
}

// SetTextColor sets the glyph color.
func (l *Label) SetTextColor(c geom.Color) *Label {
	l.color = c
	return l
}

// SetTextSize sets the font size in pixels.
func (l *Label) SetTextSize(size float32) *Label {
	l.size = size
	return l
}

// SetLineHeight overrides the face's natural line height.
func (l *Label) SetLineHeight(h float32) *Label {
	l.lineHi = h
	return l
}

func (l *Label) textStyle() text.Style {
	return text.Style{Size: l.size, LineHeight: l.lineHi}
}

func (l *Label) RequestLayout(cx *RequestContext) (LayoutID, any, error) {
	m := cx.Text()
	st := l.textStyle()
	s := l.text
	id := cx.RequestMeasured(l.layout, func(w float32, wm MeasureMode, _ float32, _ MeasureMode) geom.Size {
		maxW := float32(-1)
		if wm != MeasureUndefined {
			maxW = w
		}
		return m.Measure(s, st, maxW)
	})
	return id, nil, nil
}

func (l *Label) Prepaint(*PrepaintContext, geom.Bounds, any) (any, error) {
	return nil, nil
}

func (l *Label) Paint(cx *PaintContext, bounds geom.Bounds, _ any) {
	inner := bounds.Inset(l.layout.Border).Inset(l.layout.Padding)
	shaped := cx.Text().Shape(l.text, l.textStyle(), inner.Width)
	sc := cx.Scene()
	for _, line := range shaped.Lines {
		sc.AddGlyphRun(scene.GlyphRun{
			Origin: geom.Point{X: inner.X, Y: inner.Y + line.Baseline},
			Color:  l.color,
			Size:   l.size,
			Face:   shaped.Face,
			Glyphs: line.Glyphs,
		})
	}
}

func (l *Label) HitTest(geom.Bounds, []*HitTestNode) *HitTestNode { return nil }

// List is a virtualized vertical list element over a ListState. Rows
// are laid out detached from the main tree during prepaint: first the
// rows the height table predicts are visible, then, after their real
// heights land in the table, whatever the corrected range adds.
type List struct {
	state    *ListState
	render   func(index int) Element
	layout   LayoutStyle
	style    Style
	overdraw int

	st *listElemState
}

type listElemState struct {
	scroll ScrollHandleID
}

type listPre struct {
	items []listItem
	clip  geom.Bounds
}

type listItem struct {
	id     LayoutID
	origin geom.Point
}

// SetLayout replaces the list's layout style.
func (l *List) SetLayout(s LayoutStyle) *List {
	l.layout = s
	return l
}

// SetFlexGrow sets how much leftover space the list absorbs.
func (l *List) SetFlexGrow(grow float32) *List {
	l.layout.FlexGrow = grow
	return l
}

// SetBackgroundColor sets the fill behind the rows.
func (l *List) SetBackgroundColor(c geom.Color) *List {
	l.style.Background = c
	return l
}

// SetOverdraw overrides how many rows beyond each viewport edge are
// built. Negative restores the configured default.
func (l *List) SetOverdraw(rows int) *List {
	l.overdraw = rows
	return l
}

func (l *List) RequestLayout(cx *RequestContext) (LayoutID, any, error) {
	st, _ := cx.State().(*listElemState)
	if st == nil {
		st = &listElemState{scroll: cx.AllocScrollHandle()}
		cx.SetState(st)
	}
	l.st = st
	// Rows are requested detached during prepaint, once the viewport
	// is known; the list itself is a leaf to the main solve.
	return cx.Request(l.layout), nil, nil
}

func (l *List) Prepaint(cx *PrepaintContext, bounds geom.Bounds, _ any) (any, error) {
	st := l.st
	ss := cx.ScrollState(st.scroll)
	viewport := bounds.Inset(l.layout.Border)
	ss.SetViewportSize(viewport.Size())
	ss.SetContentSize(geom.Size{Width: viewport.Width, Height: l.state.TotalHeight()})
	scrollY := ss.Offset().Y

	od := l.overdraw
	if od < 0 {
		od = cx.Config().List.Overdraw
	}

	laid := make(map[int]LayoutID)
	solve := func(i int) error {
		if _, ok := laid[i]; ok {
			return nil
		}
		elem := l.render(i)
		if elem == nil {
			return fmt.Errorf("list: render returned nil for item %d", i)
		}
		id, err := cx.RequestDetached(elem)
		if err != nil {
			return err
		}
		cx.SolveDetached(id, viewport.Width, -1)
		l.state.SetItemHeight(i, cx.NodeSize(id).Height)
		laid[i] = id
		return nil
	}

	start, end := l.state.VisibleRange(scrollY, viewport.Height, od)
	for i := start; i < end; i++ {
		if err := solve(i); err != nil {
			return nil, err
		}
	}
	// Measured heights moved the cumulative offsets; take the range
	// again and fill in any rows the shift exposed.
	start, end = l.state.VisibleRange(scrollY, viewport.Height, od)
	for i := start; i < end; i++ {
		if err := solve(i); err != nil {
			return nil, err
		}
	}
	ss.SetContentSize(geom.Size{Width: viewport.Width, Height: l.state.TotalHeight()})
	scrollY = ss.Offset().Y

	pre := &listPre{clip: viewport, items: make([]listItem, 0, end-start)}
	cx.PushMask(viewport)
	for i := start; i < end; i++ {
		origin := geom.Point{X: viewport.X, Y: viewport.Y + l.state.ItemY(i) - scrollY}
		if err := cx.PrepaintChildAt(laid[i], origin); err != nil {
			cx.PopMask()
			return nil, err
		}
		pre.items = append(pre.items, listItem{id: laid[i], origin: origin})
	}
	cx.PopMask()
	return pre, nil
}

func (l *List) Paint(cx *PaintContext, bounds geom.Bounds, preAny any) {
	pre := preAny.(*listPre)
	sc := cx.Scene()
	paintBox(sc, bounds, &l.style)
	sc.PushClip(pre.clip)
	for _, it := range pre.items {
		cx.PaintChildAt(it.id, it.origin)
	}
	sc.PopClip()
}

func (l *List) HitTest(bounds geom.Bounds, children []*HitTestNode) *HitTestNode {
	return &HitTestNode{Bounds: bounds, Scroll: l.st.scroll, Children: children}
}
