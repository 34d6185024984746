package flex

import "github.com/agiangrant/prism/geom"

const eps = 0.001

// Calculate solves the tree rooted at root within the available space
// and fills every node's Layout. A negative available dimension means
// unconstrained: the root sizes to its content on that axis. A definite
// size in the root's own style wins over the offered space.
func Calculate(root *Node, availWidth, availHeight float32) {
	w, wm := float32(0), MeasureUndefined
	if availWidth >= 0 {
		w, wm = availWidth, MeasureExactly
	}
	h, hm := float32(0), MeasureUndefined
	if availHeight >= 0 {
		h, hm = availHeight, MeasureExactly
	}
	st := &root.Style
	if rw, ok := st.Width.resolve(w, wm != MeasureUndefined); ok {
		w, wm = clampAxis(rw, st.MinWidth, st.MaxWidth, availWidth, availWidth >= 0), MeasureExactly
	}
	if rh, ok := st.Height.resolve(h, hm != MeasureUndefined); ok {
		h, hm = clampAxis(rh, st.MinHeight, st.MaxHeight, availHeight, availHeight >= 0), MeasureExactly
	}
	size := layoutNode(root, w, wm, h, hm)
	root.Layout = Layout{X: 0, Y: 0, Width: size.Width, Height: size.Height}
}

// layoutNode sizes n under the offered space and lays out its children.
// It never sets n.Layout; positioning a node is its parent's job.
func layoutNode(n *Node, w float32, wm MeasureMode, h float32, hm MeasureMode) geom.Size {
	if n.Style.Display == DisplayNone {
		collapse(n)
		return geom.Size{}
	}
	if len(n.Children) == 0 {
		return leafSize(n, w, wm, h, hm)
	}
	return flexLayout(n, w, wm, h, hm)
}

func collapse(n *Node) {
	n.Layout = Layout{}
	n.ContentSize = geom.Size{}
	for _, c := range n.Children {
		collapse(c)
	}
}

func leafSize(n *Node, w float32, wm MeasureMode, h float32, hm MeasureMode) geom.Size {
	st := &n.Style
	pbW := st.Padding.Horizontal() + st.Border.Horizontal()
	pbH := st.Padding.Vertical() + st.Border.Vertical()

	outW, wOK := st.Width.resolve(w, wm != MeasureUndefined)
	outH, hOK := st.Height.resolve(h, hm != MeasureUndefined)
	if wm == MeasureExactly {
		outW, wOK = w, true
	}
	if hm == MeasureExactly {
		outH, hOK = h, true
	}
	applyAspect(st.AspectRatio, &outW, &wOK, &outH, &hOK)

	if !wOK || !hOK {
		cw, cwm := innerAvail(w, wm, pbW)
		ch, chm := innerAvail(h, hm, pbH)
		if wOK {
			cw, cwm = maxf0(outW-pbW), MeasureExactly
		}
		if hOK {
			ch, chm = maxf0(outH-pbH), MeasureExactly
		}
		var content geom.Size
		if n.Measure != nil {
			content = n.Measure(cw, cwm, ch, chm)
		}
		if !wOK {
			outW = content.Width + pbW
			if wm == MeasureAtMost && outW > w {
				outW = w
			}
		}
		if !hOK {
			outH = content.Height + pbH
			if hm == MeasureAtMost && outH > h {
				outH = h
			}
		}
	}

	if wm != MeasureExactly {
		outW = clampAxis(outW, st.MinWidth, st.MaxWidth, w, wm != MeasureUndefined)
	}
	if hm != MeasureExactly {
		outH = clampAxis(outH, st.MinHeight, st.MaxHeight, h, hm != MeasureUndefined)
	}
	outW, outH = maxf0(outW), maxf0(outH)
	n.ContentSize = geom.Size{
		Width:  maxf0(outW - st.Border.Horizontal()),
		Height: maxf0(outH - st.Border.Vertical()),
	}
	return geom.Size{Width: outW, Height: outH}
}

func flexLayout(n *Node, w float32, wm MeasureMode, h float32, hm MeasureMode) geom.Size {
	st := &n.Style
	ax := axes{st.Direction.horizontal()}

	pbW := st.Padding.Horizontal() + st.Border.Horizontal()
	pbH := st.Padding.Vertical() + st.Border.Vertical()

	// Offered content space. A definite size in our own style turns a
	// soft constraint into an exact one.
	cw, cwm := innerAvail(w, wm, pbW)
	ch, chm := innerAvail(h, hm, pbH)
	if wm != MeasureExactly {
		if sw, ok := st.Width.resolve(w, wm != MeasureUndefined); ok {
			sw = clampAxis(sw, st.MinWidth, st.MaxWidth, w, wm != MeasureUndefined)
			cw, cwm = maxf0(sw-pbW), MeasureExactly
		}
	}
	if hm != MeasureExactly {
		if sh, ok := st.Height.resolve(h, hm != MeasureUndefined); ok {
			sh = clampAxis(sh, st.MinHeight, st.MaxHeight, h, hm != MeasureUndefined)
			ch, chm = maxf0(sh-pbH), MeasureExactly
		}
	}

	mainAvail, mainMode := ax.mainOf(cw, cwm, ch, chm)
	crossAvail, crossMode := ax.crossOf(cw, cwm, ch, chm)
	mainBase, mainBaseOK := mainAvail, mainMode == MeasureExactly
	crossBase, crossBaseOK := crossAvail, crossMode == MeasureExactly

	mainGap, crossGap := st.ColumnGap, st.RowGap
	if !ax.horizontal {
		mainGap, crossGap = st.RowGap, st.ColumnGap
	}

	var rel, abs []*Node
	for _, c := range n.Children {
		switch {
		case c.Style.Display == DisplayNone:
			collapse(c)
		case c.Style.Position == Absolute:
			abs = append(abs, c)
		default:
			rel = append(rel, c)
		}
	}

	// Flex base and hypothetical main size of every in-flow child.
	for _, c := range rel {
		cs := &c.Style
		basis := cs.FlexBasis
		if basis.IsAuto() {
			basis = ax.mainSize(cs)
		}
		if bv, ok := basis.resolve(mainBase, mainBaseOK); ok {
			c.flexBase = bv
		} else {
			ma, mam := maxf0(mainAvail-ax.mainMargin(cs.Margin)), MeasureAtMost
			if mainMode == MeasureUndefined {
				ma, mam = 0, MeasureUndefined
			}
			ca, cam := maxf0(crossAvail-ax.crossMargin(cs.Margin)), MeasureAtMost
			if crossMode == MeasureUndefined {
				ca, cam = 0, MeasureUndefined
			}
			aw, awm, ah, ahm := ax.spread(ma, mam, ca, cam)
			sz := layoutNode(c, aw, awm, ah, ahm)
			c.flexBase = ax.main(sz)
		}
		c.hypoMain = clampAxis(c.flexBase, ax.mainMin(cs), ax.mainMax(cs), mainBase, mainBaseOK)
	}

	// Partition into lines. Without wrapping, or without a main-axis
	// limit to wrap against, everything is one line.
	var lines [][]*Node
	if !st.Wrap || mainMode == MeasureUndefined {
		if len(rel) > 0 {
			lines = [][]*Node{rel}
		}
	} else {
		var cur []*Node
		used := float32(0)
		for _, c := range rel {
			outer := c.hypoMain + ax.mainMargin(c.Style.Margin)
			if len(cur) > 0 && used+mainGap+outer > mainAvail+eps {
				lines = append(lines, cur)
				cur = []*Node{c}
				used = outer
			} else {
				cur = append(cur, c)
				if len(cur) > 1 {
					used += mainGap
				}
				used += outer
			}
		}
		if len(cur) > 0 {
			lines = append(lines, cur)
		}
	}

	// Container main size.
	mainOuterAvail, mainOuterMode := ax.mainOf(w, wm, h, hm)
	var containerMain float32
	if mainMode == MeasureExactly {
		containerMain = mainAvail
	} else {
		for _, line := range lines {
			length := mainGap * float32(len(line)-1)
			for _, c := range line {
				length += c.hypoMain + ax.mainMargin(c.Style.Margin)
			}
			if length > containerMain {
				containerMain = length
			}
		}
		if mainMode == MeasureAtMost && containerMain > mainAvail {
			containerMain = mainAvail
		}
		pbMain := ax.main(geom.Size{Width: pbW, Height: pbH})
		bb := clampAxis(containerMain+pbMain, ax.mainMin(st), ax.mainMax(st), mainOuterAvail, mainOuterMode != MeasureUndefined)
		containerMain = maxf0(bb - pbMain)
	}

	for _, line := range lines {
		resolveFlexibleLengths(line, ax, containerMain, mainGap)
	}

	// Hypothetical cross sizes and line heights.
	lineCross := make([]float32, len(lines))
	for li, line := range lines {
		lineMax := float32(0)
		for _, c := range line {
			cs := &c.Style
			if cv, ok := ax.crossSize(cs).resolve(crossBase, crossBaseOK); ok {
				c.hypoCross = clampAxis(cv, ax.crossMin(cs), ax.crossMax(cs), crossBase, crossBaseOK)
			} else if cs.AspectRatio > 0 {
				c.hypoCross = clampAxis(ax.crossFromMain(cs.AspectRatio, c.targetMain), ax.crossMin(cs), ax.crossMax(cs), crossBase, crossBaseOK)
			} else {
				ca, cam := maxf0(crossAvail-ax.crossMargin(cs.Margin)), MeasureAtMost
				if crossMode == MeasureUndefined {
					ca, cam = 0, MeasureUndefined
				}
				aw, awm, ah, ahm := ax.spread(c.targetMain, MeasureExactly, ca, cam)
				sz := layoutNode(c, aw, awm, ah, ahm)
				c.hypoCross = ax.cross(sz)
			}
			outer := c.hypoCross + ax.crossMargin(cs.Margin)
			if outer > lineMax {
				lineMax = outer
			}
		}
		lineCross[li] = lineMax
	}

	// A single non-wrapping line fills a definite container cross size.
	if !st.Wrap && len(lines) == 1 && crossMode == MeasureExactly {
		lineCross[0] = crossAvail
	}

	// Container cross size.
	crossOuterAvail, crossOuterMode := ax.crossOf(w, wm, h, hm)
	sumLines := crossGap * float32(max(len(lines)-1, 0))
	for _, lc := range lineCross {
		sumLines += lc
	}
	var containerCross float32
	if crossMode == MeasureExactly {
		containerCross = crossAvail
	} else {
		containerCross = sumLines
		if crossMode == MeasureAtMost && containerCross > crossAvail {
			containerCross = crossAvail
		}
		pbCross := ax.cross(geom.Size{Width: pbW, Height: pbH})
		bb := clampAxis(containerCross+pbCross, ax.crossMin(st), ax.crossMax(st), crossOuterAvail, crossOuterMode != MeasureUndefined)
		containerCross = maxf0(bb - pbCross)
	}

	// Distribute leftover cross space among lines.
	crossCursor := float32(0)
	if extra := containerCross - sumLines; len(lines) > 0 && extra > 0 {
		switch st.AlignContent {
		case AlignStretch:
			add := extra / float32(len(lines))
			for li := range lineCross {
				lineCross[li] += add
			}
		case AlignCenter:
			crossCursor = extra / 2
		case AlignEnd:
			crossCursor = extra
		}
	}

	// Final pass: definitive child layout and positioning.
	for li, line := range lines {
		lc := lineCross[li]

		lineLength := mainGap * float32(len(line)-1)
		for _, c := range line {
			lineLength += c.targetMain + ax.mainMargin(c.Style.Margin)
		}
		leftover := containerMain - lineLength
		lead, between := float32(0), mainGap
		count := float32(len(line))
		switch st.Justify {
		case JustifyCenter:
			lead = leftover / 2
		case JustifyEnd:
			lead = leftover
		case JustifySpaceBetween:
			if len(line) > 1 && leftover > 0 {
				between += leftover / (count - 1)
			}
		case JustifySpaceAround:
			if leftover > 0 {
				share := leftover / count
				lead = share / 2
				between += share
			}
		case JustifySpaceEvenly:
			if leftover > 0 {
				share := leftover / (count + 1)
				lead = share
				between += share
			}
		}

		pos := lead
		for _, c := range line {
			cs := &c.Style
			target := c.hypoCross
			if cs.alignFor(st) == AlignStretch && ax.crossSize(cs).IsAuto() && cs.AspectRatio <= 0 {
				target = clampAxis(lc-ax.crossMargin(cs.Margin), ax.crossMin(cs), ax.crossMax(cs), containerCross, true)
			}
			aw, awm, ah, ahm := ax.spread(c.targetMain, MeasureExactly, target, MeasureExactly)
			layoutNode(c, aw, awm, ah, ahm)
			c.hypoCross = target

			co := crossCursor
			switch cs.alignFor(st) {
			case AlignCenter:
				co += (lc - target - ax.crossMargin(cs.Margin)) / 2
			case AlignEnd:
				co += lc - target - ax.crossMargin(cs.Margin)
			}
			c.mainPos = pos + ax.mainStart(cs.Margin)
			c.crossPos = co + ax.crossStart(cs.Margin)
			pos += c.targetMain + ax.mainMargin(cs.Margin) + between
		}
		crossCursor += lc + crossGap
	}

	if st.Direction.reversed() {
		for _, c := range rel {
			c.mainPos = containerMain - c.mainPos - c.targetMain
		}
	}

	// Write child rectangles and record the overflowable extent.
	originX := st.Border.Left + st.Padding.Left
	originY := st.Border.Top + st.Padding.Top
	maxRight, maxBottom := float32(0), float32(0)
	for _, c := range rel {
		var x, y, cwid, chei float32
		if ax.horizontal {
			x, y = c.mainPos, c.crossPos
			cwid, chei = c.targetMain, c.hypoCross
		} else {
			x, y = c.crossPos, c.mainPos
			cwid, chei = c.hypoCross, c.targetMain
		}
		c.Layout = Layout{X: originX + x, Y: originY + y, Width: cwid, Height: chei}
		if r := st.Padding.Left + x + cwid + c.Style.Margin.Right + st.Padding.Right; r > maxRight {
			maxRight = r
		}
		if b := st.Padding.Top + y + chei + c.Style.Margin.Bottom + st.Padding.Bottom; b > maxBottom {
			maxBottom = b
		}
	}
	contentW, contentH := cwFromAxes(ax, containerMain, containerCross)
	n.ContentSize = geom.Size{Width: maxf(maxRight, st.Padding.Horizontal()), Height: maxf(maxBottom, st.Padding.Vertical())}

	layoutAbsolute(n, abs, contentW, contentH)

	return geom.Size{Width: contentW + pbW, Height: contentH + pbH}
}

// resolveFlexibleLengths runs the grow/shrink loop for one line,
// freezing items as they hit their min/max bounds, and leaves each
// item's resolved main size in targetMain.
func resolveFlexibleLengths(line []*Node, ax axes, containerMain, mainGap float32) {
	gaps := mainGap * float32(len(line)-1)
	sumOuterHypo := gaps
	for _, c := range line {
		sumOuterHypo += c.hypoMain + ax.mainMargin(c.Style.Margin)
	}
	growing := containerMain-sumOuterHypo > 0

	for _, c := range line {
		c.targetMain = c.hypoMain
		factor := c.Style.FlexGrow
		if !growing {
			factor = c.Style.FlexShrink
		}
		c.frozen = factor == 0 ||
			(growing && c.flexBase > c.hypoMain) ||
			(!growing && c.flexBase < c.hypoMain)
	}

	for {
		remaining := containerMain - gaps
		sumGrow, scaledShrink := float32(0), float32(0)
		anyUnfrozen := false
		for _, c := range line {
			m := ax.mainMargin(c.Style.Margin)
			if c.frozen {
				remaining -= c.targetMain + m
			} else {
				remaining -= c.flexBase + m
				sumGrow += c.Style.FlexGrow
				scaledShrink += c.Style.FlexShrink * c.flexBase
				anyUnfrozen = true
			}
		}
		if !anyUnfrozen {
			return
		}

		for _, c := range line {
			if c.frozen {
				continue
			}
			c.targetMain = c.flexBase
			if growing {
				if sumGrow > 0 && remaining > 0 {
					c.targetMain += remaining * c.Style.FlexGrow / sumGrow
				}
			} else if scaledShrink > 0 && remaining < 0 {
				c.targetMain += remaining * (c.Style.FlexShrink * c.flexBase) / scaledShrink
				if c.targetMain < 0 {
					c.targetMain = 0
				}
			}
		}

		total := float32(0)
		for _, c := range line {
			if c.frozen {
				continue
			}
			cs := &c.Style
			clamped := clampAxis(c.targetMain, ax.mainMin(cs), ax.mainMax(cs), containerMain, true)
			c.violation = clamped - c.targetMain
			c.targetMain = clamped
			total += c.violation
		}
		switch {
		case total > eps:
			for _, c := range line {
				if !c.frozen && c.violation > 0 {
					c.frozen = true
				}
			}
		case total < -eps:
			for _, c := range line {
				if !c.frozen && c.violation < 0 {
					c.frozen = true
				}
			}
		default:
			for _, c := range line {
				c.frozen = true
			}
		}
	}
}

// layoutAbsolute places out-of-flow children against the padding box.
func layoutAbsolute(n *Node, abs []*Node, contentW, contentH float32) {
	if len(abs) == 0 {
		return
	}
	st := &n.Style
	cbW := contentW + st.Padding.Horizontal()
	cbH := contentH + st.Padding.Vertical()
	for _, c := range abs {
		cs := &c.Style
		l, lOK := cs.Inset.Left.resolve(cbW, true)
		r, rOK := cs.Inset.Right.resolve(cbW, true)
		t, tOK := cs.Inset.Top.resolve(cbH, true)
		b, bOK := cs.Inset.Bottom.resolve(cbH, true)

		wv, wOK := cs.Width.resolve(cbW, true)
		hv, hOK := cs.Height.resolve(cbH, true)
		applyAspect(cs.AspectRatio, &wv, &wOK, &hv, &hOK)
		if !wOK && lOK && rOK {
			wv, wOK = maxf0(cbW-l-r-cs.Margin.Horizontal()), true
		}
		if !hOK && tOK && bOK {
			hv, hOK = maxf0(cbH-t-b-cs.Margin.Vertical()), true
		}

		aw, wMode := wv, MeasureExactly
		if wOK {
			aw = clampAxis(aw, cs.MinWidth, cs.MaxWidth, cbW, true)
		} else {
			reduce := float32(0)
			if lOK {
				reduce += l
			}
			if rOK {
				reduce += r
			}
			aw, wMode = maxf0(cbW-reduce), MeasureAtMost
		}
		ah, hMode := hv, MeasureExactly
		if hOK {
			ah = clampAxis(ah, cs.MinHeight, cs.MaxHeight, cbH, true)
		} else {
			reduce := float32(0)
			if tOK {
				reduce += t
			}
			if bOK {
				reduce += b
			}
			ah, hMode = maxf0(cbH-reduce), MeasureAtMost
		}
		sz := layoutNode(c, aw, wMode, ah, hMode)

		x := st.Border.Left
		switch {
		case lOK:
			x += l + cs.Margin.Left
		case rOK:
			x += cbW - r - sz.Width - cs.Margin.Right
		default:
			x += st.Padding.Left + cs.Margin.Left
		}
		y := st.Border.Top
		switch {
		case tOK:
			y += t + cs.Margin.Top
		case bOK:
			y += cbH - b - sz.Height - cs.Margin.Bottom
		default:
			y += st.Padding.Top + cs.Margin.Top
		}
		c.Layout = Layout{X: x, Y: y, Width: sz.Width, Height: sz.Height}
	}
}

// axes maps size/edge accessors onto the container's main and cross
// axis so the solve is written once for both directions.
type axes struct{ horizontal bool }

func (a axes) main(s geom.Size) float32 {
	if a.horizontal {
		return s.Width
	}
	return s.Height
}

func (a axes) cross(s geom.Size) float32 {
	if a.horizontal {
		return s.Height
	}
	return s.Width
}

func (a axes) mainOf(w float32, wm MeasureMode, h float32, hm MeasureMode) (float32, MeasureMode) {
	if a.horizontal {
		return w, wm
	}
	return h, hm
}

func (a axes) crossOf(w float32, wm MeasureMode, h float32, hm MeasureMode) (float32, MeasureMode) {
	if a.horizontal {
		return h, hm
	}
	return w, wm
}

// spread rebuilds a width/height constraint pair from main/cross parts.
func (a axes) spread(main float32, mm MeasureMode, cross float32, cm MeasureMode) (float32, MeasureMode, float32, MeasureMode) {
	if a.horizontal {
		return main, mm, cross, cm
	}
	return cross, cm, main, mm
}

func (a axes) mainMargin(e geom.Edges) float32 {
	if a.horizontal {
		return e.Horizontal()
	}
	return e.Vertical()
}

func (a axes) crossMargin(e geom.Edges) float32 {
	if a.horizontal {
		return e.Vertical()
	}
	return e.Horizontal()
}

func (a axes) mainStart(e geom.Edges) float32 {
	if a.horizontal {
		return e.Left
	}
	return e.Top
}

func (a axes) crossStart(e geom.Edges) float32 {
	if a.horizontal {
		return e.Top
	}
	return e.Left
}

func (a axes) mainSize(st *Style) Value {
	if a.horizontal {
		return st.Width
	}
	return st.Height
}

func (a axes) crossSize(st *Style) Value {
	if a.horizontal {
		return st.Height
	}
	return st.Width
}

func (a axes) mainMin(st *Style) Value {
	if a.horizontal {
		return st.MinWidth
	}
	return st.MinHeight
}

func (a axes) mainMax(st *Style) Value {
	if a.horizontal {
		return st.MaxWidth
	}
	return st.MaxHeight
}

func (a axes) crossMin(st *Style) Value {
	if a.horizontal {
		return st.MinHeight
	}
	return st.MinWidth
}

func (a axes) crossMax(st *Style) Value {
	if a.horizontal {
		return st.MaxHeight
	}
	return st.MaxWidth
}

// crossFromMain derives the cross size from the main size through an
// aspect ratio (width/height).
func (a axes) crossFromMain(ratio, main float32) float32 {
	if a.horizontal {
		return main / ratio
	}
	return main * ratio
}

func cwFromAxes(ax axes, containerMain, containerCross float32) (w, h float32) {
	if ax.horizontal {
		return containerMain, containerCross
	}
	return containerCross, containerMain
}

// innerAvail converts an offered border-box space into the space left
// for content, keeping the mode.
func innerAvail(v float32, m MeasureMode, pb float32) (float32, MeasureMode) {
	if m == MeasureUndefined {
		return 0, MeasureUndefined
	}
	return maxf0(v - pb), m
}

func applyAspect(ratio float32, w *float32, wOK *bool, h *float32, hOK *bool) {
	if ratio <= 0 {
		return
	}
	if *wOK && !*hOK {
		*h, *hOK = *w/ratio, true
	} else if *hOK && !*wOK {
		*w, *wOK = *h*ratio, true
	}
}

// clampAxis applies min/max constraints to a candidate size. Min wins
// over max, and the result is never negative.
func clampAxis(v float32, minV, maxV Value, base float32, baseOK bool) float32 {
	if mx, ok := maxV.resolve(base, baseOK); ok && v > mx {
		v = mx
	}
	if mn, ok := minV.resolve(base, baseOK); ok && v < mn {
		v = mn
	}
	return maxf0(v)
}

func maxf0(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
