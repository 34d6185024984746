package prism

import "github.com/agiangrant/prism/geom"

// HitboxID identifies one hitbox within a single frame's list. Ids are
// not stable across frames; cross-frame identity uses ElementID.
type HitboxID uint64

// HitboxBehavior adjusts how a hitbox participates in pointer
// resolution.
type HitboxBehavior uint8

const (
	// BehaviorNormal hitboxes are hoverable and occlude whatever is
	// painted beneath them.
	BehaviorNormal HitboxBehavior = iota

	// BehaviorCapture hitboxes block every hitbox painted before them:
	// points outside the capture region resolve to nothing at all.
	// Modal scrims use this.
	BehaviorCapture

	// BehaviorTransparentToHover hitboxes are skipped by hover and
	// cursor resolution but occlude nothing. Tooltips use this so they
	// never steal the hover that summoned them.
	BehaviorTransparentToHover
)

// CursorStyle names the pointer cursor an element wants while hovered.
// The vocabulary follows CSS cursor keywords.
type CursorStyle uint8

const (
	CursorDefault CursorStyle = iota
	CursorPointer
	CursorText
	CursorGrab
	CursorGrabbing
	CursorNotAllowed
	CursorResizeNS
	CursorResizeEW
)

func (c CursorStyle) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorText:
		return "text"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorNotAllowed:
		return "not-allowed"
	case CursorResizeNS:
		return "ns-resize"
	case CursorResizeEW:
		return "ew-resize"
	default:
		return "default"
	}
}

// Hitbox is one interactive rectangle registered during prepaint.
// Insertion order is paint order, bottom to top; resolution scans the
// list topmost-first. Mask is the intersection of the ancestor clips
// active at registration: a point outside it never hits, even when
// Bounds contains it.
type Hitbox struct {
	ID       HitboxID
	Elem     ElementID
	Bounds   geom.Bounds
	Mask     geom.Bounds
	Behavior HitboxBehavior
	Cursor   CursorStyle
}

func (h *Hitbox) contains(p geom.Point) bool {
	if !h.Bounds.Contains(p) {
		return false
	}
	if h.Mask != (geom.Bounds{}) && !h.Mask.Contains(p) {
		return false
	}
	return true
}

// hitboxAt resolves the hovered hitbox for a point: the topmost
// containing hitbox, skipping transparent-to-hover entries. A capture
// hitbox ends the scan whether or not it contains the point, so
// nothing painted beneath a modal is ever hoverable.
func hitboxAt(list []Hitbox, p geom.Point) (Hitbox, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		h := &list[i]
		switch h.Behavior {
		case BehaviorCapture:
			if h.contains(p) {
				return *h, true
			}
			return Hitbox{}, false
		case BehaviorTransparentToHover:
			continue
		default:
			if h.contains(p) {
				return *h, true
			}
		}
	}
	return Hitbox{}, false
}

// captureBlocks reports whether an active capture hitbox swallows the
// point: true when the topmost capture hitbox exists and does not
// contain p. Event dispatch consults this before hit-testing the tree.
func captureBlocks(list []Hitbox, p geom.Point) bool {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Behavior == BehaviorCapture {
			return !list[i].contains(p)
		}
	}
	return false
}
