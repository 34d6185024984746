package prism

import (
	"sync"

	"github.com/agiangrant/prism/geom"
)

// EventType identifies the kind of event.
type EventType uint8

const (
	// Mouse events
	EventMouseEnter EventType = iota + 1
	EventMouseLeave
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventClick
	EventMouseWheel

	// Keyboard events
	EventKeyDown
	EventKeyUp

	// Focus events
	EventFocus
	EventBlur

	// Drag events
	EventDragStart
	EventDragMove
	EventDragEnd
	EventDrop
)

func (t EventType) String() string {
	switch t {
	case EventMouseEnter:
		return "mouse-enter"
	case EventMouseLeave:
		return "mouse-leave"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventClick:
		return "click"
	case EventMouseWheel:
		return "mouse-wheel"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventDragStart:
		return "drag-start"
	case EventDragMove:
		return "drag-move"
	case EventDragEnd:
		return "drag-end"
	case EventDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// MouseButton identifies which mouse button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Modifiers is the set of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// eventBase provides propagation control shared by all events.
// Dispatch bubbles leaf to root; StopPropagation halts the bubble at
// the current node.
type eventBase struct {
	eventType          EventType
	target             *HitTestNode
	currentTarget      *HitTestNode
	propagationStopped bool
	defaultPrevented   bool
}

func (e *eventBase) Type() EventType { return e.eventType }

// Target returns the deepest node on the dispatch path.
func (e *eventBase) Target() *HitTestNode { return e.target }

// CurrentTarget returns the node whose handler is currently running.
func (e *eventBase) CurrentTarget() *HitTestNode { return e.currentTarget }

// StopPropagation prevents the event from bubbling further rootward.
func (e *eventBase) StopPropagation() { e.propagationStopped = true }

// IsPropagationStopped reports whether a handler stopped the bubble.
func (e *eventBase) IsPropagationStopped() bool { return e.propagationStopped }

// PreventDefault suppresses the engine's default behavior for this
// event (wheel absorption by scroll handles, focus-on-click).
func (e *eventBase) PreventDefault() { e.defaultPrevented = true }

// IsDefaultPrevented reports whether default behavior was suppressed.
func (e *eventBase) IsDefaultPrevented() bool { return e.defaultPrevented }

// MouseEvent represents pointer interaction events.
type MouseEvent struct {
	eventBase

	// Position is in window coordinates.
	Position geom.Point

	// Local is relative to the current target's bounds; dispatch
	// rewrites it at every node on the path.
	Local geom.Point

	// Button that triggered the event, for down/up/click.
	Button MouseButton

	// Wheel delta in pixels, for wheel events.
	Delta geom.Point

	// Modifier keys held during the event.
	Modifiers Modifiers

	// ClickCount distinguishes single, double, and triple clicks. The
	// window computes it from time and distance; dispatch just carries it.
	ClickCount int
}

// NewMouseEvent creates a mouse event. Pooled: high-frequency move
// events would otherwise allocate every time.
func NewMouseEvent(eventType EventType, pos geom.Point, button MouseButton, mods Modifiers) *MouseEvent {
	e := mouseEventPool.Get().(*MouseEvent)
	e.eventType = eventType
	e.target = nil
	e.currentTarget = nil
	e.propagationStopped = false
	e.defaultPrevented = false
	e.Position = pos
	e.Local = pos
	e.Button = button
	e.Delta = geom.Point{}
	e.Modifiers = mods
	e.ClickCount = 1
	return e
}

// Release returns the event to the pool. Call when dispatch is done;
// handlers must not retain the event past their invocation.
func (e *MouseEvent) Release() {
	mouseEventPool.Put(e)
}

var mouseEventPool = sync.Pool{
	New: func() any {
		return &MouseEvent{}
	},
}

// KeyEvent represents keyboard events, routed along the focused path.
type KeyEvent struct {
	eventBase

	// Physical key code, platform-specific.
	KeyCode uint32

	// Logical key name ("a", "Enter", "Escape", "Tab").
	Key string

	// Char is the typed character for printable keys, 0 otherwise.
	Char rune

	// Modifier keys held during the event.
	Modifiers Modifiers

	// Repeat is true when the key is held down.
	Repeat bool
}

// NewKeyEvent creates a keyboard event from the pool.
func NewKeyEvent(eventType EventType, keyCode uint32, key string, char rune, mods Modifiers, repeat bool) *KeyEvent {
	e := keyEventPool.Get().(*KeyEvent)
	e.eventType = eventType
	e.target = nil
	e.currentTarget = nil
	e.propagationStopped = false
	e.defaultPrevented = false
	e.KeyCode = keyCode
	e.Key = key
	e.Char = char
	e.Modifiers = mods
	e.Repeat = repeat
	return e
}

// Release returns the event to the pool.
func (e *KeyEvent) Release() {
	keyEventPool.Put(e)
}

var keyEventPool = sync.Pool{
	New: func() any {
		return &KeyEvent{}
	},
}

// FocusEvent notifies a node that one of its focus handles gained or
// lost focus.
type FocusEvent struct {
	eventBase

	// ID is the handle whose focus changed.
	ID FocusID
}

// MouseHandler is a callback for mouse events.
type MouseHandler func(*MouseEvent)

// KeyHandler is a callback for keyboard events.
type KeyHandler func(*KeyEvent)

// FocusHandler is a callback for focus events.
type FocusHandler func(*FocusEvent)

// HandlerSet is the bundle of callbacks a hit-test node exposes to
// dispatch. Nil fields are simply skipped. A nil *HandlerSet is valid
// and handles nothing.
type HandlerSet struct {
	OnMouseDown  MouseHandler
	OnMouseUp    MouseHandler
	OnMouseMove  MouseHandler
	OnClick      MouseHandler
	OnMouseEnter MouseHandler
	OnMouseLeave MouseHandler

	// OnWheel runs before the engine's scroll absorption; stopping
	// propagation claims the delta.
	OnWheel MouseHandler

	OnKeyDown KeyHandler
	OnKeyUp   KeyHandler

	OnFocus FocusHandler
	OnBlur  FocusHandler

	// OnDragStart arms drag and drop: called on mouse-down, it returns
	// the payload a drop target will receive, or nil to not drag. The
	// drag only activates once the pointer leaves the configured
	// threshold radius.
	OnDragStart func(*MouseEvent) any

	// OnDragMove runs on the source node for every move of an active drag.
	OnDragMove MouseHandler

	// OnDragEnd runs on the source node when an active drag finishes,
	// whether or not anything accepted the payload.
	OnDragEnd MouseHandler

	// CanDrop filters payloads this node accepts. Nil accepts everything.
	CanDrop func(payload any) bool

	// OnDrop receives the payload when an active drag is released over
	// this node and CanDrop accepts it.
	OnDrop func(payload any, e *MouseEvent)
}

// empty reports whether the set has no callbacks at all.
func (h *HandlerSet) empty() bool {
	if h == nil {
		return true
	}
	return h.OnMouseDown == nil && h.OnMouseUp == nil && h.OnMouseMove == nil &&
		h.OnClick == nil && h.OnMouseEnter == nil && h.OnMouseLeave == nil &&
		h.OnWheel == nil && h.OnKeyDown == nil && h.OnKeyUp == nil &&
		h.OnFocus == nil && h.OnBlur == nil && h.OnDragStart == nil &&
		h.OnDragMove == nil && h.OnDragEnd == nil && h.CanDrop == nil && h.OnDrop == nil
}
