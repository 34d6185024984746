package prism

import "time"

// Platform is the engine's view of the windowing layer. The platform
// delivers raw input in window-logical coordinates through the
// Window's input methods; the engine calls back only through this
// interface: cursor selection, clipboard, the clock click counting
// runs on, and frame scheduling.
type Platform interface {
	// SetCursor selects the pointer cursor. Called whenever hover
	// recomputation lands on a hitbox with a different cursor style.
	SetCursor(CursorStyle)

	// ReadClipboard returns the current clipboard text.
	ReadClipboard() (string, error)

	// WriteClipboard replaces the clipboard text.
	WriteClipboard(string) error

	// Now is the clock used for click counting and input timing.
	Now() time.Time

	// RequestFrame asks the platform to schedule another render pass.
	// State mutations from event handlers call this so the change
	// becomes visible.
	RequestFrame()
}

// Headless is an in-process Platform with a manual clock and recorded
// outputs. Tests and the example programs run the full pipeline on it
// without a display server.
type Headless struct {
	// Clock is returned by Now; advance it with Advance.
	Clock time.Time

	// Cursor is the most recently set cursor style.
	Cursor CursorStyle

	// Clipboard is the recorded clipboard text.
	Clipboard string

	// FrameRequests counts RequestFrame calls.
	FrameRequests int
}

// NewHeadless returns a headless platform with a fixed starting clock.
func NewHeadless() *Headless {
	return &Headless{Clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Advance moves the clock forward.
func (h *Headless) Advance(d time.Duration) { h.Clock = h.Clock.Add(d) }

func (h *Headless) SetCursor(c CursorStyle) { h.Cursor = c }

func (h *Headless) ReadClipboard() (string, error) { return h.Clipboard, nil }

func (h *Headless) WriteClipboard(s string) error {
	h.Clipboard = s
	return nil
}

func (h *Headless) Now() time.Time { return h.Clock }

func (h *Headless) RequestFrame() { h.FrameRequests++ }
