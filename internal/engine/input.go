package engine

// KeyAction mirrors the host's key event action: pressed, released, or held
// down across frames (auto-repeat).
type KeyAction int

const (
	KeyRelease KeyAction = iota
	KeyPress
	KeyRepeat
)

// EventKind tags which field of Event is populated.
type EventKind int

const (
	EventResize EventKind = iota
	EventClose
	EventKey
	EventMouseMove
	EventMouseButton
)

// Event is one host-delivered input event, per spec.md §6's
// Resize/Close/Key/MouseMove/MouseButton contract.
type Event struct {
	Kind EventKind

	Width, Height uint32 // EventResize

	KeyCode   int32     // EventKey
	Action    KeyAction // EventKey
	Modifiers uint32    // EventKey

	MouseX, MouseY float32 // EventMouseMove

	MouseButton uint32 // EventMouseButton
	Pressed     bool   // EventMouseButton
}

// InputSource is the windowing/input interface the core consumes; the host
// implements it and the core never imports a windowing library itself
// (sdl3go is deliberately not wired — see DESIGN.md).
type InputSource interface {
	// PollEvents returns every event queued since the last call, in
	// delivery order.
	PollEvents() []Event
	// DeltaTime returns the seconds elapsed since the previous frame.
	DeltaTime() float32
}
