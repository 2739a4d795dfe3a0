package graphics

// Event is an input or window-system event queued by a Context.
type Event interface {
	isEvent()
}

// Key identifies a keyboard key. Only the keys the program reacts to are named.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Action is the state transition reported with a KeyEvent.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// KeyEvent reports a key transition.
type KeyEvent struct {
	Key    Key
	Action Action
}

// ResizeEvent reports a new framebuffer size in pixels.
type ResizeEvent struct {
	Width  int
	Height int
}

func (KeyEvent) isEvent()    {}
func (ResizeEvent) isEvent() {}
