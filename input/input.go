package input

// Package input provides the pointer/keyboard capability the relay drives.
// A real backend injects events through robotgo; a no-op backend accepts the
// same calls and does nothing, so the rest of the program runs unchanged on
// hosts without an input driver.

import "strings"

type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

// ParseButton maps a client button name to a Button. Names match exactly;
// anything else maps to ButtonLeft.
func ParseButton(name string) Button {
	switch name {
	case "right":
		return ButtonRight
	case "middle":
		return ButtonMiddle
	default:
		return ButtonLeft
	}
}

// Key is a symbolic non-printing key.
type Key string

const (
	KeyEnter     Key = "enter"
	KeyTab       Key = "tab"
	KeyEsc       Key = "esc"
	KeyBackspace Key = "backspace"
	KeyDelete    Key = "delete"
	KeySpace     Key = "space"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyHome      Key = "home"
	KeyEnd       Key = "end"
	KeyPageUp    Key = "pageup"
	KeyPageDown  Key = "pagedown"
	KeyCtrl      Key = "ctrl"
	KeyAlt       Key = "alt"
	KeyShift     Key = "shift"
	KeyCmd       Key = "cmd"
)

var keyNames = map[string]Key{
	"enter":     KeyEnter,
	"tab":       KeyTab,
	"esc":       KeyEsc,
	"escape":    KeyEsc,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"space":     KeySpace,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"ctrl":      KeyCtrl,
	"alt":       KeyAlt,
	"shift":     KeyShift,
	"cmd":       KeyCmd,
	"win":       KeyCmd, // super key on Windows/Linux
}

// ParseKey looks up a key name case-insensitively. ok is false for names
// outside the vocabulary, including names with surrounding whitespace.
func ParseKey(name string) (k Key, ok bool) {
	k, ok = keyNames[strings.ToLower(name)]
	return k, ok
}

// Actuator performs pointer and keyboard primitives on the host.
//
// Calls never report failure: a real backend logs and drops events it could
// not inject. Implementations must be safe for use from multiple goroutines,
// but they do not order calls coming from different goroutines.
type Actuator interface {
	// Move displaces the pointer relative to its current position.
	Move(dx, dy int)
	Press(b Button)
	Release(b Button)
	// Click performs count press/release cycles at the current position.
	Click(b Button, count int)
	Scroll(dx, dy int)
	// Type injects text one character at a time, in order.
	Type(text string)
	// KeyTap presses and immediately releases k.
	KeyTap(k Key)
}
