// Package inputtest provides an input.Actuator that records calls.
package inputtest

import (
	"fmt"
	"sync"

	"phonemouse/input"
)

// Call is one recorded actuator call.
type Call struct {
	Op     string
	Button input.Button
	Key    input.Key
	X, Y   int
	Count  int
	Text   string
}

func (c Call) String() string {
	switch c.Op {
	case "move", "scroll":
		return fmt.Sprintf("%s(%d,%d)", c.Op, c.X, c.Y)
	case "press", "release":
		return fmt.Sprintf("%s(%s)", c.Op, c.Button)
	case "click":
		return fmt.Sprintf("click(%s,%d)", c.Button, c.Count)
	case "type":
		return fmt.Sprintf("type(%q)", c.Text)
	case "keytap":
		return fmt.Sprintf("keytap(%s)", c.Key)
	}
	return c.Op
}

// Recorder is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

var _ input.Actuator = (*Recorder)(nil)

func (r *Recorder) add(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Trace renders the recorded calls with Call.String.
func (r *Recorder) Trace() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

func (r *Recorder) Move(dx, dy int)             { r.add(Call{Op: "move", X: dx, Y: dy}) }
func (r *Recorder) Press(b input.Button)        { r.add(Call{Op: "press", Button: b}) }
func (r *Recorder) Release(b input.Button)      { r.add(Call{Op: "release", Button: b}) }
func (r *Recorder) Scroll(dx, dy int)           { r.add(Call{Op: "scroll", X: dx, Y: dy}) }
func (r *Recorder) Type(text string)            { r.add(Call{Op: "type", Text: text}) }
func (r *Recorder) KeyTap(k input.Key)          { r.add(Call{Op: "keytap", Key: k}) }
func (r *Recorder) Click(b input.Button, n int) { r.add(Call{Op: "click", Button: b, Count: n}) }
