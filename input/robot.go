//go:build cgo

package input

import (
	"errors"
	"os"
	"runtime"

	"github.com/go-vgo/robotgo"
	"github.com/rs/zerolog"
)

// Robot injects events through robotgo. Injection errors are logged at
// debug level and otherwise dropped.
type Robot struct {
	log zerolog.Logger
}

var _ Actuator = (*Robot)(nil)

func newRobot(log zerolog.Logger) (Actuator, error) {
	switch runtime.GOOS {
	case "windows", "darwin":
	default:
		// robotgo talks to X11 on the remaining platforms.
		if os.Getenv("DISPLAY") == "" {
			return nil, errors.New("no display server available (DISPLAY unset)")
		}
	}
	return &Robot{log: log}, nil
}

// robotgo calls the middle button "center".
func robotButton(b Button) string {
	switch b {
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "center"
	default:
		return "left"
	}
}

func (r *Robot) Move(dx, dy int) {
	robotgo.MoveRelative(dx, dy)
}

func (r *Robot) Press(b Button) {
	if err := robotgo.Toggle(robotButton(b), "down"); err != nil {
		r.log.Debug().Err(err).Str("button", string(b)).Msg("press failed")
	}
}

func (r *Robot) Release(b Button) {
	if err := robotgo.Toggle(robotButton(b), "up"); err != nil {
		r.log.Debug().Err(err).Str("button", string(b)).Msg("release failed")
	}
}

func (r *Robot) Click(b Button, count int) {
	for i := 0; i < count; i++ {
		r.Press(b)
		r.Release(b)
	}
}

func (r *Robot) Scroll(dx, dy int) {
	robotgo.Scroll(dx, dy)
}

func (r *Robot) Type(text string) {
	robotgo.TypeStr(text)
}

func (r *Robot) KeyTap(k Key) {
	if err := robotgo.KeyTap(string(k)); err != nil {
		r.log.Debug().Err(err).Str("key", string(k)).Msg("key tap failed")
	}
}
