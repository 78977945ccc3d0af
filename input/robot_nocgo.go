//go:build !cgo

package input

import (
	"errors"

	"github.com/rs/zerolog"
)

// Pure-Go builds have no injection driver; selection always degrades to NoOp.
func newRobot(zerolog.Logger) (Actuator, error) {
	return nil, errors.New("built without cgo")
}
