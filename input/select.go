package input

import "github.com/rs/zerolog"

// Backend identifies which Actuator implementation is in use.
type Backend string

const (
	BackendReal Backend = "real"
	BackendNoOp Backend = "no-op"
)

// Selection is the actuator chosen at startup. Reason is set when Backend
// is BackendNoOp.
type Selection struct {
	Actuator Actuator
	Backend  Backend
	Reason   string
}

// Select picks the real backend when enabled and available, otherwise NoOp.
// It is meant to be called once per process.
func Select(enabled bool, log zerolog.Logger) Selection {
	if !enabled {
		return Selection{Actuator: NoOp{}, Backend: BackendNoOp, Reason: "disabled by configuration"}
	}
	r, err := newRobot(log)
	if err != nil {
		return Selection{Actuator: NoOp{}, Backend: BackendNoOp, Reason: err.Error()}
	}
	return Selection{Actuator: r, Backend: BackendReal}
}
