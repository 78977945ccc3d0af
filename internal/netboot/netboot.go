// Package netboot binds the server's listening socket, falling back to an
// OS-assigned port when the preferred one is taken.
package netboot

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoPort is returned when neither the preferred nor an ephemeral port
// could be bound.
var ErrNoPort = errors.New("netboot: no bindable port")

// Binding describes where Listen ended up.
type Binding struct {
	Host      string
	Port      int
	Preferred int
	Fallback  bool
	// Cause is the bind error for the preferred port when Fallback is set.
	Cause error
}

// Addr returns host:port for the bound socket.
func (b Binding) Addr() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// Listen binds host:preferred over TCP. If that fails it binds host:0 and
// reports the port the OS chose.
func Listen(host string, preferred int) (net.Listener, Binding, error) {
	b := Binding{Host: host, Preferred: preferred}
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(preferred)))
	if err != nil {
		b.Fallback = true
		b.Cause = err
		var ferr error
		ln, ferr = net.Listen("tcp", net.JoinHostPort(host, "0"))
		if ferr != nil {
			return nil, b, fmt.Errorf("%w: preferred %d: %v; ephemeral: %v", ErrNoPort, preferred, err, ferr)
		}
	}
	b.Port = ln.Addr().(*net.TCPAddr).Port
	return ln, b, nil
}

// PickPort probes like Listen but releases the socket before returning.
// The port is only known to have been free at probe time; callers that
// serve on it should prefer Listen.
func PickPort(host string, preferred int) (port int, fallback bool, err error) {
	ln, b, err := Listen(host, preferred)
	if err != nil {
		return 0, b.Fallback, err
	}
	if err := ln.Close(); err != nil {
		return 0, b.Fallback, fmt.Errorf("netboot: release probe: %w", err)
	}
	return b.Port, b.Fallback, nil
}
