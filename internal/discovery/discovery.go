// Package discovery announces the server over DNS-SD/mDNS so clients on the
// LAN can find the port actually bound, including after a fallback.
package discovery

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/brutella/dnssd"
	"github.com/rs/zerolog"
)

// Service describes the announcement.
type Service struct {
	// Instance defaults to DefaultInstance().
	Instance string
	// Type is the service type, e.g. "_phonemouse._tcp".
	Type string
	Port int
	Text map[string]string
}

func DefaultInstance() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "phonemouse"
	}
	return hostname + "-phonemouse"
}

// text returns the TXT record map with os and arch filled in.
func (s Service) text() map[string]string {
	txt := make(map[string]string, len(s.Text)+2)
	for k, v := range s.Text {
		txt[k] = v
	}
	if txt["os"] == "" {
		txt["os"] = runtime.GOOS
	}
	if txt["arch"] == "" {
		txt["arch"] = runtime.GOARCH
	}
	return txt
}

func (s Service) config() dnssd.Config {
	instance := s.Instance
	if instance == "" {
		instance = DefaultInstance()
	}
	return dnssd.Config{
		Name:   instance,
		Type:   strings.Trim(s.Type, "."),
		Domain: "local",
		Port:   s.Port,
		Text:   s.text(),
	}
}

// Advertiser runs an mDNS responder until Stop.
type Advertiser struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Advertise registers svc and starts responding in the background.
// Responder errors after startup are logged.
func Advertise(ctx context.Context, svc Service, log zerolog.Logger) (*Advertiser, error) {
	resp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("dnssd new responder: %w", err)
	}
	srv, err := dnssd.NewService(svc.config())
	if err != nil {
		return nil, fmt.Errorf("dnssd new service: %w", err)
	}
	handle, err := resp.Add(srv)
	if err != nil {
		return nil, fmt.Errorf("dnssd add service: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &Advertiser{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(a.done)
		if err := resp.Respond(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("mdns responder stopped")
		}
	}()
	log.Info().
		Str("instance", handle.Service().ServiceInstanceName()).
		Int("port", svc.Port).
		Msg("advertising over mdns")
	return a, nil
}

// Stop withdraws the announcement and waits for the responder to exit.
func (a *Advertiser) Stop() {
	a.cancel()
	<-a.done
}
