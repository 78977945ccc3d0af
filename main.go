package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonemouse/input"
	"phonemouse/internal/clients"
	"phonemouse/internal/config"
	"phonemouse/internal/discovery"
	"phonemouse/internal/dispatch"
	"phonemouse/internal/logging"
	"phonemouse/internal/netboot"
	"phonemouse/internal/rtc"
	"phonemouse/internal/server"
	"phonemouse/internal/session"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	log := logging.New("phonemouse", level)
	if !ok {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
	}

	sel := input.Select(cfg.RealInput, log)
	if sel.Backend == input.BackendNoOp {
		log.Warn().Str("backend", string(sel.Backend)).Str("reason", sel.Reason).Msg("input events will be discarded")
	} else {
		log.Info().Str("backend", string(sel.Backend)).Msg("input backend ready")
	}

	sessions := session.NewRegistry(cfg.PIN)
	conns := clients.NewManager(sessions)
	dispatcher := dispatch.New(sessions, sel.Actuator, log)

	ln, binding, err := netboot.Listen(cfg.Host, cfg.Port)
	if err != nil {
		return err
	}
	if binding.Fallback {
		log.Warn().Err(binding.Cause).
			Int("preferred", binding.Preferred).
			Int("port", binding.Port).
			Msg("preferred port unavailable, using fallback")
	}

	srv := server.New(server.Config{
		Dispatcher: dispatcher,
		Clients:    conns,
		Sessions:   sessions,
		Selection:  sel,
		Binding:    binding,
		StaticPage: cfg.StaticPage,
		RTC: rtc.NewHandler(rtc.Config{
			Dispatcher:  dispatcher,
			Clients:     conns,
			STUNServers: cfg.STUNServers,
			Log:         log,
		}),
		Log: log,
	})

	log.Info().
		Str("url", fmt.Sprintf("http://<your-laptop-ip>:%d", binding.Port)).
		Bool("fallback", binding.Fallback).
		Str("pin", cfg.PIN).
		Msg("phone-as-mouse running")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Advertise {
		adv, err := discovery.Advertise(ctx, discovery.Service{
			Type: cfg.ServiceName,
			Port: binding.Port,
			Text: map[string]string{"backend": string(sel.Backend), "path": "/ws"},
		}, log)
		if err != nil {
			log.Warn().Err(err).Msg("mdns advertisement disabled")
		} else {
			defer adv.Stop()
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown error")
	}
	return nil
}
