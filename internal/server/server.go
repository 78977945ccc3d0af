package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"phonemouse/input"
	"phonemouse/internal/clients"
	"phonemouse/internal/dispatch"
	"phonemouse/internal/hostinfo"
	"phonemouse/internal/netboot"
	"phonemouse/internal/session"
	t "phonemouse/internal/types"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	readLimit    = 64 << 10
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
)

type Config struct {
	Dispatcher *dispatch.Dispatcher
	Clients    *clients.Manager
	Sessions   *session.Registry
	Selection  input.Selection
	Binding    netboot.Binding
	// StaticPage is the client page served on "/". Empty disables it.
	StaticPage string
	// RTC, when set, is mounted on /rtc/offer.
	RTC http.Handler
	Log zerolog.Logger
}

type Server struct {
	cfg      Config
	srv      *http.Server
	upgrader websocket.Upgrader
}

func New(cfg Config) *Server {
	s := &Server{
		cfg: cfg,
		// The PIN gates input; any origin on the LAN may open a channel.
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", s.serveStatus)
	mux.HandleFunc("/ws", s.HandleWS)
	if s.cfg.RTC != nil {
		mux.Handle("/rtc/offer", s.cfg.RTC)
	}
	return mux
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.cfg.Log.Info().Str("addr", s.cfg.Binding.Addr()).Msg("http server started")
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes live channels.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.cfg.Clients.CloseAll()
	return err
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || s.cfg.StaticPage == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.cfg.StaticPage)
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	st := t.Status{
		Backend:       string(s.cfg.Selection.Backend),
		BackendReason: s.cfg.Selection.Reason,
		Host:          s.cfg.Binding.Host,
		Port:          s.cfg.Binding.Port,
		Fallback:      s.cfg.Binding.Fallback,
		Connections:   s.cfg.Clients.Len(),
		Paired:        s.cfg.Sessions.Len(),
		Displays:      hostinfo.Displays(),
	}
	if name, platform, err := hostinfo.Host(); err == nil {
		st.Hostname, st.Platform = name, platform
	} else {
		s.cfg.Log.Debug().Err(err).Msg("host info")
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

// HandleWS upgrades the request and runs the connection's read loop.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Log.Debug().Err(err).Msg("upgrade error")
		return
	}
	c := &wsConn{id: uuid.NewString(), ws: ws}
	s.cfg.Clients.Add(c)
	s.cfg.Log.Info().Str("conn", c.id).Str("remote", r.RemoteAddr).Msg("channel opened")

	go s.readLoop(c)
}

func (s *Server) readLoop(c *wsConn) {
	done := make(chan struct{})
	defer func() {
		close(done)
		s.cfg.Clients.Remove(c)
		c.Close()
		s.cfg.Log.Info().Str("conn", c.id).Msg("channel closed")
	}()

	c.ws.SetReadLimit(readLimit)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.keepalive(done)

	for {
		kind, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.cfg.Log.Debug().Err(err).Str("conn", c.id).Msg("read error")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		s.cfg.Dispatcher.HandleRaw(c, msg)
	}
}

// wsConn adapts a websocket to dispatch.Conn and clients.Conn.
type wsConn struct {
	id string
	ws *websocket.Conn

	mu sync.Mutex // serializes writes
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(msg t.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(msg)
}

func (c *wsConn) Close() error { return c.ws.Close() }

func (c *wsConn) keepalive(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
