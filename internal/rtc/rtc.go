// Package rtc carries channel messages over WebRTC data channels.
//
// A client POSTs its SDP offer to the handler and receives the answer once
// ICE gathering completes. Each data channel the client opens is a separate
// connection with its own pairing state, speaking the same JSON envelope as
// the websocket channel.
package rtc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"phonemouse/internal/clients"
	"phonemouse/internal/dispatch"
	t "phonemouse/internal/types"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

const (
	maxOfferSize  = 64 << 10
	gatherTimeout = 10 * time.Second
)

type Config struct {
	Dispatcher  *dispatch.Dispatcher
	Clients     *clients.Manager
	STUNServers []string
	Log         zerolog.Logger
}

type Handler struct {
	cfg Config
}

func NewHandler(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) iceServers() []webrtc.ICEServer {
	if len(h.cfg.STUNServers) == 0 {
		return nil
	}
	return []webrtc.ICEServer{{URLs: h.cfg.STUNServers}}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var offer webrtc.SessionDescription
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOfferSize)).Decode(&offer); err != nil {
		http.Error(w, "bad offer", http.StatusBadRequest)
		return
	}
	if offer.Type != webrtc.SDPTypeOffer {
		http.Error(w, "expected an offer", http.StatusBadRequest)
		return
	}

	answer, err := h.answer(r, offer)
	if err != nil {
		h.cfg.Log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("webrtc negotiation failed")
		http.Error(w, "negotiation failed", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(answer)
}

func (h *Handler) answer(r *http.Request, offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: h.iceServers()})
	if err != nil {
		return nil, fmt.Errorf("new pc: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			_ = pc.Close()
		}
	}()

	pc.OnDataChannel(func(dc *webrtc.DataChannel) { h.attach(dc) })
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		h.cfg.Log.Debug().Str("state", s.String()).Msg("peer connection state")
		if closeOnState(s) {
			_ = pc.Close()
		}
	})

	if err := pc.SetRemoteDescription(offer); err != nil {
		return nil, fmt.Errorf("set remote: %w", err)
	}
	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		return nil, fmt.Errorf("set local: %w", err)
	}
	select {
	case <-gatherComplete:
	case <-r.Context().Done():
		return nil, r.Context().Err()
	case <-time.After(gatherTimeout):
		return nil, fmt.Errorf("ice gathering timed out after %s", gatherTimeout)
	}
	ok = true
	return pc.LocalDescription(), nil
}

// closeOnState reports whether the peer connection should be torn down.
// Disconnected may recover (e.g. a Wi-Fi roam); pion moves a dead peer on
// to Failed.
func closeOnState(s webrtc.PeerConnectionState) bool {
	return s == webrtc.PeerConnectionStateFailed
}

func (h *Handler) attach(dc *webrtc.DataChannel) {
	c := &dcConn{id: uuid.NewString(), ch: dc}
	log := h.cfg.Log.With().Str("conn", c.id).Str("label", dc.Label()).Logger()

	dc.OnOpen(func() {
		h.cfg.Clients.Add(c)
		log.Info().Msg("data channel opened")
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if msg.IsString {
			h.cfg.Dispatcher.HandleRaw(c, msg.Data)
		}
	})
	dc.OnClose(func() {
		h.cfg.Clients.Remove(c)
		log.Info().Msg("data channel closed")
	})
}

// textChannel is the part of *webrtc.DataChannel a dcConn uses.
type textChannel interface {
	SendText(s string) error
	Close() error
}

// dcConn adapts a data channel to dispatch.Conn and clients.Conn.
type dcConn struct {
	id string
	ch textChannel
}

func (c *dcConn) ID() string { return c.id }

func (c *dcConn) Send(msg t.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.ch.SendText(string(b))
}

func (c *dcConn) Close() error { return c.ch.Close() }
