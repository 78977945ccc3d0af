// Package dispatch turns channel messages into actuator calls.
//
// Every command except pair is guarded by the session registry: a
// connection that has not paired gets a not_paired error and causes no
// input. Unknown message types are dropped without a reply.
package dispatch

import (
	"encoding/json"

	"phonemouse/input"
	"phonemouse/internal/session"
	t "phonemouse/internal/types"

	"github.com/rs/zerolog"
)

// Conn is the dispatcher's view of one channel connection.
type Conn interface {
	// ID is unique among live connections.
	ID() string
	Send(msg t.Message) error
}

type handler func(c Conn, f fields)

type Dispatcher struct {
	sessions *session.Registry
	act      input.Actuator
	log      zerolog.Logger
	handlers map[string]handler
}

func New(sessions *session.Registry, act input.Actuator, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{sessions: sessions, act: act, log: log}
	d.handlers = map[string]handler{
		t.TypeMove:     d.guarded(d.move),
		t.TypeClick:    d.guarded(d.click),
		t.TypeTap:      d.guarded(d.tap),
		t.TypeScroll:   d.guarded(d.scroll),
		t.TypeTypeText: d.guarded(d.typeText),
		t.TypeKey:      d.guarded(d.key),
	}
	return d
}

// HandleRaw decodes one text frame and handles it. Frames that are not a
// JSON envelope are logged and skipped.
func (d *Dispatcher) HandleRaw(c Conn, raw []byte) {
	var msg t.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		d.log.Debug().Err(err).Str("conn", c.ID()).Msg("bad frame")
		return
	}
	d.Handle(c, msg)
}

// Handle runs msg to completion on the caller's goroutine.
func (d *Dispatcher) Handle(c Conn, msg t.Message) {
	if msg.Type == t.TypePair {
		d.pair(c, decodeFields(msg.Data))
		return
	}
	h, ok := d.handlers[msg.Type]
	if !ok {
		d.log.Trace().Str("conn", c.ID()).Str("type", msg.Type).Msg("ignoring unknown message")
		return
	}
	h(c, decodeFields(msg.Data))
}

// guarded runs h only for paired connections.
func (d *Dispatcher) guarded(h handler) handler {
	return func(c Conn, f fields) {
		if !d.sessions.IsAuthorized(c.ID()) {
			d.reply(c, t.TypeError, t.Error{Kind: t.ErrorKindNotPaired, Msg: "Not paired"})
			return
		}
		h(c, f)
	}
}

func (d *Dispatcher) reply(c Conn, typ string, payload any) {
	msg, err := t.NewMessage(typ, payload)
	if err != nil {
		d.log.Error().Err(err).Str("type", typ).Msg("encode reply")
		return
	}
	if err := c.Send(msg); err != nil {
		d.log.Debug().Err(err).Str("conn", c.ID()).Str("type", typ).Msg("send reply")
	}
}

func (d *Dispatcher) pair(c Conn, f fields) {
	ok := d.sessions.Pair(c.ID(), f.scalar("pin"))
	if ok {
		d.log.Info().Str("conn", c.ID()).Msg("client paired")
	} else {
		d.log.Warn().Str("conn", c.ID()).Msg("pairing rejected")
	}
	d.reply(c, t.TypePairOK, t.PairOK{OK: ok})
}

func (d *Dispatcher) move(_ Conn, f fields) {
	d.act.Move(f.integer("dx"), f.integer("dy"))
}

func (d *Dispatcher) click(_ Conn, f fields) {
	b := input.ParseButton(f.str("button"))
	if f.flag("down", true) {
		d.act.Press(b)
	} else {
		d.act.Release(b)
	}
}

func (d *Dispatcher) tap(_ Conn, f fields) {
	d.act.Click(input.ParseButton(f.str("button")), 1)
}

func (d *Dispatcher) scroll(_ Conn, f fields) {
	d.act.Scroll(f.integer("dx"), f.integer("dy"))
}

func (d *Dispatcher) typeText(_ Conn, f fields) {
	if text := f.str("text"); text != "" {
		d.act.Type(text)
	}
}

func (d *Dispatcher) key(_ Conn, f fields) {
	if k, ok := input.ParseKey(f.str("key")); ok {
		d.act.KeyTap(k)
	}
}
