package types

import "encoding/json"

// Message types exchanged over a channel.
const (
	TypePair     = "pair"
	TypeMove     = "move"
	TypeClick    = "click"
	TypeTap      = "tap"
	TypeScroll   = "scroll"
	TypeTypeText = "type_text"
	TypeKey      = "key"

	TypePairOK = "pair_ok"
	TypeError  = "error"
)

// ErrorKindNotPaired is sent when a command arrives before pairing.
const ErrorKindNotPaired = "not_paired"

// Message is the envelope for every frame in either direction.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PairOK answers a pair request.
type PairOK struct {
	OK bool `json:"ok"`
}

// Error reports a rejected message to the originating connection.
type Error struct {
	Kind string `json:"kind"`
	Msg  string `json:"msg"`
}

// NewMessage wraps payload in an envelope of type typ.
func NewMessage(typ string, payload any) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: typ, Data: b}, nil
}

// Display describes one active monitor.
type Display struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Status is the operator-facing diagnostics payload served on /status.
type Status struct {
	Backend       string    `json:"backend"`
	BackendReason string    `json:"backend_reason,omitempty"`
	Host          string    `json:"host"`
	Port          int       `json:"port"`
	Fallback      bool      `json:"fallback"`
	Connections   int       `json:"connections"`
	Paired        int       `json:"paired"`
	Hostname      string    `json:"hostname,omitempty"`
	Platform      string    `json:"platform,omitempty"`
	Displays      []Display `json:"displays"`
}
