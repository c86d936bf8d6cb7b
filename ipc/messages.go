package ipc

import "github.com/nstehr/burrow/burrow-core/model"

// These constants must stay in sync with the host's message types.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeTick     = "tick"
	TypeCommands = "commands"
	TypeError    = "error"
)

type HelloMessage struct {
	Player string `json:"player"`
	Room   string `json:"room"`
	// Spawn names the primary production structure. Empty means the
	// configured name (or the first spawn in each snapshot) is used.
	Spawn string `json:"spawn,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// ErrorMessage answers a message whose handler failed.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type TickMessage = model.TickState

// CommandsMessage is the reply to a tick: every command issued during that
// tick, in issue order. Each entry is itself an envelope so the host can
// dispatch on type without a second schema.
type CommandsMessage struct {
	Tick     int        `json:"tick"`
	Commands []Envelope `json:"commands"`
}
