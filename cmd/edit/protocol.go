package edit

import "github.com/LegacyCodeHQ/unfurl/cmd/watch/protocol"

const (
	routeIndex = "/"
	routeWS    = "/ws"
)

const (
	messageSnapshot   = "snapshot"
	messageEditResult = "editResult"
	messageSaveResult = "saveResult"
	messageError      = "error"
)

// clientMessage is anything the page sends over the socket. Type is
// "edit" or "save"; index and text only matter for edits.
type clientMessage struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// snapshotMessage carries the full view; sent once per connection.
type snapshotMessage struct {
	Type string `json:"type"`
	protocol.ViewSnapshot
}

// editResultMessage answers one edit. Text is the line's canonical text
// after the attempt, so the page can revert a rejected edit visibly.
type editResultMessage struct {
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Accepted bool   `json:"accepted"`
	Text     string `json:"text"`
	Reason   string `json:"reason,omitempty"`
}

type saveFileOutcome struct {
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// saveResultMessage answers one save with a per-file outcome.
type saveResultMessage struct {
	Type  string            `json:"type"`
	Files []saveFileOutcome `json:"files"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
