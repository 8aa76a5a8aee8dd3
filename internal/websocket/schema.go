package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer Action = "answer"
	ActionSubmit Action = "submit"
	ActionPing   Action = "ping"
)

// RequestPayload is the single client message shape; fields beyond Action are
// only read for the actions that use them.
type RequestPayload struct {
	Action  Action `json:"action"`
	Subject string `json:"subject,omitempty"`
	Ordinal int    `json:"ordinal,omitempty"`
	Option  string `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventSaved  Event = "saved"
	EventTick   Event = "tick"
	EventGraded Event = "graded"
	EventPong   Event = "pong"
)

// TickEvent is pushed once per second while an exam countdown runs.
type TickEvent struct {
	Event     Event  `json:"event"`
	Remaining int    `json:"remaining"`
	Clock     string `json:"clock"`
}

// SavedEvent acknowledges an answer action.
type SavedEvent struct {
	Event   Event  `json:"event"`
	Subject string `json:"subject"`
	Ordinal int    `json:"ordinal"`
}

// GradedEvent carries the compiled results once the session is submitted,
// whether by the client's submit action or timer expiry.
type GradedEvent struct {
	Event   Event       `json:"event"`
	Forced  bool        `json:"forced"`
	Results interface{} `json:"results"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
