package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventApproval Event = "approval"
)

// ApprovalNotification is pushed to subscribed clients whenever an invoice
// moves through its approval route.
type ApprovalNotification struct {
	Event      Event     `json:"event"`
	Type       string    `json:"type"` // submitted | stage_approved | approved | rejected | recalled
	InvoiceID  string    `json:"invoice_id"`
	ApprovalID int       `json:"approval_id"`
	StageIndex int       `json:"stage_index"`
	ActorID    int       `json:"actor_id"`
	At         time.Time `json:"at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
