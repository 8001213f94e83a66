package audit

import "time"

// Event is emitted from the services to capture key administrative actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Action    Action    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Action names a recorded administrative operation.
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionActivated   Action = "activated"
	ActionDeactivated Action = "deactivated"
	ActionSuspended   Action = "suspended"
	ActionRenewed     Action = "renewed"
	ActionRevoked     Action = "revoked"
	ActionCancelled   Action = "cancelled"
	ActionExpired     Action = "expired"
	ActionCompleted   Action = "completed"
	ActionRefunded    Action = "refunded"
	ActionFailed      Action = "failed"
	ActionProcessing  Action = "processing"
)
