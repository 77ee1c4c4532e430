package models

import "time"

// AuditEvent is one immutable lifecycle log row for a requisition.
type AuditEvent struct {
	AuditID       string    `json:"auditID"` // Primary Key (UUID)
	RequisitionID string    `json:"requisitionID"`
	ActionType    string    `json:"actionType"`
	ActorID       string    `json:"actorID"`
	ActorName     string    `json:"actorName"`
	Description   string    `json:"description"`
	Observations  string    `json:"observations"`
	OccurredAt    time.Time `json:"occurredAt"`
}
