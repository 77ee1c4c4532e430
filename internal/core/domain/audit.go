package domain

import "time"

// AuditActionType classifies a discrete lifecycle action on a requisition.
type AuditActionType string

const (
	ActionCreated                AuditActionType = "CREATED"
	ActionSubmitted              AuditActionType = "SUBMITTED"
	ActionApprovedSupervisor     AuditActionType = "APPROVED_SUPERVISOR"
	ActionApprovedAdminManager   AuditActionType = "APPROVED_ADMIN_MANAGER"
	ActionApprovedMaterialsChief AuditActionType = "APPROVED_MATERIALS_CHIEF"
	ActionApprovedWarehouse      AuditActionType = "APPROVED_WAREHOUSE"
	ActionRejected               AuditActionType = "REJECTED"
	ActionDelivered              AuditActionType = "DELIVERED"
)

// ApprovalActionFor maps an approving stage to its audit action type.
func ApprovalActionFor(stage ApprovalStage) AuditActionType {
	switch stage {
	case StageSupervisor:
		return ActionApprovedSupervisor
	case StageAdminManager:
		return ActionApprovedAdminManager
	case StageMaterialsChief:
		return ActionApprovedMaterialsChief
	case StageWarehouseStaff:
		return ActionApprovedWarehouse
	}
	return ""
}

// AuditEvent is an immutable, time-ordered log entry recording one lifecycle
// action on a requisition. Events are only ever appended, never mutated.
type AuditEvent struct {
	AuditID       string          `json:"auditID"`
	RequisitionID string          `json:"requisitionID"`
	ActionType    AuditActionType `json:"actionType"`
	ActorID       string          `json:"actorID"`
	ActorName     string          `json:"actorName"`
	Description   string          `json:"description"`
	Observations  string          `json:"observations"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// StageDurations holds the elapsed time between lifecycle milestones of a
// requisition, in fractional days. Nil fields mean the later milestone has
// not been reached yet.
type StageDurations struct {
	RequisitionID         string   `json:"requisitionID"`
	CreatedToSubmitted    *float64 `json:"createdToSubmitted,omitempty"`
	SubmittedToSupervisor *float64 `json:"submittedToSupervisor,omitempty"`
	SupervisorToWarehouse *float64 `json:"supervisorToWarehouse,omitempty"`
	WarehouseToDelivery   *float64 `json:"warehouseToDelivery,omitempty"`
	TotalDays             *float64 `json:"totalDays,omitempty"`
}
