package domain

import "time"

// ApprovalStage identifies one of the four fixed approval roles a requisition
// must pass through, in order.
type ApprovalStage string

const (
	StageSupervisor     ApprovalStage = "SUPERVISOR"
	StageAdminManager   ApprovalStage = "ADMIN_MANAGER"
	StageMaterialsChief ApprovalStage = "MATERIALS_CHIEF"
	StageWarehouseStaff ApprovalStage = "WAREHOUSE_STAFF"
)

// StageOrder is the fixed sequence of approval stages. A role may only act
// while the requisition's current pending stage equals that role's stage.
var StageOrder = []ApprovalStage{
	StageSupervisor,
	StageAdminManager,
	StageMaterialsChief,
	StageWarehouseStaff,
}

// IsValid reports whether s is one of the four known stages.
func (s ApprovalStage) IsValid() bool {
	switch s {
	case StageSupervisor, StageAdminManager, StageMaterialsChief, StageWarehouseStaff:
		return true
	}
	return false
}

// AllowsAdjustments reports whether this stage may revise line item quantities.
// The supervisor stage signs off on the request as submitted; only the three
// later stages adjust quantities.
func (s ApprovalStage) AllowsAdjustments() bool {
	return s == StageAdminManager || s == StageMaterialsChief || s == StageWarehouseStaff
}

// NextStage returns the stage that follows s in the fixed order, or false when
// s is the final stage.
func NextStage(s ApprovalStage) (ApprovalStage, bool) {
	for i, stage := range StageOrder {
		if stage == s && i+1 < len(StageOrder) {
			return StageOrder[i+1], true
		}
	}
	return "", false
}

// ApprovalDecision is one stage's disposition on a requisition.
type ApprovalDecision string

const (
	DecisionPending  ApprovalDecision = "PENDING"
	DecisionApproved ApprovalDecision = "APPROVED"
	DecisionRejected ApprovalDecision = "REJECTED"
)

// ApprovalRecord represents one role's decision on a requisition. Records are
// append-only: a new action appends a new record rather than mutating history,
// and a stage's current status is the decision of its most recent record.
type ApprovalRecord struct {
	ApprovalID     string           `json:"approvalID"`
	RequisitionID  string           `json:"requisitionID"`
	Stage          ApprovalStage    `json:"stage"`
	PrincipalEmail string           `json:"principalEmail"`
	PrincipalName  string           `json:"principalName"`
	Decision       ApprovalDecision `json:"decision"`
	Comment        string           `json:"comment"`
	DecidedAt      time.Time        `json:"decidedAt"`
}

// StageStatus returns the authoritative decision for a stage given the full
// append-only approval history of a requisition: the decision of that stage's
// most recent record, defaulting to PENDING when the stage has no records.
func StageStatus(records []ApprovalRecord, stage ApprovalStage) ApprovalDecision {
	latest := DecisionPending
	var latestAt time.Time
	for _, rec := range records {
		if rec.Stage != stage {
			continue
		}
		if rec.DecidedAt.After(latestAt) || latest == DecisionPending {
			latest = rec.Decision
			latestAt = rec.DecidedAt
		}
	}
	return latest
}

// CurrentPendingStage derives the requisition's current pending stage from its
// approval history: the first stage in fixed order whose most recent decision
// is not APPROVED. The second return value is false when all four stages are
// approved, meaning there is no pending stage left.
//
// A REJECTED decision at any stage also surfaces here as that stage, but
// callers should consult OverallStatus first: a rejected requisition is
// terminal and accepts no further action.
func CurrentPendingStage(records []ApprovalRecord) (ApprovalStage, bool) {
	for _, stage := range StageOrder {
		if StageStatus(records, stage) != DecisionApproved {
			return stage, true
		}
	}
	return "", false
}

// OverallStatus derives the requisition's overall status from its approval
// history. Any stage whose latest decision is REJECTED makes the whole
// requisition REJECTED regardless of downstream stages; all four stages
// approved means APPROVED; anything else is still PENDING.
func OverallStatus(records []ApprovalRecord) RequisitionStatus {
	for _, stage := range StageOrder {
		if StageStatus(records, stage) == DecisionRejected {
			return StatusRejected
		}
	}
	if _, pending := CurrentPendingStage(records); !pending {
		return StatusApproved
	}
	return StatusPending
}
