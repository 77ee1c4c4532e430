package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionStatus is the overall state of a requisition.
type RequisitionStatus string

const (
	StatusPending  RequisitionStatus = "PENDING"
	StatusApproved RequisitionStatus = "APPROVED"
	StatusRejected RequisitionStatus = "REJECTED"
)

// IsTerminal reports whether no further approval action may be taken.
func (s RequisitionStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// StageTimestamps records when each lifecycle milestone of a requisition
// happened. Zero values mean the milestone has not been reached.
type StageTimestamps struct {
	SubmittedAt          time.Time  `json:"submittedAt"`
	SupervisorApprovedAt *time.Time `json:"supervisorApprovedAt,omitempty"`
	WarehouseApprovedAt  *time.Time `json:"warehouseApprovedAt,omitempty"`
	RejectedAt           *time.Time `json:"rejectedAt,omitempty"`
	DeliveredAt          *time.Time `json:"deliveredAt,omitempty"`
}

// Requisition is the aggregate root of the approval workflow: a single
// material request submitted by an employee, tracked through four sequential
// approval stages to fulfillment.
type Requisition struct {
	RequisitionID   string            `json:"requisitionID"`
	Code            string            `json:"code"` // human-readable, assigned once by the ledger
	RequesterID     string            `json:"requesterID"`
	RequesterName   string            `json:"requesterName"`
	RequesterEmail  string            `json:"requesterEmail"`
	SupervisorEmail string            `json:"supervisorEmail"` // resolved at submission time
	OrgUnitID       string            `json:"orgUnitID"`
	OrgUnitName     string            `json:"orgUnitName"`
	Status          RequisitionStatus `json:"status"`
	RequesterNotes  string            `json:"requesterNotes"`
	WarehouseNotes  string            `json:"warehouseNotes"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	StageTimestamps
	AuditFields
}

// LineItem belongs to exactly one requisition. LineTotal is always
// Quantity x UnitCost and is recomputed whenever the quantity changes.
type LineItem struct {
	LineItemID        string          `json:"lineItemID"`
	RequisitionID     string          `json:"requisitionID"`
	ProductID         string          `json:"productID"`
	ProductName       string          `json:"productName"`
	Quantity          decimal.Decimal `json:"quantity"`
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
	DeliveredBy       string          `json:"deliveredBy,omitempty"`
	ReceivedBy        string          `json:"receivedBy,omitempty"`
}

// Recalculate sets LineTotal from the current quantity and unit cost.
func (li *LineItem) Recalculate() {
	li.LineTotal = li.Quantity.Mul(li.UnitCost)
}

// TotalOf sums the line totals of items into an aggregate requisition amount.
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.LineTotal)
	}
	return total
}

// QuantityAdjustment is a requested downward revision of one line item,
// applied by an approving role as part of its decision.
type QuantityAdjustment struct {
	ProductID   string          `json:"productID"`
	NewQuantity decimal.Decimal `json:"newQuantity"`
}

// DeliveredQuantity records how much of one line item was handed over at
// delivery time.
type DeliveredQuantity struct {
	ProductID string          `json:"productID"`
	Quantity  decimal.Decimal `json:"quantity"`
}
