package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionStatus indicates the overall state of a requisition.
type RequisitionStatus string

const (
	Pending  RequisitionStatus = "PENDING"
	Approved RequisitionStatus = "APPROVED"
	Rejected RequisitionStatus = "REJECTED"
)

// Requisition is the persisted form of a material request.
type Requisition struct {
	RequisitionID        string            `json:"requisitionID"` // Primary Key (UUID)
	Code                 string            `json:"code"`          // Unique, assigned at insert
	RequesterID          string            `json:"requesterID"`
	RequesterName        string            `json:"requesterName"`
	RequesterEmail       string            `json:"requesterEmail"`
	SupervisorEmail      string            `json:"supervisorEmail"`
	OrgUnitID            string            `json:"orgUnitID"`
	OrgUnitName          string            `json:"orgUnitName"`
	Status               RequisitionStatus `json:"status"`
	RequesterNotes       string            `json:"requesterNotes"`
	WarehouseNotes       string            `json:"warehouseNotes"`
	RejectionReason      string            `json:"rejectionReason"`
	TotalAmount          decimal.Decimal   `json:"totalAmount"`
	SubmittedAt          time.Time         `json:"submittedAt"`
	SupervisorApprovedAt *time.Time        `json:"supervisorApprovedAt"`
	WarehouseApprovedAt  *time.Time        `json:"warehouseApprovedAt"`
	RejectedAt           *time.Time        `json:"rejectedAt"`
	DeliveredAt          *time.Time        `json:"deliveredAt"`
	AuditFields
}

// LineItem is one product line of a requisition.
type LineItem struct {
	LineItemID        string          `json:"lineItemID"` // Primary Key (UUID)
	RequisitionID     string          `json:"requisitionID"`
	ProductID         string          `json:"productID"`
	ProductName       string          `json:"productName"`
	Quantity          decimal.Decimal `json:"quantity"`
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	LineTotal         decimal.Decimal `json:"lineTotal"` // Always Quantity * UnitCost
	DeliveredBy       string          `json:"deliveredBy"`
	ReceivedBy        string          `json:"receivedBy"`
}

// ApprovalRecord is one append-only decision row.
type ApprovalRecord struct {
	ApprovalID     string    `json:"approvalID"` // Primary Key (UUID)
	RequisitionID  string    `json:"requisitionID"`
	Stage          string    `json:"stage"`
	PrincipalEmail string    `json:"principalEmail"`
	PrincipalName  string    `json:"principalName"`
	Decision       string    `json:"decision"`
	Comment        string    `json:"comment"`
	DecidedAt      time.Time `json:"decidedAt"`
}
