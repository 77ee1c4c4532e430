package dto

import (
	"time"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one requested product line on a new requisition.
type LineItemRequest struct {
	ProductID   string          `json:"productID" binding:"required,uuid"`
	ProductName string          `json:"productName" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,dpositive"`
	UnitCost    decimal.Decimal `json:"unitCost" binding:"required,dnonnegative"`
}

// CreateRequisitionRequest defines the payload for submitting a requisition.
type CreateRequisitionRequest struct {
	RequesterNotes string            `json:"requesterNotes"`
	Items          []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateRequisitionResponse returns the identifiers assigned at submission
// together with the supervisor the requisition is now waiting on.
type CreateRequisitionResponse struct {
	RequisitionID   string `json:"requisitionID"`
	Code            string `json:"code"`
	SupervisorName  string `json:"supervisorName"`
	SupervisorEmail string `json:"supervisorEmail"`
}

// QuantityAdjustmentRequest is a downward quantity revision applied while
// approving. NewQuantity must not exceed the line item's current quantity.
type QuantityAdjustmentRequest struct {
	ProductID   string          `json:"productID" binding:"required,uuid"`
	NewQuantity decimal.Decimal `json:"newQuantity" binding:"required,dpositive"`
}

// ActRequest defines the payload for acting on a pending requisition. The
// acting role is declared by the caller and verified server-side against both
// the requisition's current pending stage and the principal's actual role
// membership.
type ActRequest struct {
	ActingRole  string                      `json:"actingRole" binding:"required,oneof=SUPERVISOR ADMIN_MANAGER MATERIALS_CHIEF WAREHOUSE_STAFF"`
	Decision    string                      `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comment     string                      `json:"comment"`
	Adjustments []QuantityAdjustmentRequest `json:"adjustments" binding:"dive"`
}

// ActResponse reports the state reached after a successful decision.
type ActResponse struct {
	RequisitionID string          `json:"requisitionID"`
	Status        string          `json:"status"`
	PendingStage  string          `json:"pendingStage,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// DeliveredQuantityRequest records the handed-over amount of one line item.
type DeliveredQuantityRequest struct {
	ProductID string          `json:"productID" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"dnonnegative"`
}

// DeliverRequest defines the payload for recording the physical delivery of a
// fully approved requisition.
type DeliverRequest struct {
	ReceivedBy string                     `json:"receivedBy" binding:"required"`
	Items      []DeliveredQuantityRequest `json:"items" binding:"required,min=1,dive"`
}

// LineItemResponse is one product line of a requisition as returned to clients.
type LineItemResponse struct {
	ProductID         string          `json:"productID"`
	ProductName       string          `json:"productName"`
	Quantity          decimal.Decimal `json:"quantity"`
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
}

// StageStatusResponse reports the latest decision per stage.
type StageStatusResponse struct {
	Supervisor     string `json:"supervisor"`
	AdminManager   string `json:"adminManager"`
	MaterialsChief string `json:"materialsChief"`
	WarehouseStaff string `json:"warehouseStaff"`
}

// RequisitionResponse is the full detail view of one requisition.
type RequisitionResponse struct {
	RequisitionID   string              `json:"requisitionID"`
	Code            string              `json:"code"`
	RequesterName   string              `json:"requesterName"`
	RequesterEmail  string              `json:"requesterEmail"`
	OrgUnitName     string              `json:"orgUnitName"`
	Status          string              `json:"status"`
	PendingStage    string              `json:"pendingStage,omitempty"`
	RequesterNotes  string              `json:"requesterNotes,omitempty"`
	WarehouseNotes  string              `json:"warehouseNotes,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	SubmittedAt     time.Time           `json:"submittedAt"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	Stages          StageStatusResponse `json:"stages"`
	Items           []LineItemResponse  `json:"items"`
}

// PendingRequisitionSummary is one entry in an approver's pending queue.
type PendingRequisitionSummary struct {
	RequisitionID  string             `json:"requisitionID"`
	Code           string             `json:"code"`
	RequesterName  string             `json:"requesterName"`
	OrgUnitName    string             `json:"orgUnitName"`
	SubmittedAt    time.Time          `json:"submittedAt"`
	RequesterNotes string             `json:"requesterNotes,omitempty"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	Items          []LineItemResponse `json:"items"`
}

// PendingListResponse wraps an approver's pending queue.
type PendingListResponse struct {
	Stage         string                      `json:"stage"`
	Requisitions  []PendingRequisitionSummary `json:"requisitions"`
	PendingAmount decimal.Decimal             `json:"pendingAmount"`
}

// ToLineItemResponses converts domain line items to their response shape.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, li := range items {
		out[i] = LineItemResponse{
			ProductID:         li.ProductID,
			ProductName:       li.ProductName,
			Quantity:          li.Quantity,
			DeliveredQuantity: li.DeliveredQuantity,
			UnitCost:          li.UnitCost,
			LineTotal:         li.LineTotal,
		}
	}
	return out
}

// ToRequisitionResponse converts a domain requisition with its line items and
// approval history to the full detail view.
func ToRequisitionResponse(r *domain.Requisition, items []domain.LineItem, records []domain.ApprovalRecord) RequisitionResponse {
	resp := RequisitionResponse{
		RequisitionID:   r.RequisitionID,
		Code:            r.Code,
		RequesterName:   r.RequesterName,
		RequesterEmail:  r.RequesterEmail,
		OrgUnitName:     r.OrgUnitName,
		Status:          string(r.Status),
		RequesterNotes:  r.RequesterNotes,
		WarehouseNotes:  r.WarehouseNotes,
		RejectionReason: r.RejectionReason,
		TotalAmount:     r.TotalAmount,
		SubmittedAt:     r.SubmittedAt,
		DeliveredAt:     r.DeliveredAt,
		Stages: StageStatusResponse{
			Supervisor:     string(domain.StageStatus(records, domain.StageSupervisor)),
			AdminManager:   string(domain.StageStatus(records, domain.StageAdminManager)),
			MaterialsChief: string(domain.StageStatus(records, domain.StageMaterialsChief)),
			WarehouseStaff: string(domain.StageStatus(records, domain.StageWarehouseStaff)),
		},
		Items: ToLineItemResponses(items),
	}
	if r.Status == domain.StatusPending {
		if stage, ok := domain.CurrentPendingStage(records); ok {
			resp.PendingStage = string(stage)
		}
	}
	return resp
}
