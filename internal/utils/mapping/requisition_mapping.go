package mapping

import (
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
)

// ToModelRequisition converts a domain Requisition to a model Requisition
func ToModelRequisition(d domain.Requisition) models.Requisition {
	return models.Requisition{
		RequisitionID:        d.RequisitionID,
		Code:                 d.Code,
		RequesterID:          d.RequesterID,
		RequesterName:        d.RequesterName,
		RequesterEmail:       d.RequesterEmail,
		SupervisorEmail:      d.SupervisorEmail,
		OrgUnitID:            d.OrgUnitID,
		OrgUnitName:          d.OrgUnitName,
		Status:               models.RequisitionStatus(d.Status),
		RequesterNotes:       d.RequesterNotes,
		WarehouseNotes:       d.WarehouseNotes,
		RejectionReason:      d.RejectionReason,
		TotalAmount:          d.TotalAmount,
		SubmittedAt:          d.SubmittedAt,
		SupervisorApprovedAt: d.SupervisorApprovedAt,
		WarehouseApprovedAt:  d.WarehouseApprovedAt,
		RejectedAt:           d.RejectedAt,
		DeliveredAt:          d.DeliveredAt,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRequisition converts a model Requisition to a domain Requisition
func ToDomainRequisition(m models.Requisition) domain.Requisition {
	return domain.Requisition{
		RequisitionID:   m.RequisitionID,
		Code:            m.Code,
		RequesterID:     m.RequesterID,
		RequesterName:   m.RequesterName,
		RequesterEmail:  m.RequesterEmail,
		SupervisorEmail: m.SupervisorEmail,
		OrgUnitID:       m.OrgUnitID,
		OrgUnitName:     m.OrgUnitName,
		Status:          domain.RequisitionStatus(m.Status),
		RequesterNotes:  m.RequesterNotes,
		WarehouseNotes:  m.WarehouseNotes,
		RejectionReason: m.RejectionReason,
		TotalAmount:     m.TotalAmount,
		StageTimestamps: domain.StageTimestamps{
			SubmittedAt:          m.SubmittedAt,
			SupervisorApprovedAt: m.SupervisorApprovedAt,
			WarehouseApprovedAt:  m.WarehouseApprovedAt,
			RejectedAt:           m.RejectedAt,
			DeliveredAt:          m.DeliveredAt,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:        d.LineItemID,
		RequisitionID:     d.RequisitionID,
		ProductID:         d.ProductID,
		ProductName:       d.ProductName,
		Quantity:          d.Quantity,
		DeliveredQuantity: d.DeliveredQuantity,
		UnitCost:          d.UnitCost,
		LineTotal:         d.LineTotal,
		DeliveredBy:       d.DeliveredBy,
		ReceivedBy:        d.ReceivedBy,
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:        m.LineItemID,
		RequisitionID:     m.RequisitionID,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		Quantity:          m.Quantity,
		DeliveredQuantity: m.DeliveredQuantity,
		UnitCost:          m.UnitCost,
		LineTotal:         m.LineTotal,
		DeliveredBy:       m.DeliveredBy,
		ReceivedBy:        m.ReceivedBy,
	}
}

// ToDomainLineItemSlice converts a slice of model LineItems to domain LineItems
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}

// ToModelApprovalRecord converts a domain ApprovalRecord to a model ApprovalRecord
func ToModelApprovalRecord(d domain.ApprovalRecord) models.ApprovalRecord {
	return models.ApprovalRecord{
		ApprovalID:     d.ApprovalID,
		RequisitionID:  d.RequisitionID,
		Stage:          string(d.Stage),
		PrincipalEmail: d.PrincipalEmail,
		PrincipalName:  d.PrincipalName,
		Decision:       string(d.Decision),
		Comment:        d.Comment,
		DecidedAt:      d.DecidedAt,
	}
}

// ToDomainApprovalRecord converts a model ApprovalRecord to a domain ApprovalRecord
func ToDomainApprovalRecord(m models.ApprovalRecord) domain.ApprovalRecord {
	return domain.ApprovalRecord{
		ApprovalID:     m.ApprovalID,
		RequisitionID:  m.RequisitionID,
		Stage:          domain.ApprovalStage(m.Stage),
		PrincipalEmail: m.PrincipalEmail,
		PrincipalName:  m.PrincipalName,
		Decision:       domain.ApprovalDecision(m.Decision),
		Comment:        m.Comment,
		DecidedAt:      m.DecidedAt,
	}
}

// ToDomainApprovalRecordSlice converts a slice of model ApprovalRecords to domain ApprovalRecords
func ToDomainApprovalRecordSlice(ms []models.ApprovalRecord) []domain.ApprovalRecord {
	ds := make([]domain.ApprovalRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApprovalRecord(m)
	}
	return ds
}
