package mapping

import (
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
)

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	return models.AuditEvent{
		AuditID:       d.AuditID,
		RequisitionID: d.RequisitionID,
		ActionType:    string(d.ActionType),
		ActorID:       d.ActorID,
		ActorName:     d.ActorName,
		Description:   d.Description,
		Observations:  d.Observations,
		OccurredAt:    d.OccurredAt,
	}
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent
func ToDomainAuditEvent(m models.AuditEvent) domain.AuditEvent {
	return domain.AuditEvent{
		AuditID:       m.AuditID,
		RequisitionID: m.RequisitionID,
		ActionType:    domain.AuditActionType(m.ActionType),
		ActorID:       m.ActorID,
		ActorName:     m.ActorName,
		Description:   m.Description,
		Observations:  m.Observations,
		OccurredAt:    m.OccurredAt,
	}
}

// ToDomainAuditEventSlice converts a slice of model AuditEvents to domain AuditEvents
func ToDomainAuditEventSlice(ms []models.AuditEvent) []domain.AuditEvent {
	ds := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditEvent(m)
	}
	return ds
}
