package repositories

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// AuditWriter appends immutable audit events. There are no update or delete
// operations on the audit log.
type AuditWriter interface {
	AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditReader reads the audit timeline.
type AuditReader interface {
	// FindTimeline retrieves all audit events of a requisition ordered by
	// occurrence time ascending.
	FindTimeline(ctx context.Context, requisitionID string) ([]domain.AuditEvent, error)
}

// AuditRepositoryFacade combines audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditWriter
	AuditReader
}
