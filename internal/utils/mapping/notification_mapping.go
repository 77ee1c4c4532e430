package mapping

import (
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
)

// ToModelNotification converts a domain Notification to a model Notification
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		UserEmail:      d.UserEmail,
		RequisitionID:  d.RequisitionID,
		Kind:           string(d.Kind),
		Message:        d.Message,
		Read:           d.Read,
		DeliveryStatus: string(d.DeliveryStatus),
		DeliveryError:  d.DeliveryError,
		SentAt:         d.SentAt,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainNotification converts a model Notification to a domain Notification
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID:  m.NotificationID,
		UserEmail:       m.UserEmail,
		RequisitionID:   m.RequisitionID,
		RequisitionCode: m.RequisitionCode,
		Kind:            domain.NotificationKind(m.Kind),
		Message:         m.Message,
		Read:            m.Read,
		DeliveryStatus:  domain.DeliveryStatus(m.DeliveryStatus),
		DeliveryError:   m.DeliveryError,
		SentAt:          m.SentAt,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainNotificationSlice converts a slice of model Notifications to domain Notifications
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
