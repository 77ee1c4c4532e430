package dto

import (
	"time"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// NotificationResponse is one in-app notification as returned to clients.
type NotificationResponse struct {
	NotificationID  string     `json:"notificationID"`
	RequisitionID   string     `json:"requisitionID"`
	RequisitionCode string     `json:"requisitionCode,omitempty"`
	Kind            string     `json:"kind"`
	Message         string     `json:"message"`
	Read            bool       `json:"read"`
	DeliveryStatus  string     `json:"deliveryStatus"`
	DeliveryError   string     `json:"deliveryError,omitempty"`
	SentAt          *time.Time `json:"sentAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ListNotificationsParams defines query parameters for listing notifications.
type ListNotificationsParams struct {
	UnreadOnly bool   `form:"unreadOnly,default=false"`
	Code       string `form:"code"`
	Limit      int    `form:"limit,default=200"`
}

// ListNotificationsResponse wraps the notification list with counts.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Unread        int                    `json:"unread"`
}

// ToNotificationResponse converts a domain notification to its response shape.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID:  n.NotificationID,
		RequisitionID:   n.RequisitionID,
		RequisitionCode: n.RequisitionCode,
		Kind:            string(n.Kind),
		Message:         n.Message,
		Read:            n.Read,
		DeliveryStatus:  string(n.DeliveryStatus),
		DeliveryError:   n.DeliveryError,
		SentAt:          n.SentAt,
		CreatedAt:       n.CreatedAt,
	}
}

// ToListNotificationsResponse converts domain notifications with counts.
func ToListNotificationsResponse(notifications []domain.Notification) ListNotificationsResponse {
	out := ListNotificationsResponse{
		Notifications: make([]NotificationResponse, len(notifications)),
		Total:         len(notifications),
	}
	for i, n := range notifications {
		out.Notifications[i] = ToNotificationResponse(&n)
		if !n.Read {
			out.Unread++
		}
	}
	return out
}
