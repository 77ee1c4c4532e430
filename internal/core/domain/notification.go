package domain

import "time"

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NotificationDecision NotificationKind = "DECISION"       // outcome notice to the requester
	NotificationPending  NotificationKind = "PENDING_ACTION" // new item waiting on an approver
	NotificationDelivery NotificationKind = "DELIVERY"       // requisition handed over
)

// DeliveryStatus tracks the outcome of the outbound email attempt associated
// with a notification.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryError   DeliveryStatus = "error"
)

// Notification is a user-scoped in-app message referencing a requisition.
// It is created as a side effect of a state transition and mutated only to
// mark it read or to update the email delivery outcome.
type Notification struct {
	NotificationID  string           `json:"notificationID"`
	UserEmail       string           `json:"userEmail"`
	RequisitionID   string           `json:"requisitionID"`
	RequisitionCode string           `json:"requisitionCode,omitempty"` // read-side only, joined from the requisition
	Kind            NotificationKind `json:"kind"`
	Message         string           `json:"message"`
	Read            bool             `json:"read"`
	DeliveryStatus  DeliveryStatus   `json:"deliveryStatus"`
	DeliveryError   string           `json:"deliveryError,omitempty"`
	SentAt          *time.Time       `json:"sentAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}
