package models

import "time"

// Notification is the persisted form of an in-app message tied to a
// requisition state transition.
type Notification struct {
	NotificationID  string     `json:"notificationID"` // Primary Key (UUID)
	UserEmail       string     `json:"userEmail"`
	RequisitionID   string     `json:"requisitionID"`
	RequisitionCode string     `json:"requisitionCode"` // joined from requisitions, never stored
	Kind            string     `json:"kind"`
	Message         string     `json:"message"`
	Read            bool       `json:"read"`
	DeliveryStatus  string     `json:"deliveryStatus"` // pending | sent | error
	DeliveryError   string     `json:"deliveryError"`
	SentAt          *time.Time `json:"sentAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}
