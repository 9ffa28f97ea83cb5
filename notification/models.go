package notification

import "time"

// Notification is a message addressed to one user.
type Notification struct {
	ID              string
	RecipientUserID string
	Message         string
	TargetURL       string
	Read            bool
	CreatedAt       time.Time
}

// AppendParams describes a new unread notification.
type AppendParams struct {
	ID              string
	RecipientUserID string
	Message         string
	TargetURL       string
	CreatedAt       time.Time
}
