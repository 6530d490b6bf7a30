package domain

import "time"

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Reason      string    `json:"reason"`
	IsCleared   bool      `json:"is_cleared"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateNotificationRequest struct {
	Reason string `json:"reason"`
}

// NotificationPage is the paginated list response: the requested slice of
// notifications plus the total count matching the filter.
type NotificationPage struct {
	Items []Notification `json:"items"`
	Count int            `json:"count"`
}
