package models

// NotificationVariant selects how the client renders a toast
type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is a user-facing toast message
type Notification struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Variant     NotificationVariant `json:"variant"`
}
