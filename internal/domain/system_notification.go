package domain

import "time"

// NotificationType tags a system notification and selects its payload schema.
type NotificationType string

const (
	NotificationArchiveExportCompleted NotificationType = "ARCHIVE_EXPORT_COMPLETED"
	NotificationRequestStatusChange    NotificationType = "REQUEST_STATUS_CHANGE"
	NotificationDocumentShared         NotificationType = "DOCUMENT_SHARED"
	NotificationDocumentEdited         NotificationType = "DOCUMENT_EDITED"
	NotificationProcessCompleted       NotificationType = "PROCESS_COMPLETED"
	NotificationProcessFailed          NotificationType = "PROCESS_FAILED"
)

// IsValid checks if the notification type is known.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationArchiveExportCompleted,
		NotificationRequestStatusChange,
		NotificationDocumentShared,
		NotificationDocumentEdited,
		NotificationProcessCompleted,
		NotificationProcessFailed:
		return true
	default:
		return false
	}
}

// SystemNotification is a communication carrying an optional typed payload
// stored as an opaque JSON string.
type SystemNotification struct {
	Communication
	NotificationType NotificationType
	PayloadJSON      *string
}

// NewSystemNotification builds a notification without recipients.
func NewSystemNotification(originator string, notificationType NotificationType, message string, now time.Time) (*SystemNotification, error) {
	base, err := NewCommunication(KindSystemNotification, originator, message, now)
	if err != nil {
		return nil, err
	}
	return &SystemNotification{Communication: *base, NotificationType: notificationType}, nil
}
