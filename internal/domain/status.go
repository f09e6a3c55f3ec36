package domain

import "fmt"

// CommunicationStatus is shared by the aggregate status of a communication
// and the per-recipient status of its targets.
type CommunicationStatus string

const (
	StatusNew       CommunicationStatus = "NEW"
	StatusAccepted  CommunicationStatus = "ACCEPTED"
	StatusReplied   CommunicationStatus = "REPLIED"
	StatusCompleted CommunicationStatus = "COMPLETED"
	StatusRejected  CommunicationStatus = "REJECTED"
	StatusCancelled CommunicationStatus = "CANCELLED"
)

// IsValid checks if the status is known.
func (s CommunicationStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusReplied, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is expected.
func (s CommunicationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

func (s CommunicationStatus) String() string {
	return string(s)
}

// ParseCommunicationStatus parses a string into a CommunicationStatus.
func ParseCommunicationStatus(s string) (CommunicationStatus, error) {
	status := CommunicationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid communication status: %s", s)
	}
	return status, nil
}
