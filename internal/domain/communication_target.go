package domain

import "time"

// TargetKey identifies a target by its (communication, recipient) pair.
type TargetKey struct {
	CommunicationID string
	Recipient       string
}

// CommunicationTarget tracks one recipient's disposition toward a communication.
type CommunicationTarget struct {
	ID               string
	CommunicationID  string
	Recipient        string
	Status           CommunicationStatus
	LastStatusUpdate time.Time
	StatusMessage    string
}

// SetStatus records a new status. It does not touch the owning communication;
// aggregate status is recomputed by a completion policy.
func (t *CommunicationTarget) SetStatus(status CommunicationStatus, now time.Time) {
	t.Status = status
	t.LastStatusUpdate = now
}

// Key returns the identity of the target.
func (t *CommunicationTarget) Key() TargetKey {
	return TargetKey{CommunicationID: t.CommunicationID, Recipient: t.Recipient}
}

// Equal compares identity only; status and timestamps are ignored.
func (t *CommunicationTarget) Equal(other *CommunicationTarget) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Key() == other.Key()
}
