package domain

import "time"

// Request is implemented by every variant that may require recipient action.
type Request interface {
	Base() *Communication
	Details() *MessageOrRequest
	HasGroupContext() bool
}

// MessageOrRequest is a communication whose semantics depend on its MessageType.
type MessageOrRequest struct {
	Communication
	MessageType             MessageType
	RequestedCompletionDate *time.Time
	RecordID                *string
}

// NewMessageOrRequest builds a non-group message or request.
func NewMessageOrRequest(originator string, messageType MessageType, message string, now time.Time) (*MessageOrRequest, error) {
	base, err := NewCommunication(KindMessageOrRequest, originator, message, now)
	if err != nil {
		return nil, err
	}
	return &MessageOrRequest{Communication: *base, MessageType: messageType}, nil
}

// Details returns the request fields.
func (m *MessageOrRequest) Details() *MessageOrRequest {
	return m
}

// IsSimpleMessage reports a notice that needs no recipient action.
func (m *MessageOrRequest) IsSimpleMessage() bool {
	return m.MessageType.IsSimpleMessage()
}

// IsStatefulRequest reports a request whose recipients must act on it.
func (m *MessageOrRequest) IsStatefulRequest() bool {
	return m.MessageType.IsStatefulRequest()
}

// HasGroupContext is derived from the message type, not from the Go type.
func (m *MessageOrRequest) HasGroupContext() bool {
	return m.MessageType.HasGroupContext()
}

// Terminated reports whether the aggregate status reached a terminal value.
func (m *MessageOrRequest) Terminated() bool {
	return m.Status.IsTerminal()
}

// GroupMessageOrRequest is a request bound to a group whose members are the recipients.
type GroupMessageOrRequest struct {
	MessageOrRequest
	GroupID string
}

// NewGroupMessageOrRequest builds a group-bound request.
func NewGroupMessageOrRequest(originator string, messageType MessageType, groupID, message string, now time.Time) (*GroupMessageOrRequest, error) {
	base, err := NewCommunication(KindGroupMessageOrRequest, originator, message, now)
	if err != nil {
		return nil, err
	}
	return &GroupMessageOrRequest{
		MessageOrRequest: MessageOrRequest{Communication: *base, MessageType: messageType},
		GroupID:          groupID,
	}, nil
}
