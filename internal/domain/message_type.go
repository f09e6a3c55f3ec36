package domain

// MessageType selects the semantics of a MessageOrRequest.
type MessageType string

const (
	MessageTypeSimple       MessageType = "SIMPLE_MESSAGE"
	MessageTypeGlobal       MessageType = "GLOBAL_MESSAGE"
	MessageTypeRecordReview MessageType = "REQUEST_RECORD_REVIEW"
	MessageTypeWitness      MessageType = "REQUEST_RECORD_WITNESS"
	MessageTypeShareRecord  MessageType = "REQUEST_SHARE_RECORD"
	MessageTypeCreateLab    MessageType = "REQUEST_CREATE_LAB_GROUP"
	MessageTypeExternal     MessageType = "REQUEST_EXTERNAL_SHARE"
	MessageTypeJoinLab      MessageType = "REQUEST_JOIN_LAB_GROUP"
	MessageTypeJoinProject  MessageType = "REQUEST_JOIN_PROJECT_GROUP"
	MessageTypeJoinCollab   MessageType = "REQUEST_JOIN_EXISTING_COLLAB_GROUP"
	MessageTypeCreateCollab MessageType = "REQUEST_CREATE_COLLAB_GROUP"
)

type messageTypeTraits struct {
	stateful bool
	group    bool
	global   bool
}

var messageTypes = map[MessageType]messageTypeTraits{
	MessageTypeSimple:       {},
	MessageTypeGlobal:       {global: true},
	MessageTypeRecordReview: {stateful: true},
	MessageTypeWitness:      {stateful: true},
	MessageTypeShareRecord:  {stateful: true},
	MessageTypeCreateLab:    {stateful: true},
	MessageTypeExternal:     {stateful: true},
	MessageTypeJoinLab:      {stateful: true, group: true},
	MessageTypeJoinProject:  {stateful: true, group: true},
	MessageTypeJoinCollab:   {stateful: true, group: true},
	MessageTypeCreateCollab: {stateful: true, group: true},
}

// AllMessageTypes returns every recognised message type.
func AllMessageTypes() []MessageType {
	return []MessageType{
		MessageTypeSimple,
		MessageTypeGlobal,
		MessageTypeRecordReview,
		MessageTypeWitness,
		MessageTypeShareRecord,
		MessageTypeCreateLab,
		MessageTypeExternal,
		MessageTypeJoinLab,
		MessageTypeJoinProject,
		MessageTypeJoinCollab,
		MessageTypeCreateCollab,
	}
}

// IsValid checks if the message type is recognised.
func (t MessageType) IsValid() bool {
	_, ok := messageTypes[t]
	return ok
}

// IsSimpleMessage reports a notice that needs no recipient action.
func (t MessageType) IsSimpleMessage() bool {
	traits, ok := messageTypes[t]
	return ok && !traits.stateful
}

// IsStatefulRequest reports a request whose recipients must act on it.
func (t MessageType) IsStatefulRequest() bool {
	return messageTypes[t].stateful
}

// HasGroupContext reports a request addressed through group membership.
func (t MessageType) HasGroupContext() bool {
	return messageTypes[t].group
}

// IsBroadcast reports a message addressed to every user.
func (t MessageType) IsBroadcast() bool {
	return messageTypes[t].global
}

func (t MessageType) String() string {
	return string(t)
}
