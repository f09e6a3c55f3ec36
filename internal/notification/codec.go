// Package notification round-trips typed system notification payloads
// through the opaque payload column.
package notification

import (
	"reflect"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/spec-kit/request-service/internal/domain"
)

// JSONCodec is the generic JSON collaborator used by PayloadCodec.
type JSONCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type goJSONCodec struct{}

func (goJSONCodec) Marshal(v any) ([]byte, error)      { return gojson.Marshal(v) }
func (goJSONCodec) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// DefaultJSON is backed by goccy/go-json.
var DefaultJSON JSONCodec = goJSONCodec{}

// PayloadCodec maps notification types to payload constructors. The registry
// is fixed at construction and read-only afterwards.
type PayloadCodec struct {
	json     JSONCodec
	registry map[domain.NotificationType]func() any
}

// DefaultRegistry lists the notification types that carry a structured payload.
func DefaultRegistry() map[domain.NotificationType]func() any {
	return map[domain.NotificationType]func() any{
		domain.NotificationArchiveExportCompleted: func() any { return &ArchiveExportNotification{} },
		domain.NotificationRequestStatusChange:    func() any { return &RequestStatusChangeNotification{} },
	}
}

// NewPayloadCodec builds a codec over registry. A nil json uses DefaultJSON and a
// nil registry uses DefaultRegistry.
func NewPayloadCodec(json JSONCodec, registry map[domain.NotificationType]func() any) *PayloadCodec {
	if json == nil {
		json = DefaultJSON
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	copied := make(map[domain.NotificationType]func() any, len(registry))
	for k, v := range registry {
		copied[k] = v
	}
	return &PayloadCodec{json: json, registry: copied}
}

// HasPayload reports whether notificationType declares a payload schema.
func (c *PayloadCodec) HasPayload(notificationType domain.NotificationType) bool {
	_, ok := c.registry[notificationType]
	return ok
}

// ToJSON serializes payload. A nil payload, typed nil pointers included, is
// stored as nil, never as "{}" or "null".
func (c *PayloadCodec) ToJSON(payload any) (*string, error) {
	if isNil(payload) {
		return nil, nil
	}
	data, err := c.json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	out := string(data)
	return &out, nil
}

// FromJSON decodes raw into the payload registered for notificationType. It
// returns nil without error when raw is empty or null, or the type has no payload.
func (c *PayloadCodec) FromJSON(notificationType domain.NotificationType, raw string) (any, error) {
	if trimmed := strings.TrimSpace(raw); trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	newPayload, ok := c.registry[notificationType]
	if !ok {
		return nil, nil
	}
	payload := newPayload()
	if err := c.json.Unmarshal([]byte(raw), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func isNil(payload any) bool {
	if payload == nil {
		return true
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Attach serializes payload onto n.
func (c *PayloadCodec) Attach(n *domain.SystemNotification, payload any) error {
	raw, err := c.ToJSON(payload)
	if err != nil {
		return err
	}
	n.PayloadJSON = raw
	return nil
}

// Payload decodes the payload stored on n.
func (c *PayloadCodec) Payload(n *domain.SystemNotification) (any, error) {
	if n == nil || n.PayloadJSON == nil {
		return nil, nil
	}
	return c.FromJSON(n.NotificationType, *n.PayloadJSON)
}

// PayloadAs decodes the payload of n as *T. It returns nil when n carries no
// payload of that type.
func PayloadAs[T any](c *PayloadCodec, n *domain.SystemNotification) (*T, error) {
	payload, err := c.Payload(n)
	if err != nil || payload == nil {
		return nil, err
	}
	typed, ok := payload.(*T)
	if !ok {
		return nil, nil
	}
	return typed, nil
}
