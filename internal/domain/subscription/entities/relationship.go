package entities

import (
	"encoding/json"
	"fmt"
	"time"
	"weak"

	authentities "github.com/Conte777/fanscraper/internal/domain/auth/entities"
	suberrors "github.com/Conte777/fanscraper/internal/domain/subscription/errors"
)

type field struct {
	key      string
	optional bool
	target   func(r *Relationship) any
}

// fields lists payload keys in declaration order; the first missing required key is reported
var fields = []field{
	{key: "subscribedBy", target: func(r *Relationship) any { return &r.subscribedBy }},
	{key: "subscribedByData", optional: true, target: func(r *Relationship) any { return &r.subscribedByData }},
	{key: "subscribedByExpire", target: func(r *Relationship) any { return &r.subscribedByExpire }},
	{key: "subscribedByExpireDate", target: func(r *Relationship) any { return (*isoTime)(&r.subscribedByExpireDate) }},
	{key: "subscribedByAutoprolong", target: func(r *Relationship) any { return &r.subscribedByAutoprolong }},
	{key: "subscribedIsExpiredNow", target: func(r *Relationship) any { return &r.subscribedIsExpiredNow }},
	{key: "currentSubscribePrice", target: func(r *Relationship) any { return &r.currentSubscribePrice }},
	{key: "subscribedOn", target: func(r *Relationship) any { return &r.subscribedOn }},
	{key: "subscribedOnData", optional: true, target: func(r *Relationship) any { return &r.subscribedOnData }},
	{key: "subscribedOnExpiredNow", target: func(r *Relationship) any { return &r.subscribedOnExpiredNow }},
	{key: "subscribedOnDuration", target: func(r *Relationship) any { return &r.subscribedOnDuration }},
	{key: "subscribePrice", target: func(r *Relationship) any { return &r.subscribePrice }},
}

// isoLayouts are tried in order; timestamps without an offset are read as UTC
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// isoTime decodes ISO 8601 timestamps with or without a UTC offset
type isoTime time.Time

func (t *isoTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = isoTime{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = isoTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

// Relationship is an immutable snapshot of a subscription link between a
// target account and a subscriber session. Both accounts are referenced weakly.
type Relationship struct {
	user       weak.Pointer[authentities.User]
	subscriber weak.Pointer[authentities.AuthSession]

	subscribedBy            bool
	subscribedByData        json.RawMessage
	subscribedByExpire      bool
	subscribedByExpireDate  time.Time
	subscribedByAutoprolong bool
	subscribedIsExpiredNow  bool
	currentSubscribePrice   float64
	subscribedOn            bool
	subscribedOnData        json.RawMessage
	subscribedOnExpiredNow  bool
	subscribedOnDuration    string
	subscribePrice          float64
}

// NewRelationship builds a snapshot from a raw user payload.
// Null values count as present and decode to the zero value.
func NewRelationship(payload []byte, user *authentities.User, subscriber *authentities.AuthSession) (*Relationship, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", suberrors.ErrInvalidPayload, err)
	}

	r := &Relationship{}
	if user != nil {
		r.user = weak.Make(user)
	}
	if subscriber != nil {
		r.subscriber = weak.Make(subscriber)
	}

	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			if f.optional {
				continue
			}
			return nil, &suberrors.MissingFieldError{Field: f.key}
		}

		if err := json.Unmarshal(value, f.target(r)); err != nil {
			return nil, fmt.Errorf("%w: field %s: %w", suberrors.ErrInvalidPayload, f.key, err)
		}
	}

	return r, nil
}

// User returns the target account, or nil once it has been collected
func (r *Relationship) User() *authentities.User {
	return r.user.Value()
}

// Subscriber returns the subscriber session, or nil once it has been collected
func (r *Relationship) Subscriber() *authentities.AuthSession {
	return r.subscriber.Value()
}

// IsActive reports whether the subscriber is currently subscribed to the target
func (r *Relationship) IsActive() bool {
	return r.subscribedBy
}

func (r *Relationship) SubscribedBy() bool                { return r.subscribedBy }
func (r *Relationship) SubscribedByExpire() bool          { return r.subscribedByExpire }
func (r *Relationship) SubscribedByExpireDate() time.Time { return r.subscribedByExpireDate }
func (r *Relationship) SubscribedByAutoprolong() bool     { return r.subscribedByAutoprolong }
func (r *Relationship) SubscribedIsExpiredNow() bool      { return r.subscribedIsExpiredNow }
func (r *Relationship) CurrentSubscribePrice() float64    { return r.currentSubscribePrice }
func (r *Relationship) SubscribedOn() bool                { return r.subscribedOn }
func (r *Relationship) SubscribedOnExpiredNow() bool      { return r.subscribedOnExpiredNow }
func (r *Relationship) SubscribedOnDuration() string      { return r.subscribedOnDuration }
func (r *Relationship) SubscribePrice() float64           { return r.subscribePrice }

// SubscribedByData returns a copy of the raw subscription details, nil when absent
func (r *Relationship) SubscribedByData() json.RawMessage {
	return cloneRaw(r.subscribedByData)
}

// SubscribedOnData returns a copy of the raw reverse subscription details, nil when absent
func (r *Relationship) SubscribedOnData() json.RawMessage {
	return cloneRaw(r.subscribedOnData)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
