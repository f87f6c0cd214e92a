package entities

import (
	"encoding/json"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authentities "github.com/Conte777/fanscraper/internal/domain/auth/entities"
	suberrors "github.com/Conte777/fanscraper/internal/domain/subscription/errors"
)

func fullPayload() map[string]any {
	return map[string]any{
		"subscribedBy":            true,
		"subscribedByData":        map[string]any{"price": 9.99, "status": "active"},
		"subscribedByExpire":      true,
		"subscribedByExpireDate":  "2026-11-01T10:00:00+00:00",
		"subscribedByAutoprolong": false,
		"subscribedIsExpiredNow":  false,
		"currentSubscribePrice":   4.99,
		"subscribedOn":            false,
		"subscribedOnData":        nil,
		"subscribedOnExpiredNow":  nil,
		"subscribedOnDuration":    "1 month",
		"subscribePrice":          9.99,
	}
}

func encode(t *testing.T, payload map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return data
}

func TestNewRelationship(t *testing.T) {
	user := &authentities.User{ID: 7, Username: "creator"}
	subscriber := authentities.NewAuthSession(1, "fan", false, nil)

	rel, err := NewRelationship(encode(t, fullPayload()), user, subscriber)
	require.NoError(t, err)

	require.True(t, rel.IsActive())
	require.Equal(t, rel.SubscribedBy(), rel.IsActive())
	require.True(t, rel.SubscribedByExpire())
	require.Equal(t, time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC), rel.SubscribedByExpireDate().UTC())
	require.False(t, rel.SubscribedByAutoprolong())
	require.False(t, rel.SubscribedIsExpiredNow())
	require.Equal(t, 4.99, rel.CurrentSubscribePrice())
	require.False(t, rel.SubscribedOn())
	require.False(t, rel.SubscribedOnExpiredNow())
	require.Equal(t, "1 month", rel.SubscribedOnDuration())
	require.Equal(t, 9.99, rel.SubscribePrice())
	require.JSONEq(t, `{"price": 9.99, "status": "active"}`, string(rel.SubscribedByData()))

	require.Same(t, user, rel.User())
	require.Same(t, subscriber, rel.Subscriber())
	runtime.KeepAlive(user)
	runtime.KeepAlive(subscriber)
}

func TestNewRelationship_InactiveSubscription(t *testing.T) {
	payload := fullPayload()
	payload["subscribedBy"] = false

	rel, err := NewRelationship(encode(t, payload), nil, nil)
	require.NoError(t, err)
	require.False(t, rel.IsActive())
	require.Nil(t, rel.User())
	require.Nil(t, rel.Subscriber())
}

func TestNewRelationship_MissingSubscribePrice(t *testing.T) {
	payload := fullPayload()
	delete(payload, "subscribePrice")

	_, err := NewRelationship(encode(t, payload), nil, nil)

	var missing *suberrors.MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "subscribePrice", missing.Field)
	require.ErrorIs(t, err, suberrors.ErrMissingField)
}

func TestNewRelationship_ReportsFirstMissingKey(t *testing.T) {
	payload := fullPayload()
	delete(payload, "subscribePrice")
	delete(payload, "subscribedByExpire")

	_, err := NewRelationship(encode(t, payload), nil, nil)

	var missing *suberrors.MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "subscribedByExpire", missing.Field)
}

func TestNewRelationship_OptionalDataBlobs(t *testing.T) {
	payload := fullPayload()
	delete(payload, "subscribedByData")
	delete(payload, "subscribedOnData")

	rel, err := NewRelationship(encode(t, payload), nil, nil)
	require.NoError(t, err)
	require.Nil(t, rel.SubscribedByData())
}

func TestNewRelationship_NullExpireDate(t *testing.T) {
	payload := fullPayload()
	payload["subscribedByExpireDate"] = nil

	rel, err := NewRelationship(encode(t, payload), nil, nil)
	require.NoError(t, err)
	require.True(t, rel.SubscribedByExpireDate().IsZero())
}

func TestNewRelationship_ExpireDateLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "offset", raw: "2026-11-01T10:00:00+02:00", want: time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)},
		{name: "zulu with fraction", raw: "2026-11-01T10:00:00.250Z", want: time.Date(2026, 11, 1, 10, 0, 0, 250000000, time.UTC)},
		{name: "no offset", raw: "2026-11-01T10:00:00", want: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)},
		{name: "no offset with fraction", raw: "2026-11-01T10:00:00.123456", want: time.Date(2026, 11, 1, 10, 0, 0, 123456000, time.UTC)},
		{name: "space separator", raw: "2026-11-01 10:00:00", want: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)},
		{name: "date only", raw: "2026-11-01", want: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := fullPayload()
			payload["subscribedByExpireDate"] = tt.raw

			rel, err := NewRelationship(encode(t, payload), nil, nil)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(rel.SubscribedByExpireDate()), "got %s", rel.SubscribedByExpireDate())
		})
	}

	payload := fullPayload()
	payload["subscribedByExpireDate"] = "next tuesday"
	_, err := NewRelationship(encode(t, payload), nil, nil)
	require.ErrorIs(t, err, suberrors.ErrInvalidPayload)
}

func TestNewRelationship_InvalidPayload(t *testing.T) {
	_, err := NewRelationship([]byte(`[1, 2]`), nil, nil)
	require.ErrorIs(t, err, suberrors.ErrInvalidPayload)

	payload := fullPayload()
	payload["subscribePrice"] = "free"
	_, err = NewRelationship(encode(t, payload), nil, nil)
	require.ErrorIs(t, err, suberrors.ErrInvalidPayload)
}

func TestRelationship_DataIsCopied(t *testing.T) {
	rel, err := NewRelationship(encode(t, fullPayload()), nil, nil)
	require.NoError(t, err)

	data := rel.SubscribedByData()
	data[0] = 'x'
	require.JSONEq(t, `{"price": 9.99, "status": "active"}`, string(rel.SubscribedByData()))
}
