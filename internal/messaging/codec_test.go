package messaging_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/messaging"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "notifier.EVENT", messaging.Subject(domain.KindEvent))
	assert.Equal(t, "notifier.LOCATION", messaging.Subject(domain.KindOrigin))
	assert.Equal(t, "notifier.MAGNITUDE", messaging.Subject(domain.KindMagnitude))
	assert.Equal(t, "notifier.FOCMECH", messaging.Subject(domain.KindFocalMechanism))
	assert.Equal(t, "notifier.OTHER", messaging.Subject(domain.Kind("Pick")))
}

func TestCodec_Decode(t *testing.T) {
	codec := messaging.NewCodec(adapter.NewJSON())

	tests := []struct {
		name      string
		data      string
		expectErr error
		validate  func(t *testing.T, n domain.Notification)
	}{
		{
			name: "event add",
			data: `{"operation":"add","parent_id":"EventParameters","kind":"Event",
				"object":{"public_id":"E1","preferred_origin_id":"O1","creation_time":"2024-01-01T00:00:00Z"}}`,
			validate: func(t *testing.T, n domain.Notification) {
				assert.Equal(t, domain.OperationAdd, n.Operation)
				assert.Equal(t, "EventParameters", n.ParentID)
				evt, ok := n.Record.(*domain.Event)
				require.True(t, ok)
				assert.Equal(t, "E1", evt.ID)
				assert.Equal(t, "O1", evt.PreferredOriginID)
			},
		},
		{
			name: "origin update with depth",
			data: `{"operation":"update","parent_id":"EventParameters","kind":"Origin",
				"object":{"public_id":"O1","time":"2024-01-01T00:00:00Z","depth":12.5}}`,
			validate: func(t *testing.T, n domain.Notification) {
				org, ok := n.Record.(*domain.Origin)
				require.True(t, ok)
				require.NotNil(t, org.Depth)
				assert.Equal(t, 12.5, *org.Depth)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), org.Time)
			},
		},
		{
			name: "untracked kind is returned without record",
			data: `{"operation":"add","parent_id":"EventParameters","kind":"Pick","object":{"public_id":"P1"}}`,
			validate: func(t *testing.T, n domain.Notification) {
				assert.Equal(t, domain.Kind("Pick"), n.Kind)
				assert.Nil(t, n.Record)
			},
		},
		{
			name:      "invalid json",
			data:      `{"operation":`,
			expectErr: domain.ErrMalformedNotification,
		},
		{
			name:      "unsupported operation",
			data:      `{"operation":"remove","kind":"Event","object":{"public_id":"E1"}}`,
			expectErr: domain.ErrInvalidOperation,
		},
		{
			name:      "missing public id",
			data:      `{"operation":"add","kind":"Magnitude","object":{"value":5.1}}`,
			expectErr: domain.ErrMalformedNotification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := codec.Decode([]byte(tt.data))
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, n)
		})
	}
}

func TestCodec_EncodeDecode(t *testing.T) {
	codec := messaging.NewCodec(adapter.NewJSON())

	data, err := codec.Encode(domain.OperationUpdate, "EventParameters", &domain.Magnitude{ID: "M1", Value: 6.2, Type: "Mw"})
	require.NoError(t, err)

	n, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, domain.OperationUpdate, n.Operation)
	assert.Equal(t, domain.KindMagnitude, n.Kind)
	assert.Equal(t, &domain.Magnitude{ID: "M1", Value: 6.2, Type: "Mw"}, n.Record)

	_, err = codec.Encode(domain.OperationAdd, "", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}
