package bridge_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/bridge"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
	mockspkg "github.com/quakewatch/quakewatch/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testBridgeMocks contains all the mocks needed for testing the bridge
type testBridgeMocks struct {
	ctrl       *gomock.Controller
	subscriber *mockspkg.MockSubscriber
	received   []domain.Notification
	sinkErr    error
}

func setupTestBridge(t *testing.T) (*testBridgeMocks, bridge.Bridge) {
	ctrl := gomock.NewController(t)

	tm := &testBridgeMocks{
		ctrl:       ctrl,
		subscriber: mockspkg.NewMockSubscriber(ctrl),
	}
	sink := bridge.SinkFunc(func(ctx context.Context, n domain.Notification) error {
		tm.received = append(tm.received, n)
		return tm.sinkErr
	})

	return tm, bridge.NewBridge(tm.subscriber, messaging.NewCodec(adapter.NewJSON()), sink)
}

func tearDownTestBridge(mocks *testBridgeMocks) {
	mocks.ctrl.Finish()
}

// deliver makes the subscriber hand the messages to the bridge and collects the handler results
func (m *testBridgeMocks) deliver(messages ...string) *[]error {
	results := &[]error{}
	m.subscriber.
		EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, handler messaging.MessageHandler) error {
			for _, msg := range messages {
				*results = append(*results, handler(ctx, "notifier.EVENT", []byte(msg)))
			}
			return context.Canceled
		})
	return results
}

func TestBridge_ForwardsDecodedNotifications(t *testing.T) {
	mocks, b := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	results := mocks.deliver(
		`{"operation":"add","parent_id":"EventParameters","kind":"Event","object":{"public_id":"E1"}}`,
		`{"operation":"add","parent_id":"EventParameters","kind":"Pick","object":{"public_id":"P1"}}`,
	)

	err := b.Run(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []error{nil, nil}, *results)
	require.Len(t, mocks.received, 2)
	assert.Equal(t, "E1", mocks.received[0].Record.PublicID())
	assert.Nil(t, mocks.received[1].Record)
	assert.Equal(t, domain.Kind("Pick"), mocks.received[1].Kind)
}

func TestBridge_MalformedMessagesAreDropped(t *testing.T) {
	mocks, b := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	results := mocks.deliver(`not json`)

	_ = b.Run(context.Background())

	require.Len(t, *results, 1)
	assert.ErrorIs(t, (*results)[0], domain.ErrMalformedNotification)
	assert.Empty(t, mocks.received)
}

func TestBridge_SinkErrorAsksForRedelivery(t *testing.T) {
	mocks, b := setupTestBridge(t)
	defer tearDownTestBridge(mocks)
	mocks.sinkErr = assert.AnError

	results := mocks.deliver(`{"operation":"update","kind":"Magnitude","object":{"public_id":"M1"}}`)

	_ = b.Run(context.Background())

	require.Len(t, *results, 1)
	assert.ErrorIs(t, (*results)[0], assert.AnError)
	assert.NotErrorIs(t, (*results)[0], domain.ErrMalformedNotification)
}

func TestBridge_Close(t *testing.T) {
	mocks, b := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	mocks.subscriber.EXPECT().Close()

	b.Close()
}
