package events

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return New(logger)
}

func TestEmitWithNoSubscribers(t *testing.T) {
	bus := newTestBus()
	assert.NoError(t, bus.Emit(TopicArrivalsUpdated, []string{"a"}))
}

func TestSubscribeReceivesPayload(t *testing.T) {
	bus := newTestBus()

	var got []string
	unsubscribe := bus.Subscribe(TopicInHouseUpdated, func(evt Event) {
		require.NoError(t, evt.Decode(&got))
	})
	defer unsubscribe()

	require.NoError(t, bus.Emit(TopicInHouseUpdated, []string{"guest-1", "guest-2"}))
	assert.Equal(t, []string{"guest-1", "guest-2"}, got)
}

func TestSubscribersFireInSubscriptionOrder(t *testing.T) {
	bus := newTestBus()

	var order []string
	defer bus.Subscribe(TopicCheckoutUpdated, func(Event) { order = append(order, "first") })()
	defer bus.Subscribe(TopicCheckoutUpdated, func(Event) { order = append(order, "second") })()
	defer bus.Subscribe(TopicCheckoutUpdated, func(Event) { order = append(order, "third") })()

	require.NoError(t, bus.Emit(TopicCheckoutUpdated, nil))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestTopicsAreIsolated(t *testing.T) {
	bus := newTestBus()

	calls := 0
	defer bus.Subscribe(TopicArrivalsUpdated, func(Event) { calls++ })()

	require.NoError(t, bus.Emit(TopicPendingRequestsUpdated, nil))
	assert.Equal(t, 0, calls)

	require.NoError(t, bus.Emit(TopicArrivalsUpdated, nil))
	assert.Equal(t, 1, calls)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := newTestBus()

	calls := 0
	unsubscribe := bus.Subscribe(TopicArrivalsUpdated, func(Event) { calls++ })

	require.NoError(t, bus.Emit(TopicArrivalsUpdated, nil))
	unsubscribe()
	require.NoError(t, bus.Emit(TopicArrivalsUpdated, nil))

	assert.Equal(t, 1, calls)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := newTestBus()

	calls := 0
	unsubscribe := bus.Subscribe(TopicArrivalsUpdated, func(Event) { calls++ })
	other := bus.Subscribe(TopicArrivalsUpdated, func(Event) { calls++ })
	defer other()

	unsubscribe()
	unsubscribe()

	require.NoError(t, bus.Emit(TopicArrivalsUpdated, nil))
	assert.Equal(t, 1, calls)
}

func TestSubscribeAllReceivesEveryTopic(t *testing.T) {
	bus := newTestBus()

	var topics []Topic
	defer bus.SubscribeAll(func(evt Event) { topics = append(topics, evt.Topic) })()

	require.NoError(t, bus.Emit(TopicArrivalsUpdated, nil))
	require.NoError(t, bus.Emit(TopicInHouseUpdated, nil))
	require.NoError(t, bus.Emit(TopicPendingRequestsUpdated, nil))

	assert.Equal(t, []Topic{TopicArrivalsUpdated, TopicInHouseUpdated, TopicPendingRequestsUpdated}, topics)
}

func TestPayloadIsACopy(t *testing.T) {
	bus := newTestBus()

	type guest struct {
		Name string `json:"name"`
	}

	var received []guest
	defer bus.Subscribe(TopicInHouseUpdated, func(evt Event) {
		require.NoError(t, evt.Decode(&received))
	})()

	published := []guest{{Name: "Alice"}}
	require.NoError(t, bus.Emit(TopicInHouseUpdated, published))

	// Mutating the publisher's slice must not reach the subscriber's copy.
	published[0].Name = "Mallory"
	assert.Equal(t, "Alice", received[0].Name)
}

func TestEmitUnserializablePayload(t *testing.T) {
	bus := newTestBus()

	calls := 0
	defer bus.Subscribe(TopicArrivalsUpdated, func(Event) { calls++ })()

	err := bus.Emit(TopicArrivalsUpdated, func() {})
	assert.Error(t, err)
	assert.Equal(t, 0, calls)
}
