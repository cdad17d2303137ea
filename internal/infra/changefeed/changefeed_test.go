package changefeed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/pkg/ptr"
)

type quietLogger struct{}

func (quietLogger) Info(string, ...interface{})  {}
func (quietLogger) Warn(string, ...interface{})  {}
func (quietLogger) Error(string, ...interface{}) {}

// newTestFeed wires a feed to an in-memory notification channel so the
// dispatcher runs without a database.
func newTestFeed(notify chan *pq.Notification) *Feed {
	f := &Feed{
		notify:  notify,
		ping:    func() error { return nil },
		channel: "appointment_events",
		log:     quietLogger{},
		subs:    make(map[int64]*subscriber),
	}
	go f.dispatch()
	return f
}

func notification(appointmentID, workerID int64) *pq.Notification {
	return &pq.Notification{
		Channel: "appointment_events",
		Extra: fmt.Sprintf(`{"event_type":"update","appointment_id":%d,"worker_id":%d}`,
			appointmentID, workerID),
	}
}

func collect(events <-chan Event) []Event {
	out := make([]Event, 0)
	for event := range events {
		out = append(out, event)
	}
	return out
}

func TestSubscribeDeliversToEverySubscriber(t *testing.T) {
	notify := make(chan *pq.Notification, 16)
	feed := newTestFeed(notify)

	ctx := context.Background()
	first := feed.Subscribe(ctx, ptr.Ptr(int64(3)))
	second := feed.Subscribe(ctx, ptr.Ptr(int64(3)))
	other := feed.Subscribe(ctx, ptr.Ptr(int64(9)))
	unfiltered := feed.Subscribe(ctx, nil)

	for i := int64(1); i <= 10; i++ {
		notify <- notification(i, 3)
	}
	close(notify)

	// Two streams over the same worker both see every event; the filter of
	// one subscriber never swallows events for the rest.
	assert.Len(t, collect(first), 10)
	assert.Len(t, collect(second), 10)
	assert.Empty(t, collect(other))
	assert.Len(t, collect(unfiltered), 10)
}

func TestSubscribeFiltersPerSubscriber(t *testing.T) {
	notify := make(chan *pq.Notification, 16)
	feed := newTestFeed(notify)

	ctx := context.Background()
	mine := feed.Subscribe(ctx, ptr.Ptr(int64(3)))
	all := feed.Subscribe(ctx, nil)

	notify <- notification(1, 3)
	notify <- notification(2, 4)
	notify <- notification(3, 3)
	close(notify)

	got := collect(mine)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].AppointmentID)
	assert.Equal(t, int64(3), got[1].AppointmentID)

	assert.Len(t, collect(all), 3)
}

func TestSubscribeSkipsMalformedPayloads(t *testing.T) {
	notify := make(chan *pq.Notification, 16)
	feed := newTestFeed(notify)

	events := feed.Subscribe(context.Background(), nil)

	notify <- &pq.Notification{Extra: "not json"}
	notify <- nil // pq emits nil after a reconnect
	notify <- notification(7, 3)
	close(notify)

	got := collect(events)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].AppointmentID)
}

func TestSubscribeUnregistersOnCancel(t *testing.T) {
	notify := make(chan *pq.Notification, 16)
	feed := newTestFeed(notify)

	ctx, cancel := context.WithCancel(context.Background())
	events := feed.Subscribe(ctx, nil)
	cancel()

	// The subscriber's channel closes once the cancellation is observed.
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-events:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	// A subscription racing the feed shutdown still ends with a closed
	// channel, either from closeAll or from registering after it.
	close(notify)
	_, open := <-feed.Subscribe(context.Background(), nil)
	assert.False(t, open)
}
