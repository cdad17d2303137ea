package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
)

// EventKind discriminates feed events.
type EventKind string

const (
	KindInsert EventKind = "insert"
	KindUpdate EventKind = "update"
	KindDelete EventKind = "delete"
)

// Event is one appointment mutation delivered by the feed.
type Event struct {
	Kind          EventKind `json:"event_type"`
	AppointmentID int64     `json:"appointment_id"`
	WorkerID      int64     `json:"worker_id"`
}

// Logger is the logging surface the feed needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// subscriber is one registered consumer with its optional worker filter.
type subscriber struct {
	ch       chan Event
	workerID *int64
}

// Feed wraps a pq.Listener on the appointment notification channel and fans
// mutations out as typed events. A single dispatcher goroutine drains the
// listener; every subscriber gets its own copy of every event its filter
// admits, so concurrent calendar streams never steal notifications from each
// other.
type Feed struct {
	listener *pq.Listener
	notify   <-chan *pq.Notification
	ping     func() error
	channel  string
	log      Logger

	mu     sync.Mutex
	subs   map[int64]*subscriber
	nextID int64
	closed bool
}

// New opens a feed over the given DSN and notification channel.
// pq's internal retry backoff is bounded by the reconnect intervals.
func New(dsn, channel string, log Logger) (*Feed, error) {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("changefeed: listener event %d: %v", ev, err)
		}
	})

	if err := listener.Listen(channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("changefeed: listen on %q: %w", channel, err)
	}

	f := &Feed{
		listener: listener,
		notify:   listener.Notify,
		ping:     listener.Ping,
		channel:  channel,
		log:      log,
		subs:     make(map[int64]*subscriber),
	}
	go f.dispatch()
	return f, nil
}

// Subscribe registers a consumer and returns its event channel. The channel
// closes when ctx is cancelled or the listener dies. When workerID is
// non-nil, events for other workers are filtered out for this subscriber
// only; other subscribers still receive them.
func (f *Feed) Subscribe(ctx context.Context, workerID *int64) <-chan Event {
	sub := &subscriber{ch: make(chan Event, 16), workerID: workerID}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	f.nextID++
	id := f.nextID
	f.subs[id] = sub
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.unsubscribe(id)
	}()

	return sub.ch
}

// Close shuts the underlying listener down; the dispatcher then closes every
// subscriber channel.
func (f *Feed) Close() error {
	return f.listener.Close()
}

// dispatch drains the listener exactly once and broadcasts to the registry.
func (f *Feed) dispatch() {
	defer f.closeAll()

	for {
		select {
		case notification, ok := <-f.notify:
			if !ok {
				f.log.Warn("changefeed: notification channel closed")
				return
			}
			// pq delivers nil after reconnecting; nothing to decode.
			if notification == nil {
				continue
			}

			var event Event
			if err := json.Unmarshal([]byte(notification.Extra), &event); err != nil {
				f.log.Error("changefeed: malformed payload %q: %v", notification.Extra, err)
				continue
			}
			f.broadcast(event)

		case <-time.After(90 * time.Second):
			// Liveness probe; forces pq to re-establish a dead connection.
			if err := f.ping(); err != nil {
				f.log.Error("changefeed: ping failed: %v", err)
				return
			}
		}
	}
}

// broadcast delivers one event to every subscriber whose filter admits it.
// A subscriber with a full buffer loses the notification, never the feed:
// watchers reconcile from storage, so a dropped event only delays a patch.
func (f *Feed) broadcast(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.workerID != nil && event.WorkerID != *sub.workerID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (f *Feed) unsubscribe(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subs[id]
	if !ok {
		return
	}
	delete(f.subs, id)
	close(sub.ch)
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub.ch)
	}
}
