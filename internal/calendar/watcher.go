package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/infra/changefeed"
	appointmentRepo "github.com/citaplan/scheduling-service/internal/infra/storage/appointment"
)

// Watcher maintains a live calendar snapshot for one worker (or a whole
// company) by patching single appointments as change-feed events arrive,
// instead of refetching the range. One feed event touches exactly one
// appointment's blocks; everything else in the snapshot stays as is.
type Watcher struct {
	materializer *Materializer
	feed         FeedSubscriber
	logger       Logger

	companyID int64
	workerID  *int64
	start     time.Time
	end       time.Time

	mu          sync.RWMutex
	appointment map[int64][]domain.CalendarEvent // blocks per appointment id
	backgrounds []domain.CalendarEvent

	updates chan int64    // appointment ids whose blocks changed
	ready   chan struct{} // closed once the initial load completes
}

// NewWatcher creates a watcher over one calendar range.
func NewWatcher(
	materializer *Materializer,
	feed FeedSubscriber,
	companyID int64,
	workerID *int64,
	start, end time.Time,
	logger Logger,
) *Watcher {
	return &Watcher{
		materializer: materializer,
		feed:         feed,
		logger:       logger,
		companyID:    companyID,
		workerID:     workerID,
		start:        start,
		end:          end,
		appointment:  make(map[int64][]domain.CalendarEvent),
		updates:      make(chan int64, 16),
		ready:        make(chan struct{}),
	}
}

// Updates delivers the id of every appointment whose blocks were patched.
// Slow consumers lose notifications, not state; Blocks always reflects the
// latest patch.
func (w *Watcher) Updates() <-chan int64 {
	return w.updates
}

// Blocks returns a copy of one appointment's current blocks, nil when the
// appointment has none in range.
func (w *Watcher) Blocks(id int64) []domain.CalendarEvent {
	w.mu.RLock()
	defer w.mu.RUnlock()

	blocks, ok := w.appointment[id]
	if !ok {
		return nil
	}
	out := make([]domain.CalendarEvent, len(blocks))
	copy(out, blocks)
	return out
}

func (w *Watcher) notifyUpdate(id int64) {
	select {
	case w.updates <- id:
	default:
	}
}

// Ready is closed once Run has loaded the initial snapshot; from then on
// Snapshot reflects storage plus every applied patch.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run loads the initial snapshot and then applies feed events until ctx is
// cancelled. A failed patch keeps the appointment's last known blocks; the
// snapshot degrades to slightly stale instead of dropping visible events.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.reload(ctx); err != nil {
		return err
	}
	close(w.ready)

	events := w.feed.Subscribe(ctx, w.workerID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return errors.New("calendar: change feed closed")
			}
			w.apply(ctx, event)
		}
	}
}

// Snapshot returns a copy of the current event set.
func (w *Watcher) Snapshot() []domain.CalendarEvent {
	w.mu.RLock()
	defer w.mu.RUnlock()

	events := make([]domain.CalendarEvent, 0, len(w.backgrounds)+len(w.appointment)*2)
	for _, blocks := range w.appointment {
		events = append(events, blocks...)
	}
	return append(events, w.backgrounds...)
}

// reload rebuilds the whole snapshot from storage.
func (w *Watcher) reload(ctx context.Context) error {
	all, err := w.materializer.FetchRange(ctx, w.companyID, w.workerID, w.start, w.end)
	if err != nil {
		return err
	}

	byAppointment := make(map[int64][]domain.CalendarEvent)
	backgrounds := make([]domain.CalendarEvent, 0)
	for _, event := range all {
		if event.Props.AppointmentID != 0 {
			byAppointment[event.Props.AppointmentID] = append(byAppointment[event.Props.AppointmentID], event)
		} else {
			backgrounds = append(backgrounds, event)
		}
	}

	w.mu.Lock()
	w.appointment = byAppointment
	w.backgrounds = backgrounds
	w.mu.Unlock()
	return nil
}

// apply patches one appointment in place.
func (w *Watcher) apply(ctx context.Context, event changefeed.Event) {
	if event.Kind == changefeed.KindDelete {
		w.mu.Lock()
		delete(w.appointment, event.AppointmentID)
		w.mu.Unlock()
		w.notifyUpdate(event.AppointmentID)
		return
	}

	appt, err := w.materializer.appointmentRepo.GetByID(ctx, event.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			w.mu.Lock()
			delete(w.appointment, event.AppointmentID)
			w.mu.Unlock()
			w.notifyUpdate(event.AppointmentID)
			return
		}
		w.logger.Error("calendar: patch appointment id=%d failed, keeping stale blocks: %v", event.AppointmentID, err)
		return
	}

	// Out of range, or no longer holding a slot: drop its blocks.
	if appt.Date.Before(domain.DateOnly(w.start)) || appt.Date.After(domain.DateOnly(w.end)) ||
		appt.Status == domain.StatusCancelled || appt.Status == domain.StatusAnnulled {
		w.mu.Lock()
		delete(w.appointment, event.AppointmentID)
		w.mu.Unlock()
		w.notifyUpdate(event.AppointmentID)
		return
	}

	services := make(map[int64]*domain.Service)
	blocks, err := w.materializer.ExpandAppointment(ctx, appt, services)
	if err != nil {
		w.logger.Error("calendar: expand appointment id=%d failed, keeping stale blocks: %v", event.AppointmentID, err)
		return
	}

	w.mu.Lock()
	w.appointment[event.AppointmentID] = blocks
	w.mu.Unlock()
	w.notifyUpdate(event.AppointmentID)
}
