package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/domain"
)

// Materializer regenerates the calendar event set from its sources on every
// fetch. Events are derived data and are never persisted; a fetch after any
// write is always consistent with storage.
type Materializer struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	resolver        AvailabilityResolver
	expander        PhaseExpander
	logger          Logger
}

// NewMaterializer creates a calendar materializer.
func NewMaterializer(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	resolver AvailabilityResolver,
	expander PhaseExpander,
	logger Logger,
) *Materializer {
	return &Materializer{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		resolver:        resolver,
		expander:        expander,
		logger:          logger,
	}
}

// FetchRange materializes the calendar of one worker, or of every worker of
// the company when workerID is nil, over [start, end] inclusive. Cancelled
// and annulled appointments hold no slot and render nothing.
func (m *Materializer) FetchRange(ctx context.Context, companyID int64, workerID *int64, start, end time.Time) ([]domain.CalendarEvent, error) {
	filter := domain.AppointmentsFilter{
		CompanyID: companyID,
		WorkerID:  workerID,
		StartDate: &start,
		EndDate:   &end,
	}

	appointments, err := m.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("calendar: load appointments: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(appointments))
	services := make(map[int64]*domain.Service)

	for _, appt := range appointments {
		if appt.Status == domain.StatusCancelled || appt.Status == domain.StatusAnnulled {
			continue
		}

		expanded, err := m.ExpandAppointment(ctx, appt, services)
		if err != nil {
			return nil, err
		}
		events = append(events, expanded...)
	}

	backgrounds, err := m.backgroundEvents(ctx, companyID, workerID, start, end)
	if err != nil {
		return nil, err
	}

	return append(events, backgrounds...), nil
}

// ExpandAppointment materializes one appointment's blocks, using and filling
// the given service cache. A missing service only degrades the appointment
// to a single plain block.
func (m *Materializer) ExpandAppointment(ctx context.Context, appt *domain.Appointment, services map[int64]*domain.Service) ([]domain.CalendarEvent, error) {
	svc, ok := services[appt.ServiceID]
	if !ok {
		loaded, err := m.serviceRepo.GetByID(ctx, appt.ServiceID)
		if err != nil {
			m.logger.Warn("calendar: service id=%d for appointment id=%d: %v", appt.ServiceID, appt.ID, err)
			loaded = nil
		}
		services[appt.ServiceID] = loaded
		svc = loaded
	}

	expanded, err := m.expander.Expand(appt, svc)
	if err != nil {
		return nil, fmt.Errorf("calendar: expand appointment id=%d: %w", appt.ID, err)
	}
	return expanded, nil
}

// backgroundEvents renders the availability layer: blocked days as all-day
// background blocks and, on open days, the gaps outside working intervals.
func (m *Materializer) backgroundEvents(ctx context.Context, companyID int64, workerID *int64, start, end time.Time) ([]domain.CalendarEvent, error) {
	var (
		days []availability.DayAvailability
		err  error
	)
	if workerID != nil {
		days, err = m.resolver.ResolveRange(ctx, companyID, *workerID, start, end)
	} else {
		days, err = m.resolver.ResolveRangeForCompany(ctx, companyID, start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("calendar: resolve availability: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(days))
	for i := range days {
		events = append(events, dayBackground(companyID, &days[i])...)
	}
	return events, nil
}

// dayBackground renders one resolved day into background blocks.
func dayBackground(companyID int64, day *availability.DayAvailability) []domain.CalendarEvent {
	dayStart := domain.DateOnly(day.Date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	if day.Blocked {
		props := domain.EventProps{
			WorkerID:    day.WorkerID,
			CompanyID:   companyID,
			BlockReason: day.Reason,
		}
		if day.LeaveReason != nil {
			props.LeaveReason = *day.LeaveReason
		}
		return []domain.CalendarEvent{{
			Start:          dayStart,
			End:            dayEnd,
			Display:        domain.DisplayBackground,
			Classification: classify(day.Reason),
			Props:          props,
		}}
	}

	// Open day: shade everything outside the working intervals.
	events := make([]domain.CalendarEvent, 0, len(day.Intervals)+1)
	cursor := dayStart
	for i := range day.Intervals {
		intervalStart := dayStart.Add(time.Duration(day.Intervals[i].StartTime.TotalMinutes()) * time.Minute)
		if cursor.Before(intervalStart) {
			events = append(events, offHoursBlock(companyID, day.WorkerID, cursor, intervalStart))
		}
		cursor = dayStart.Add(time.Duration(day.Intervals[i].EndTime.TotalMinutes()) * time.Minute)
	}
	if cursor.Before(dayEnd) {
		events = append(events, offHoursBlock(companyID, day.WorkerID, cursor, dayEnd))
	}
	return events
}

func offHoursBlock(companyID, workerID int64, start, end time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{
		Start:          start,
		End:            end,
		Display:        domain.DisplayBackground,
		Classification: domain.EventNonWorking,
		Props: domain.EventProps{
			WorkerID:    workerID,
			CompanyID:   companyID,
			BlockReason: domain.BlockNonWorking,
		},
	}
}

func classify(reason domain.BlockReason) domain.EventClassification {
	switch reason {
	case domain.BlockHoliday:
		return domain.EventHoliday
	case domain.BlockLeave:
		return domain.EventLeave
	default:
		return domain.EventNonWorking
	}
}
