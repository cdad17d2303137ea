package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// Candidate is a booking attempt the guard validates: a creation, a move or
// a reopening of a terminal appointment.
type Candidate struct {
	CompanyID int64
	WorkerID  int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	// Contact data, checked against the blacklist only when CheckBlacklist
	// is set (creation path).
	ContactPhone   string
	ContactEmail   *string
	CheckBlacklist bool

	// ExcludeAppointmentID skips one appointment in the overlap scan so a
	// move or reopen does not collide with itself.
	ExcludeAppointmentID int64

	// StaffRequest relaxes the past-time check to a warning: staff
	// sometimes record walk-ins after the fact.
	StaffRequest bool
}

// Guard runs every conflict check a booking must pass before it may hold a
// slot. Checks run in a fixed order and the first failure wins; call it
// inside the same transaction that writes the appointment so the overlap
// scan sees locked rows.
type Guard struct {
	resolver        AvailabilityResolver
	appointmentRepo AppointmentRepository
	blacklistRepo   BlacklistRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewGuard creates a conflict guard.
func NewGuard(
	resolver AvailabilityResolver,
	appointmentRepo AppointmentRepository,
	blacklistRepo BlacklistRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Guard {
	return &Guard{
		resolver:        resolver,
		appointmentRepo: appointmentRepo,
		blacklistRepo:   blacklistRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Check validates the candidate. It returns a *Rejection (as error) when a
// check fails, the accumulated warnings otherwise.
func (g *Guard) Check(ctx context.Context, candidate Candidate) ([]string, error) {
	warnings := make([]string, 0, 1)

	// 1. Time range must be coherent before anything else looks at it.
	if err := candidate.StartTime.Validate(); err != nil {
		return nil, reject(ReasonInvalidRange, "start time: %v", err)
	}
	if err := candidate.EndTime.Validate(); err != nil {
		return nil, reject(ReasonInvalidRange, "end time: %v", err)
	}
	if !candidate.EndTime.IsAfter(candidate.StartTime) {
		return nil, reject(ReasonInvalidRange, "end %s not after start %s", candidate.EndTime, candidate.StartTime)
	}

	// 2. Past start times are a hard error for clients and a warning for
	// staff recording an appointment retroactively.
	if inPast := g.startsInPast(candidate); inPast {
		if !candidate.StaffRequest {
			return nil, reject(ReasonPastTime, "%s %s is in the past", candidate.Date.Format(domain.DateFormat), candidate.StartTime)
		}
		g.logger.Warn("conflicts: staff booking in the past worker=%d date=%s", candidate.WorkerID, candidate.Date.Format(domain.DateFormat))
		warnings = append(warnings, "la cita está en el pasado")
	}

	// 3. The day must be open and one working interval must contain the span.
	day, err := g.resolver.ResolveDay(ctx, candidate.CompanyID, candidate.WorkerID, candidate.Date)
	if err != nil {
		return nil, fmt.Errorf("conflicts: resolve day: %w", err)
	}
	if day.Blocked {
		return nil, reject(ReasonDayBlocked, "day blocked (%s)", day.Reason)
	}
	if !coveredByAny(day.Intervals, candidate.StartTime, candidate.EndTime) {
		return nil, reject(ReasonOutsideSchedule, "%s-%s outside working hours", candidate.StartTime, candidate.EndTime)
	}

	// 4. No overlap with confirmed appointments. Touching boundaries are fine.
	confirmed, err := g.appointmentRepo.GetConfirmedForWorkerDate(ctx, candidate.WorkerID, candidate.Date)
	if err != nil {
		return nil, fmt.Errorf("conflicts: load confirmed appointments: %w", err)
	}
	for _, existing := range confirmed {
		if existing.ID == candidate.ExcludeAppointmentID {
			continue
		}
		if existing.Overlaps(candidate.StartTime, candidate.EndTime) {
			return nil, reject(ReasonOverlap, "overlaps appointment %d (%s-%s)", existing.ID, existing.StartTime, existing.EndTime)
		}
	}

	// 5. Blacklist, creation path only.
	if candidate.CheckBlacklist {
		matches, err := g.blacklistRepo.FindActiveMatch(ctx, candidate.CompanyID, candidate.ContactPhone, candidate.ContactEmail)
		if err != nil {
			return nil, fmt.Errorf("conflicts: blacklist lookup: %w", err)
		}
		if len(matches) > 0 {
			g.logger.Info("conflicts: blacklisted contact rejected company=%d", candidate.CompanyID)
			return nil, reject(ReasonBlacklisted, "contact is blacklisted by company %d", candidate.CompanyID)
		}
	}

	return warnings, nil
}

// startsInPast reports whether the candidate's start instant precedes now.
func (g *Guard) startsInPast(candidate Candidate) bool {
	now := g.timeProvider.Now()
	day := domain.DateOnly(candidate.Date)
	start := day.Add(time.Duration(candidate.StartTime.TotalMinutes()) * time.Minute)
	return start.Before(now)
}

func coveredByAny(intervals []domain.ScheduleInterval, start, end types.TimeString) bool {
	for i := range intervals {
		if intervals[i].Covers(start, end) {
			return true
		}
	}
	return false
}
