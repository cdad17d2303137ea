package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/citaplan/scheduling-service/internal/domain"
	serviceRepo "github.com/citaplan/scheduling-service/internal/infra/storage/service"
	"github.com/citaplan/scheduling-service/internal/infra/cache"
)

// UseCase computes the bookable slots of one worker for one service and date.
type UseCase struct {
	resolver        AvailabilityResolver
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	settingsRepo    SettingsRepository
	slotCache       SlotCache // may be nil when Redis is not configured
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the usecase.
func NewUseCase(
	resolver AvailabilityResolver,
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	settingsRepo SettingsRepository,
	slotCache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		resolver:        resolver,
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		settingsRepo:    settingsRepo,
		slotCache:       slotCache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute runs the slot query.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: company=%d, worker=%d, service=%d, date=%s",
		req.CompanyID, req.WorkerID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Validate input.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		return nil, ErrInvalidDate
	}

	// 2. Serve from cache when a fresh result exists.
	cacheKey := cache.Key(req.WorkerID, req.ServiceID, req.Date)
	if uc.slotCache != nil {
		var cached Response
		hit, err := uc.slotCache.Get(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	// 3. Load the service; its effective duration sizes every slot.
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if svc.CompanyID != req.CompanyID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to another company", req.ServiceID)
		return nil, ErrServiceNotFound
	}
	if !svc.Active {
		return nil, ErrServiceInactive
	}

	// 4. Resolve the day. A blocked day short-circuits with its reason.
	day, err := uc.resolver.ResolveDay(ctx, req.CompanyID, req.WorkerID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve day: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
	}

	response := &Response{
		Date:      domain.DateOnly(req.Date),
		WorkerID:  req.WorkerID,
		ServiceID: req.ServiceID,
		Slots:     []Slot{},
	}
	if day.Blocked {
		response.Blocked = true
		response.BlockReason = day.Reason
		return response, nil
	}

	// 5. Load the worker's granularity and the confirmed appointments.
	settings, err := uc.settingsRepo.GetWorkerSettings(ctx, req.CompanyID, req.WorkerID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get worker settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get worker settings: %v", ErrInternal, err)
	}

	confirmed, err := uc.appointmentRepo.GetConfirmedForWorkerDate(ctx, req.WorkerID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Generate slots.
	slots, err := generateSlots(day.Intervals, svc.EffectiveDurationMinutes(),
		settings.SlotGranularityMinutes, confirmed, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: slot generation failed: %v", err)
		return nil, fmt.Errorf("%w: slot generation failed: %v", ErrInternal, err)
	}
	response.Slots = slots

	// 7. Cache best-effort.
	if uc.slotCache != nil {
		if err := uc.slotCache.Set(ctx, cacheKey, response); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache write failed: %v", err)
		}
	}

	return response, nil
}
