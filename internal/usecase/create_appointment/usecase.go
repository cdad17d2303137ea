package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/citaplan/scheduling-service/internal/domain"
	serviceRepo "github.com/citaplan/scheduling-service/internal/infra/storage/service"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
)

// UseCase creates an appointment. The conflict checks and the insert run in
// one serializable transaction so two concurrent requests for the same slot
// cannot both pass the guard.
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	guard           ConflictGuard
	expander        PhaseExpander
	mailer          Mailer // may be nil when SMTP is not configured
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the usecase.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	guard ConflictGuard,
	expander PhaseExpander,
	mailer Mailer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		guard:           guard,
		expander:        expander,
		mailer:          mailer,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute runs the booking.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: company=%d, worker=%d, service=%d, date=%s, time=%s",
		req.CompanyID, req.WorkerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Validate input shape.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Load the service; phase durations are authoritative for the end time.
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if svc.CompanyID != req.CompanyID {
		return nil, ErrServiceNotFound
	}
	if !svc.Active {
		return nil, ErrServiceInactive
	}

	endTime, err := uc.expander.EffectiveEndTime(svc, req.StartTime)
	if err != nil {
		uc.logger.Warn("CreateAppointment: cannot derive end time: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var (
		result   *domain.Appointment
		warnings []string
	)

	// 3. Guard and insert atomically.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Full conflict chain: past time, range, availability, overlap,
		// blacklist. Confirmed rows come back locked inside the transaction.
		candidate := conflicts.Candidate{
			CompanyID:      req.CompanyID,
			WorkerID:       req.WorkerID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        endTime,
			ContactPhone:   req.ContactPhone,
			ContactEmail:   req.ContactEmail,
			CheckBlacklist: true,
			StaffRequest:   req.StaffRequest,
		}

		checkWarnings, err := uc.guard.Check(txCtx, candidate)
		if err != nil {
			if rejection, ok := conflicts.AsRejection(err); ok {
				uc.logger.Warn("CreateAppointment: rejected (%s): %s", rejection.Reason, rejection.Detail)
				return err
			}
			uc.logger.Error("CreateAppointment: guard failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}
		warnings = checkWarnings

		// 3.2. Persist with denormalized service data and a fresh cancel token.
		appt := &domain.Appointment{
			CompanyID:    req.CompanyID,
			WorkerID:     req.WorkerID,
			ServiceID:    req.ServiceID,
			ContactPhone: req.ContactPhone,
			ContactEmail: req.ContactEmail,
			Date:         domain.DateOnly(req.Date),
			StartTime:    req.StartTime,
			EndTime:      endTime,
			Status:       domain.StatusConfirmed,
			Price:        svc.Price,
			Observations: req.Observations,
			ServiceName:  svc.Name,
			CancelToken:  uuid.NewString(),
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 4. Confirmation email, best effort and off the request path.
	if uc.mailer != nil && result.ContactEmail != nil {
		go func(appt domain.Appointment) {
			if err := uc.mailer.SendConfirmation(&appt); err != nil {
				uc.logger.Error("CreateAppointment: confirmation email for id=%d failed: %v", appt.ID, err)
			}
		}(*result)
	}

	return &Response{
		ID:           result.ID,
		CompanyID:    result.CompanyID,
		WorkerID:     result.WorkerID,
		ServiceID:    result.ServiceID,
		ServiceName:  result.ServiceName,
		ContactPhone: result.ContactPhone,
		ContactEmail: result.ContactEmail,
		Date:         result.Date,
		StartTime:    result.StartTime,
		EndTime:      result.EndTime,
		Status:       string(result.Status),
		Price:        result.Price,
		Observations: result.Observations,
		CancelToken:  result.CancelToken,
		Warnings:     warnings,
		CreatedAt:    result.CreatedAt,
	}, nil
}
