package move_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/citaplan/scheduling-service/internal/domain"
	appointmentRepo "github.com/citaplan/scheduling-service/internal/infra/storage/appointment"
	serviceRepo "github.com/citaplan/scheduling-service/internal/infra/storage/service"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
)

// UseCase moves a confirmed appointment to another slot. The appointment is
// locked, the conflict chain re-runs at the target slot with the appointment
// itself excluded from the overlap scan, and the reschedule is written, all
// in one serializable transaction.
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	guard           ConflictGuard
	expander        PhaseExpander
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase creates the usecase.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	guard ConflictGuard,
	expander PhaseExpander,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		guard:           guard,
		expander:        expander,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute runs the move.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveAppointment: id=%d, company=%d, date=%s, time=%s",
		req.AppointmentID, req.CompanyID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Validate input shape.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MoveAppointment: validation failed: %v", err)
		return nil, err
	}

	var (
		result   *domain.Appointment
		warnings []string
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Lock the appointment and check it can move.
		appt, err := uc.appointmentRepo.GetByIDForUpdate(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("MoveAppointment: failed to load appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to load appointment: %v", ErrInternal, err)
		}
		if appt.CompanyID != req.CompanyID {
			return ErrAppointmentNotFound
		}
		if !appt.IsConfirmed() {
			uc.logger.Warn("MoveAppointment: id=%d is %s, only confirmed moves", appt.ID, appt.Status)
			return ErrNotConfirmed
		}

		// 3. Recompute the end time from the service's current phases.
		svc, err := uc.serviceRepo.GetByID(txCtx, appt.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Error("MoveAppointment: service id=%d missing for appointment id=%d", appt.ServiceID, appt.ID)
				return fmt.Errorf("%w: service missing", ErrInternal)
			}
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		endTime, err := uc.expander.EffectiveEndTime(svc, req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 4. Re-run the conflict chain at the target slot. Moves are staff
		// actions, so a past target only warns. The blacklist is skipped:
		// the contact already holds the appointment.
		candidate := conflicts.Candidate{
			CompanyID:            appt.CompanyID,
			WorkerID:             appt.WorkerID,
			Date:                 req.Date,
			StartTime:            req.StartTime,
			EndTime:              endTime,
			ExcludeAppointmentID: appt.ID,
			StaffRequest:         true,
		}

		checkWarnings, err := uc.guard.Check(txCtx, candidate)
		if err != nil {
			if rejection, ok := conflicts.AsRejection(err); ok {
				uc.logger.Warn("MoveAppointment: rejected (%s): %s", rejection.Reason, rejection.Detail)
				return err
			}
			uc.logger.Error("MoveAppointment: guard failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}
		warnings = checkWarnings

		// 5. Write the new slot.
		observations := appt.Observations
		if req.Observations != nil {
			observations = req.Observations
		}

		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, domain.DateOnly(req.Date), req.StartTime, endTime, observations); err != nil {
			uc.logger.Error("MoveAppointment: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		appt.Date = domain.DateOnly(req.Date)
		appt.StartTime = req.StartTime
		appt.EndTime = endTime
		appt.Observations = observations
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("MoveAppointment: successfully moved appointment id=%d", result.ID)

	return &Response{
		ID:           result.ID,
		WorkerID:     result.WorkerID,
		ServiceName:  result.ServiceName,
		Date:         result.Date,
		StartTime:    result.StartTime,
		EndTime:      result.EndTime,
		Status:       string(result.Status),
		Observations: result.Observations,
		Warnings:     warnings,
	}, nil
}
