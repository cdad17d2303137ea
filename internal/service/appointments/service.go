package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/citaplan/scheduling-service/internal/domain"
	appointmentRepo "github.com/citaplan/scheduling-service/internal/infra/storage/appointment"
	"github.com/citaplan/scheduling-service/internal/service/appointments/models"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
)

// Service drives the appointment lifecycle. Every transition is checked
// against the status graph; reopening additionally re-runs the conflict
// guard because the slot may have been taken while the appointment sat in
// a terminal state. Nothing here deletes rows, terminal appointments stay
// for audit.
type Service struct {
	appointmentRepo AppointmentRepository
	guard           ConflictGuard
	txManager       TransactionManager
	logger          Logger
}

// NewService creates the lifecycle service.
func NewService(
	appointmentRepo AppointmentRepository,
	guard ConflictGuard,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		guard:           guard,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID fetches one appointment scoped to the company.
func (s *Service) GetByID(ctx context.Context, companyID, id int64) (*models.AppointmentResponse, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	if appt.CompanyID != companyID {
		return nil, ErrAppointmentNotFound
	}

	return models.FromDomain(appt), nil
}

// GetByCancelToken fetches the appointment behind a client's cancel link.
func (s *Service) GetByCancelToken(ctx context.Context, token string) (*models.AppointmentResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByCancelToken(ctx, token)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByCancelToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByCancelToken - repository error: %v", ErrInternal, err)
	}

	return models.FromDomain(appt), nil
}

// List fetches the company's appointments with optional filters.
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for company=%d", req.CompanyID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appts, err := s.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainList(appts), nil
}

// Cancel moves a confirmed appointment to cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, companyID, id int64, reason *string) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: appointment id=%d, company=%d", id, companyID)
	return s.transition(ctx, companyID, id, domain.StatusCancelled, reason, nil)
}

// CancelByToken cancels through the client's login-free link.
func (s *Service) CancelByToken(ctx context.Context, token string, reason *string) (*models.AppointmentResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByCancelToken(ctx, token)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("CancelByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: CancelByToken - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelByToken: appointment id=%d", appt.ID)
	return s.transition(ctx, appt.CompanyID, appt.ID, domain.StatusCancelled, reason, nil)
}

// Complete marks a confirmed appointment as attended and records the payment.
func (s *Service) Complete(ctx context.Context, companyID, id int64, paymentType string) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: appointment id=%d, company=%d, payment=%s", id, companyID, paymentType)

	pt := domain.PaymentType(paymentType)
	if !domain.ValidPaymentType(pt) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentType, paymentType)
	}

	return s.transition(ctx, companyID, id, domain.StatusCompleted, nil, &pt)
}

// Annul voids a completed appointment. The free-text reason is optional and
// stored when given.
func (s *Service) Annul(ctx context.Context, companyID, id int64, reason *string) (*models.AppointmentResponse, error) {
	s.logger.Info("Annul: appointment id=%d, company=%d", id, companyID)

	return s.transition(ctx, companyID, id, domain.StatusAnnulled, reason, nil)
}

// Reopen brings a terminal appointment back to confirmed. The slot must
// still be free, so the conflict guard runs again inside the transaction
// with the appointment itself excluded. Both stored reasons are cleared.
func (s *Service) Reopen(ctx context.Context, companyID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Reopen: appointment id=%d, company=%d", id, companyID)

	var result *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.lockAndCheck(txCtx, companyID, id, domain.StatusConfirmed)
		if err != nil {
			return err
		}

		candidate := conflicts.Candidate{
			CompanyID:            appt.CompanyID,
			WorkerID:             appt.WorkerID,
			Date:                 appt.Date,
			StartTime:            appt.StartTime,
			EndTime:              appt.EndTime,
			ExcludeAppointmentID: appt.ID,
			StaffRequest:         true,
		}
		if _, err := s.guard.Check(txCtx, candidate); err != nil {
			if rejection, ok := conflicts.AsRejection(err); ok {
				s.logger.Warn("Reopen: appointment id=%d rejected (%s): %s", id, rejection.Reason, rejection.Detail)
				return err
			}
			s.logger.Error("Reopen: guard failed for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusConfirmed, nil, nil); err != nil {
			s.logger.Error("Reopen: failed to update appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Reopen - update failed: %v", ErrInternal, err)
		}

		appt.Status = domain.StatusConfirmed
		appt.CancellationReason = nil
		appt.AnnulmentReason = nil
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Reopen: successfully reopened appointment id=%d", id)
	return models.FromDomain(result), nil
}

// transition runs one guarded status change inside a transaction.
func (s *Service) transition(
	ctx context.Context,
	companyID, id int64,
	to domain.AppointmentStatus,
	reason *string,
	paymentType *domain.PaymentType,
) (*models.AppointmentResponse, error) {
	var result *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.lockAndCheck(txCtx, companyID, id, to)
		if err != nil {
			return err
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, to, reason, paymentType); err != nil {
			s.logger.Error("transition: failed to update appointment id=%d to %s: %v", id, to, err)
			return fmt.Errorf("%w: transition - update failed: %v", ErrInternal, err)
		}

		appt.Status = to
		appt.PaymentType = paymentType
		switch to {
		case domain.StatusCancelled:
			appt.CancellationReason = reason
		case domain.StatusAnnulled:
			appt.AnnulmentReason = reason
		}
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("transition: appointment id=%d is now %s", id, to)
	return models.FromDomain(result), nil
}

// lockAndCheck loads the appointment under lock and validates the move.
func (s *Service) lockAndCheck(ctx context.Context, companyID, id int64, to domain.AppointmentStatus) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("lockAndCheck: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: lockAndCheck - repository error: %v", ErrInternal, err)
	}
	if appt.CompanyID != companyID {
		return nil, ErrAppointmentNotFound
	}

	if !appt.CanTransitionTo(to) {
		s.logger.Warn("lockAndCheck: appointment id=%d cannot move %s -> %s", id, appt.Status, to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, appt.Status, to)
	}

	return appt, nil
}
