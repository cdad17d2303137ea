package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/domain"
	appointmentRepo "github.com/citaplan/scheduling-service/internal/infra/storage/appointment"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
	"github.com/citaplan/scheduling-service/pkg/ptr"
)

type stubRepo struct {
	appt       *domain.Appointment
	lastStatus domain.AppointmentStatus
	lastReason *string
	lastPay    *domain.PaymentType
	updates    int
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	return s.find(id)
}

func (s *stubRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.Appointment, error) {
	return s.find(id)
}

func (s *stubRepo) GetByCancelToken(_ context.Context, token string) (*domain.Appointment, error) {
	if s.appt == nil || s.appt.CancelToken != token {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	clone := *s.appt
	return &clone, nil
}

func (s *stubRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if s.appt == nil {
		return nil, nil
	}
	return []*domain.Appointment{s.appt}, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus, reason *string, paymentType *domain.PaymentType) error {
	if s.appt == nil || s.appt.ID != id {
		return appointmentRepo.ErrAppointmentNotFound
	}
	s.lastStatus = status
	s.lastReason = reason
	s.lastPay = paymentType
	s.updates++
	return nil
}

func (s *stubRepo) find(id int64) (*domain.Appointment, error) {
	if s.appt == nil || s.appt.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	clone := *s.appt
	return &clone, nil
}

type stubGuard struct {
	rejection *conflicts.Rejection
	last      conflicts.Candidate
	calls     int
}

func (s *stubGuard) Check(_ context.Context, candidate conflicts.Candidate) ([]string, error) {
	s.calls++
	s.last = candidate
	if s.rejection != nil {
		return nil, s.rejection
	}
	return nil, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func confirmedAppt() *domain.Appointment {
	return &domain.Appointment{
		ID:           42,
		CompanyID:    1,
		WorkerID:     3,
		ServiceID:    7,
		ContactPhone: "+34600111222",
		Date:         time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:00",
		EndTime:      "11:00",
		Status:       domain.StatusConfirmed,
		ServiceName:  "Corte",
		CancelToken:  "tok-42",
	}
}

func newTestService(appt *domain.Appointment, guard *stubGuard) (*Service, *stubRepo) {
	repo := &stubRepo{appt: appt}
	if guard == nil {
		guard = &stubGuard{}
	}
	return NewService(repo, guard, passthroughTx{}, noopLogger{}), repo
}

func TestGetByIDScopedToCompany(t *testing.T) {
	svc, _ := newTestService(confirmedAppt(), nil)

	got, err := svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)

	// Wrong company looks identical to a missing appointment.
	_, err = svc.GetByID(context.Background(), 2, 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel(t *testing.T) {
	svc, repo := newTestService(confirmedAppt(), nil)

	got, err := svc.Cancel(context.Background(), 1, 42, ptr.Ptr("no puedo asistir"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.Equal(t, domain.StatusCancelled, repo.lastStatus)
	require.NotNil(t, repo.lastReason)
	assert.Equal(t, "no puedo asistir", *repo.lastReason)
}

func TestCancelByToken(t *testing.T) {
	svc, repo := newTestService(confirmedAppt(), nil)

	got, err := svc.CancelByToken(context.Background(), "tok-42", nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.Equal(t, 1, repo.updates)

	_, err = svc.CancelByToken(context.Background(), "tok-unknown", nil)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.CancelByToken(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteValidatesPayment(t *testing.T) {
	svc, repo := newTestService(confirmedAppt(), nil)

	_, err := svc.Complete(context.Background(), 1, 42, "cheque")
	assert.ErrorIs(t, err, ErrInvalidPaymentType)
	assert.Zero(t, repo.updates)

	got, err := svc.Complete(context.Background(), 1, 42, "bizum")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
	require.NotNil(t, repo.lastPay)
	assert.Equal(t, domain.PaymentBizum, *repo.lastPay)
}

func TestAnnulReasonOptional(t *testing.T) {
	appt := confirmedAppt()
	appt.Status = domain.StatusCompleted
	svc, repo := newTestService(appt, nil)

	// No reason is fine; the annulment goes through without one.
	got, err := svc.Annul(context.Background(), 1, 42, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusAnnulled), got.Status)
	assert.Nil(t, repo.lastReason)

	// When a reason is given it is stored with the transition.
	appt = confirmedAppt()
	appt.Status = domain.StatusCompleted
	svc, repo = newTestService(appt, nil)
	got, err = svc.Annul(context.Background(), 1, 42, ptr.Ptr("cobro duplicado"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusAnnulled), got.Status)
	require.NotNil(t, repo.lastReason)
	assert.Equal(t, "cobro duplicado", *repo.lastReason)
}

func TestIllegalTransitions(t *testing.T) {
	// A confirmed appointment cannot be annulled directly.
	svc, repo := newTestService(confirmedAppt(), nil)
	_, err := svc.Annul(context.Background(), 1, 42, ptr.Ptr("error"))
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Zero(t, repo.updates)

	// A cancelled appointment cannot be completed.
	appt := confirmedAppt()
	appt.Status = domain.StatusCancelled
	svc, repo = newTestService(appt, nil)
	_, err = svc.Complete(context.Background(), 1, 42, "efectivo")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Zero(t, repo.updates)
}

func TestReopenRerunsGuardAndClearsReasons(t *testing.T) {
	appt := confirmedAppt()
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = ptr.Ptr("no puedo asistir")
	guard := &stubGuard{}
	svc, repo := newTestService(appt, guard)

	got, err := svc.Reopen(context.Background(), 1, 42)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	assert.Nil(t, got.CancellationReason)
	assert.Nil(t, got.AnnulmentReason)

	// The guard saw the appointment's own slot, excluding itself.
	assert.Equal(t, 1, guard.calls)
	assert.Equal(t, int64(42), guard.last.ExcludeAppointmentID)
	assert.True(t, guard.last.StaffRequest)
	assert.False(t, guard.last.CheckBlacklist)

	assert.Equal(t, domain.StatusConfirmed, repo.lastStatus)
	assert.Nil(t, repo.lastReason)
}

func TestReopenRejectedWhenSlotTaken(t *testing.T) {
	appt := confirmedAppt()
	appt.Status = domain.StatusCancelled
	guard := &stubGuard{rejection: &conflicts.Rejection{Reason: conflicts.ReasonOverlap, Detail: "taken"}}
	svc, repo := newTestService(appt, guard)

	_, err := svc.Reopen(context.Background(), 1, 42)
	rejection, ok := conflicts.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, conflicts.ReasonOverlap, rejection.Reason)
	assert.Zero(t, repo.updates)
}
