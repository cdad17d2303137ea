package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// AppointmentRepository supplies tomorrow's confirmed appointments.
type AppointmentRepository interface {
	GetConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
}

// Mailer sends the reminder messages.
type Mailer interface {
	SendReminder(appt *domain.Appointment) error
}

// Logger is the logging surface the scheduler needs.
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler mails reminders for the next day's confirmed appointments on a
// cron spec. Appointments without an email are skipped silently.
type Scheduler struct {
	appointmentRepo AppointmentRepository
	mailer          Mailer
	cron            *cron.Cron
	spec            string
	logger          Logger
}

// New creates the reminder scheduler. spec is a standard cron expression,
// e.g. "0 18 * * *" for every day at 18:00.
func New(appointmentRepo AppointmentRepository, mailer Mailer, spec string, logger Logger) *Scheduler {
	return &Scheduler{
		appointmentRepo: appointmentRepo,
		mailer:          mailer,
		cron:            cron.New(),
		spec:            spec,
		logger:          logger,
	}
}

// Start registers the job and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder: scheduled with spec %q", s.spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tomorrow := domain.DateOnly(time.Now().AddDate(0, 0, 1))
	dayAfter := tomorrow.AddDate(0, 0, 1)

	appts, err := s.appointmentRepo.GetConfirmedStartingBetween(ctx, tomorrow, dayAfter)
	if err != nil {
		s.logger.Error("reminder: load appointments: %v", err)
		return
	}

	sent := 0
	for _, appt := range appts {
		if appt.ContactEmail == nil || *appt.ContactEmail == "" {
			continue
		}
		if err := s.mailer.SendReminder(appt); err != nil {
			s.logger.Error("reminder: appointment id=%d: %v", appt.ID, err)
			continue
		}
		sent++
	}

	s.logger.Info("reminder: sent %d reminders for %s", sent, tomorrow.Format(domain.DateFormat))
}
