package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// Logger is the logging surface the mailer needs.
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Mailer sends transactional appointment emails over SMTP. Every send is
// best effort; callers must never fail a booking on a mail error.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	publicURL string
	logger    Logger
}

// New creates a mailer. publicURL is the externally reachable base used to
// build cancellation links.
func New(host string, port int, username, password, from, publicURL string, logger Logger) *Mailer {
	return &Mailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		publicURL: publicURL,
		logger:    logger,
	}
}

// SendConfirmation mails the booking confirmation with the cancel link.
func (m *Mailer) SendConfirmation(appt *domain.Appointment) error {
	if appt.ContactEmail == nil || *appt.ContactEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"<p>Tu cita para <b>%s</b> ha sido confirmada.</p>"+
			"<p>Fecha: <b>%s</b><br>Hora: <b>%s</b></p>"+
			"<p>Si no puedes asistir, puedes anular la cita desde este enlace:<br>"+
			`<a href="%s/public/appointments/%s/cancel">Anular cita</a></p>`,
		appt.ServiceName,
		appt.Date.Format("02/01/2006"),
		appt.StartTime,
		m.publicURL,
		appt.CancelToken,
	)

	return m.send(*appt.ContactEmail, "Cita confirmada: "+appt.ServiceName, body, appt.ID)
}

// SendReminder mails the day-before reminder.
func (m *Mailer) SendReminder(appt *domain.Appointment) error {
	if appt.ContactEmail == nil || *appt.ContactEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"<p>Te recordamos tu cita para <b>%s</b>.</p>"+
			"<p>Fecha: <b>%s</b><br>Hora: <b>%s</b></p>",
		appt.ServiceName,
		appt.Date.Format("02/01/2006"),
		appt.StartTime,
	)

	return m.send(*appt.ContactEmail, "Recordatorio de cita: "+appt.ServiceName, body, appt.ID)
}

func (m *Mailer) send(to, subject, htmlBody string, appointmentID int64) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send %q for appointment=%d: %w", subject, appointmentID, err)
	}

	m.logger.Info("mailer: sent %q for appointment=%d", subject, appointmentID)
	return nil
}
