package notification

import (
	"context"
	"fmt"

	"lexcitas/models"
)

// NotificationService defines the outbound confirmation and reminder
// messages. Every send is best-effort: callers log failures and continue,
// a missed email never blocks a booking.
type NotificationService interface {
	SendConfirmationEmail(ctx context.Context, appt *models.Appointment) error
	SendConfirmationSMS(ctx context.Context, appt *models.Appointment) error
	SendCancellationEmail(ctx context.Context, appt *models.Appointment) error
	SendCancellationSMS(ctx context.Context, appt *models.Appointment) error
	SendReminderEmail(ctx context.Context, appt *models.Appointment) error
}

// DefaultNotificationService composes the email and SMS transports.
type DefaultNotificationService struct {
	Email EmailSender
	SMS   SMSSender
}

// EmailSender delivers one email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

func (s *DefaultNotificationService) SendConfirmationEmail(ctx context.Context, appt *models.Appointment) error {
	subject := "Confirmación de su cita"
	body := fmt.Sprintf(
		"Estimado/a %s:\n\nSu cita ha quedado confirmada.\n\nTipo: %s\nFecha: %s\nHora: %s\nAsunto: %s\n\nUn saludo,\nDespacho Jurídico",
		appt.ClientName, appt.MeetingType.Label(), appt.Date, appt.Time, appt.Topic)
	return s.Email.Send(ctx, appt.ClientEmail, subject, body)
}

func (s *DefaultNotificationService) SendConfirmationSMS(ctx context.Context, appt *models.Appointment) error {
	body := fmt.Sprintf("Cita confirmada: %s el %s a las %s. Despacho Jurídico.",
		appt.MeetingType.Label(), appt.Date, appt.Time)
	return s.SMS.Send(ctx, appt.ClientPhone, body)
}

func (s *DefaultNotificationService) SendCancellationEmail(ctx context.Context, appt *models.Appointment) error {
	subject := "Cancelación de su cita"
	body := fmt.Sprintf(
		"Estimado/a %s:\n\nSu cita del %s a las %s ha sido cancelada.\n\nUn saludo,\nDespacho Jurídico",
		appt.ClientName, appt.Date, appt.Time)
	return s.Email.Send(ctx, appt.ClientEmail, subject, body)
}

func (s *DefaultNotificationService) SendCancellationSMS(ctx context.Context, appt *models.Appointment) error {
	body := fmt.Sprintf("Su cita del %s a las %s ha sido cancelada. Despacho Jurídico.",
		appt.Date, appt.Time)
	return s.SMS.Send(ctx, appt.ClientPhone, body)
}

func (s *DefaultNotificationService) SendReminderEmail(ctx context.Context, appt *models.Appointment) error {
	subject := "Recordatorio de su cita de mañana"
	body := fmt.Sprintf(
		"Estimado/a %s:\n\nLe recordamos su cita de mañana.\n\nTipo: %s\nFecha: %s\nHora: %s\n\nUn saludo,\nDespacho Jurídico",
		appt.ClientName, appt.MeetingType.Label(), appt.Date, appt.Time)
	return s.Email.Send(ctx, appt.ClientEmail, subject, body)
}
