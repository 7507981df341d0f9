package conversation

import (
	"context"
	"fmt"

	"lexcitas/models"
	"lexcitas/utils"

	"go.uber.org/zap"
)

// startCancellation enters the cancellation sub-flow from any state. The
// client is identified by email; if we already have one from this or a
// previous exchange, the active appointments come up immediately.
func (s *DefaultConversationService) startCancellation(ctx context.Context, sess *models.Session) models.Reply {
	if sess.Personal.Email == "" {
		sess.State = models.StateAwaitingCancelData
		return models.TextReply("Claro. Para localizar su cita, ¿me indica el correo electrónico con el que la reservó?")
	}
	return s.listCancelable(ctx, sess)
}

func (s *DefaultConversationService) handleCancelData(ctx context.Context, sess *models.Session) models.Reply {
	// The email, if present in the turn, was already absorbed.
	if sess.Personal.Email == "" {
		return models.TextReply("No he reconocido un correo electrónico. ¿Me lo indica de nuevo, por favor?")
	}
	return s.listCancelable(ctx, sess)
}

func (s *DefaultConversationService) listCancelable(ctx context.Context, sess *models.Session) models.Reply {
	appts, err := s.Appointments.ListActiveByEmail(sess.Personal.Email)
	if err != nil {
		utils.GetLogger().Error("cancellation lookup failed",
			zap.String("email", sess.Personal.Email), zap.Error(err))
		return models.TextReply(msgAgendaUnavailable)
	}
	if len(appts) == 0 {
		s.finishFlow(sess)
		return models.Reply{
			Text: fmt.Sprintf("No encuentro citas activas asociadas a %s. %s", sess.Personal.Email, msgAnythingElse),
			Menu: welcomeMenu().Menu,
		}
	}

	sess.Cancelable = sess.Cancelable[:0]
	menu := make([]models.MenuOption, 0, len(appts))
	for _, appt := range appts {
		summary := models.AppointmentSummary{
			ID:          appt.ID,
			Date:        appt.Date,
			Time:        appt.Time,
			MeetingType: appt.MeetingType,
			Topic:       appt.Topic,
		}
		sess.Cancelable = append(sess.Cancelable, summary)
		menu = append(menu, models.MenuOption{
			Label: fmt.Sprintf("%s %s (%s)", appt.Date, appt.Time, appt.MeetingType.Label()),
			Value: appt.ID,
		})
	}
	sess.State = models.StateAwaitingCancelSelection
	return models.Reply{Text: "Estas son sus citas activas. ¿Cuál desea cancelar?", Menu: menu}
}

func (s *DefaultConversationService) handleCancelSelection(ctx context.Context, sess *models.Session, text string) models.Reply {
	menu := make([]models.MenuOption, 0, len(sess.Cancelable))
	for _, summary := range sess.Cancelable {
		menu = append(menu, models.MenuOption{
			Label: fmt.Sprintf("%s %s (%s)", summary.Date, summary.Time, summary.MeetingType.Label()),
			Value: summary.ID,
		})
	}
	choice, ok := matchOption(text, menu)
	if !ok {
		return models.Reply{Text: "No he entendido cuál. Indíqueme el número de la cita, por favor.", Menu: menu}
	}

	sess.TempAppointmentID = choice
	sess.State = models.StateAwaitingCancelConfirmation
	for _, summary := range sess.Cancelable {
		if summary.ID == choice {
			return models.Reply{
				Text: fmt.Sprintf("¿Confirma que desea cancelar la cita del %s a las %s?", summary.Date, summary.Time),
				Menu: []models.MenuOption{
					{Label: "Sí, cancelarla", Value: optCancelYes},
					{Label: "No, mantenerla", Value: optCancelNo},
				},
			}
		}
	}
	return models.Reply{Text: "No he entendido cuál. Indíqueme el número de la cita, por favor.", Menu: menu}
}

func (s *DefaultConversationService) handleCancelConfirmation(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	menu := []models.MenuOption{
		{Label: "Sí, cancelarla", Value: optCancelYes},
		{Label: "No, mantenerla", Value: optCancelNo},
	}
	choice, ok := matchOption(text, menu)
	if !ok {
		switch intent {
		case models.IntentConfirm:
			choice = optCancelYes
		case models.IntentDeny:
			choice = optCancelNo
		default:
			return models.Reply{Text: "¿Confirma la cancelación?", Menu: menu}
		}
	}

	if choice == optCancelNo {
		s.finishFlow(sess)
		return models.Reply{Text: "De acuerdo, su cita se mantiene. " + msgAnythingElse, Menu: welcomeMenu().Menu}
	}
	return s.cancelAppointment(ctx, sess)
}

// cancelAppointment applies the cancellation: local status first, then the
// external event and the notifications, each best-effort.
func (s *DefaultConversationService) cancelAppointment(ctx context.Context, sess *models.Session) models.Reply {
	logger := utils.GetLogger()
	apptID := sess.TempAppointmentID

	appt, err := s.Appointments.GetByID(apptID)
	if err != nil || appt == nil {
		logger.Error("cancellation fetch failed", zap.String("appointmentId", apptID), zap.Error(err))
		s.finishFlow(sess)
		return models.TextReply(msgApology)
	}

	if err := s.Appointments.UpdateStatus(apptID, models.StatusCancelled); err != nil {
		logger.Error("cancellation update failed", zap.String("appointmentId", apptID), zap.Error(err))
		return models.TextReply(msgAgendaUnavailable)
	}

	if appt.CalendarEventID != "" {
		// Reconciliation cleans up if this fails.
		if err := s.Availability.CancelEvent(ctx, appt.CalendarEventID); err != nil {
			logger.Warn("calendar event removal failed",
				zap.String("appointmentId", apptID), zap.Error(err))
		}
	}

	if err := s.Notifier.SendCancellationEmail(ctx, appt); err != nil {
		logger.Warn("cancellation email failed", zap.String("appointmentId", apptID), zap.Error(err))
	}
	if appt.ClientPhone != "" {
		if err := s.Notifier.SendCancellationSMS(ctx, appt); err != nil {
			logger.Warn("cancellation sms failed", zap.String("appointmentId", apptID), zap.Error(err))
		}
	}

	date, timeStr := appt.Date, appt.Time
	s.finishFlow(sess)
	return models.Reply{
		Text: fmt.Sprintf("Su cita del %s a las %s ha quedado cancelada. %s", date, timeStr, msgAnythingElse),
		Menu: welcomeMenu().Menu,
	}
}

// finishFlow closes a sub-flow keeping the client's identity, leaving the
// session ready for the next request.
func (s *DefaultConversationService) finishFlow(sess *models.Session) {
	sess.SoftReset()
	sess.State = models.StateAwaitingStart
}
