package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lexcitas/models"
	"lexcitas/services/availability"
	"lexcitas/services/nlp"
	"lexcitas/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgAgendaUnavailable = "Ahora mismo no puedo consultar la agenda. Inténtelo de nuevo en unos minutos, por favor."

const infoText = "Somos un despacho jurídico en Madrid. Atendemos de lunes a viernes, de 9:00 a 14:00 y de 16:00 a 20:00. Puede pedir cita presencial, por videoconferencia o telefónica desde este mismo chat."

func (s *DefaultConversationService) handleInitial(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	// An actionable first message skips the welcome menu.
	switch intent {
	case models.IntentSchedule, models.IntentASAP:
		sess.State = models.StateAwaitingMeetingType
		return meetingTypeMenu("Con gusto le agendo una cita. ¿Qué tipo de consulta prefiere?")
	case models.IntentCheckStatus:
		sess.State = models.StateAwaitingStatusOption
		return statusOptionMenu()
	case models.IntentInPerson, models.IntentVideo, models.IntentPhone:
		if mt := nlp.ExtractMeetingType(text); mt.Valid() {
			sess.MeetingType = mt
			sess.State = models.StateAwaitingTopic
			return models.TextReply(fmt.Sprintf("Perfecto, cita %s. ¿Sobre qué asunto desea consultar?", strings.ToLower(mt.Label())))
		}
	}
	sess.State = models.StateAwaitingStart
	return welcomeMenu()
}

func (s *DefaultConversationService) handleAwaitingStart(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	choice, ok := matchOption(text, welcomeMenu().Menu)
	if !ok {
		switch intent {
		case models.IntentSchedule, models.IntentASAP:
			choice = optSchedule
		case models.IntentCheckStatus:
			choice = optStatus
		case models.IntentInfo:
			choice = optInfo
		case models.IntentInPerson, models.IntentVideo, models.IntentPhone:
			if mt := nlp.ExtractMeetingType(text); mt.Valid() {
				sess.MeetingType = mt
				sess.State = models.StateAwaitingTopic
				return models.TextReply(fmt.Sprintf("Perfecto, cita %s. ¿Sobre qué asunto desea consultar?", strings.ToLower(mt.Label())))
			}
		case models.IntentGreeting:
			return welcomeMenu()
		}
	}

	switch choice {
	case optSchedule:
		sess.State = models.StateAwaitingMeetingType
		return meetingTypeMenu("¿Qué tipo de consulta prefiere?")
	case optStatus:
		sess.State = models.StateAwaitingStatusOption
		return statusOptionMenu()
	case optInfo:
		return models.Reply{Text: infoText + "\n\n" + msgAnythingElse, Menu: welcomeMenu().Menu}
	}
	return welcomeMenu()
}

func (s *DefaultConversationService) handleMeetingType(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	mt := nlp.ExtractMeetingType(text)
	if !mt.Valid() {
		if value, ok := matchOption(text, meetingTypeMenu("").Menu); ok {
			mt = models.MeetingType(value)
		}
	}
	if !mt.Valid() {
		return meetingTypeMenu("No le he entendido. ¿Qué tipo de consulta prefiere?")
	}
	sess.MeetingType = mt
	sess.State = models.StateAwaitingTopic
	return models.TextReply(fmt.Sprintf("Perfecto, cita %s de %d minutos. ¿Sobre qué asunto desea consultar?",
		strings.ToLower(mt.Label()), mt.ClientDurationMin()))
}

func (s *DefaultConversationService) handleTopic(ctx context.Context, sess *models.Session, text string) models.Reply {
	topic := strings.TrimSpace(text)
	if topic == "" {
		return models.TextReply("¿Sobre qué asunto desea consultar? Una breve descripción es suficiente.")
	}
	sess.Topic = topic
	sess.State = models.StateAwaitingDatePreference
	return datePreferenceMenu()
}

func (s *DefaultConversationService) handleDatePreference(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	// A concrete date in the answer short-circuits the menu.
	if date := nlp.ExtractDate(text, s.now()); date != "" {
		return s.offerSlotsFor(ctx, sess, date)
	}

	choice, ok := matchOption(text, datePreferenceMenu().Menu)
	if !ok {
		switch intent {
		case models.IntentASAP:
			choice = optASAP
		case models.IntentSpecificDay, models.IntentDate:
			choice = optSpecificDay
		case models.IntentViewCalendar:
			choice = optViewCalendar
		}
	}

	switch choice {
	case optASAP:
		date, _ := s.Availability.FindNextAvailable(ctx, sess.MeetingType)
		if date == "" {
			return models.TextReply("No he encontrado huecos libres en las próximas dos semanas. " + msgAgendaUnavailable)
		}
		return s.offerSlotsFor(ctx, sess, date)
	case optSpecificDay:
		sess.State = models.StateAwaitingDate
		return models.TextReply("¿Qué día le vendría bien? Puede decirme una fecha (por ejemplo, 15/09/2026) o algo como \"el próximo martes\".")
	case optViewCalendar:
		sess.State = models.StateShowingCalendar
		return s.calendarMenu()
	}
	return datePreferenceMenu()
}

// calendarMenu lists the next working days as selectable dates.
func (s *DefaultConversationService) calendarMenu() models.Reply {
	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var menu []models.MenuOption
	for len(menu) < 5 {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		menu = append(menu, models.MenuOption{
			Label: fmt.Sprintf("%s %s", spanishWeekday(day.Weekday()), day.Format("02/01")),
			Value: day.Format("2006-01-02"),
		})
	}
	return models.Reply{Text: "Estos son los próximos días hábiles. ¿Cuál prefiere?", Menu: menu}
}

func spanishWeekday(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "lunes"
	case time.Tuesday:
		return "martes"
	case time.Wednesday:
		return "miércoles"
	case time.Thursday:
		return "jueves"
	case time.Friday:
		return "viernes"
	case time.Saturday:
		return "sábado"
	}
	return "domingo"
}

func (s *DefaultConversationService) handleDate(ctx context.Context, sess *models.Session, text string) models.Reply {
	date := ""
	// Menu transports echo the ISO value back; free text goes through the
	// extractor.
	if parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(text), s.Location); err == nil {
		date = parsed.Format("2006-01-02")
	} else {
		date = nlp.ExtractDate(text, s.now())
	}
	if date == "" {
		return models.TextReply("No he entendido la fecha. Puede indicarla como 15/09/2026 o decirme, por ejemplo, \"el próximo martes\".")
	}
	return s.offerSlotsFor(ctx, sess, date)
}

// offerSlotsFor validates the date and presents its open slots.
func (s *DefaultConversationService) offerSlotsFor(ctx context.Context, sess *models.Session, date string) models.Reply {
	day, err := time.ParseInLocation("2006-01-02", date, s.Location)
	if err != nil {
		return models.TextReply("No he entendido la fecha. ¿Podría repetirla?")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)
	if day.Before(today) {
		sess.State = models.StateAwaitingDate
		return models.TextReply("Esa fecha ya ha pasado. ¿Qué otro día le vendría bien?")
	}
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		sess.State = models.StateAwaitingDate
		return models.TextReply("Solo atendemos de lunes a viernes. ¿Qué otro día le vendría bien?")
	}

	result := s.Availability.GetAvailableSlots(ctx, date, sess.MeetingType)
	if result.FullyDegraded() {
		// With no busy-time source answering, offering slots risks double
		// booking. Ask the client to retry instead.
		sess.State = models.StateAwaitingDate
		return models.TextReply(msgAgendaUnavailable)
	}
	if len(result.Slots) == 0 {
		nextDate, nextSlot := s.Availability.FindNextAvailable(ctx, sess.MeetingType)
		sess.State = models.StateAwaitingDate
		if nextDate == "" {
			return models.TextReply(fmt.Sprintf("Para el %s no quedan horas libres y no veo huecos en las próximas dos semanas. ¿Quiere que lo intentemos con otra fecha?", date))
		}
		return models.TextReply(fmt.Sprintf("Para el %s no quedan horas libres. El primer hueco que veo es el %s a las %s. ¿Le viene bien ese día u otro?", date, nextDate, nextSlot))
	}

	sess.Date = date
	sess.State = models.StateAwaitingTime
	return slotsMenu(date, result.Slots)
}

func (s *DefaultConversationService) handleTime(ctx context.Context, sess *models.Session, text string) models.Reply {
	chosen := nlp.ExtractTime(text)
	result := s.Availability.GetAvailableSlots(ctx, sess.Date, sess.MeetingType)
	if result.FullyDegraded() {
		return models.TextReply(msgAgendaUnavailable)
	}

	if chosen == "" {
		menu := make([]models.MenuOption, 0, len(result.Slots))
		for _, slot := range result.Slots {
			menu = append(menu, models.MenuOption{Label: slot, Value: slot})
		}
		if value, ok := matchOption(text, menu); ok {
			chosen = value
		}
	}
	if chosen == "" {
		return models.TextReply("No he entendido la hora. ¿A qué hora le vendría bien?")
	}

	// Re-validate against the live slot list: another client may have taken
	// it since the menu was rendered.
	available := false
	for _, slot := range result.Slots {
		if slot == chosen {
			available = true
			break
		}
	}
	if !available {
		return slotsMenu(sess.Date, result.Slots)
	}

	sess.Time = chosen
	return s.proceedAfterSchedule(sess)
}

// proceedAfterSchedule routes to personal data collection or, when the
// identity is already known, straight to confirmation.
func (s *DefaultConversationService) proceedAfterSchedule(sess *models.Session) models.Reply {
	if sess.Personal.Complete() {
		sess.State = models.StateAwaitingConfirmation
		return confirmationSummary(sess)
	}
	sess.State = models.StateAwaitingPersonalData
	return models.TextReply(missingPersonalPrompt(sess.Personal))
}

func (s *DefaultConversationService) handlePersonalData(ctx context.Context, sess *models.Session) models.Reply {
	// Extraction already ran for this turn; only the gaps remain.
	if !sess.Personal.Complete() {
		return models.TextReply(missingPersonalPrompt(sess.Personal))
	}
	sess.State = models.StateAwaitingConfirmation
	return confirmationSummary(sess)
}

func (s *DefaultConversationService) handleConfirmation(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	choice, ok := matchOption(text, confirmationSummary(sess).Menu)
	if !ok {
		switch intent {
		case models.IntentConfirm:
			choice = optConfirm
		case models.IntentDeny:
			choice = optChange
		}
	}
	norm := nlp.Normalize(text)
	if choice == "" && (norm == "no" || strings.HasPrefix(norm, "cambiar")) {
		choice = optChange
	}

	switch choice {
	case optConfirm:
		return s.finalizeBooking(ctx, sess)
	case optChange:
		sess.State = models.StateAwaitingChangeSelection
		return changeSelectionMenu()
	}
	return confirmationSummary(sess)
}

// finalizeBooking runs the confirmation side effects. The state flips away
// from awaiting_confirmation before any side effect, so a crashed turn can
// never re-book on retry. Each effect is isolated: a failure is logged and
// the rest still run.
func (s *DefaultConversationService) finalizeBooking(ctx context.Context, sess *models.Session) models.Reply {
	logger := utils.GetLogger()

	appt := &models.Appointment{
		ID:          uuid.New().String(),
		ClientName:  sess.Personal.Name,
		ClientEmail: sess.Personal.Email,
		ClientPhone: sess.Personal.Phone,
		MeetingType: sess.MeetingType,
		Date:        sess.Date,
		Time:        sess.Time,
		Topic:       sess.Topic,
		Status:      models.StatusConfirmed,
		CreatedAt:   s.now(),
	}

	sess.State = models.StateAwaitingDocumentChoice
	sess.PendingDocumentDecision = true
	sess.TempAppointmentID = appt.ID

	record, err := s.Availability.Book(ctx, availability.BookingRequest{
		AppointmentID: appt.ID,
		Date:          appt.Date,
		Time:          appt.Time,
		MeetingType:   appt.MeetingType,
		ClientName:    appt.ClientName,
		ClientEmail:   appt.ClientEmail,
		Topic:         appt.Topic,
	})
	if err != nil {
		// Reconciliation pushes the event later; the booking stands.
		logger.Error("calendar booking failed, appointment kept local",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	} else {
		appt.CalendarEventID = record.CalendarEventID
	}

	if err := s.Notifier.SendConfirmationEmail(ctx, appt); err != nil {
		logger.Warn("confirmation email failed", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
	if appt.ClientPhone != "" {
		if err := s.Notifier.SendConfirmationSMS(ctx, appt); err != nil {
			logger.Warn("confirmation sms failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	clientID, err := s.Clients.Upsert(&models.Client{
		Name:  sess.Personal.Name,
		Email: sess.Personal.Email,
		Phone: sess.Personal.Phone,
	})
	if err != nil {
		logger.Error("client upsert failed", zap.String("appointmentId", appt.ID), zap.Error(err))
	} else {
		appt.ClientID = clientID
	}

	if _, err := s.Appointments.Create(appt); err != nil {
		logger.Error("appointment persist failed", zap.String("appointmentId", appt.ID), zap.Error(err))
	} else if appt.ClientID != "" {
		if err := s.Clients.LinkAppointment(appt.ClientID, appt.ID); err != nil {
			logger.Warn("appointment link failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(appt); err != nil {
			logger.Warn("reminder scheduling failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	return documentOfferMenu()
}

func (s *DefaultConversationService) handleChangeSelection(ctx context.Context, sess *models.Session, text string) models.Reply {
	choice, _ := matchOption(text, changeSelectionMenu().Menu)
	switch choice {
	case optChangeDate:
		sess.Date = ""
		sess.Time = ""
		sess.State = models.StateAwaitingDatePreference
		return datePreferenceMenu()
	case optChangeType:
		// Durations differ per type, so the chosen slot no longer applies.
		sess.MeetingType = ""
		sess.Date = ""
		sess.Time = ""
		sess.State = models.StateAwaitingMeetingType
		return meetingTypeMenu("¿Qué tipo de consulta prefiere?")
	case optChangeTopic:
		sess.Topic = ""
		sess.State = models.StateAwaitingTopic
		return models.TextReply("¿Sobre qué asunto desea consultar?")
	case optChangePersonal:
		sess.Personal = models.PersonalData{}
		sess.State = models.StateAwaitingPersonalData
		return models.TextReply(missingPersonalPrompt(sess.Personal))
	}
	return changeSelectionMenu()
}
