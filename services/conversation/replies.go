package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"lexcitas/models"
	"lexcitas/services/nlp"
)

// Menu option values. Selections match on value or 1-based index, never by
// re-parsing the rendered label.
const (
	optSchedule = "schedule"
	optStatus   = "status"
	optInfo     = "info"

	optASAP         = "asap"
	optSpecificDay  = "specific_day"
	optViewCalendar = "view_calendar"

	optConfirm = "confirm"
	optChange  = "change"

	optChangeDate     = "change_date"
	optChangeType     = "change_type"
	optChangeTopic    = "change_topic"
	optChangePersonal = "change_personal"

	optDocYes = "doc_yes"
	optDocNo  = "doc_no"

	optByCaseNumber = "by_case_number"
	optByEmail      = "by_email"

	optCancelYes = "cancel_yes"
	optCancelNo  = "cancel_no"
)

const (
	msgGoodbye = "Ha sido un placer atenderle. ¡Hasta pronto!"
	msgApology = "Disculpe, ha ocurrido un problema inesperado. Empecemos de nuevo: ¿en qué puedo ayudarle?"

	msgAnythingElse = "¿Puedo ayudarle en algo más?"
)

func welcomeMenu() models.Reply {
	return models.Reply{
		Text: "Bienvenido/a al asistente del despacho. ¿En qué puedo ayudarle?",
		Menu: []models.MenuOption{
			{Label: "Pedir una cita", Value: optSchedule},
			{Label: "Estado de mi caso", Value: optStatus},
			{Label: "Información del despacho", Value: optInfo},
		},
	}
}

func meetingTypeMenu(text string) models.Reply {
	return models.Reply{
		Text: text,
		Menu: []models.MenuOption{
			{Label: "Presencial", Value: string(models.MeetingInPerson)},
			{Label: "Videoconferencia", Value: string(models.MeetingVideo)},
			{Label: "Telefónica", Value: string(models.MeetingPhone)},
		},
	}
}

func datePreferenceMenu() models.Reply {
	return models.Reply{
		Text: "¿Cuándo le vendría bien la cita?",
		Menu: []models.MenuOption{
			{Label: "Lo antes posible", Value: optASAP},
			{Label: "Un día concreto", Value: optSpecificDay},
			{Label: "Ver el calendario", Value: optViewCalendar},
		},
	}
}

func slotsMenu(date string, slots []string) models.Reply {
	menu := make([]models.MenuOption, 0, len(slots))
	for _, slot := range slots {
		menu = append(menu, models.MenuOption{Label: slot, Value: slot})
	}
	return models.Reply{
		Text: fmt.Sprintf("Para el %s tenemos estas horas disponibles. ¿Cuál prefiere?", date),
		Menu: menu,
	}
}

func confirmationSummary(sess *models.Session) models.Reply {
	text := fmt.Sprintf(
		"Resumen de su cita:\n· Tipo: %s\n· Fecha: %s\n· Hora: %s\n· Asunto: %s\n· Nombre: %s\n· Email: %s\n· Teléfono: %s\n\n¿Confirmamos la cita?",
		sess.MeetingType.Label(), sess.Date, sess.Time, sess.Topic,
		sess.Personal.Name, sess.Personal.Email, sess.Personal.Phone)
	return models.Reply{
		Text: text,
		Menu: []models.MenuOption{
			{Label: "Sí, confirmar", Value: optConfirm},
			{Label: "No, cambiar algo", Value: optChange},
		},
	}
}

func changeSelectionMenu() models.Reply {
	return models.Reply{
		Text: "¿Qué desea cambiar?",
		Menu: []models.MenuOption{
			{Label: "Fecha y hora", Value: optChangeDate},
			{Label: "Tipo de cita", Value: optChangeType},
			{Label: "Asunto", Value: optChangeTopic},
			{Label: "Mis datos", Value: optChangePersonal},
		},
	}
}

func documentOfferMenu() models.Reply {
	return models.Reply{
		Text: "Su cita ha quedado confirmada. Si lo desea, puede adjuntar documentación relacionada antes de la reunión. ¿Quiere subir algún documento?",
		Menu: []models.MenuOption{
			{Label: "Sí, subir documentos", Value: optDocYes},
			{Label: "No, gracias", Value: optDocNo},
		},
	}
}

func statusOptionMenu() models.Reply {
	return models.Reply{
		Text: "Para consultar el estado de su caso, ¿cómo prefiere identificarlo?",
		Menu: []models.MenuOption{
			{Label: "Por número de expediente", Value: optByCaseNumber},
			{Label: "Por mi correo electrónico", Value: optByEmail},
		},
	}
}

func missingPersonalPrompt(personal models.PersonalData) string {
	var missing []string
	if personal.Name == "" {
		missing = append(missing, "su nombre completo")
	}
	if personal.Email == "" {
		missing = append(missing, "su correo electrónico")
	}
	if personal.Phone == "" {
		missing = append(missing, "un teléfono de contacto")
	}
	if len(missing) == 0 {
		return ""
	}
	return "Para completar la reserva necesito " + strings.Join(missing, ", ") + "."
}

// matchOption resolves a user reply against a menu: by value, by 1-based
// index, or by the rendered label verbatim (plain-text transports echo the
// label back).
func matchOption(text string, options []models.MenuOption) (string, bool) {
	norm := nlp.Normalize(text)
	if norm == "" {
		return "", false
	}
	if idx, err := strconv.Atoi(norm); err == nil {
		if idx >= 1 && idx <= len(options) {
			return options[idx-1].Value, true
		}
		return "", false
	}
	for _, opt := range options {
		if norm == nlp.Normalize(opt.Value) || norm == nlp.Normalize(opt.Label) {
			return opt.Value, true
		}
	}
	return "", false
}
