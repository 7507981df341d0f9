package nlp

import "lexcitas/models"

// intentExamples is the curated example table the classifier matches
// against, both for the exact-match fast path and the similarity fallback.
// All entries are stored pre-normalized.
var intentExamples = map[models.Intent][]string{
	models.IntentGreeting: {
		"hola",
		"buenos dias",
		"buenas tardes",
		"buenas noches",
		"que tal",
		"hola buenas",
	},
	models.IntentSchedule: {
		"quiero una cita",
		"quiero agendar una cita",
		"necesito una consulta",
		"quiero reservar una consulta",
		"me gustaria pedir cita",
		"quiero hablar con un abogado",
		"agendar",
	},
	models.IntentASAP: {
		"lo antes posible",
		"cuanto antes",
		"lo mas pronto posible",
		"la primera cita disponible",
		"urgente",
	},
	models.IntentViewCalendar: {
		"ver el calendario",
		"ver disponibilidad",
		"que dias teneis libres",
		"muestrame el calendario",
	},
	models.IntentSpecificDay: {
		"un dia concreto",
		"tengo un dia en mente",
		"prefiero elegir el dia",
		"quiero elegir fecha",
	},
	models.IntentInPerson: {
		"presencial",
		"en persona",
		"prefiero ir al despacho",
		"en la oficina",
	},
	models.IntentVideo: {
		"videoconferencia",
		"videollamada",
		"por video",
		"prefiero online",
	},
	models.IntentPhone: {
		"telefonica",
		"por telefono",
		"que me llamen",
		"prefiero una llamada",
	},
	models.IntentDate: {
		"el lunes",
		"el martes que viene",
		"manana",
		"la proxima semana",
	},
	models.IntentPersonalData: {
		"mis datos son",
		"te paso mis datos",
		"mi correo es",
		"mi telefono es",
	},
	models.IntentInfo: {
		"que servicios ofreceis",
		"cuanto cuesta una consulta",
		"donde esta el despacho",
		"horario de atencion",
		"necesito informacion",
	},
	models.IntentConfirm: {
		"si",
		"si confirmar",
		"confirmo",
		"correcto",
		"perfecto",
		"de acuerdo",
		"vale",
	},
	models.IntentDeny: {
		"no",
		"no es correcto",
		"quiero cambiar algo",
		"cambiar",
		"no exactamente",
	},
	models.IntentCheckStatus: {
		"estado de mi caso",
		"como va mi caso",
		"consultar mi expediente",
		"quiero saber como va mi asunto",
	},
	models.IntentFarewell: {
		"adios",
		"hasta luego",
		"nada mas gracias",
		"eso es todo",
		"gracias hasta pronto",
		"no gracias nada mas",
	},
}

// farewellPhrases short-circuit classification so that a "no" inside a
// goodbye is not misread as a denial.
var farewellPhrases = []string{
	"adios",
	"hasta luego",
	"hasta pronto",
	"eso es todo",
	"nada mas",
	"no gracias nada mas",
	"me despido",
	"chao",
}

// intentKeywords boost a label when its trigger word appears verbatim in
// the input. Raw similarity alone confuses sibling intents (e.g.
// "presencial" vs generic "agendar").
var intentKeywords = map[models.Intent][]string{
	models.IntentSchedule:     {"cita", "agendar", "reservar", "consulta"},
	models.IntentASAP:         {"antes", "pronto", "urgente"},
	models.IntentViewCalendar: {"calendario", "disponibilidad"},
	models.IntentSpecificDay:  {"concreto", "elegir"},
	models.IntentInPerson:     {"presencial", "despacho", "oficina"},
	models.IntentVideo:        {"video", "videollamada", "videoconferencia", "online"},
	models.IntentPhone:        {"telefono", "telefonica", "llamada"},
	models.IntentCheckStatus:  {"caso", "expediente", "estado"},
	models.IntentInfo:         {"informacion", "servicios", "horario", "cuesta"},
}

// literalOverrides pin known-ambiguous phrasings to a label, taking
// precedence over the similarity result.
var literalOverrides = map[string]models.Intent{
	"necesito agendar":        models.IntentSchedule,
	"quiero cancelar mi cita": models.IntentDeny,
	"si confirmar":            models.IntentConfirm,
	"un dia en concreto":      models.IntentSpecificDay,
}
