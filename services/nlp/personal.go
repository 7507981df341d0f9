package nlp

import (
	"regexp"
	"strings"

	"lexcitas/models"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Spanish numbering plan: nine digits, mobiles on 6/7 and landlines on
	// 8/9, optionally prefixed with +34.
	phoneRe = regexp.MustCompile(`(\+34[\s\-]?)?\b([6789]\d{2})[\s\-]?(\d{3})[\s\-]?(\d{3})\b`)

	// Introduction phrasings capture up to three capitalized (or accented)
	// words as a name.
	nameRe = regexp.MustCompile(`(?:[Mm]e llamo|[Mm]i nombre es|[Ss]oy)\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñü]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñü]+){0,2})`)
)

// ExtractPersonalData opportunistically pulls name, email and phone out of
// free text. Fields that do not appear stay empty; the caller decides how
// to merge them into the session.
func ExtractPersonalData(text string) models.PersonalData {
	var data models.PersonalData

	if m := emailRe.FindString(text); m != "" {
		data.Email = strings.ToLower(m)
	}

	if m := phoneRe.FindStringSubmatch(text); m != nil {
		number := m[2] + m[3] + m[4]
		if m[1] != "" {
			// Keep the international prefix when the user wrote one.
			number = "+34" + number
		}
		data.Phone = number
	}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		data.Name = strings.TrimSpace(m[1])
	}

	return data
}
