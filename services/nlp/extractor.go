package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lexcitas/models"
)

// Extractors are pure and total: they return the zero value when nothing
// matches and never fail on malformed input. All of them may run on the
// same text in any order.

var (
	explicitDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dayOfMonthRe   = regexp.MustCompile(`\b(\d{1,2})\s+de\s+([a-z]+)\b`)

	clockTimeRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	aLasTimeRe  = regexp.MustCompile(`a las (\d{1,2})(?::(\d{2}))?(?:\s*(am|pm))?`)
	bareAmPmRe  = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
)

var weekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
}

var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// ExtractDate pulls a calendar date out of free text, returned as
// "2006-01-02". The reference time anchors relative expressions. Returns
// "" when nothing matches.
func ExtractDate(text string, now time.Time) string {
	norm := Normalize(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if m := explicitDateRe.FindStringSubmatch(norm); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		// Reject impossible dates like 31/02: time.Date silently rolls over.
		if d.Day() != day || d.Month() != time.Month(month) {
			return ""
		}
		return d.Format("2006-01-02")
	}

	if strings.Contains(norm, "pasado manana") {
		return today.AddDate(0, 0, 2).Format("2006-01-02")
	}
	if strings.Contains(norm, "manana") {
		return today.AddDate(0, 0, 1).Format("2006-01-02")
	}
	if strings.Contains(norm, "hoy") {
		return today.Format("2006-01-02")
	}
	if strings.Contains(norm, "proxima semana") || strings.Contains(norm, "semana que viene") {
		return today.AddDate(0, 0, 7).Format("2006-01-02")
	}

	for name, wd := range weekdays {
		if !containsWord(norm, name) {
			continue
		}
		delta := (int(wd) - int(today.Weekday()) + 7) % 7
		if delta == 0 {
			// Today's weekday names next week's occurrence.
			delta = 7
		}
		return today.AddDate(0, 0, delta).Format("2006-01-02")
	}

	if m := dayOfMonthRe.FindStringSubmatch(norm); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := months[m[2]]
		if !ok {
			return ""
		}
		d := time.Date(today.Year(), month, day, 0, 0, 0, 0, now.Location())
		if d.Day() != day {
			return ""
		}
		if d.Before(today) {
			// Already past this year: roll to the next one.
			d = d.AddDate(1, 0, 0)
		}
		return d.Format("2006-01-02")
	}

	return ""
}

// ExtractTime pulls a 24h clock time out of free text, returned as "15:04".
// Hours 1-7 without an explicit meridiem are read as afternoon: nobody asks
// for a legal consultation at five in the morning. Returns "" when nothing
// matches or the result is out of range.
func ExtractTime(text string) string {
	norm := Normalize(text)

	if m := aLasTimeRe.FindStringSubmatch(norm); m != nil {
		return buildTime(m[1], m[2], m[3], true)
	}
	if m := bareAmPmRe.FindStringSubmatch(norm); m != nil {
		return buildTime(m[1], m[2], m[3], false)
	}
	if m := clockTimeRe.FindStringSubmatch(norm); m != nil {
		return buildTime(m[1], m[2], "", false)
	}
	return ""
}

func buildTime(hourStr, minStr, meridiem string, inferPM bool) string {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		if inferPM && hour >= 1 && hour < 8 {
			hour += 12
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

var meetingSynonyms = []struct {
	phrase string
	mt     models.MeetingType
}{
	{"videollamada", models.MeetingVideo},
	{"videoconferencia", models.MeetingVideo},
	{"video llamada", models.MeetingVideo},
	{"por video", models.MeetingVideo},
	{"virtual", models.MeetingVideo},
	{"online", models.MeetingVideo},
	{"en linea", models.MeetingVideo},
	{"zoom", models.MeetingVideo},
	{"meet", models.MeetingVideo},
	{"telefonica", models.MeetingPhone},
	{"por telefono", models.MeetingPhone},
	{"telefono", models.MeetingPhone},
	{"llamada", models.MeetingPhone},
	{"que me llamen", models.MeetingPhone},
	{"presencial", models.MeetingInPerson},
	{"en persona", models.MeetingInPerson},
	{"en el despacho", models.MeetingInPerson},
	{"en la oficina", models.MeetingInPerson},
	{"cara a cara", models.MeetingInPerson},
}

// ExtractMeetingType maps free text to a meeting type. Any explicit
// negation ("pero no ...", or a standalone "no") makes the text ambiguous
// and yields "", even when a type keyword is present: "virtual pero no
// videollamada" must not resolve to video.
func ExtractMeetingType(text string) models.MeetingType {
	norm := Normalize(text)
	if strings.Contains(norm, "pero no") || containsWord(norm, "no") {
		return ""
	}
	for _, syn := range meetingSynonyms {
		if strings.Contains(norm, syn.phrase) {
			return syn.mt
		}
	}
	return ""
}

func containsWord(norm, word string) bool {
	for _, tok := range strings.Fields(norm) {
		if strings.Trim(tok, ",.;:!?¿¡()\"") == word {
			return true
		}
	}
	return false
}
