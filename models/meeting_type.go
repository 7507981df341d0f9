package models

// MeetingType identifies how a consultation takes place. The raw values are
// the canonical Spanish tokens the extractor matches against.
type MeetingType string

const (
	MeetingInPerson MeetingType = "presencial"
	MeetingVideo    MeetingType = "videoconferencia"
	MeetingPhone    MeetingType = "telefonica"
)

// ClientDurationMin is the duration communicated to the client, in minutes.
func (m MeetingType) ClientDurationMin() int {
	switch m {
	case MeetingInPerson:
		return 60
	case MeetingVideo:
		return 45
	case MeetingPhone:
		return 20
	default:
		return 60
	}
}

// RealDurationMin is the duration actually blocked on the calendar, in
// minutes. It includes buffer time and may exceed the client duration;
// the two must never be conflated.
func (m MeetingType) RealDurationMin() int {
	switch m {
	case MeetingInPerson:
		return 90
	case MeetingVideo:
		return 60
	case MeetingPhone:
		return 30
	default:
		return 60
	}
}

// GridStepMin is the candidate slot granularity for the type. Phone
// consultations use a finer grid than in-person or video ones.
func (m MeetingType) GridStepMin() int {
	if m == MeetingPhone {
		return 30
	}
	return 60
}

// CalendarColorID maps the type to a Google Calendar event color.
func (m MeetingType) CalendarColorID() string {
	switch m {
	case MeetingInPerson:
		return "9"
	case MeetingVideo:
		return "5"
	case MeetingPhone:
		return "2"
	default:
		return "8"
	}
}

// Label returns the user-facing Spanish name of the type.
func (m MeetingType) Label() string {
	switch m {
	case MeetingInPerson:
		return "Presencial"
	case MeetingVideo:
		return "Videoconferencia"
	case MeetingPhone:
		return "Telefónica"
	default:
		return string(m)
	}
}

// Valid reports whether the value is one of the three known types.
func (m MeetingType) Valid() bool {
	switch m {
	case MeetingInPerson, MeetingVideo, MeetingPhone:
		return true
	}
	return false
}
