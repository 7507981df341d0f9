package appointmentRepo

import "lexcitas/models"

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a new appointment record and returns its id.
	Create(appt *models.Appointment) (string, error)
	// GetByID retrieves an appointment by id. Returns nil when not found.
	GetByID(id string) (*models.Appointment, error)
	// UpdateStatus sets the status of an existing appointment.
	UpdateStatus(id string, status models.AppointmentStatus) error
	// SetCalendarEventID records the external calendar event backing the
	// appointment.
	SetCalendarEventID(id, eventID string) error
	// ListDayEvents returns the busy intervals recorded for a date: both
	// non-cancelled appointments and blocked project events, each tagged.
	ListDayEvents(date string) ([]models.DayEvent, error)
	// ListActiveByEmail returns pending and confirmed appointments for a
	// client email, ordered by date then time.
	ListActiveByEmail(email string) ([]models.Appointment, error)
	// ListByStatusAndDate returns appointments with the given status on a
	// date. Used by the reminder worker and reconciliation.
	ListByStatusAndDate(status models.AppointmentStatus, date string) ([]models.Appointment, error)
	// ListFromDate returns non-cancelled appointments on or after the date.
	ListFromDate(date string) ([]models.Appointment, error)
	// UpdateSchedule moves an appointment to a new date and time.
	UpdateSchedule(id, date, timeStr string) error
}
