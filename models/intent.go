package models

// Intent is a classified user intention. The label set is closed; the
// classifier returns IntentUnknown when no label clears its threshold.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentSchedule     Intent = "schedule"
	IntentASAP         Intent = "asap"
	IntentViewCalendar Intent = "view_calendar"
	IntentSpecificDay  Intent = "specific_day"
	IntentInPerson     Intent = "in_person"
	IntentVideo        Intent = "video"
	IntentPhone        Intent = "phone"
	IntentDate         Intent = "date"
	IntentPersonalData Intent = "personal_data"
	IntentInfo         Intent = "info"
	IntentConfirm      Intent = "confirm"
	IntentDeny         Intent = "deny"
	IntentCheckStatus  Intent = "check_status"
	IntentFarewell     Intent = "farewell"
	IntentUnknown      Intent = "unknown"
)
