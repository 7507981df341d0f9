package models

import "time"

// ConversationState is a node in the dialogue state machine. The set is
// closed; sessions loaded with an unknown state are reset before dispatch.
type ConversationState string

const (
	StateInitial                 ConversationState = "initial"
	StateAwaitingStart           ConversationState = "awaiting_start"
	StateAwaitingMeetingType     ConversationState = "awaiting_meeting_type"
	StateAwaitingTopic           ConversationState = "awaiting_topic"
	StateAwaitingDatePreference  ConversationState = "awaiting_date_preference"
	StateAwaitingDate            ConversationState = "awaiting_date"
	StateShowingCalendar         ConversationState = "showing_calendar"
	StateAwaitingTime            ConversationState = "awaiting_time"
	StateAwaitingPersonalData    ConversationState = "awaiting_personal_data"
	StateAwaitingConfirmation    ConversationState = "awaiting_confirmation"
	StateAwaitingChangeSelection ConversationState = "awaiting_change_selection"
	StateAwaitingDocumentChoice  ConversationState = "awaiting_document_decision"

	// Cancellation sub-flow.
	StateAwaitingCancelData         ConversationState = "awaiting_cancel_data"
	StateAwaitingCancelSelection    ConversationState = "awaiting_cancel_selection"
	StateAwaitingCancelConfirmation ConversationState = "awaiting_cancel_confirmation"

	// Case-status sub-flow.
	StateAwaitingStatusOption     ConversationState = "awaiting_status_option"
	StateAwaitingCaseNumber       ConversationState = "awaiting_case_number"
	StateAwaitingClientEmail      ConversationState = "awaiting_client_email"
	StateAwaitingVerificationCode ConversationState = "awaiting_verification_code"
)

var knownStates = map[ConversationState]bool{
	StateInitial:                    true,
	StateAwaitingStart:              true,
	StateAwaitingMeetingType:        true,
	StateAwaitingTopic:              true,
	StateAwaitingDatePreference:     true,
	StateAwaitingDate:               true,
	StateShowingCalendar:            true,
	StateAwaitingTime:               true,
	StateAwaitingPersonalData:       true,
	StateAwaitingConfirmation:       true,
	StateAwaitingChangeSelection:    true,
	StateAwaitingDocumentChoice:     true,
	StateAwaitingCancelData:         true,
	StateAwaitingCancelSelection:    true,
	StateAwaitingCancelConfirmation: true,
	StateAwaitingStatusOption:       true,
	StateAwaitingCaseNumber:         true,
	StateAwaitingClientEmail:        true,
	StateAwaitingVerificationCode:   true,
}

// Valid reports whether the state belongs to the closed set.
func (s ConversationState) Valid() bool {
	return knownStates[s]
}

// PersonalData holds the identity fields collected incrementally from any
// turn's text. A field once set is not overwritten by extraction.
type PersonalData struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Complete reports whether all three fields are present.
func (p PersonalData) Complete() bool {
	return p.Name != "" && p.Email != "" && p.Phone != ""
}

// CaseLookup is scratch space for the case-status sub-flow.
type CaseLookup struct {
	CaseNumber       string `json:"caseNumber,omitempty"`
	VerificationCode string `json:"verificationCode,omitempty"`
	Email            string `json:"email,omitempty"`
	Found            bool   `json:"found,omitempty"`
}

// Session is the per-user conversation state. It is exclusively owned and
// mutated by the conversation engine; the store only serializes it.
type Session struct {
	UserID      string            `json:"userId"`
	State       ConversationState `json:"state"`
	MeetingType MeetingType       `json:"meetingType,omitempty"`
	Date        string            `json:"date,omitempty"` // 2006-01-02
	Time        string            `json:"time,omitempty"` // 15:04
	Topic       string            `json:"topic,omitempty"`
	Personal    PersonalData      `json:"personal"`

	CaseLookup CaseLookup           `json:"caseLookup,omitempty"`
	Cancelable []AppointmentSummary `json:"cancelable,omitempty"`

	// Post-booking document-upload scratch space.
	PendingDocumentDecision bool   `json:"pendingDocumentDecision,omitempty"`
	DocumentsResolved       bool   `json:"documentsResolved,omitempty"`
	TempAppointmentID       string `json:"tempAppointmentId,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// NewSession creates a fresh session in the initial state.
func NewSession(userID string) *Session {
	now := time.Now()
	return &Session{
		UserID:        userID,
		State:         StateInitial,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// SoftReset clears the booking in progress but keeps the client's identity,
// so a follow-up booking does not re-ask for personal data.
func (s *Session) SoftReset() {
	personal := s.Personal
	documentsResolved := s.DocumentsResolved
	*s = *NewSession(s.UserID)
	s.Personal = personal
	s.DocumentsResolved = documentsResolved
}

// HardReset wipes everything, identity included. Used on farewell.
func (s *Session) HardReset() {
	*s = *NewSession(s.UserID)
}
