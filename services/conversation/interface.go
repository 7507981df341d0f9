package conversation

import (
	"context"
	"time"

	appointmentRepo "lexcitas/database/repository/appointment"
	clientRepo "lexcitas/database/repository/client"
	legalcaseRepo "lexcitas/database/repository/legalcase"
	"lexcitas/models"
	"lexcitas/services/availability"
	"lexcitas/services/documents"
	"lexcitas/services/notification"
	"lexcitas/services/session"
)

// ConversationService drives the turn-by-turn dialogue. One inbound
// message produces exactly one state mutation and one outbound reply;
// turns for the same user never overlap.
type ConversationService interface {
	ProcessTurn(ctx context.Context, userID, text string) (models.Reply, error)
}

// IntentClassifier is satisfied by nlp.RuleClassifier; declared here so
// the engine stays pluggable per classifier backend.
type IntentClassifier interface {
	Classify(text string) models.Intent
}

// ReminderScheduler enqueues the day-before reminder for a confirmed
// appointment. Implemented by the cron package; nil disables reminders.
type ReminderScheduler interface {
	ScheduleReminder(appt *models.Appointment) error
}

// DefaultConversationService is the production engine.
type DefaultConversationService struct {
	Sessions     session.Store
	Classifier   IntentClassifier
	Availability availability.AvailabilityService
	Appointments appointmentRepo.AppointmentRepository
	Clients      clientRepo.ClientRepository
	Cases        legalcaseRepo.LegalCaseRepository
	Notifier     notification.NotificationService
	Tokens       documents.TokenService
	Reminders    ReminderScheduler
	Location     *time.Location
	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func (s *DefaultConversationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().In(s.Location)
}
