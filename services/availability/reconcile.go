package availability

import (
	"context"
	"fmt"

	"lexcitas/models"
	"lexcitas/services/calendarfeed"
	"lexcitas/utils"

	"go.uber.org/zap"
)

// ReconcileReport summarizes one two-way synchronization run.
type ReconcileReport struct {
	Pushed      int    `json:"pushed"`
	Cancelled   int    `json:"cancelled"`
	Rescheduled int    `json:"rescheduled"`
	Unmatched   int    `json:"unmatched"`
	Message     string `json:"message"`
}

// reconcileHorizonDays is how far ahead reconciliation looks.
const reconcileHorizonDays = 30

// Reconcile pushes local appointments lacking a calendar event into the
// feed, and pulls external cancellations and reschedules back into the
// local store. Events are matched by the appointment id stored as a
// private extended property; feed events without one are counted as
// unmatched and left alone. Any error aborts the whole run so a partial
// sync is never applied silently.
func (s *DefaultAvailabilityService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	logger := utils.GetLogger()

	now := s.now()
	today := now.Format("2006-01-02")

	local, err := s.Appointments.ListFromDate(today)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("reconcile: local listing failed: %w", err)
	}

	feedEvents, err := s.Feed.ListRange(ctx, now, now.AddDate(0, 0, reconcileHorizonDays))
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("reconcile: feed listing failed: %w", err)
	}

	eventByApptID := make(map[string]calendarfeed.Event)
	var report ReconcileReport
	for _, event := range feedEvents {
		if event.AppointmentID == "" {
			report.Unmatched++
			continue
		}
		eventByApptID[event.AppointmentID] = event
	}

	for _, appt := range local {
		event, found := eventByApptID[appt.ID]

		if !found {
			// Push: local appointment with no external counterpart.
			record, err := s.Book(ctx, BookingRequest{
				AppointmentID: appt.ID,
				Date:          appt.Date,
				Time:          appt.Time,
				MeetingType:   appt.MeetingType,
				ClientName:    appt.ClientName,
				ClientEmail:   appt.ClientEmail,
				Topic:         appt.Topic,
			})
			if err != nil {
				return ReconcileReport{}, fmt.Errorf("reconcile: push of %s failed: %w", appt.ID, err)
			}
			if err := s.Appointments.SetCalendarEventID(appt.ID, record.CalendarEventID); err != nil {
				return ReconcileReport{}, fmt.Errorf("reconcile: linking event for %s failed: %w", appt.ID, err)
			}
			report.Pushed++
			continue
		}

		// Pull: external cancellation wins over local status.
		if event.Status == "cancelled" {
			if err := s.Appointments.UpdateStatus(appt.ID, models.StatusCancelled); err != nil {
				return ReconcileReport{}, fmt.Errorf("reconcile: cancelling %s failed: %w", appt.ID, err)
			}
			report.Cancelled++
			continue
		}

		// Pull: external reschedule moves the local record.
		eventDate := event.Start.In(s.Location).Format("2006-01-02")
		eventTime := event.Start.In(s.Location).Format("15:04")
		if eventDate != appt.Date || eventTime != appt.Time {
			if err := s.Appointments.UpdateSchedule(appt.ID, eventDate, eventTime); err != nil {
				return ReconcileReport{}, fmt.Errorf("reconcile: rescheduling %s failed: %w", appt.ID, err)
			}
			report.Rescheduled++
		}
	}

	report.Message = fmt.Sprintf("pushed=%d cancelled=%d rescheduled=%d unmatched=%d",
		report.Pushed, report.Cancelled, report.Rescheduled, report.Unmatched)
	logger.Info("reconcile finished", zap.String("report", report.Message))
	return report, nil
}
