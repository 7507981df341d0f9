package availability

import (
	"context"
	"fmt"
	"time"

	"lexcitas/services/calendarfeed"
)

// Book creates the external calendar event for a confirmed appointment.
// The event is colored by meeting type and carries a human-readable
// description plus the appointment id as structured metadata for later
// reconciliation. The resolver performs no idempotency check: a retried
// call creates a second event, the caller controls retry.
func (s *DefaultAvailabilityService) Book(ctx context.Context, req BookingRequest) (*BookingRecord, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, s.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date/time %q %q: %w", req.Date, req.Time, err)
	}
	end := start.Add(time.Duration(req.MeetingType.RealDurationMin()) * time.Minute)

	event := calendarfeed.Event{
		Summary: fmt.Sprintf("Cita %s — %s", req.MeetingType.Label(), req.ClientName),
		Description: fmt.Sprintf("Tipo: %s\nCliente: %s (%s)\nAsunto: %s",
			req.MeetingType.Label(), req.ClientName, req.ClientEmail, req.Topic),
		ColorID:       req.MeetingType.CalendarColorID(),
		Start:         start,
		End:           end,
		AppointmentID: req.AppointmentID,
	}

	created, err := s.Feed.Insert(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	return &BookingRecord{
		CalendarEventID: created.ID,
		Start:           start,
		End:             end,
	}, nil
}

// CancelEvent removes an external calendar event.
func (s *DefaultAvailabilityService) CancelEvent(ctx context.Context, eventID string) error {
	return s.Feed.Cancel(ctx, eventID)
}
