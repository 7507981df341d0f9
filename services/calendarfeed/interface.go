package calendarfeed

import (
	"context"
	"time"
)

// Event is one busy interval on the external calendar.
type Event struct {
	ID          string
	Start       time.Time
	End         time.Time
	Status      string // "confirmed" or "cancelled"
	Summary     string
	Description string
	ColorID     string
	// AppointmentID is the structured reconciliation key stored as a
	// private extended property on events this service created. Matching
	// never parses the free-text description.
	AppointmentID string
}

// Feed defines the narrow external-calendar surface the core consumes.
// Every failure mode (auth, network, API) surfaces as a returned error,
// never a crash; callers decide the degradation policy.
type Feed interface {
	// ListDay returns the events of one calendar day ("2006-01-02").
	ListDay(ctx context.Context, date string) ([]Event, error)
	// ListRange returns events between two instants.
	ListRange(ctx context.Context, from, to time.Time) ([]Event, error)
	// Insert creates an event and returns it with its assigned id.
	Insert(ctx context.Context, event Event) (Event, error)
	// Cancel removes an event from the calendar.
	Cancel(ctx context.Context, eventID string) error
}
