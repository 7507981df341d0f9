package calendarfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// apptIDProperty is the private extended property carrying the local
// appointment id on events this service creates.
const apptIDProperty = "lexCitaID"

// callTimeout bounds every outbound calendar call. Expiry is treated by
// callers like any other feed failure.
const callTimeout = 10 * time.Second

// GoogleFeed implements Feed against the Google Calendar API using an
// OAuth credential pair with refresh.
type GoogleFeed struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

// NewGoogleFeed builds the feed from a credentials file and a stored token
// file. Missing or unreadable credentials return an AuthError instead of
// crashing.
func NewGoogleFeed(ctx context.Context, credentialsFile, tokenFile, calendarID string, loc *time.Location) (*GoogleFeed, error) {
	credBytes, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, NewAuthError(fmt.Sprintf("cannot read credentials file: %v", err))
	}
	oauthCfg, err := google.ConfigFromJSON(credBytes, gcal.CalendarScope)
	if err != nil {
		return nil, NewAuthError(fmt.Sprintf("cannot parse credentials: %v", err))
	}

	tokenBytes, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, NewAuthError(fmt.Sprintf("cannot read token file: %v", err))
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		return nil, NewAuthError(fmt.Sprintf("cannot parse token: %v", err))
	}

	// The oauth2 client refreshes the access token transparently from the
	// stored refresh token.
	client := oauthCfg.Client(ctx, &token)
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}

	return &GoogleFeed{svc: svc, calendarID: calendarID, loc: loc}, nil
}

// ListDay returns the events of one calendar day.
func (f *GoogleFeed) ListDay(ctx context.Context, date string) ([]Event, error) {
	day, err := time.ParseInLocation("2006-01-02", date, f.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return f.ListRange(ctx, day, day.AddDate(0, 0, 1))
}

// ListRange returns events between two instants.
func (f *GoogleFeed) ListRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	call := f.svc.Events.List(f.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(true).
		OrderBy("startTime").
		Context(ctx)

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("calendar list failed: %w", err)
	}

	var events []Event
	for _, item := range result.Items {
		ev, ok := f.fromAPIEvent(item)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Insert creates an event and returns it with its assigned id.
func (f *GoogleFeed) Insert(ctx context.Context, event Event) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	apiEvent := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		ColorId:     event.ColorID,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}
	if event.AppointmentID != "" {
		apiEvent.ExtendedProperties = &gcal.EventExtendedProperties{
			Private: map[string]string{apptIDProperty: event.AppointmentID},
		}
	}

	created, err := f.svc.Events.Insert(f.calendarID, apiEvent).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("calendar insert failed: %w", err)
	}
	event.ID = created.Id
	event.Status = created.Status
	return event, nil
}

// Cancel removes an event from the calendar.
func (f *GoogleFeed) Cancel(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := f.svc.Events.Delete(f.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar delete failed: %w", err)
	}
	return nil
}

// fromAPIEvent maps an API event onto the local shape. All-day events have
// no DateTime and are skipped: the practice blocks time, not days.
func (f *GoogleFeed) fromAPIEvent(item *gcal.Event) (Event, bool) {
	if item.Start == nil || item.End == nil || item.Start.DateTime == "" || item.End.DateTime == "" {
		return Event{}, false
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return Event{}, false
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return Event{}, false
	}

	ev := Event{
		ID:          item.Id,
		Start:       start.In(f.loc),
		End:         end.In(f.loc),
		Status:      item.Status,
		Summary:     item.Summary,
		Description: item.Description,
		ColorID:     item.ColorId,
	}
	if item.ExtendedProperties != nil {
		ev.AppointmentID = item.ExtendedProperties.Private[apptIDProperty]
	}
	return ev, true
}
