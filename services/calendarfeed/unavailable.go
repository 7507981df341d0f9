package calendarfeed

import (
	"context"
	"time"
)

// unavailableFeed stands in when the real feed cannot be constructed, for
// example when the OAuth token file is missing. Every call fails, which the
// availability layer reports as a degraded source instead of an outage.
type unavailableFeed struct {
	reason string
}

// Unavailable returns a Feed whose every call fails with an auth error.
func Unavailable(reason string) Feed {
	return &unavailableFeed{reason: reason}
}

func (f *unavailableFeed) ListDay(ctx context.Context, date string) ([]Event, error) {
	return nil, NewAuthError(f.reason)
}

func (f *unavailableFeed) ListRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	return nil, NewAuthError(f.reason)
}

func (f *unavailableFeed) Insert(ctx context.Context, event Event) (Event, error) {
	return Event{}, NewAuthError(f.reason)
}

func (f *unavailableFeed) Cancel(ctx context.Context, eventID string) error {
	return NewAuthError(f.reason)
}
