package calendarfeed

import "fmt"

// AuthError signals missing or expired calendar credentials. It is a
// regular catchable failure: availability degrades to local-only data.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("calendar auth error: %s", e.Reason)
}

func NewAuthError(reason string) error {
	return &AuthError{Reason: reason}
}
