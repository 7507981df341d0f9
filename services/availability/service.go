package availability

import (
	"context"
	"time"

	appointmentRepo "lexcitas/database/repository/appointment"
	"lexcitas/models"
	"lexcitas/services/calendarfeed"
	"lexcitas/utils"

	"go.uber.org/zap"
)

// Source names reported in SlotsResult.Degraded.
const (
	SourceLocalStore   = "local_store"
	SourceCalendarFeed = "calendar_feed"
)

// SlotsResult is the outcome of an availability computation. Degraded
// names the busy-time sources that failed to answer: the slot list was
// filtered only by the sources that did. The caller owns the fallback
// policy (offer optimistically or fail closed).
type SlotsResult struct {
	Slots    []string `json:"slots"`
	Degraded []string `json:"degraded,omitempty"`
}

// FullyDegraded reports whether no busy-time source answered.
func (r SlotsResult) FullyDegraded() bool {
	return len(r.Degraded) >= 2
}

// BookingRequest carries everything needed to create the external calendar
// event for a confirmed appointment.
type BookingRequest struct {
	AppointmentID string
	Date          string // 2006-01-02
	Time          string // 15:04
	MeetingType   models.MeetingType
	ClientName    string
	ClientEmail   string
	Topic         string
}

// BookingRecord is the created external event.
type BookingRecord struct {
	CalendarEventID string
	Start           time.Time
	End             time.Time
}

// AvailabilityService resolves offerable slots by merging the local
// appointment store with the external calendar feed, and keeps the two in
// sync.
type AvailabilityService interface {
	// GetAvailableSlots computes the open slots of a date for a meeting
	// type. It never fails: source failures degrade the result instead.
	GetAvailableSlots(ctx context.Context, date string, meetingType models.MeetingType) SlotsResult
	// FindNextAvailable scans the next 14 calendar days for the first date
	// with an open slot. Returns ("", "") when none exists.
	FindNextAvailable(ctx context.Context, meetingType models.MeetingType) (string, string)
	// Book creates the external calendar event for an appointment. Not
	// idempotent: duplicate calls create duplicate events.
	Book(ctx context.Context, req BookingRequest) (*BookingRecord, error)
	// CancelEvent removes an external calendar event.
	CancelEvent(ctx context.Context, eventID string) error
	// Reconcile synchronizes the local store and the external feed both
	// ways. Any failure aborts the whole run.
	Reconcile(ctx context.Context) (ReconcileReport, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Appointments appointmentRepo.AppointmentRepository
	Feed         calendarfeed.Feed
	Location     *time.Location
	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().In(s.Location)
}

// minLeadTimeMin is how far in the future a same-day slot must start.
const minLeadTimeMin = 30

// GetAvailableSlots computes the open slots for a date and meeting type.
func (s *DefaultAvailabilityService) GetAvailableSlots(ctx context.Context, date string, meetingType models.MeetingType) SlotsResult {
	logger := utils.GetLogger()

	day, err := time.ParseInLocation("2006-01-02", date, s.Location)
	if err != nil {
		return SlotsResult{}
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)

	// Weekends and past dates are rejected before any source is queried.
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday || day.Before(today) {
		return SlotsResult{}
	}

	candidates := candidateStarts(meetingType)
	occupied := make([]bool, len(candidates))
	realDur := meetingType.RealDurationMin()
	var degraded []string

	// Local appointment store.
	localEvents, err := s.Appointments.ListDayEvents(date)
	if err != nil {
		logger.Warn("availability: local store unavailable, skipping",
			zap.String("date", date), zap.Error(err))
		degraded = append(degraded, SourceLocalStore)
	} else {
		for _, event := range localEvents {
			start := clockToMinutes(event.Start)
			if start < 0 {
				continue
			}
			end := start + realDurationOf(event)
			markOccupied(candidates, occupied, realDur, start, end)
		}
	}

	// External calendar feed. Any failure here is logged and skipped; it
	// must never fail the whole call.
	feedEvents, err := s.Feed.ListDay(ctx, date)
	if err != nil {
		logger.Warn("availability: calendar feed unavailable, skipping",
			zap.String("date", date), zap.Error(err))
		degraded = append(degraded, SourceCalendarFeed)
	} else {
		for _, event := range feedEvents {
			if event.Status == "cancelled" {
				continue
			}
			start := event.Start.In(s.Location)
			end := event.End.In(s.Location)
			startMin := start.Hour()*60 + start.Minute()
			endMin := end.Hour()*60 + end.Minute()
			markOccupied(candidates, occupied, realDur, startMin, endMin)
		}
	}

	isToday := day.Equal(today)
	nowMin := now.Hour()*60 + now.Minute()

	var slots []string
	for i, start := range candidates {
		if occupied[i] {
			continue
		}
		// A slot must end inside the half-day window it started in.
		window, ok := windowFor(start)
		if !ok || start+realDur > window.endMin {
			continue
		}
		if isToday && start < nowMin+minLeadTimeMin {
			continue
		}
		slots = append(slots, minutesToClock(start))
	}

	if len(degraded) > 0 {
		logger.Warn("availability: result degraded",
			zap.String("date", date), zap.Strings("sources", degraded))
	}
	return SlotsResult{Slots: slots, Degraded: degraded}
}

func markOccupied(candidates []int, occupied []bool, slotDur, busyStart, busyEnd int) {
	for i, start := range candidates {
		if overlaps(start, start+slotDur, busyStart, busyEnd) {
			occupied[i] = true
		}
	}
}

// scanHorizonDays bounds FindNextAvailable.
const scanHorizonDays = 14

// FindNextAvailable returns the first date within the horizon with an open
// slot, together with that slot.
func (s *DefaultAvailabilityService) FindNextAvailable(ctx context.Context, meetingType models.MeetingType) (string, string) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)

	for offset := 0; offset < scanHorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		result := s.GetAvailableSlots(ctx, day.Format("2006-01-02"), meetingType)
		if len(result.Slots) > 0 {
			return day.Format("2006-01-02"), result.Slots[0]
		}
	}
	return "", ""
}
