package availability

import (
	"fmt"
	"strconv"
	"strings"

	"lexcitas/models"
)

// halfDay is one bookable window. Slots must start and end inside the same
// window: nothing straddles the midday break.
type halfDay struct {
	startMin int // minutes from midnight
	endMin   int
}

// The practice's static timetable: mornings 09:00-14:00, afternoons
// 16:00-20:00, Monday through Friday.
var halfDays = []halfDay{
	{startMin: 9 * 60, endMin: 14 * 60},
	{startMin: 16 * 60, endMin: 20 * 60},
}

// defaultRealDurationMin is used when an event's meeting type cannot be
// determined.
const defaultRealDurationMin = 60

// candidateStarts builds the canonical candidate slot list for a meeting
// type, as start offsets in minutes from midnight, in timetable order.
func candidateStarts(meetingType models.MeetingType) []int {
	step := meetingType.GridStepMin()
	var starts []int
	for _, window := range halfDays {
		for t := window.startMin; t < window.endMin; t += step {
			starts = append(starts, t)
		}
	}
	return starts
}

// windowFor returns the half-day window a start offset belongs to.
func windowFor(startMin int) (halfDay, bool) {
	for _, window := range halfDays {
		if startMin >= window.startMin && startMin < window.endMin {
			return window, true
		}
	}
	return halfDay{}, false
}

// overlaps reports whether two half-open intervals intersect.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return max(aStart, bStart) < min(aEnd, bEnd)
}

// minutesToClock formats minutes from midnight as "15:04".
func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// clockToMinutes parses "15:04" into minutes from midnight. Returns -1 on
// malformed input.
func clockToMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return -1
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return -1
	}
	return hour*60 + minute
}

// realDurationOf resolves an event's blocked duration in minutes.
func realDurationOf(event models.DayEvent) int {
	switch event.Kind {
	case models.EventAppointment:
		if event.MeetingType.Valid() {
			return event.MeetingType.RealDurationMin()
		}
		return defaultRealDurationMin
	case models.EventProject:
		if event.DurationMin > 0 {
			return event.DurationMin
		}
		return defaultRealDurationMin
	}
	return defaultRealDurationMin
}
