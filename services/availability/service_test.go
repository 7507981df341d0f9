package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"lexcitas/models"
	"lexcitas/services/calendarfeed"
)

type fakeApptRepo struct {
	dayEvents map[string][]models.DayEvent
	dayErr    error

	appointments []models.Appointment
	listErr      error

	statusUpdates   map[string]models.AppointmentStatus
	eventLinks      map[string]string
	scheduleUpdates map[string][2]string
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{
		dayEvents:       make(map[string][]models.DayEvent),
		statusUpdates:   make(map[string]models.AppointmentStatus),
		eventLinks:      make(map[string]string),
		scheduleUpdates: make(map[string][2]string),
	}
}

func (f *fakeApptRepo) Create(appt *models.Appointment) (string, error) {
	f.appointments = append(f.appointments, *appt)
	return appt.ID, nil
}

func (f *fakeApptRepo) GetByID(id string) (*models.Appointment, error) {
	for _, appt := range f.appointments {
		if appt.ID == id {
			copied := appt
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeApptRepo) UpdateStatus(id string, status models.AppointmentStatus) error {
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeApptRepo) SetCalendarEventID(id, eventID string) error {
	f.eventLinks[id] = eventID
	return nil
}

func (f *fakeApptRepo) ListDayEvents(date string) ([]models.DayEvent, error) {
	if f.dayErr != nil {
		return nil, f.dayErr
	}
	return f.dayEvents[date], nil
}

func (f *fakeApptRepo) ListActiveByEmail(email string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeApptRepo) ListByStatusAndDate(status models.AppointmentStatus, date string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeApptRepo) ListFromDate(date string) ([]models.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.appointments, nil
}

func (f *fakeApptRepo) UpdateSchedule(id, date, timeStr string) error {
	f.scheduleUpdates[id] = [2]string{date, timeStr}
	return nil
}

type fakeFeed struct {
	events   []calendarfeed.Event
	err      error
	inserted []calendarfeed.Event
	canceled []string
}

func (f *fakeFeed) ListDay(ctx context.Context, date string) ([]calendarfeed.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []calendarfeed.Event
	for _, event := range f.events {
		if event.Start.Format("2006-01-02") == date {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeFeed) ListRange(ctx context.Context, from, to time.Time) ([]calendarfeed.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeFeed) Insert(ctx context.Context, event calendarfeed.Event) (calendarfeed.Event, error) {
	if f.err != nil {
		return calendarfeed.Event{}, f.err
	}
	event.ID = "ev-" + event.AppointmentID
	f.inserted = append(f.inserted, event)
	return event, nil
}

func (f *fakeFeed) Cancel(ctx context.Context, eventID string) error {
	f.canceled = append(f.canceled, eventID)
	return nil
}

// Wednesday morning.
var testNow = time.Date(2026, time.September, 9, 8, 0, 0, 0, time.UTC)

func newTestService(repo *fakeApptRepo, feed *fakeFeed) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Appointments: repo,
		Feed:         feed,
		Location:     time.UTC,
		Now:          func() time.Time { return testNow },
	}
}

func contains(slots []string, want string) bool {
	for _, slot := range slots {
		if slot == want {
			return true
		}
	}
	return false
}

func TestGetAvailableSlotsWeekend(t *testing.T) {
	svc := newTestService(newFakeApptRepo(), &fakeFeed{})
	result := svc.GetAvailableSlots(context.Background(), "2026-09-12", models.MeetingInPerson)
	if len(result.Slots) != 0 || len(result.Degraded) != 0 {
		t.Errorf("Saturday should yield nothing, got %+v", result)
	}
}

func TestGetAvailableSlotsPastDate(t *testing.T) {
	svc := newTestService(newFakeApptRepo(), &fakeFeed{})
	result := svc.GetAvailableSlots(context.Background(), "2026-09-01", models.MeetingInPerson)
	if len(result.Slots) != 0 {
		t.Errorf("past date should yield nothing, got %v", result.Slots)
	}
}

func TestGetAvailableSlotsMergesBothSources(t *testing.T) {
	repo := newFakeApptRepo()
	// Local phone appointment blocks [10:00, 10:30).
	repo.dayEvents["2026-09-15"] = []models.DayEvent{
		{Kind: models.EventAppointment, Start: "10:00", MeetingType: models.MeetingPhone},
	}
	// Feed event blocks [10:15, 10:45).
	feed := &fakeFeed{events: []calendarfeed.Event{{
		Start:  time.Date(2026, time.September, 15, 10, 15, 0, 0, time.UTC),
		End:    time.Date(2026, time.September, 15, 10, 45, 0, 0, time.UTC),
		Status: "confirmed",
	}}}
	svc := newTestService(repo, feed)

	result := svc.GetAvailableSlots(context.Background(), "2026-09-15", models.MeetingPhone)
	if len(result.Degraded) != 0 {
		t.Fatalf("unexpected degradation: %v", result.Degraded)
	}
	for _, blocked := range []string{"10:00", "10:30"} {
		if contains(result.Slots, blocked) {
			t.Errorf("slot %s should be blocked", blocked)
		}
	}
	for _, open := range []string{"09:00", "09:30", "11:00", "16:00"} {
		if !contains(result.Slots, open) {
			t.Errorf("slot %s should be open", open)
		}
	}
}

func TestGetAvailableSlotsIgnoresCancelledFeedEvents(t *testing.T) {
	feed := &fakeFeed{events: []calendarfeed.Event{{
		Start:  time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2026, time.September, 15, 11, 0, 0, 0, time.UTC),
		Status: "cancelled",
	}}}
	svc := newTestService(newFakeApptRepo(), feed)

	result := svc.GetAvailableSlots(context.Background(), "2026-09-15", models.MeetingPhone)
	if !contains(result.Slots, "10:00") {
		t.Errorf("cancelled feed event must not block 10:00")
	}
}

func TestGetAvailableSlotsFeedFailureDegrades(t *testing.T) {
	repo := newFakeApptRepo()
	repo.dayEvents["2026-09-15"] = []models.DayEvent{
		{Kind: models.EventAppointment, Start: "09:00", MeetingType: models.MeetingVideo},
	}
	feed := &fakeFeed{err: errors.New("feed down")}
	svc := newTestService(repo, feed)

	result := svc.GetAvailableSlots(context.Background(), "2026-09-15", models.MeetingVideo)
	if len(result.Degraded) != 1 || result.Degraded[0] != SourceCalendarFeed {
		t.Fatalf("Degraded = %v, want [%s]", result.Degraded, SourceCalendarFeed)
	}
	if result.FullyDegraded() {
		t.Error("one live source must not be fully degraded")
	}
	// The local source still filtered the result.
	if contains(result.Slots, "09:00") {
		t.Error("local busy slot offered despite live local source")
	}
	if !contains(result.Slots, "10:00") {
		t.Error("open slot missing from degraded result")
	}
}

func TestGetAvailableSlotsFullyDegraded(t *testing.T) {
	repo := newFakeApptRepo()
	repo.dayErr = errors.New("mongo down")
	feed := &fakeFeed{err: errors.New("feed down")}
	svc := newTestService(repo, feed)

	result := svc.GetAvailableSlots(context.Background(), "2026-09-15", models.MeetingVideo)
	if !result.FullyDegraded() {
		t.Fatalf("expected fully degraded result, got %v", result.Degraded)
	}
}

func TestGetAvailableSlotsSameDayLeadTime(t *testing.T) {
	svc := newTestService(newFakeApptRepo(), &fakeFeed{})
	svc.Now = func() time.Time {
		return time.Date(2026, time.September, 9, 10, 50, 0, 0, time.UTC)
	}

	result := svc.GetAvailableSlots(context.Background(), "2026-09-09", models.MeetingVideo)
	if len(result.Slots) == 0 {
		t.Fatal("expected afternoon slots")
	}
	if result.Slots[0] != "12:00" {
		t.Errorf("first slot = %s, want 12:00 (30 min lead from 10:50)", result.Slots[0])
	}
	if contains(result.Slots, "11:00") {
		t.Error("11:00 violates the same-day lead time")
	}
}

func TestSlotMustFitInsideHalfDay(t *testing.T) {
	svc := newTestService(newFakeApptRepo(), &fakeFeed{})
	result := svc.GetAvailableSlots(context.Background(), "2026-09-15", models.MeetingInPerson)
	// In-person blocks 90 real minutes: 13:00 would end 14:30, past the
	// morning close, and 19:00 would end 20:30.
	for _, tooLate := range []string{"13:00", "19:00"} {
		if contains(result.Slots, tooLate) {
			t.Errorf("slot %s cannot fit a 90-minute block", tooLate)
		}
	}
	if !contains(result.Slots, "12:00") {
		t.Error("12:00 fits (ends 13:30) and should be offered")
	}
}

func TestFindNextAvailableSkipsWeekend(t *testing.T) {
	svc := newTestService(newFakeApptRepo(), &fakeFeed{})
	// Saturday.
	svc.Now = func() time.Time {
		return time.Date(2026, time.September, 12, 10, 0, 0, 0, time.UTC)
	}

	date, slot := svc.FindNextAvailable(context.Background(), models.MeetingVideo)
	if date != "2026-09-14" || slot != "09:00" {
		t.Errorf("next available = (%s, %s), want (2026-09-14, 09:00)", date, slot)
	}
}

func TestFindNextAvailableExhaustedHorizon(t *testing.T) {
	repo := newFakeApptRepo()
	// A project block covering the whole working day, every scan day.
	blocked := []models.DayEvent{{Kind: models.EventProject, Start: "09:00", DurationMin: 11 * 60}}
	for offset := 0; offset < scanHorizonDays; offset++ {
		date := testNow.AddDate(0, 0, offset).Format("2006-01-02")
		repo.dayEvents[date] = blocked
	}
	svc := newTestService(repo, &fakeFeed{})

	date, slot := svc.FindNextAvailable(context.Background(), models.MeetingVideo)
	if date != "" || slot != "" {
		t.Errorf("expected no availability, got (%s, %s)", date, slot)
	}
}

func TestBookCreatesCalendarEvent(t *testing.T) {
	feed := &fakeFeed{}
	svc := newTestService(newFakeApptRepo(), feed)

	record, err := svc.Book(context.Background(), BookingRequest{
		AppointmentID: "appt-1",
		Date:          "2026-09-15",
		Time:          "11:00",
		MeetingType:   models.MeetingInPerson,
		ClientName:    "Ana García",
		ClientEmail:   "ana@example.com",
		Topic:         "divorcio",
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if record.CalendarEventID != "ev-appt-1" {
		t.Errorf("CalendarEventID = %s", record.CalendarEventID)
	}
	if got := record.End.Sub(record.Start); got != 90*time.Minute {
		t.Errorf("blocked duration = %v, want 90m", got)
	}

	if len(feed.inserted) != 1 {
		t.Fatalf("inserted %d events", len(feed.inserted))
	}
	event := feed.inserted[0]
	if event.AppointmentID != "appt-1" {
		t.Errorf("event AppointmentID = %q", event.AppointmentID)
	}
	if event.ColorID != "9" {
		t.Errorf("event ColorID = %q, want in-person color", event.ColorID)
	}
}

func TestReconcile(t *testing.T) {
	repo := newFakeApptRepo()
	repo.appointments = []models.Appointment{
		{ID: "a-push", MeetingType: models.MeetingVideo, Date: "2026-09-15", Time: "10:00", Status: models.StatusConfirmed},
		{ID: "a-cancel", MeetingType: models.MeetingVideo, Date: "2026-09-16", Time: "10:00", Status: models.StatusConfirmed, CalendarEventID: "ev-a-cancel"},
		{ID: "a-move", MeetingType: models.MeetingVideo, Date: "2026-09-17", Time: "10:00", Status: models.StatusConfirmed, CalendarEventID: "ev-a-move"},
	}
	feed := &fakeFeed{events: []calendarfeed.Event{
		{ID: "ev-a-cancel", AppointmentID: "a-cancel", Status: "cancelled",
			Start: time.Date(2026, time.September, 16, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.September, 16, 11, 0, 0, 0, time.UTC)},
		{ID: "ev-a-move", AppointmentID: "a-move", Status: "confirmed",
			Start: time.Date(2026, time.September, 17, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.September, 17, 13, 0, 0, 0, time.UTC)},
		{ID: "ev-manual", Status: "confirmed",
			Start: time.Date(2026, time.September, 18, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.September, 18, 10, 0, 0, 0, time.UTC)},
	}}
	svc := newTestService(repo, feed)

	report, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if report.Pushed != 1 || report.Cancelled != 1 || report.Rescheduled != 1 || report.Unmatched != 1 {
		t.Errorf("report = %+v", report)
	}
	if repo.eventLinks["a-push"] != "ev-a-push" {
		t.Errorf("pushed appointment not linked: %v", repo.eventLinks)
	}
	if repo.statusUpdates["a-cancel"] != models.StatusCancelled {
		t.Errorf("external cancellation not applied: %v", repo.statusUpdates)
	}
	if got := repo.scheduleUpdates["a-move"]; got != [2]string{"2026-09-17", "12:00"} {
		t.Errorf("reschedule not applied: %v", got)
	}
}

func TestReconcileAbortsOnFeedFailure(t *testing.T) {
	feed := &fakeFeed{err: errors.New("feed down")}
	svc := newTestService(newFakeApptRepo(), feed)

	if _, err := svc.Reconcile(context.Background()); err == nil {
		t.Fatal("expected reconcile to abort")
	}
}
