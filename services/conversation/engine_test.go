package conversation

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"lexcitas/models"
	"lexcitas/services/availability"
	"lexcitas/services/nlp"
	"lexcitas/services/session"

	"golang.org/x/crypto/bcrypt"
)

// Wednesday.
var testNow = time.Date(2026, time.September, 9, 9, 0, 0, 0, time.UTC)

// callLog records the order in which the fakes are hit.
type callLog struct {
	seq []string
}

func (l *callLog) add(name string) {
	if l != nil {
		l.seq = append(l.seq, name)
	}
}

type fakeAvailability struct {
	log      *callLog
	slots    availability.SlotsResult
	nextDate string
	nextSlot string
	booked   []availability.BookingRequest
	canceled []string
}

func (f *fakeAvailability) GetAvailableSlots(ctx context.Context, date string, meetingType models.MeetingType) availability.SlotsResult {
	return f.slots
}

func (f *fakeAvailability) FindNextAvailable(ctx context.Context, meetingType models.MeetingType) (string, string) {
	return f.nextDate, f.nextSlot
}

func (f *fakeAvailability) Book(ctx context.Context, req availability.BookingRequest) (*availability.BookingRecord, error) {
	f.log.add("book")
	f.booked = append(f.booked, req)
	return &availability.BookingRecord{CalendarEventID: "ev-" + req.AppointmentID}, nil
}

func (f *fakeAvailability) CancelEvent(ctx context.Context, eventID string) error {
	f.canceled = append(f.canceled, eventID)
	return nil
}

func (f *fakeAvailability) Reconcile(ctx context.Context) (availability.ReconcileReport, error) {
	return availability.ReconcileReport{}, nil
}

type fakeApptStore struct {
	log           *callLog
	created       []models.Appointment
	active        []models.Appointment
	statusUpdates map[string]models.AppointmentStatus
}

func newFakeApptStore() *fakeApptStore {
	return &fakeApptStore{statusUpdates: make(map[string]models.AppointmentStatus)}
}

func (f *fakeApptStore) Create(appt *models.Appointment) (string, error) {
	f.log.add("create_appointment")
	f.created = append(f.created, *appt)
	return appt.ID, nil
}

func (f *fakeApptStore) GetByID(id string) (*models.Appointment, error) {
	for _, appt := range f.active {
		if appt.ID == id {
			copied := appt
			return &copied, nil
		}
	}
	for _, appt := range f.created {
		if appt.ID == id {
			copied := appt
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeApptStore) UpdateStatus(id string, status models.AppointmentStatus) error {
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeApptStore) SetCalendarEventID(id, eventID string) error { return nil }

func (f *fakeApptStore) ListDayEvents(date string) ([]models.DayEvent, error) { return nil, nil }

func (f *fakeApptStore) ListActiveByEmail(email string) ([]models.Appointment, error) {
	return f.active, nil
}

func (f *fakeApptStore) ListByStatusAndDate(status models.AppointmentStatus, date string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeApptStore) ListFromDate(date string) ([]models.Appointment, error) { return nil, nil }

func (f *fakeApptStore) UpdateSchedule(id, date, timeStr string) error { return nil }

type fakeClientStore struct {
	log     *callLog
	byEmail map[string]*models.Client
	links   map[string][]string
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{
		byEmail: make(map[string]*models.Client),
		links:   make(map[string][]string),
	}
}

func (f *fakeClientStore) Upsert(client *models.Client) (string, error) {
	f.log.add("upsert_client")
	id := "client-" + client.Email
	client.ID = id
	f.byEmail[client.Email] = client
	return id, nil
}

func (f *fakeClientStore) GetByEmail(email string) (*models.Client, error) {
	return f.byEmail[email], nil
}

func (f *fakeClientStore) GetByPhone(phone string) (*models.Client, error) { return nil, nil }

func (f *fakeClientStore) LinkAppointment(clientID, appointmentID string) error {
	f.log.add("link_appointment")
	f.links[clientID] = append(f.links[clientID], appointmentID)
	return nil
}

type fakeCaseStore struct {
	byNumber map[string]*models.LegalCase
}

func (f *fakeCaseStore) GetByCaseNumber(caseNumber string) (*models.LegalCase, error) {
	if f.byNumber == nil {
		return nil, nil
	}
	return f.byNumber[caseNumber], nil
}

func (f *fakeCaseStore) GetLatestByEmail(email string) (*models.LegalCase, error) { return nil, nil }

type fakeNotifier struct {
	log                *callLog
	confirmationEmails []string
	confirmationSMS    []string
	cancellationEmails []string
	cancellationSMS    []string
	reminderEmails     []string
}

func (f *fakeNotifier) SendConfirmationEmail(ctx context.Context, appt *models.Appointment) error {
	f.log.add("confirmation_email")
	f.confirmationEmails = append(f.confirmationEmails, appt.ID)
	return nil
}

func (f *fakeNotifier) SendConfirmationSMS(ctx context.Context, appt *models.Appointment) error {
	f.log.add("confirmation_sms")
	f.confirmationSMS = append(f.confirmationSMS, appt.ID)
	return nil
}

func (f *fakeNotifier) SendCancellationEmail(ctx context.Context, appt *models.Appointment) error {
	f.cancellationEmails = append(f.cancellationEmails, appt.ID)
	return nil
}

func (f *fakeNotifier) SendCancellationSMS(ctx context.Context, appt *models.Appointment) error {
	f.cancellationSMS = append(f.cancellationSMS, appt.ID)
	return nil
}

func (f *fakeNotifier) SendReminderEmail(ctx context.Context, appt *models.Appointment) error {
	f.reminderEmails = append(f.reminderEmails, appt.ID)
	return nil
}

type fakeTokens struct {
	generated []string
}

func (f *fakeTokens) GenerateUploadToken(ctx context.Context, appointmentID string) (string, error) {
	f.generated = append(f.generated, appointmentID)
	return "tok-" + appointmentID, nil
}

func (f *fakeTokens) Validate(ctx context.Context, token string) (string, error) { return "", nil }

func (f *fakeTokens) MarkUsed(ctx context.Context, token string) error { return nil }

func (f *fakeTokens) UploadURL(token string) string { return "https://example.test/subir?token=" + token }

type testEnv struct {
	svc      *DefaultConversationService
	store    *session.MemoryStore
	log      *callLog
	avail    *fakeAvailability
	appts    *fakeApptStore
	clients  *fakeClientStore
	notifier *fakeNotifier
	tokens   *fakeTokens
}

func newTestEnv() *testEnv {
	log := &callLog{}
	env := &testEnv{
		store:    session.NewMemoryStore(),
		log:      log,
		avail:    &fakeAvailability{log: log},
		appts:    newFakeApptStore(),
		clients:  newFakeClientStore(),
		notifier: &fakeNotifier{log: log},
		tokens:   &fakeTokens{},
	}
	env.appts.log = log
	env.clients.log = log
	env.svc = &DefaultConversationService{
		Sessions:     env.store,
		Classifier:   nlp.NewRuleClassifier(),
		Availability: env.avail,
		Appointments: env.appts,
		Clients:      env.clients,
		Cases:        &fakeCaseStore{},
		Notifier:     env.notifier,
		Tokens:       env.tokens,
		Location:     time.UTC,
		Now:          func() time.Time { return testNow },
	}
	return env
}

func (env *testEnv) turn(t *testing.T, userID, text string) models.Reply {
	t.Helper()
	reply, err := env.svc.ProcessTurn(context.Background(), userID, text)
	if err != nil {
		t.Fatalf("ProcessTurn(%q) failed: %v", text, err)
	}
	return reply
}

func (env *testEnv) state(t *testing.T, userID string) *models.Session {
	t.Helper()
	sess, err := env.store.Get(context.Background(), userID)
	if err != nil || sess == nil {
		t.Fatalf("session missing for %s: %v", userID, err)
	}
	return sess
}

func TestFullBookingFlow(t *testing.T) {
	env := newTestEnv()
	env.avail.nextDate = "2026-09-14"
	env.avail.nextSlot = "09:00"
	env.avail.slots = availability.SlotsResult{Slots: []string{"09:00", "10:00"}}
	user := "u1"

	reply := env.turn(t, user, "hola")
	if len(reply.Menu) == 0 {
		t.Fatal("greeting should present the welcome menu")
	}
	if got := env.state(t, user).State; got != models.StateAwaitingStart {
		t.Fatalf("state = %s", got)
	}

	env.turn(t, user, "quiero una cita")
	if got := env.state(t, user).State; got != models.StateAwaitingMeetingType {
		t.Fatalf("state = %s", got)
	}

	env.turn(t, user, "presencial")
	sess := env.state(t, user)
	if sess.MeetingType != models.MeetingInPerson || sess.State != models.StateAwaitingTopic {
		t.Fatalf("after type: %+v", sess)
	}

	env.turn(t, user, "un divorcio")
	if got := env.state(t, user).State; got != models.StateAwaitingDatePreference {
		t.Fatalf("state = %s", got)
	}

	env.turn(t, user, "lo antes posible")
	sess = env.state(t, user)
	if sess.Date != "2026-09-14" || sess.State != models.StateAwaitingTime {
		t.Fatalf("after asap: date=%s state=%s", sess.Date, sess.State)
	}

	env.turn(t, user, "a las 9")
	sess = env.state(t, user)
	if sess.Time != "09:00" || sess.State != models.StateAwaitingPersonalData {
		t.Fatalf("after time: time=%s state=%s", sess.Time, sess.State)
	}

	reply = env.turn(t, user, "Me llamo Ana García, mi correo es ana@example.com y mi teléfono es 612345678")
	sess = env.state(t, user)
	if !sess.Personal.Complete() || sess.State != models.StateAwaitingConfirmation {
		t.Fatalf("after personal data: %+v", sess)
	}
	if !strings.Contains(reply.Text, "Ana García") {
		t.Errorf("summary should echo the name, got %q", reply.Text)
	}

	reply = env.turn(t, user, "sí")
	sess = env.state(t, user)
	if sess.State != models.StateAwaitingDocumentChoice {
		t.Fatalf("after confirm: state = %s", sess.State)
	}
	if len(env.appts.created) != 1 {
		t.Fatalf("created %d appointments", len(env.appts.created))
	}
	appt := env.appts.created[0]
	if appt.MeetingType != models.MeetingInPerson || appt.Date != "2026-09-14" || appt.Time != "09:00" {
		t.Errorf("appointment = %+v", appt)
	}
	if appt.Status != models.StatusConfirmed {
		t.Errorf("status = %s", appt.Status)
	}
	if appt.CalendarEventID == "" {
		t.Error("calendar event not linked")
	}
	if len(env.avail.booked) != 1 {
		t.Errorf("booked %d calendar events", len(env.avail.booked))
	}
	if env.clients.byEmail["ana@example.com"] == nil {
		t.Error("client not upserted")
	}
	if len(env.clients.links["client-ana@example.com"]) != 1 {
		t.Error("appointment not linked to client")
	}
	if len(env.notifier.confirmationEmails) != 1 || len(env.notifier.confirmationSMS) != 1 {
		t.Errorf("notifications: email=%d sms=%d",
			len(env.notifier.confirmationEmails), len(env.notifier.confirmationSMS))
	}

	reply = env.turn(t, user, "sí, subir documentos")
	if !strings.Contains(reply.Text, "tok-"+appt.ID) {
		t.Errorf("reply should carry the upload link, got %q", reply.Text)
	}
	sess = env.state(t, user)
	if sess.State != models.StateAwaitingStart {
		t.Errorf("after documents: state = %s", sess.State)
	}
	if sess.Personal.Name != "Ana García" {
		t.Error("identity should survive the booking")
	}
	if sess.TempAppointmentID != "" || sess.PendingDocumentDecision {
		t.Errorf("booking scratch state should be cleared after the upload offer: %+v", sess)
	}
	if !sess.DocumentsResolved {
		t.Error("document question should stay resolved for the session")
	}
}

func TestFarewellHardResets(t *testing.T) {
	env := newTestEnv()
	user := "u2"

	env.turn(t, user, "hola")
	env.turn(t, user, "Me llamo Luis Ortega, mi correo es luis@example.com y mi teléfono es 699111222")

	reply := env.turn(t, user, "adiós")
	if !strings.Contains(strings.ToLower(reply.Text), "hasta pronto") {
		t.Errorf("farewell reply = %q", reply.Text)
	}
	sess := env.state(t, user)
	if sess.State != models.StateInitial {
		t.Errorf("state = %s, want initial", sess.State)
	}
	if sess.Personal.Name != "" || sess.Personal.Email != "" {
		t.Errorf("identity should be wiped on farewell: %+v", sess.Personal)
	}
}

func TestConfirmationNoMeansChange(t *testing.T) {
	env := newTestEnv()
	user := "u3"
	sess := models.NewSession(user)
	sess.State = models.StateAwaitingConfirmation
	sess.MeetingType = models.MeetingVideo
	sess.Date = "2026-09-14"
	sess.Time = "10:00"
	sess.Topic = "herencia"
	sess.Personal = models.PersonalData{Name: "Eva Ruiz", Email: "eva@example.com", Phone: "688555444"}
	if err := env.store.Put(context.Background(), sess); err != nil {
		t.Fatal(err)
	}

	reply := env.turn(t, user, "no")
	if env.state(t, user).State != models.StateAwaitingChangeSelection {
		t.Fatalf("bare no while confirming must open the change menu, state = %s", env.state(t, user).State)
	}
	if len(reply.Menu) != 4 {
		t.Errorf("change menu has %d options", len(reply.Menu))
	}
}

func TestBookingSideEffectOrder(t *testing.T) {
	env := newTestEnv()
	user := "u9"
	sess := models.NewSession(user)
	sess.State = models.StateAwaitingConfirmation
	sess.MeetingType = models.MeetingInPerson
	sess.Date = "2026-09-14"
	sess.Time = "09:00"
	sess.Topic = "herencia"
	sess.Personal = models.PersonalData{Name: "Eva Ruiz", Email: "eva@example.com", Phone: "688555444"}
	if err := env.store.Put(context.Background(), sess); err != nil {
		t.Fatal(err)
	}

	env.turn(t, user, "sí")

	want := []string{
		"book",
		"confirmation_email",
		"confirmation_sms",
		"upsert_client",
		"create_appointment",
		"link_appointment",
	}
	if !reflect.DeepEqual(env.log.seq, want) {
		t.Errorf("side effect order = %v, want %v", env.log.seq, want)
	}
}

func TestCancellationFlow(t *testing.T) {
	env := newTestEnv()
	user := "u4"
	env.appts.active = []models.Appointment{{
		ID:              "appt-9",
		ClientName:      "Ana García",
		ClientEmail:     "ana@example.com",
		ClientPhone:     "612345678",
		MeetingType:     models.MeetingPhone,
		Date:            "2026-09-16",
		Time:            "10:00",
		Status:          models.StatusConfirmed,
		CalendarEventID: "ev-appt-9",
	}}

	env.turn(t, user, "hola")
	reply := env.turn(t, user, "quiero cancelar mi cita, mi correo es ana@example.com")
	if env.state(t, user).State != models.StateAwaitingCancelSelection {
		t.Fatalf("state = %s", env.state(t, user).State)
	}
	if len(reply.Menu) != 1 {
		t.Fatalf("expected one cancelable appointment, menu = %v", reply.Menu)
	}

	env.turn(t, user, "1")
	if env.state(t, user).State != models.StateAwaitingCancelConfirmation {
		t.Fatalf("state = %s", env.state(t, user).State)
	}

	reply = env.turn(t, user, "sí, cancelarla")
	if env.appts.statusUpdates["appt-9"] != models.StatusCancelled {
		t.Error("appointment not cancelled locally")
	}
	if len(env.avail.canceled) != 1 || env.avail.canceled[0] != "ev-appt-9" {
		t.Errorf("calendar event not cancelled: %v", env.avail.canceled)
	}
	if len(env.notifier.cancellationEmails) != 1 {
		t.Error("cancellation email not sent")
	}
	if !strings.Contains(reply.Text, "cancelada") {
		t.Errorf("reply = %q", reply.Text)
	}
	if env.state(t, user).State != models.StateAwaitingStart {
		t.Errorf("state = %s", env.state(t, user).State)
	}
}

func TestCaseStatusFlow(t *testing.T) {
	env := newTestEnv()
	user := "u5"
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	env.svc.Cases = &fakeCaseStore{byNumber: map[string]*models.LegalCase{
		"EXP-2026-0042": {
			CaseNumber:           "EXP-2026-0042",
			ClientEmail:          "ana@example.com",
			Title:                "Reclamación de cantidad",
			Status:               "En tramitación",
			LastUpdate:           time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC),
			VerificationCodeHash: string(hash),
		},
	}}

	env.turn(t, user, "hola")
	env.turn(t, user, "estado de mi caso")
	if env.state(t, user).State != models.StateAwaitingStatusOption {
		t.Fatalf("state = %s", env.state(t, user).State)
	}

	env.turn(t, user, "por número de expediente")
	if env.state(t, user).State != models.StateAwaitingCaseNumber {
		t.Fatalf("state = %s", env.state(t, user).State)
	}

	env.turn(t, user, "EXP-2026-0042")
	if env.state(t, user).State != models.StateAwaitingVerificationCode {
		t.Fatalf("state = %s", env.state(t, user).State)
	}

	reply := env.turn(t, user, "wrong-code")
	if !strings.Contains(reply.Text, "no es válido") {
		t.Errorf("bad code reply = %q", reply.Text)
	}
	if env.state(t, user).State != models.StateAwaitingVerificationCode {
		t.Fatalf("bad code should keep asking, state = %s", env.state(t, user).State)
	}

	reply = env.turn(t, user, "1234")
	if !strings.Contains(reply.Text, "En tramitación") {
		t.Errorf("status reply = %q", reply.Text)
	}
	if env.state(t, user).State != models.StateAwaitingStart {
		t.Errorf("state = %s", env.state(t, user).State)
	}
}

type panickingAvailability struct {
	fakeAvailability
}

func (p *panickingAvailability) GetAvailableSlots(ctx context.Context, date string, meetingType models.MeetingType) availability.SlotsResult {
	panic("availability backend blew up")
}

func TestPanicDuringTurnApologizesAndKeepsIdentity(t *testing.T) {
	env := newTestEnv()
	env.svc.Availability = &panickingAvailability{}
	user := "u8"
	sess := models.NewSession(user)
	sess.State = models.StateAwaitingDate
	sess.MeetingType = models.MeetingPhone
	sess.Topic = "consulta laboral"
	sess.Personal = models.PersonalData{Name: "Ana García", Email: "ana@example.com", Phone: "612345678"}
	if err := env.store.Put(context.Background(), sess); err != nil {
		t.Fatal(err)
	}

	reply := env.turn(t, user, "mañana")
	if reply.Text != msgApology {
		t.Errorf("reply = %q, want the apology", reply.Text)
	}
	sess = env.state(t, user)
	if sess.State != models.StateInitial {
		t.Errorf("state = %s, want initial after recovery", sess.State)
	}
	if sess.MeetingType != "" || sess.Topic != "" {
		t.Errorf("booking progress should be cleared: %+v", sess)
	}
	if sess.Personal.Name != "Ana García" || sess.Personal.Email != "ana@example.com" {
		t.Errorf("identity should survive the reset: %+v", sess.Personal)
	}
}

func TestUnknownStateResets(t *testing.T) {
	env := newTestEnv()
	user := "u6"
	sess := models.NewSession(user)
	sess.State = models.ConversationState("legacy_state")
	if err := env.store.Put(context.Background(), sess); err != nil {
		t.Fatal(err)
	}

	env.turn(t, user, "hola")
	if got := env.state(t, user).State; !got.Valid() {
		t.Errorf("state not recovered: %s", got)
	}
}

func TestUnknownIntentAtStartReprompts(t *testing.T) {
	env := newTestEnv()
	user := "u7"
	env.turn(t, user, "hola")
	reply := env.turn(t, user, "me gusta el cine francés")
	if len(reply.Menu) == 0 {
		t.Error("unrecognized input should re-present the menu")
	}
	if env.state(t, user).State != models.StateAwaitingStart {
		t.Errorf("state = %s", env.state(t, user).State)
	}
}
