package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/models"
	"glowbook/services/payment"

	"go.uber.org/zap"
)

// memBookingRepo is an in-memory BookingRepository.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	failNext error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) UpdateStatusIf(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrStaleStatus
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) MarkDepositPaidByIntent(ctx context.Context, intentID string) (*models.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PaymentIntentID != intentID {
			continue
		}
		if b.DepositStatus == models.DepositPaid {
			cp := *b
			return &cp, false, nil
		}
		b.DepositStatus = models.DepositPaid
		b.UpdatedAt = time.Now().UTC()
		cp := *b
		return &cp, true, nil
	}
	return nil, false, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) ListByParty(ctx context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.IsParty(userID) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// memCatalogRepo is an in-memory CatalogRepository.
type memCatalogRepo struct {
	services map[string]*models.Service
}

func newMemCatalogRepo(services ...*models.Service) *memCatalogRepo {
	r := &memCatalogRepo{services: make(map[string]*models.Service)}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *memCatalogRepo) Create(ctx context.Context, s *models.Service) error {
	r.services[s.ID] = s
	return nil
}

func (r *memCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memCatalogRepo) ListByProvider(ctx context.Context, providerID string, activeOnly bool) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if s.ProviderID != providerID {
			continue
		}
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *memCatalogRepo) Update(ctx context.Context, s *models.Service) error {
	r.services[s.ID] = s
	return nil
}

// fakeGateway records intent creations and can be made to fail.
type fakeGateway struct {
	fail     bool
	created  int
	lastAmt  int64
	lastMeta map[string]string
}

func (g *fakeGateway) CreateDepositIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payment.DepositIntent, error) {
	if g.fail {
		return nil, fmt.Errorf("%w: connection refused", payment.ErrGatewayUnavailable)
	}
	g.created++
	g.lastAmt = amount
	g.lastMeta = metadata
	return &payment.DepositIntent{
		IntentID:    fmt.Sprintf("pi_test_%d", g.created),
		ClientToken: fmt.Sprintf("pi_test_%d_secret", g.created),
	}, nil
}

func (g *fakeGateway) VerifyAndParseEvent(payload []byte, sigHeader string) (payment.Event, error) {
	return payment.Event{}, errors.New("not used in engine tests")
}

// recordingDispatcher captures every notification for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	recipient string
	event     string
}

func (d *recordingDispatcher) Notify(recipientID, event string, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, recordedEvent{recipient: recipientID, event: event})
}

func (d *recordingDispatcher) count(event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (d *recordingDispatcher) last() (recordedEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) == 0 {
		return recordedEvent{}, false
	}
	return d.events[len(d.events)-1], true
}

// fakeScheduler records reminder scheduling.
type fakeScheduler struct {
	scheduled []models.ReminderPayload
	fireAts   []time.Time
}

func (s *fakeScheduler) ScheduleReminder(payload models.ReminderPayload, fireAt time.Time) error {
	s.scheduled = append(s.scheduled, payload)
	s.fireAts = append(s.fireAts, fireAt)
	return nil
}

func testService() *models.Service {
	return &models.Service{
		ID:         "svc-1",
		ProviderID: "provider-1",
		Category:   models.CategoryHair,
		Name:       "Silk Press",
		Price:      10000,
		Duration:   90,
		Active:     true,
	}
}

func testEngine(repo *memBookingRepo, cat *memCatalogRepo, gw *fakeGateway, d *recordingDispatcher, sched *fakeScheduler) *DefaultLifecycleEngine {
	e := &DefaultLifecycleEngine{
		Repo:       repo,
		Catalog:    cat,
		Gateway:    gw,
		Dispatcher: d,
		Currency:   "usd",
		Logger:     zap.NewNop(),
	}
	if sched != nil {
		e.Reminders = sched
	}
	return e
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		ProviderID: "provider-1",
		ServiceID:  "svc-1",
		Location: models.Location{
			Address: "12 Rosewood Ave",
			City:    "Austin",
			State:   "TX",
			ZipCode: "78701",
		},
		ScheduledTime: time.Now().Add(72 * time.Hour),
	}
}

func TestCreateBooking(t *testing.T) {
	repo := newMemBookingRepo()
	gw := &fakeGateway{}
	d := &recordingDispatcher{}
	engine := testEngine(repo, newMemCatalogRepo(testService()), gw, d, nil)

	res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	b := res.Booking
	if b.Status != models.BookingPending {
		t.Errorf("new booking status = %s, want Pending", b.Status)
	}
	if b.DepositStatus != models.DepositPending {
		t.Errorf("new deposit status = %s, want Pending", b.DepositStatus)
	}
	if b.TotalAmount != 10000 {
		t.Errorf("total = %d, want 10000", b.TotalAmount)
	}
	if b.DepositAmount != 2000 {
		t.Errorf("deposit = %d, want 2000 (20%% of total)", b.DepositAmount)
	}
	if gw.lastAmt != 2000 {
		t.Errorf("gateway charged %d, want the deposit 2000", gw.lastAmt)
	}
	if res.PaymentClientToken == "" {
		t.Error("expected a payment client token")
	}
	if gw.lastMeta["bookingId"] != b.ID {
		t.Errorf("intent metadata bookingId = %q, want %q", gw.lastMeta["bookingId"], b.ID)
	}

	if got := d.count(models.EventNewBookingRequest); got != 1 {
		t.Errorf("new_booking_request notifications = %d, want 1", got)
	}
	if last, ok := d.last(); !ok || last.recipient != "provider-1" {
		t.Errorf("notification recipient = %v, want provider-1", last.recipient)
	}
}

func TestCreateBookingGatewayFailure(t *testing.T) {
	repo := newMemBookingRepo()
	gw := &fakeGateway{fail: true}
	d := &recordingDispatcher{}
	engine := testEngine(repo, newMemCatalogRepo(testService()), gw, d, nil)

	_, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want ErrGatewayUnavailable", err)
	}
	if len(repo.bookings) != 0 {
		t.Error("no booking must be persisted when the gateway call fails")
	}
	if len(d.events) != 0 {
		t.Error("no notification must fire when the gateway call fails")
	}
}

func TestCreateBookingInactiveService(t *testing.T) {
	svc := testService()
	svc.Active = false
	engine := testEngine(newMemBookingRepo(), newMemCatalogRepo(svc), &fakeGateway{}, &recordingDispatcher{}, nil)

	_, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound for inactive service", err)
	}
}

func TestCreateBookingProviderMismatch(t *testing.T) {
	engine := testEngine(newMemBookingRepo(), newMemCatalogRepo(testService()), &fakeGateway{}, &recordingDispatcher{}, nil)

	in := validInput()
	in.ProviderID = "someone-else"
	_, err := engine.CreateBooking(context.Background(), "client-1", in)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound when the service belongs to another provider", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	engine := testEngine(newMemBookingRepo(), newMemCatalogRepo(testService()), &fakeGateway{}, &recordingDispatcher{}, nil)

	cases := []func(*CreateBookingInput){
		func(in *CreateBookingInput) { in.ProviderID = "" },
		func(in *CreateBookingInput) { in.ServiceID = "" },
		func(in *CreateBookingInput) { in.ScheduledTime = time.Time{} },
		func(in *CreateBookingInput) { in.Location.City = "" },
		func(in *CreateBookingInput) { in.Location.ZipCode = "" },
	}
	for i, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := engine.CreateBooking(context.Background(), "client-1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestFullLifecycle(t *testing.T) {
	repo := newMemBookingRepo()
	d := &recordingDispatcher{}
	sched := &fakeScheduler{}
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, d, sched)
	provider := models.Principal{ID: "provider-1", Role: models.RoleProvider}

	res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	id := res.Booking.ID

	b, err := engine.Transition(context.Background(), provider, id, models.BookingConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if b.Status != models.BookingConfirmed {
		t.Fatalf("status = %s, want Confirmed", b.Status)
	}
	if len(sched.scheduled) != 1 {
		t.Fatalf("reminders scheduled = %d, want 1", len(sched.scheduled))
	}
	wantFire := res.Booking.ScheduledTime.Add(-24 * time.Hour)
	if !sched.fireAts[0].Equal(wantFire) {
		t.Errorf("reminder fires at %v, want %v", sched.fireAts[0], wantFire)
	}

	b, err = engine.Transition(context.Background(), provider, id, models.BookingCompleted)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if b.Status != models.BookingCompleted {
		t.Fatalf("status = %s, want Completed", b.Status)
	}

	if got := d.count(models.EventBookingStatusUpdate); got != 2 {
		t.Errorf("status update notifications = %d, want 2", got)
	}
}

func TestTransitionSkipsConfirm(t *testing.T) {
	repo := newMemBookingRepo()
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, &recordingDispatcher{}, nil)
	provider := models.Principal{ID: "provider-1", Role: models.RoleProvider}

	res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	_, err = engine.Transition(context.Background(), provider, res.Booking.ID, models.BookingCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition for Pending -> Completed", err)
	}

	b, _ := repo.GetByID(context.Background(), res.Booking.ID)
	if b.Status != models.BookingPending {
		t.Errorf("booking moved to %s, must stay Pending", b.Status)
	}
}

func TestTransitionAuthorization(t *testing.T) {
	repo := newMemBookingRepo()
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, &recordingDispatcher{}, nil)

	res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	// The client cannot confirm their own booking.
	client := models.Principal{ID: "client-1", Role: models.RoleClient}
	if _, err := engine.Transition(context.Background(), client, res.Booking.ID, models.BookingConfirmed); !errors.Is(err, ErrForbidden) {
		t.Errorf("client confirm err = %v, want ErrForbidden", err)
	}

	// A stranger cannot cancel.
	stranger := models.Principal{ID: "stranger", Role: models.RoleClient}
	if _, err := engine.Cancel(context.Background(), stranger, res.Booking.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger cancel err = %v, want ErrForbidden", err)
	}
}

func TestCancelByEitherParty(t *testing.T) {
	for _, actorID := range []string{"client-1", "provider-1"} {
		repo := newMemBookingRepo()
		d := &recordingDispatcher{}
		engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, d, nil)

		res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}

		actor := models.Principal{ID: actorID}
		b, err := engine.Cancel(context.Background(), actor, res.Booking.ID)
		if err != nil {
			t.Fatalf("cancel by %s failed: %v", actorID, err)
		}
		if b.Status != models.BookingCancelled {
			t.Fatalf("status = %s, want Cancelled", b.Status)
		}

		// The counterparty is told, not the actor.
		last, _ := d.last()
		if last.recipient != b.CounterpartyOf(actorID) {
			t.Errorf("cancel notified %s, want counterparty %s", last.recipient, b.CounterpartyOf(actorID))
		}
	}
}

func TestCancelTerminalBooking(t *testing.T) {
	repo := newMemBookingRepo()
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, &recordingDispatcher{}, nil)
	provider := models.Principal{ID: "provider-1", Role: models.RoleProvider}

	res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if _, err := engine.Transition(context.Background(), provider, res.Booking.ID, models.BookingConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := engine.Transition(context.Background(), provider, res.Booking.ID, models.BookingCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if _, err := engine.Cancel(context.Background(), provider, res.Booking.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel of completed booking err = %v, want ErrInvalidTransition", err)
	}
}

func TestApplyPaymentEventIdempotent(t *testing.T) {
	repo := newMemBookingRepo()
	d := &recordingDispatcher{}
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, d, nil)

	res, err := engine.CreateBooking(context.Background(), "client-1", validInput())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	intentID := res.Booking.PaymentIntentID

	if err := engine.ApplyPaymentEvent(context.Background(), intentID); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	b, _ := repo.GetByID(context.Background(), res.Booking.ID)
	if b.DepositStatus != models.DepositPaid {
		t.Fatalf("deposit status = %s, want Paid", b.DepositStatus)
	}
	if b.Status != models.BookingPending {
		t.Errorf("lifecycle status = %s, payment must not move it", b.Status)
	}

	// Re-delivery: no error, no state change, no second notification.
	if err := engine.ApplyPaymentEvent(context.Background(), intentID); err != nil {
		t.Fatalf("re-delivery failed: %v", err)
	}
	if got := d.count(models.EventDepositPaid); got != 1 {
		t.Errorf("deposit_paid notifications = %d, want exactly 1", got)
	}
}

func TestApplyPaymentEventUnknownIntent(t *testing.T) {
	repo := newMemBookingRepo()
	d := &recordingDispatcher{}
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, d, nil)

	// Unmatched intents are dropped, not errored, so the gateway stops retrying.
	if err := engine.ApplyPaymentEvent(context.Background(), "pi_never_seen"); err != nil {
		t.Fatalf("unknown intent err = %v, want nil", err)
	}
	if got := d.count(models.EventDepositPaid); got != 0 {
		t.Errorf("deposit_paid notifications = %d, want 0", got)
	}
}

func TestListMyBookings(t *testing.T) {
	repo := newMemBookingRepo()
	engine := testEngine(repo, newMemCatalogRepo(testService()), &fakeGateway{}, &recordingDispatcher{}, nil)

	if _, err := engine.CreateBooking(context.Background(), "client-1", validInput()); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if _, err := engine.CreateBooking(context.Background(), "client-2", validInput()); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	mine, err := engine.ListMyBookings(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("ListMyBookings failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("client-1 bookings = %d, want 1", len(mine))
	}

	provs, err := engine.ListMyBookings(context.Background(), "provider-1")
	if err != nil {
		t.Fatalf("ListMyBookings failed: %v", err)
	}
	if len(provs) != 2 {
		t.Fatalf("provider-1 bookings = %d, want 2", len(provs))
	}
}
