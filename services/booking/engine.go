package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/models"
	"glowbook/services/notification"
	"glowbook/services/payment"
	"glowbook/services/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DepositRate is the fraction of the service total collected up front.
const DepositRate = 0.20

// reminderLead is how long before the appointment the reminder fires.
const reminderLead = 24 * time.Hour

// ComputeDeposit returns the deposit for a total, in minor currency units.
func ComputeDeposit(total int64) int64 {
	return int64(math.Round(float64(total) * DepositRate))
}

// DefaultLifecycleEngine implements LifecycleEngine.
type DefaultLifecycleEngine struct {
	Repo       bookingRepo.BookingRepository
	Catalog    catalogRepo.CatalogRepository
	Gateway    payment.Gateway
	Dispatcher notification.Dispatcher
	Reminders  tasks.ReminderScheduler // optional
	Currency   string
	Logger     *zap.Logger
}

func (e *DefaultLifecycleEngine) CreateBooking(ctx context.Context, clientID string, in CreateBookingInput) (*CreateBookingResult, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	svc, err := e.Catalog.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.Active || svc.ProviderID != in.ProviderID {
		return nil, ErrServiceNotFound
	}

	totalAmount := svc.Price
	depositAmount := ComputeDeposit(totalAmount)
	if depositAmount <= 0 {
		return nil, fmt.Errorf("%w: service price too low for a deposit", ErrValidation)
	}

	bookingID := uuid.New().String()

	// The gateway call strictly precedes the local write: a booking without
	// a valid payment intent must never exist. The inverse (an intent with
	// no booking) is tolerated and logged below.
	intent, err := e.Gateway.CreateDepositIntent(ctx, depositAmount, e.Currency, map[string]string{
		"bookingId":  bookingID,
		"serviceId":  svc.ID,
		"clientId":   clientID,
		"providerId": in.ProviderID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &models.Booking{
		ID:              bookingID,
		ClientID:        clientID,
		ProviderID:      in.ProviderID,
		ServiceID:       svc.ID,
		Location:        in.Location,
		ScheduledTime:   in.ScheduledTime,
		Status:          models.BookingPending,
		DepositStatus:   models.DepositPending,
		DepositAmount:   depositAmount,
		TotalAmount:     totalAmount,
		Notes:           in.Notes,
		PaymentIntentID: intent.IntentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.Repo.Create(ctx, b); err != nil {
		e.Logger.Error("booking write failed after intent creation; intent orphaned at gateway",
			zap.String("intentId", intent.IntentID), zap.String("bookingId", bookingID), zap.Error(err))
		return nil, err
	}

	e.Dispatcher.Notify(b.ProviderID, models.EventNewBookingRequest, models.BookingEvent{
		Message: fmt.Sprintf("You have a new booking request for %s.", svc.Name),
		Booking: b,
	})

	return &CreateBookingResult{Booking: b, PaymentClientToken: intent.ClientToken}, nil
}

func (e *DefaultLifecycleEngine) Transition(ctx context.Context, actor models.Principal, bookingID string, target models.BookingStatus) (*models.Booking, error) {
	if target != models.BookingConfirmed && target != models.BookingCompleted {
		return nil, fmt.Errorf("%w: target %q not reachable here", ErrInvalidTransition, target)
	}

	b, err := e.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Authorization before any state guard: non-parties learn nothing about
	// the booking's state.
	if actor.ID != b.ProviderID {
		return nil, ErrForbidden
	}

	updated, err := e.applyTransition(ctx, b, target)
	if err != nil {
		return nil, err
	}

	e.Dispatcher.Notify(updated.ClientID, models.EventBookingStatusUpdate, models.BookingEvent{
		Message: fmt.Sprintf("Your booking is now %s.", updated.Status),
		Booking: updated,
	})

	if target == models.BookingConfirmed {
		e.scheduleReminder(updated)
	}
	return updated, nil
}

func (e *DefaultLifecycleEngine) Cancel(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, err := e.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !b.IsParty(actor.ID) {
		return nil, ErrForbidden
	}

	updated, err := e.applyTransition(ctx, b, models.BookingCancelled)
	if err != nil {
		return nil, err
	}

	e.Dispatcher.Notify(updated.CounterpartyOf(actor.ID), models.EventBookingStatusUpdate, models.BookingEvent{
		Message: "The booking has been cancelled.",
		Booking: updated,
	})
	return updated, nil
}

// applyTransition runs the state guard against the freshly-read booking and
// writes conditionally on that same status, so a concurrent transition
// cannot sneak past a stale read.
func (e *DefaultLifecycleEngine) applyTransition(ctx context.Context, b *models.Booking, target models.BookingStatus) (*models.Booking, error) {
	if !CanTransition(b.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, target)
	}
	updated, err := e.Repo.UpdateStatusIf(ctx, b.ID, b.Status, target)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: booking moved concurrently", ErrInvalidTransition)
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ApplyPaymentEvent resolves a verified deposit confirmation to its booking.
// Unknown intents are logged and dropped without error so the gateway does
// not retry against transient replication lag.
func (e *DefaultLifecycleEngine) ApplyPaymentEvent(ctx context.Context, intentID string) error {
	b, changed, err := e.Repo.MarkDepositPaidByIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			e.Logger.Warn("webhook for unknown payment intent, dropping",
				zap.String("intentId", intentID))
			return nil
		}
		return err
	}
	if !changed {
		e.Logger.Info("deposit already paid, webhook re-delivery ignored",
			zap.String("bookingId", b.ID))
		return nil
	}

	e.Dispatcher.Notify(b.ProviderID, models.EventDepositPaid, models.BookingEvent{
		Message: "The deposit for your booking has been paid.",
		Booking: b,
	})
	return nil
}

func (e *DefaultLifecycleEngine) ListMyBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return e.Repo.ListByParty(ctx, userID)
}

func (e *DefaultLifecycleEngine) scheduleReminder(b *models.Booking) {
	if e.Reminders == nil {
		return
	}
	fireAt := b.ScheduledTime.Add(-reminderLead)
	if fireAt.Before(time.Now()) {
		return
	}
	payload := models.ReminderPayload{
		BookingID:   b.ID,
		RecipientID: b.ClientID,
		Message:     fmt.Sprintf("Reminder: your appointment is on %s.", b.ScheduledTime.Format(time.RFC1123)),
	}
	if err := e.Reminders.ScheduleReminder(payload, fireAt); err != nil {
		e.Logger.Warn("failed to schedule reminder", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func validateCreateInput(in CreateBookingInput) error {
	switch {
	case in.ProviderID == "":
		return fmt.Errorf("%w: providerId is required", ErrValidation)
	case in.ServiceID == "":
		return fmt.Errorf("%w: serviceId is required", ErrValidation)
	case in.ScheduledTime.IsZero():
		return fmt.Errorf("%w: scheduledTime is required", ErrValidation)
	case in.Location.Address == "" || in.Location.City == "" || in.Location.State == "" || in.Location.ZipCode == "":
		return fmt.Errorf("%w: location address, city, state and zipCode are required", ErrValidation)
	}
	return nil
}
