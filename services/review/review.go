package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	reviewRepo "glowbook/database/repository/review"
	"glowbook/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// aggregateTTL bounds how stale a cached provider listing may be.
const aggregateTTL = 60 * time.Second

// CreateReviewInput is a client's review of a completed booking.
type CreateReviewInput struct {
	BookingID string `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// ReviewService records one-time reviews and serves provider listings.
type ReviewService interface {
	CreateReview(ctx context.Context, clientID string, in CreateReviewInput) (*models.Review, error)
	ListProviderReviews(ctx context.Context, providerID string) (*models.ProviderReviews, error)
}

// DefaultReviewService implements ReviewService. Cache is optional; when
// present the provider aggregate is served from Redis for a short TTL.
type DefaultReviewService struct {
	Repo     reviewRepo.ReviewRepository
	Bookings bookingRepo.BookingRepository
	Cache    *redis.Client
	Logger   *zap.Logger
}

func (s *DefaultReviewService) CreateReview(ctx context.Context, clientID string, in CreateReviewInput) (*models.Review, error) {
	if in.BookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	b, err := s.Bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, ErrForbidden
	}
	if b.Status != models.BookingCompleted {
		return nil, ErrInvalidState
	}

	if exists, err := s.Repo.ExistsForBooking(ctx, in.BookingID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAlreadyReviewed
	}

	r := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		ClientID:   clientID,
		ProviderID: b.ProviderID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	// The unique index on booking_id closes the race between the existence
	// check and the insert; a concurrent winner surfaces as ErrDuplicate.
	if err := s.Repo.Create(ctx, r); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.invalidateAggregate(ctx, b.ProviderID)
	return r, nil
}

func (s *DefaultReviewService) ListProviderReviews(ctx context.Context, providerID string) (*models.ProviderReviews, error) {
	if cached := s.cachedAggregate(ctx, providerID); cached != nil {
		return cached, nil
	}

	reviews, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	out := &models.ProviderReviews{
		Count:         len(reviews),
		AverageRating: averageRating(reviews),
		Reviews:       reviews,
	}
	s.storeAggregate(ctx, providerID, out)
	return out, nil
}

// averageRating returns the arithmetic mean rounded to 2 decimal places,
// 0 when there are no reviews.
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var total int
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return math.Round(avg*100) / 100
}

func aggregateKey(providerID string) string {
	return "reviews:provider:" + providerID
}

func (s *DefaultReviewService) cachedAggregate(ctx context.Context, providerID string) *models.ProviderReviews {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, aggregateKey(providerID)).Result()
	if err != nil {
		return nil
	}
	var out models.ProviderReviews
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return &out
}

func (s *DefaultReviewService) storeAggregate(ctx context.Context, providerID string, agg *models.ProviderReviews) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, aggregateKey(providerID), data, aggregateTTL).Err(); err != nil {
		s.Logger.Debug("review aggregate cache write failed", zap.Error(err))
	}
}

func (s *DefaultReviewService) invalidateAggregate(ctx context.Context, providerID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, aggregateKey(providerID)).Err(); err != nil {
		s.Logger.Debug("review aggregate cache invalidation failed", zap.Error(err))
	}
}
