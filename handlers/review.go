package handlers

import (
	"errors"
	"net/http"

	"glowbook/middleware"
	"glowbook/services/review"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes the review endpoints.
type ReviewHandler struct {
	Svc review.ReviewService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Svc: svc}
}

// CreateReview handles POST /api/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var in review.CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	r, err := h.Svc.CreateReview(c.Request.Context(), principal.ID, in)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Thank you for your review!", "review": r})
}

// ListProviderReviews handles GET /api/reviews/provider/:providerId.
func (h *ReviewHandler) ListProviderReviews(c *gin.Context) {
	out, err := h.Svc.ListProviderReviews(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, "invalid review", err.Error())
	case errors.Is(err, review.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
	case errors.Is(err, review.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "you are not authorized to review this booking", "")
	case errors.Is(err, review.ErrInvalidState):
		utils.JSONError(c, http.StatusBadRequest, "only completed bookings can be reviewed", "")
	case errors.Is(err, review.ErrAlreadyReviewed):
		utils.JSONError(c, http.StatusConflict, "this booking has already been reviewed", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
