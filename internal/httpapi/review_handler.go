package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type LineRatingDTO struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type SubmitReviewsRequestDTO struct {
	Ratings []LineRatingDTO `json:"ratings"`
}

func (h *ReviewHandler) SubmitReviews(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req SubmitReviewsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Ratings) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "at least one rating is required")
		return
	}

	ratings := make([]service.LineRating, len(req.Ratings))
	for i, rating := range req.Ratings {
		ratings[i] = service.LineRating{
			ProductID: rating.ProductID,
			Rating:    rating.Rating,
			Comment:   rating.Comment,
		}
	}

	created, err := h.reviews.SubmitReviews(r.Context(), session, chi.URLParam(r, "orderID"), ratings)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"reviews": created})
}

func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	reviews, err := h.reviews.ListProductReviews(r.Context(), chi.URLParam(r, "productID"), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}
