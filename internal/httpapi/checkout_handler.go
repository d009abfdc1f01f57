package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type CheckoutRequestDTO struct {
	// Token is generated by the client; retrying with the same token never
	// places the same cart twice.
	Token           string `json:"token"`
	DeliveryAddress string `json:"delivery_address"`
	Phone           string `json:"phone"`
	PaymentMethod   string `json:"payment_method"`
}

type CheckoutResponseDTO struct {
	Token  string          `json:"token"`
	Orders []*domain.Order `json:"orders"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.PlaceOrder(r.Context(), session, service.CheckoutRequest{
		Token:           req.Token,
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Token:  result.Token,
		Orders: result.Orders,
	})
}
