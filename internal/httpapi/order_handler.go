package httpapi

import (
	"net/http"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type OrderResponseDTO struct {
	Order *domain.Order      `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	order, items, err := h.orders.GetOrder(r.Context(), session, chi.URLParam(r, "orderID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, OrderResponseDTO{Order: order, Items: items})
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListBuyerOrders(r.Context(), session)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *OrderHandler) ListSellerOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListSellerOrders(r.Context(), session)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// AdvanceStatus moves the order to its single next fulfillment stage; the
// body carries no target status on purpose.
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	order, err := h.orders.AdvanceStatus(r.Context(), session, chi.URLParam(r, "orderID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), session, chi.URLParam(r, "orderID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
