package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/service"
	"github.com/go-chi/chi/v5"
)

type SellerHandler struct {
	sellers *service.SellerService
}

func NewSellerHandler(sellers *service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

type RegisterSellerRequestDTO struct {
	ShopName    string `json:"shop_name"`
	Description string `json:"description"`
}

type VerificationRequestDTO struct {
	Status string `json:"status"`
}

func (h *SellerHandler) Register(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req RegisterSellerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ShopName == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "shop_name is required")
		return
	}

	seller, err := h.sellers.RegisterSeller(r.Context(), session, req.ShopName, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, seller)
}

func (h *SellerHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	seller, err := h.sellers.GetSeller(r.Context(), chi.URLParam(r, "sellerID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, seller)
}

func (h *SellerHandler) GetOwnSeller(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	seller, err := h.sellers.GetOwnSeller(r.Context(), session)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, seller)
}

func (h *SellerHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req VerificationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.sellers.SetVerification(
		r.Context(),
		session,
		chi.URLParam(r, "sellerID"),
		domain.VerificationStatus(req.Status),
	)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
