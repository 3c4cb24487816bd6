package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/service"
)

// --- Commission Handlers ---

// CommissionCreateInput defines the expected input for a commission setting.
type CommissionCreateInput struct {
	CategoryID *string          `json:"categoryId" validate:"omitempty,min=1"`
	Rate       *decimal.Decimal `json:"rate" validate:"required,gte=0,lte=100"`
	IsDefault  bool             `json:"isDefault"`
}

// CommissionUpdateInput defines the expected input for patching a commission setting.
type CommissionUpdateInput struct {
	CategoryID *string          `json:"categoryId" validate:"omitempty,min=1"`
	Rate       *decimal.Decimal `json:"rate" validate:"omitempty,gte=0,lte=100"`
	IsDefault  *bool            `json:"isDefault"`
}

func (h *HTTPHandler) ListCommissionSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.commission.List(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve commission settings")
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *HTTPHandler) CreateCommissionSetting(w http.ResponseWriter, r *http.Request) {
	var input CommissionCreateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	setting, err := h.commission.Create(r.Context(), principal(r), domain.CommissionSetting{
		CategoryID: input.CategoryID,
		Rate:       *input.Rate,
		IsDefault:  input.IsDefault,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create commission setting")
		return
	}
	invalidate(w, "/api/commission", "/api/analytics/seller")
	respondWithJSON(w, http.StatusCreated, setting)
}

func (h *HTTPHandler) UpdateCommissionSetting(w http.ResponseWriter, r *http.Request) {
	var input CommissionUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	setting, err := h.commission.Update(r.Context(), principal(r), chi.URLParam(r, "settingId"), service.CommissionUpdate{
		CategoryID: input.CategoryID,
		Rate:       input.Rate,
		IsDefault:  input.IsDefault,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update commission setting")
		return
	}
	invalidate(w, "/api/commission", "/api/analytics/seller")
	respondWithJSON(w, http.StatusOK, setting)
}

func (h *HTTPHandler) LookupCommission(w http.ResponseWriter, r *http.Request) {
	setting, err := h.commission.Lookup(r.Context(), principal(r), r.URL.Query().Get("categoryId"))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to look up commission")
		return
	}
	respondWithJSON(w, http.StatusOK, setting)
}

// --- Analytics Handlers ---

func (h *HTTPHandler) SellerAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Seller(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to compute seller analytics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Admin(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to compute platform analytics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
