package adaptor

import (
	"net/http"

	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type CurrencyHandler struct {
	service usecase.CurrencyService
	log     *zap.Logger
}

func NewCurrencyHandler(service usecase.CurrencyService, log *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		service: service,
		log:     log.With(zap.String("handler", "currency")),
	}
}

// Rates handles GET /api/currency/rates
func (h *CurrencyHandler) Rates(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.Rates(r.Context()))
}

// Refresh handles POST /api/admin/currency/refresh (admin)
func (h *CurrencyHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.Refresh(r.Context())
	if err != nil {
		h.log.Warn("Rate refresh failed", zap.Error(err))
		utils.ResponseJSON(w, http.StatusBadGateway, false, "Rate provider unavailable, previous rates kept", h.service.Rates(r.Context()), nil)
		return
	}

	utils.ResponseSuccess(w, "Rates refreshed", rates)
}
