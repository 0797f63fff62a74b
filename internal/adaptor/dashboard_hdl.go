package adaptor

import (
	"net/http"

	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	service usecase.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service usecase.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		log:     log.With(zap.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/admin/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}
