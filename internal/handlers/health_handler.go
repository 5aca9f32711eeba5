package handlers

import (
	"net/http"

	"caja-backend/internal/health"
	"caja-backend/internal/live"
	"caja-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
	Hub     *live.Hub
}

func NewHealthHandler(checker *health.HealthChecker, hub *live.Hub) *HealthHandler {
	return &HealthHandler{Checker: checker, Hub: hub}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	result := h.Checker.CheckBasic()

	status := http.StatusOK
	if result.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	utils.JSON(w, status, result)
}

// HealthDetailed includes host resource usage, for the admin dashboard
func (h *HealthHandler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	subscribers := 0
	if h.Hub != nil {
		subscribers = h.Hub.ClientCount()
	}
	result := h.Checker.CheckDetailed(subscribers)

	status := http.StatusOK
	if result.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	utils.JSON(w, status, result)
}
