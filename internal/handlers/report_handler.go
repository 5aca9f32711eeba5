package handlers

import (
	"net/http"

	"caja-backend/internal/services"
	"caja-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// Summary reduces movements in the period window to income/expense/profit
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	period := services.Period(r.URL.Query().Get("period"))
	rubro := r.URL.Query().Get("rubro")
	refDate := r.URL.Query().Get("date")

	summary, err := h.Service.PeriodReport(r.Context(), period, rubro, refDate)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// ProductRankings ranks products by quantity sold within the period
func (h *ReportHandler) ProductRankings(w http.ResponseWriter, r *http.Request) {
	period := services.Period(r.URL.Query().Get("period"))
	rubro := r.URL.Query().Get("rubro")
	refDate := r.URL.Query().Get("date")

	rankings, err := h.Service.ProductRankings(r.Context(), period, rubro, refDate)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, rankings)
}
