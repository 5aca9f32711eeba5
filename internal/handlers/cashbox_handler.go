package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"caja-backend/internal/models"
	"caja-backend/internal/services"
	"caja-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CashboxHandler struct {
	Service *services.CashboxService
	Reports *services.ReportService
}

func NewCashboxHandler(s *services.CashboxService, reports *services.ReportService) *CashboxHandler {
	return &CashboxHandler{Service: s, Reports: reports}
}

func (h *CashboxHandler) OpenRegister(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	dc, err := h.Service.Open(r.Context(), date)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, dc)
}

func (h *CashboxHandler) GetRegister(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	dc, err := h.Service.Get(r.Context(), date)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dc)
}

func (h *CashboxHandler) ListRegisters(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		utils.Error(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	registers, err := h.Service.ListRange(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, registers)
}

func (h *CashboxHandler) CloseRegister(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	var req models.CloseCashRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	dc, err := h.Service.Close(r.Context(), date, &req)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dc)
}

func (h *CashboxHandler) ReopenRegister(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	dc, err := h.Service.Reopen(r.Context(), date)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dc)
}

func (h *CashboxHandler) AddMovement(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	var req models.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.Service.AddMovement(r.Context(), date, &req)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, m)
}

func (h *CashboxHandler) UpdateMovement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid movement id")
		return
	}

	var req models.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.Service.UpdateMovement(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

func (h *CashboxHandler) RemoveMovement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid movement id")
		return
	}

	if err := h.Service.RemoveMovement(r.Context(), id); err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CashboxHandler) SweepStale(w http.ResponseWriter, r *http.Request) {
	closed, err := h.Service.SweepStaleOpenRegisters(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"closed": closed})
}

// RegisterPDF streams the printable report of one register
func (h *CashboxHandler) RegisterPDF(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	dc, err := h.Service.Get(r.Context(), date)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}

	pdf, err := h.Reports.GenerateRegisterPDF(dc)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=caja_"+date+".pdf")
	w.Write(pdf)
}

func (h *CashboxHandler) RegisterCSV(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	dc, err := h.Service.Get(r.Context(), date)
	if err != nil {
		utils.Error(w, cashboxStatus(err), err.Error())
		return
	}

	out, err := h.Reports.GenerateRegisterCSV(dc)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=caja_"+date+".csv")
	w.Write(out)
}

func cashboxStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrRegisterNotFound), errors.Is(err, services.ErrMovementNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRegisterClosed),
		errors.Is(err, services.ErrRegisterNotClosed),
		errors.Is(err, services.ErrRegisterExists),
		errors.Is(err, services.ErrEarlierRegisterOpen):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
