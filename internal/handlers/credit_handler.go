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

type CreditHandler struct {
	Service *services.CreditService
}

func NewCreditHandler(s *services.CreditService) *CreditHandler {
	return &CreditHandler{Service: s}
}

func (h *CreditHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCreditSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sale, err := h.Service.CreateSale(r.Context(), &req)
	if err != nil {
		utils.Error(w, creditStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, sale)
}

func (h *CreditHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid sale id")
		return
	}

	sale, err := h.Service.GetSale(r.Context(), id)
	if err != nil {
		utils.Error(w, creditStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, sale)
}

func (h *CreditHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	kind := models.CreditKind(r.URL.Query().Get("kind"))

	sales, err := h.Service.ListSales(r.Context(), kind)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, sales)
}

func (h *CreditHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid installment id")
		return
	}

	var req models.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.PayInstallment(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, creditStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, payment)
}

func (h *CreditHandler) PayAllInstallments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid sale id")
		return
	}

	var req models.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payments, err := h.Service.PayAllInstallments(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, creditStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, payments)
}

func (h *CreditHandler) PayRunningAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.PayRunningAccount(r.Context(), &req)
	if err != nil {
		utils.Error(w, creditStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, payment)
}

func (h *CreditHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid sale id")
		return
	}

	if err := h.Service.DeleteSale(r.Context(), id); err != nil {
		utils.Error(w, creditStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CreditHandler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	touched, err := h.Service.CheckOverdueInstallments(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"overdue": touched})
}

func creditStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSaleNotFound), errors.Is(err, services.ErrInstallmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInstallmentAlreadyPaid), errors.Is(err, services.ErrNoPendingInstallments):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
