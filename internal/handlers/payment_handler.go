package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"caja-backend/internal/services"
	"caja-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

func (h *PaymentHandler) ListBySale(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid sale id")
		return
	}

	payments, err := h.Service.ListBySale(r.Context(), saleID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ListPendingChecks(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.ListPendingChecks(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ClearCheck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment id")
		return
	}

	payment, err := h.Service.ClearCheck(r.Context(), id)
	if err != nil {
		utils.Error(w, paymentStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

// Delete removes a payment and reverts its side effects. Admin only.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, paymentStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func paymentStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotACheck):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
