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

type CustomerHandler struct {
	Service  *services.CustomerService
	Balances *services.CustomerBalanceService
	Reports  *services.ReportService
}

func NewCustomerHandler(s *services.CustomerService, balances *services.CustomerBalanceService, reports *services.ReportService) *CustomerHandler {
	return &CustomerHandler{Service: s, Balances: balances, Reports: reports}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	customer, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, customerStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, customerStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, customerStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CreditSummaries returns the cached per-customer installment rollups
func (h *CustomerHandler) CreditSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Balances.CreditSummaries(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summaries)
}

// RunningSummaries returns per-customer running account balances
func (h *CustomerHandler) RunningSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Balances.RunningSummaries(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summaries)
}

// RefreshSummary recomputes one customer's rollup and patches the cache
func (h *CustomerHandler) RefreshSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	summary, err := h.Balances.RefreshCustomer(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summary == nil {
		utils.Error(w, http.StatusNotFound, "no credit activity for customer")
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// StatementPDF streams the customer's credit statement
func (h *CustomerHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	pdf, err := h.Reports.GenerateCustomerStatementPDF(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=estado_cuenta.pdf")
	w.Write(pdf)
}

func customerStatus(err error) int {
	if errors.Is(err, services.ErrCustomerNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
