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

type ProductHandler struct {
	Service      *services.ProductService
	PriceService *services.PriceService
}

func NewProductHandler(s *services.ProductService, priceService *services.PriceService) *ProductHandler {
	return &ProductHandler{Service: s, PriceService: priceService}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, productStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// GetByBarcode resolves a scanned code, the entry point for the POS scanner
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	product, err := h.Service.GetByBarcode(r.Context(), code)
	if err != nil {
		utils.Error(w, productStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ProductFilter{
		Rubro:    r.URL.Query().Get("rubro"),
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	products, err := h.Service.List(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, productStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, productStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// BulkPriceUpdate applies a percent or fixed price change to the filtered set
func (h *ProductHandler) BulkPriceUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.BulkPriceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.PriceService.ApplyBulkUpdate(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func productStatus(err error) int {
	if errors.Is(err, services.ErrProductNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
