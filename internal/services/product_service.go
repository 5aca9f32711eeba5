package services

import (
	"context"
	"errors"

	"caja-backend/internal/models"
	"caja-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	Repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{Repo: repo}
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Barcode:   req.Barcode,
		Name:      req.Name,
		Size:      req.Size,
		Color:     req.Color,
		Unit:      req.Unit,
		Rubro:     req.Rubro,
		Category:  req.Category,
		Price:     req.Price,
		CostPrice: req.CostPrice,
		Stock:     req.Stock,
	}
	if product.Unit == "" {
		product.Unit = "u"
	}
	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.Repo.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return product, err
}

// GetByBarcode resolves a scanned barcode to a product
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	if barcode == "" {
		return nil, errors.New("barcode is required")
	}
	product, err := s.Repo.GetByBarcode(ctx, barcode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	return s.Repo.List(ctx, filter)
}

func (s *ProductService) Update(ctx context.Context, id int, req *models.CreateProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Barcode = req.Barcode
	product.Name = req.Name
	product.Size = req.Size
	product.Color = req.Color
	product.Unit = req.Unit
	product.Rubro = req.Rubro
	product.Category = req.Category
	product.Price = req.Price
	product.CostPrice = req.CostPrice
	product.Stock = req.Stock
	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func validateProduct(req *models.CreateProductRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Price < 0 || req.CostPrice < 0 {
		return errors.New("prices must not be negative")
	}
	return nil
}
