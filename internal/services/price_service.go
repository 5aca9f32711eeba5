package services

import (
	"context"
	"errors"
	"fmt"

	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

type PriceService struct {
	ProductRepo *repositories.ProductRepository
	Log         *logrus.Logger
}

func NewPriceService(productRepo *repositories.ProductRepository, log *logrus.Logger) *PriceService {
	return &PriceService{ProductRepo: productRepo, Log: log}
}

// ComputeBulkUpdate derives the new value for every product in the set. Pure;
// the result carries a per-item outcome so a partial failure is never silent.
// Percent mode scales, fixed mode adds with a floor at zero, and every result
// is rounded to cents.
func ComputeBulkUpdate(products []*models.Product, field models.PriceField, mode models.PriceMode, value float64) []models.PriceUpdateOutcome {
	outcomes := make([]models.PriceUpdateOutcome, 0, len(products))
	for _, p := range products {
		old := p.Price
		if field == models.PriceFieldCostPrice {
			old = p.CostPrice
		}

		var updated float64
		switch mode {
		case models.PriceModePercent:
			updated = money.ApplyPercent(old, value)
		case models.PriceModeFixed:
			updated = money.ApplyFixed(old, value)
		}

		outcomes = append(outcomes, models.PriceUpdateOutcome{
			ProductID: p.ID,
			OldValue:  old,
			NewValue:  updated,
			Updated:   updated != old,
		})
	}
	return outcomes
}

// ApplyBulkUpdate recomputes and persists a price change over the filtered
// product set in a single batch, returning the per-item outcome list.
func (s *PriceService) ApplyBulkUpdate(ctx context.Context, req *models.BulkPriceUpdateRequest) (*models.BulkPriceUpdateResult, error) {
	if req.Field != models.PriceFieldPrice && req.Field != models.PriceFieldCostPrice {
		return nil, errors.New("field must be price or cost_price")
	}
	if req.Mode != models.PriceModePercent && req.Mode != models.PriceModeFixed {
		return nil, errors.New("mode must be percent or fixed")
	}
	if req.Mode == models.PriceModePercent && req.Value <= -100 {
		return nil, errors.New("percent value must be greater than -100")
	}

	products, err := s.ProductRepo.List(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	outcomes := ComputeBulkUpdate(products, req.Field, req.Mode, req.Value)
	if err := s.ProductRepo.UpdatePrices(ctx, req.Field, outcomes); err != nil {
		return nil, err
	}

	affected := 0
	for _, o := range outcomes {
		if o.Updated {
			affected++
		}
	}
	s.Log.Infof("[Price] bulk %s update on %s: %d of %d products changed",
		req.Mode, req.Field, affected, len(outcomes))
	return &models.BulkPriceUpdateResult{Affected: affected, Outcomes: outcomes}, nil
}
