package services

import (
	"testing"

	"caja-backend/internal/models"
)

func TestComputeBulkUpdateFixedFloorsAtZero(t *testing.T) {
	products := []*models.Product{
		{ID: 1, Price: 30},
		{ID: 2, Price: 80},
	}

	outcomes := ComputeBulkUpdate(products, models.PriceFieldPrice, models.PriceModeFixed, -50)
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].NewValue != 0 {
		t.Errorf("price 30 - 50 = %v, want 0 (floored)", outcomes[0].NewValue)
	}
	if outcomes[1].NewValue != 30 {
		t.Errorf("price 80 - 50 = %v, want 30", outcomes[1].NewValue)
	}
}

func TestComputeBulkUpdatePercent(t *testing.T) {
	products := []*models.Product{
		{ID: 1, Price: 100},
		{ID: 2, Price: 33.33},
	}

	outcomes := ComputeBulkUpdate(products, models.PriceFieldPrice, models.PriceModePercent, 21)
	if outcomes[0].NewValue != 121 {
		t.Errorf("100 + 21%% = %v, want 121", outcomes[0].NewValue)
	}
	if outcomes[1].NewValue != 40.33 {
		t.Errorf("33.33 + 21%% = %v, want 40.33 (rounded to cents)", outcomes[1].NewValue)
	}
}

func TestComputeBulkUpdateCostPriceField(t *testing.T) {
	products := []*models.Product{
		{ID: 1, Price: 100, CostPrice: 60},
	}

	outcomes := ComputeBulkUpdate(products, models.PriceFieldCostPrice, models.PriceModePercent, 10)
	if outcomes[0].OldValue != 60 {
		t.Errorf("OldValue = %v, want 60 (cost, not sale price)", outcomes[0].OldValue)
	}
	if outcomes[0].NewValue != 66 {
		t.Errorf("NewValue = %v, want 66", outcomes[0].NewValue)
	}
}

func TestComputeBulkUpdateMarksUnchanged(t *testing.T) {
	products := []*models.Product{
		{ID: 1, Price: 0},
		{ID: 2, Price: 10},
	}

	outcomes := ComputeBulkUpdate(products, models.PriceFieldPrice, models.PriceModeFixed, -5)
	if outcomes[0].Updated {
		t.Error("price 0 with negative delta reported as updated")
	}
	if !outcomes[1].Updated {
		t.Error("price 10 - 5 not reported as updated")
	}
}
