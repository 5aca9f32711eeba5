package services

import (
	"strings"
	"testing"
	"time"

	"caja-backend/internal/models"
	"caja-backend/internal/timeutil"
)

func TestPeriodRange(t *testing.T) {
	// Wednesday 2024-06-12
	ref := time.Date(2024, 6, 12, 15, 0, 0, 0, timeutil.ART)

	cases := []struct {
		period   Period
		from, to string
	}{
		{PeriodWeek, "2024-06-10", "2024-06-16"},
		{PeriodMonth, "2024-06-01", "2024-06-30"},
		{PeriodYear, "2024-01-01", "2024-12-31"},
	}
	for _, c := range cases {
		from, to, err := PeriodRange(c.period, ref)
		if err != nil {
			t.Fatalf("PeriodRange(%s): %v", c.period, err)
		}
		if from != c.from || to != c.to {
			t.Errorf("PeriodRange(%s) = %s..%s, want %s..%s", c.period, from, to, c.from, c.to)
		}
	}

	if _, _, err := PeriodRange("decade", ref); err == nil {
		t.Error("invalid period accepted")
	}
}

func TestPeriodRangeWeekStartsMonday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday
	sunday := time.Date(2024, 6, 16, 10, 0, 0, 0, timeutil.ART)
	from, to, err := PeriodRange(PeriodWeek, sunday)
	if err != nil {
		t.Fatalf("PeriodRange: %v", err)
	}
	if from != "2024-06-10" || to != "2024-06-16" {
		t.Errorf("week of Sunday = %s..%s, want 2024-06-10..2024-06-16", from, to)
	}
}

func TestSummarizeMovementsRubroFilter(t *testing.T) {
	movements := []models.Movement{
		{Type: models.MovementTypeIncome, Amount: 100, Profit: 30, Rubro: "ropa"},
		{Type: models.MovementTypeIncome, Amount: 50, Profit: 10, Rubro: "almacen"},
		{Type: models.MovementTypeExpense, Amount: 20, Rubro: "ropa"},
	}

	income, expense, profit := SummarizeMovements(movements, "ropa")
	if income != 100 || expense != 20 || profit != 10 {
		t.Errorf("filtered sums = %v/%v/%v, want 100/20/10", income, expense, profit)
	}

	income, expense, profit = SummarizeMovements(movements, "")
	if income != 150 || expense != 20 || profit != 20 {
		t.Errorf("unfiltered sums = %v/%v/%v, want 150/20/20", income, expense, profit)
	}
}

func TestRankProducts(t *testing.T) {
	movements := []models.Movement{
		{
			Type: models.MovementTypeIncome, Kind: models.MovementKindSale,
			Sale: &models.SaleDetail{Items: []models.MovementItem{
				{Name: "Remera", Size: "M", Color: "azul", Unit: "u", Quantity: 3, Price: 10},
				{Name: "Pantalon", Unit: "u", Quantity: 1, Price: 40},
			}},
		},
		{
			Type: models.MovementTypeIncome, Kind: models.MovementKindSale,
			Sale: &models.SaleDetail{Items: []models.MovementItem{
				{Name: "Remera", Size: "M", Color: "azul", Unit: "u", Quantity: 2, Price: 10},
			}},
		},
		// Movements without item snapshots are skipped
		{Type: models.MovementTypeExpense, Amount: 5},
	}

	rankings := RankProducts(movements, "")
	if len(rankings) != 2 {
		t.Fatalf("got %d rankings, want 2", len(rankings))
	}
	if rankings[0].Quantity != 5 {
		t.Errorf("top quantity = %v, want 5", rankings[0].Quantity)
	}
	if rankings[0].Revenue != 50 {
		t.Errorf("top revenue = %v, want 50", rankings[0].Revenue)
	}
	// Same product in two movements collapses into one key
	if rankings[1].Quantity != 1 {
		t.Errorf("second quantity = %v, want 1", rankings[1].Quantity)
	}
}

func TestGenerateRegisterCSV(t *testing.T) {
	svc := &ReportService{}
	dc := &models.DailyCash{
		Date:         "2024-06-01",
		TotalIncome:  1000,
		TotalExpense: 200,
		TotalProfit:  300,
		Movements: []models.Movement{
			{Type: models.MovementTypeIncome, Kind: models.MovementKindSale, Method: models.PaymentMethodCash, Amount: 1000, Profit: 300, Description: "venta mostrador"},
			{Type: models.MovementTypeExpense, Kind: models.MovementKindExpense, Method: models.PaymentMethodCash, Amount: 200, Description: "proveedor"},
		},
	}

	out, err := svc.GenerateRegisterCSV(dc)
	if err != nil {
		t.Fatalf("GenerateRegisterCSV: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty CSV output")
	}
	csv := string(out)
	for _, want := range []string{"venta mostrador", "proveedor", "1000.00", "Total income"} {
		if !strings.Contains(csv, want) {
			t.Errorf("CSV missing %q", want)
		}
	}
}

// Weighed items sold in grams and kilograms collapse into one kg bucket.
func TestRankProductsNormalizesUnits(t *testing.T) {
	movements := []models.Movement{
		{
			Type: models.MovementTypeIncome, Kind: models.MovementKindSale,
			Sale: &models.SaleDetail{Items: []models.MovementItem{
				{Name: "Harina", Unit: "g", Quantity: 500, Price: 0.002},
			}},
		},
		{
			Type: models.MovementTypeIncome, Kind: models.MovementKindSale,
			Sale: &models.SaleDetail{Items: []models.MovementItem{
				{Name: "Harina", Unit: "kg", Quantity: 1.5, Price: 2},
			}},
		},
	}

	rankings := RankProducts(movements, "")
	if len(rankings) != 1 {
		t.Fatalf("got %d rankings, want 1", len(rankings))
	}
	if rankings[0].Key != "Harina kg" {
		t.Errorf("key = %q, want \"Harina kg\"", rankings[0].Key)
	}
	if rankings[0].Quantity != 2 {
		t.Errorf("quantity = %v, want 2", rankings[0].Quantity)
	}
	// Revenue keeps the as-sold prices: 500*0.002 + 1.5*2
	if rankings[0].Revenue != 4 {
		t.Errorf("revenue = %v, want 4", rankings[0].Revenue)
	}
}
