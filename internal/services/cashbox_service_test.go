package services

import (
	"testing"

	"caja-backend/internal/models"
)

func movement(t models.MovementType, method models.PaymentMethod, amount, profit float64) models.Movement {
	return models.Movement{Type: t, Method: method, Amount: amount, Profit: profit}
}

func TestComputeTotalsCloseScenario(t *testing.T) {
	movements := []models.Movement{
		movement(models.MovementTypeIncome, models.PaymentMethodCash, 1000, 0),
		movement(models.MovementTypeExpense, models.PaymentMethodCash, 200, 0),
	}

	totals := ComputeTotals(movements)
	if totals.CashIncome != 1000 {
		t.Errorf("CashIncome = %v, want 1000", totals.CashIncome)
	}
	if totals.CashExpense != 200 {
		t.Errorf("CashExpense = %v, want 200", totals.CashExpense)
	}
	if totals.TotalIncome != 1000 {
		t.Errorf("TotalIncome = %v, want 1000", totals.TotalIncome)
	}
	if totals.TotalExpense != 200 {
		t.Errorf("TotalExpense = %v, want 200", totals.TotalExpense)
	}
}

func TestComputeTotalsConservation(t *testing.T) {
	movements := []models.Movement{
		movement(models.MovementTypeIncome, models.PaymentMethodCash, 150.50, 40),
		movement(models.MovementTypeIncome, models.PaymentMethodTransfer, 300, 90),
		movement(models.MovementTypeIncome, models.PaymentMethodCard, 49.50, 10),
		movement(models.MovementTypeExpense, models.PaymentMethodCash, 80, 0),
		movement(models.MovementTypeExpense, models.PaymentMethodTransfer, 20, 0),
	}

	totals := ComputeTotals(movements)
	if totals.TotalIncome != 500 {
		t.Errorf("TotalIncome = %v, want 500", totals.TotalIncome)
	}
	if totals.TotalExpense != 100 {
		t.Errorf("TotalExpense = %v, want 100", totals.TotalExpense)
	}
	if totals.CashIncome != 150.50 {
		t.Errorf("CashIncome = %v, want 150.50", totals.CashIncome)
	}
	if totals.OtherIncome != 349.50 {
		t.Errorf("OtherIncome = %v, want 349.50", totals.OtherIncome)
	}
	// Profit: 140 earned minus 100 of expenses
	if totals.TotalProfit != 40 {
		t.Errorf("TotalProfit = %v, want 40", totals.TotalProfit)
	}
}

// Removing a movement and recomputing must yield the same totals as if the
// movement never existed, since totals are a pure function of the list.
func TestComputeTotalsAfterRemoval(t *testing.T) {
	withExtra := []models.Movement{
		movement(models.MovementTypeIncome, models.PaymentMethodCash, 100, 25),
		movement(models.MovementTypeIncome, models.PaymentMethodCash, 60, 15),
	}
	without := withExtra[:1]

	got := ComputeTotals(without)
	want := ComputeTotals([]models.Movement{withExtra[0]})
	if got != want {
		t.Errorf("totals diverged after removal: %+v vs %+v", got, want)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals != (models.CashTotals{}) {
		t.Errorf("empty movement list produced non-zero totals: %+v", totals)
	}
}

func TestValidateMovement(t *testing.T) {
	cases := []struct {
		name    string
		req     models.CreateMovementRequest
		wantErr bool
	}{
		{"valid income", models.CreateMovementRequest{Type: models.MovementTypeIncome, Method: models.PaymentMethodCash, Amount: 10}, false},
		{"negative amount", models.CreateMovementRequest{Type: models.MovementTypeIncome, Method: models.PaymentMethodCash, Amount: -1}, true},
		{"bad type", models.CreateMovementRequest{Type: "OTHER", Method: models.PaymentMethodCash, Amount: 10}, true},
		{"bad method", models.CreateMovementRequest{Type: models.MovementTypeExpense, Method: "BARTER", Amount: 10}, true},
		{"zero amount ok", models.CreateMovementRequest{Type: models.MovementTypeExpense, Method: models.PaymentMethodMixed, Amount: 0}, false},
	}
	for _, c := range cases {
		err := validateMovement(&c.req)
		if (err != nil) != c.wantErr {
			t.Errorf("%s: validateMovement() error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

// A closed register must reject any further posting; a missing or open one
// must not, since movements open a register implicitly.
func TestCanPost(t *testing.T) {
	cases := []struct {
		name string
		dc   *models.DailyCash
		want error
	}{
		{"no register yet", nil, nil},
		{"open register", &models.DailyCash{Date: "2024-06-10"}, nil},
		{"closed register", &models.DailyCash{Date: "2024-06-10", Closed: true}, ErrRegisterClosed},
	}
	for _, c := range cases {
		if got := canPost(c.dc); got != c.want {
			t.Errorf("%s: canPost() = %v, want %v", c.name, got, c.want)
		}
	}
}
