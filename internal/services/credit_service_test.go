package services

import (
	"math"
	"testing"
	"time"

	"caja-backend/internal/models"
	"caja-backend/internal/money"
)

func TestGenerateScheduleSumInvariant(t *testing.T) {
	firstDue := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	installments, err := GenerateSchedule(1000, 10, 3, firstDue)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	if len(installments) != 3 {
		t.Fatalf("got %d installments, want 3", len(installments))
	}

	var sum float64
	for _, inst := range installments {
		sum += inst.Amount
	}
	if math.Abs(money.Round2(sum)-1100.00) > 0.01 {
		t.Errorf("installment amounts sum to %v, want 1100.00", money.Round2(sum))
	}
}

func TestGenerateScheduleRoundingResidual(t *testing.T) {
	firstDue := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	// 100/3 does not divide evenly, the last installment takes the residual
	installments, err := GenerateSchedule(100, 0, 3, firstDue)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}

	var sum float64
	for _, inst := range installments {
		sum += inst.Amount
	}
	if money.Round2(sum) != 100.00 {
		t.Errorf("amounts sum to %v, want exactly 100.00", money.Round2(sum))
	}
	if installments[0].Amount != 33.33 {
		t.Errorf("first installment = %v, want 33.33", installments[0].Amount)
	}
	if installments[2].Amount != 33.34 {
		t.Errorf("last installment = %v, want 33.34", installments[2].Amount)
	}
}

func TestGenerateScheduleMonthlyDueDates(t *testing.T) {
	firstDue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	installments, err := GenerateSchedule(600, 0, 4, firstDue)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	for i, inst := range installments {
		want := firstDue.AddDate(0, i, 0)
		if !inst.DueDate.Equal(want) {
			t.Errorf("installment %d due %v, want %v", inst.Number, inst.DueDate, want)
		}
		if inst.Number != i+1 {
			t.Errorf("installment %d has number %d", i, inst.Number)
		}
		if inst.Status != models.InstallmentStatusPending {
			t.Errorf("installment %d starts as %s, want PENDING", inst.Number, inst.Status)
		}
	}
}

func TestGenerateScheduleValidation(t *testing.T) {
	firstDue := time.Now()
	if _, err := GenerateSchedule(1000, 10, 0, firstDue); err == nil {
		t.Error("zero installments accepted")
	}
	if _, err := GenerateSchedule(0, 10, 3, firstDue); err == nil {
		t.Error("zero principal accepted")
	}
	if _, err := GenerateSchedule(1000, -5, 3, firstDue); err == nil {
		t.Error("negative rate accepted")
	}
}

func TestMarkOverdue(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	installments := []models.Installment{
		{ID: 1, DueDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Status: models.InstallmentStatusPending},
		{ID: 2, DueDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), Status: models.InstallmentStatusPending},
		{ID: 3, DueDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), Status: models.InstallmentStatusPending},
		{ID: 4, DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Status: models.InstallmentStatusPaid},
	}

	overdue := MarkOverdue(installments, today)
	if len(overdue) != 1 {
		t.Fatalf("got %d overdue, want 1", len(overdue))
	}
	if overdue[0].ID != 1 {
		t.Errorf("overdue installment = %d, want 1", overdue[0].ID)
	}
	if overdue[0].Status != models.InstallmentStatusOverdue {
		t.Errorf("status = %s, want OVERDUE", overdue[0].Status)
	}
	if overdue[0].DaysOverdue != 9 {
		t.Errorf("daysOverdue = %d, want 9", overdue[0].DaysOverdue)
	}
}

// A PAID installment never leaves PAID, and re-running the sweep with no time
// elapsed produces identical results.
func TestMarkOverdueIdempotent(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	installments := []models.Installment{
		{ID: 1, DueDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Status: models.InstallmentStatusPending},
		{ID: 2, DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Status: models.InstallmentStatusPaid},
	}

	first := MarkOverdue(installments, today)
	// Apply the first pass, then sweep again
	applied := []models.Installment{first[0], installments[1]}
	second := MarkOverdue(applied, today)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("sweep sizes: first=%d second=%d, want 1 and 1", len(first), len(second))
	}
	if first[0].DaysOverdue != second[0].DaysOverdue {
		t.Errorf("daysOverdue changed between sweeps: %d vs %d", first[0].DaysOverdue, second[0].DaysOverdue)
	}
	for _, inst := range second {
		if inst.ID == 2 {
			t.Error("PAID installment was swept")
		}
	}
}

func TestApportionProfit(t *testing.T) {
	sale := &models.CreditSale{Total: 1100, TotalProfit: 330}
	cases := []struct {
		amount, want float64
	}{
		{1100, 330},    // full payment carries full profit
		{550, 165},     // half
		{366.67, 110},  // one third of 1100
		{0, 0},
	}
	for _, c := range cases {
		if got := apportionProfit(c.amount, sale); got != c.want {
			t.Errorf("apportionProfit(%v) = %v, want %v", c.amount, got, c.want)
		}
	}

	zeroSale := &models.CreditSale{Total: 0, TotalProfit: 100}
	if got := apportionProfit(50, zeroSale); got != 0 {
		t.Errorf("apportionProfit with zero total = %v, want 0", got)
	}
}

// A sale is only deletable once every installment is PAID; a single pending
// or overdue installment blocks it.
func TestPendingInstallmentsDeleteGuard(t *testing.T) {
	cases := []struct {
		name         string
		installments []models.Installment
		want         int
	}{
		{"all pending", []models.Installment{
			{ID: 1, Status: models.InstallmentStatusPending},
			{ID: 2, Status: models.InstallmentStatusPending},
		}, 2},
		{"overdue blocks too", []models.Installment{
			{ID: 1, Status: models.InstallmentStatusPaid},
			{ID: 2, Status: models.InstallmentStatusOverdue},
		}, 1},
		{"mixed", []models.Installment{
			{ID: 1, Status: models.InstallmentStatusPaid},
			{ID: 2, Status: models.InstallmentStatusPending},
			{ID: 3, Status: models.InstallmentStatusOverdue},
		}, 2},
		{"fully paid is deletable", []models.Installment{
			{ID: 1, Status: models.InstallmentStatusPaid},
			{ID: 2, Status: models.InstallmentStatusPaid},
		}, 0},
		{"no installments", nil, 0},
	}
	for _, c := range cases {
		if got := PendingInstallments(c.installments); got != c.want {
			t.Errorf("%s: PendingInstallments() = %d, want %d", c.name, got, c.want)
		}
	}
}
