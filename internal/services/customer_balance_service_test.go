package services

import (
	"testing"
	"time"

	"caja-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestBuildCreditSummariesPendingAmount(t *testing.T) {
	customerID := 7
	sales := []*models.CreditSale{
		{ID: 1, CustomerID: intPtr(customerID), CustomerName: "Lopez", Kind: models.CreditKindInstallment, Total: 500},
		{ID: 2, CustomerID: intPtr(customerID), CustomerName: "Lopez", Kind: models.CreditKindInstallment, Total: 300},
	}
	installments := []models.Installment{
		{ID: 10, CreditSaleID: 1, Number: 1, Amount: 200, Status: models.InstallmentStatusPaid},
		{ID: 11, CreditSaleID: 1, Number: 2, Amount: 300, Status: models.InstallmentStatusPending, DueDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 12, CreditSaleID: 2, Number: 1, Amount: 300, Status: models.InstallmentStatusPending, DueDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	summaries := BuildCreditSummaries(sales, installments, nil)
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if s.TotalCreditAmount != 800 {
		t.Errorf("TotalCreditAmount = %v, want 800", s.TotalCreditAmount)
	}
	if s.TotalPaidAmount != 200 {
		t.Errorf("TotalPaidAmount = %v, want 200", s.TotalPaidAmount)
	}
	if s.PendingAmount != 600 {
		t.Errorf("PendingAmount = %v, want 600", s.PendingAmount)
	}
	if s.PendingInstallments != 2 || s.PaidInstallments != 1 {
		t.Errorf("counts: pending=%d paid=%d, want 2 and 1", s.PendingInstallments, s.PaidInstallments)
	}
	// Next due is the earliest unpaid
	if s.NextDueDate == nil || !s.NextDueDate.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextDueDate = %v, want 2024-07-01", s.NextDueDate)
	}
}

func TestBuildCreditSummariesPendingFloorsAtZero(t *testing.T) {
	sales := []*models.CreditSale{
		{ID: 1, CustomerName: "Perez", Kind: models.CreditKindInstallment, Total: 100},
	}
	// Penalties can push the paid amount past the sale total
	installments := []models.Installment{
		{ID: 1, CreditSaleID: 1, Amount: 120, Status: models.InstallmentStatusPaid},
	}

	summaries := BuildCreditSummaries(sales, installments, nil)
	if summaries[0].PendingAmount != 0 {
		t.Errorf("PendingAmount = %v, want 0", summaries[0].PendingAmount)
	}
}

func TestBuildCreditSummariesGroupsByNameWithoutID(t *testing.T) {
	sales := []*models.CreditSale{
		{ID: 1, CustomerName: "Garcia", Kind: models.CreditKindInstallment, Total: 100},
		{ID: 2, CustomerName: "Garcia", Kind: models.CreditKindInstallment, Total: 50},
		{ID: 3, CustomerName: "Diaz", Kind: models.CreditKindInstallment, Total: 75},
	}

	summaries := BuildCreditSummaries(sales, nil, nil)
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	// Sorted by name
	if summaries[0].CustomerName != "Diaz" || summaries[1].CustomerName != "Garcia" {
		t.Errorf("unexpected order: %s, %s", summaries[0].CustomerName, summaries[1].CustomerName)
	}
	if summaries[1].TotalCreditAmount != 150 {
		t.Errorf("Garcia total = %v, want 150", summaries[1].TotalCreditAmount)
	}
}

func TestBuildRunningSummariesExcludesUnclearedChecks(t *testing.T) {
	pending := models.CheckStatusPending
	cleared := models.CheckStatusCleared
	sales := []*models.CreditSale{
		{ID: 1, CustomerName: "Romero", Kind: models.CreditKindRunning, Total: 1000},
	}
	payments := []models.Payment{
		{ID: 1, SaleID: 1, Amount: 200, Method: models.PaymentMethodCash, Date: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 2, SaleID: 1, Amount: 300, Method: models.PaymentMethodCheck, CheckStatus: &pending, Date: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)},
		{ID: 3, SaleID: 1, Amount: 100, Method: models.PaymentMethodCheck, CheckStatus: &cleared, Date: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)},
	}

	summaries := BuildRunningSummaries(sales, payments)
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	// The pending check does not reduce the balance
	if s.TotalPaid != 300 {
		t.Errorf("TotalPaid = %v, want 300", s.TotalPaid)
	}
	if s.Balance != 700 {
		t.Errorf("Balance = %v, want 700", s.Balance)
	}
	// But it still counts as payment activity
	if s.LastPaymentDate == nil || !s.LastPaymentDate.Equal(payments[2].Date) {
		t.Errorf("LastPaymentDate = %v, want %v", s.LastPaymentDate, payments[2].Date)
	}
}

func TestBuildRunningSummariesIgnoresInstallmentSales(t *testing.T) {
	sales := []*models.CreditSale{
		{ID: 1, CustomerName: "Romero", Kind: models.CreditKindInstallment, Total: 500},
		{ID: 2, CustomerName: "Romero", Kind: models.CreditKindRunning, Total: 200},
	}

	summaries := BuildRunningSummaries(sales, nil)
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].TotalSales != 200 {
		t.Errorf("TotalSales = %v, want 200", summaries[0].TotalSales)
	}
}
