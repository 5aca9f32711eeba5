package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"caja-backend/internal/cache"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

type CustomerBalanceService struct {
	CreditRepo  *repositories.CreditRepository
	PaymentRepo *repositories.PaymentRepository
	Log         *logrus.Logger
}

func NewCustomerBalanceService(creditRepo *repositories.CreditRepository, paymentRepo *repositories.PaymentRepository, log *logrus.Logger) *CustomerBalanceService {
	return &CustomerBalanceService{CreditRepo: creditRepo, PaymentRepo: paymentRepo, Log: log}
}

// customerKey groups by customer id when present, falling back to the name
func customerKey(id *int, name string) string {
	if id != nil {
		return fmt.Sprintf("id:%d", *id)
	}
	return "name:" + name
}

// BuildCreditSummaries reduces installment credit sales into per-customer
// rollups. Paid totals come from PAID installments rather than raw payment
// sums so partial or overlapping payments are never double counted.
func BuildCreditSummaries(sales []*models.CreditSale, installments []models.Installment, payments []models.Payment) []models.CustomerCreditSummary {
	byKey := map[string]*models.CustomerCreditSummary{}
	saleOwner := map[int]string{}
	var order []string

	for _, sale := range sales {
		if sale.Kind != models.CreditKindInstallment {
			continue
		}
		key := customerKey(sale.CustomerID, sale.CustomerName)
		saleOwner[sale.ID] = key
		summary, ok := byKey[key]
		if !ok {
			summary = &models.CustomerCreditSummary{
				CustomerID:   sale.CustomerID,
				CustomerName: sale.CustomerName,
			}
			byKey[key] = summary
			order = append(order, key)
		}
		summary.TotalCreditAmount = money.Round2(summary.TotalCreditAmount + sale.Total)
	}

	for _, inst := range installments {
		key, ok := saleOwner[inst.CreditSaleID]
		if !ok {
			continue
		}
		summary := byKey[key]
		switch inst.Status {
		case models.InstallmentStatusPaid:
			summary.PaidInstallments++
			summary.TotalPaidAmount = money.Round2(summary.TotalPaidAmount + inst.Amount)
		case models.InstallmentStatusOverdue:
			summary.OverdueInstallments++
			summary.PendingInstallments++
			trackNextDue(summary, inst.DueDate)
		case models.InstallmentStatusPending:
			summary.PendingInstallments++
			trackNextDue(summary, inst.DueDate)
		}
	}

	for _, p := range payments {
		key, ok := saleOwner[p.SaleID]
		if !ok {
			continue
		}
		summary := byKey[key]
		if summary.LastPaymentDate == nil || p.Date.After(*summary.LastPaymentDate) {
			d := p.Date
			summary.LastPaymentDate = &d
		}
	}

	out := make([]models.CustomerCreditSummary, 0, len(order))
	for _, key := range order {
		summary := byKey[key]
		pending := money.Round2(summary.TotalCreditAmount - summary.TotalPaidAmount)
		if pending < 0 {
			pending = 0
		}
		summary.PendingAmount = pending
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out
}

func trackNextDue(summary *models.CustomerCreditSummary, due time.Time) {
	if summary.NextDueDate == nil || due.Before(*summary.NextDueDate) {
		d := due
		summary.NextDueDate = &d
	}
}

// BuildRunningSummaries computes balances for open-ended running accounts:
// balance = sale totals minus payments, where CHECK payments only count once
// cleared. An uncleared check never reduces what the customer owes.
func BuildRunningSummaries(sales []*models.CreditSale, payments []models.Payment) []models.RunningAccountSummary {
	byKey := map[string]*models.RunningAccountSummary{}
	saleOwner := map[int]string{}
	var order []string

	for _, sale := range sales {
		if sale.Kind != models.CreditKindRunning {
			continue
		}
		key := customerKey(sale.CustomerID, sale.CustomerName)
		saleOwner[sale.ID] = key
		summary, ok := byKey[key]
		if !ok {
			summary = &models.RunningAccountSummary{
				CustomerID:   sale.CustomerID,
				CustomerName: sale.CustomerName,
			}
			byKey[key] = summary
			order = append(order, key)
		}
		summary.TotalSales = money.Round2(summary.TotalSales + sale.Total)
	}

	for _, p := range payments {
		key, ok := saleOwner[p.SaleID]
		if !ok {
			continue
		}
		summary := byKey[key]
		if summary.LastPaymentDate == nil || p.Date.After(*summary.LastPaymentDate) {
			d := p.Date
			summary.LastPaymentDate = &d
		}
		if p.Method == models.PaymentMethodCheck &&
			(p.CheckStatus == nil || *p.CheckStatus != models.CheckStatusCleared) {
			continue
		}
		summary.TotalPaid = money.Round2(summary.TotalPaid + p.Amount)
	}

	out := make([]models.RunningAccountSummary, 0, len(order))
	for _, key := range order {
		summary := byKey[key]
		summary.Balance = money.Round2(summary.TotalSales - summary.TotalPaid)
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out
}

// CreditSummaries returns the cached per-customer installment rollups,
// recomputing when the cache is cold or past its staleness window.
func (s *CustomerBalanceService) CreditSummaries(ctx context.Context) ([]models.CustomerCreditSummary, error) {
	if cached, ok := cache.GetCreditSummaries(ctx); ok {
		return cached, nil
	}

	sales, installments, payments, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := BuildCreditSummaries(sales, installments, payments)
	cache.SetCreditSummaries(ctx, summaries)
	return summaries, nil
}

func (s *CustomerBalanceService) RunningSummaries(ctx context.Context) ([]models.RunningAccountSummary, error) {
	if cached, ok := cache.GetRunningSummaries(ctx); ok {
		return cached, nil
	}

	sales, err := s.CreditRepo.ListSales(ctx, models.CreditKindRunning)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	payments, err := s.PaymentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	summaries := BuildRunningSummaries(sales, payments)
	cache.SetRunningSummaries(ctx, summaries)
	return summaries, nil
}

// RefreshCustomer recomputes a single customer's rollup after a payment and
// patches it into the cached set, avoiding a full recompute of every customer.
func (s *CustomerBalanceService) RefreshCustomer(ctx context.Context, customerID int) (*models.CustomerCreditSummary, error) {
	sales, err := s.CreditRepo.ListSalesByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer sales: %w", err)
	}

	var installments []models.Installment
	var payments []models.Payment
	for _, sale := range sales {
		saleInsts, err := s.CreditRepo.ListInstallments(ctx, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load installments: %w", err)
		}
		installments = append(installments, saleInsts...)

		salePayments, err := s.PaymentRepo.ListBySale(ctx, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load payments: %w", err)
		}
		payments = append(payments, salePayments...)
	}

	summaries := BuildCreditSummaries(sales, installments, payments)
	if len(summaries) == 0 {
		return nil, nil
	}
	fresh := summaries[0]

	if cached, ok := cache.GetCreditSummaries(ctx); ok {
		patched := false
		for i := range cached {
			if cached[i].CustomerID != nil && *cached[i].CustomerID == customerID {
				cached[i] = fresh
				patched = true
				break
			}
		}
		if !patched {
			cached = append(cached, fresh)
		}
		cache.SetCreditSummaries(ctx, cached)
	}
	return &fresh, nil
}

func (s *CustomerBalanceService) loadAll(ctx context.Context) ([]*models.CreditSale, []models.Installment, []models.Payment, error) {
	sales, err := s.CreditRepo.ListSales(ctx, "")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load sales: %w", err)
	}
	installments, err := s.CreditRepo.ListAllInstallments(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load installments: %w", err)
	}
	payments, err := s.PaymentRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return sales, installments, payments, nil
}
