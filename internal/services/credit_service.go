package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caja-backend/internal/cache"
	"caja-backend/internal/metrics"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/repositories"
	"caja-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrSaleNotFound           = errors.New("credit sale not found")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrInstallmentAlreadyPaid = errors.New("installment is already paid")
	ErrNoPendingInstallments  = errors.New("no pending installments for this sale")
)

type CreditService struct {
	Repo        *repositories.CreditRepository
	PaymentRepo *repositories.PaymentRepository
	Cashbox     *CashboxService
	Log         *logrus.Logger
}

func NewCreditService(repo *repositories.CreditRepository, paymentRepo *repositories.PaymentRepository, cashbox *CashboxService, log *logrus.Logger) *CreditService {
	return &CreditService{Repo: repo, PaymentRepo: paymentRepo, Cashbox: cashbox, Log: log}
}

// GenerateSchedule amortizes principal*(1+rate/100) evenly over n monthly
// installments starting at firstDue. Simple interest, spread proportionally.
// The last installment absorbs the rounding residual so the amounts sum to
// the total exactly.
func GenerateSchedule(principal, interestRate float64, n int, firstDue time.Time) ([]models.Installment, error) {
	if n < 1 {
		return nil, errors.New("installment count must be at least 1")
	}
	if principal <= 0 {
		return nil, errors.New("principal must be positive")
	}
	if interestRate < 0 {
		return nil, errors.New("interest rate must not be negative")
	}

	total := money.Round2(principal * (1 + interestRate/100))
	totalInterest := money.Round2(total - principal)

	amounts := money.SplitEven(total, n)
	interests := money.SplitEven(totalInterest, n)

	installments := make([]models.Installment, n)
	for i := 0; i < n; i++ {
		installments[i] = models.Installment{
			Number:         i + 1,
			DueDate:        firstDue.AddDate(0, i, 0),
			Amount:         amounts[i],
			InterestAmount: interests[i],
			Status:         models.InstallmentStatusPending,
		}
	}
	return installments, nil
}

// MarkOverdue returns the PENDING installments whose due date has passed,
// with status flipped and daysOverdue recomputed. Pure; idempotent by
// construction since it only looks at status and dates.
func MarkOverdue(installments []models.Installment, today time.Time) []models.Installment {
	var overdue []models.Installment
	for _, inst := range installments {
		if inst.Status == models.InstallmentStatusPaid {
			continue
		}
		// Due today means due until end of day; overdue starts the day after.
		if !today.After(timeutil.EndOfDay(inst.DueDate)) {
			continue
		}
		inst.Status = models.InstallmentStatusOverdue
		inst.DaysOverdue = timeutil.DaysBetween(inst.DueDate, today)
		overdue = append(overdue, inst)
	}
	return overdue
}

// PendingInstallments counts the installments that block deleting a sale:
// everything not yet PAID, whether still pending or already overdue.
func PendingInstallments(installments []models.Installment) int {
	n := 0
	for _, inst := range installments {
		if inst.Status != models.InstallmentStatusPaid {
			n++
		}
	}
	return n
}

func (s *CreditService) CreateSale(ctx context.Context, req *models.CreateCreditSaleRequest) (*models.CreditSaleWithSchedule, error) {
	if req.CustomerName == "" && req.CustomerID == nil {
		return nil, errors.New("customer is required")
	}
	if req.Kind != models.CreditKindInstallment && req.Kind != models.CreditKindRunning {
		return nil, errors.New("kind must be INSTALLMENT or RUNNING")
	}

	total := money.Round2(req.PrincipalAmount * (1 + req.InterestRate/100))
	sale := &models.CreditSale{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		Rubro:           req.Rubro,
		Kind:            req.Kind,
		Total:           total,
		TotalProfit:     req.TotalProfit,
		InterestRate:    req.InterestRate,
		PrincipalAmount: req.PrincipalAmount,
		TotalAmount:     total,
	}

	var installments []models.Installment
	if req.Kind == models.CreditKindInstallment {
		firstDue, err := timeutil.ParseDate(req.FirstDueDate)
		if err != nil {
			return nil, errors.New("invalid first due date, expected YYYY-MM-DD")
		}
		installments, err = GenerateSchedule(req.PrincipalAmount, req.InterestRate, req.InstallmentCount, firstDue)
		if err != nil {
			return nil, err
		}
	}

	if err := s.Repo.CreateWithSchedule(ctx, sale, installments); err != nil {
		return nil, fmt.Errorf("failed to create credit sale: %w", err)
	}
	cache.InvalidateSummaries(ctx)

	s.Log.Infof("[Credit] created %s sale %d for %s: total=%.2f installments=%d",
		sale.Kind, sale.ID, sale.CustomerName, sale.Total, len(installments))
	return &models.CreditSaleWithSchedule{Sale: *sale, Installments: installments}, nil
}

func (s *CreditService) GetSale(ctx context.Context, id int) (*models.CreditSaleWithSchedule, error) {
	sale, err := s.Repo.GetSale(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}
	installments, err := s.Repo.ListInstallments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}
	return &models.CreditSaleWithSchedule{Sale: *sale, Installments: installments}, nil
}

func (s *CreditService) ListSales(ctx context.Context, kind models.CreditKind) ([]*models.CreditSale, error) {
	return s.Repo.ListSales(ctx, kind)
}

// CheckOverdueInstallments flips PENDING installments past their due date to
// OVERDUE and recomputes daysOverdue. Safe to re-run at any time.
func (s *CreditService) CheckOverdueInstallments(ctx context.Context) (int, error) {
	installments, err := s.Repo.ListAllInstallments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load installments: %w", err)
	}

	overdue := MarkOverdue(installments, timeutil.Today())
	if err := s.Repo.MarkOverdue(ctx, overdue); err != nil {
		return 0, err
	}

	// Refresh daysOverdue on items already OVERDUE from a previous sweep
	for _, inst := range overdue {
		if err := s.Repo.UpdateInstallment(ctx, &inst); err != nil {
			return 0, fmt.Errorf("failed to refresh installment %d: %w", inst.ID, err)
		}
	}

	metrics.OverdueSweepRuns.Inc()
	if len(overdue) > 0 {
		s.Log.Infof("[Credit] overdue sweep touched %d installments", len(overdue))
	}
	return len(overdue), nil
}

// RunOverdueSweeper re-checks overdue installments on a coarse timer
func (s *CreditService) RunOverdueSweeper(ctx context.Context) {
	if _, err := s.CheckOverdueInstallments(ctx); err != nil {
		s.Log.Errorf("[Credit] startup overdue sweep failed: %v", err)
	}

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CheckOverdueInstallments(ctx); err != nil {
				s.Log.Errorf("[Credit] overdue sweep failed: %v", err)
			}
		}
	}
}

// PayInstallment settles one installment: records the payment, marks the
// installment PAID, and posts the income into today's register with the
// sale's profit apportioned by the paid share of the sale total.
func (s *CreditService) PayInstallment(ctx context.Context, installmentID int, req *models.PayInstallmentRequest) (*models.Payment, error) {
	inst, err := s.Repo.GetInstallment(ctx, installmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInstallmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if inst.Status == models.InstallmentStatusPaid {
		return nil, ErrInstallmentAlreadyPaid
	}

	sale, err := s.Repo.GetSale(ctx, inst.CreditSaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}

	payment, err := s.settleInstallment(ctx, sale, inst, req.Method)
	if err != nil {
		return nil, err
	}
	cache.InvalidateSummaries(ctx)
	return payment, nil
}

// PayAllInstallments settles every non-PAID installment of a sale in one go
func (s *CreditService) PayAllInstallments(ctx context.Context, saleID int, req *models.PayInstallmentRequest) ([]models.Payment, error) {
	sale, err := s.Repo.GetSale(ctx, saleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}

	installments, err := s.Repo.ListInstallments(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}

	var payments []models.Payment
	for i := range installments {
		inst := &installments[i]
		if inst.Status == models.InstallmentStatusPaid {
			continue
		}
		payment, err := s.settleInstallment(ctx, sale, inst, req.Method)
		if err != nil {
			return payments, err
		}
		payments = append(payments, *payment)
	}
	if len(payments) == 0 {
		return nil, ErrNoPendingInstallments
	}
	cache.InvalidateSummaries(ctx)
	return payments, nil
}

// PayRunningAccount applies an arbitrary partial payment against a running
// account sale. CHECK payments start PENDING and do not reduce the balance
// until cleared.
func (s *CreditService) PayRunningAccount(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	sale, err := s.Repo.GetSale(ctx, req.SaleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	if err := s.Cashbox.EnsurePostable(ctx, timeutil.DateKey(now)); err != nil {
		return nil, err
	}
	payment := &models.Payment{
		SaleID:        sale.ID,
		ReceiptNumber: newReceiptNumber(),
		Amount:        money.Round2(req.Amount),
		Method:        req.Method,
		Date:          now,
	}
	if req.Method == models.PaymentMethodCheck {
		pending := models.CheckStatusPending
		payment.CheckStatus = &pending
	}
	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	profit := apportionProfit(payment.Amount, sale)
	detail := &models.CreditPaymentDetail{SaleID: sale.ID, ReceiptNumber: payment.ReceiptNumber}
	desc := fmt.Sprintf("Pago cuenta corriente %s", sale.CustomerName)
	if err := s.Cashbox.PostCreditPayment(ctx, timeutil.DateKey(now), payment.Amount, profit, req.Method, detail, desc); err != nil {
		if rbErr := s.PaymentRepo.Delete(ctx, payment.ID); rbErr != nil {
			s.Log.Errorf("[Credit] failed to remove payment %s after ledger error: %v", payment.ReceiptNumber, rbErr)
		}
		return nil, err
	}

	cache.InvalidateSummaries(ctx)
	return payment, nil
}

// DeleteSale removes a fully paid credit sale and everything that references
// it: installments and payments cascade in storage, and every register
// movement pointing at the sale is scrubbed with totals recomputed.
func (s *CreditService) DeleteSale(ctx context.Context, saleID int) error {
	if _, err := s.Repo.GetSale(ctx, saleID); errors.Is(err, pgx.ErrNoRows) {
		return ErrSaleNotFound
	} else if err != nil {
		return err
	}

	installments, err := s.Repo.ListInstallments(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to load installments: %w", err)
	}
	if pending := PendingInstallments(installments); pending > 0 {
		return fmt.Errorf("cannot delete: %d pending installments", pending)
	}

	if err := s.Repo.DeleteSale(ctx, saleID); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if err := s.Cashbox.ScrubSaleMovements(ctx, saleID); err != nil {
		return err
	}

	cache.InvalidateSummaries(ctx)
	s.Log.Infof("[Credit] deleted sale %d with %d installments", saleID, len(installments))
	return nil
}

func (s *CreditService) settleInstallment(ctx context.Context, sale *models.CreditSale, inst *models.Installment, method models.PaymentMethod) (*models.Payment, error) {
	now := timeutil.Now()
	// A closed register rejects the ledger post, so fail before the payment
	// row and the PAID flip are persisted.
	if err := s.Cashbox.EnsurePostable(ctx, timeutil.DateKey(now)); err != nil {
		return nil, err
	}
	amount := money.Round2(inst.Amount + inst.PenaltyAmount)
	payment := &models.Payment{
		SaleID:        sale.ID,
		InstallmentID: &inst.ID,
		ReceiptNumber: newReceiptNumber(),
		Amount:        amount,
		Method:        method,
		Date:          now,
	}
	if method == models.PaymentMethodCheck {
		pending := models.CheckStatusPending
		payment.CheckStatus = &pending
	}
	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	prevStatus, prevPaymentDate := inst.Status, inst.PaymentDate
	inst.Status = models.InstallmentStatusPaid
	inst.PaymentDate = &now
	if err := s.Repo.UpdateInstallment(ctx, inst); err != nil {
		if rbErr := s.PaymentRepo.Delete(ctx, payment.ID); rbErr != nil {
			s.Log.Errorf("[Credit] failed to remove payment %s after installment error: %v", payment.ReceiptNumber, rbErr)
		}
		return nil, fmt.Errorf("failed to mark installment paid: %w", err)
	}

	profit := apportionProfit(amount, sale)
	detail := &models.CreditPaymentDetail{
		SaleID:        sale.ID,
		InstallmentID: &inst.ID,
		ReceiptNumber: payment.ReceiptNumber,
	}
	desc := fmt.Sprintf("Cuota %d/%s", inst.Number, sale.CustomerName)
	if err := s.Cashbox.PostCreditPayment(ctx, timeutil.DateKey(now), amount, profit, method, detail, desc); err != nil {
		// A payment that never reached the ledger must not survive: undo the
		// PAID flip and the payment row, then surface the ledger error.
		inst.Status, inst.PaymentDate = prevStatus, prevPaymentDate
		if rbErr := s.Repo.UpdateInstallment(ctx, inst); rbErr != nil {
			s.Log.Errorf("[Credit] failed to revert installment %d after ledger error: %v", inst.ID, rbErr)
		}
		if rbErr := s.PaymentRepo.Delete(ctx, payment.ID); rbErr != nil {
			s.Log.Errorf("[Credit] failed to remove payment %s after ledger error: %v", payment.ReceiptNumber, rbErr)
		}
		return nil, err
	}

	metrics.InstallmentsPaid.Inc()
	return payment, nil
}

// apportionProfit assigns the paid share of the sale's total profit to a payment
func apportionProfit(amount float64, sale *models.CreditSale) float64 {
	if sale.Total <= 0 {
		return 0
	}
	return money.Round2(sale.TotalProfit * amount / sale.Total)
}

func newReceiptNumber() string {
	return "REC-" + uuid.NewString()[:8]
}
