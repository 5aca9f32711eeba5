package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caja-backend/internal/live"
	"caja-backend/internal/metrics"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/repositories"
	"caja-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrRegisterNotFound    = errors.New("no cash register exists for that date")
	ErrRegisterClosed      = errors.New("cash register is closed")
	ErrRegisterNotClosed   = errors.New("cash register is not closed")
	ErrRegisterExists      = errors.New("a cash register already exists for that date")
	ErrEarlierRegisterOpen = errors.New("an earlier cash register is still open")
	ErrMovementNotFound    = errors.New("movement not found")
)

// sweepWindow is how close to midnight the tight sweep check activates
const sweepWindow = 5 * time.Minute

type CashboxService struct {
	Repo   *repositories.DailyCashRepository
	Backup *BackupService
	Hub    *live.Hub
	Log    *logrus.Logger
}

func NewCashboxService(repo *repositories.DailyCashRepository, backup *BackupService, hub *live.Hub, log *logrus.Logger) *CashboxService {
	return &CashboxService{Repo: repo, Backup: backup, Hub: hub, Log: log}
}

// ComputeTotals reduces a movement list into the register aggregate buckets.
// Totals are always recomputed in full from the movement list, never adjusted
// incrementally, so they stay a pure function of the movements.
func ComputeTotals(movements []models.Movement) models.CashTotals {
	var t models.CashTotals
	for _, m := range movements {
		switch m.Type {
		case models.MovementTypeIncome:
			t.TotalIncome += m.Amount
			if m.Method == models.PaymentMethodCash {
				t.CashIncome += m.Amount
			}
			t.TotalProfit += m.Profit
		case models.MovementTypeExpense:
			t.TotalExpense += m.Amount
			if m.Method == models.PaymentMethodCash {
				t.CashExpense += m.Amount
			}
			t.TotalProfit -= m.Amount
		}
	}
	t.OtherIncome = money.Round2(t.TotalIncome - t.CashIncome)
	t.TotalIncome = money.Round2(t.TotalIncome)
	t.TotalExpense = money.Round2(t.TotalExpense)
	t.CashIncome = money.Round2(t.CashIncome)
	t.CashExpense = money.Round2(t.CashExpense)
	t.TotalProfit = money.Round2(t.TotalProfit)
	return t
}

func (s *CashboxService) Open(ctx context.Context, date string) (*models.DailyCash, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}

	if _, err := s.Repo.GetByDate(ctx, date); err == nil {
		return nil, ErrRegisterExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing register: %w", err)
	}

	stale, err := s.Repo.ListOpenBefore(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check open registers: %w", err)
	}
	if len(stale) > 0 {
		return nil, ErrEarlierRegisterOpen
	}

	dc := &models.DailyCash{Date: date, Movements: []models.Movement{}}
	if err := s.Repo.Create(ctx, dc); err != nil {
		return nil, fmt.Errorf("failed to create register: %w", err)
	}
	s.Log.Infof("[Cashbox] opened register for %s", date)
	return dc, nil
}

func (s *CashboxService) Get(ctx context.Context, date string) (*models.DailyCash, error) {
	dc, err := s.Repo.GetByDate(ctx, date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRegisterNotFound
	}
	return dc, err
}

func (s *CashboxService) ListRange(ctx context.Context, from, to string) ([]*models.DailyCash, error) {
	return s.Repo.ListRange(ctx, from, to)
}

// Close closes a register: recomputes totals from the movements, stamps the
// closing snapshot, and triggers the backup export. Closing an already closed
// register is a precondition error.
func (s *CashboxService) Close(ctx context.Context, date string, req *models.CloseCashRequest) (*models.DailyCash, error) {
	dc, err := s.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if dc.Closed {
		return nil, ErrRegisterClosed
	}

	totals := ComputeTotals(dc.Movements)
	if err := s.Repo.UpdateTotals(ctx, date, totals); err != nil {
		return nil, fmt.Errorf("failed to persist totals: %w", err)
	}
	applyTotals(dc, totals)

	now := timeutil.Now()
	dc.ClosingDate = &now
	if req != nil && req.ClosingAmount != nil {
		expected := money.Round2(totals.CashIncome - totals.CashExpense)
		diff := money.Round2(*req.ClosingAmount - expected)
		dc.ClosingAmount = req.ClosingAmount
		dc.ClosingDifference = &diff
	}
	if err := s.Repo.Close(ctx, dc); err != nil {
		return nil, fmt.Errorf("failed to close register: %w", err)
	}
	dc.Closed = true

	metrics.RegistersClosed.WithLabelValues("manual").Inc()
	s.Log.Infof("[Cashbox] closed register %s: income=%.2f expense=%.2f", date, totals.TotalIncome, totals.TotalExpense)

	if s.Backup != nil {
		go s.Backup.ExportRegister(context.Background(), dc)
	}
	if s.Hub != nil {
		s.Hub.Broadcast("register_closed", date, dc)
	}
	return dc, nil
}

// Reopen clears the closing snapshot and resets the cash totals to zero; they
// are rebuilt by the next movement mutation or close.
func (s *CashboxService) Reopen(ctx context.Context, date string) (*models.DailyCash, error) {
	dc, err := s.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if !dc.Closed {
		return nil, ErrRegisterNotClosed
	}

	if err := s.Repo.Reopen(ctx, date); err != nil {
		return nil, fmt.Errorf("failed to reopen register: %w", err)
	}
	if err := s.Repo.UpdateTotals(ctx, date, models.CashTotals{}); err != nil {
		return nil, fmt.Errorf("failed to reset totals: %w", err)
	}

	dc.Closed = false
	dc.ClosingAmount = nil
	dc.ClosingDifference = nil
	dc.ClosingDate = nil
	applyTotals(dc, models.CashTotals{})

	s.Log.Infof("[Cashbox] reopened register %s", date)
	if s.Hub != nil {
		s.Hub.Broadcast("register_reopened", date, dc)
	}
	return dc, nil
}

func (s *CashboxService) AddMovement(ctx context.Context, date string, req *models.CreateMovementRequest) (*models.Movement, error) {
	if err := validateMovement(req); err != nil {
		return nil, err
	}

	dc, err := s.Get(ctx, date)
	if errors.Is(err, ErrRegisterNotFound) {
		// First movement of the day opens the register implicitly
		dc, err = s.Open(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	if dc.Closed {
		return nil, ErrRegisterClosed
	}

	m := &models.Movement{
		CashDate:    date,
		Type:        req.Type,
		Kind:        req.Kind,
		Method:      req.Method,
		Amount:      money.Round2(req.Amount),
		Profit:      money.Round2(req.Profit),
		Description: req.Description,
		Rubro:       req.Rubro,
		Sale:        req.Sale,
		Deposit:     req.Deposit,
	}
	if m.Kind == "" {
		m.Kind = models.MovementKindManual
	}
	if err := s.Repo.InsertMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to insert movement: %w", err)
	}
	if err := s.recompute(ctx, date); err != nil {
		return nil, err
	}

	metrics.MovementsRecorded.WithLabelValues(string(m.Kind)).Inc()
	if s.Hub != nil {
		s.Hub.Broadcast("movement_added", date, m)
	}
	return m, nil
}

func (s *CashboxService) UpdateMovement(ctx context.Context, id int, req *models.CreateMovementRequest) (*models.Movement, error) {
	if err := validateMovement(req); err != nil {
		return nil, err
	}

	m, err := s.Repo.GetMovement(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMovementNotFound
	}
	if err != nil {
		return nil, err
	}

	dc, err := s.Get(ctx, m.CashDate)
	if err != nil {
		return nil, err
	}
	if dc.Closed {
		return nil, ErrRegisterClosed
	}

	m.Type = req.Type
	m.Method = req.Method
	m.Amount = money.Round2(req.Amount)
	m.Profit = money.Round2(req.Profit)
	m.Description = req.Description
	m.Rubro = req.Rubro
	if req.Sale != nil {
		m.Sale = req.Sale
	}
	if req.Deposit != nil {
		m.Deposit = req.Deposit
	}
	if err := s.Repo.UpdateMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update movement: %w", err)
	}
	if err := s.recompute(ctx, m.CashDate); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Broadcast("movement_updated", m.CashDate, m)
	}
	return m, nil
}

func (s *CashboxService) RemoveMovement(ctx context.Context, id int) error {
	m, err := s.Repo.GetMovement(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMovementNotFound
	}
	if err != nil {
		return err
	}

	dc, err := s.Get(ctx, m.CashDate)
	if err != nil {
		return err
	}
	if dc.Closed {
		return ErrRegisterClosed
	}

	if err := s.Repo.DeleteMovement(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	if err := s.recompute(ctx, m.CashDate); err != nil {
		return err
	}

	if s.Hub != nil {
		s.Hub.Broadcast("movement_removed", m.CashDate, m)
	}
	return nil
}

// canPost reports whether a register can still accept movements. A missing
// register is postable since movements open one implicitly.
func canPost(dc *models.DailyCash) error {
	if dc != nil && dc.Closed {
		return ErrRegisterClosed
	}
	return nil
}

// EnsurePostable verifies that the register for date, when one exists, is
// still open. Callers that write their own state before posting a movement
// use it to fail before anything is persisted.
func (s *CashboxService) EnsurePostable(ctx context.Context, date string) error {
	dc, err := s.Get(ctx, date)
	if errors.Is(err, ErrRegisterNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return canPost(dc)
}

// PostCreditPayment records the income side of an installment or running
// account payment into the register for the given date, opening it if needed.
func (s *CashboxService) PostCreditPayment(ctx context.Context, date string, amount, profit float64, method models.PaymentMethod, detail *models.CreditPaymentDetail, description string) error {
	dc, err := s.Get(ctx, date)
	if errors.Is(err, ErrRegisterNotFound) {
		dc, err = s.Open(ctx, date)
	}
	if err != nil {
		return err
	}
	if err := canPost(dc); err != nil {
		return err
	}

	m := &models.Movement{
		CashDate:      date,
		Type:          models.MovementTypeIncome,
		Kind:          models.MovementKindCreditPayment,
		Method:        method,
		Amount:        money.Round2(amount),
		Profit:        money.Round2(profit),
		Description:   description,
		CreditPayment: detail,
	}
	if err := s.Repo.InsertMovement(ctx, m); err != nil {
		return fmt.Errorf("failed to insert credit payment movement: %w", err)
	}
	if err := s.recompute(ctx, date); err != nil {
		return err
	}

	metrics.MovementsRecorded.WithLabelValues(string(models.MovementKindCreditPayment)).Inc()
	if s.Hub != nil {
		s.Hub.Broadcast("movement_added", date, m)
	}
	return nil
}

// ScrubSaleMovements removes every movement referencing a deleted credit sale,
// across all registers, and recomputes totals for each register touched.
func (s *CashboxService) ScrubSaleMovements(ctx context.Context, saleID int) error {
	dates, err := s.Repo.DeleteMovementsBySale(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to scrub sale movements: %w", err)
	}
	for _, date := range dates {
		if err := s.recompute(ctx, date); err != nil {
			return err
		}
	}
	if len(dates) > 0 {
		s.Log.Infof("[Cashbox] scrubbed movements for sale %d across %d registers", saleID, len(dates))
	}
	return nil
}

// ScrubPaymentMovement removes the register movement recorded for a payment
// that is being deleted, identified by its receipt number.
func (s *CashboxService) ScrubPaymentMovement(ctx context.Context, p *models.Payment) error {
	if p.ReceiptNumber == "" {
		return nil
	}
	dates, err := s.Repo.DeleteMovementsByReceipt(ctx, p.ReceiptNumber)
	if err != nil {
		return fmt.Errorf("failed to scrub payment movement: %w", err)
	}
	for _, date := range dates {
		if err := s.recompute(ctx, date); err != nil {
			return err
		}
	}
	return nil
}

// SweepStaleOpenRegisters auto-closes every open register dated before today.
// Unlike an explicit close it never triggers the backup export, and the
// closing difference is stamped as zero.
func (s *CashboxService) SweepStaleOpenRegisters(ctx context.Context) (int, error) {
	today := timeutil.DateKey(timeutil.Today())
	stale, err := s.Repo.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list open registers: %w", err)
	}

	closed := 0
	for _, dc := range stale {
		movements, err := s.Repo.ListMovements(ctx, dc.Date)
		if err != nil {
			s.Log.Errorf("[Cashbox] sweep: failed to load movements for %s: %v", dc.Date, err)
			continue
		}
		totals := ComputeTotals(movements)
		if err := s.Repo.UpdateTotals(ctx, dc.Date, totals); err != nil {
			s.Log.Errorf("[Cashbox] sweep: failed to persist totals for %s: %v", dc.Date, err)
			continue
		}

		now := timeutil.Now()
		expected := money.Round2(totals.CashIncome - totals.CashExpense)
		zero := 0.0
		dc.ClosingAmount = &expected
		dc.ClosingDifference = &zero
		dc.ClosingDate = &now
		if err := s.Repo.Close(ctx, dc); err != nil {
			s.Log.Errorf("[Cashbox] sweep: failed to close %s: %v", dc.Date, err)
			continue
		}

		closed++
		metrics.RegistersClosed.WithLabelValues("sweep").Inc()
		s.Log.Infof("[Cashbox] sweep closed stale register %s", dc.Date)
		if s.Hub != nil {
			s.Hub.Broadcast("register_closed", dc.Date, dc)
		}
	}
	return closed, nil
}

// RunSweeper drives the stale-register sweep: once at startup, on a coarse
// 5-minute ticker, and on a tight 1-minute ticker that only acts inside the
// midnight window so day rollover is caught promptly.
func (s *CashboxService) RunSweeper(ctx context.Context) {
	if _, err := s.SweepStaleOpenRegisters(ctx); err != nil {
		s.Log.Errorf("[Cashbox] startup sweep failed: %v", err)
	}

	coarse := time.NewTicker(5 * time.Minute)
	tight := time.NewTicker(time.Minute)
	defer coarse.Stop()
	defer tight.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-coarse.C:
			if _, err := s.SweepStaleOpenRegisters(ctx); err != nil {
				s.Log.Errorf("[Cashbox] sweep failed: %v", err)
			}
		case <-tight.C:
			if !timeutil.NearMidnight(timeutil.Now(), sweepWindow) {
				continue
			}
			if _, err := s.SweepStaleOpenRegisters(ctx); err != nil {
				s.Log.Errorf("[Cashbox] midnight sweep failed: %v", err)
			}
		}
	}
}

func (s *CashboxService) recompute(ctx context.Context, date string) error {
	movements, err := s.Repo.ListMovements(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to reload movements: %w", err)
	}
	if err := s.Repo.UpdateTotals(ctx, date, ComputeTotals(movements)); err != nil {
		return fmt.Errorf("failed to persist totals: %w", err)
	}
	return nil
}

func validateMovement(req *models.CreateMovementRequest) error {
	if req.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if req.Type != models.MovementTypeIncome && req.Type != models.MovementTypeExpense {
		return errors.New("type must be INCOME or EXPENSE")
	}
	switch req.Method {
	case models.PaymentMethodCash, models.PaymentMethodTransfer, models.PaymentMethodCard,
		models.PaymentMethodCheck, models.PaymentMethodMixed:
	default:
		return errors.New("invalid payment method")
	}
	switch req.Kind {
	case "", models.MovementKindSale, models.MovementKindExpense, models.MovementKindCreditPayment,
		models.MovementKindDeposit, models.MovementKindBudget, models.MovementKindManual:
	default:
		return errors.New("invalid movement kind")
	}
	return nil
}

func applyTotals(dc *models.DailyCash, t models.CashTotals) {
	dc.CashIncome = t.CashIncome
	dc.CashExpense = t.CashExpense
	dc.OtherIncome = t.OtherIncome
	dc.TotalIncome = t.TotalIncome
	dc.TotalExpense = t.TotalExpense
	dc.TotalProfit = t.TotalProfit
}
