package services

import (
	"context"
	"errors"
	"fmt"

	"caja-backend/internal/cache"
	"caja-backend/internal/models"
	"caja-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNotACheck       = errors.New("payment is not a check")
)

type PaymentService struct {
	Repo       *repositories.PaymentRepository
	CreditRepo *repositories.CreditRepository
	Cashbox    *CashboxService
	Log        *logrus.Logger
}

func NewPaymentService(repo *repositories.PaymentRepository, creditRepo *repositories.CreditRepository, cashbox *CashboxService, log *logrus.Logger) *PaymentService {
	return &PaymentService{Repo: repo, CreditRepo: creditRepo, Cashbox: cashbox, Log: log}
}

func (s *PaymentService) ListBySale(ctx context.Context, saleID int) ([]models.Payment, error) {
	return s.Repo.ListBySale(ctx, saleID)
}

func (s *PaymentService) ListPendingChecks(ctx context.Context) ([]models.Payment, error) {
	return s.Repo.ListPendingChecks(ctx)
}

// ClearCheck transitions a CHECK payment from PENDING to CLEARED, which is
// the point the amount starts counting against the customer's balance.
func (s *PaymentService) ClearCheck(ctx context.Context, paymentID int) (*models.Payment, error) {
	p, err := s.Repo.Get(ctx, paymentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Method != models.PaymentMethodCheck {
		return nil, ErrNotACheck
	}

	if err := s.Repo.UpdateCheckStatus(ctx, paymentID, models.CheckStatusCleared); err != nil {
		return nil, fmt.Errorf("failed to clear check: %w", err)
	}
	cleared := models.CheckStatusCleared
	p.CheckStatus = &cleared

	cache.InvalidateSummaries(ctx)
	s.Log.Infof("[Payment] check %s cleared (payment %d)", p.ReceiptNumber, p.ID)
	return p, nil
}

// Delete removes a payment (admin only). The cascade reverts the side
// effects of recording it: an installment payment flips its installment back
// to PENDING, and any register movement carrying the receipt is scrubbed via
// a totals recompute on the affected date.
func (s *PaymentService) Delete(ctx context.Context, paymentID int) error {
	p, err := s.Repo.Get(ctx, paymentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return err
	}

	if p.InstallmentID != nil {
		inst, err := s.CreditRepo.GetInstallment(ctx, *p.InstallmentID)
		if err == nil {
			inst.Status = models.InstallmentStatusPending
			inst.PaymentDate = nil
			if err := s.CreditRepo.UpdateInstallment(ctx, inst); err != nil {
				return fmt.Errorf("failed to revert installment: %w", err)
			}
		}
	}

	if err := s.Repo.Delete(ctx, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if err := s.Cashbox.ScrubPaymentMovement(ctx, p); err != nil {
		return err
	}

	cache.InvalidateSummaries(ctx)
	s.Log.Infof("[Payment] deleted payment %d (receipt %s)", p.ID, p.ReceiptNumber)
	return nil
}
