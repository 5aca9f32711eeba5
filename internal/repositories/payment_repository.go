package repositories

import (
	"context"

	"caja-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO payments(sale_id, installment_id, receipt_number, amount,
                              method, check_status, payment_date)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at`,
		p.SaleID, p.InstallmentID, p.ReceiptNumber, p.Amount,
		p.Method, p.CheckStatus, p.Date,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, sale_id, installment_id, COALESCE(receipt_number, ''), amount,
                method, check_status, payment_date, created_at
         FROM payments WHERE id=$1`, id)

	var p models.Payment
	err := row.Scan(&p.ID, &p.SaleID, &p.InstallmentID, &p.ReceiptNumber,
		&p.Amount, &p.Method, &p.CheckStatus, &p.Date, &p.CreatedAt)
	return &p, err
}

func (r *PaymentRepository) ListBySale(ctx context.Context, saleID int) ([]models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, sale_id, installment_id, COALESCE(receipt_number, ''), amount,
                method, check_status, payment_date, created_at
         FROM payments WHERE sale_id=$1 ORDER BY payment_date, id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.InstallmentID, &p.ReceiptNumber,
			&p.Amount, &p.Method, &p.CheckStatus, &p.Date, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, sale_id, installment_id, COALESCE(receipt_number, ''), amount,
                method, check_status, payment_date, created_at
         FROM payments ORDER BY payment_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.InstallmentID, &p.ReceiptNumber,
			&p.Amount, &p.Method, &p.CheckStatus, &p.Date, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListPendingChecks returns CHECK payments that have not cleared yet
func (r *PaymentRepository) ListPendingChecks(ctx context.Context) ([]models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, sale_id, installment_id, COALESCE(receipt_number, ''), amount,
                method, check_status, payment_date, created_at
         FROM payments WHERE method='CHECK' AND check_status='PENDING'
         ORDER BY payment_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.InstallmentID, &p.ReceiptNumber,
			&p.Amount, &p.Method, &p.CheckStatus, &p.Date, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) UpdateCheckStatus(ctx context.Context, id int, status models.CheckStatus) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments SET check_status=$2 WHERE id=$1 AND method='CHECK'`,
		id, status)
	return err
}

func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	return err
}
