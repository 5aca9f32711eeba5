package repositories

import (
	"context"
	"fmt"

	"caja-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CreditRepository struct {
	DB *pgxpool.Pool
}

func NewCreditRepository(db *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{DB: db}
}

// CreateWithSchedule inserts the sale and its installments in one transaction
func (r *CreditRepository) CreateWithSchedule(ctx context.Context, sale *models.CreditSale, installments []models.Installment) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO credit_sales(customer_id, customer_name, rubro, kind, total,
                                  total_profit, interest_rate, principal_amount, total_amount)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at`,
		sale.CustomerID, sale.CustomerName, sale.Rubro, sale.Kind, sale.Total,
		sale.TotalProfit, sale.InterestRate, sale.PrincipalAmount, sale.TotalAmount,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert credit sale: %w", err)
	}

	for i := range installments {
		inst := &installments[i]
		inst.CreditSaleID = sale.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO installments(credit_sale_id, number, due_date, amount,
                                      interest_amount, penalty_amount, status)
             VALUES($1, $2, $3, $4, $5, $6, $7)
             RETURNING id`,
			inst.CreditSaleID, inst.Number, inst.DueDate, inst.Amount,
			inst.InterestAmount, inst.PenaltyAmount, inst.Status,
		).Scan(&inst.ID)
		if err != nil {
			return fmt.Errorf("failed to insert installment %d: %w", inst.Number, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *CreditRepository) GetSale(ctx context.Context, id int) (*models.CreditSale, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, customer_id, COALESCE(customer_name, ''), COALESCE(rubro, ''),
                kind, total, total_profit, interest_rate, principal_amount,
                total_amount, created_at
         FROM credit_sales WHERE id=$1`, id)

	var s models.CreditSale
	err := row.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Rubro, &s.Kind,
		&s.Total, &s.TotalProfit, &s.InterestRate, &s.PrincipalAmount,
		&s.TotalAmount, &s.CreatedAt)
	return &s, err
}

func (r *CreditRepository) ListSales(ctx context.Context, kind models.CreditKind) ([]*models.CreditSale, error) {
	query := `SELECT id, customer_id, COALESCE(customer_name, ''), COALESCE(rubro, ''),
                     kind, total, total_profit, interest_rate, principal_amount,
                     total_amount, created_at
              FROM credit_sales`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind=$1`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.CreditSale
	for rows.Next() {
		var s models.CreditSale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Rubro, &s.Kind,
			&s.Total, &s.TotalProfit, &s.InterestRate, &s.PrincipalAmount,
			&s.TotalAmount, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}

func (r *CreditRepository) ListSalesByCustomer(ctx context.Context, customerID int) ([]*models.CreditSale, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, COALESCE(customer_name, ''), COALESCE(rubro, ''),
                kind, total, total_profit, interest_rate, principal_amount,
                total_amount, created_at
         FROM credit_sales WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.CreditSale
	for rows.Next() {
		var s models.CreditSale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Rubro, &s.Kind,
			&s.Total, &s.TotalProfit, &s.InterestRate, &s.PrincipalAmount,
			&s.TotalAmount, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}

func (r *CreditRepository) GetInstallment(ctx context.Context, id int) (*models.Installment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, credit_sale_id, number, due_date, amount, interest_amount,
                penalty_amount, status, payment_date, days_overdue
         FROM installments WHERE id=$1`, id)

	var inst models.Installment
	err := row.Scan(&inst.ID, &inst.CreditSaleID, &inst.Number, &inst.DueDate,
		&inst.Amount, &inst.InterestAmount, &inst.PenaltyAmount, &inst.Status,
		&inst.PaymentDate, &inst.DaysOverdue)
	return &inst, err
}

func (r *CreditRepository) ListInstallments(ctx context.Context, saleID int) ([]models.Installment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, credit_sale_id, number, due_date, amount, interest_amount,
                penalty_amount, status, payment_date, days_overdue
         FROM installments WHERE credit_sale_id=$1 ORDER BY number`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		var inst models.Installment
		if err := rows.Scan(&inst.ID, &inst.CreditSaleID, &inst.Number, &inst.DueDate,
			&inst.Amount, &inst.InterestAmount, &inst.PenaltyAmount, &inst.Status,
			&inst.PaymentDate, &inst.DaysOverdue); err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

// ListAllInstallments loads every installment with its owning sale, for the
// summary aggregator and the overdue sweep.
func (r *CreditRepository) ListAllInstallments(ctx context.Context) ([]models.Installment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, credit_sale_id, number, due_date, amount, interest_amount,
                penalty_amount, status, payment_date, days_overdue
         FROM installments ORDER BY credit_sale_id, number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		var inst models.Installment
		if err := rows.Scan(&inst.ID, &inst.CreditSaleID, &inst.Number, &inst.DueDate,
			&inst.Amount, &inst.InterestAmount, &inst.PenaltyAmount, &inst.Status,
			&inst.PaymentDate, &inst.DaysOverdue); err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func (r *CreditRepository) UpdateInstallment(ctx context.Context, inst *models.Installment) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE installments
         SET status=$2, payment_date=$3, days_overdue=$4, penalty_amount=$5
         WHERE id=$1`,
		inst.ID, inst.Status, inst.PaymentDate, inst.DaysOverdue, inst.PenaltyAmount)
	return err
}

// MarkOverdue flips a batch of PENDING installments to OVERDUE and stamps the
// days-overdue counters in a single transaction.
func (r *CreditRepository) MarkOverdue(ctx context.Context, installments []models.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, inst := range installments {
		_, err := tx.Exec(ctx,
			`UPDATE installments SET status=$2, days_overdue=$3
             WHERE id=$1 AND status='PENDING'`,
			inst.ID, models.InstallmentStatusOverdue, inst.DaysOverdue)
		if err != nil {
			return fmt.Errorf("failed to mark installment %d overdue: %w", inst.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// DeleteSale cascades to installments and payments via foreign keys
func (r *CreditRepository) DeleteSale(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM credit_sales WHERE id=$1`, id)
	return err
}
