package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"caja-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DailyCashRepository struct {
	DB *pgxpool.Pool
}

func NewDailyCashRepository(db *pgxpool.Pool) *DailyCashRepository {
	return &DailyCashRepository{DB: db}
}

func (r *DailyCashRepository) Create(ctx context.Context, dc *models.DailyCash) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO daily_cash(cash_date, closed)
         VALUES($1, false)
         RETURNING id, created_at`,
		dc.Date,
	).Scan(&dc.ID, &dc.CreatedAt)
}

func (r *DailyCashRepository) GetByDate(ctx context.Context, date string) (*models.DailyCash, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, cash_date::text, closed, cash_income, cash_expense, other_income,
                total_income, total_expense, total_profit,
                closing_amount, closing_difference, closing_date, created_at
         FROM daily_cash WHERE cash_date=$1`, date)

	var dc models.DailyCash
	err := row.Scan(&dc.ID, &dc.Date, &dc.Closed, &dc.CashIncome, &dc.CashExpense,
		&dc.OtherIncome, &dc.TotalIncome, &dc.TotalExpense, &dc.TotalProfit,
		&dc.ClosingAmount, &dc.ClosingDifference, &dc.ClosingDate, &dc.CreatedAt)
	if err != nil {
		return nil, err
	}

	movements, err := r.ListMovements(ctx, dc.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	dc.Movements = movements
	return &dc, nil
}

// ListOpenBefore returns open registers whose date is strictly before the
// given ISO day. Used by the stale-register sweep.
func (r *DailyCashRepository) ListOpenBefore(ctx context.Context, date string) ([]*models.DailyCash, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, cash_date::text, closed, cash_income, cash_expense, other_income,
                total_income, total_expense, total_profit,
                closing_amount, closing_difference, closing_date, created_at
         FROM daily_cash WHERE closed=false AND cash_date < $1
         ORDER BY cash_date`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DailyCash
	for rows.Next() {
		var dc models.DailyCash
		if err := rows.Scan(&dc.ID, &dc.Date, &dc.Closed, &dc.CashIncome, &dc.CashExpense,
			&dc.OtherIncome, &dc.TotalIncome, &dc.TotalExpense, &dc.TotalProfit,
			&dc.ClosingAmount, &dc.ClosingDifference, &dc.ClosingDate, &dc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &dc)
	}
	return out, rows.Err()
}

// ListRange returns registers between two ISO days inclusive, movements included.
// Used by the reporting rollups.
func (r *DailyCashRepository) ListRange(ctx context.Context, from, to string) ([]*models.DailyCash, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, cash_date::text, closed, cash_income, cash_expense, other_income,
                total_income, total_expense, total_profit,
                closing_amount, closing_difference, closing_date, created_at
         FROM daily_cash WHERE cash_date BETWEEN $1 AND $2
         ORDER BY cash_date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DailyCash
	for rows.Next() {
		var dc models.DailyCash
		if err := rows.Scan(&dc.ID, &dc.Date, &dc.Closed, &dc.CashIncome, &dc.CashExpense,
			&dc.OtherIncome, &dc.TotalIncome, &dc.TotalExpense, &dc.TotalProfit,
			&dc.ClosingAmount, &dc.ClosingDifference, &dc.ClosingDate, &dc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, dc := range out {
		movements, err := r.ListMovements(ctx, dc.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to load movements for %s: %w", dc.Date, err)
		}
		dc.Movements = movements
	}
	return out, nil
}

// UpdateTotals persists a recomputed aggregate set for a register
func (r *DailyCashRepository) UpdateTotals(ctx context.Context, date string, t models.CashTotals) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE daily_cash
         SET cash_income=$2, cash_expense=$3, other_income=$4,
             total_income=$5, total_expense=$6, total_profit=$7
         WHERE cash_date=$1`,
		date, t.CashIncome, t.CashExpense, t.OtherIncome,
		t.TotalIncome, t.TotalExpense, t.TotalProfit)
	return err
}

func (r *DailyCashRepository) Close(ctx context.Context, dc *models.DailyCash) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE daily_cash
         SET closed=true, closing_amount=$2, closing_difference=$3, closing_date=$4
         WHERE cash_date=$1`,
		dc.Date, dc.ClosingAmount, dc.ClosingDifference, dc.ClosingDate)
	return err
}

// Reopen clears the closed flag and the closing snapshot
func (r *DailyCashRepository) Reopen(ctx context.Context, date string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE daily_cash
         SET closed=false, closing_amount=NULL, closing_difference=NULL, closing_date=NULL
         WHERE cash_date=$1`, date)
	return err
}

func (r *DailyCashRepository) InsertMovement(ctx context.Context, m *models.Movement) error {
	sale, err := marshalPayload(m.Sale)
	if err != nil {
		return err
	}
	creditPayment, err := marshalPayload(m.CreditPayment)
	if err != nil {
		return err
	}
	deposit, err := marshalPayload(m.Deposit)
	if err != nil {
		return err
	}

	return r.DB.QueryRow(ctx,
		`INSERT INTO movements(cash_date, type, kind, method, amount, profit,
                               description, rubro, sale, credit_payment, deposit)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
         RETURNING id, created_at`,
		m.CashDate, m.Type, m.Kind, m.Method, m.Amount, m.Profit,
		m.Description, m.Rubro, sale, creditPayment, deposit,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *DailyCashRepository) GetMovement(ctx context.Context, id int) (*models.Movement, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, cash_date::text, type, kind, method, amount, profit,
                COALESCE(description, ''), COALESCE(rubro, ''),
                sale, credit_payment, deposit, created_at
         FROM movements WHERE id=$1`, id)
	return scanMovement(row)
}

func (r *DailyCashRepository) UpdateMovement(ctx context.Context, m *models.Movement) error {
	sale, err := marshalPayload(m.Sale)
	if err != nil {
		return err
	}
	deposit, err := marshalPayload(m.Deposit)
	if err != nil {
		return err
	}

	_, err = r.DB.Exec(ctx,
		`UPDATE movements
         SET type=$2, method=$3, amount=$4, profit=$5, description=$6, rubro=$7,
             sale=$8, deposit=$9
         WHERE id=$1`,
		m.ID, m.Type, m.Method, m.Amount, m.Profit, m.Description, m.Rubro,
		sale, deposit)
	return err
}

func (r *DailyCashRepository) DeleteMovement(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM movements WHERE id=$1`, id)
	return err
}

func (r *DailyCashRepository) ListMovements(ctx context.Context, date string) ([]models.Movement, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, cash_date::text, type, kind, method, amount, profit,
                COALESCE(description, ''), COALESCE(rubro, ''),
                sale, credit_payment, deposit, created_at
         FROM movements WHERE cash_date=$1 ORDER BY created_at, id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []models.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, *m)
	}
	return movements, rows.Err()
}

// DeleteMovementsBySale removes every CREDIT_PAYMENT movement that references
// the given credit sale, across all registers. Returns the dates touched so
// the caller can recompute their totals.
func (r *DailyCashRepository) DeleteMovementsBySale(ctx context.Context, saleID int) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`DELETE FROM movements
         WHERE kind='CREDIT_PAYMENT' AND (credit_payment->>'sale_id')::int = $1
         RETURNING cash_date::text`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	return dates, rows.Err()
}

// DeleteMovementsByReceipt removes movements tied to a deleted payment's
// receipt number. Returns the dates touched for totals recomputation.
func (r *DailyCashRepository) DeleteMovementsByReceipt(ctx context.Context, receipt string) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`DELETE FROM movements
         WHERE kind='CREDIT_PAYMENT' AND credit_payment->>'receipt_number' = $1
         RETURNING cash_date::text`, receipt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	return dates, rows.Err()
}

func marshalPayload(v interface{}) ([]byte, error) {
	switch p := v.(type) {
	case *models.SaleDetail:
		if p == nil {
			return nil, nil
		}
	case *models.CreditPaymentDetail:
		if p == nil {
			return nil, nil
		}
	case *models.DepositDetail:
		if p == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movement payload: %w", err)
	}
	return b, nil
}

func scanMovement(row pgx.Row) (*models.Movement, error) {
	var m models.Movement
	var sale, creditPayment, deposit []byte
	err := row.Scan(&m.ID, &m.CashDate, &m.Type, &m.Kind, &m.Method, &m.Amount,
		&m.Profit, &m.Description, &m.Rubro, &sale, &creditPayment, &deposit,
		&m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(sale) > 0 {
		m.Sale = &models.SaleDetail{}
		if err := json.Unmarshal(sale, m.Sale); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sale payload: %w", err)
		}
	}
	if len(creditPayment) > 0 {
		m.CreditPayment = &models.CreditPaymentDetail{}
		if err := json.Unmarshal(creditPayment, m.CreditPayment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal credit payment payload: %w", err)
		}
	}
	if len(deposit) > 0 {
		m.Deposit = &models.DepositDetail{}
		if err := json.Unmarshal(deposit, m.Deposit); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deposit payload: %w", err)
		}
	}
	return &m, nil
}
