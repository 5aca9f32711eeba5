package models

import "time"

type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Rubro     string    `json:"rubro"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCustomerRequest represents the request body for registering a customer
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Rubro   string `json:"rubro"`
	Notes   string `json:"notes"`
}

// CustomerCreditSummary is the derived per-customer financial rollup for
// installment credit. Never persisted; recomputed from sales, installments and
// payments, and cached with a short staleness window.
type CustomerCreditSummary struct {
	CustomerID          *int       `json:"customer_id,omitempty"`
	CustomerName        string     `json:"customer_name"`
	TotalCreditAmount   float64    `json:"total_credit_amount"`
	TotalPaidAmount     float64    `json:"total_paid_amount"`
	PendingAmount       float64    `json:"pending_amount"`
	PendingInstallments int        `json:"pending_installments"`
	OverdueInstallments int        `json:"overdue_installments"`
	PaidInstallments    int        `json:"paid_installments"`
	NextDueDate         *time.Time `json:"next_due_date,omitempty"`
	LastPaymentDate     *time.Time `json:"last_payment_date,omitempty"`
}

// RunningAccountSummary is the open-ended tab variant: balance is sale totals
// minus cleared payments. Checks that have not cleared do not reduce the balance.
type RunningAccountSummary struct {
	CustomerID      *int       `json:"customer_id,omitempty"`
	CustomerName    string     `json:"customer_name"`
	TotalSales      float64    `json:"total_sales"`
	TotalPaid       float64    `json:"total_paid"`
	Balance         float64    `json:"balance"`
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
}
