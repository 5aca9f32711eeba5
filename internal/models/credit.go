package models

import "time"

// CreditKind distinguishes installment plans from open-ended running accounts
type CreditKind string

const (
	CreditKindInstallment CreditKind = "INSTALLMENT"
	CreditKindRunning     CreditKind = "RUNNING" // tab-style credit, settled by arbitrary payments
)

// InstallmentStatus transitions PENDING -> OVERDUE -> PAID. PAID is terminal;
// OVERDUE never goes back to PENDING.
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

// CreditSale is a sale sold on credit, either with a fixed installment plan or
// as a running account.
type CreditSale struct {
	ID              int        `json:"id"`
	CustomerID      *int       `json:"customer_id,omitempty"`
	CustomerName    string     `json:"customer_name"`
	Rubro           string     `json:"rubro,omitempty"`
	Kind            CreditKind `json:"kind"`
	Total           float64    `json:"total"`
	TotalProfit     float64    `json:"total_profit"`
	InterestRate    float64    `json:"interest_rate"`    // percent, simple interest
	PrincipalAmount float64    `json:"principal_amount"` // total before interest
	TotalAmount     float64    `json:"total_amount"`     // principal * (1 + rate/100)
	CreatedAt       time.Time  `json:"created_at"`
}

// Installment is one scheduled partial payment of a credit sale
type Installment struct {
	ID             int               `json:"id"`
	CreditSaleID   int               `json:"credit_sale_id"`
	Number         int               `json:"number"` // 1-based position in the plan
	DueDate        time.Time         `json:"due_date"`
	Amount         float64           `json:"amount"`
	InterestAmount float64           `json:"interest_amount"`
	PenaltyAmount  float64           `json:"penalty_amount"`
	Status         InstallmentStatus `json:"status"`
	PaymentDate    *time.Time        `json:"payment_date,omitempty"`
	DaysOverdue    int               `json:"days_overdue,omitempty"`
}

// CreateCreditSaleRequest creates a sale plus, for installment plans, its schedule
type CreateCreditSaleRequest struct {
	CustomerID       *int       `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	Rubro            string     `json:"rubro"`
	Kind             CreditKind `json:"kind"`
	PrincipalAmount  float64    `json:"principal_amount"`
	InterestRate     float64    `json:"interest_rate"`
	TotalProfit      float64    `json:"total_profit"`
	InstallmentCount int        `json:"installment_count"`
	FirstDueDate     string     `json:"first_due_date"` // ISO day
}

// PayInstallmentRequest applies a payment to a single installment
type PayInstallmentRequest struct {
	Method PaymentMethod `json:"method"`
}

// CreditSaleWithSchedule is the read-side snapshot the handlers return
type CreditSaleWithSchedule struct {
	Sale         CreditSale    `json:"sale"`
	Installments []Installment `json:"installments"`
}
