package models

import "time"

// MovementType places a movement in one of the two register buckets
type MovementType string

const (
	MovementTypeIncome  MovementType = "INCOME"
	MovementTypeExpense MovementType = "EXPENSE"
)

// PaymentMethod is how money changed hands for a movement or payment
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCheck    PaymentMethod = "CHECK"
	PaymentMethodMixed    PaymentMethod = "MIXED"
)

// MovementKind discriminates what produced a movement. Kind-specific data lives
// in the matching payload struct below; exactly one payload is set per movement.
type MovementKind string

const (
	MovementKindSale          MovementKind = "SALE"           // counter sale, carries item snapshot
	MovementKindExpense       MovementKind = "EXPENSE"        // operating expense
	MovementKindCreditPayment MovementKind = "CREDIT_PAYMENT" // installment or running-account payment
	MovementKindDeposit       MovementKind = "DEPOSIT"        // customer deposit / advance
	MovementKindBudget        MovementKind = "BUDGET"         // sale converted from a quote
	MovementKindManual        MovementKind = "MANUAL"         // hand-entered adjustment
)

// MovementItem is the product snapshot captured at sale time
type MovementItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

// SaleDetail is the payload for SALE and BUDGET movements
type SaleDetail struct {
	Items    []MovementItem `json:"items,omitempty"`
	BudgetID *int           `json:"budget_id,omitempty"`
}

// CreditPaymentDetail is the payload for CREDIT_PAYMENT movements
type CreditPaymentDetail struct {
	SaleID        int    `json:"sale_id"`
	InstallmentID *int   `json:"installment_id,omitempty"` // nil for running-account payments
	ReceiptNumber string `json:"receipt_number,omitempty"`
}

// DepositDetail is the payload for DEPOSIT movements
type DepositDetail struct {
	CustomerID   *int   `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// Movement is a single income or expense entry inside a daily register.
// Amount is always >= 0; Profit may be negative (a loss) and is tracked
// independently of the amount.
type Movement struct {
	ID            int                  `json:"id"`
	CashDate      string               `json:"cash_date"` // ISO day of the owning register
	Type          MovementType         `json:"type"`
	Kind          MovementKind         `json:"kind"`
	Method        PaymentMethod        `json:"method"`
	Amount        float64              `json:"amount"`
	Profit        float64              `json:"profit"`
	Description   string               `json:"description"`
	Rubro         string               `json:"rubro,omitempty"`
	Sale          *SaleDetail          `json:"sale,omitempty"`
	CreditPayment *CreditPaymentDetail `json:"credit_payment,omitempty"`
	Deposit       *DepositDetail       `json:"deposit,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// DailyCash is the per-calendar-day cash register. One register exists per date;
// every aggregate field is a pure function of the movement list and is recomputed
// in full on every mutation.
type DailyCash struct {
	ID                int        `json:"id"`
	Date              string     `json:"date"` // ISO calendar day, unique
	Closed            bool       `json:"closed"`
	CashIncome        float64    `json:"cash_income"`
	CashExpense       float64    `json:"cash_expense"`
	OtherIncome       float64    `json:"other_income"`
	TotalIncome       float64    `json:"total_income"`
	TotalExpense      float64    `json:"total_expense"`
	TotalProfit       float64    `json:"total_profit"`
	ClosingAmount     *float64   `json:"closing_amount,omitempty"`
	ClosingDifference *float64   `json:"closing_difference,omitempty"`
	ClosingDate       *time.Time `json:"closing_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`

	Movements []Movement `json:"movements"`
}

// CashTotals is the aggregate bucket set recomputed from a movement list
type CashTotals struct {
	CashIncome   float64 `json:"cash_income"`
	CashExpense  float64 `json:"cash_expense"`
	OtherIncome  float64 `json:"other_income"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	TotalProfit  float64 `json:"total_profit"`
}

// CreateMovementRequest is the handler-facing shape for inserting a movement
type CreateMovementRequest struct {
	Type        MovementType   `json:"type"`
	Kind        MovementKind   `json:"kind"`
	Method      PaymentMethod  `json:"method"`
	Amount      float64        `json:"amount"`
	Profit      float64        `json:"profit"`
	Description string         `json:"description"`
	Rubro       string         `json:"rubro"`
	Sale        *SaleDetail    `json:"sale,omitempty"`
	Deposit     *DepositDetail `json:"deposit,omitempty"`
}

// CloseCashRequest carries the counted drawer amount on explicit close
type CloseCashRequest struct {
	ClosingAmount *float64 `json:"closing_amount,omitempty"`
}
