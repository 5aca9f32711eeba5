package models

import "time"

// CheckStatus tracks check clearance. Only payments with method CHECK carry one;
// an uncleared check does not reduce a running-account balance.
type CheckStatus string

const (
	CheckStatusPending CheckStatus = "PENDING"
	CheckStatusCleared CheckStatus = "CLEARED"
)

// Payment is a money receipt applied against a credit sale. Immutable once
// created, except the PENDING -> CLEARED check transition; deletable only by
// explicit admin action (with cascading effects on sale and register state).
type Payment struct {
	ID            int           `json:"id"`
	SaleID        int           `json:"sale_id"`
	InstallmentID *int          `json:"installment_id,omitempty"`
	ReceiptNumber string        `json:"receipt_number"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method"`
	CheckStatus   *CheckStatus  `json:"check_status,omitempty"`
	Date          time.Time     `json:"date"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CreatePaymentRequest applies an arbitrary payment to a running account
type CreatePaymentRequest struct {
	SaleID int           `json:"sale_id"`
	Amount float64       `json:"amount"`
	Method PaymentMethod `json:"method"`
}
