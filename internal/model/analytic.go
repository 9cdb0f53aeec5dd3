package model

import "github.com/google/uuid"

type PortfolioStats struct {
	TotalLoans         int     `json:"total_loans"`
	ActiveLoans        int     `json:"active_loans"`
	PaidOffLoans       int     `json:"paid_off_loans"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	TotalCollected     float64 `json:"total_collected"`
}

// BalanceDrift — кредит, у которого сохраненный баланс разошелся с
// инвариантом balance = total - paid сильнее допуска округления.
type BalanceDrift struct {
	LoanID        uuid.UUID `json:"loan_id"`
	TotalAmount   float64   `json:"total_amount"`
	AmountPaid    float64   `json:"amount_paid"`
	BalanceAmount float64   `json:"balance_amount"`
}
