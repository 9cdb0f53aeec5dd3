package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "ACTIVE"   // кредит обслуживается
	LoanStatusPaidOff LoanStatus = "PAID_OFF" // кредит полностью погашен, дальнейшие платежи запрещены
)

type Loan struct {
	ID              uuid.UUID  `json:"loan_id" db:"loan_id"`
	CustomerID      string     `json:"customer_id" db:"customer_id"`
	PrincipalAmount float64    `json:"principal_amount" db:"principal_amount"`
	TotalAmount     float64    `json:"total_amount" db:"total_amount"`
	InterestRate    float64    `json:"interest_rate" db:"interest_rate"`
	PeriodYears     int        `json:"loan_period_years" db:"loan_period_years"`
	MonthlyEMI      float64    `json:"monthly_emi" db:"monthly_emi"`
	AmountPaid      float64    `json:"amount_paid" db:"amount_paid"`
	BalanceAmount   float64    `json:"balance_amount" db:"balance_amount"`
	EMIsLeft        int        `json:"emis_left" db:"emis_left"`
	Status          LoanStatus `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

type CreateLoanRequest struct {
	CustomerID         string  `json:"customer_id"`
	LoanAmount         float64 `json:"loan_amount"`
	LoanPeriodYears    int     `json:"loan_period_years"`
	InterestRateYearly float64 `json:"interest_rate_yearly"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.CustomerID == "" {
		return fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("%w: loan_amount must be positive", ErrInvalidInput)
	}
	if r.LoanPeriodYears <= 0 {
		return fmt.Errorf("%w: loan_period_years must be positive", ErrInvalidInput)
	}
	if r.InterestRateYearly < 0 {
		return fmt.Errorf("%w: interest_rate_yearly must not be negative", ErrInvalidInput)
	}
	return nil
}

type CreateLoanResponse struct {
	LoanID             uuid.UUID `json:"loan_id"`
	CustomerID         string    `json:"customer_id"`
	TotalAmountPayable float64   `json:"total_amount_payable"`
	MonthlyEMI         float64   `json:"monthly_emi"`
}

// LedgerResponse — снимок кредита вместе с полной историей платежей.
type LedgerResponse struct {
	LoanID        uuid.UUID     `json:"loan_id"`
	CustomerID    string        `json:"customer_id"`
	Principal     float64       `json:"principal"`
	TotalAmount   float64       `json:"total_amount"`
	MonthlyEMI    float64       `json:"monthly_emi"`
	AmountPaid    float64       `json:"amount_paid"`
	BalanceAmount float64       `json:"balance_amount"`
	EMIsLeft      int           `json:"emis_left"`
	Status        LoanStatus    `json:"status"`
	Transactions  []Transaction `json:"transactions"`
}

type LoanSummary struct {
	LoanID        uuid.UUID  `json:"loan_id"`
	Principal     float64    `json:"principal"`
	TotalAmount   float64    `json:"total_amount"`
	TotalInterest float64    `json:"total_interest"`
	EMIAmount     float64    `json:"emi_amount"`
	AmountPaid    float64    `json:"amount_paid"`
	EMIsLeft      int        `json:"emis_left"`
	Status        LoanStatus `json:"status"`
}

type CustomerOverviewResponse struct {
	CustomerID string        `json:"customer_id"`
	TotalLoans int           `json:"total_loans"`
	Loans      []LoanSummary `json:"loans"`
}
