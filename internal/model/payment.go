package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentTypeEMI     PaymentType = "EMI"      // плановый ежемесячный платеж
	PaymentTypeLumpSum PaymentType = "LUMP_SUM" // досрочное погашение произвольной суммой
)

// Payment — неизменяемая запись о платеже. История платежей по кредиту
// только пополняется, задним числом записи не меняются.
type Payment struct {
	ID          uuid.UUID   `json:"payment_id" db:"payment_id"`
	LoanID      uuid.UUID   `json:"loan_id" db:"loan_id"`
	Amount      float64     `json:"amount" db:"amount"`
	PaymentType PaymentType `json:"payment_type" db:"payment_type"`
	PaymentDate time.Time   `json:"payment_date" db:"payment_date"`
}

type RecordPaymentRequest struct {
	Amount      float64     `json:"amount"`
	PaymentType PaymentType `json:"payment_type"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if r.PaymentType != PaymentTypeEMI && r.PaymentType != PaymentTypeLumpSum {
		return fmt.Errorf("%w: payment_type must be EMI or LUMP_SUM", ErrInvalidInput)
	}
	return nil
}

type RecordPaymentResponse struct {
	PaymentID        uuid.UUID  `json:"payment_id"`
	LoanID           uuid.UUID  `json:"loan_id"`
	RemainingBalance float64    `json:"remaining_balance"`
	EMIsLeft         int        `json:"emis_left"`
	Status           LoanStatus `json:"status"`
}

// Transaction — представление платежа в выписке по кредиту.
type Transaction struct {
	TransactionID uuid.UUID   `json:"transaction_id"`
	Date          time.Time   `json:"date"`
	Amount        float64     `json:"amount"`
	Type          PaymentType `json:"type"`
}
