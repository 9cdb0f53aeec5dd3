package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

// ApplyPaymentFunc вычисляет новое состояние кредита и запись о платеже
// по строке, заблокированной на время транзакции. Возврат ошибки
// откатывает транзакцию целиком.
type ApplyPaymentFunc func(loan *model.Loan) (*model.Loan, *model.Payment, error)

type CustomerRepository interface {
	// Ensure — идемпотентный upsert по идентификатору: существующая
	// запись не перезаписывается.
	Ensure(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	GetCustomerLoans(ctx context.Context, customerID string) ([]model.Loan, error)
	// ApplyPayment атомарно сохраняет обновление кредита вместе с записью
	// платежа; конкурентные платежи по одному кредиту сериализуются.
	ApplyPayment(ctx context.Context, loanID uuid.UUID, apply ApplyPaymentFunc) (*model.Loan, *model.Payment, error)
	GetPortfolioStats(ctx context.Context) (*model.PortfolioStats, error)
	GetBalanceDrifts(ctx context.Context, tolerance float64) ([]model.BalanceDrift, error)
}

type PaymentRepository interface {
	// GetLoanPayments возвращает платежи по возрастанию даты; платежи с
	// одинаковой датой идут в порядке записи.
	GetLoanPayments(ctx context.Context, loanID uuid.UUID) ([]model.Payment, error)
}
