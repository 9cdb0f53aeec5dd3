package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

// MemoryStore — реализация репозиториев в памяти для тестов и локального
// запуска без Postgres. Один мьютекс на все хранилище: платеж читает и
// пишет состояние кредита под той же блокировкой, что и в Postgres
// достигается через SELECT ... FOR UPDATE.
type MemoryStore struct {
	mu        sync.Mutex
	customers map[string]model.Customer
	loans     map[uuid.UUID]model.Loan
	payments  map[uuid.UUID][]model.Payment // в порядке записи
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[string]model.Customer),
		loans:     make(map[uuid.UUID]model.Loan),
		payments:  make(map[uuid.UUID][]model.Payment),
	}
}

// Customers возвращает представление хранилища как CustomerRepository.
func (s *MemoryStore) Customers() CustomerRepository { return memoryCustomerRepo{s} }

// Loans возвращает представление хранилища как LoanRepository.
func (s *MemoryStore) Loans() LoanRepository { return memoryLoanRepo{s} }

// Payments возвращает представление хранилища как PaymentRepository.
func (s *MemoryStore) Payments() PaymentRepository { return memoryPaymentRepo{s} }

type memoryCustomerRepo struct{ s *MemoryStore }

func (r memoryCustomerRepo) Ensure(_ context.Context, customer *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[customer.ID]; ok {
		return nil
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r memoryCustomerRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customer, ok := r.s.customers[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return &customer, nil
}

type memoryLoanRepo struct{ s *MemoryStore }

func (r memoryLoanRepo) Create(_ context.Context, loan *model.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[loan.CustomerID]; !ok {
		return model.ErrCustomerNotFound
	}
	r.s.loans[loan.ID] = *loan
	return nil
}

func (r memoryLoanRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getLoanLocked(id)
}

func (s *MemoryStore) getLoanLocked(id uuid.UUID) (*model.Loan, error) {
	loan, ok := s.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	return &loan, nil
}

func (r memoryLoanRepo) GetCustomerLoans(_ context.Context, customerID string) ([]model.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var loans []model.Loan
	for _, loan := range r.s.loans {
		if loan.CustomerID == customerID {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (r memoryLoanRepo) ApplyPayment(_ context.Context, loanID uuid.UUID, apply ApplyPaymentFunc) (*model.Loan, *model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	loan, err := r.s.getLoanLocked(loanID)
	if err != nil {
		return nil, nil, err
	}

	updated, payment, err := apply(loan)
	if err != nil {
		return nil, nil, err
	}

	r.s.loans[updated.ID] = *updated
	r.s.payments[loanID] = append(r.s.payments[loanID], *payment)
	return updated, payment, nil
}

func (r memoryLoanRepo) GetPortfolioStats(_ context.Context) (*model.PortfolioStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var stats model.PortfolioStats
	for _, loan := range r.s.loans {
		stats.TotalLoans++
		if loan.Status == model.LoanStatusPaidOff {
			stats.PaidOffLoans++
		} else {
			stats.ActiveLoans++
		}
		stats.OutstandingBalance += loan.BalanceAmount
		stats.TotalCollected += loan.AmountPaid
	}
	return &stats, nil
}

func (r memoryLoanRepo) GetBalanceDrifts(_ context.Context, tolerance float64) ([]model.BalanceDrift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var drifts []model.BalanceDrift
	for _, loan := range r.s.loans {
		if loan.Status != model.LoanStatusActive {
			continue
		}
		drift := loan.TotalAmount - loan.AmountPaid - loan.BalanceAmount
		if drift > tolerance || drift < -tolerance {
			drifts = append(drifts, model.BalanceDrift{
				LoanID:        loan.ID,
				TotalAmount:   loan.TotalAmount,
				AmountPaid:    loan.AmountPaid,
				BalanceAmount: loan.BalanceAmount,
			})
		}
	}
	return drifts, nil
}

type memoryPaymentRepo struct{ s *MemoryStore }

func (r memoryPaymentRepo) GetLoanPayments(_ context.Context, loanID uuid.UUID) ([]model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payments := make([]model.Payment, len(r.s.payments[loanID]))
	copy(payments, r.s.payments[loanID])
	return payments, nil
}
