package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/ledger"
	"github.com/malapatiprasanna/bank-lending-system/internal/model"
	"github.com/malapatiprasanna/bank-lending-system/internal/repository"
)

type LoanService struct {
	loanRepo     repository.LoanRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	cache        repository.CacheRepository
	emailSender  *EmailSender
	logger       *logrus.Logger
}

// NewLoanService создает сервис кредитов. cache и emailSender могут быть
// nil: кэширование и уведомления в этом случае отключены.
func NewLoanService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	cache repository.CacheRepository,
	emailSender *EmailSender,
	logger *logrus.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		cache:        cache,
		emailSender:  emailSender,
		logger:       logger,
	}
}

func ledgerCacheKey(loanID uuid.UUID) string { return "ledger:" + loanID.String() }

func overviewCacheKey(customerID string) string { return "overview:" + customerID }

// CreateLoan выдает кредит по схеме простых процентов. Клиент должен быть
// заведен заранее: upsert клиента выполняет вызывающий слой, сервис
// кредитов чужие сущности не создает.
func (s *LoanService) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (*model.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	terms := ledger.Compute(req.LoanAmount, req.LoanPeriodYears, req.InterestRateYearly)
	s.logger.Infof("Создание кредита для клиента %s: сумма %.2f, срок %d лет, ставка %.2f%%, EMI %.2f",
		req.CustomerID, req.LoanAmount, req.LoanPeriodYears, req.InterestRateYearly, terms.MonthlyEMI)

	loan := &model.Loan{
		ID:              uuid.New(),
		CustomerID:      req.CustomerID,
		PrincipalAmount: ledger.Round2(req.LoanAmount),
		TotalAmount:     terms.TotalPayable,
		InterestRate:    req.InterestRateYearly,
		PeriodYears:     req.LoanPeriodYears,
		MonthlyEMI:      terms.MonthlyEMI,
		AmountPaid:      0,
		BalanceAmount:   terms.TotalPayable,
		EMIsLeft:        terms.EMIsLeft,
		Status:          model.LoanStatusActive,
		CreatedAt:       time.Now(),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		s.logger.WithError(err).Error("Ошибка создания записи о кредите")
		return nil, fmt.Errorf("ошибка создания кредита: %w", err)
	}

	s.invalidateCache(ctx, overviewCacheKey(req.CustomerID))
	s.logger.Infof("Кредит %s успешно создан для клиента %s", loan.ID, req.CustomerID)
	return loan, nil
}

// ApplyPayment применяет платеж к кредиту. Новое состояние вычисляется
// расчетным ядром над строкой, заблокированной репозиторием; обновление
// кредита и запись о платеже сохраняются одной транзакцией.
func (s *LoanService) ApplyPayment(ctx context.Context, loanID uuid.UUID, req model.RecordPaymentRequest) (*model.RecordPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.logger.Infof("Платеж по кредиту %s: сумма %.2f, тип %s", loanID, req.Amount, req.PaymentType)

	updated, payment, err := s.loanRepo.ApplyPayment(ctx, loanID, func(loan *model.Loan) (*model.Loan, *model.Payment, error) {
		applied, err := ledger.Apply(loan, req.Amount, req.PaymentType)
		if err != nil {
			return nil, nil, err
		}

		next := *loan
		next.BalanceAmount = applied.BalanceAmount
		next.AmountPaid = applied.AmountPaid
		next.EMIsLeft = applied.EMIsLeft
		next.Status = applied.Status

		record := &model.Payment{
			ID:          uuid.New(),
			LoanID:      loan.ID,
			Amount:      ledger.Round2(req.Amount),
			PaymentType: req.PaymentType,
			PaymentDate: time.Now(),
		}
		return &next, record, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, ledgerCacheKey(loanID), overviewCacheKey(updated.CustomerID))

	if updated.Status == model.LoanStatusPaidOff {
		s.logger.Infof("Кредит %s полностью погашен", loanID)
	}
	s.notifyPayment(ctx, updated, payment)

	return &model.RecordPaymentResponse{
		PaymentID:        payment.ID,
		LoanID:           updated.ID,
		RemainingBalance: updated.BalanceAmount,
		EMIsLeft:         updated.EMIsLeft,
		Status:           updated.Status,
	}, nil
}

// GetLedger возвращает снимок кредита с полной историей платежей.
func (s *LoanService) GetLedger(ctx context.Context, loanID uuid.UUID) (*model.LedgerResponse, error) {
	if cached, ok := s.cacheGet(ctx, ledgerCacheKey(loanID)); ok {
		var resp model.LedgerResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetLoanPayments(ctx, loanID)
	if err != nil {
		s.logger.WithError(err).Errorf("Ошибка получения платежей по кредиту %s", loanID)
		return nil, fmt.Errorf("ошибка получения платежей: %w", err)
	}

	transactions := make([]model.Transaction, 0, len(payments))
	for _, p := range payments {
		transactions = append(transactions, model.Transaction{
			TransactionID: p.ID,
			Date:          p.PaymentDate,
			Amount:        p.Amount,
			Type:          p.PaymentType,
		})
	}

	resp := &model.LedgerResponse{
		LoanID:        loan.ID,
		CustomerID:    loan.CustomerID,
		Principal:     loan.PrincipalAmount,
		TotalAmount:   loan.TotalAmount,
		MonthlyEMI:    loan.MonthlyEMI,
		AmountPaid:    loan.AmountPaid,
		BalanceAmount: loan.BalanceAmount,
		EMIsLeft:      loan.EMIsLeft,
		Status:        loan.Status,
		Transactions:  transactions,
	}

	s.cacheSet(ctx, ledgerCacheKey(loanID), resp)
	return resp, nil
}

// GetCustomerOverview возвращает сводку по всем кредитам клиента.
// Неизвестный клиент — NotFound; заведенный клиент без кредитов получает
// пустой список, эти два случая здесь различаются.
func (s *LoanService) GetCustomerOverview(ctx context.Context, customerID string) (*model.CustomerOverviewResponse, error) {
	if cached, ok := s.cacheGet(ctx, overviewCacheKey(customerID)); ok {
		var resp model.CustomerOverviewResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.GetCustomerLoans(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).Errorf("Ошибка получения кредитов клиента %s", customerID)
		return nil, fmt.Errorf("ошибка получения кредитов: %w", err)
	}

	summaries := make([]model.LoanSummary, 0, len(loans))
	for _, loan := range loans {
		summaries = append(summaries, model.LoanSummary{
			LoanID:        loan.ID,
			Principal:     loan.PrincipalAmount,
			TotalAmount:   loan.TotalAmount,
			TotalInterest: ledger.Round2(loan.TotalAmount - loan.PrincipalAmount),
			EMIAmount:     loan.MonthlyEMI,
			AmountPaid:    loan.AmountPaid,
			EMIsLeft:      loan.EMIsLeft,
			Status:        loan.Status,
		})
	}

	resp := &model.CustomerOverviewResponse{
		CustomerID: customerID,
		TotalLoans: len(summaries),
		Loans:      summaries,
	}

	s.cacheSet(ctx, overviewCacheKey(customerID), resp)
	return resp, nil
}

func (s *LoanService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(ctx, key)
}

func (s *LoanService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data)); err != nil {
		s.logger.WithError(err).Warnf("Ошибка записи ключа %s в кэш", key)
	}
}

func (s *LoanService) invalidateCache(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).Warn("Ошибка инвалидации кэша")
	}
}

// notifyPayment отправляет email о принятом платеже, а при полном
// погашении — отдельное уведомление о закрытии кредита. Отправка не
// блокирует ответ и не влияет на результат операции.
func (s *LoanService) notifyPayment(ctx context.Context, loan *model.Loan, payment *model.Payment) {
	if s.emailSender == nil {
		return
	}
	customer, err := s.customerRepo.GetByID(ctx, loan.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}

	email := customer.Email
	go func() {
		if err := s.emailSender.SendPaymentNotification(email, payment.Amount, string(payment.PaymentType)); err != nil {
			s.logger.WithError(err).Warn("Не удалось отправить email уведомление о платеже")
		}
		if loan.Status == model.LoanStatusPaidOff {
			if err := s.emailSender.SendLoanPaidOffNotification(email, loan.ID, loan.AmountPaid); err != nil {
				s.logger.WithError(err).Warn("Не удалось отправить email уведомление о погашении")
			}
		}
	}()
}
