package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
	"github.com/malapatiprasanna/bank-lending-system/internal/repository"
)

func newTestEnv() (*LoanService, *CustomerService, *repository.MockCache) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := repository.NewMemoryStore()
	cache := repository.NewMockCache()

	loanSvc := NewLoanService(store.Loans(), store.Payments(), store.Customers(), cache, nil, logger)
	custSvc := NewCustomerService(store.Customers(), logger)
	return loanSvc, custSvc, cache
}

func createTestLoan(t *testing.T, loanSvc *LoanService, custSvc *CustomerService) *model.Loan {
	t.Helper()
	ctx := context.Background()

	if err := custSvc.Ensure(ctx, "cust-1", "", ""); err != nil {
		t.Fatalf("failed to ensure customer: %v", err)
	}

	loan, err := loanSvc.CreateLoan(ctx, model.CreateLoanRequest{
		CustomerID:         "cust-1",
		LoanAmount:         120000,
		LoanPeriodYears:    1,
		InterestRateYearly: 10,
	})
	if err != nil {
		t.Fatalf("failed to create loan: %v", err)
	}
	return loan
}

func TestCreateLoan_ComputesSchedule(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()

	loan := createTestLoan(t, loanSvc, custSvc)

	if loan.TotalAmount != 132000 {
		t.Errorf("expected total 132000, got %.2f", loan.TotalAmount)
	}
	if loan.MonthlyEMI != 11000 {
		t.Errorf("expected EMI 11000, got %.2f", loan.MonthlyEMI)
	}
	if loan.BalanceAmount != 132000 {
		t.Errorf("expected balance 132000, got %.2f", loan.BalanceAmount)
	}
	if loan.EMIsLeft != 12 {
		t.Errorf("expected 12 EMIs, got %d", loan.EMIsLeft)
	}
	if loan.AmountPaid != 0 {
		t.Errorf("expected paid 0, got %.2f", loan.AmountPaid)
	}
	if loan.Status != model.LoanStatusActive {
		t.Errorf("expected ACTIVE, got %s", loan.Status)
	}
}

func TestCreateLoan_InvalidInput(t *testing.T) {
	loanSvc, _, _ := newTestEnv()
	ctx := context.Background()

	cases := []model.CreateLoanRequest{
		{CustomerID: "", LoanAmount: 1000, LoanPeriodYears: 1, InterestRateYearly: 10},
		{CustomerID: "c", LoanAmount: 0, LoanPeriodYears: 1, InterestRateYearly: 10},
		{CustomerID: "c", LoanAmount: -5, LoanPeriodYears: 1, InterestRateYearly: 10},
		{CustomerID: "c", LoanAmount: 1000, LoanPeriodYears: 0, InterestRateYearly: 10},
		{CustomerID: "c", LoanAmount: 1000, LoanPeriodYears: 1, InterestRateYearly: -1},
	}

	for _, req := range cases {
		if _, err := loanSvc.CreateLoan(ctx, req); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", req, err)
		}
	}
}

func TestApplyPayment_EMI(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()
	loan := createTestLoan(t, loanSvc, custSvc)

	resp, err := loanSvc.ApplyPayment(context.Background(), loan.ID, model.RecordPaymentRequest{
		Amount:      11000,
		PaymentType: model.PaymentTypeEMI,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.RemainingBalance != 121000 {
		t.Errorf("expected balance 121000, got %.2f", resp.RemainingBalance)
	}
	if resp.EMIsLeft != 11 {
		t.Errorf("expected 11 EMIs left, got %d", resp.EMIsLeft)
	}
	if resp.Status != model.LoanStatusActive {
		t.Errorf("expected ACTIVE, got %s", resp.Status)
	}
	if resp.PaymentID == uuid.Nil {
		t.Error("expected non-nil payment id")
	}
}

func TestApplyPayment_LumpSum(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()
	loan := createTestLoan(t, loanSvc, custSvc)

	resp, err := loanSvc.ApplyPayment(context.Background(), loan.ID, model.RecordPaymentRequest{
		Amount:      66000,
		PaymentType: model.PaymentTypeLumpSum,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.RemainingBalance != 66000 {
		t.Errorf("expected balance 66000, got %.2f", resp.RemainingBalance)
	}
	if resp.EMIsLeft != 6 {
		t.Errorf("expected 6 EMIs left, got %d", resp.EMIsLeft)
	}
}

func TestApplyPayment_PayoffThenRejected(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()
	loan := createTestLoan(t, loanSvc, custSvc)
	ctx := context.Background()

	resp, err := loanSvc.ApplyPayment(ctx, loan.ID, model.RecordPaymentRequest{
		Amount:      132000,
		PaymentType: model.PaymentTypeLumpSum,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.RemainingBalance != 0 {
		t.Errorf("expected balance 0, got %.2f", resp.RemainingBalance)
	}
	if resp.EMIsLeft != 0 {
		t.Errorf("expected 0 EMIs left, got %d", resp.EMIsLeft)
	}
	if resp.Status != model.LoanStatusPaidOff {
		t.Errorf("expected PAID_OFF, got %s", resp.Status)
	}

	// Погашенный кредит больше не принимает платежей.
	_, err = loanSvc.ApplyPayment(ctx, loan.ID, model.RecordPaymentRequest{
		Amount:      100,
		PaymentType: model.PaymentTypeEMI,
	})
	if !errors.Is(err, model.ErrLoanPaidOff) {
		t.Fatalf("expected ErrLoanPaidOff, got %v", err)
	}
}

func TestApplyPayment_UnknownLoan(t *testing.T) {
	loanSvc, _, _ := newTestEnv()

	_, err := loanSvc.ApplyPayment(context.Background(), uuid.New(), model.RecordPaymentRequest{
		Amount:      100,
		PaymentType: model.PaymentTypeEMI,
	})
	if !errors.Is(err, model.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestGetLedger_HistoryOrderAndIdempotence(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()
	loan := createTestLoan(t, loanSvc, custSvc)
	ctx := context.Background()

	first, err := loanSvc.ApplyPayment(ctx, loan.ID, model.RecordPaymentRequest{
		Amount: 11000, PaymentType: model.PaymentTypeEMI,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := loanSvc.ApplyPayment(ctx, loan.ID, model.RecordPaymentRequest{
		Amount: 5000, PaymentType: model.PaymentTypeLumpSum,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := loanSvc.GetLedger(ctx, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(view.Transactions))
	}
	// Платежи идут в порядке записи.
	if view.Transactions[0].TransactionID != first.PaymentID {
		t.Errorf("expected first transaction %s, got %s", first.PaymentID, view.Transactions[0].TransactionID)
	}
	if view.Transactions[1].TransactionID != second.PaymentID {
		t.Errorf("expected second transaction %s, got %s", second.PaymentID, view.Transactions[1].TransactionID)
	}
	if view.BalanceAmount != 116000 {
		t.Errorf("expected balance 116000, got %.2f", view.BalanceAmount)
	}
	if view.AmountPaid != 16000 {
		t.Errorf("expected paid 16000, got %.2f", view.AmountPaid)
	}

	// Повторное чтение без платежей между вызовами дает тот же результат.
	again, err := loanSvc.GetLedger(ctx, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.BalanceAmount != view.BalanceAmount ||
		again.AmountPaid != view.AmountPaid ||
		again.EMIsLeft != view.EMIsLeft ||
		len(again.Transactions) != len(view.Transactions) {
		t.Error("repeated ledger reads returned different snapshots")
	}
}

func TestGetLedger_UnknownLoan(t *testing.T) {
	loanSvc, _, _ := newTestEnv()

	_, err := loanSvc.GetLedger(context.Background(), uuid.New())
	if !errors.Is(err, model.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestGetLedger_CacheInvalidatedOnPayment(t *testing.T) {
	loanSvc, custSvc, cache := newTestEnv()
	loan := createTestLoan(t, loanSvc, custSvc)
	ctx := context.Background()

	if _, err := loanSvc.GetLedger(ctx, loan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := "ledger:" + loan.ID.String()
	if _, ok := cache.Data[key]; !ok {
		t.Fatal("expected ledger snapshot to be cached")
	}

	if _, err := loanSvc.ApplyPayment(ctx, loan.ID, model.RecordPaymentRequest{
		Amount: 11000, PaymentType: model.PaymentTypeEMI,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := cache.Data[key]; ok {
		t.Error("expected ledger cache entry to be invalidated by payment")
	}

	// После инвалидации выписка отражает платеж.
	view, err := loanSvc.GetLedger(ctx, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.BalanceAmount != 121000 {
		t.Errorf("expected balance 121000 after payment, got %.2f", view.BalanceAmount)
	}
}

func TestGetCustomerOverview(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()
	createTestLoan(t, loanSvc, custSvc)

	view, err := loanSvc.GetCustomerOverview(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.TotalLoans != 1 {
		t.Fatalf("expected 1 loan, got %d", view.TotalLoans)
	}
	summary := view.Loans[0]
	if summary.TotalInterest != 12000 {
		t.Errorf("expected total interest 12000, got %.2f", summary.TotalInterest)
	}
	if summary.TotalAmount != 132000 {
		t.Errorf("expected total 132000, got %.2f", summary.TotalAmount)
	}
}

func TestGetCustomerOverview_UnknownCustomer(t *testing.T) {
	loanSvc, _, _ := newTestEnv()

	_, err := loanSvc.GetCustomerOverview(context.Background(), "nobody")
	if !errors.Is(err, model.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestGetCustomerOverview_RegisteredCustomerWithoutLoans(t *testing.T) {
	loanSvc, custSvc, _ := newTestEnv()
	ctx := context.Background()

	if err := custSvc.Ensure(ctx, "cust-2", "Alex", ""); err != nil {
		t.Fatalf("failed to ensure customer: %v", err)
	}

	// Заведенный клиент без кредитов получает пустую сводку, а не 404.
	view, err := loanSvc.GetCustomerOverview(ctx, "cust-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalLoans != 0 {
		t.Errorf("expected 0 loans, got %d", view.TotalLoans)
	}
	if len(view.Loans) != 0 {
		t.Errorf("expected empty loan list, got %d entries", len(view.Loans))
	}
}

func TestEnsureCustomer_Idempotent(t *testing.T) {
	_, custSvc, _ := newTestEnv()
	ctx := context.Background()

	if err := custSvc.Ensure(ctx, "cust-9", "First Name", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := custSvc.Ensure(ctx, "cust-9", "Other Name", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	customer, err := custSvc.GetByID(ctx, "cust-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Name != "First Name" {
		t.Errorf("expected existing record to win, got name %q", customer.Name)
	}
}

func TestEnsureCustomer_PlaceholderName(t *testing.T) {
	_, custSvc, _ := newTestEnv()
	ctx := context.Background()

	if err := custSvc.Ensure(ctx, "cust-7", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	customer, err := custSvc.GetByID(ctx, "cust-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Name != "Customer cust-7" {
		t.Errorf("expected placeholder name, got %q", customer.Name)
	}
}
