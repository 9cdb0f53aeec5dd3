package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

func newTestLoan() *model.Loan {
	// 120000 на 1 год под 10% годовых: total=132000, EMI=11000, 12 платежей.
	terms := Compute(120000, 1, 10)
	return &model.Loan{
		ID:              uuid.New(),
		CustomerID:      "cust-1",
		PrincipalAmount: 120000,
		TotalAmount:     terms.TotalPayable,
		InterestRate:    10,
		PeriodYears:     1,
		MonthlyEMI:      terms.MonthlyEMI,
		AmountPaid:      0,
		BalanceAmount:   terms.TotalPayable,
		EMIsLeft:        terms.EMIsLeft,
		Status:          model.LoanStatusActive,
	}
}

func applyToLoan(t *testing.T, loan *model.Loan, amount float64, pt model.PaymentType) Applied {
	t.Helper()
	applied, err := Apply(loan, amount, pt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loan.BalanceAmount = applied.BalanceAmount
	loan.AmountPaid = applied.AmountPaid
	loan.EMIsLeft = applied.EMIsLeft
	loan.Status = applied.Status
	return applied
}

func TestCompute_SimpleInterest(t *testing.T) {
	terms := Compute(120000, 1, 10)

	if terms.TotalInterest != 12000 {
		t.Errorf("expected total interest 12000, got %.2f", terms.TotalInterest)
	}
	if terms.TotalPayable != 132000 {
		t.Errorf("expected total payable 132000, got %.2f", terms.TotalPayable)
	}
	if terms.MonthlyEMI != 11000 {
		t.Errorf("expected EMI 11000, got %.2f", terms.MonthlyEMI)
	}
	if terms.EMIsLeft != 12 {
		t.Errorf("expected 12 EMIs, got %d", terms.EMIsLeft)
	}
}

func TestCompute_ZeroRate(t *testing.T) {
	terms := Compute(1200, 1, 0)

	if terms.TotalInterest != 0 {
		t.Errorf("expected zero interest, got %.2f", terms.TotalInterest)
	}
	if terms.TotalPayable != 1200 {
		t.Errorf("expected total 1200, got %.2f", terms.TotalPayable)
	}
	if terms.MonthlyEMI != 100 {
		t.Errorf("expected EMI 100, got %.2f", terms.MonthlyEMI)
	}
}

func TestCompute_RoundsAtWrite(t *testing.T) {
	// 10000 на 3 года под 7.5%: total=12250, EMI=12250/36=340.2777... -> 340.28
	terms := Compute(10000, 3, 7.5)

	if terms.TotalPayable != 12250 {
		t.Errorf("expected total 12250, got %.2f", terms.TotalPayable)
	}
	if terms.MonthlyEMI != 340.28 {
		t.Errorf("expected EMI 340.28, got %.2f", terms.MonthlyEMI)
	}
}

func TestApply_FullEMI(t *testing.T) {
	loan := newTestLoan()

	applied := applyToLoan(t, loan, 11000, model.PaymentTypeEMI)

	if applied.BalanceAmount != 121000 {
		t.Errorf("expected balance 121000, got %.2f", applied.BalanceAmount)
	}
	if applied.AmountPaid != 11000 {
		t.Errorf("expected paid 11000, got %.2f", applied.AmountPaid)
	}
	if applied.EMIsLeft != 11 {
		t.Errorf("expected 11 EMIs left, got %d", applied.EMIsLeft)
	}
	if applied.Status != model.LoanStatusActive {
		t.Errorf("expected ACTIVE, got %s", applied.Status)
	}
}

func TestApply_PartialEMIKeepsSlot(t *testing.T) {
	loan := newTestLoan()

	applied := applyToLoan(t, loan, 5000, model.PaymentTypeEMI)

	if applied.BalanceAmount != 127000 {
		t.Errorf("expected balance 127000, got %.2f", applied.BalanceAmount)
	}
	// Частичный платеж не уменьшает счетчик EMI.
	if applied.EMIsLeft != 12 {
		t.Errorf("expected 12 EMIs left, got %d", applied.EMIsLeft)
	}
}

func TestApply_LumpSumReamortizes(t *testing.T) {
	loan := newTestLoan()

	applied := applyToLoan(t, loan, 66000, model.PaymentTypeLumpSum)

	if applied.BalanceAmount != 66000 {
		t.Errorf("expected balance 66000, got %.2f", applied.BalanceAmount)
	}
	// ceil(66000 / 11000) = 6
	if applied.EMIsLeft != 6 {
		t.Errorf("expected 6 EMIs left, got %d", applied.EMIsLeft)
	}
	if applied.Status != model.LoanStatusActive {
		t.Errorf("expected ACTIVE, got %s", applied.Status)
	}
}

func TestApply_LumpSumCeilsPartialInstallment(t *testing.T) {
	loan := newTestLoan()

	// Остаток 132000-70000=62000, 62000/11000=5.63... -> 6 платежей.
	applied := applyToLoan(t, loan, 70000, model.PaymentTypeLumpSum)

	if applied.EMIsLeft != 6 {
		t.Errorf("expected 6 EMIs left, got %d", applied.EMIsLeft)
	}
}

func TestApply_PayoffWinsOverType(t *testing.T) {
	for _, pt := range []model.PaymentType{model.PaymentTypeEMI, model.PaymentTypeLumpSum} {
		loan := newTestLoan()

		applied := applyToLoan(t, loan, 132000, pt)

		if applied.BalanceAmount != 0 {
			t.Errorf("%s: expected balance 0, got %.2f", pt, applied.BalanceAmount)
		}
		if applied.EMIsLeft != 0 {
			t.Errorf("%s: expected 0 EMIs left, got %d", pt, applied.EMIsLeft)
		}
		if applied.Status != model.LoanStatusPaidOff {
			t.Errorf("%s: expected PAID_OFF, got %s", pt, applied.Status)
		}
	}
}

func TestApply_OverpaymentClampsToZero(t *testing.T) {
	loan := newTestLoan()

	applied := applyToLoan(t, loan, 200000, model.PaymentTypeLumpSum)

	if applied.BalanceAmount != 0 {
		t.Errorf("expected balance clamped to 0, got %.2f", applied.BalanceAmount)
	}
	if applied.AmountPaid != 200000 {
		t.Errorf("expected paid 200000, got %.2f", applied.AmountPaid)
	}
	if applied.Status != model.LoanStatusPaidOff {
		t.Errorf("expected PAID_OFF, got %s", applied.Status)
	}
}

func TestApply_RejectsPaidOffLoan(t *testing.T) {
	loan := newTestLoan()
	applyToLoan(t, loan, 132000, model.PaymentTypeLumpSum)

	_, err := Apply(loan, 100, model.PaymentTypeEMI)
	if !errors.Is(err, model.ErrLoanPaidOff) {
		t.Fatalf("expected ErrLoanPaidOff, got %v", err)
	}
}

func TestApply_RejectsInvalidInput(t *testing.T) {
	loan := newTestLoan()

	if _, err := Apply(loan, 0, model.PaymentTypeEMI); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("zero amount: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Apply(loan, -10, model.PaymentTypeEMI); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("negative amount: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Apply(loan, 100, model.PaymentType("CASH")); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("unknown type: expected ErrInvalidInput, got %v", err)
	}
}

func TestApply_Monotonicity(t *testing.T) {
	loan := newTestLoan()

	prevBalance := loan.BalanceAmount
	prevPaid := loan.AmountPaid
	prevEMIs := loan.EMIsLeft

	for i := 0; i < 12 && loan.Status == model.LoanStatusActive; i++ {
		applied := applyToLoan(t, loan, 11000, model.PaymentTypeEMI)

		if applied.BalanceAmount > prevBalance {
			t.Fatalf("balance increased: %.2f -> %.2f", prevBalance, applied.BalanceAmount)
		}
		if applied.AmountPaid < prevPaid {
			t.Fatalf("amount paid decreased: %.2f -> %.2f", prevPaid, applied.AmountPaid)
		}
		if applied.EMIsLeft > prevEMIs {
			t.Fatalf("EMIs left increased: %d -> %d", prevEMIs, applied.EMIsLeft)
		}
		prevBalance = applied.BalanceAmount
		prevPaid = applied.AmountPaid
		prevEMIs = applied.EMIsLeft
	}

	// 12 полных EMI закрывают кредит целиком.
	if loan.Status != model.LoanStatusPaidOff {
		t.Errorf("expected PAID_OFF after 12 EMIs, got %s", loan.Status)
	}
	if loan.BalanceAmount != 0 {
		t.Errorf("expected zero balance, got %.2f", loan.BalanceAmount)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{340.277777, 340.28},
		{340.274, 340.27},
		{0.005, 0.01},
		{100, 100},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
