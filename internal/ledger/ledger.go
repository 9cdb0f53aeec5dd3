// Package ledger реализует расчетное ядро кредитного сервиса:
// построение графика по схеме простых процентов и применение платежа
// к текущему состоянию кредита. Пакет не имеет побочных эффектов,
// сохранением результатов занимается вызывающий слой.
package ledger

import (
	"fmt"
	"math"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

// Round2 округляет денежную сумму до двух знаков. Применяется ровно один
// раз, непосредственно перед записью в хранилище: в БД попадает уже
// округленное значение, а не усеченное при выводе.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Terms — расчетные параметры кредита на момент выдачи.
type Terms struct {
	TotalInterest float64
	TotalPayable  float64
	MonthlyEMI    float64
	EMIsLeft      int
}

// Compute строит плоский график по простым процентам:
// I = P * N * (R / 100), A = P + I, EMI = A / (N * 12).
func Compute(principal float64, periodYears int, yearlyRate float64) Terms {
	totalInterest := principal * float64(periodYears) * (yearlyRate / 100)
	totalPayable := principal + totalInterest
	monthlyEMI := totalPayable / float64(periodYears*12)

	return Terms{
		TotalInterest: Round2(totalInterest),
		TotalPayable:  Round2(totalPayable),
		MonthlyEMI:    Round2(monthlyEMI),
		EMIsLeft:      periodYears * 12,
	}
}

// Applied — новое состояние кредита после платежа.
type Applied struct {
	BalanceAmount float64
	AmountPaid    float64
	EMIsLeft      int
	Status        model.LoanStatus
}

// Apply применяет платеж к снимку кредита и возвращает новое состояние.
// Проверка полного погашения выполняется до ветвления по типу платежа:
// переплата закрывает кредит независимо от того, как платеж был помечен,
// иначе кредит мог бы остаться с нулевым балансом и ненулевым числом EMI.
func Apply(loan *model.Loan, amount float64, paymentType model.PaymentType) (Applied, error) {
	if paymentType != model.PaymentTypeEMI && paymentType != model.PaymentTypeLumpSum {
		return Applied{}, fmt.Errorf("%w: unknown payment type %q", model.ErrInvalidInput, paymentType)
	}
	if amount <= 0 {
		return Applied{}, fmt.Errorf("%w: amount must be positive", model.ErrInvalidInput)
	}
	if loan.Status == model.LoanStatusPaidOff {
		return Applied{}, fmt.Errorf("%w: loan %s", model.ErrLoanPaidOff, loan.ID)
	}

	newBalance := loan.BalanceAmount - amount
	newPaid := loan.AmountPaid + amount
	emisLeft := loan.EMIsLeft
	status := loan.Status

	switch {
	case newBalance <= 0:
		newBalance = 0
		emisLeft = 0
		status = model.LoanStatusPaidOff
	case paymentType == model.PaymentTypeLumpSum:
		// Досрочный платеж переамортизирует остаток против фиксированного
		// EMI; сама сумма платежа не пересчитывается.
		emisLeft = int(math.Ceil(newBalance / loan.MonthlyEMI))
	default:
		// Частичный EMI уменьшает баланс, но не закрывает платежный слот.
		if amount >= loan.MonthlyEMI && emisLeft > 0 {
			emisLeft--
		}
	}

	return Applied{
		BalanceAmount: Round2(newBalance),
		AmountPaid:    Round2(newPaid),
		EMIsLeft:      emisLeft,
		Status:        status,
	}, nil
}
