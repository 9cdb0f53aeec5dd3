package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
	"github.com/malapatiprasanna/bank-lending-system/internal/repository"
)

// driftTolerance — допуск на накопленную погрешность округления между
// balance_amount и total_amount - amount_paid.
const driftTolerance = 0.01

type AnalyticService struct {
	loanRepo repository.LoanRepository
	logger   *logrus.Logger
}

func NewAnalyticService(loanRepo repository.LoanRepository, logger *logrus.Logger) *AnalyticService {
	return &AnalyticService{loanRepo: loanRepo, logger: logger}
}

func (s *AnalyticService) GetPortfolioStats(ctx context.Context) (*model.PortfolioStats, error) {
	stats, err := s.loanRepo.GetPortfolioStats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка получения статистики портфеля")
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}
	return stats, nil
}

// CheckBalanceConsistency возвращает активные кредиты, у которых баланс
// разошелся с инвариантом balance = total - paid. Только чтение,
// исправлением занимается оператор.
func (s *AnalyticService) CheckBalanceConsistency(ctx context.Context) ([]model.BalanceDrift, error) {
	drifts, err := s.loanRepo.GetBalanceDrifts(ctx, driftTolerance)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка проверки консистентности балансов")
		return nil, fmt.Errorf("ошибка проверки балансов: %w", err)
	}
	return drifts, nil
}

// LogPortfolioReport пишет сводку по портфелю в лог. Вызывается планировщиком.
func (s *AnalyticService) LogPortfolioReport(ctx context.Context) error {
	stats, err := s.GetPortfolioStats(ctx)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"total_loans":         stats.TotalLoans,
		"active_loans":        stats.ActiveLoans,
		"paid_off_loans":      stats.PaidOffLoans,
		"outstanding_balance": stats.OutstandingBalance,
		"total_collected":     stats.TotalCollected,
	}).Info("Сводка по кредитному портфелю")

	drifts, err := s.CheckBalanceConsistency(ctx)
	if err != nil {
		return err
	}

	for _, d := range drifts {
		s.logger.WithFields(logrus.Fields{
			"loan_id":        d.LoanID,
			"total_amount":   d.TotalAmount,
			"amount_paid":    d.AmountPaid,
			"balance_amount": d.BalanceAmount,
		}).Warn("Баланс кредита расходится с total - paid")
	}

	return nil
}
