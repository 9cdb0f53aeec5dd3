package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

type PostgresPaymentRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPostgresPaymentRepository(db *sql.DB, logger *logrus.Logger) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db, logger: logger}
}

// GetLoanPayments возвращает историю платежей по возрастанию даты.
// Колонка seq фиксирует порядок записи для платежей с одинаковой датой.
func (r *PostgresPaymentRepository) GetLoanPayments(ctx context.Context, loanID uuid.UUID) ([]model.Payment, error) {
	query := `
        SELECT payment_id, loan_id, amount, payment_type, payment_date
        FROM payments
        WHERE loan_id = $1
        ORDER BY payment_date ASC, seq ASC
    `

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID,
			&p.LoanID,
			&p.Amount,
			&p.PaymentType,
			&p.PaymentDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}

	return payments, nil
}
