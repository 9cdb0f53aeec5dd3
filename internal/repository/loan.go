package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

type PostgresLoanRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPostgresLoanRepository(db *sql.DB, logger *logrus.Logger) *PostgresLoanRepository {
	return &PostgresLoanRepository{db: db, logger: logger}
}

func (r *PostgresLoanRepository) Create(ctx context.Context, loan *model.Loan) error {
	query := `
        INSERT INTO loans (loan_id, customer_id, principal_amount, total_amount, interest_rate,
                           loan_period_years, monthly_emi, amount_paid, balance_amount, emis_left,
                           status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	_, err := r.db.ExecContext(
		ctx,
		query,
		loan.ID,
		loan.CustomerID,
		loan.PrincipalAmount,
		loan.TotalAmount,
		loan.InterestRate,
		loan.PeriodYears,
		loan.MonthlyEMI,
		loan.AmountPaid,
		loan.BalanceAmount,
		loan.EMIsLeft,
		loan.Status,
		loan.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return model.ErrCustomerNotFound
			}
		}
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

func (r *PostgresLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	query := `
        SELECT loan_id, customer_id, principal_amount, total_amount, interest_rate,
               loan_period_years, monthly_emi, amount_paid, balance_amount, emis_left,
               status, created_at
        FROM loans
        WHERE loan_id = $1
    `

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return loan, nil
}

func (r *PostgresLoanRepository) GetCustomerLoans(ctx context.Context, customerID string) ([]model.Loan, error) {
	query := `
        SELECT loan_id, customer_id, principal_amount, total_amount, interest_rate,
               loan_period_years, monthly_emi, amount_paid, balance_amount, emis_left,
               status, created_at
        FROM loans
        WHERE customer_id = $1
        ORDER BY created_at
    `

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, *loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}

	return loans, nil
}

// ApplyPayment выполняет apply над строкой кредита, заблокированной через
// SELECT ... FOR UPDATE, и в той же транзакции сохраняет обновление кредита
// и запись о платеже. Два конкурентных платежа по одному кредиту не могут
// прочитать один и тот же баланс.
func (r *PostgresLoanRepository) ApplyPayment(ctx context.Context, loanID uuid.UUID, apply ApplyPaymentFunc) (*model.Loan, *model.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка начала транзакции")
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	loan, err := r.getByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		return nil, nil, err
	}

	updated, payment, err := apply(loan)
	if err != nil {
		return nil, nil, err
	}

	query := `
        UPDATE loans
        SET amount_paid = $1,
            balance_amount = $2,
            emis_left = $3,
            status = $4
        WHERE loan_id = $5
    `

	if _, err := tx.ExecContext(
		ctx,
		query,
		updated.AmountPaid,
		updated.BalanceAmount,
		updated.EMIsLeft,
		updated.Status,
		updated.ID,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to update loan: %w", err)
	}

	insertQuery := `
        INSERT INTO payments (payment_id, loan_id, amount, payment_type, payment_date)
        VALUES ($1, $2, $3, $4, $5)
    `

	if _, err := tx.ExecContext(
		ctx,
		insertQuery,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.PaymentType,
		payment.PaymentDate,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.WithError(err).Error("Ошибка подтверждения транзакции")
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, payment, nil
}

func (r *PostgresLoanRepository) getByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*model.Loan, error) {
	query := `
        SELECT loan_id, customer_id, principal_amount, total_amount, interest_rate,
               loan_period_years, monthly_emi, amount_paid, balance_amount, emis_left,
               status, created_at
        FROM loans
        WHERE loan_id = $1
        FOR UPDATE
    `

	loan, err := scanLoan(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

func (r *PostgresLoanRepository) GetPortfolioStats(ctx context.Context) (*model.PortfolioStats, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'ACTIVE'),
               COUNT(*) FILTER (WHERE status = 'PAID_OFF'),
               COALESCE(SUM(balance_amount), 0),
               COALESCE(SUM(amount_paid), 0)
        FROM loans
    `

	var stats model.PortfolioStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalLoans,
		&stats.ActiveLoans,
		&stats.PaidOffLoans,
		&stats.OutstandingBalance,
		&stats.TotalCollected,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio stats: %w", err)
	}

	return &stats, nil
}

func (r *PostgresLoanRepository) GetBalanceDrifts(ctx context.Context, tolerance float64) ([]model.BalanceDrift, error) {
	query := `
        SELECT loan_id, total_amount, amount_paid, balance_amount
        FROM loans
        WHERE ABS(total_amount - amount_paid - balance_amount) > $1
          AND status = 'ACTIVE'
    `

	rows, err := r.db.QueryContext(ctx, query, tolerance)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance drifts: %w", err)
	}
	defer rows.Close()

	var drifts []model.BalanceDrift
	for rows.Next() {
		var d model.BalanceDrift
		if err := rows.Scan(&d.LoanID, &d.TotalAmount, &d.AmountPaid, &d.BalanceAmount); err != nil {
			return nil, fmt.Errorf("failed to scan balance drift: %w", err)
		}
		drifts = append(drifts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read balance drifts: %w", err)
	}

	return drifts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*model.Loan, error) {
	var loan model.Loan
	err := row.Scan(
		&loan.ID,
		&loan.CustomerID,
		&loan.PrincipalAmount,
		&loan.TotalAmount,
		&loan.InterestRate,
		&loan.PeriodYears,
		&loan.MonthlyEMI,
		&loan.AmountPaid,
		&loan.BalanceAmount,
		&loan.EMIsLeft,
		&loan.Status,
		&loan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}
