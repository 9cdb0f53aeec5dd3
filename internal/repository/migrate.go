package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migrate создает таблицы, если их еще нет. Вызывается при старте сервера.
func Migrate(ctx context.Context, db *sql.DB, logger *logrus.Logger) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			email       TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			loan_id           UUID PRIMARY KEY,
			customer_id       TEXT NOT NULL REFERENCES customers(customer_id),
			principal_amount  NUMERIC(15,2) NOT NULL,
			total_amount      NUMERIC(15,2) NOT NULL,
			interest_rate     NUMERIC(8,4) NOT NULL,
			loan_period_years INTEGER NOT NULL,
			monthly_emi       NUMERIC(15,2) NOT NULL,
			amount_paid       NUMERIC(15,2) NOT NULL DEFAULT 0,
			balance_amount    NUMERIC(15,2) NOT NULL,
			emis_left         INTEGER NOT NULL,
			status            TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			payment_id   UUID PRIMARY KEY,
			seq          BIGSERIAL,
			loan_id      UUID NOT NULL REFERENCES loans(loan_id),
			amount       NUMERIC(15,2) NOT NULL,
			payment_type TEXT NOT NULL,
			payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_customer_id ON loans(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_loan_id ON payments(loan_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	logger.Info("Таблицы базы данных проверены/созданы")
	return nil
}
