package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
)

type PostgresCustomerRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPostgresCustomerRepository(db *sql.DB, logger *logrus.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db, logger: logger}
}

func (r *PostgresCustomerRepository) Ensure(ctx context.Context, customer *model.Customer) error {
	query := `
        INSERT INTO customers (customer_id, name, email, created_at)
        VALUES ($1, $2, NULLIF($3, ''), $4)
        ON CONFLICT (customer_id) DO NOTHING
    `

	_, err := r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to ensure customer: %w", err)
	}

	return nil
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	query := `
        SELECT customer_id, name, COALESCE(email, ''), created_at
        FROM customers
        WHERE customer_id = $1
    `

	var customer model.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}
