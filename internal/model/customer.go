package model

import (
	"fmt"
	"regexp"
	"time"
)

// Customer идентифицируется строковым идентификатором, который выбирает
// вызывающая сторона; сервис его не генерирует.
type Customer struct {
	ID        string    `json:"customer_id" db:"customer_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RegisterCustomerRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if r.CustomerID == "" {
		return fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if r.Email != "" && !isValidEmail(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	return nil
}

func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
