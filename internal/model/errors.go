package model

import "errors"

// Ошибки доменного уровня. Сервисы оборачивают их через %w,
// хендлеры сопоставляют с HTTP статусами через errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLoanPaidOff      = errors.New("loan is already paid off")
)
