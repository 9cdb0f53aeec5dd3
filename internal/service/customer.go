package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
	"github.com/malapatiprasanna/bank-lending-system/internal/repository"
)

type CustomerService struct {
	customerRepo repository.CustomerRepository
	logger       *logrus.Logger
}

func NewCustomerService(customerRepo repository.CustomerRepository, logger *logrus.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

// Ensure идемпотентно заводит клиента по идентификатору. Повторный вызов
// с тем же id ничего не меняет. Если имя не задано, подставляется
// заглушка, производная от идентификатора.
func (s *CustomerService) Ensure(ctx context.Context, id, name, email string) error {
	if name == "" {
		name = fmt.Sprintf("Customer %s", id)
	}

	customer := &model.Customer{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := s.customerRepo.Ensure(ctx, customer); err != nil {
		s.logger.WithError(err).Errorf("Ошибка создания клиента %s", id)
		return fmt.Errorf("ошибка создания клиента: %w", err)
	}

	return nil
}

func (s *CustomerService) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}
