package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
	"github.com/malapatiprasanna/bank-lending-system/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	loanService     *service.LoanService
	logger          *logrus.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, loanService *service.LoanService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		loanService:     loanService,
		logger:          logger,
	}
}

func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/customers", h.RegisterCustomer).Methods("POST")
	router.HandleFunc("/customers/{customerId}/overview", h.GetOverview).Methods("GET")
}

// RegisterCustomer явно заводит клиента. Повторная регистрация того же
// идентификатора не является ошибкой.
func (h *CustomerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Ошибка декодирования запроса на регистрацию клиента")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.customerService.Ensure(r.Context(), req.CustomerID, req.Name, req.Email); err != nil {
		h.logger.WithError(err).Error("Ошибка регистрации клиента")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), req.CustomerID)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка чтения клиента после регистрации")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(customer)
}

func (h *CustomerHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]

	resp, err := h.loanService.GetCustomerOverview(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			http.Error(w, "Customer not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Errorf("Ошибка получения сводки по клиенту %s", customerID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
