package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/model"
	"github.com/malapatiprasanna/bank-lending-system/internal/service"
)

type LoanHandler struct {
	loanService     *service.LoanService
	customerService *service.CustomerService
	logger          *logrus.Logger
}

func NewLoanHandler(loanService *service.LoanService, customerService *service.CustomerService, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{
		loanService:     loanService,
		customerService: customerService,
		logger:          logger,
	}
}

func (h *LoanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	router.HandleFunc("/loans/{loanId}/payments", h.RecordPayment).Methods("POST")
	router.HandleFunc("/loans/{loanId}/ledger", h.GetLedger).Methods("GET")
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Ошибка декодирования запроса на кредит")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Явный идемпотентный upsert клиента перед обращением к движку:
	// сам сервис кредитов клиентов не создает.
	if err := h.customerService.Ensure(r.Context(), req.CustomerID, "", ""); err != nil {
		h.logger.WithError(err).Error("Ошибка создания клиента")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithError(err).Error("Ошибка создания кредита")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := model.CreateLoanResponse{
		LoanID:             loan.ID,
		CustomerID:         loan.CustomerID,
		TotalAmountPayable: loan.TotalAmount,
		MonthlyEMI:         loan.MonthlyEMI,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := uuid.Parse(vars["loanId"])
	if err != nil {
		// Идентификатор, который не является UUID, не может указывать
		// ни на один кредит.
		http.Error(w, "Loan not found", http.StatusNotFound)
		return
	}

	var req model.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Ошибка декодирования запроса на платеж")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.loanService.ApplyPayment(r.Context(), loanID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrLoanNotFound):
			http.Error(w, "Loan not found", http.StatusNotFound)
		case errors.Is(err, model.ErrLoanPaidOff):
			http.Error(w, "Loan is already paid off", http.StatusBadRequest)
		case errors.Is(err, model.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.WithError(err).Errorf("Ошибка применения платежа по кредиту %s", loanID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *LoanHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := uuid.Parse(vars["loanId"])
	if err != nil {
		http.Error(w, "Loan not found", http.StatusNotFound)
		return
	}

	resp, err := h.loanService.GetLedger(r.Context(), loanID)
	if err != nil {
		if errors.Is(err, model.ErrLoanNotFound) {
			http.Error(w, "Loan not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Errorf("Ошибка получения выписки по кредиту %s", loanID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
