package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/service"
)

type AnalyticsHandler struct {
	analyticService *service.AnalyticService
	logger          *logrus.Logger
}

func NewAnalyticsHandler(analyticService *service.AnalyticService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticService: analyticService,
		logger:          logger,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/analytics/portfolio", h.GetPortfolio).Methods("GET")
}

func (h *AnalyticsHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticService.GetPortfolioStats(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Ошибка получения статистики портфеля")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}
