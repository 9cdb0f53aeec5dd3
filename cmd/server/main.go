package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/malapatiprasanna/bank-lending-system/internal/config"
	"github.com/malapatiprasanna/bank-lending-system/internal/handler"
	"github.com/malapatiprasanna/bank-lending-system/internal/repository"
	"github.com/malapatiprasanna/bank-lending-system/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Проверка соединения с БД
	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	// Создание таблиц, если их еще нет
	if err := repository.Migrate(context.Background(), db, logger); err != nil {
		logger.Fatalf("Ошибка миграции схемы: %v", err)
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	customerRepo := repository.NewPostgresCustomerRepository(db, logger)
	loanRepo := repository.NewPostgresLoanRepository(db, logger)
	paymentRepo := repository.NewPostgresPaymentRepository(db, logger)

	// Кэш опционален: без REDIS_ADDR сервис читает напрямую из БД
	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL, logger)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.WithError(err).Warn("Redis недоступен, кэширование отключено")
		} else {
			cache = redisCache
			logger.Infof("Кэширование через Redis (%s), TTL %s", cfg.RedisAddr, cfg.CacheTTL)
		}
	}

	emailSender := service.NewEmailSender(logger)

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	customerService := service.NewCustomerService(customerRepo, logger)
	loanService := service.NewLoanService(loanRepo, paymentRepo, customerRepo, cache, emailSender, logger)
	analyticService := service.NewAnalyticService(loanRepo, logger)

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	loanHandler := handler.NewLoanHandler(loanService, customerService, logger)
	customerHandler := handler.NewCustomerHandler(customerService, loanService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticService, logger)

	// Настройка маршрутизатора
	router := mux.NewRouter()
	router.Use(handler.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	loanHandler.RegisterRoutes(apiRouter)
	customerHandler.RegisterRoutes(apiRouter)
	analyticsHandler.RegisterRoutes(apiRouter)

	// Настройка планировщика для периодической сводки по портфелю
	logger.Info("Настройка планировщика аналитики...")
	c := cron.New()
	_, err = c.AddFunc("0 * * * *", func() {
		if err := analyticService.LogPortfolioReport(context.Background()); err != nil {
			logger.WithError(err).Error("Ошибка построения сводки по портфелю")
		}
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика: %v", err)
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Infof("Запуск сервера на порту :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	c.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}
