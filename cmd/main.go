package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	checkoutHandler "github.com/m04kA/CLF-ReservationService/internal/api/handlers/checkout"
	createReservationHandler "github.com/m04kA/CLF-ReservationService/internal/api/handlers/create_reservation"
	getCartHandler "github.com/m04kA/CLF-ReservationService/internal/api/handlers/get_cart"
	getCheckoutAttemptHandler "github.com/m04kA/CLF-ReservationService/internal/api/handlers/get_checkout_attempt"
	getTimeOptionsHandler "github.com/m04kA/CLF-ReservationService/internal/api/handlers/get_time_options"
	removeCartItemHandler "github.com/m04kA/CLF-ReservationService/internal/api/handlers/remove_cart_item"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
	"github.com/m04kA/CLF-ReservationService/internal/config"
	attemptRepo "github.com/m04kA/CLF-ReservationService/internal/infra/storage/attempt"
	paymentGatewayClient "github.com/m04kA/CLF-ReservationService/internal/integrations/paymentgateway"
	scheduleServiceClient "github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
	cartService "github.com/m04kA/CLF-ReservationService/internal/service/cart"
	expiryService "github.com/m04kA/CLF-ReservationService/internal/service/expiry"
	checkoutUC "github.com/m04kA/CLF-ReservationService/internal/usecase/checkout"
	getCheckoutAttemptUC "github.com/m04kA/CLF-ReservationService/internal/usecase/get_checkout_attempt"
	selectSlotsUC "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
	"github.com/m04kA/CLF-ReservationService/pkg/logger"
	"github.com/m04kA/CLF-ReservationService/pkg/metrics"
	"github.com/m04kA/CLF-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CLF-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс клуба: все времена броней нормализуются в него
	loc, err := time.LoadLocation(cfg.Cart.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Cart.Timezone, err)
	}

	// Метрики создаются всегда, endpoint и middleware - только если включены
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)

	// Подключаемся к базе данных (журнал попыток оплаты)
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	scheduleClient := scheduleServiceClient.NewClient(
		cfg.ScheduleService.URL,
		time.Duration(cfg.ScheduleService.Timeout)*time.Second,
		time.Duration(cfg.ScheduleService.RulesCacheTTLSec)*time.Second,
		log,
	)
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ScheduleService=%s timeout=%ds, PaymentGateway=%s timeout=%ds)",
		cfg.ScheduleService.URL, cfg.ScheduleService.Timeout, cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Репозиторий журнала и transaction manager
	attemptRepository := attemptRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Сервис корзины: локальная копия серверного состояния броней
	holdDuration := time.Duration(cfg.Cart.HoldMinutes) * time.Minute
	cartSvc := cartService.NewService(scheduleClient, loc, holdDuration, metricsCollector, log)

	// Часы истечения: консультативные, решение об истечении за сервером
	expiryWatcher := expiryService.NewWatcher(
		cartSvc,
		time.Duration(cfg.Cart.TickIntervalMS)*time.Millisecond,
		time.Duration(cfg.Cart.WarnThresholdSeconds)*time.Second,
		metricsCollector,
		log,
	)
	expiryWatcher.Start()
	defer expiryWatcher.Stop()

	// Инициализируем use cases
	selectSlotsUseCase := selectSlotsUC.NewUseCase(scheduleClient, cartSvc, log)
	checkoutUseCase := checkoutUC.NewUseCase(
		cartSvc,
		scheduleClient,
		gatewayClient,
		attemptRepository,
		txMgr,
		loc,
		metricsCollector,
		log,
	)
	getAttemptUseCase := getCheckoutAttemptUC.NewUseCase(attemptRepository, log)

	// Инициализируем handlers
	getTimeOptions := getTimeOptionsHandler.NewHandler(selectSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(selectSlotsUseCase, log)
	getCart := getCartHandler.NewHandler(cartSvc, log)
	removeCartItem := removeCartItemHandler.NewHandler(cartSvc, log)
	checkout := checkoutHandler.NewHandler(checkoutUseCase, log)
	getCheckoutAttempt := getCheckoutAttemptHandler.NewHandler(getAttemptUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (X-User-ID опционален)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// Слоты места на дату с вычисленной выбираемостью
	public.HandleFunc("/places/{placeId}/time-options", getTimeOptions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Корзина ---
	protected.HandleFunc("/cart", getCart.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/cart/items/{itemId}", removeCartItem.Handle).Methods(http.MethodDelete)

	// --- Удержание слотов ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// --- Оплата (с rate limit по IP) ---
	checkoutRoute := middleware.RateLimit(
		rate.Limit(cfg.Server.CheckoutRateLimit),
		cfg.Server.CheckoutRateBurst,
	)(http.HandlerFunc(checkout.Handle))
	protected.Handle("/checkout", checkoutRoute).Methods(http.MethodPost)
	protected.HandleFunc("/checkout/attempts/{attemptId}", getCheckoutAttempt.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
