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

	approveBookingHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/check_availability"
	getBookingHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/get_calendar"
	getPendingBookingsHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/get_pending_bookings"
	getUserBookingsHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/get_user_bookings"
	payBookingHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/pay_booking"
	rejectBookingHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/reject_booking"
	submitBookingHandler "github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers/submit_booking"
	"github.com/cercle-asbl/ASBL-BookingService/internal/api/middleware"
	"github.com/cercle-asbl/ASBL-BookingService/internal/config"
	"github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage"
	bookingRepo "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/catalog"
	"github.com/cercle-asbl/ASBL-BookingService/internal/integrations/paymentgate"
	bookingsService "github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings"
	getCalendarUC "github.com/cercle-asbl/ASBL-BookingService/internal/usecase/get_calendar"
	submitBookingUC "github.com/cercle-asbl/ASBL-BookingService/internal/usecase/submit_booking"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/dbmetrics"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/logger"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/metrics"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/simpletxmanager"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/txmanager"
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

	log.Info("Starting ASBL-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
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

	// Применяем миграции схемы
	if err := storage.RunMigrations(db, cfg.Migrations.Path); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations applied from %s", cfg.Migrations.Path)

	// Инициализируем платежный клиент
	payments := paymentgate.NewClient(
		cfg.Payments.StripeAPIKey,
		cfg.Payments.AllowFakePayments,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gate initialized (fake payments allowed: %v)", cfg.Payments.AllowFakePayments)

	// Инициализируем репозитории и транзакционный менеджер (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		catalogRepository *catalogRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &submitBookingUC.RealTimeProvider{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogRepository,
		payments,
		timeProvider,
		log,
	)

	// Инициализируем use cases
	submitBookingUseCase := submitBookingUC.NewUsecase(
		bookingRepository,
		catalogRepository,
		payments,
		txMgr,
		timeProvider,
		log,
	)
	getCalendarUseCase := getCalendarUC.NewUsecase(
		bookingRepository,
		catalogRepository,
		timeProvider,
		log,
	)

	// Инициализируем handlers
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	payBooking := payBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	getPendingBookings := getPendingBookingsHandler.NewHandler(bookingSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(bookingSvc, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка свободности слота пространства
	api.HandleFunc("/resources/{resourceId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// Календарь занятости пространства
	api.HandleFunc("/resources/{resourceId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// Подача заявки на бронирование
	protected.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Оплата одобренного бронирования
	protected.HandleFunc("/bookings/{bookingId}/pay", payBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(log), middleware.RequireAdmin(log))

	// Очередь заявок на одобрение
	admin.HandleFunc("/bookings/pending", getPendingBookings.Handle).Methods(http.MethodGet)

	// Одобрение заявки
	admin.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)

	// Отказ по заявке
	admin.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
