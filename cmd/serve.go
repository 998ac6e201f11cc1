package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_appointment"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_customer_appointments"
	getStaffAppointmentsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_staff_appointments"
	listAvailabilityHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/list_availability"
	overrideDurationHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/override_duration"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/reschedule_appointment"
	transitionAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/transition_appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/config"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/events"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/lock/redislock"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalog"
	appointmentsService "github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/conflicts"
	createAppointmentUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
	listAvailabilityUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/list_availability"
	overrideDurationUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/override_duration"
	rescheduleAppointmentUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/keylock"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduling/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/txmanager"
)

// eventPublisher публикация событий с освобождением ресурсов при остановке
type eventPublisher interface {
	Publish(ctx context.Context, eventType string, a *domain.Appointment) error
	Close() error
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer log.Close()

			return runServer(cfg, log)
		},
	}
}

func runServer(cfg *config.Config, log *logger.Logger) error {
	log.Info("Starting salon scheduler (timezone=%s, slot interval=%dm)",
		cfg.Location(), cfg.Booking.SlotIntervalMinutes)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDB(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Обертка снимает метрики запросов; при выключенных метриках прозрачна
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозиторий и менеджер транзакций
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	detector := conflicts.NewDetector(appointmentRepository)

	// Блокировка слотов: Redis для нескольких инстансов, иначе в памяти процесса
	var locker appointmentsService.SlotLocker = keylock.New()
	lockWait := cfg.Booking.LockWait()

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
		}

		locker = redislock.New(redisClient, cfg.Redis.LockTTL(), cfg.Redis.LockWait(), log)
		lockWait = cfg.Redis.LockWait()
		log.Info("Redis slot locking enabled (addr=%s)", cfg.Redis.Addr)
	}

	// Публикация событий в Kafka (если указаны брокеры)
	var publisher eventPublisher = events.NoopPublisher{}
	if brokers := events.SplitBrokers(cfg.Kafka.Brokers); len(brokers) > 0 {
		publisher = events.NewProducer(brokers, cfg.Kafka.Topic)
		log.Info("Kafka event publishing enabled (brokers=%v, topic=%s)", brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем клиент каталога услуг и расписаний
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)

	// Инициализируем сервис записей
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		detector,
		txMgr,
		locker,
		publisher,
		metricsCollector,
		cfg.Location(),
		lockWait,
		log,
	)

	// Инициализируем use cases
	listAvailabilityUseCase := listAvailabilityUC.NewUseCase(
		appointmentRepository,
		catalog,
		cfg.Booking.SlotIntervalMinutes,
		cfg.Booking.MaxAdvanceDays,
		cfg.Location(),
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentSvc,
		catalog,
		cfg.Booking.MaxAdvanceDays,
		cfg.Location(),
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentSvc,
		catalog,
		cfg.Booking.MaxAdvanceDays,
		cfg.Location(),
		log,
	)
	overrideDurationUseCase := overrideDurationUC.NewUseCase(appointmentSvc, catalog, log)

	// Инициализируем handlers
	listAvailability := listAvailabilityHandler.NewHandler(listAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(appointmentSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	overrideDuration := overrideDurationHandler.NewHandler(overrideDurationUseCase, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getStaffAppointments := getStaffAppointmentsHandler.NewHandler(appointmentSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера на дату
	api.HandleFunc("/staff/{staffId}/availability", listAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", transitionAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/duration", overrideDuration.Handle).Methods(http.MethodPatch)

	// --- Списки ---
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/appointments", getStaffAppointments.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
