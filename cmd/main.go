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

	cancelBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_booking"
	createExceptionHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_schedule_exception"
	deleteExceptionHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/delete_schedule_exception"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client_bookings"
	getStaffBookingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_staff_bookings"
	getStaffScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_staff_schedule"
	updateStaffScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_staff_schedule"
	validateSlotHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/validate_slot"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	bookingRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	phorestClient "github.com/m04kA/SMC-SalonService/internal/integrations/phorest"
	bookingsService "github.com/m04kA/SMC-SalonService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-SalonService/internal/service/schedule"
	validationService "github.com/m04kA/SMC-SalonService/internal/service/validation"
	createBookingUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from config.toml")

	// Бизнес-таймзона салона: в ней считаются даты и рабочие окна
	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}
	log.Info("Business timezone: %s", cfg.Business.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиент Phorest CRM
	phorestTimeout := time.Duration(cfg.Phorest.Timeout) * time.Second
	tokens := phorestClient.NewTokenSource(cfg.Phorest.ClientID, cfg.Phorest.ClientSecret, phorestTimeout, log)
	phorest := phorestClient.NewClient(
		cfg.Phorest.BaseURL,
		cfg.Phorest.TokenURL,
		cfg.Phorest.BusinessID,
		tokens,
		phorestTimeout,
		log,
	)
	log.Info("Phorest client initialized (base_url=%s, business_id=%s, timeout=%ds)",
		cfg.Phorest.BaseURL, cfg.Phorest.BusinessID, cfg.Phorest.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB, location)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db, location)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	validationSvc := validationService.NewService(
		scheduleRepository,
		bookingRepository,
		location,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		phorest,
		location,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		location,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUsecase(
		validationSvc,
		bookingRepository,
		scheduleRepository,
		phorest,
		txMgr,
		location,
		cfg.Business.DefaultDurationMinutes,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUsecase(
		validationSvc,
		location,
		cfg.Business.SlotStepMinutes,
		cfg.Business.DefaultDurationMinutes,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateSlot := validateSlotHandler.NewHandler(validationSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(scheduleSvc, log)
	updateStaffSchedule := updateStaffScheduleHandler.NewHandler(scheduleSvc, log)
	createException := createExceptionHandler.NewHandler(scheduleSvc, log)
	deleteException := deleteExceptionHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера на дату
	api.HandleFunc("/staff/{staffId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Проверка одного кандидатного слота
	api.HandleFunc("/staff/{staffId}/slots/validate",
		validateSlot.Handle).Methods(http.MethodPost)

	// Расписание мастера
	api.HandleFunc("/staff/{staffId}/schedule",
		getStaffSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/me/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (для администраторов) ---
	// Записи мастера
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)

	// Замена недельного расписания мастера
	protected.HandleFunc("/staff/{staffId}/schedule/hours", updateStaffSchedule.Handle).Methods(http.MethodPut)

	// Создание исключения расписания
	protected.HandleFunc("/staff/{staffId}/schedule/exceptions", createException.Handle).Methods(http.MethodPost)

	// Удаление исключений на дату
	protected.HandleFunc("/staff/{staffId}/schedule/exceptions/{date}", deleteException.Handle).Methods(http.MethodDelete)

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
