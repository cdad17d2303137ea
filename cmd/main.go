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
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/citaplan/scheduling-service/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/citaplan/scheduling-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/citaplan/scheduling-service/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/citaplan/scheduling-service/internal/api/handlers/get_calendar"
	listAppointmentsHandler "github.com/citaplan/scheduling-service/internal/api/handlers/list_appointments"
	manageBlacklistHandler "github.com/citaplan/scheduling-service/internal/api/handlers/manage_blacklist"
	manageOverridesHandler "github.com/citaplan/scheduling-service/internal/api/handlers/manage_overrides"
	manageScheduleHandler "github.com/citaplan/scheduling-service/internal/api/handlers/manage_schedule"
	moveAppointmentHandler "github.com/citaplan/scheduling-service/internal/api/handlers/move_appointment"
	publicCancelHandler "github.com/citaplan/scheduling-service/internal/api/handlers/public_cancel"
	transitionAppointmentHandler "github.com/citaplan/scheduling-service/internal/api/handlers/transition_appointment"
	"github.com/citaplan/scheduling-service/internal/api/middleware"
	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/calendar"
	"github.com/citaplan/scheduling-service/internal/config"
	"github.com/citaplan/scheduling-service/internal/infra/cache"
	"github.com/citaplan/scheduling-service/internal/infra/changefeed"
	appointmentRepo "github.com/citaplan/scheduling-service/internal/infra/storage/appointment"
	blacklistRepo "github.com/citaplan/scheduling-service/internal/infra/storage/blacklist"
	overrideRepo "github.com/citaplan/scheduling-service/internal/infra/storage/override"
	scheduleRepo "github.com/citaplan/scheduling-service/internal/infra/storage/schedule"
	serviceRepo "github.com/citaplan/scheduling-service/internal/infra/storage/service"
	"github.com/citaplan/scheduling-service/internal/integrations/mailer"
	"github.com/citaplan/scheduling-service/internal/phases"
	"github.com/citaplan/scheduling-service/internal/reminder"
	appointmentsService "github.com/citaplan/scheduling-service/internal/service/appointments"
	blacklistService "github.com/citaplan/scheduling-service/internal/service/blacklist"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
	scheduleService "github.com/citaplan/scheduling-service/internal/service/schedule"
	createAppointmentUC "github.com/citaplan/scheduling-service/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/citaplan/scheduling-service/internal/usecase/get_available_slots"
	moveAppointmentUC "github.com/citaplan/scheduling-service/internal/usecase/move_appointment"
	"github.com/citaplan/scheduling-service/pkg/logger"
	"github.com/citaplan/scheduling-service/pkg/metrics"
	"github.com/citaplan/scheduling-service/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting citaplan scheduling service...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Metrics.Enabled {
		go metricsCollector.CollectDBStats(db, 15*time.Second, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	// Repositories and transaction manager
	txMgr := txmanager.NewTransactionManager(db)
	appointmentRepository := appointmentRepo.NewRepository(db)
	scheduleRepository := scheduleRepo.NewRepository(db)
	overrideRepository := overrideRepo.NewRepository(db)
	serviceRepository := serviceRepo.NewRepository(db)
	blacklistRepository := blacklistRepo.NewRepository(db)

	// Change feed for live calendar patches
	feed, err := changefeed.New(cfg.Database.DSN(), appointmentRepo.FeedChannel, log)
	if err != nil {
		log.Fatal("Failed to open change feed: %v", err)
	}
	defer feed.Close()
	log.Info("Change feed listening on %q", appointmentRepo.FeedChannel)

	// Optional slot cache
	var slotCache getAvailableSlotsUC.SlotCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		slotCache = cache.NewSlotCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		log.Info("Slot cache enabled (redis=%s ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Optional outgoing mail
	var mail *mailer.Mailer
	var createMailer createAppointmentUC.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password,
			cfg.SMTP.From, cfg.SMTP.PublicBaseURL, log)
		createMailer = mail
		log.Info("SMTP mailer enabled (host=%s from=%s)", cfg.SMTP.Host, cfg.SMTP.From)
	}

	// Domain components
	resolver := availability.NewResolver(scheduleRepository, overrideRepository, log)
	expander := phases.NewExpander()
	guard := conflicts.NewGuard(resolver, appointmentRepository, blacklistRepository, &conflicts.RealTimeProvider{}, log)
	materializer := calendar.NewMaterializer(appointmentRepository, serviceRepository, resolver, expander, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		resolver,
		appointmentRepository,
		serviceRepository,
		scheduleRepository,
		slotCache,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		guard,
		expander,
		createMailer,
		txMgr,
		log,
	)
	moveAppointmentUseCase := moveAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		guard,
		expander,
		txMgr,
		log,
	)

	// Services
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, guard, txMgr, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, overrideRepository, txMgr, log)
	blacklistSvc := blacklistService.NewService(blacklistRepository, txMgr, log)

	// Reminder cron
	if cfg.Reminders.Enabled {
		if mail == nil {
			log.Warn("Reminders enabled but SMTP is not; reminders will not run")
		} else {
			reminderScheduler := reminder.New(appointmentRepository, mail, cfg.Reminders.CronSpec, log)
			if err := reminderScheduler.Start(); err != nil {
				log.Fatal("Failed to start reminder scheduler: %v", err)
			}
			defer reminderScheduler.Stop()
			log.Info("Reminder scheduler started (cron=%q)", cfg.Reminders.CronSpec)
		}
	}

	// Handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	moveAppointment := moveAppointmentHandler.NewHandler(moveAppointmentUseCase, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getCalendar := getCalendarHandler.NewHandler(materializer, log)
	streamCalendar := getCalendarHandler.NewStreamHandler(materializer, feed, log)
	manageSchedule := manageScheduleHandler.NewHandler(scheduleSvc, log)
	manageOverrides := manageOverridesHandler.NewHandler(scheduleSvc, log)
	manageBlacklist := manageBlacklistHandler.NewHandler(blacklistSvc, log)
	publicCancel := publicCancelHandler.NewHandler(appointmentsSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// ============================================================
	// PUBLIC ROUTES (no identity headers)
	// ============================================================

	public := r.PathPrefix("/public").Subrouter()

	// Client self-booking and the emailed cancellation capability
	public.HandleFunc("/companies/{companyId}/appointments",
		createAppointment.HandlePublic).Methods(http.MethodPost)
	public.HandleFunc("/appointments/{token}",
		publicCancel.HandleGet).Methods(http.MethodGet)
	public.HandleFunc("/appointments/{token}/cancel",
		publicCancel.HandleCancel).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Slot lookup stays open so the booking widget works without a login
	api.HandleFunc("/companies/{companyId}/workers/{workerId}/slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (gateway identity headers required)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Identity(log), middleware.RequireStaff)

	// --- Appointments ---
	protected.HandleFunc("/companies/{companyId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/appointments",
		listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/appointments/{id}",
		getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/appointments/{id}/schedule",
		moveAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/companies/{companyId}/appointments/{id}/cancel",
		transitionAppointment.HandleCancel).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/appointments/{id}/complete",
		transitionAppointment.HandleComplete).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/appointments/{id}/annul",
		transitionAppointment.HandleAnnul).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/appointments/{id}/reopen",
		transitionAppointment.HandleReopen).Methods(http.MethodPost)

	// --- Calendar ---
	protected.HandleFunc("/companies/{companyId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/calendar/stream",
		streamCalendar.Handle).Methods(http.MethodGet)

	// --- Schedules and settings ---
	protected.HandleFunc("/companies/{companyId}/workers/{workerId}/schedule",
		manageSchedule.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/workers/{workerId}/schedule",
		manageSchedule.HandleReplace).Methods(http.MethodPut)
	protected.HandleFunc("/companies/{companyId}/workers/{workerId}/settings",
		manageSchedule.HandleGetSettings).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/workers/{workerId}/settings",
		manageSchedule.HandleUpdateGranularity).Methods(http.MethodPut)

	// --- Holidays and leave ---
	protected.HandleFunc("/companies/{companyId}/holidays",
		manageOverrides.HandleCreateHoliday).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/holidays",
		manageOverrides.HandleListHolidays).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/holidays/{id}",
		manageOverrides.HandleDeleteHoliday).Methods(http.MethodDelete)
	protected.HandleFunc("/companies/{companyId}/leave-requests",
		manageOverrides.HandleRequestLeave).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/leave-requests",
		manageOverrides.HandleListLeave).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/leave-requests/{id}/approve",
		manageOverrides.HandleApproveLeave).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/leave-requests/{id}/reject",
		manageOverrides.HandleRejectLeave).Methods(http.MethodPost)

	// --- Blacklist ---
	protected.HandleFunc("/companies/{companyId}/blacklist",
		manageBlacklist.HandleAdd).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/blacklist",
		manageBlacklist.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/blacklist/{id}",
		manageBlacklist.HandleRemove).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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
