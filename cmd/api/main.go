package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/config"
	appHTTP "github.com/zmi-time/zmi-backend-go/internal/handler/http"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/cron"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/jwt"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/mailer"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/sse"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/storage"
	"github.com/zmi-time/zmi-backend-go/internal/repository/postgresql"
	absenceService "github.com/zmi-time/zmi-backend-go/internal/service/absence"
	accessService "github.com/zmi-time/zmi-backend-go/internal/service/access"
	auditService "github.com/zmi-time/zmi-backend-go/internal/service/audit"
	serviceAuth "github.com/zmi-time/zmi-backend-go/internal/service/auth"
	bookingService "github.com/zmi-time/zmi-backend-go/internal/service/booking"
	employeeService "github.com/zmi-time/zmi-backend-go/internal/service/employee"
	exportService "github.com/zmi-time/zmi-backend-go/internal/service/export"
	holidayService "github.com/zmi-time/zmi-backend-go/internal/service/holiday"
	macroService "github.com/zmi-time/zmi-backend-go/internal/service/macro"
	tariffService "github.com/zmi-time/zmi-backend-go/internal/service/tariff"
	tenantService "github.com/zmi-time/zmi-backend-go/internal/service/tenant"
	timesheetService "github.com/zmi-time/zmi-backend-go/internal/service/timesheet"
	userService "github.com/zmi-time/zmi-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	tenantRepo := postgresql.NewTenantRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	dayPlanRepo := postgresql.NewDayPlanRepository(db)
	tariffRepo := postgresql.NewTariffRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	absenceTypeRepo := postgresql.NewAbsenceTypeRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	bookingRepo := postgresql.NewBookingRepository(db)
	dailyRepo := postgresql.NewDailyValueRepository(db)
	monthlyRepo := postgresql.NewMonthlyValueRepository(db)
	accountRepo := postgresql.NewAccountRepository(db)
	interfaceRepo := postgresql.NewInterfaceRepository(db)
	runRepo := postgresql.NewRunRepository(db)
	zoneRepo := postgresql.NewZoneRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	macroRepo := postgresql.NewMacroRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	evaluationRepo := postgresql.NewEvaluationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize export storage:", err)
	}

	mail, err := mailer.NewMailer(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize mailer:", err)
	}

	auditSvc := auditService.NewAuditService(auditRepo, evaluationRepo)
	authSvc := serviceAuth.NewAuthService(db, userRepo, JWTService, JWTRepository)
	userSvc := userService.NewUserService(userRepo, tenantRepo, auditSvc)
	tenantSvc := tenantService.NewTenantService(
		db,
		tenantRepo,
		dayPlanRepo,
		tariffRepo,
		absenceTypeRepo,
		accountRepo,
		auditSvc,
	)
	timesheetSvc := timesheetService.NewTimesheetService(
		db,
		employeeRepo,
		tariffRepo,
		dayPlanRepo,
		holidayRepo,
		bookingRepo,
		absenceRepo,
		dailyRepo,
		monthlyRepo,
		tenantRepo,
		evaluationRepo,
		auditSvc,
		mail,
		hub,
	)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, tariffRepo, auditSvc)
	tariffSvc := tariffService.NewTariffService(dayPlanRepo, tariffRepo, auditSvc)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, auditSvc)
	absenceSvc := absenceService.NewAbsenceService(
		absenceTypeRepo,
		absenceRepo,
		employeeRepo,
		monthlyRepo,
		timesheetSvc,
		auditSvc,
	)
	bookingSvc := bookingService.NewBookingService(
		bookingRepo,
		employeeRepo,
		tenantRepo,
		monthlyRepo,
		timesheetSvc,
		auditSvc,
	)
	exportSvc := exportService.NewExportService(
		accountRepo,
		interfaceRepo,
		runRepo,
		monthlyRepo,
		absenceRepo,
		absenceTypeRepo,
		employeeRepo,
		tenantRepo,
		timesheetSvc,
		fileStorage,
		mail,
		auditSvc,
	)
	macroSvc := macroService.NewMacroService(
		db,
		macroRepo,
		employeeRepo,
		tariffRepo,
		tenantRepo,
		monthlyRepo,
		timesheetSvc,
		auditSvc,
	)
	accessSvc := accessService.NewAccessService(
		db,
		zoneRepo,
		profileRepo,
		employeeRepo,
		tenantRepo,
		auditSvc,
	)

	if err := serviceAuth.EnsureInitialAdmin(context.Background(), userRepo, cfg.InitialAdmin); err != nil {
		log.Fatal("Failed to ensure initial admin:", err)
	}

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	tenantHandler := appHTTP.NewTenantHandler(tenantSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc, timesheetSvc, exportSvc)
	tariffHandler := appHTTP.NewTariffHandler(tariffSvc)
	holidayHandler := appHTTP.NewHolidayHandler(holidaySvc)
	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc)
	bookingHandler := appHTTP.NewBookingHandler(bookingSvc, tenantSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	exportHandler := appHTTP.NewExportHandler(exportSvc)
	macroHandler := appHTTP.NewMacroHandler(macroSvc)
	accessHandler := appHTTP.NewAccessHandler(accessSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)
	terminalHandler := appHTTP.NewTerminalHandler(bookingSvc, accessSvc)
	eventsHandler := appHTTP.NewEventsHandler(JWTService, hub)

	scheduler := cron.NewScheduler()
	jobs := cron.NewJobs(tenantRepo, timesheetSvc, macroSvc, auditSvc, cfg.Retention)
	jobs.RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		JWTService: JWTService,

		AppEnv:         cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,

		TerminalAPIKey:    cfg.Terminal.APIKey,
		TerminalRateLimit: cfg.Terminal.RateLimit,
		TerminalRateBurst: cfg.Terminal.RateBurst,

		Auth:      authHandler,
		Tenant:    tenantHandler,
		User:      userHandler,
		Employee:  employeeHandler,
		Tariff:    tariffHandler,
		Holiday:   holidayHandler,
		Absence:   absenceHandler,
		Booking:   bookingHandler,
		Timesheet: timesheetHandler,
		Export:    exportHandler,
		Macro:     macroHandler,
		Access:    accessHandler,
		Audit:     auditHandler,
		Terminal:  terminalHandler,
		Events:    eventsHandler,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
