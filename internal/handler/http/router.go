package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/zmi-time/zmi-backend-go/internal/handler/http/middleware"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/jwt"
)

// RouterConfig bundles everything the router needs wired in.
type RouterConfig struct {
	JWTService jwt.Service

	AppEnv         string
	AllowedOrigins []string

	TerminalAPIKey    string
	TerminalRateLimit float64
	TerminalRateBurst int

	Auth      AuthHandler
	Tenant    TenantHandler
	User      UserHandler
	Employee  EmployeeHandler
	Tariff    TariffHandler
	Holiday   HolidayHandler
	Absence   AbsenceHandler
	Booking   BookingHandler
	Timesheet TimesheetHandler
	Export    ExportHandler
	Macro     MacroHandler
	Access    AccessHandler
	Audit     AuditHandler
	Terminal  TerminalHandler
	Events    EventsHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "zmi-time"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.AppEnv),
	)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TenantHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	terminalLimiter := middleware.NewRateLimitMiddleware(cfg.TerminalRateLimit, cfg.TerminalRateBurst)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.RefreshToken)
			r.Post("/logout", cfg.Auth.Logout)
		})

		// Hardware terminals authenticate with the shared API key,
		// not with user tokens.
		r.Route("/terminal", func(r chi.Router) {
			r.Use(middleware.TerminalKey(cfg.TerminalAPIKey))
			r.Use(terminalLimiter.Handler)
			r.Post("/punch", cfg.Terminal.Punch)
			r.Post("/access-check", cfg.Terminal.AccessCheck)
		})

		// EventSource cannot send an Authorization header, so the
		// stream authenticates with a short-lived query token issued
		// by GET /events/token below.
		r.Get("/events", cfg.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.JWTService.JWTAuth()))
			r.Use(middleware.ResolveTenant)

			r.Get("/events/token", cfg.Events.GetSSEToken)

			// Admin only
			r.Route("/tenants", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", cfg.Tenant.Create)
				r.Get("/", cfg.Tenant.List)
				r.Get("/{id}", cfg.Tenant.Get)
				r.Put("/{id}", cfg.Tenant.Update)
				r.Delete("/{id}", cfg.Tenant.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", cfg.User.Create)
				r.Get("/", cfg.User.List)
				r.Get("/{id}", cfg.User.Get)
				r.Put("/{id}", cfg.User.Update)
				r.Delete("/{id}", cfg.User.Delete)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", cfg.Employee.ListEmployees)
				r.Get("/{id}", cfg.Employee.GetEmployee)
				r.Get("/{id}/timesheet", cfg.Employee.GetTimesheet)
				r.Get("/{id}/timesheet/csv", cfg.Employee.DownloadTimesheetCSV)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Employee.CreateEmployee)
					r.Put("/{id}", cfg.Employee.UpdateEmployee)
					r.Delete("/{id}", cfg.Employee.DeleteEmployee)
				})
			})

			r.Route("/day-plans", func(r chi.Router) {
				r.Get("/", cfg.Tariff.ListDayPlans)
				r.Get("/{id}", cfg.Tariff.GetDayPlan)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Tariff.CreateDayPlan)
					r.Put("/{id}", cfg.Tariff.UpdateDayPlan)
					r.Delete("/{id}", cfg.Tariff.DeleteDayPlan)
				})
			})

			r.Route("/tariffs", func(r chi.Router) {
				r.Get("/", cfg.Tariff.ListTariffs)
				r.Get("/{id}", cfg.Tariff.GetTariff)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Tariff.CreateTariff)
					r.Put("/{id}", cfg.Tariff.UpdateTariff)
					r.Delete("/{id}", cfg.Tariff.DeleteTariff)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", cfg.Holiday.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Holiday.Create)
					r.Put("/{id}", cfg.Holiday.Update)
					r.Delete("/{id}", cfg.Holiday.Delete)
				})
			})

			r.Route("/absence-types", func(r chi.Router) {
				r.Get("/", cfg.Absence.ListTypes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Absence.CreateType)
					r.Put("/{id}", cfg.Absence.UpdateType)
					r.Delete("/{id}", cfg.Absence.DeleteType)
				})
			})

			r.Route("/absences", func(r chi.Router) {
				r.Get("/", cfg.Absence.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Absence.Create)
					r.Put("/{id}", cfg.Absence.Update)
					r.Delete("/{id}", cfg.Absence.Delete)
				})
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", cfg.Booking.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Booking.Create)
					r.Put("/{id}", cfg.Booking.Update)
					r.Delete("/{id}", cfg.Booking.Delete)
				})
			})

			// Self-service widget, open to every authenticated user
			r.Route("/timeclock", func(r chi.Router) {
				r.Post("/punch", cfg.Booking.Punch)
				r.Get("/status", cfg.Booking.Status)
			})

			r.Route("/calculation", func(r chi.Router) {
				r.Use(middleware.ManagerOnly)
				r.Post("/recalculate", cfg.Timesheet.Recalculate)
			})

			r.Get("/monthly-values", cfg.Timesheet.ListMonthlyValues)

			r.Route("/months", func(r chi.Router) {
				r.Use(middleware.ManagerOnly)
				r.Post("/close", cfg.Timesheet.CloseMonth)
				r.Post("/reopen", cfg.Timesheet.ReopenMonth)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", cfg.Export.ListAccounts)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Export.CreateAccount)
					r.Put("/{id}", cfg.Export.UpdateAccount)
					r.Delete("/{id}", cfg.Export.DeleteAccount)
				})
			})

			r.Route("/export-interfaces", func(r chi.Router) {
				r.Get("/", cfg.Export.ListInterfaces)
				r.Get("/runs/{runID}/download", cfg.Export.DownloadRun)
				r.Get("/{id}", cfg.Export.GetInterface)
				r.Get("/{id}/runs", cfg.Export.ListRuns)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Export.CreateInterface)
					r.Put("/{id}", cfg.Export.UpdateInterface)
					r.Delete("/{id}", cfg.Export.DeleteInterface)
					r.Post("/{id}/accounts", cfg.Export.AddAssignment)
					r.Put("/{id}/accounts", cfg.Export.ReplaceAssignments)
					r.Delete("/{id}/accounts/{assignmentID}", cfg.Export.RemoveAssignment)
					r.Post("/{id}/accounts/{assignmentID}/move", cfg.Export.MoveAssignment)
					r.Post("/{id}/run", cfg.Export.Run)
				})
			})

			r.Route("/access-zones", func(r chi.Router) {
				r.Get("/", cfg.Access.ListZones)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Access.CreateZone)
					r.Put("/{id}", cfg.Access.UpdateZone)
					r.Delete("/{id}", cfg.Access.DeleteZone)
				})
			})

			r.Route("/access-profiles", func(r chi.Router) {
				r.Get("/", cfg.Access.ListProfiles)
				r.Get("/{id}", cfg.Access.GetProfile)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Access.CreateProfile)
					r.Put("/{id}", cfg.Access.UpdateProfile)
					r.Delete("/{id}", cfg.Access.DeleteProfile)
				})
			})

			r.Route("/macros", func(r chi.Router) {
				r.Get("/", cfg.Macro.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", cfg.Macro.Create)
					r.Put("/{id}", cfg.Macro.Update)
					r.Delete("/{id}", cfg.Macro.Delete)
					r.Post("/{id}/run", cfg.Macro.Run)
				})
			})

			r.Get("/audit-logs", cfg.Audit.ListEvents)
			r.Get("/evaluation-logs", cfg.Audit.ListEvaluations)
		})
	})

	return r
}
