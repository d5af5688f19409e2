package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger      *slog.Logger
	LogLevel    slog.Level
	CORSOrigins []string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Break      BreakHandler
	Report     ReportHandler
	Rule       RuleHandler
	Onboarding OnboardingHandler
	Activity   ActivityHandler
	Health     *HealthHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, sessions middleware.SessionChecker, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Get("/health", h.Health.Health)

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		r.Use(middleware.SessionActive(sessions))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/session", h.Auth.Session)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/today/{employee_id}", h.Attendance.Today)
			r.Get("/monthly/{employee_id}", h.Attendance.Monthly)
			r.Get("/all", h.Report.All)
			r.Get("/all-with-absent", h.Report.AllWithAbsent)
			r.Get("/breaks", h.Break.List)

			r.Group(func(r chi.Router) {
				authenticated(r)

				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)

				r.Post("/break", h.Break.Record)
				r.Post("/break-start", h.Break.Start)
				r.Patch("/break-progress", h.Break.Progress)
				r.Patch("/break-end", h.Break.End)
				r.Get("/ongoing-breaks/{employee_id}", h.Break.Ongoing)
				r.Get("/today-breaks/{employee_id}", h.Break.Today)

				r.Get("/summary", h.Report.Summary)
				r.Get("/overtime", h.Report.Overtime)
				r.Get("/overtime/export", h.Report.ExportOvertime)
				r.Get("/export", h.Report.ExportAttendance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/generate-absent", h.Attendance.GenerateAbsent)
					r.Post("/auto-fix-working-hours", h.Attendance.RepairAll)
				})
			})
		})

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.Rule.List)
			r.Get("/break-rules", h.Rule.BreakRules)
			r.Get("/type/{type}", h.Rule.ByType)
			r.Get("/{id}", h.Rule.Get)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/", h.Rule.Create)
				r.Put("/{id}", h.Rule.Update)
				r.Delete("/{id}", h.Rule.Delete)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/all", h.Activity.All)
			r.Get("/employee/{employee_id}", h.Activity.ByEmployee)
			r.Get("/today", h.Activity.Today)
			r.Get("/stats", h.Activity.Stats)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/record", h.Activity.Record)
			})
		})

		r.Route("/onboarding/employees", func(r chi.Router) {
			authenticated(r)
			r.Use(middleware.AdminOnly)

			r.Post("/", h.Onboarding.Create)
			r.Get("/", h.Onboarding.List)
			r.Get("/{id}", h.Onboarding.Get)
			r.Put("/{id}", h.Onboarding.Update)
			r.Delete("/{id}", h.Onboarding.Delete)
			r.Get("/{id}/progress", h.Onboarding.Progress)
			r.Delete("/{id}/deactivate", h.Onboarding.Deactivate)
		})
	})

	return r
}
