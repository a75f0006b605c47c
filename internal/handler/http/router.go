package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

// RouterOptions carries the process-level settings of the HTTP stack.
type RouterOptions struct {
	App            string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string

	// Redis enables POST idempotency when set
	Redis          redis.Cmdable
	IdempotencyTTL time.Duration
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	scheduleHandler ScheduleHandler,
	attendanceHandler AttendanceHandler,
	absenceHandler AbsenceHandler,
	extraHoursHandler ExtraHoursHandler,
	reportHandler ReportHandler,
	payrollHandler PayrollHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService))
		if opts.Redis != nil {
			r.Use(middleware.Idempotency(opts.Redis, opts.IdempotencyTTL))
		}

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Post("/", scheduleHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", scheduleHandler.Get)
				r.Put("/", scheduleHandler.Update)
				r.Get("/rate", scheduleHandler.ResolveRate)
			})
		})

		r.Route("/work-cycles", func(r chi.Router) {
			r.Get("/", scheduleHandler.ListWorkCycles)
			r.Post("/", scheduleHandler.CreateWorkCycle)
			r.Get("/{id}", scheduleHandler.GetWorkCycle)
		})

		r.Put("/employees/{id}/work-cycle", scheduleHandler.AssignWorkCycle)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.List)
			r.Post("/clock-in", attendanceHandler.ClockIn)
			r.Post("/clock-out", attendanceHandler.ClockOut)
			r.Post("/absent", attendanceHandler.MarkAbsent)
			r.Post("/validate-period", attendanceHandler.ValidatePeriod)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", attendanceHandler.Get)
				r.Delete("/", attendanceHandler.Delete)
				r.Put("/correction", attendanceHandler.Correct)
				r.Post("/validate", attendanceHandler.Validate)
			})
		})

		r.Route("/absences", func(r chi.Router) {
			r.Get("/", absenceHandler.List)
			r.Post("/", absenceHandler.Request)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", absenceHandler.Get)
				r.Put("/", absenceHandler.Update)
				r.Post("/approve", absenceHandler.Approve)
				r.Post("/reject", absenceHandler.Reject)
			})
		})

		r.Route("/extra-hours", func(r chi.Router) {
			r.Get("/", extraHoursHandler.List)
			r.Post("/overtime", extraHoursHandler.DeclareOvertime)
			r.Post("/special", extraHoursHandler.DeclareSpecialHours)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", extraHoursHandler.Get)
				r.Put("/", extraHoursHandler.Update)
				r.Post("/approve", extraHoursHandler.Approve)
				r.Post("/reject", extraHoursHandler.Reject)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", reportHandler.GetSummary)
			r.Get("/summary/export", reportHandler.ExportSummary)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/payslip", payrollHandler.GetPayslip)
			r.Get("/payslip/pdf", payrollHandler.ExportPayslipPDF)
		})

		r.Get("/dashboard", dashboardHandler.GetDashboard)
	})
	return r
}
