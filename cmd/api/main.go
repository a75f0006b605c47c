package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
	appHTTP "github.com/cmlabs-hris/attendance-engine/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	absenceService "github.com/cmlabs-hris/attendance-engine/internal/service/absence"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	dashboardService "github.com/cmlabs-hris/attendance-engine/internal/service/dashboard"
	extraHoursService "github.com/cmlabs-hris/attendance-engine/internal/service/extrahours"
	payrollService "github.com/cmlabs-hris/attendance-engine/internal/service/payroll"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
	scheduleService "github.com/cmlabs-hris/attendance-engine/internal/service/schedule"
	validationService "github.com/cmlabs-hris/attendance-engine/internal/service/validation"
	"github.com/redis/go-redis/v9"
)

// repositories is the storage backend chosen by APP_STORAGE.
type repositories struct {
	tx         database.Transactor
	employees  employee.EmployeeRepository
	schedules  schedule.ScheduleRepository
	workCycles schedule.WorkCycleRepository
	entries    attendance.TimeEntryRepository
	reports    validation.ReportRepository
	absences   absence.AbsenceRepository
	extraHours extrahours.RecordRepository
	closeFunc  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "storage", cfg.App.Storage, "error", err)
		os.Exit(1)
	}
	defer repos.closeFunc()

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	if err != nil {
		slog.Error("Failed to initialize authorizer", "error", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	lookup := scheduleService.NewLookup(repos.schedules, repos.workCycles, repos.employees)
	engine := validation.NewEngine(validation.Limits{
		MaxDailyHours:     cfg.Attendance.MaxDailyHours,
		ScheduleTolerance: cfg.Attendance.ScheduleTolerance,
		Location:          cfg.Attendance.Location,
	})

	scheduleSvc := scheduleService.NewScheduleService(repos.schedules, repos.workCycles, repos.employees, authorizer, cfg.Attendance.Location)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, repos.entries, repos.employees, authorizer, cfg.Attendance.Location)
	validationSvc := validationService.NewValidationService(repos.tx, repos.entries, repos.reports, lookup, authorizer, engine)
	absenceSvc := absenceService.NewAbsenceService(repos.tx, repos.absences, repos.employees, authorizer)
	extraHoursSvc := extraHoursService.NewExtraHoursService(repos.tx, repos.extraHours, repos.employees, authorizer)
	reportSvc := reportService.NewReportService(repos.entries, repos.absences, repos.employees, authorizer)
	payrollSvc := payrollService.NewPayrollService(repos.entries, repos.extraHours, repos.absences, repos.employees, authorizer)
	dashboardSvc := dashboardService.NewDashboardService(repos.employees, repos.entries, lookup, reportSvc, authorizer)

	routerOpts := appHTTP.RouterOptions{
		App:            "attendance-engine",
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, idempotency requests will pass through", "addr", cfg.Redis.Addr, "error", err)
		}
		routerOpts.Redis = rdb
	}

	router := appHTTP.NewRouter(
		routerOpts,
		JWTService,
		appHTTP.NewScheduleHandler(scheduleSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc, validationSvc),
		appHTTP.NewAbsenceHandler(absenceSvc),
		appHTTP.NewExtraHoursHandler(extraHoursSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, repos.employees, lookup, cfg.Attendance.GraceWindow, cfg.Attendance.Location).
		RegisterJobs(scheduler, cfg.Attendance.CronInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.App.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.App.Storage == config.StorageMemory {
		store := memory.NewStore()
		if cfg.App.SeedFile != "" {
			f, err := os.Open(cfg.App.SeedFile)
			if err != nil {
				return repositories{}, fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close()
			n, err := store.LoadEmployees(f, time.Now().UTC())
			if err != nil {
				return repositories{}, err
			}
			slog.Info("Seeded employees", "count", n, "file", cfg.App.SeedFile)
		}
		return repositories{
			tx:         store.Transactor(),
			employees:  memory.NewEmployeeRepository(store),
			schedules:  memory.NewScheduleRepository(store),
			workCycles: memory.NewWorkCycleRepository(store),
			entries:    memory.NewTimeEntryRepository(store),
			reports:    memory.NewValidationReportRepository(store),
			absences:   memory.NewAbsenceRepository(store),
			extraHours: memory.NewExtraHoursRepository(store),
			closeFunc:  func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.Pool)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return repositories{}, err
		}
	}

	return repositories{
		tx:         postgresql.NewTransactor(db),
		employees:  postgresql.NewEmployeeRepository(db),
		schedules:  postgresql.NewScheduleRepository(db),
		workCycles: postgresql.NewWorkCycleRepository(db),
		entries:    postgresql.NewTimeEntryRepository(db),
		reports:    postgresql.NewValidationReportRepository(db),
		absences:   postgresql.NewAbsenceRepository(db),
		extraHours: postgresql.NewExtraHoursRepository(db),
		closeFunc:  db.Close,
	}, nil
}
