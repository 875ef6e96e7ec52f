package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/attendly-hq/attendance-backend-go/internal/config"
	attendanceDomain "github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/attendly-hq/attendance-backend-go/internal/handler/http"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/cron"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly-hq/attendance-backend-go/internal/service/attendance"
	exportService "github.com/attendly-hq/attendance-backend-go/internal/service/export"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
	reportService "github.com/attendly-hq/attendance-backend-go/internal/service/report"
	statsService "github.com/attendly-hq/attendance-backend-go/internal/service/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	reconciler := reconcile.NewReconciler(attendanceRepo)
	if err := reconciler.Load(ctx, attendanceDomain.ListFilter{}); err != nil {
		log.Fatal("Failed to load attendance records:", err)
	}

	lateThreshold, err := attendanceDomain.ParseLateThreshold(cfg.Attendance.LateThreshold)
	if err != nil {
		log.Fatal("Invalid late threshold:", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(reconciler, employeeRepo, lateThreshold)
	statsSvc := statsService.NewStatsService(reconciler)
	reportSvc := reportService.NewReportService(statsSvc, employeeRepo)
	exportSvc := exportService.NewExportService(reconciler, employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	insightsHandler := appHTTP.NewInsightsHandler(statsSvc, reportSvc, exportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		insightsHandler,
		cfg.App.Env,
		cfg.App.FrontendURL,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(db, attendanceRepo, reconciler, employeeRepo)
	scheduler.AddJob("mark-absentees", cfg.Cron.AbsentMarkInterval, attendanceJobs.MarkAbsentees)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := server.Shutdown(ctx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
