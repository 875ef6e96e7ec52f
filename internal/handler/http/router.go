package http

import (
	"log/slog"
	"os"

	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	insightsHandler InsightsHandler,
	env string,
	frontendURL string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
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

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				// Employee self-service
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Put("/manual", attendanceHandler.ManualUpsert)
				r.Delete("/{id}", attendanceHandler.Delete)
				r.Get("/my", attendanceHandler.GetMyRecords)
				r.Get("/stats", insightsHandler.MyStats)
				r.Get("/stats/series", insightsHandler.MySeries)
				r.Post("/refresh", attendanceHandler.Refresh)

				// Manager oversight
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/", attendanceHandler.List)
					r.Get("/team/stats", insightsHandler.TeamStats)
					r.Get("/team/stats/series", insightsHandler.TeamSeries)
					r.Get("/report", insightsHandler.Report)
					r.Get("/export", insightsHandler.Export)
				})
			})
		})
	})
	return r
}
