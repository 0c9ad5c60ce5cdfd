package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Punch    PunchHandler
	GeoFence GeoFenceHandler
	Schedule ScheduleHandler
	Request  RequestHandler
	Approval ApprovalHandler
	Stats    StatsHandler
}

type RouterOptions struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	PunchLimiter *middleware.KeyedRateLimiter
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/punches", func(r chi.Router) {
			r.With(
				middleware.RequirePermission(user.PermissionPunchCreate),
				middleware.RateLimitPerUser(opts.PunchLimiter),
			).Post("/", h.Punch.Punch)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPunchViewOwn))
				r.Get("/today", h.Punch.Today)
				r.Get("/history", h.Punch.History)
				r.Get("/schedule", h.Punch.CurrentSchedule)
			})
		})

		r.Route("/geofences", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionGeoFenceManage))
			r.Get("/", h.GeoFence.List)
			r.Post("/", h.GeoFence.Create)
			r.Put("/{id}", h.GeoFence.Update)
			r.Delete("/{id}", h.GeoFence.Delete)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
			r.Get("/", h.Schedule.List)
			r.Post("/", h.Schedule.Create)
			r.Get("/{id}", h.Schedule.Get)
			r.Put("/{id}", h.Schedule.Update)
			r.Delete("/{id}", h.Schedule.Delete)
			r.Put("/{id}/default", h.Schedule.SetDefault)
		})

		r.Route("/requests", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionRequestCreate)).Post("/", h.Request.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionRequestViewOwn))
				r.Get("/", h.Request.List)
				r.Get("/{id}", h.Request.Get)
				r.Post("/{id}/cancel", h.Request.Cancel)
			})
		})

		// Approvers are resolved per request, so any employee may be one.
		r.Route("/approvals", func(r chi.Router) {
			r.Get("/pending", h.Approval.Pending)
			r.Post("/{requestId}/decision", h.Approval.Decide)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionStatsViewOwn))
				r.Get("/monthly", h.Stats.Monthly)
				r.Get("/monthly/export", h.Stats.ExportMonthly)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionStatsViewAll))
				r.Get("/team", h.Stats.Team)
				r.Get("/team/export", h.Stats.ExportTeam)
			})
		})
	})

	return r
}
