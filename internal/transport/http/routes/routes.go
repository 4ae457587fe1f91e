package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/config"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/handlers"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Resolver    *usecase.RoleResolver
	Access      *usecase.CourseAccessService
	Courses     *usecase.CourseService
	Assignments *usecase.AssignmentService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Metrics     *middleware.HTTPMetrics
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Readiness   map[string]handlers.Pinger
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	r.Use(middleware.Identity())

	healthHandler := handlers.NewHealthHandler(deps.Readiness)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuthenticated()
	requireAdminLike := middleware.RequireAdminLike(deps.Services.Resolver)
	requireAdminOnly := middleware.RequireAdminOnly(deps.Services.Resolver)
	requireCourseScope := middleware.RequireCourseScopeOrAdmin(deps.Services.Resolver, deps.Services.Access, "id")

	writeLimit := func(name string) []gin.HandlerFunc {
		if deps.RateLimiter == nil {
			return nil
		}
		return []gin.HandlerFunc{deps.RateLimiter.Limit(name)}
	}

	api := r.Group("/api/v1")
	{
		roleHandler := handlers.NewRoleHandler(deps.Services.Assignments, deps.Services.Resolver)
		api.GET("/me/role", requireAuth, roleHandler.Me)

		courseHandler := handlers.NewCourseHandler(deps.Services.Courses)
		coursesGroup := api.Group("/courses")
		coursesGroup.GET("", requireAuth, courseHandler.List)
		coursesGroup.GET("/:id", requireAuth, courseHandler.Get)
		coursesGroup.POST("", append(writeLimit("course_create"), requireAdminLike, courseHandler.Create)...)
		coursesGroup.DELETE("/:id", requireAdminOnly, courseHandler.Delete)

		announcementHandler := handlers.NewAnnouncementHandler(deps.Services.Courses)
		coursesGroup.GET("/:id/announcements", requireAuth, announcementHandler.List)
		coursesGroup.POST("/:id/announcements", append(writeLimit("announcement_create"), requireCourseScope, announcementHandler.Create)...)
		coursesGroup.DELETE("/:id/announcements/:announcement_id", requireCourseScope, announcementHandler.Delete)

		rolesGroup := api.Group("/roles")
		rolesGroup.Use(requireAdminOnly)
		rolesGroup.GET("", roleHandler.List)
		rolesGroup.POST("", roleHandler.Upsert)
		rolesGroup.DELETE("/:id", roleHandler.Delete)

		vaadHandler := handlers.NewCourseVaadHandler(deps.Services.Assignments)
		vaadGroup := api.Group("/course-vaad")
		vaadGroup.Use(requireAdminLike)
		vaadGroup.GET("", vaadHandler.List)
		vaadGroup.POST("", vaadHandler.Upsert)
		vaadGroup.DELETE("/:id", vaadHandler.Delete)
	}

	return r
}
