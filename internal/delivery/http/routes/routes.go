package routes

import (
	"jobscout/internal/delivery/http/handler"
	"jobscout/internal/delivery/http/middleware"
	"jobscout/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds the constructed handlers and wires them onto the app. The
// container builds everything; this package only decides paths and groups.
type Registry struct {
	Health          *handler.HealthHandler
	Auth            *handler.AuthHandler
	Profile         *handler.ProfileHandler
	Jobs            *handler.JobsHandler
	Recommendations *handler.RecommendationHandler
	SkillGaps       *handler.SkillGapHandler
	Applications    *handler.ApplicationHandler
	Feed            *ws.Handler

	AccessLog *middleware.AccessLogMiddleware
	Errors    *middleware.ErrorMiddleware
	Guard     *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Use(r.AccessLog.Middleware())
	app.Use(r.Errors.Middleware())

	r.Health.RegisterRoutes(app)

	if r.Feed != nil {
		app.Get("/ws/feed", r.Feed.HandleFeedWS)
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	r.Auth.RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("", r.Guard.Middleware())
	r.Profile.RegisterRoutes(protected)
	r.Jobs.RegisterRoutes(protected.Group("/jobs"))
	r.Recommendations.RegisterRoutes(protected.Group("/recommendations"))
	r.SkillGaps.RegisterRoutes(protected.Group("/skill-gaps"))
	r.Applications.RegisterRoutes(protected.Group("/applications"))
}
