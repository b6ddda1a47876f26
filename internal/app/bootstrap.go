package app

import (
	"fmt"
	"log"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/delivery/http/handler"
	"jobscout/internal/delivery/http/middleware"
	"jobscout/internal/delivery/http/routes"
	"jobscout/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New wires the HTTP surface onto an already built container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	reg := &routes.Registry{
		Health:          handler.NewHealthHandler(c.DB, c.Cache, c.Dispatcher.States),
		Auth:            handler.NewAuthHandler(c.AuthUC),
		Profile:         handler.NewProfileHandler(c.ProfileUC),
		Jobs:            handler.NewJobsHandler(c.JobUC),
		Recommendations: handler.NewRecommendationHandler(c.RecommendationUC),
		SkillGaps:       handler.NewSkillGapHandler(c.SkillGapUC),
		Applications:    handler.NewApplicationHandler(c.ApplicationUC),
		Feed:            ws.NewHandler(c.Hub, c.Tokens, c.Logger),

		AccessLog: middleware.NewAccessLogMiddleware(c.Logger),
		Errors:    middleware.NewErrorMiddleware(c.Logger),
		Guard:     middleware.NewAuthMiddleware(c.Tokens),
	}
	reg.Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, starts the websocket hub and returns the
// serving app with its cleanup.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	go c.Hub.Run()

	app := New(c)
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
