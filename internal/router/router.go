package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/rollcall-go-api/internal/config"
	"github.com/noah-isme/rollcall-go-api/internal/handler"
	"github.com/noah-isme/rollcall-go-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	PromotionHandler  *handler.PromotionHandler
	StudentHandler    *handler.StudentHandler
	SubjectHandler    *handler.SubjectHandler
	AttendanceHandler *handler.AttendanceHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Roster management (students & subjects)
	if deps.StudentHandler != nil {
		roster := app.Group("/api/v1/roster", jwtMiddleware)
		deps.StudentHandler.Register(roster)

		if deps.SubjectHandler != nil {
			deps.SubjectHandler.Register(roster)
		}
	}

	// Attendance & absentee notifications
	if deps.AttendanceHandler != nil {
		attendance := app.Group("/api/v1/roster", jwtMiddleware, middleware.RequireRoles("admin", "staff", "teacher"))
		deps.AttendanceHandler.Register(attendance)
	}

	// Semester promotion is restricted to office staff
	if deps.PromotionHandler != nil {
		promotion := app.Group("/api/v1/promotion", jwtMiddleware, middleware.RequireRoles("admin", "staff"))
		deps.PromotionHandler.Register(promotion)
	}
}
