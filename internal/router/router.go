// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/haxsilu/science-zone/internal/config"
	"github.com/haxsilu/science-zone/internal/handler"
	"github.com/haxsilu/science-zone/internal/middleware"
)

// Register wires every route of the service onto the provided Echo
// instance.  Route layout:
//
//	/healthz                         – unauthenticated health check
//	/v1/auth/*                       – login endpoints, no token required
//	/v1/exam/sessions                – list (any authenticated), create (admin)
//	/v1/exam/sessions/:id/layout     – grid + occupancy (any authenticated)
//	/v1/exam/book                    – seat claim (student, rate limited)
//	/v1/exam/my-booking              – own booking (student)
//	/v1/exam/bookings/:id            – seat removal (admin)
func Register(e *echo.Echo, a *handler.AuthHandler, s *handler.SessionHandler, b *handler.BookingHandler, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/login", a.Login)
	auth.POST("/student", a.StudentLogin)

	exam := e.Group("/v1/exam")
	exam.Use(middleware.JWTAuth(cfg.JWTSecret))

	// Read endpoints are shared: admins render the removal view and
	// students the selection view from the same occupancy payload.
	shared := exam.Group("", middleware.RequireRole("admin", "student"))
	shared.GET("/sessions", s.List)
	shared.GET("/sessions/:id/layout", b.SessionLayout)

	student := exam.Group("", middleware.RequireRole("student"))
	student.POST("/book", b.Claim, middleware.RateLimit(rlCfg, rdb))
	student.GET("/my-booking", b.MyBooking)

	admin := exam.Group("", middleware.RequireRole("admin"))
	admin.POST("/sessions", s.Create)
	admin.DELETE("/bookings/:id", b.Remove)
}
