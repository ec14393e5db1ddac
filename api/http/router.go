package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biat-it/testmanager/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
// Fiber's non-strict routing also serves the trailing-slash spellings
// (POST /login/, GET /me/) used by the web client.
func Register(app *fiber.App, auth *handlers.AuthHandler, accounts *handlers.AccountHandler, health *handlers.HealthHandler, authMW, adminMW fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/login", auth.Login)
	a.Post("/refresh", auth.Refresh)
	a.Get("/me", authMW, auth.Me)

	// Account management, ADMIN only
	acc := v1.Group("/accounts", authMW, adminMW)
	acc.Post("/", accounts.Create)
	acc.Get("/", accounts.List)
	acc.Get("/:matricule", accounts.Get)
	acc.Patch("/:matricule", accounts.Update)
}
