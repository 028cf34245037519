package server

import (
	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	utangHandler *handlers.UtangHandler,
	creditCardHandler *handlers.CreditCardHandler,
	paymentHandler *handlers.PaymentHandler,
	dashboardHandler *handlers.DashboardHandler,
	profileHandler *handlers.ProfileHandler,
	exportHandler *handlers.ExportHandler,
	resetHandler *handlers.ResetHandler,
	notificationHandler *handlers.NotificationHandler,
	rateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1", rateLimiter)

	utangs := api.Group("/utangs")
	utangs.GET("", utangHandler.List)
	utangs.GET("/grouped", utangHandler.Grouped)
	utangs.POST("", utangHandler.Create)
	utangs.PUT("/:id", utangHandler.Update)
	utangs.DELETE("", utangHandler.Delete)

	api.GET("/credit-cards", creditCardHandler.List)

	payments := api.Group("/payments")
	payments.GET("", paymentHandler.History)
	payments.POST("/preview", paymentHandler.Preview)
	payments.POST("/confirm", paymentHandler.Confirm)
	payments.DELETE("/:id", paymentHandler.DeleteHistory)

	api.GET("/dashboard", dashboardHandler.Overview)

	api.GET("/profile", profileHandler.Get)
	api.PUT("/profile", profileHandler.Save)

	export := api.Group("/export")
	export.GET("/json", exportHandler.ExportJSON)
	export.GET("/csv", exportHandler.ExportCSV)

	reset := api.Group("/reset")
	reset.POST("/request", resetHandler.Request)
	reset.POST("/confirm", resetHandler.Confirm)

	events := api.Group("/events")
	events.GET("/stream", notificationHandler.Stream)
}
