package routes

import (
	"github.com/apazos/monopoly-ledger/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(a *fiber.App) {
	route := a.Group("/session")

	route.Post("/create", controllers.CreateSession)
	route.Get("/verify", controllers.VerifySession)
	route.Get("/all", controllers.GetAllAvailSessions)
	route.Get("/scale", controllers.ScaledValue)
}
