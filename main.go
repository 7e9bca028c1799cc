package main

import (
	"github.com/apazos/monopoly-ledger/app/controllers"
	"github.com/apazos/monopoly-ledger/pkg/routes"
	"github.com/apazos/monopoly-ledger/platform/logging"
	socket "github.com/apazos/monopoly-ledger/platform/sockets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
)

func main() {
	logging.Init()

	app := fiber.New()

	app.Use(cors.New())
	routes.AuthRoutes(app)
	routes.SessionRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: controllers.JWTSecret(),
	}))

	app.Get("/user/cur", controllers.Cur)
	go socket.CreateSocketIOServer()
	app.Listen(":4101")
}
