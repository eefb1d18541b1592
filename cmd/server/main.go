package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/emporia/internal/config"
	"github.com/example/emporia/internal/database"
	"github.com/example/emporia/internal/events"
	"github.com/example/emporia/internal/routes"
	"github.com/example/emporia/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	gateway, err := services.NewBraintreeGateway(cfg.BraintreeEnv, cfg.BraintreeMerchant, cfg.BraintreePublicKey, cfg.BraintreePrivate)
	if err != nil {
		log.Fatalf("braintree gateway: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
		defer producer.Close()
	}

	app := fiber.New(fiber.Config{
		AppName: "Emporia Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
	}))

	routes.Register(app, db, cfg, gateway, producer)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
