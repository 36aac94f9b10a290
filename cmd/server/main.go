package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"xrayserver/cmd/migration/seed"
	"xrayserver/internal/app"
	"xrayserver/internal/handlers"
	"xrayserver/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to create app", err)
		os.Exit(1)
	}
	defer application.Close()

	if application.Config.Environment == "development" {
		if err := seed.Seed(context.Background(), application.UserRepo, application.Config, log); err != nil {
			log.Er("failed to seed development data", err)
		}
	}

	server := fiber.New(fiber.Config{
		AppName: "xrayserver",
	})
	server.Use(recover.New())
	server.Use(cors.New())

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		address := fmt.Sprintf(":%d", application.Config.Port)
		log.Info("Starting server", "address", address)
		if err := server.Listen(address); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := server.Shutdown(); err != nil {
		log.Er("failed to shut down server", err)
	}
}
