package routes

import (
	"quizpractice/backend/config"
	"quizpractice/backend/controllers"
	"quizpractice/backend/middleware"
	"quizpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *utils.Logger) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Attempt routes
	attemptsController := controllers.NewAttemptsController(db, cfg, logger)
	attempts := app.Group("/api/attempts", authMiddleware)
	attempts.Post("/", attemptsController.CreateAttempt)
	attempts.Get("/", attemptsController.ListAttempts)
	// must stay ahead of /:id
	attempts.Get("/stats/summary", attemptsController.GetSummary)
	attempts.Get("/:id", attemptsController.GetAttempt)
}
