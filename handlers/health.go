package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sri-maddineni/college-shortlister/database"
)

// HandleCheckHealth answers /ping. A store that cannot be reached is reported as
// an error.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
