package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sri-maddineni/college-shortlister/services/cron"
	"github.com/sri-maddineni/college-shortlister/utils/response"
)

// HandleJobRuns reports the latest run of each scheduled job. manager may be nil
// when scheduling is disabled.
func HandleJobRuns(manager *cron.CronManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if manager == nil {
			return response.SuccessWithMessage(c, "Scheduled jobs are disabled", []cron.JobRun{})
		}
		return response.Success(c, manager.LastRuns())
	}
}
