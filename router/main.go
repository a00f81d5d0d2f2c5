package router

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sri-maddineni/college-shortlister/database"
	"github.com/sri-maddineni/college-shortlister/handlers"
	export_handlers "github.com/sri-maddineni/college-shortlister/handlers/export"
	record_handlers "github.com/sri-maddineni/college-shortlister/handlers/record"
	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/cron"
	"github.com/sri-maddineni/college-shortlister/utils"
	"github.com/sri-maddineni/college-shortlister/utils/middleware"
)

// Dependencies are the services the routes are served from
type Dependencies struct {
	Records        *services.RecordService
	Exports        *services.ExportService
	Cron           *cron.CronManager
	AllowedOrigins string
	LogOutput      io.Writer
}

func SetupRoutes(app *fiber.App, store database.Storage, deps Dependencies) {
	recordHandler := record_handlers.NewRecordHandler(deps.Records)
	exportHandler := export_handlers.NewExportHandler(deps.Exports)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.AllowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
		LogOutput:         deps.LogOutput,
	})

	// Health check endpoint
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Records routes
	records := api.Group("/records")
	records.Get("/", recordHandler.ListRecords)            // List records matching the query filters
	records.Post("/", recordHandler.CreateRecord)          // Create record
	records.Post("/import", recordHandler.ImportRecords)   // Append a pasted JSON array
	records.Post("/import/pdf", recordHandler.ImportPDF)   // Append the records of a PDF export
	records.Get("/courses", recordHandler.ListCourses)     // Distinct course names
	records.Get("/deadlines", recordHandler.ListDeadlines) // Upcoming and overdue deadlines
	records.Get("/:id", recordHandler.GetRecord)           // Get record by ID
	records.Put("/:id", recordHandler.UpdateRecord)        // Replace record
	records.Delete("/:id", recordHandler.DeleteRecord)     // Delete record

	// Export routes
	exports := api.Group("/exports")
	exports.Get("/:format", exportHandler.DownloadExport)     // Download pdf, docx, json or bundle
	exports.Post("/:format/share", exportHandler.ShareExport) // Publish to object storage

	// Scheduled jobs
	api.Get("/jobs", handlers.HandleJobRuns(deps.Cron))
}
