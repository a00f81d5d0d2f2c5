package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sri-maddineni/college-shortlister/api"
	"github.com/sri-maddineni/college-shortlister/config"
	"github.com/sri-maddineni/college-shortlister/database"
	"github.com/sri-maddineni/college-shortlister/router"
	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/cron"
	"github.com/sri-maddineni/college-shortlister/services/digitalocean"
	"github.com/sri-maddineni/college-shortlister/utils"
	"github.com/sri-maddineni/college-shortlister/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Logger
	logFile, err := utils.SetupLogger(getEnv.LOG_LEVEL, utils.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Initialize database connection
	store, err := database.Open(getEnv)
	if err != nil {
		if getEnv.DB_DRIVER != database.DriverSQLite {
			print("Check whether the Postgres is running or not\n")
			print("Or set DB_DRIVER=sqlite to use a local file\n")
		}
		return err
	}

	// Optional export cache
	var exportCache services.ExportCache
	if getEnv.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL, "shortlist:")
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Export caching will be disabled.", err)
		} else {
			defer redisCache.Close()
			exportCache = redisCache
		}
	}

	// Optional object storage for shared exports
	var uploader services.Uploader
	var snapshots cron.SnapshotStore
	spaces, err := digitalocean.NewSpacesClientFromEnv(getEnv)
	if err != nil {
		log.Warnf("Failed to create Spaces client: %v. Sharing will be disabled.", err)
	} else if spaces != nil {
		uploader = spaces
		snapshots = spaces
	}

	recordService := services.NewRecordService(store)
	exportService := services.NewExportService(recordService, services.ExportServiceConfig{
		Cache:    exportCache,
		CacheTTL: getEnv.EXPORT_CACHE_TTL,
		Uploader: uploader,
	})

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(recordService, exportService, snapshots)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf("%s:%d", getEnv.BIND_ADDR, getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, store, router.Dependencies{
		Records:        recordService,
		Exports:        exportService,
		Cron:           cronManager,
		AllowedOrigins: getEnv.ALLOWED_ORIGINS,
		LogOutput:      io.MultiWriter(os.Stdout, logFile),
	})

	// Shut down cleanly on Ctrl-C so deferred cleanup runs
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down server")
		if err := server.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	// Start the Server
	return server.Run()
}
