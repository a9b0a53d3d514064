package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"relation-manager/core/loader"
	"relation-manager/core/logger"
	"relation-manager/core/middleware/auth"
	"relation-manager/core/middleware/rayid"
	"relation-manager/core/storage"
	"relation-manager/feature/integrity"
	"relation-manager/feature/links"
	"relation-manager/feature/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "relation-manager/docs/swagger"
)

// @title Relation Manager API
// @version 1.0
// @description API for synchronizing many-to-many relation tables.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the relation manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration and Logger
		a, err := loadApp()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Connect to Database and declare relations
		if err := a.connect(); err != nil {
			logg.Fatal("Failed to initialize relations", zap.Error(err))
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           a.cfg.Server.ReadTimeout(),
		})

		// 4. Initialize Storage (snapshots only)
		var store storage.Client
		if a.cfg.Storage.Enabled {
			store, err = storage.NewClient(a.cfg.Storage)
			if err != nil {
				logg.Warn("Storage client unavailable, snapshots disabled", zap.Error(err))
			}
		} else {
			logg.Info("Snapshot storage disabled by configuration")
		}

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(links.NewFeature(a.registry, logg))
		mgr.Register(integrity.NewFeature(store, a.cfg.Storage.Bucket, logg, a.db, a.registry))
		mgr.Register(snapshot.NewFeature(store, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.registry, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		if a.cfg.Server.IsProtected() {
			app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))
		} else {
			logg.Warn("No API key configured, the API is unprotected")
		}

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
