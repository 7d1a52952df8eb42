package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"schema-sync/core/logger"
	"schema-sync/core/middleware/auth"
	"schema-sync/core/middleware/rayid"
	"schema-sync/core/reconcile"
	"schema-sync/feature/catalog/models"
	"schema-sync/feature/schemasync"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the schema sync HTTP server",
	Long: `Runs the start-up reconciliation pass and then serves the schema status
and sync API. The server refuses to start while error-severity drift
remains, so traffic is never accepted against an inconsistent schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, db, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		engine := reconcile.NewService(db, models.All(), logg)

		// The reconciler must complete before anything else queries the
		// shared connection.
		if cfg.Sync.SkipStartup {
			logg.Warn("Start-up schema reconciliation skipped by configuration")
		} else {
			result, err := engine.Sync(cmd.Context(), reconcile.Options{AutoFix: cfg.Sync.AutoFix})
			if err != nil {
				return fmt.Errorf("start-up schema sync failed: %w", err)
			}
			if !result.Success {
				return fmt.Errorf("schema drift unresolved after start-up sync (%d differences)", result.DifferencesFound)
			}
			logg.Info("Start-up schema sync completed",
				zap.Int("differences_found", result.DifferencesFound),
				zap.Int("differences_resolved", result.DifferencesResolved),
			)
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// RayID first so every request is traceable.
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

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		handler := schemasync.NewHandler(schemasync.NewService(engine, logg))
		handler.RegisterRoutes(app)

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
