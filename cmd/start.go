package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"biblib/core/loader"
	"biblib/core/logger"
	"biblib/core/middleware/auth"
	"biblib/core/middleware/rayid"
	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/journal"
	"biblib/feature/library"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "biblib/docs/swagger"
)

// @title biblib report API
// @version 1.0
// @description Read-only reports over a bibliography workspace.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the report server",
	Long:  `Starts the HTTP server exposing read-only consistency, label and entry reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger.With(zap.String("workspace", a.paths.Root))

		web := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		cache := reconcile.NewCache[*workspace.Snapshot](a.cfg.Server.CacheTTL())

		mgr := loader.NewManager(logg)
		mgr.Register(library.NewFeature(a.paths, cache, a.metrics, logg))
		mgr.Register(journal.NewFeature(a.store, logg))

		// RayID must be first to trace everything
		web.Use(rayid.New())

		web.Use(func(c *fiber.Ctx) error {
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
		web.Use(a.metrics.Middleware())

		// Public
		web.Get("/swagger/*", swagger.HandlerDefault)
		web.Get("/metrics", a.metrics.Handler())

		web.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(web); err != nil {
			return err
		}

		errc := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errc <- web.Listen(":" + a.cfg.Server.Port)
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
		defer cancel()
		return web.ShutdownWithContext(shutdownCtx)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
