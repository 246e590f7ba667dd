package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-manager/core/loader"
	"inventory-manager/core/logger"
	"inventory-manager/core/middleware/auth"
	"inventory-manager/core/middleware/rayid"

	"inventory-manager/feature/integrity"
	"inventory-manager/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "inventory-manager/docs/swagger"
)

// @title Inventory Manager API
// @version 1.0
// @description Inventory cache and transfer engine over networked containers.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the inventory manager server",
	Long:  `Loads the inventory cache, scans the network and starts the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Load configuration, logger, store and network
		rt, err := bootstrap(ctx)
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		logg := rt.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Warm the cache
		if _, err := rt.cache.ScanAll(ctx, true); err != nil {
			logg.Warn("Initial scan failed, serving persisted cache", zap.Error(err))
		}

		// 3. Build the HTTP app
		app, err := newApp(rt)
		if err != nil {
			return err
		}

		// 4. Serve until a signal arrives
		errc := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Addr()))
			errc <- app.Listen(rt.cfg.Server.Addr())
		}()

		select {
		case err := <-errc:
			return fmt.Errorf("server stopped: %w", err)
		case <-ctx.Done():
		}

		// 5. Graceful shutdown
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(rt.cfg.Server.ShutdownTimeout()); err != nil {
			logg.Warn("Shutdown incomplete", zap.Error(err))
		}

		// A client may have left batch mode open; close it so the final state is indexed.
		for rt.cache.InBatch() {
			rt.cache.EndBatch()
		}
		return nil
	},
}

// newApp wires middleware and features onto a fresh Fiber app.
// Swagger and metrics stay public; every feature route sits behind the API key.
func newApp(rt *runtime) (*fiber.App, error) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	mgr := loader.NewManager(rt.log)
	mgr.Register(inventory.NewFeature(rt.cache, rt.allocator, rt.log))
	mgr.Register(integrity.NewFeature(rt.cache, rt.db, rt.cfg.Store.Table, rt.log))

	// RayID goes first so every log line below can carry it
	app.Use(rayid.New())
	app.Use(requestLogger(rt.log))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", rt.metrics.Handler())

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		l := logger.WithRayID(log, c)
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			l.Error("Request failed", append(fields, zap.Error(err))...)
			return err
		}
		l.Debug("Request served", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
