package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	globalConfig "ytmcp/config"
	"ytmcp/ui/rest"
	"ytmcp/ui/rest/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Start the YouTube MCP server over HTTP",
	Long: `Start the HTTP transport: MCP endpoints under /mcp, signed file
serving under /files, and the health probe at /health.`,
	Run: restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := globalConfig.Global

	healthUsecase.SetMode("http")

	app := fiber.New(fiber.Config{
		AppName:      "YouTube MCP Server",
		Network:      "tcp",
		ServerHeader: "Hidden",
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	sessions := rest.NewSessionStore()
	healthUsecase.SetSessionCounter(sessions.Count)

	rest.InitRestMCP(app, dispatcher, sessions, cfg.Security.MCPAPIKey)
	rest.InitRestFiles(app, tokenService)
	rest.InitRestHealth(app, healthUsecase)
	rest.InitRestCache(app, cacheUsecase)

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logrus.Fatalf("[HTTP] Server stopped: %v", err)
		}
	}()
	logrus.Infof("[HTTP] Listening on port %s (base URL %s)", cfg.App.Port, cfg.App.BaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("[HTTP] Shutting down...")
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("[HTTP] Shutdown error: %v", err)
	}
}
