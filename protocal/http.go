package protocal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jobmatch-assistant/configs"
	httpAdapter "jobmatch-assistant/internal/adapters/input/http"
	lineAdapter "jobmatch-assistant/internal/adapters/output/line"
	"jobmatch-assistant/internal/application"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewApp builds the fiber app with every route registered
func NewApp(container *Container, cfg *configs.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "jobmatch-assistant",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	// Input adapter (HTTP handler)
	hdl := httpAdapter.New(container.Turns, container.Matches, container.Sessions, cfg.Matching.TopN)

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/v1/api")
	{
		api.Post("/chat", hdl.Chat)
		api.Post("/jobs/match", hdl.MatchJobs)
		api.Get("/sessions/:id", hdl.GetSession)
		api.Delete("/sessions/:id", hdl.DeleteSession)
	}

	if cfg.Line.Enabled {
		// Output adapter (LINE client)
		lineClient, err := lineAdapter.NewLineClientAdapter(cfg.Line.ChannelToken)
		if err != nil {
			return nil, err
		}
		// Application service (LINE webhook use case)
		lineWebhookSrv := application.NewLineWebhookService(lineClient, container.Turns, container.Sessions)
		// Input adapter (LINE webhook handler)
		lineWebhookHdl := httpAdapter.NewLineWebhookHandler(lineWebhookSrv, cfg.Line.ChannelSecret)

		webhook := app.Group("/webhook")
		{
			webhook.Post("/line", lineWebhookHdl.HandleWebhook)
		}
		logrus.Info("LINE webhook enabled at /webhook/line")
	}

	return app, nil
}

// ServeHTTP func - loads config, wires the services and serves until interrupted
func ServeHTTP(configPath, env string) error {
	if err := configs.InitViper(configPath, env); err != nil {
		return err
	}
	cfg := configs.GetViper()
	SetupLogging(cfg.App)
	logrus.Infof("Starting in %s environment", cfg.App.Env)

	ctx := context.Background()
	container, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	app, err := NewApp(container, cfg)
	if err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logrus.Info("Graceful shut down ...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("Error when shutdown server: %v", err)
		}
	}()

	logrus.Infof("Listening on port: %s", cfg.App.Port)
	return app.Listen(":" + cfg.App.Port)
}
