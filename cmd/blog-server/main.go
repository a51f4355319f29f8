package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	"github.com/information-sharing-networks/blog-demo/internal/server"
	"github.com/information-sharing-networks/blog-demo/internal/store"
	"github.com/information-sharing-networks/blog-demo/internal/version"
	"github.com/spf13/cobra"
)

//	@title			blog-server
//	@description	blog-server exposes a CRUD API for blog posts backed by a document store
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Errors are returned as an ErrorResponse JSON object.
//	@description
//	@description	## Request Limits
//	@description	- **Rate limiting**: requests per second per client ip (RATE_LIMIT_RPS, default 100, 0 disables)
//	@description	- **Request size limits**: MAX_REQUEST_BODY_BYTES, default 1MB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@license.name	MIT

//	@servers.url			http://localhost:8080
//	@servers.description	Development server

//	@accept		json
//	@produce	json

//	@tag.name			Posts
//	@tag.description	Blog post resource

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version, docs)

func main() {
	cmd := &cobra.Command{
		Use:   "blog-server",
		Short: "Blog post API server",
		Long:  `blog-server serves the /posts CRUD API backed by postgres, mongodb or sqlite (selected by DATABASE_URL)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("DATABASE_URL", config.RedactURL(cfg.DatabaseURL)),
		slog.String("DATABASE_NAME", cfg.DatabaseName),
		slog.Bool("AUTO_MIGRATE", cfg.AutoMigrate),
		slog.Int("RATE_LIMIT_RPS", int(cfg.RateLimitRPS)),
		slog.Int64("MAX_REQUEST_BODY_BYTES", cfg.MaxRequestBodyBytes),
	)

	dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DatabasePingTimeout)
	defer dbCancel()

	postStore, err := store.Open(dbCtx, store.Options{
		URL:             cfg.DatabaseURL,
		DatabaseName:    cfg.DatabaseName,
		AutoMigrate:     cfg.AutoMigrate,
		MaxConnections:  cfg.DBMaxConnections,
		MinConnections:  cfg.DBMinConnections,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		ConnectTimeout:  cfg.DBConnectTimeout,
		Logger:          appLogger,
	})
	if err != nil {
		appLogger.Error("Unable to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("connected to database", slog.String("backend", postStore.Backend()))
	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(postStore, cfg, appLogger)
	defer srv.DatabaseShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
