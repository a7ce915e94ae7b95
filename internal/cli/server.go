package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/config"
	"lesson-quiz-service/internal/identity"
	"lesson-quiz-service/internal/logger"
	"lesson-quiz-service/internal/metrics"
	transport "lesson-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File, cfg.Server.Mode == "debug")
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Mongo.URI == "" && cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := listenPort(portFlag, cfg)

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	feed := app.NewResultFeed()
	resultOpts := []app.ResultOption{
		app.WithFeed(feed),
		app.WithLimit(cfg.Results.Limit),
		app.WithLogger(log),
	}
	if cfg.Results.VerifyScore {
		resultOpts = append(resultOpts, app.WithScoreVerification(b.quizzes))
	}
	quizService := app.NewQuizService(b.quizzes, b.writer, log)
	resultService := app.NewResultService(b.results, resultOpts...)

	handler := transport.NewHandler(quizService, resultService, feed, metrics.New(), log)
	router := transport.NewRouter(handler, transport.RouterOptions{
		Identity:       identity.NewResolver(cfg.Auth.DefaultUserID, cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: config.TTLDuration(cfg.Server.RequestTimeout, 30*time.Second),
		Fixtures:       cfg.Fixtures.Enabled,
	})
	if cfg.Fixtures.Enabled {
		log.Warn("fixture endpoint enabled", zap.String("path", "/api/test-quiz"))
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// listenPort prefers the flag (or PORT), then server.port, then 8080.
func listenPort(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Server.Port != "" {
		return cfg.Server.Port
	}
	return "8080"
}
