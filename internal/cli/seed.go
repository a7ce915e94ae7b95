package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/logger"
)

// NewSeedCmd recreates the development quiz in the configured store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the fixture lesson's quiz with the sample quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, *configPath)
		},
	}
}

func runSeed(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()
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

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	quiz, err := app.NewQuizService(b.quizzes, b.writer, log).ResetFixture(ctx)
	if err != nil {
		return err
	}
	log.Info("fixture quiz created", zap.String("quizId", quiz.ID), zap.String("lessonId", quiz.LessonID))
	fmt.Fprintf(cmd.OutOrStdout(), "created quiz %s for lesson %s\n", quiz.ID, quiz.LessonID)
	return nil
}
