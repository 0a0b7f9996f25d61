package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/file"
	pgstore "timed-quiz-service/internal/infra/postgres"
	pgmigrations "timed-quiz-service/internal/infra/postgres/migrations"
	"timed-quiz-service/internal/logger"
)

// NewMigrateCmd applies database migrations and optionally seeds quiz content.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runMigrations(ctx, *configPath, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert quizzes from the quiz file (or built-in content) after migrating")
	return cmd
}

func runMigrations(ctx context.Context, configPath string, seed bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	return seedQuizzes(ctx, cfg, log)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info("no new migrations")
		return nil
	}
	log.Info("migrations applied", zap.String("group", group.String()))
	return nil
}

func seedQuizzes(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	quizzes, err := seedContent(cfg)
	if err != nil {
		return err
	}
	loader := pgstore.NewQuizLoader(b.pool)
	for _, quiz := range quizzes {
		if err := loader.SaveQuiz(ctx, quiz); err != nil {
			return fmt.Errorf("seed quiz %s: %w", quiz.ID, err)
		}
		log.Info("seeded quiz", zap.String("quiz_id", quiz.ID), zap.Int("questions", len(quiz.Questions)))
	}
	return nil
}

func seedContent(cfg config.Config) ([]domain.Quiz, error) {
	if cfg.Quiz.File != "" {
		if _, err := os.Stat(cfg.Quiz.File); err == nil {
			return file.NewQuizLoader(cfg.Quiz.File).LoadAll()
		}
	}
	builtIn := defaultQuizzes()
	quizzes := make([]domain.Quiz, 0, len(builtIn))
	for _, quiz := range builtIn {
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}
