package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	pgstore "timed-quiz-service/internal/infra/postgres"
	redisstore "timed-quiz-service/internal/infra/redis"
)

const defaultQuizID = "js-basics"

// backends holds the storage clients opened from config. Either may be nil.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

func settingsFromConfig(cfg config.Config) app.Settings {
	defaults := app.DefaultSettings()
	return app.Settings{
		Duration:     config.TTLDuration(cfg.Quiz.Duration, defaults.Duration),
		Penalty:      config.TTLDuration(cfg.Quiz.Penalty, defaults.Penalty),
		AdvanceDelay: config.TTLDuration(cfg.Quiz.AdvanceDelay, defaults.AdvanceDelay),
		TickInterval: config.TTLDuration(cfg.Quiz.Tick, defaults.TickInterval),
	}
}

func quizIDFromConfig(cfg config.Config) string {
	if cfg.Quiz.ID != "" {
		return cfg.Quiz.ID
	}
	return defaultQuizID
}

// quizLoader prefers Postgres, then the YAML quiz file, then built-in content.
func quizLoader(cfg config.Config, b *backends, log *zap.Logger) memory.QuizLoader {
	if b.pool != nil {
		log.Info("loading quizzes from postgres")
		return pgstore.NewQuizLoader(b.pool)
	}
	if cfg.Quiz.File != "" {
		if _, err := os.Stat(cfg.Quiz.File); err == nil {
			log.Info("loading quizzes from file", zap.String("path", cfg.Quiz.File))
			return file.NewQuizLoader(cfg.Quiz.File)
		}
		log.Warn("quiz file not found, using built-in content", zap.String("path", cfg.Quiz.File))
	}
	return memory.NewStaticQuizLoader(defaultQuizzes())
}

func highScoreRepository(cfg config.Config, b *backends) app.HighScoreRepository {
	switch {
	case b.pool != nil:
		return pgstore.NewHighScoreStore(b.pool)
	case b.redis != nil:
		key := cfg.HighScores.Key
		if key == "" {
			key = redisstore.DefaultHighScoreKey
		}
		return redisstore.NewHighScoreStore(b.redis, key)
	default:
		return memory.NewHighScoreStore()
	}
}

func newQuizService(cfg config.Config, b *backends, log *zap.Logger) *app.QuizService {
	loader := quizLoader(cfg, b, log)

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizzes app.QuizRepository
	var sessions app.SessionRepository
	if b.redis != nil {
		quizzes = redisstore.NewQuizRepository(b.redis, loader, quizTTL)
		sessions = redisstore.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		quizzes = memory.NewQuizRepository(loader, quizTTL)
		sessions = memory.NewSessionStore()
	}

	scores := app.NewHighScoreService(highScoreRepository(cfg, b), log.Named("highscores"))
	return app.NewQuizService(sessions, quizzes, scores, settingsFromConfig(cfg), log.Named("quiz"))
}
