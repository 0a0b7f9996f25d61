package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	pgstore "timed-quiz-service/internal/infra/postgres"
	pgmigrations "timed-quiz-service/internal/infra/postgres/migrations"
	infraredis "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/quiz"
)

func TestPlaythroughEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewQuizLoader(pool)
	if err := loader.SaveQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	quizRepo := infraredis.NewQuizRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	scores := app.NewHighScoreService(pgstore.NewHighScoreStore(pool), nil)
	settings := app.DefaultSettings()
	settings.AdvanceDelay = 10 * time.Millisecond
	service := app.NewQuizService(sessionStore, quizRepo, scores, settings, nil)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	view := newRecordingView()
	sessionID, controller, err := service.Open(runCtx, "quiz-1", view)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := controller.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < len(sampleQuiz().Questions); i++ {
		q := <-view.questions
		if err := controller.Click(controlShowing(t, q, "4")); err != nil {
			t.Fatalf("click: %v", err)
		}
	}
	finish := <-view.finishes
	if finish.Score != 2 || finish.Status != domain.FinishCompleted {
		t.Fatalf("expected score 2 completed, got %+v", finish)
	}

	snap, err := service.Snapshot(ctx, sessionID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Screen != domain.ScreenFinish {
		t.Fatalf("expected finish screen, got %s", snap.Screen)
	}

	if err := controller.SubmitScore("AB"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	records := <-view.highScores
	want := domain.HighScore{Author: "AB", Score: 2, Status: domain.FinishCompleted}
	if len(records) != 1 || records[0] != want {
		t.Fatalf("expected %+v, got %+v", want, records)
	}
}

func TestRedisHighScoresEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()
	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	if err := client.Set(ctx, "unrelated", "keep", 0).Err(); err != nil {
		t.Fatalf("seed unrelated key: %v", err)
	}
	service := app.NewHighScoreService(infraredis.NewHighScoreStore(client, infraredis.DefaultHighScoreKey), nil)
	for _, initials := range []string{"LO", "HI"} {
		if _, _, err := service.Submit(ctx, initials, len(initials), domain.FinishTimedOut); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if records := service.List(ctx); len(records) != 2 || records[0].Author != "LO" {
		t.Fatalf("expected insertion order, got %+v", records)
	}

	if err := service.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if records := service.List(ctx); len(records) != 0 {
		t.Fatalf("expected empty list, got %+v", records)
	}
	if v, err := client.Get(ctx, "unrelated").Result(); err != nil || v != "keep" {
		t.Fatalf("clear touched other keys: %q %v", v, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{ID: "q1", Prompt: "What is 2 + 2?", Answer: "4", Distractors: []string{"3", "5"}},
			{ID: "q2", Prompt: "What is 8 / 2?", Answer: "4", Distractors: []string{"2", "16"}},
		},
	}
}

func controlShowing(t *testing.T, q app.QuestionView, text string) quiz.ControlID {
	t.Helper()
	for _, c := range q.Controls {
		if c.Text == text {
			return c.ID
		}
	}
	t.Fatalf("no control shows %q", text)
	return ""
}

// recordingView forwards the events the tests wait on and drops the rest.
type recordingView struct {
	questions  chan app.QuestionView
	finishes   chan app.FinishView
	highScores chan []domain.HighScore
}

func newRecordingView() *recordingView {
	return &recordingView{
		questions:  make(chan app.QuestionView, 16),
		finishes:   make(chan app.FinishView, 4),
		highScores: make(chan []domain.HighScore, 4),
	}
}

func (v *recordingView) ShowScreen(domain.Screen)                  {}
func (v *recordingView) SetInfoBar(bool)                           {}
func (v *recordingView) ClearQuestion()                            {}
func (v *recordingView) ShowQuestion(q app.QuestionView)           { v.questions <- q }
func (v *recordingView) ShowFeedback(app.Feedback)                 {}
func (v *recordingView) ShowTimer(time.Duration)                   {}
func (v *recordingView) ShowFinish(f app.FinishView)               { v.finishes <- f }
func (v *recordingView) ShowHighScores(records []domain.HighScore) { v.highScores <- records }

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
