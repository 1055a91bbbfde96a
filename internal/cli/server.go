package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learning-challenge-service/internal/app"
	"learning-challenge-service/internal/config"
	"learning-challenge-service/internal/curriculum"
	"learning-challenge-service/internal/domain"
	"learning-challenge-service/internal/engine"
	"learning-challenge-service/internal/infra/memory"
	pgstore "learning-challenge-service/internal/infra/postgres"
	redisstore "learning-challenge-service/internal/infra/redis"
	"learning-challenge-service/internal/questionbank"
	"learning-challenge-service/internal/scheduler"
	transport "learning-challenge-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the learning-challenge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	pendingTTL := config.TTLDuration(cfg.Redis.PendingTTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var progress app.ProgressStore = memory.NewProgressStore()
	if pool != nil {
		progress = pgstore.NewProgressStore(pool)
	}

	var pending app.PendingQuizStore = memory.NewPendingQuizStore(pendingTTL)
	if redisClient != nil {
		pending = redisstore.NewPendingQuizStore(redisClient, pendingTTL)
	}

	var generator questionbank.Generator
	if cfg.OpenAI.APIKey != "" {
		generator, err = questionbank.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			return err
		}
		logger.Info("using OpenAI question generation", zap.String("model", cfg.OpenAI.Model))
	} else {
		generator = questionbank.NewStaticBank(sampleQuestions())
		logger.Warn("no OpenAI key configured, serving the built-in sample bank")
	}
	cacheTTL := config.TTLDuration(cfg.Course.CacheTTL, 24*time.Hour)
	generator = questionbank.NewCachedGenerator(generator, cacheTTL)

	course := curriculum.New(courseID(cfg), courseTopics(cfg), cfg.Course.Length)
	service := app.NewCourseService(progress, pending, generator, course, engine.New(), cfg.Course.QuizSize, logger)

	hub := transport.NewHub()
	wsHandler := transport.NewWSHandler(service, hub, logger)

	reminders := scheduler.New(progress, hub, course.ID, cfg.Reminder.Cron, logger)
	schedCtx, stopSched := context.WithCancel(ctx)
	defer stopSched()
	go func() {
		if err := reminders.Start(schedCtx); err != nil {
			logger.Error("reminder scheduler failed", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting challenge service", zap.String("port", finalPort), zap.String("course", course.ID))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func courseID(cfg config.Config) string {
	if cfg.Course.ID != "" {
		return cfg.Course.ID
	}
	return "go-in-30-days"
}

func courseTopics(cfg config.Config) []string {
	if len(cfg.Course.Topics) > 0 {
		return cfg.Course.Topics
	}
	return []string{"syntax", "types", "control flow", "functions", "collections", "interfaces", "errors", "concurrency", "testing", "tooling"}
}

// sampleQuestions provides a minimal offline bank; production deployments
// configure the OpenAI generator instead.
func sampleQuestions() map[string][]domain.Question {
	return map[string][]domain.Question{
		"syntax": {
			{
				ID:   "syntax-var",
				Text: "Which keyword declares a package-level variable?",
				Options: map[string]string{
					"A": "var", "B": "let", "C": "dim", "D": "def",
				},
				CorrectKey:  "A",
				Explanation: "Go declares variables with var (or := inside functions).",
				Topic:       "syntax",
				Difficulty:  domain.DifficultyBeginner,
			},
			{
				ID:   "syntax-import",
				Text: "How are multiple imports usually grouped?",
				Options: map[string]string{
					"A": "one import per line, no parentheses",
					"B": "a single import block with parentheses",
					"C": "a comma-separated list",
					"D": "imports are implicit",
				},
				CorrectKey:  "B",
				Explanation: "Idiomatic Go uses a parenthesized import block.",
				Topic:       "syntax",
				Difficulty:  domain.DifficultyBeginner,
			},
		},
	}
}
