package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	pgloader "trivia-quiz-service/internal/infra/postgres"
	redisstore "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/infra/sqlite"
)

// stack holds everything built from config plus the cleanups to run on exit.
type stack struct {
	service *app.QuizService
	closers []func()
}

func (r *stack) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// buildStack wires storage, the catalog and the quiz service from cfg.
func buildStack(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*stack, error) {
	rt := &stack{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}

	loader, err := buildQuestionLoader(ctx, cfg, log, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if redisClient != nil {
		loader = redisstore.NewCatalogCache(redisClient, loader, config.TTLDuration(cfg.Quiz.CatalogTTL, 10*time.Minute))
	}

	catalog, err := app.LoadCatalog(ctx, loader)
	if err != nil {
		rt.Close()
		return nil, err
	}
	log.WithField("questions", catalog.Len()).Info("catalog loaded")

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0))
		log.WithField("addr", cfg.Redis.Addr).Info("using redis session store")
	} else {
		store = memory.NewSessionStore()
	}

	opts, err := quizOptions(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.service = app.NewQuizService(store, catalog, opts)
	return rt, nil
}

func buildQuestionLoader(ctx context.Context, cfg config.Config, log logrus.FieldLogger, rt *stack) (app.QuestionLoader, error) {
	switch {
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = store.Close() })
		existing, err := store.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if len(existing) == 0 {
			if err := store.Seed(ctx, domain.DefaultQuestions()); err != nil {
				return nil, err
			}
			log.WithField("path", cfg.SQLite.Path).Info("seeded sqlite catalog")
		}
		return store, nil
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		return pgloader.NewQuestionLoader(pool), nil
	default:
		return memory.NewDefaultQuestionLoader(), nil
	}
}

func quizOptions(cfg config.Config) (app.Options, error) {
	synonyms, err := domain.ParseSynonymMode(cfg.Quiz.Synonyms)
	if err != nil {
		return app.Options{}, err
	}
	reset, err := app.ParseResetPolicy(cfg.Quiz.ResetUnknown)
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{
		Synonyms:      synonyms,
		ResetUnknown:  reset,
		AdvanceOnView: cfg.Quiz.AdvanceOnView,
	}, nil
}
