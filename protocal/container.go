package protocal

import (
	"context"
	"fmt"
	"os"
	"time"

	"jobmatch-assistant/configs"
	"jobmatch-assistant/internal/adapters/output/file"
	"jobmatch-assistant/internal/adapters/output/gemini"
	"jobmatch-assistant/internal/adapters/output/intent"
	"jobmatch-assistant/internal/adapters/output/lmstudio"
	"jobmatch-assistant/internal/adapters/output/memory"
	"jobmatch-assistant/internal/adapters/output/postgres"
	redisStore "jobmatch-assistant/internal/adapters/output/redis"
	"jobmatch-assistant/internal/application"
	"jobmatch-assistant/internal/ports/output"
	"jobmatch-assistant/pkg/database_driver/gorm"

	"github.com/sirupsen/logrus"
)

// Container holds the application services built from one config
type Container struct {
	Store    output.PreferenceStore
	Turns    *application.TurnService
	Matches  *application.JobMatchService
	Sessions *application.SessionService

	closers []func()
}

// SetupLogging applies the logging section of the config to logrus
func SetupLogging(cfg configs.App) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Build wires stores, catalog and intent parsing into the turn, match and session services
func Build(ctx context.Context, cfg *configs.Config) (*Container, error) {
	c := &Container{}

	store, err := c.newPreferenceStore(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	catalog, err := c.newJobCatalog(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	parser, err := newIntentParser(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	matcher := application.NewMatchingEngine()
	c.Turns = application.NewTurnService(
		parser,
		store,
		catalog,
		application.NewClarificationEngine(cfg.Clarify.Questions),
		matcher,
		application.TurnConfig{
			TopN:         cfg.Matching.TopN,
			PreviewSize:  cfg.Matching.PreviewSize,
			MaxQuestions: cfg.Matching.MaxQuestions,
		},
	)
	c.Matches = application.NewJobMatchService(catalog, matcher)
	c.Sessions = application.NewSessionService(store)

	return c, nil
}

// Close releases connections in reverse order of creation
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) newPreferenceStore(ctx context.Context, cfg *configs.Config) (output.PreferenceStore, error) {
	ttl := time.Duration(cfg.Session.TTL) * time.Second

	switch cfg.Session.Backend {
	case "", "memory":
		logrus.Infof("Using in-memory session store, ttl %v", ttl)
		return memory.NewPreferenceStore(ttl), nil
	case "redis":
		client, err := redisStore.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() {
			if err := client.Close(); err != nil {
				logrus.Errorf("Failed to close redis client: %v", err)
			}
		})
		logrus.Infof("Using redis session store, ttl %v", ttl)
		return redisStore.NewPreferenceStore(client, ttl, redisStore.WithKeyPrefix(cfg.Redis.KeyPrefix)), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func (c *Container) newJobCatalog(cfg *configs.Config) (output.JobCatalog, error) {
	switch cfg.Catalog.Backend {
	case "", "file":
		catalog, err := file.NewJobCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded job catalog from %s", cfg.Catalog.Path)
		return catalog, nil
	case "postgres":
		db, err := gorm.ConnectToPostgreSQL(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { gorm.DisconnectPostgres(db.Postgres) })
		return postgres.NewJobCatalog(db.Postgres), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend)
	}
}

// newIntentParser chains the configured model parser in front of the heuristic parser
func newIntentParser(ctx context.Context, cfg *configs.Config) (output.IntentParser, error) {
	timeout := time.Duration(cfg.Intent.Timeout) * time.Second
	heuristic := intent.NewHeuristicParser()

	switch cfg.Intent.Provider {
	case "", intent.HeuristicParserName:
		return intent.NewFallbackParser(timeout, heuristic), nil
	case "lmstudio":
		client, err := lmstudio.NewLMStudioClientAdapter(cfg.LMStudio)
		if err != nil {
			return nil, err
		}
		probeLMStudio(ctx, client)
		return intent.NewFallbackParser(timeout, intent.NewLLMParser("lmstudio", client), heuristic), nil
	case "gemini":
		generator, err := gemini.NewGenerator(ctx, cfg.Gemini)
		if err != nil {
			logrus.Warnf("Gemini unavailable, using heuristic intent parsing only: %v", err)
			return intent.NewFallbackParser(timeout, heuristic), nil
		}
		return intent.NewFallbackParser(timeout, intent.NewLLMParser("gemini", generator), heuristic), nil
	default:
		return nil, fmt.Errorf("unknown intent provider %q", cfg.Intent.Provider)
	}
}

// probeLMStudio logs the served models. An unreachable server is not fatal: turns fall back
// to the heuristic parser until it comes up.
func probeLMStudio(ctx context.Context, client output.LMStudioClient) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		logrus.Warnf("LM Studio not reachable at start-up: %v", err)
		return
	}
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	logrus.WithField("models", ids).Info("LM Studio models available")
}

// ImportCatalog loads a JSON catalog file and replaces the postgres jobs table with it
func ImportCatalog(ctx context.Context, cfg *configs.Config, path string) (int, error) {
	jobs, err := file.LoadJobs(path)
	if err != nil {
		return 0, err
	}

	db, err := gorm.ConnectToPostgreSQL(cfg.Postgres)
	if err != nil {
		return 0, err
	}
	defer gorm.DisconnectPostgres(db.Postgres)

	catalog := postgres.NewJobCatalog(db.Postgres)
	if err := catalog.Migrate(); err != nil {
		return 0, err
	}
	if err := catalog.ReplaceAll(ctx, jobs); err != nil {
		return 0, err
	}
	return len(jobs), nil
}
