package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cedisense/cedisense/internal/config"
	"github.com/cedisense/cedisense/internal/engine"
	"github.com/cedisense/cedisense/internal/llm"
	"github.com/cedisense/cedisense/internal/rules"
	"github.com/cedisense/cedisense/internal/storage"
	"github.com/cedisense/cedisense/internal/textcat"
	"github.com/spf13/viper"
)

// currentUser resolves the user every command operates on.
func currentUser() string {
	if user := viper.GetString("user"); user != "" {
		return user
	}
	return "default"
}

// initStorage initializes the expense store with proper path expansion and
// runs any pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// initEngine assembles the categorization chain from whatever stages are
// available: the trained text model if an artifact exists, the generative
// fallback if a provider is configured, and always the rule-based terminal
// stage. The returned cleanup releases stage resources.
func initEngine(logger *slog.Logger) (*engine.Service, func(), error) {
	var stages []engine.Stage
	cleanup := func() {}

	artifactPath := config.ModelArtifactPath(viper.GetString("model.dir"), textcat.ArtifactVersion)
	if classifier, err := textcat.Load(artifactPath, logger); err == nil {
		stages = append(stages, engine.Stage{
			Name:        "ml_primary",
			Categorizer: classifier,
			Threshold:   textcat.ConfidenceThreshold,
		})
	} else {
		logger.Debug("text model unavailable, skipping stage", "path", artifactPath, "error", err)
	}

	if cfg := llmConfig(); cfg.APIKey != "" {
		categorizer, err := llm.NewCategorizer(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create generative categorizer: %w", err)
		}
		stages = append(stages, engine.Stage{Name: "generative", Categorizer: categorizer})
		cleanup = categorizer.Close
	}

	table, err := ruleTable()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	stages = append(stages, engine.Stage{Name: "rule_based", Categorizer: rules.NewClassifier(table)})

	svc, err := engine.NewService(logger, stages...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// ruleTable loads the configured keyword table, falling back to the embedded
// default. A locale-specific table swaps in via rules.path without touching
// the classifier.
func ruleTable() (*rules.Table, error) {
	path := viper.GetString("rules.path")
	if path == "" {
		return rules.DefaultTable(), nil
	}

	table, err := rules.LoadTable(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load rule table %s: %w", path, err)
	}
	return table, nil
}

func llmConfig() llm.Config {
	apiKey := viper.GetString("llm.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "anthropic"
		if os.Getenv("ANTHROPIC_API_KEY") == "" && os.Getenv("OPENAI_API_KEY") != "" {
			provider = "openai"
		}
	}

	cfg := llm.Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    viper.GetString("llm.model"),
	}
	if timeout := viper.GetDuration("llm.timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}
	if ttl := viper.GetDuration("llm.cache_ttl"); ttl > 0 {
		cfg.CacheTTL = ttl
	}
	if limit := viper.GetInt("llm.rate_limit"); limit > 0 {
		cfg.RateLimit = limit
	}
	return cfg
}

// parseDay parses a YYYY-MM-DD flag value.
func parseDay(value, flag string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date format (use YYYY-MM-DD): %w", flag, err)
	}
	return parsed, nil
}
