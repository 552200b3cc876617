package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zetruc/pulse/internal/api"
	"github.com/zetruc/pulse/internal/api/handler"
	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/service"
	"github.com/zetruc/pulse/internal/infrastructure/crypto"
	mongodb "github.com/zetruc/pulse/internal/infrastructure/db/mongo"
	redisdb "github.com/zetruc/pulse/internal/infrastructure/db/redis"
	"github.com/zetruc/pulse/internal/infrastructure/llm"
	"github.com/zetruc/pulse/internal/infrastructure/queue"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	box, err := crypto.NewKeyBox(cfg.EncryptionKey)
	if err != nil {
		return fmt.Errorf("ENCRYPTION_KEY_BASE64: %w", err)
	}

	st, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	if err := mongodb.EnsureIndexes(ctx, st.db); err != nil {
		return err
	}

	// --- Repositories and adapters ---
	users := mongodb.NewUserRepository(st.db)
	projects := mongodb.NewProjectRepository(st.db)
	domains := mongodb.NewDomainRepository(st.db)
	analyses := mongodb.NewAnalysisRepository(st.db)
	llmKeys := mongodb.NewLLMKeyRepository(st.db)

	clients := llm.NewRegistry(
		llm.NewOpenAIClient(cfg.LLM.OpenAIBaseURL, nil, log),
		llm.NewGeminiClient(cfg.LLM.GeminiModel, log),
	)

	// --- Services ---
	authService := service.NewAuthService(users, redisdb.NewSessionStore(st.redis), cfg.JWTSecret, cfg.SessionTTL, log)
	userService := service.NewUserService(users, log)
	projectService := service.NewProjectService(projects, domains, analyses, log)
	domainService := service.NewDomainService(projects, domains, log)
	keyService := service.NewLLMKeyService(llmKeys, box, log)
	suggestionService := service.NewSuggestionService(
		projects, keyService, clients,
		redisdb.NewJSONCache(st.redis, "pulse:"),
		service.SuggestionConfig{CacheTTL: cfg.Analysis.SuggestCache},
		log,
	)
	analysisService := service.NewAnalysisService(
		projects, domains, analyses, keyService, clients,
		redisdb.NewRunLock(st.redis),
		analysisConfig(),
		log,
	)
	statsService := service.NewStatsService(users, projects, domains, analyses, llmKeys)

	dispatcher := queue.NewDispatcher(cfg.Analysis.RefreshWorkers, analysisService, log)
	dispatcher.Start(ctx)
	refreshService := service.NewRefreshService(projects, dispatcher, log)

	e := api.NewRouter(api.Config{Log: log, Authn: authService}, api.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg.CookieSecure),
		Project:    handler.NewProjectHandler(projectService),
		Domain:     handler.NewDomainHandler(domainService),
		Suggestion: handler.NewSuggestionHandler(suggestionService),
		Analysis:   handler.NewAnalysisHandler(analysisService),
		User:       handler.NewUserHandler(userService),
		LLMKey:     handler.NewLLMKeyHandler(keyService),
		Admin:      handler.NewAdminHandler(statsService, refreshService),
		Health: handler.NewHealthHandler(
			handler.DependencyCheck{Name: "mongodb", Ping: func(ctx context.Context) error {
				return st.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			}},
			handler.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error {
				return st.redis.Ping(ctx).Err()
			}},
		),
	})

	return run(ctx, e)
}

// analysisConfig picks the report model for the configured provider.
func analysisConfig() service.AnalysisConfig {
	ac := service.AnalysisConfig{
		Provider: domain.Provider(cfg.LLM.Provider),
		Model:    cfg.Analysis.Model,
		Timeout:  cfg.Analysis.Timeout,
		LockTTL:  cfg.Analysis.LockTTL,
	}
	if ac.Provider == domain.ProviderGemini {
		ac.Model = cfg.LLM.GeminiModel
	}
	return ac
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, e *echo.Echo) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
