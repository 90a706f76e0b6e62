package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/federation"
	"podium/internal/handler"
	"podium/internal/locale"
	"podium/internal/middleware"
	"podium/internal/repository/memory"
	"podium/internal/repository/postgres"
	"podium/internal/seed"
	"podium/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"memory_store", cfg.UseMemoryStore(),
	)

	// Token verifier: JWKS when an authorization server is configured,
	// otherwise the shared secret
	var verifier auth.TokenVerifier
	if cfg.JWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			return err
		}
		defer jwks.Close()
		verifier = jwks
	} else {
		hmac, err := auth.NewHMACVerifier(cfg.TokenSecret, logger)
		if err != nil {
			return err
		}
		verifier = hmac
	}

	// Storage
	var (
		repos *repositories.Repositories
		store handler.Pinger
	)
	if cfg.UseMemoryStore() {
		logger.Warn("DATABASE_URL not set, using the in-memory store (data is lost on exit)")
		repos = memory.NewRepositories(memory.NewStore())
	} else {
		if err := postgres.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
			return err
		}

		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("database connected", "max_conns", pool.Config().MaxConns)

		repos = postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})
		store = pool
	}

	// Federation dispatch
	var dispatcher federation.Dispatcher = federation.NewLogDispatcher(logger)
	if cfg.RedisAddr != "" {
		redisDispatcher, err := federation.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer redisDispatcher.Close()
		dispatcher = redisDispatcher
		logger.Info("federation outbox connected", "addr", cfg.RedisAddr)
	}
	deferrer := federation.NewDeferrer(dispatcher, cfg.DispatchTimeout, logger)

	// Services
	svc := handler.Services{
		Posts:         service.NewPostService(repos.Posts, repos.People, repos.Aspects, deferrer, logger),
		Reshares:      service.NewReshareService(repos.Posts, repos.People, deferrer, logger),
		Comments:      service.NewCommentService(repos.Posts, repos.People, repos.Comments, repos.Reports, deferrer, logger),
		Likes:         service.NewLikeService(repos.Posts, repos.People, repos.Likes, deferrer, logger),
		Conversations: service.NewConversationService(repos.Conversations, repos.People, repos.Aspects, deferrer, logger),
		Aspects:       service.NewAspectService(repos.Aspects, repos.TxManager, logger),
		Streams:       service.NewStreamService(repos.Posts, repos.People, repos.Aspects, repos.Tags, logger),
	}

	if cfg.SeedMemoryStore() {
		if err := seedMemoryStore(ctx, cfg, repos, svc.Posts, logger); err != nil {
			return err
		}
	}

	catalog, err := locale.Load()
	if err != nil {
		return err
	}
	logger.Info("locale catalogs loaded", "languages", len(catalog.Languages()))

	authenticator := auth.NewAuthenticator(verifier, repos.Tokens, repos.People, logger)
	gate := middleware.NewGate(authenticator, catalog, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.NewHandlers(svc, store, catalog, logger), gate)

	// Order: CORS → Recovery → Logging → Routes
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		AllowCredentials: true,
	})
	root := corsHandler.Handler(middleware.Chain(mux,
		middleware.Recovery(logger, catalog),
		middleware.RequestLogger(logger),
	))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		// Let queued federation dispatches finish before the outbox closes
		deferrer.Wait()
		return nil
	})

	return g.Wait()
}

// seedMemoryStore fills the in-memory store with the demo accounts and logs a
// token for each, so a development server can be used right away.
func seedMemoryStore(ctx context.Context, cfg *config.Config, repos *repositories.Repositories, posts services.PostService, logger *slog.Logger) error {
	people, err := seed.NewSeeder(repos, posts, cfg.PodHost, logger).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.JWKSURL != "" {
		logger.Info("memory store seeded, tokens come from the authorization server", "people", len(people))
		return nil
	}

	issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	for _, user := range seed.Users() {
		person := people[user]
		token, cred, err := issuer.Issue(person.GUID, auth.AllScopes())
		if err != nil {
			return fmt.Errorf("mint token for %s: %w", person.DiasporaHandle, err)
		}
		logger.Info("development token",
			"handle", person.DiasporaHandle,
			"jti", cred.TokenID,
			"expires_at", cred.ExpiresAt,
			"token", token,
		)
	}
	return nil
}
