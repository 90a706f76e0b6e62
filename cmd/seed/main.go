package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/domain/models"
	"podium/internal/federation"
	"podium/internal/repository/postgres"
	"podium/internal/seed"
	"podium/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	tokenFor := flag.String("token-for", "", "Only mint an access token for this diaspora handle")
	scopes := flag.String("scopes", auth.AllScopes().String(), "Space separated scopes of minted tokens")
	revoke := flag.String("revoke", "", "Revoke the token with this id (jti) and exit")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if cfg.UseMemoryStore() {
		log.Fatalf("DATABASE_URL is required, the in-memory store does not outlive a process")
	}
	if cfg.TokenSecret == "" {
		log.Fatalf("TOKEN_SECRET is required to mint tokens")
	}

	ctx := context.Background()
	if err := postgres.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repos := postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})
	issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)

	granted, unknown := auth.ParseScopes(*scopes)
	if len(unknown) > 0 {
		log.Fatalf("Unknown scopes: %s", strings.Join(unknown, ", "))
	}

	switch {
	case *revoke != "":
		// The token's own expiry is unknown here, keep the entry for a full TTL
		if err := repos.Tokens.Revoke(ctx, *revoke, time.Now().UTC().Add(cfg.TokenTTL)); err != nil {
			log.Fatalf("Failed to revoke token: %v", err)
		}
		log.Printf("Revoked token %s", *revoke)
		return

	case *tokenFor != "":
		person, err := repos.People.GetByHandle(ctx, *tokenFor)
		if err != nil {
			log.Fatalf("Failed to find %s: %v", *tokenFor, err)
		}
		printToken(issuer, person, granted)
		return
	}

	log.Printf("Seeding database (environment: %s, pod: %s)", cfg.Environment, cfg.PodHost)

	deferrer := federation.NewDeferrer(federation.NewLogDispatcher(logger), cfg.DispatchTimeout, logger)
	posts := service.NewPostService(repos.Posts, repos.People, repos.Aspects, deferrer, logger)

	people, err := seed.NewSeeder(repos, posts, cfg.PodHost, logger).Run(ctx)
	deferrer.Wait()
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Println("Seeding complete, tokens:")
	for _, user := range seed.Users() {
		printToken(issuer, people[user], granted)
	}
}

func printToken(issuer *auth.Issuer, person *models.Person, scopes auth.ScopeSet) {
	token, cred, err := issuer.Issue(person.GUID, scopes)
	if err != nil {
		log.Fatalf("Failed to mint token for %s: %v", person.DiasporaHandle, err)
	}
	fmt.Printf("%s\tjti=%s\texpires=%s\n%s\n\n",
		person.DiasporaHandle, cred.TokenID, cred.ExpiresAt.Format(time.RFC3339), token)
}
