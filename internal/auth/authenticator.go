package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"podium/internal/domain"
	"podium/internal/domain/repositories"
)

// Authenticator turns a raw bearer token into the Caller it acts for.
// A token is accepted only if it verifies, is not revoked and its subject
// is a local person.
type Authenticator struct {
	verifier TokenVerifier
	tokens   repositories.TokenRepository
	people   repositories.PersonRepository
	logger   *slog.Logger
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(
	verifier TokenVerifier,
	tokens repositories.TokenRepository,
	people repositories.PersonRepository,
	logger *slog.Logger,
) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		tokens:   tokens,
		people:   people,
		logger:   logger,
	}
}

// Authenticate verifies raw. Every rejection wraps domain.ErrUnauthorized;
// other errors are storage failures.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*Caller, error) {
	if raw == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrUnauthorized)
	}

	cred, err := a.verifier.VerifyToken(ctx, raw)
	if err != nil {
		return nil, err
	}

	revoked, err := a.tokens.IsRevoked(ctx, cred.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		a.logger.Info("revoked token presented", "token_id", cred.TokenID)
		return nil, fmt.Errorf("token %s revoked: %w", cred.TokenID, domain.ErrUnauthorized)
	}

	person, err := a.people.GetByGUID(ctx, cred.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown subject %s: %w", cred.Subject, domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load token subject: %w", err)
	}
	if !person.Local {
		return nil, fmt.Errorf("subject %s is not local: %w", cred.Subject, domain.ErrUnauthorized)
	}

	return &Caller{
		PersonID: person.ID,
		GUID:     person.GUID,
		TokenID:  cred.TokenID,
		Scopes:   cred.Scopes,
	}, nil
}
