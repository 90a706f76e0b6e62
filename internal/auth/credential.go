package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"podium/internal/domain"
)

// Claims is the JWT payload of an access token. Scope holds the granted
// scopes space separated, as in OAuth 2.0.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Credential is a verified access token. It is never mutated after issue.
type Credential struct {
	TokenID   string
	Subject   string // GUID of the owning person
	Scopes    ScopeSet
	ExpiresAt time.Time
}

// Caller is the authenticated identity every service call acts for.
type Caller struct {
	PersonID string
	GUID     string
	TokenID  string
	Scopes   ScopeSet
}

// Can reports whether the caller's token grants s.
func (c *Caller) Can(s Scope) bool {
	return c != nil && c.Scopes.Has(s)
}

// credentialFromClaims validates the claims every token must carry.
func credentialFromClaims(claims *Claims, logger *slog.Logger) (*Credential, error) {
	if claims.Subject == "" {
		logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}
	if claims.ID == "" {
		logger.Debug("token missing jti claim", "subject", claims.Subject)
		return nil, domain.ErrUnauthorized
	}
	if claims.ExpiresAt == nil {
		logger.Debug("token missing exp claim", "subject", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	scopes, unknown := ParseScopes(claims.Scope)
	if len(unknown) > 0 {
		logger.Warn("token carries unknown scopes",
			"token_id", claims.ID,
			"unknown", unknown,
		)
	}

	return &Credential{
		TokenID:   claims.ID,
		Subject:   claims.Subject,
		Scopes:    scopes,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
