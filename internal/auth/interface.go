package auth

import "context"

// TokenVerifier validates access tokens.
// Implementations check signature and expiry only; revocation and account
// lookup are the Authenticator's job.
type TokenVerifier interface {
	// VerifyToken parses a raw token and returns its credential.
	// Returns an error wrapping domain.ErrUnauthorized if the token is invalid.
	VerifyToken(ctx context.Context, tokenString string) (*Credential, error)

	// Close releases any resources held by the verifier.
	Close() error
}
