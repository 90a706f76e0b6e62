package services

import (
	"context"

	"podium/internal/auth"
	"podium/internal/domain/models"
)

// CreateAspectRequest represents a request to create an aspect
type CreateAspectRequest struct {
	Name        string `json:"name"`
	ChatEnabled *bool  `json:"chat_enabled"`
}

// UpdateAspectRequest represents a partial aspect update. Nil fields are kept.
type UpdateAspectRequest struct {
	Name        *string `json:"name"`
	ChatEnabled *bool   `json:"chat_enabled"`
	Order       *int    `json:"order"`
}

// AspectService defines business logic operations for the caller's aspects.
// Aspect identifiers are numeric; anything else is not found.
type AspectService interface {
	List(ctx context.Context, caller *auth.Caller) ([]models.Aspect, error)
	Find(ctx context.Context, caller *auth.Caller, id string) (*models.Aspect, error)
	Create(ctx context.Context, caller *auth.Caller, req *CreateAspectRequest) (*models.Aspect, error)

	// Update applies a partial update. Changing order moves the aspect to
	// that position and renumbers the caller's aspects.
	Update(ctx context.Context, caller *auth.Caller, id string, req *UpdateAspectRequest) (*models.Aspect, error)

	Destroy(ctx context.Context, caller *auth.Caller, id string) error
}
