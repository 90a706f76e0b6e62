package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/service/content"
)

// aspectService implements the AspectService interface
type aspectService struct {
	aspects   repositories.AspectRepository
	txManager repositories.TransactionManager
	sanitizer *content.Sanitizer
	logger    *slog.Logger
}

// NewAspectService creates a new aspect service
func NewAspectService(
	aspects repositories.AspectRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.AspectService {
	return &aspectService{
		aspects:   aspects,
		txManager: txManager,
		sanitizer: content.NewSanitizer(),
		logger:    logger,
	}
}

// List retrieves the caller's aspects in order
func (s *aspectService) List(ctx context.Context, caller *auth.Caller) ([]models.Aspect, error) {
	return s.aspects.List(ctx, caller.PersonID)
}

// Find retrieves one of the caller's aspects
func (s *aspectService) Find(ctx context.Context, caller *auth.Caller, id string) (*models.Aspect, error) {
	aspectID, err := parseAspectID(id)
	if err != nil {
		return nil, err
	}
	return s.aspects.GetByID(ctx, caller.PersonID, aspectID)
}

// Create adds an aspect at the end of the caller's list
func (s *aspectService) Create(ctx context.Context, caller *auth.Caller, req *services.CreateAspectRequest) (*models.Aspect, error) {
	name, err := s.validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if req.ChatEnabled == nil {
		return nil, fmt.Errorf("%w: chat_enabled is required", domain.ErrValidation)
	}

	aspect := &models.Aspect{
		OwnerID:     caller.PersonID,
		Name:        name,
		ChatEnabled: *req.ChatEnabled,
		CreatedAt:   now(),
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.aspects.List(ctx, caller.PersonID)
		if err != nil {
			return err
		}
		aspect.Order = len(existing)
		return s.aspects.Create(ctx, aspect)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("aspect created",
		"id", aspect.ID,
		"owner_id", caller.PersonID,
		"name", aspect.Name,
	)
	return aspect, nil
}

// Update applies a partial update
func (s *aspectService) Update(ctx context.Context, caller *auth.Caller, id string, req *services.UpdateAspectRequest) (*models.Aspect, error) {
	aspectID, err := parseAspectID(id)
	if err != nil {
		return nil, err
	}

	var name string
	if req.Name != nil {
		if name, err = s.validateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Order != nil && *req.Order < 0 {
		return nil, fmt.Errorf("%w: order must not be negative", domain.ErrValidation)
	}

	var updated *models.Aspect
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		aspects, err := s.aspects.List(ctx, caller.PersonID)
		if err != nil {
			return err
		}

		pos := -1
		for i := range aspects {
			if aspects[i].ID == aspectID {
				pos = i
				break
			}
		}
		if pos < 0 {
			return fmt.Errorf("aspect %d: %w", aspectID, domain.ErrAspectNotFound)
		}

		target := aspects[pos]
		if req.Name != nil {
			for _, a := range aspects {
				if a.ID != aspectID && strings.EqualFold(a.Name, name) {
					return domain.ErrAspectNameTaken
				}
			}
			target.Name = name
		}
		if req.ChatEnabled != nil {
			target.ChatEnabled = *req.ChatEnabled
		}

		if req.Order == nil {
			updated = &target
			return s.aspects.Update(ctx, &target)
		}

		// Move to the requested position and renumber 0..n-1
		dest := min(*req.Order, len(aspects)-1)
		reordered := make([]models.Aspect, 0, len(aspects))
		reordered = append(reordered, aspects[:pos]...)
		reordered = append(reordered, aspects[pos+1:]...)
		reordered = append(reordered[:dest], append([]models.Aspect{target}, reordered[dest:]...)...)

		for i := range reordered {
			a := reordered[i]
			if a.ID != aspectID && a.Order == i {
				continue
			}
			a.Order = i
			if err := s.aspects.Update(ctx, &a); err != nil {
				return err
			}
			if a.ID == aspectID {
				updated = &a
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("aspect updated",
		"id", updated.ID,
		"owner_id", caller.PersonID,
		"order", updated.Order,
	)
	return updated, nil
}

// Destroy deletes one of the caller's aspects
func (s *aspectService) Destroy(ctx context.Context, caller *auth.Caller, id string) error {
	aspectID, err := parseAspectID(id)
	if err != nil {
		return err
	}
	if err := s.aspects.Delete(ctx, caller.PersonID, aspectID); err != nil {
		return err
	}

	s.logger.Info("aspect deleted",
		"id", aspectID,
		"owner_id", caller.PersonID,
	)
	return nil
}

func (s *aspectService) validateName(raw string) (string, error) {
	name := s.sanitizer.Text(raw)
	if err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, config.MaxAspectNameLength),
	); err != nil {
		return "", fmt.Errorf("%w: name %v", domain.ErrValidation, err)
	}
	return name, nil
}

func parseAspectID(id string) (int64, error) {
	if !isNumericID(id) {
		return 0, fmt.Errorf("aspect %s: %w", id, domain.ErrAspectNotFound)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("aspect %s: %w", id, domain.ErrAspectNotFound)
	}
	return n, nil
}
