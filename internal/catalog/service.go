// Package catalog sequences content operations that span repositories:
// validated manual create and update, and delete with its interaction
// cascade.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/database/content"
	"github.com/mrlokans/mediashelf/internal/database/interactions"
	"github.com/mrlokans/mediashelf/internal/entities"
)

type Service struct {
	db           *gorm.DB
	content      *content.Repository
	interactions *interactions.Repository
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewService(db *gorm.DB, contentRepo *content.Repository, interactionRepo *interactions.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:           db,
		content:      contentRepo,
		interactions: interactionRepo,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger.Named("catalog"),
	}
}

// CreateContent stores manually entered content.
func (s *Service) CreateContent(ctx context.Context, c *entities.Content) (*entities.Content, error) {
	c.Title = strings.TrimSpace(c.Title)
	if err := s.check(c); err != nil {
		return nil, err
	}
	if err := s.content.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateContent applies a whitelisted patch after validating the result.
func (s *Service) UpdateContent(ctx context.Context, id uint, patch content.Patch) (*entities.Content, error) {
	current, err := s.content.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}

	preview := *current
	patch.Apply(&preview)
	if err := s.check(&preview); err != nil {
		return nil, err
	}

	return s.content.Update(ctx, id, patch)
}

// DeleteContent removes the content, its external ids and every
// interaction referencing it in one transaction.
func (s *Service) DeleteContent(ctx context.Context, id uint) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.content.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		n, err := s.interactions.WithTx(tx).CascadeDelete(ctx, id)
		removed = n
		return err
	})
	if err != nil {
		return err
	}
	s.logger.Info("content deleted", zap.Uint("content_id", id), zap.Int64("interactions_removed", removed))
	return nil
}

func (s *Service) check(c *entities.Content) error {
	if err := s.validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperr.Wrap(apperr.ErrInvalidInput, describe(fieldErrs[0]), err)
		}
		return apperr.Wrap(apperr.ErrInvalidInput, "invalid content", err)
	}
	if !c.Metadata.MatchesType(c.Type) {
		return apperr.InvalidInput(fmt.Sprintf("metadata does not match content type %q", c.Type))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}
