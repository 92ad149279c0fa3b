package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/event"
	"github.com/bally3399/chord001-monograms/internal/repository"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
	"github.com/bally3399/chord001-monograms/pkg/validator"
)

// MaxListLimit caps the limit accepted by ListDesigns.
const MaxListLimit = 100

// DesignInput holds the editable fields of a design.
type DesignInput struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"image_url" validate:"required,url"`
	Price       *int64 `json:"price" validate:"omitempty,gte=0"`
	Category    string `json:"category" validate:"max=100"`
	IsFeatured  bool   `json:"is_featured"`
}

// DesignService implements catalog reads and admin catalog mutations.
type DesignService struct {
	repo     repository.DesignRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewDesignService creates a new design service.
func NewDesignService(repo repository.DesignRepository, producer *event.Producer, logger *slog.Logger) *DesignService {
	return &DesignService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListDesigns returns designs newest first.
func (s *DesignService) ListDesigns(ctx context.Context, filter domain.DesignFilter) ([]domain.Design, error) {
	if filter.Limit < 0 {
		return nil, apperrors.InvalidInput("limit must not be negative")
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	designs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

// GetDesign returns a design by ID.
func (s *DesignService) GetDesign(ctx context.Context, id string) (*domain.Design, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	return d, nil
}

// CreateDesign validates input and stores a new design.
func (s *DesignService) CreateDesign(ctx context.Context, input DesignInput) (*domain.Design, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Design{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.apply(d)

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}

	s.publish(ctx, event.DesignCreated, d)
	s.logger.InfoContext(ctx, "design created",
		slog.String("design_id", d.ID),
		slog.String("title", d.Title),
	)
	return d, nil
}

// UpdateDesign overwrites the editable fields of an existing design.
func (s *DesignService) UpdateDesign(ctx context.Context, id string, input DesignInput) (*domain.Design, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	input.apply(d)
	d.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update design: %w", err)
	}

	s.publish(ctx, event.DesignUpdated, d)
	s.logger.InfoContext(ctx, "design updated", slog.String("design_id", d.ID))
	return d, nil
}

// SetFeatured adds a design to, or removes it from, the featured set and
// returns the confirmation shown to the admin.
func (s *DesignService) SetFeatured(ctx context.Context, id string, featured bool) (*domain.Design, string, error) {
	d, err := s.repo.SetFeatured(ctx, id, featured)
	if err != nil {
		return nil, "", fmt.Errorf("set featured: %w", err)
	}

	s.publish(ctx, event.DesignUpdated, d)
	msg := "Design removed from featured."
	if featured {
		msg = "Design added to featured."
	}
	s.logger.InfoContext(ctx, "design featured flag changed",
		slog.String("design_id", d.ID),
		slog.Bool("is_featured", featured),
	)
	return d, msg, nil
}

// DeleteDesign removes a design. Favorites and cart rows referencing it
// are removed with it.
func (s *DesignService) DeleteDesign(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete design: %w", err)
	}

	s.publish(ctx, event.DesignDeleted, &domain.Design{ID: id})
	s.logger.InfoContext(ctx, "design deleted", slog.String("design_id", id))
	return nil
}

func (s *DesignService) publish(ctx context.Context, eventType string, d *domain.Design) {
	if err := s.producer.PublishDesign(ctx, eventType, d); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish design event",
			slog.String("event_type", eventType),
			slog.String("design_id", d.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (in DesignInput) apply(d *domain.Design) {
	d.Title = strings.TrimSpace(in.Title)
	d.Description = strings.TrimSpace(in.Description)
	d.ImageURL = strings.TrimSpace(in.ImageURL)
	d.Price = in.Price
	d.Category = strings.TrimSpace(in.Category)
	d.IsFeatured = in.IsFeatured
}
