package tag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

const (
	customIDPrefix = "tag_custom_"
	defaultColor   = "#6B7280"
)

// Repository stores tags, archived ones included.
type Repository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id string) (*domain.Tag, error)
	Save(ctx context.Context, tag domain.Tag) error
}

// NewTag is the input for creating a custom tag.
type NewTag struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Color       string             `json:"color"`
	Category    domain.TagCategory `json:"category"`
}

// Update holds the fields to change; nil fields are left untouched.
type Update struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Color       *string             `json:"color,omitempty"`
	Category    *domain.TagCategory `json:"category,omitempty"`
	UsageCount  *int                `json:"usageCount,omitempty"`
}

func (u Update) onlyUsage() bool {
	return u.Name == nil && u.Description == nil && u.Color == nil && u.Category == nil
}

// Service implements the tag mutation rules over a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a tag service.
func NewService(repo Repository) *Service {
	if repo == nil {
		panic("tag.NewService: repo is required")
	}
	return &Service{repo: repo, now: time.Now}
}

// Create stores a custom tag with a generated id and zero usage.
func (s *Service) Create(ctx context.Context, in NewTag) (domain.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	category := lo.Ternary(in.Category == "", domain.TagCategoryCustom, in.Category)
	if !category.IsValid() {
		return domain.Tag{}, fmt.Errorf("%w: unknown tag category %q", domain.ErrValidation, in.Category)
	}

	now := s.now()
	tag := domain.Tag{
		ID:          customIDPrefix + uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Color:       lo.Ternary(in.Color == "", defaultColor, in.Color),
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, tag); err != nil {
		return domain.Tag{}, fmt.Errorf("creating tag: %w", err)
	}
	return tag, nil
}

// Update applies u to the tag. Default tags only accept usage count changes.
func (s *Service) Update(ctx context.Context, id string, u Update) (domain.Tag, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("loading tag %s: %w", id, err)
	}
	if existing == nil {
		return domain.Tag{}, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	if existing.IsDefault && !u.onlyUsage() {
		return domain.Tag{}, fmt.Errorf("tag %s is a system tag: %w", id, domain.ErrInvalidOperation)
	}

	tag := *existing
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
		}
		tag.Name = name
	}
	if u.Description != nil {
		tag.Description = *u.Description
	}
	if u.Color != nil {
		tag.Color = *u.Color
	}
	if u.Category != nil {
		if !u.Category.IsValid() {
			return domain.Tag{}, fmt.Errorf("%w: unknown tag category %q", domain.ErrValidation, *u.Category)
		}
		tag.Category = *u.Category
	}
	if u.UsageCount != nil {
		tag.UsageCount = max(*u.UsageCount, 0)
	}
	tag.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, tag); err != nil {
		return domain.Tag{}, fmt.Errorf("updating tag %s: %w", id, err)
	}
	return tag, nil
}

// Delete archives a custom tag. Missing, already archived and system tags are rejected.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading tag %s: %w", id, err)
	}
	switch {
	case existing == nil:
		return fmt.Errorf("tag %s does not exist: %w", id, domain.ErrInvalidOperation)
	case existing.IsDefault:
		return fmt.Errorf("tag %s is a system tag: %w", id, domain.ErrInvalidOperation)
	case existing.IsArchived:
		return fmt.Errorf("tag %s is already archived: %w", id, domain.ErrInvalidOperation)
	}

	tag := *existing
	tag.IsArchived = true
	tag.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, tag); err != nil {
		return fmt.Errorf("archiving tag %s: %w", id, err)
	}
	return nil
}

// List returns all active tags.
func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return lo.Reject(tags, func(t domain.Tag, _ int) bool { return t.IsArchived }), nil
}

// ListByCategory returns active tags of one category.
func (s *Service) ListByCategory(ctx context.Context, category domain.TagCategory) ([]domain.Tag, error) {
	tags, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(tags, func(t domain.Tag, _ int) bool { return t.Category == category }), nil
}

// Get returns an active tag, or nil when it is missing or archived.
func (s *Service) Get(ctx context.Context, id string) (*domain.Tag, error) {
	tag, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading tag %s: %w", id, err)
	}
	if tag == nil || tag.IsArchived {
		return nil, nil
	}
	return tag, nil
}

// GetMany returns the active tags among ids, in the order of ids. Unknown ids are skipped.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]domain.Tag, error) {
	tags, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(tags, func(t domain.Tag) string { return t.ID })
	return lo.FilterMap(ids, func(id string, _ int) (domain.Tag, bool) {
		t, ok := byID[id]
		return t, ok
	}), nil
}

// Suggest returns tag suggestions for a draft holding from the active tags.
func (s *Service) Suggest(ctx context.Context, d Draft) ([]domain.Tag, error) {
	tags, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Suggest(d, tags, s.now()), nil
}

// SyncUsage sets each active tag's usage count to the number of holdings carrying it.
// Returns the number of tags changed.
func (s *Service) SyncUsage(ctx context.Context, h domain.Holdings) (int, error) {
	tags, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	stats := UsageStats(h)

	changed := 0
	for _, t := range tags {
		count := stats[t.ID]
		if t.UsageCount == count {
			continue
		}
		if _, err := s.Update(ctx, t.ID, Update{UsageCount: &count}); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
