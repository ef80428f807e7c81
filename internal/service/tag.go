package service

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// DefaultPopularLimit is the number of tags Popular returns by default.
const DefaultPopularLimit = 10

// TagService handles tag business logic.
type TagService struct {
	tagRepo *sqlite.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo *sqlite.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// List returns every tag.
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return tags, nil
}

// Get returns a tag by ID.
func (s *TagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tagRepo.Find(ctx, id)
	if err != nil {
		return nil, mapError(err, func() *domain.DomainError { return domain.NewTagNotFoundError(id) }, nil)
	}
	return tag, nil
}

// Create creates the named tags in one transaction.
func (s *TagService) Create(ctx context.Context, names []string) ([]domain.Tag, error) {
	ids, err := s.tagRepo.CreateMany(ctx, names)
	if err != nil {
		return nil, mapError(err, nil, func() *domain.DomainError {
			return domain.NewConflictError("Tag", "name", names)
		})
	}
	tags := make([]domain.Tag, len(ids))
	for i, id := range ids {
		tags[i] = domain.Tag{ID: id, Name: names[i]}
	}
	return tags, nil
}

// Popular returns the most used tags with their usage count.
func (s *TagService) Popular(ctx context.Context, limit int) ([]domain.Tag, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	tags, err := s.tagRepo.Popular(ctx, limit)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return tags, nil
}
