package service

import (
	"context"
	"sync"
	"time"

	"cascade/form/internal/cache"
	"cascade/form/internal/client"
	"cascade/form/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Service loads the category tree and fetches dependent option groups from the
// catalog API.
type Service struct {
	client     client.CatalogClient
	cache      cache.CategoryCache
	otherLabel string
	now        func() time.Time

	mu         sync.Mutex
	categories []domain.Category
}

type ServiceOption func(*Service)

// WithClock replaces the clock used to stamp synthetic "other" options.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	client client.CatalogClient,
	cache cache.CategoryCache,
	otherLabel string,
	opts ...ServiceOption,
) *Service {
	if otherLabel == "" {
		otherLabel = domain.OtherOptionName
	}

	s := &Service{
		client:     client,
		cache:      cache,
		otherLabel: otherLabel,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the category tree. The first successful fetch is kept for
// the life of the process; failures are logged and yield an empty tree so the
// next caller tries again.
func (s *Service) Categories(ctx context.Context) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categories != nil {
		return domain.CloneCategories(s.categories)
	}

	cached, ok, err := s.cache.Load(ctx)
	if err != nil {
		log.Warnf("⚠️ Category cache unavailable: %v", err)
	}
	if ok {
		log.Debugf("Loaded %d categories from cache", len(cached))
		s.categories = cached
		return domain.CloneCategories(cached)
	}

	categories, err := s.client.GetCategories(ctx)
	if err != nil {
		log.Errorf("❌ Error fetching categories: %v", err)
		return []domain.Category{}
	}

	if err := s.cache.Store(ctx, categories); err != nil {
		log.Warnf("⚠️ Failed to cache categories: %v", err)
	}

	log.Infof("✅ Loaded %d main categories", len(categories))
	s.categories = categories
	return domain.CloneCategories(categories)
}

// FetchOptionsFor fetches the option groups of a sub-category and appends the
// synthetic "other" option to each of them. Errors are returned unchanged in
// meaning; the caller decides how to surface them.
func (s *Service) FetchOptionsFor(ctx context.Context, categoryID int) ([]domain.OptionGroup, error) {
	groups, err := s.client.GetProperties(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	other := domain.Option{
		ID:   s.now().UnixMilli(),
		Name: s.otherLabel,
	}

	out := make([]domain.OptionGroup, len(groups))
	for i, group := range groups {
		options := make([]domain.Option, 0, len(group.Options)+1)
		options = append(options, group.Options...)
		options = append(options, other)

		out[i] = domain.OptionGroup{
			ID:      group.ID,
			Name:    group.Name,
			Options: options,
		}
	}

	log.Debugf("Prepared %d option groups for category %d", len(out), categoryID)
	return out, nil
}
