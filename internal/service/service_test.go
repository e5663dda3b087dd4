package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cascade/form/internal/domain"
	"cascade/form/internal/service"
)

type fakeCatalogClient struct {
	mu            sync.Mutex
	categories    []domain.Category
	categoriesErr error
	groups        []domain.OptionGroup
	groupsErr     error

	categoryCalls  int
	propertiesCall []int
}

func (f *fakeCatalogClient) GetCategories(ctx context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryCalls++
	return f.categories, f.categoriesErr
}

func (f *fakeCatalogClient) GetProperties(ctx context.Context, categoryID int) ([]domain.OptionGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.propertiesCall = append(f.propertiesCall, categoryID)
	return f.groups, f.groupsErr
}

type memoryCategoryCache struct {
	categories []domain.Category
	loadErr    error
	stored     int
}

func (m *memoryCategoryCache) Load(ctx context.Context) ([]domain.Category, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	return m.categories, m.categories != nil, nil
}

func (m *memoryCategoryCache) Store(ctx context.Context, categories []domain.Category) error {
	m.stored++
	m.categories = categories
	return nil
}

var _ = Describe("Service", func() {
	var (
		api   *fakeCatalogClient
		store *memoryCategoryCache
		ctx   context.Context
		clock time.Time
	)

	BeforeEach(func() {
		api = &fakeCatalogClient{
			categories: []domain.Category{
				{ID: 1, Name: "Electronics", Children: []domain.Category{{ID: 2, Name: "Phones"}}},
			},
			groups: []domain.OptionGroup{
				{ID: 7, Name: "Color", Options: []domain.Option{{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"}}},
				{ID: 8, Name: "Size", Options: []domain.Option{{ID: 3, Name: "S"}}},
				{ID: 9, Name: "Material"},
			},
		}
		store = &memoryCategoryCache{}
		ctx = context.Background()
		clock = time.UnixMilli(1700000000123)
	})

	newService := func() *service.Service {
		return service.NewService(api, store, "", service.WithClock(func() time.Time { return clock }))
	}

	Context("Categories", func() {
		It("fetches once and serves later calls from memory", func() {
			s := newService()

			Expect(s.Categories(ctx)).To(Equal(api.categories))
			Expect(s.Categories(ctx)).To(Equal(api.categories))
			Expect(api.categoryCalls).To(Equal(1))
			Expect(store.stored).To(Equal(1))
		})

		It("prefers the cache over the API", func() {
			store.categories = []domain.Category{{ID: 10, Name: "Cached"}}

			Expect(newService().Categories(ctx)).To(Equal([]domain.Category{{ID: 10, Name: "Cached"}}))
			Expect(api.categoryCalls).To(BeZero())
		})

		It("falls back to the API when the cache fails", func() {
			store.loadErr = errors.New("connection refused")

			Expect(newService().Categories(ctx)).To(HaveLen(1))
			Expect(api.categoryCalls).To(Equal(1))
		})

		It("returns an empty tree on failure and retries next time", func() {
			api.categoriesErr = errors.New("boom")
			s := newService()

			categories := s.Categories(ctx)
			Expect(categories).ToNot(BeNil())
			Expect(categories).To(BeEmpty())

			api.categoriesErr = nil
			Expect(s.Categories(ctx)).To(HaveLen(1))
			Expect(api.categoryCalls).To(Equal(2))
		})

		It("hands out copies callers cannot corrupt", func() {
			s := newService()

			first := s.Categories(ctx)
			first[0].Children[0].Name = "changed"

			Expect(s.Categories(ctx)[0].Children[0].Name).To(Equal("Phones"))
		})
	})

	Context("FetchOptionsFor", func() {
		It("appends a timestamped other option to every group", func() {
			groups, err := newService().FetchOptionsFor(ctx, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(api.propertiesCall).To(Equal([]int{2}))

			Expect(groups).To(HaveLen(3))
			for i, group := range groups {
				Expect(group.Options).To(HaveLen(len(api.groups[i].Options) + 1))
				last := group.Options[len(group.Options)-1]
				Expect(last.Name).To(Equal("other"))
				Expect(last.ID).To(Equal(int64(1700000000123)))
			}
			Expect(groups[0].Options[0]).To(Equal(domain.Option{ID: 1, Name: "Red"}))
		})

		It("does not mutate the client's slices", func() {
			_, err := newService().FetchOptionsFor(ctx, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(api.groups[0].Options).To(HaveLen(2))
		})

		It("uses a configured label for the synthetic option", func() {
			s := service.NewService(api, store, "Something else")

			groups, err := s.FetchOptionsFor(ctx, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(groups[0].Options[2].Name).To(Equal("Something else"))
		})

		It("returns the client error", func() {
			api.groupsErr = errors.New("timeout")

			groups, err := newService().FetchOptionsFor(ctx, 2)
			Expect(err).To(MatchError("timeout"))
			Expect(groups).To(BeNil())
		})
	})
})
