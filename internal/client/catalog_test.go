package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cascade/form/internal/client"
	"cascade/form/internal/config"
	"cascade/form/internal/domain"
)

type recordedRequest struct {
	Path  string
	Query string
	Key   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Path:  r.URL.Path,
		Query: r.URL.RawQuery,
		Key:   r.Header.Get(client.PrivateKeyHeader),
	})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeAPI) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

var _ = Describe("CatalogClient", func() {
	var (
		api    *fakeAPI
		server *httptest.Server
		cfg    config.APIConfig
		ctx    context.Context
	)

	BeforeEach(func() {
		api = &fakeAPI{status: http.StatusOK}
		server = httptest.NewServer(api)
		DeferCleanup(server.Close)

		cfg = config.APIConfig{
			BaseURL:    server.URL,
			PrivateKey: "test-key",
			Timeout:    5,
		}
		ctx = context.Background()
	})

	Context("GetCategories", func() {
		It("decodes the category tree and sends the private key", func() {
			api.body = `{"data":{"categories":[
				{"id":1,"name":"Electronics","children":[{"id":2,"name":"Phones"},{"id":3,"name":"Laptops"}]},
				{"id":4,"name":"Clothing"}]}}`

			categories, err := client.NewCatalogClient(cfg, nil).GetCategories(ctx)
			Expect(err).ToNot(HaveOccurred())

			Expect(categories).To(Equal([]domain.Category{
				{ID: 1, Name: "Electronics", Children: []domain.Category{{ID: 2, Name: "Phones"}, {ID: 3, Name: "Laptops"}}},
				{ID: 4, Name: "Clothing"},
			}))

			requests := api.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Path).To(Equal("/get_categories"))
			Expect(requests[0].Key).To(Equal("test-key"))
		})

		It("uses the configured categories path", func() {
			cfg.CategoriesPath = "/get_all_cats"
			api.body = `{"data":{"categories":[]}}`

			_, err := client.NewCatalogClient(cfg, nil).GetCategories(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(api.Requests()[0].Path).To(Equal("/get_all_cats"))
		})

		It("returns an empty tree when the payload has no categories", func() {
			api.body = `{"data":{}}`

			categories, err := client.NewCatalogClient(cfg, nil).GetCategories(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(categories).ToNot(BeNil())
			Expect(categories).To(BeEmpty())
		})

		It("fails on a server error without retrying", func() {
			api.status = http.StatusInternalServerError
			api.body = `{}`

			_, err := client.NewCatalogClient(cfg, nil).GetCategories(ctx)
			Expect(err).To(MatchError(ContainSubstring("500")))
			Expect(api.Requests()).To(HaveLen(1))
		})

		It("fails on malformed JSON", func() {
			api.body = `not json`

			_, err := client.NewCatalogClient(cfg, nil).GetCategories(ctx)
			Expect(err).To(MatchError(ContainSubstring("failed to decode categories")))
		})
	})

	Context("GetProperties", func() {
		It("queries properties for the category id", func() {
			api.body = `{"data":[
				{"id":7,"name":"Color","options":[{"id":1,"name":"Red"},{"id":2,"name":"Blue"}]},
				{"id":8,"name":"Size","options":[{"id":3,"name":"S"}]}]}`

			groups, err := client.NewCatalogClient(cfg, nil).GetProperties(ctx, 2)
			Expect(err).ToNot(HaveOccurred())

			Expect(groups).To(HaveLen(2))
			Expect(groups[0].Name).To(Equal("Color"))
			Expect(groups[0].Options).To(Equal([]domain.Option{{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"}}))
			Expect(groups[1].Options).To(HaveLen(1))

			requests := api.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Path).To(Equal("/properties"))
			Expect(requests[0].Query).To(Equal("cat=2"))
			Expect(requests[0].Key).To(Equal("test-key"))
		})

		It("reports cancellation of the caller's context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := client.NewCatalogClient(cfg, nil).GetProperties(cancelled, 2)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
