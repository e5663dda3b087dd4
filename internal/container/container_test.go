package container_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cascade/form/internal/config"
	"cascade/form/internal/container"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		API: config.APIConfig{
			BaseURL:        "http://127.0.0.1:1",
			CategoriesPath: "/get_categories",
			Timeout:        1,
		},
		Form: config.FormConfig{OtherLabel: "other"},
	}
}

var _ = Describe("Container", func() {
	It("wires a cache-less stack when redis is disabled", func() {
		app, err := container.New(context.Background(), testConfig())
		Expect(err).ToNot(HaveOccurred())
		DeferCleanup(app.Close)

		Expect(app.Client).ToNot(BeNil())
		Expect(app.Service).ToNot(BeNil())
		Expect(app.Server).ToNot(BeNil())
	})

	It("fails fast when redis is enabled but unreachable", func() {
		cfg := testConfig()
		cfg.Redis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

		_, err := container.New(context.Background(), cfg)
		Expect(err).To(MatchError(ContainSubstring("failed to connect to Redis")))
	})

	It("stops serving when the context is cancelled", func() {
		app, err := container.New(context.Background(), testConfig())
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- app.Run(ctx)
		}()

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
