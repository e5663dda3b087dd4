package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"cascade/form/internal/cache"
	"cascade/form/internal/client"
	"cascade/form/internal/config"
	"cascade/form/internal/proxy"
	"cascade/form/internal/service"
	"cascade/form/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.CatalogClient
	Cache   cache.CategoryCache
	Service *service.Service
	Server  *web.Server

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Cache:  cache.NewNoopCategoryCache(),
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.API.Proxies, cfg.API.BaseURL+cfg.API.CategoriesPath)

	container.Client = client.NewCatalogClient(cfg.API, proxySupplier)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Cache = cache.NewRedisCategoryCache(rdb, time.Duration(cfg.Redis.CategoryTTL)*time.Second)
	}

	container.Service = service.NewService(container.Client, container.Cache, cfg.Form.OtherLabel)

	gin.SetMode(gin.ReleaseMode)
	server, err := web.NewServer(
		container.Service,
		container.Service,
		cfg.Form.OtherLabel,
		time.Duration(cfg.Server.SessionTTL)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize web server: %w", err)
	}
	container.Server = server

	return container, nil
}

// Run serves the form until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              c.Config.Server.Addr(),
		Handler:           c.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Serving form on http://%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Infof("🛑 Stopping server with %d open sessions", c.Server.Sessions())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		c.Server.Wait()
		return nil
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
