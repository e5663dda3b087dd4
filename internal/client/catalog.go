package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cascade/form/internal/config"
	"cascade/form/internal/domain"
	"cascade/form/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// PrivateKeyHeader carries the static API credential on every request.
const PrivateKeyHeader = "private-key"

type CatalogClient interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetProperties(ctx context.Context, categoryID int) ([]domain.OptionGroup, error)
}

type categoriesEnvelope struct {
	Data struct {
		Categories []domain.Category `json:"categories"`
	} `json:"data"`
}

type propertiesEnvelope struct {
	Data []domain.OptionGroup `json:"data"`
}

type catalogClient struct {
	rl             ratelimit.Limiter
	baseURL        string
	categoriesPath string
	httpClient     *resty.Client
	proxySupplier  proxy.ProxySupplier
}

func NewCatalogClient(cfg config.APIConfig, proxySupplier proxy.ProxySupplier) CatalogClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader(PrivateKeyHeader, cfg.PrivateKey).
		SetHeader("Accept", "application/json")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	categoriesPath := cfg.CategoriesPath
	if categoriesPath == "" {
		categoriesPath = "/get_categories"
	}

	return &catalogClient{
		rl:             rl,
		baseURL:        cfg.BaseURL,
		categoriesPath: categoriesPath,
		httpClient:     client,
		proxySupplier:  proxySupplier,
	}
}

func (c *catalogClient) GetCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.fetchJSON(ctx, c.baseURL+c.categoriesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var envelope categoriesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := envelope.Data.Categories
	if categories == nil {
		categories = []domain.Category{}
	}

	log.Debugf("Fetched %d main categories", len(categories))
	return categories, nil
}

func (c *catalogClient) GetProperties(ctx context.Context, categoryID int) ([]domain.OptionGroup, error) {
	query := map[string]string{"cat": strconv.Itoa(categoryID)}

	body, err := c.fetchJSON(ctx, c.baseURL+"/properties", query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties for category %d: %w", categoryID, err)
	}

	var envelope propertiesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode properties for category %d: %w", categoryID, err)
	}

	groups := envelope.Data
	if groups == nil {
		groups = []domain.OptionGroup{}
	}

	log.Debugf("Fetched %d option groups for category %d", len(groups), categoryID)
	return groups, nil
}

func (c *catalogClient) fetchJSON(ctx context.Context, url string, query map[string]string) ([]byte, error) {
	c.rl.Take()

	req := c.httpClient.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		c.rotateProxy()
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return []byte(resp.String()), nil
}

// rotateProxy moves the next request onto another proxy. The failed request
// itself is not retried.
func (c *catalogClient) rotateProxy() {
	if c.proxySupplier == nil {
		return
	}
	if next := c.proxySupplier.Get(); next != "" {
		log.Infof("🔄 Switching to proxy %s for subsequent requests", next)
		c.httpClient.SetProxy(next)
	}
}
