package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// ProxySupplier hands out outbound proxies in round-robin order
type ProxySupplier interface {
	Get() string
	Len() int
}

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier probes every configured proxy against probeURL and keeps the
// ones that answer. An empty list yields a supplier that always returns "".
func NewProxySupplier(ctx context.Context, proxies []string, probeURL string) ProxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}

	log.Infof("🔄 Probing %d proxies...", len(proxies))

	results := make([]bool, len(proxies))
	var wg sync.WaitGroup
	for i, proxyURL := range proxies {
		wg.Add(1)
		go func(index int, proxy string) {
			defer wg.Done()
			results[index] = isProxyValid(ctx, proxy, probeURL)
		}(i, proxyURL)
	}
	wg.Wait()

	// keep configured order so rotation is predictable
	valid := make([]string, 0, len(proxies))
	for i, ok := range results {
		if ok {
			valid = append(valid, proxies[i])
		} else {
			log.Warnf("❌ Proxy %s is not reachable, skipping", proxies[i])
		}
	}

	log.Infof("✅ Proxy supplier ready with %d of %d proxies", len(valid), len(proxies))

	return &proxySupplier{proxies: valid}
}

// Get returns the next proxy URL in round-robin fashion
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func (p *proxySupplier) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.proxies)
}

// isProxyValid treats any HTTP answer through the proxy as success; the probe URL
// usually demands the private key, so a 4xx still proves the proxy works.
func isProxyValid(ctx context.Context, proxyURL, probeURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(probeURL)
	if err != nil {
		log.Debugf("Proxy probe failed for %s: %v", proxyURL, err)
		return false
	}

	return resp.StatusCode() < 500
}
