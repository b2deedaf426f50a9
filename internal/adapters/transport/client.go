// Package transport builds the HTTP client shared by the DTD fetcher and the remote validator.
package transport

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"go.trai.ch/markup/internal/core/domain"
	"golang.org/x/net/http/httpproxy"
)

const (
	dialTimeout         = 10 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
	idleConnTimeout     = 90 * time.Second
)

// ProxyFunc returns the proxy selector for cfg.
// An explicit proxy in the configuration wins over the HTTP_PROXY, HTTPS_PROXY and NO_PROXY variables.
func ProxyFunc(cfg *domain.Config) func(*url.URL) (*url.URL, error) {
	proxyCfg := httpproxy.FromEnvironment()
	if cfg.Proxy != "" {
		proxyCfg.HTTPProxy = cfg.Proxy
		proxyCfg.HTTPSProxy = cfg.Proxy
	}
	if cfg.NoProxy != "" {
		proxyCfg.NoProxy = cfg.NoProxy
	}
	return proxyCfg.ProxyFunc()
}

// NewClient creates an HTTP client honouring the proxy configuration.
// Only connection establishment is bounded; requests otherwise follow the caller's context.
func NewClient(cfg *domain.Config) *http.Client {
	proxy := ProxyFunc(cfg)
	return &http.Client{
		Transport: &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				return proxy(req.URL)
			},
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: tlsHandshakeTimeout,
			IdleConnTimeout:     idleConnTimeout,
			MaxIdleConns:        10,
			ForceAttemptHTTP2:   true,
		},
	}
}
