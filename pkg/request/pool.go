package request

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// ClientPool manages HTTP clients for different connection settings
type ClientPool struct {
	clients      map[*connection.Settings]*http.Client
	mu           sync.RWMutex
	maxIdleConns int
}

// NewClientPool creates a new client pool
func NewClientPool(maxIdleConns int) *ClientPool {
	return &ClientPool{
		clients:      make(map[*connection.Settings]*http.Client),
		maxIdleConns: maxIdleConns,
	}
}

// GetClient returns the HTTP client for s, creating it on first use. The
// client applies the timeout, proxy and concurrency bound of s and reports
// every response through an Observer. s is frozen.
func (p *ClientPool) GetClient(s *connection.Settings) *http.Client {
	p.mu.RLock()
	client, exists := p.clients[s]
	p.mu.RUnlock()

	if exists {
		return client
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if client, exists = p.clients[s]; exists {
		return client
	}

	transport := &http.Transport{
		Proxy:               proxyFunc(s.Proxy()),
		MaxConnsPerHost:     s.MaxConcurrentRequests(),
		MaxIdleConnsPerHost: p.maxIdleConns,
		IdleConnTimeout:     90 * time.Second,
	}

	client = &http.Client{
		Transport: NewObserver(transport, s),
		Timeout:   s.Timeout(),
	}

	p.clients[s] = client
	return client
}

// RemoveClient removes and closes the client for s
func (p *ClientPool) RemoveClient(s *connection.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[s]; exists {
		client.CloseIdleConnections()
		delete(p.clients, s)
	}
}

// CloseAll closes all clients in the pool
func (p *ClientPool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, client := range p.clients {
		client.CloseIdleConnections()
	}
	p.clients = make(map[*connection.Settings]*http.Client)
}

func proxyFunc(proxy *connection.Proxy) func(*http.Request) (*url.URL, error) {
	if proxy == nil {
		return nil
	}
	return http.ProxyURL(proxy.URL())
}
