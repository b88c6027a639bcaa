package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/StudyRAG/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// GetClient returns the pooled client shared by the embedding and LLM providers.
// Timeouts are left to the caller's context.
func GetClient() *http.Client {
	once.Do(func() {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConns = config.MaxIdleConns
		transport.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		transport.IdleConnTimeout = config.IdleConnTimeout
		client = &http.Client{Transport: transport}
	})
	return client
}
