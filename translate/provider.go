package translate

import (
	"context"
	"net/http"
	"sync"
)

// Provider defines the codec for one remote translation service. A provider
// builds the service-specific HTTP request for a word batch and parses the
// service's response back into a lemma→translation mapping. Transport,
// retry, and error classification stay in the Client.
type Provider interface {
	// Name returns the provider identifier (e.g. "libretranslate", "deepl").
	Name() string

	// BuildRequest constructs the HTTP request for one word batch.
	// endpoint may be empty, in which case the provider's default is used.
	BuildRequest(ctx context.Context, endpoint string, words []string, sourceLang, targetLang string) (*http.Request, error)

	// ParseResponse extracts word→translation pairs from the response body.
	// words is the batch in submission order, for services that align
	// results by index. Pairs the service did not translate are simply
	// absent from the result.
	ParseResponse(body []byte, words []string) (map[string]string, error)
}

// providerRegistry holds registered providers.
var (
	providerRegistry = make(map[string]Provider)
	providerMu       sync.RWMutex
)

// RegisterProvider adds a provider to the registry.
func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providerRegistry[p.Name()] = p
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providerRegistry[name]
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	return names
}
