package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
	"trip-itinerary-service/internal/ports"
)

// HTTPProvider implements SuggestionProvider against a JSON place-search API.
//
// It coordinates:
//   - Destination normalization
//   - Suggestion caching (optional)
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type HTTPProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	limit   int
	cache   ports.SuggestionCache
	retry   retryPolicy
}

func NewHTTPProvider(baseURL, apiKey string, cache ports.SuggestionCache) (*HTTPProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("suggestion provider base URL is empty")
	}

	return &HTTPProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   12,
		cache:   cache,
		retry:   defaultRetry,
	}, nil
}

type searchResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (p *HTTPProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Suggest returns place names for destination, consulting the cache first.
func (p *HTTPProvider) Suggest(
	ctx context.Context,
	destination string,
	kind domain.OverlayKind,
) (_ []string, err error) {
	defer obs.Time(ctx, "suggest.http.Suggest")(&err)

	dest := p.normalize(destination)
	if dest == "" {
		return nil, errors.New("suggest: destination must be non-empty")
	}

	category, err := categoryOf(kind)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		names, ok, err := p.cache.Get(ctx, dest, kind)
		if err != nil {
			return nil, fmt.Errorf("suggest: get cache: %w", err)
		}
		if ok {
			return names, nil
		}
	}

	names, err := p.search(ctx, dest, category)
	if err != nil {
		return nil, fmt.Errorf("suggest %s for %q: %w", category, dest, err)
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, dest, kind, names); err != nil {
			log.Printf("suggestion cache write failed: %v", err)
		}
	}

	return names, nil
}

func (p *HTTPProvider) search(ctx context.Context, dest, category string) ([]string, error) {
	q := url.Values{}
	q.Set("destination", dest)
	q.Set("category", category)
	q.Set("limit", fmt.Sprint(p.limit))
	endpoint := p.baseURL + "/v1/search?" + q.Encode()

	rc, err := p.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var body searchResponse
	if err := json.NewDecoder(rc).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	names := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		names = append(names, r.Name)
	}

	return domain.UnionTokens(names), nil
}

func categoryOf(kind domain.OverlayKind) (string, error) {
	switch kind {
	case domain.OverlaySightseeing:
		return "attraction", nil
	case domain.OverlayDining:
		return "restaurant", nil
	}
	return "", fmt.Errorf("suggest: %s is not searchable", kind)
}
