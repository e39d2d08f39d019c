package suggestions

import (
	"context"
	"fmt"
	"sync"
	"trip-itinerary-service/internal/domain"
)

type MockEntry struct {
	Destination string
	Kind        domain.OverlayKind
	Names       []string
}

// MockProvider serves fixed suggestions and counts lookups.
type MockProvider struct {
	mu    sync.Mutex
	m     map[string][]string
	calls int
}

func NewMockProvider(entries []MockEntry) *MockProvider {
	m := make(map[string][]string, len(entries))
	for _, e := range entries {
		m[e.Kind.String()+"|"+e.Destination] = e.Names
	}
	return &MockProvider{m: m}
}

func (p *MockProvider) Suggest(ctx context.Context, destination string, kind domain.OverlayKind) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	names, ok := p.m[kind.String()+"|"+destination]
	if !ok {
		return nil, fmt.Errorf("missing suggestions for %s %q", kind, destination)
	}

	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// Calls returns how many lookups were served.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
