package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// Strategy turns extracted document text into ordered owner records.
// Implementations must be pure: same document in, same records out.
type Strategy interface {
	Parse(doc types.Document) []types.OwnerRecord
}

// Provider selectors.
const (
	ProviderGuarida   = "guarida"
	ProviderProtocolo = "protocolo"
)

// Registry maps provider selectors to strategies. Register everything before
// the registry is shared; lookups are read-only.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry registers the built-in providers.
func NewRegistry(log logrus.FieldLogger) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	r.Register(ProviderGuarida, NewBlockScanner(log))
	r.Register(ProviderProtocolo, NewLineScanner(log))
	return r
}

func (r *Registry) Register(provider string, s Strategy) {
	r.strategies[normalizeProvider(provider)] = s
}

// Get resolves a provider selector, ignoring case and surrounding space.
func (r *Registry) Get(provider string) (Strategy, error) {
	if s, ok := r.strategies[normalizeProvider(provider)]; ok {
		return s, nil
	}
	return nil, common.NewAppError(common.CodeUnsupportedFormat, fmt.Sprintf("provider %q is not supported", provider), common.ErrUnsupportedFormat)
}

func (r *Registry) Providers() []string {
	out := make([]string, 0, len(r.strategies))
	for p := range r.strategies {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func normalizeProvider(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
