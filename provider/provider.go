package provider

import (
	"context"
	"time"

	"github.com/araddon/dateparse"
	"github.com/newsdeck/newsdeck/model"
)

// Source is the closed set of provider discriminators. Handlers validate
// free-text input through ParseSource before anything touches the network,
// so adapters only ever see one of these values.
type Source string

const (
	SourceNewsAPI  Source = "newsapi"
	SourceGuardian Source = "guardian"
	SourceNYTimes  Source = "nytimes"
)

// AllSources returns every known source in a fixed order. Bulk aggregation
// iterates this order so summaries are stable across runs.
func AllSources() []Source {
	return []Source{SourceNewsAPI, SourceGuardian, SourceNYTimes}
}

// ParseSource validates a caller-supplied discriminator. Unknown values are
// a client input problem, not a server fault.
func ParseSource(raw string) (Source, error) {
	if raw == "" {
		return "", NewClientInputError("missing required query parameter: source")
	}
	for _, s := range AllSources() {
		if raw == string(s) {
			return s, nil
		}
	}
	return "", NewClientInputError("unknown source: %q", raw)
}

// Query is the generic query intent shared by all adapters. Each adapter
// translates it into its provider's own query-string vocabulary. Zero values
// mean "unset" and are omitted from the outgoing request.
type Query struct {
	Keyword  string
	Category string
	Author   string
	From     time.Time
	Page     int
	PageSize int
}

// Adapter is implemented once per provider. Search translates the query
// intent, issues one GET and returns the normalized result list. Lookup
// retrieves a single article by the provider's opaque id, returning
// ErrNotFound when the provider has nothing for it.
type Adapter interface {
	Source() Source
	DisplayName() string
	Search(ctx context.Context, q Query) ([]model.Article, error)
	Lookup(ctx context.Context, id string) (*model.Article, error)
}

// Registry holds the adapter for each known source.
type Registry struct {
	adapters map[Source]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Source]Adapter)}
	for _, a := range adapters {
		r.adapters[a.Source()] = a
	}
	return r
}

// Get returns the adapter registered for s. A valid source without an
// adapter is a wiring bug, reported as UnsupportedSourceError.
func (r *Registry) Get(s Source) (Adapter, error) {
	adapter, ok := r.adapters[s]
	if !ok {
		return nil, &UnsupportedSourceError{Source: s}
	}
	return adapter, nil
}

// All returns the registered adapters in AllSources order.
func (r *Registry) All() []Adapter {
	var adapters []Adapter
	for _, s := range AllSources() {
		if adapter, ok := r.adapters[s]; ok {
			adapters = append(adapters, adapter)
		}
	}
	return adapters
}

// parseTime normalizes a provider timestamp. A provider that exposes no
// usable date maps to nil, never to "now" or a sentinel.
func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	return &t
}
