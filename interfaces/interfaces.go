// Package interfaces defines the core abstractions of the gateway so that
// the orchestrator, the upstream collaborator and the cache can be exercised
// and tested independently.
package interfaces

import (
	"context"
	"time"

	"github.com/medregistry/search-gateway/registry/entities"
)

// UpstreamQuery carries the raw search parameters passed through to the
// registry upstream. Filters the upstream supports natively are applied
// there, never re-applied by the gateway.
type UpstreamQuery struct {
	Term          string
	Manufacturer  string
	AtcCode       string
	Page          int
	Size          int
	SortField     entities.SortField
	SortDirection entities.SortDirection
}

// UpstreamClient reaches the registry backend. Fetch returns the raw payload
// bytes exactly as received; every transport-level error is translated into a
// *failure.ServiceFailure before it escapes this boundary. The call respects
// ctx and its own bounded timeout.
type UpstreamClient interface {
	Fetch(ctx context.Context, q UpstreamQuery) ([]byte, error)
}

// CacheStore is the shared result cache. Keys are opaque strings built by
// the orchestrator; values are fully materialized pages. Implementations are
// safe for concurrent use; racing writes of the same key resolve
// last-write-wins.
type CacheStore interface {
	Get(ctx context.Context, key string) (*entities.CachedPage, bool)
	Put(ctx context.Context, key string, page *entities.CachedPage, ttl time.Duration) error
}

// SearchValidator validates inbound search requests before any cache or
// upstream interaction.
type SearchValidator interface {
	ValidateSearchRequest(req *entities.SearchRequest) error
}

// DrugSearcher is the search orchestrator contract. Search either succeeds
// with a result page or fails with a *failure.ServiceFailure; it never leaks
// a raw transport error.
type DrugSearcher interface {
	Search(ctx context.Context, req *entities.SearchRequest) (*entities.SearchResult, error)
}

// SearchStats is a point-in-time snapshot of orchestrator activity, used by
// the health endpoint.
type SearchStats struct {
	SearchesServed      int64
	CacheHits           int64
	LastUpstreamSuccess time.Time
	LastUpstreamError   time.Time
}

// StatsSource exposes orchestrator statistics.
type StatsSource interface {
	Stats() SearchStats
}

// ExpiredPurger is implemented by cache stores that need periodic cleanup of
// lazily expired entries.
type ExpiredPurger interface {
	PurgeExpired() int
}
