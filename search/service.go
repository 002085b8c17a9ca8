// Package search implements the search orchestrator: request validation,
// cache-first lookup, the upstream round trip with payload repair and domain
// mapping, deterministic ordering, pagination and cache write-back.
package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/medregistry/search-gateway/failure"
	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/logging"
	"github.com/medregistry/search-gateway/metrics"
	"github.com/medregistry/search-gateway/registry/entities"
	"github.com/medregistry/search-gateway/registryclient"
	"github.com/medregistry/search-gateway/textrepair"
)

// Service orchestrates drug searches. It holds no request-local state;
// the cache is the only resource shared across concurrent requests.
type Service struct {
	client    interfaces.UpstreamClient
	cache     interfaces.CacheStore
	validator interfaces.SearchValidator
	cacheTTL  time.Duration

	searchesServed      atomic.Int64
	cacheHits           atomic.Int64
	lastUpstreamSuccess atomic.Int64 // unix nanos, 0 = never
	lastUpstreamError   atomic.Int64
}

// NewService wires the orchestrator with its collaborators.
func NewService(client interfaces.UpstreamClient, cache interfaces.CacheStore,
	validator interfaces.SearchValidator, cacheTTL time.Duration) *Service {
	return &Service{
		client:    client,
		cache:     cache,
		validator: validator,
		cacheTTL:  cacheTTL,
	}
}

var _ interfaces.DrugSearcher = (*Service)(nil)
var _ interfaces.StatsSource = (*Service)(nil)

// Search serves one search request. Invalid requests are rejected before any
// cache or upstream interaction; every other failure is a classified
// *failure.ServiceFailure, never a raw transport error.
func (s *Service) Search(ctx context.Context, req *entities.SearchRequest) (*entities.SearchResult, error) {
	if err := s.validator.ValidateSearchRequest(req); err != nil {
		return nil, err
	}

	key := CacheKey(req)
	start := time.Now()

	if page, ok := s.cache.Get(ctx, key); ok {
		metrics.CacheHits.Inc()
		s.cacheHits.Add(1)
		s.searchesServed.Add(1)
		return s.assemble(req, page, start, true), nil
	}
	metrics.CacheMisses.Inc()

	raw, err := s.client.Fetch(ctx, interfaces.UpstreamQuery{
		Term:          req.Term,
		Manufacturer:  req.Manufacturer,
		AtcCode:       req.AtcCode,
		Page:          req.Page,
		Size:          req.Size,
		SortField:     req.SortField,
		SortDirection: req.SortDirection,
	})
	if err != nil {
		s.lastUpstreamError.Store(time.Now().UnixNano())
		return nil, failure.From(err)
	}

	page, err := registryclient.DecodePage(textrepair.Repair(raw))
	if err != nil {
		s.lastUpstreamError.Store(time.Now().UnixNano())
		return nil, failure.From(err)
	}
	s.lastUpstreamSuccess.Store(time.Now().UnixNano())

	drugs := mapRecords(page.Records)
	orderDrugs(drugs, req.SortField, req.SortDirection)

	// The upstream is trusted on the total but not on the page width.
	if len(drugs) > req.Size {
		logging.Warn("Upstream returned more records than requested, truncating",
			"returned", len(drugs), "size", req.Size)
		drugs = drugs[:req.Size]
	}

	cached := &entities.CachedPage{
		Drugs:      drugs,
		Pagination: entities.NewPaginationInfo(req.Page, req.Size, len(drugs), page.TotalElements),
	}

	// A failed cache write degrades the next request, not this one.
	if err := s.cache.Put(ctx, key, cached, s.cacheTTL); err != nil {
		logging.Warn("Failed to write search page to cache", "key", key, "error", err)
	}

	s.searchesServed.Add(1)
	return s.assemble(req, cached, start, false), nil
}

// assemble builds the orchestrator result with its provenance metadata. For
// cache hits the elapsed time covers only the lookup; for misses it covers
// the whole round trip.
func (s *Service) assemble(req *entities.SearchRequest, page *entities.CachedPage,
	start time.Time, cacheHit bool) *entities.SearchResult {
	return &entities.SearchResult{
		Drugs:      page.Drugs,
		Pagination: page.Pagination,
		SearchInfo: entities.SearchInfo{
			SearchTerm: req.Term,
			Filters:    req.AppliedFilters(),
			DurationMs: time.Since(start).Milliseconds(),
			CacheHit:   cacheHit,
			Timestamp:  time.Now().UTC(),
		},
	}
}

// mapRecords maps raw upstream records into immutable drug summaries.
// Records without an identifier are dropped, not invented.
func mapRecords(records []registryclient.Record) []entities.DrugSummary {
	drugs := make([]entities.DrugSummary, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			logging.Warn("Dropping upstream record without identifier", "name", rec.Name)
			continue
		}

		status, known := entities.ParseLifecycleStatus(rec.Status)
		if !known {
			logging.Warn("Unknown lifecycle status from upstream", "id", rec.ID, "status", rec.Status)
		}

		ingredients := make([]string, len(rec.Ingredients))
		copy(ingredients, rec.Ingredients)

		primary := ""
		if len(ingredients) > 0 {
			primary = ingredients[0]
		}

		drugs = append(drugs, entities.DrugSummary{
			ID:                   rec.ID,
			Name:                 rec.Name,
			Manufacturer:         rec.Manufacturer,
			AtcCode:              rec.AtcCode,
			ActiveIngredients:    ingredients,
			ActiveIngredient:     primary,
			PrescriptionRequired: rec.PrescriptionRequired,
			Reimbursable:         rec.Reimbursable,
			Status:               status,
		})
	}
	return drugs
}

// Stats snapshots orchestrator activity for the health endpoint.
func (s *Service) Stats() interfaces.SearchStats {
	stats := interfaces.SearchStats{
		SearchesServed: s.searchesServed.Load(),
		CacheHits:      s.cacheHits.Load(),
	}
	if ns := s.lastUpstreamSuccess.Load(); ns > 0 {
		stats.LastUpstreamSuccess = time.Unix(0, ns)
	}
	if ns := s.lastUpstreamError.Load(); ns > 0 {
		stats.LastUpstreamError = time.Unix(0, ns)
	}
	return stats
}
