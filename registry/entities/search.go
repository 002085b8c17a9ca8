package entities

import "time"

// SortField enumerates the fields a search can be ordered by.
type SortField string

const (
	SortByName         SortField = "name"
	SortByManufacturer SortField = "manufacturer"
	SortByAtcCode      SortField = "atcCode"
)

// SortDirection is the requested ordering direction.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// MaxPageSize is the upper bound for the page size, inclusive.
const MaxPageSize = 100

// MaxTermLength bounds the search term length in characters.
const MaxTermLength = 100

// SearchRequest is a normalized inbound search. It is caller-owned and
// treated as immutable once validated.
type SearchRequest struct {
	Term          string
	Manufacturer  string
	AtcCode       string
	Page          int
	Size          int
	SortField     SortField
	SortDirection SortDirection
}

// AppliedFilters returns the filter map actually applied upstream:
// only non-empty filters appear.
func (r *SearchRequest) AppliedFilters() map[string]string {
	filters := make(map[string]string)
	if r.Manufacturer != "" {
		filters["manufacturer"] = r.Manufacturer
	}
	if r.AtcCode != "" {
		filters["atcCode"] = r.AtcCode
	}
	return filters
}

// PaginationInfo describes the returned page relative to the upstream-reported
// total. NumberOfElements is always <= Size, and HasNext holds exactly when
// (Page+1)*Size < TotalElements.
type PaginationInfo struct {
	Page             int   `json:"page"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	TotalElements    int64 `json:"totalElements"`
	HasNext          bool  `json:"hasNext"`
	HasPrevious      bool  `json:"hasPrevious"`
}

// NewPaginationInfo computes pagination fields from the requested page/size
// and the upstream-reported total.
func NewPaginationInfo(page, size, elements int, total int64) PaginationInfo {
	return PaginationInfo{
		Page:             page,
		Size:             size,
		NumberOfElements: elements,
		TotalElements:    total,
		HasNext:          int64(page+1)*int64(size) < total,
		HasPrevious:      page > 0,
	}
}

// SearchInfo is provenance metadata about how a search was served.
// It is not business data: a test must be able to reconstruct it from the
// code path taken.
type SearchInfo struct {
	SearchTerm string            `json:"searchTerm"`
	Filters    map[string]string `json:"filters"`
	DurationMs int64             `json:"durationMs"`
	CacheHit   bool              `json:"cacheHit"`
	Timestamp  time.Time         `json:"timestamp"`
}

// CachedPage is the cache value: a fully materialized result page.
// The cache owns its entries independently of any request lifecycle.
type CachedPage struct {
	Drugs      []DrugSummary  `json:"drugs"`
	Pagination PaginationInfo `json:"pagination"`
}

// SearchResult is the orchestrator's successful outcome.
type SearchResult struct {
	Drugs      []DrugSummary
	Pagination PaginationInfo
	SearchInfo SearchInfo
}
