// Package handlers provides the HTTP surface of the gateway. It is the only
// package that produces boundary-facing shapes: the success envelope
// {drugs, pagination, searchInfo} and the uniform error envelope.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/medregistry/search-gateway/failure"
	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/registry/entities"
)

// Handler serves the search API with injected dependencies.
type Handler struct {
	searcher interfaces.DrugSearcher
}

// NewHandler creates the HTTP handler set.
func NewHandler(searcher interfaces.DrugSearcher) *Handler {
	return &Handler{searcher: searcher}
}

// searchResponse is the boundary success envelope. Field names are part of
// the contract and stable across versions.
type searchResponse struct {
	Drugs      []entities.DrugSummary  `json:"drugs"`
	Pagination entities.PaginationInfo `json:"pagination"`
	SearchInfo entities.SearchInfo     `json:"searchInfo"`
}

// SearchDrugs handles GET /api/v1/drugs/search.
func (h *Handler) SearchDrugs(w http.ResponseWriter, r *http.Request) {
	req, bindErr := bindSearchRequest(r)
	if bindErr != nil {
		respondWithFailure(w, r, bindErr)
		return
	}

	result, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		respondWithFailure(w, r, failure.From(err))
		return
	}

	drugs := result.Drugs
	if drugs == nil {
		drugs = []entities.DrugSummary{}
	}

	respondWithJSON(w, http.StatusOK, searchResponse{
		Drugs:      drugs,
		Pagination: result.Pagination,
		SearchInfo: result.SearchInfo,
	})
}

// bindSearchRequest builds a SearchRequest from query parameters. Binding
// problems surface as the same validation failure shape as domain checks, so
// clients see one envelope regardless of where the rejection happened.
func bindSearchRequest(r *http.Request) (*entities.SearchRequest, *failure.ServiceFailure) {
	q := r.URL.Query()

	req := &entities.SearchRequest{
		Term:          q.Get("term"),
		Manufacturer:  q.Get("manufacturer"),
		AtcCode:       q.Get("atcCode"),
		Page:          0,
		Size:          20,
		SortField:     entities.SortByName,
		SortDirection: entities.SortAsc,
	}

	var violations []failure.FieldViolation

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, failure.FieldViolation{
				Field: "page", RejectedValue: raw, Message: "page must be an integer",
			})
		} else {
			req.Page = page
		}
	}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, failure.FieldViolation{
				Field: "size", RejectedValue: raw, Message: "size must be an integer",
			})
		} else {
			req.Size = size
		}
	}

	if raw := q.Get("sortField"); raw != "" {
		req.SortField = entities.SortField(raw)
	}
	if raw := q.Get("sortDirection"); raw != "" {
		req.SortDirection = entities.SortDirection(strings.ToUpper(raw))
	}

	if len(violations) > 0 {
		return nil, failure.Validation("search request validation failed", violations...)
	}
	return req, nil
}
