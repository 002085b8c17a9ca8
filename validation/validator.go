// Package validation checks inbound search requests before any cache or
// upstream interaction.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medregistry/search-gateway/failure"
	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/registry/entities"
)

// termRegex allows letters, digits, spaces, safe punctuation and the
// Hungarian accented characters present in registry names.
// Compiled once at package initialization.
var termRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\./\+'áéíóöőúüűÁÉÍÓÖŐÚÜŰ%]+$`)

// SearchValidatorImpl implements the interfaces.SearchValidator interface.
type SearchValidatorImpl struct{}

// NewSearchValidator creates a new search request validator.
func NewSearchValidator() interfaces.SearchValidator {
	return &SearchValidatorImpl{}
}

// ValidateSearchRequest rejects malformed requests as a Validation failure
// with one violation per rejected field. A nil return means the request may
// proceed upstream.
func (v *SearchValidatorImpl) ValidateSearchRequest(req *entities.SearchRequest) error {
	var violations []failure.FieldViolation

	term := strings.TrimSpace(req.Term)
	switch {
	case term == "":
		violations = append(violations, failure.FieldViolation{
			Field:         "term",
			RejectedValue: req.Term,
			Message:       "search term must not be empty",
		})
	case utf8.RuneCountInString(req.Term) > entities.MaxTermLength:
		violations = append(violations, failure.FieldViolation{
			Field:         "term",
			RejectedValue: truncateRunes(req.Term, entities.MaxTermLength),
			Message:       fmt.Sprintf("search term must not exceed %d characters", entities.MaxTermLength),
		})
	case !termRegex.MatchString(req.Term):
		violations = append(violations, failure.FieldViolation{
			Field:         "term",
			RejectedValue: req.Term,
			Message:       "search term contains invalid characters",
		})
	}

	if req.Page < 0 {
		violations = append(violations, failure.FieldViolation{
			Field:         "page",
			RejectedValue: fmt.Sprintf("%d", req.Page),
			Message:       "page index must not be negative",
		})
	}

	if req.Size < 1 || req.Size > entities.MaxPageSize {
		violations = append(violations, failure.FieldViolation{
			Field:         "size",
			RejectedValue: fmt.Sprintf("%d", req.Size),
			Message:       fmt.Sprintf("page size must be between 1 and %d", entities.MaxPageSize),
		})
	}

	switch req.SortField {
	case entities.SortByName, entities.SortByManufacturer, entities.SortByAtcCode:
	default:
		violations = append(violations, failure.FieldViolation{
			Field:         "sortField",
			RejectedValue: string(req.SortField),
			Message:       "sort field must be one of: name, manufacturer, atcCode",
		})
	}

	switch req.SortDirection {
	case entities.SortAsc, entities.SortDesc:
	default:
		violations = append(violations, failure.FieldViolation{
			Field:         "sortDirection",
			RejectedValue: string(req.SortDirection),
			Message:       "sort direction must be ASC or DESC",
		})
	}

	if utf8.RuneCountInString(req.Manufacturer) > 100 {
		violations = append(violations, failure.FieldViolation{
			Field:         "manufacturer",
			RejectedValue: truncateRunes(req.Manufacturer, 100),
			Message:       "manufacturer filter must not exceed 100 characters",
		})
	}

	if utf8.RuneCountInString(req.AtcCode) > 100 {
		violations = append(violations, failure.FieldViolation{
			Field:         "atcCode",
			RejectedValue: truncateRunes(req.AtcCode, 100),
			Message:       "ATC code filter must not exceed 100 characters",
		})
	}

	if len(violations) > 0 {
		return failure.Validation("search request validation failed", violations...)
	}
	return nil
}

// truncateRunes shortens s to at most n characters without splitting a
// multi-byte rune, marking the cut with an ellipsis.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
