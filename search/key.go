package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/medregistry/search-gateway/registry/entities"
)

// CacheKey derives the deterministic cache key for a search request: the
// normalized lower-cased term, the non-empty filters in a fixed order, then
// page, size and sort. Requests differing only in term or filter casing map
// to the same key.
func CacheKey(req *entities.SearchRequest) string {
	parts := make([]string, 0, 8)
	parts = append(parts, "drugsearch:v1")
	parts = append(parts, "term="+keyPart(req.Term))

	if req.Manufacturer != "" {
		parts = append(parts, "mfr="+keyPart(req.Manufacturer))
	}
	if req.AtcCode != "" {
		parts = append(parts, "atc="+keyPart(req.AtcCode))
	}

	parts = append(parts,
		"page="+strconv.Itoa(req.Page),
		"size="+strconv.Itoa(req.Size),
		"sort="+string(req.SortField),
		"dir="+string(req.SortDirection),
	)

	return strings.Join(parts, ":")
}

// keyPart normalizes and escapes one caller-supplied key component. Escaping
// keeps the ":"/"=" separator structure out of reach of filter values, so no
// two distinct requests can forge the same key.
func keyPart(v string) string {
	return url.QueryEscape(strings.ToLower(strings.TrimSpace(v)))
}
