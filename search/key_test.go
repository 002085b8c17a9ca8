package search

import (
	"strings"
	"testing"

	"github.com/medregistry/search-gateway/registry/entities"
)

func baseRequest() *entities.SearchRequest {
	return &entities.SearchRequest{
		Term:          "Aspirin",
		Page:          0,
		Size:          20,
		SortField:     entities.SortByName,
		SortDirection: entities.SortAsc,
	}
}

func TestCacheKeyFormat(t *testing.T) {
	req := baseRequest()
	req.Manufacturer = "Bayer"
	req.AtcCode = "N02BA01"

	want := "drugsearch:v1:term=aspirin:mfr=bayer:atc=n02ba01:page=0:size=20:sort=name:dir=ASC"
	if got := CacheKey(req); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestCacheKeyOmitsEmptyFilters(t *testing.T) {
	want := "drugsearch:v1:term=aspirin:page=0:size=20:sort=name:dir=ASC"
	if got := CacheKey(baseRequest()); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestCacheKeyNormalizesCasingAndWhitespace(t *testing.T) {
	a := baseRequest()
	a.Term = "  ASPIRIN "
	a.Manufacturer = "BAYER"

	b := baseRequest()
	b.Term = "aspirin"
	b.Manufacturer = "bayer"

	if CacheKey(a) != CacheKey(b) {
		t.Errorf("Expected equivalent requests to share a key, got %q and %q", CacheKey(a), CacheKey(b))
	}
}

func TestCacheKeyFilterValuesCannotForgeKeyStructure(t *testing.T) {
	// A manufacturer value embedding the separator syntax must not produce
	// the same key as a request that really carries both filters.
	a := baseRequest()
	a.Manufacturer = "x:atc=y"

	b := baseRequest()
	b.Manufacturer = "x"
	b.AtcCode = "y"

	if CacheKey(a) == CacheKey(b) {
		t.Errorf("Distinct requests share a cache key: %q", CacheKey(a))
	}

	c := baseRequest()
	c.Term = "aspirin:page=1"
	if CacheKey(c) == CacheKey(baseRequest()) {
		t.Errorf("Term with separator syntax shares a key with the plain term: %q", CacheKey(c))
	}
}

func TestCacheKeyEscapesSeparatorCharacters(t *testing.T) {
	req := baseRequest()
	req.Manufacturer = "a:b=c"

	key := CacheKey(req)
	if strings.Contains(key, "a:b=c") {
		t.Errorf("Expected separator characters to be escaped, got %q", key)
	}
}

func TestCacheKeyDistinguishesPagination(t *testing.T) {
	a := baseRequest()
	b := baseRequest()
	b.Page = 1

	c := baseRequest()
	c.Size = 50

	d := baseRequest()
	d.SortDirection = entities.SortDesc

	keys := map[string]bool{CacheKey(a): true, CacheKey(b): true, CacheKey(c): true, CacheKey(d): true}
	if len(keys) != 4 {
		t.Errorf("Expected 4 distinct keys, got %d: %v", len(keys), keys)
	}
}
