package search

import (
	"testing"

	"github.com/medregistry/search-gateway/registry/entities"
)

func sampleDrugs() []entities.DrugSummary {
	return []entities.DrugSummary{
		{ID: "HU-003", Name: "rubophen", Manufacturer: "Sanofi", AtcCode: "N02BE01"},
		{ID: "HU-001", Name: "Aspirin", Manufacturer: "Bayer", AtcCode: "N02BA01"},
		{ID: "HU-002", Name: "Algopyrin", Manufacturer: "sanofi", AtcCode: "N02BB02"},
	}
}

func ids(drugs []entities.DrugSummary) []string {
	out := make([]string, len(drugs))
	for i, d := range drugs {
		out[i] = d.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOrderDrugs(t *testing.T) {
	tests := []struct {
		name  string
		field entities.SortField
		dir   entities.SortDirection
		want  []string
	}{
		{"name ascending is case-insensitive", entities.SortByName, entities.SortAsc, []string{"HU-002", "HU-001", "HU-003"}},
		{"name descending", entities.SortByName, entities.SortDesc, []string{"HU-003", "HU-001", "HU-002"}},
		{"atc ascending", entities.SortByAtcCode, entities.SortAsc, []string{"HU-001", "HU-002", "HU-003"}},
		{"unknown field falls back to name", entities.SortField("bogus"), entities.SortAsc, []string{"HU-002", "HU-001", "HU-003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drugs := sampleDrugs()
			orderDrugs(drugs, tt.field, tt.dir)
			if got := ids(drugs); !equalIDs(got, tt.want) {
				t.Errorf("Expected order %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOrderDrugsBreaksTiesOnID(t *testing.T) {
	drugs := sampleDrugs()
	orderDrugs(drugs, entities.SortByManufacturer, entities.SortAsc)

	// "Sanofi" and "sanofi" compare equal case-insensitively; the identifier
	// decides their order in both directions.
	if got := ids(drugs); !equalIDs(got, []string{"HU-001", "HU-002", "HU-003"}) {
		t.Errorf("Expected ascending order with ID tiebreak, got %v", got)
	}

	orderDrugs(drugs, entities.SortByManufacturer, entities.SortDesc)
	if got := ids(drugs); !equalIDs(got, []string{"HU-002", "HU-003", "HU-001"}) {
		t.Errorf("Expected descending order with ascending ID tiebreak, got %v", got)
	}
}

func TestOrderDrugsIsDeterministic(t *testing.T) {
	first := sampleDrugs()
	orderDrugs(first, entities.SortByName, entities.SortAsc)

	// A differently pre-ordered copy must land in the same final order.
	shuffled := []entities.DrugSummary{first[2], first[0], first[1]}
	orderDrugs(shuffled, entities.SortByName, entities.SortAsc)

	if !equalIDs(ids(first), ids(shuffled)) {
		t.Errorf("Expected identical order regardless of input order, got %v and %v", ids(first), ids(shuffled))
	}
}
