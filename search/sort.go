package search

import (
	"sort"
	"strings"

	"github.com/medregistry/search-gateway/registry/entities"
)

// orderDrugs sorts a page by the requested field and direction. Ties on the
// sort field always break on the identifier ascending, so the ordering is
// fully deterministic regardless of upstream ordering.
func orderDrugs(drugs []entities.DrugSummary, field entities.SortField, dir entities.SortDirection) {
	sort.Slice(drugs, func(i, j int) bool {
		a, b := sortKey(&drugs[i], field), sortKey(&drugs[j], field)
		if a != b {
			if dir == entities.SortDesc {
				return a > b
			}
			return a < b
		}
		return drugs[i].ID < drugs[j].ID
	})
}

func sortKey(d *entities.DrugSummary, field entities.SortField) string {
	switch field {
	case entities.SortByManufacturer:
		return strings.ToLower(d.Manufacturer)
	case entities.SortByAtcCode:
		return strings.ToLower(d.AtcCode)
	default:
		return strings.ToLower(d.Name)
	}
}
