// Package entities defines the domain values served by the drug registry gateway.
package entities

// LifecycleStatus is the registry-assigned lifecycle state of a drug.
type LifecycleStatus string

const (
	StatusActive    LifecycleStatus = "ACTIVE"
	StatusSuspended LifecycleStatus = "SUSPENDED"
	StatusWithdrawn LifecycleStatus = "WITHDRAWN"
)

// ParseLifecycleStatus maps the upstream status text onto the closed variant set.
// Unknown values default to ACTIVE with ok=false so the caller can log them.
func ParseLifecycleStatus(s string) (LifecycleStatus, bool) {
	switch s {
	case "ACTIVE":
		return StatusActive, true
	case "SUSPENDED":
		return StatusSuspended, true
	case "WITHDRAWN":
		return StatusWithdrawn, true
	default:
		return StatusActive, false
	}
}

// DrugSummary is one search hit. Built once per upstream record, never
// mutated afterwards.
type DrugSummary struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Manufacturer         string          `json:"manufacturer"`
	AtcCode              string          `json:"atcCode"`
	ActiveIngredients    []string        `json:"activeIngredients"`
	ActiveIngredient     string          `json:"activeIngredient"`
	PrescriptionRequired bool            `json:"prescriptionRequired"`
	Reimbursable         bool            `json:"reimbursable"`
	Status               LifecycleStatus `json:"status"`
}
