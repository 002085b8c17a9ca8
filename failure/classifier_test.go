package failure

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyMapping(t *testing.T) {
	tests := []struct {
		name         string
		f            *ServiceFailure
		wantStatus   int
		wantCategory string
	}{
		{"validation", Validation("bad request"), http.StatusBadRequest, "Validation Failed"},
		{"connection", Connection("down", errors.New("refused")), http.StatusServiceUnavailable, "Service Unavailable"},
		{"timeout", Timeout("slow", errors.New("deadline")), http.StatusServiceUnavailable, "Gateway Timeout"},
		{"upstream fault", UpstreamFault("SOAP-100", "internal error"), http.StatusBadGateway, "Bad Gateway"},
		{"unclassified", Unclassified("odd", errors.New("boom")), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.f)
			if c.Status != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, c.Status)
			}
			if c.Category != tt.wantCategory {
				t.Errorf("Expected category %q, got %q", tt.wantCategory, c.Category)
			}
			if c.CorrelationID == "" {
				t.Error("Expected a correlation id")
			}
		})
	}
}

func TestClassifyIsDeterministicPerKind(t *testing.T) {
	f := Timeout("slow", nil)

	first := Classify(f)
	second := Classify(f)

	if first.Status != second.Status || first.Category != second.Category {
		t.Errorf("Expected identical status/category for the same kind, got %+v and %+v", first, second)
	}
}

func TestClassifyMintsFreshCorrelationIDs(t *testing.T) {
	f := Connection("down", nil)

	first := Classify(f)
	second := Classify(f)

	if first.CorrelationID == second.CorrelationID {
		t.Errorf("Expected distinct correlation ids, got %q twice", first.CorrelationID)
	}
}

func TestNewCorrelationIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewCorrelationID()
		if len(id) != 16 {
			t.Fatalf("Expected 16-character id, got %q", id)
		}
		for _, r := range id {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
				t.Fatalf("Expected lowercase hex, got %q", id)
			}
		}
		if seen[id] {
			t.Fatalf("Correlation id %q repeated", id)
		}
		seen[id] = true
	}
}
