package failure

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/medregistry/search-gateway/logging"
	"github.com/medregistry/search-gateway/metrics"
)

// Classification is the externally visible rendering decision for a failure.
type Classification struct {
	Status        int
	Category      string
	CorrelationID string
}

// NewCorrelationID returns a fresh opaque correlation token, derived from a
// random 128-bit value and rendered short.
func NewCorrelationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// Classify deterministically maps a failure kind to its status and category,
// mints a fresh correlation id and logs the failure with that id embedded.
// Validation logs at warn, everything else at error. The raw upstream payload
// is never part of the log line.
func Classify(f *ServiceFailure) Classification {
	c := Classification{CorrelationID: NewCorrelationID()}

	switch f.Kind {
	case KindValidation:
		c.Status = http.StatusBadRequest
		c.Category = "Validation Failed"
	case KindConnection:
		c.Status = http.StatusServiceUnavailable
		c.Category = "Service Unavailable"
	case KindTimeout:
		c.Status = http.StatusServiceUnavailable
		c.Category = "Gateway Timeout"
	case KindUpstreamFault:
		c.Status = http.StatusBadGateway
		c.Category = "Bad Gateway"
	default:
		c.Status = http.StatusInternalServerError
		c.Category = "Internal Server Error"
	}

	metrics.ServiceFailures.WithLabelValues(f.Kind.String()).Inc()

	attrs := []any{
		"correlation_id", c.CorrelationID,
		"kind", f.Kind.String(),
		"status", c.Status,
		"message", f.Message,
	}
	if f.FaultCode != "" {
		attrs = append(attrs, "fault_code", f.FaultCode)
	}
	if f.Err != nil {
		attrs = append(attrs, "cause", f.Err.Error())
	}

	switch f.Kind {
	case KindValidation:
		attrs = append(attrs, "field_errors", len(f.Fields))
		logging.Warn("Request rejected", attrs...)
	case KindUnclassified:
		attrs = append(attrs, "stack", string(debug.Stack()))
		logging.Error("Unclassified failure", attrs...)
	default:
		logging.Error("Upstream search failed", attrs...)
	}

	return c
}
