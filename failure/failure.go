// Package failure defines the closed failure vocabulary of the gateway.
//
// Every error crossing the upstream-collaborator boundary is translated into
// a ServiceFailure exactly once; no component downstream of that boundary
// branches on raw transport errors. The classifier maps each failure kind to
// its externally visible status and category.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the tag of the ServiceFailure union.
type Kind int

const (
	KindValidation Kind = iota
	KindConnection
	KindTimeout
	KindUpstreamFault
	KindUnclassified
)

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindUpstreamFault:
		return "upstream_fault"
	default:
		return "unclassified"
	}
}

// FieldViolation is one rejected request field.
type FieldViolation struct {
	Field         string `json:"field"`
	RejectedValue string `json:"rejectedValue"`
	Message       string `json:"message"`
}

// ServiceFailure is the tagged union over all failure kinds the gateway can
// surface. FaultCode is only set for KindUpstreamFault, Fields only for
// KindValidation.
type ServiceFailure struct {
	Kind      Kind
	Message   string
	FaultCode string
	Fields    []FieldViolation
	Err       error
}

// Error implements the error interface.
func (f *ServiceFailure) Error() string {
	var b strings.Builder
	b.WriteString(f.Kind.String())
	if f.FaultCode != "" {
		fmt.Fprintf(&b, " [%s]", f.FaultCode)
	}
	b.WriteString(": ")
	b.WriteString(f.Message)
	if f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	return b.String()
}

// Unwrap exposes the inner cause for errors.Is/As.
func (f *ServiceFailure) Unwrap() error {
	return f.Err
}

// Validation builds a validation failure carrying field violations.
func Validation(msg string, fields ...FieldViolation) *ServiceFailure {
	return &ServiceFailure{Kind: KindValidation, Message: msg, Fields: fields}
}

// Connection builds a connection failure (network-level loss reaching upstream).
func Connection(msg string, err error) *ServiceFailure {
	return &ServiceFailure{Kind: KindConnection, Message: msg, Err: err}
}

// Timeout builds a timeout failure (upstream unresponsive within the bound).
func Timeout(msg string, err error) *ServiceFailure {
	return &ServiceFailure{Kind: KindTimeout, Message: msg, Err: err}
}

// UpstreamFault builds a failure explicitly reported by the upstream at its
// protocol level.
func UpstreamFault(code, text string) *ServiceFailure {
	return &ServiceFailure{Kind: KindUpstreamFault, FaultCode: code, Message: text}
}

// Unclassified builds the catch-all failure.
func Unclassified(msg string, err error) *ServiceFailure {
	return &ServiceFailure{Kind: KindUnclassified, Message: msg, Err: err}
}

// From returns err as a ServiceFailure, wrapping anything unrecognized as
// Unclassified. An already-classified failure is returned as-is, never
// re-wrapped in a different kind.
func From(err error) *ServiceFailure {
	var f *ServiceFailure
	if errors.As(err, &f) {
		return f
	}
	return Unclassified("unexpected internal error", err)
}
