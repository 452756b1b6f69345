package stimulus

import "fmt"

// DiagnosticKind classifies a non-fatal reconstruction event.
type DiagnosticKind string

const (
	// SweepCountClamped: the protocol declared a different number of sweeps
	// than were recorded; the recorded count was used.
	SweepCountClamped DiagnosticKind = "sweep_count_clamped"
	// Unsupported: a protocol flag has not been validated, nothing was built.
	Unsupported DiagnosticKind = "unsupported"
	// ShapeMismatch: the rebuilt sweeps do not match the recorded traces,
	// typically because recording stopped early.
	ShapeMismatch DiagnosticKind = "shape_mismatch"
)

type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string { return string(d.Kind) + ": " + d.Message }

// Diagnostics are returned alongside a reconstruction result.
type Diagnostics []Diagnostic

func (d *Diagnostics) add(kind DiagnosticKind, format string, args ...any) {
	*d = append(*d, Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether any diagnostic is of kind.
func (d Diagnostics) Has(kind DiagnosticKind) bool {
	for _, x := range d {
		if x.Kind == kind {
			return true
		}
	}
	return false
}
