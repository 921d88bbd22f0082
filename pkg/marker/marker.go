// Package marker implements validation-marker traversal for diagrams.
//
// Markers annotate model elements with validation issues (errors, warnings,
// infos). The [Navigator] steps through them in a circular order: once at
// least one marker matches the active predicate, Next and Previous always
// return a marker, wrapping around at both ends of the sorted sequence.
//
// Ordering is pluggable via a [Comparator]. The zero comparator keeps the
// given sequence order; [ReadingOrder] sorts by ascending y then ascending x
// of each marker's bounds, approximating how a person scans a diagram.
package marker

import "github.com/diagramkit/diagramkit/pkg/geometry"

// Severity classifies an issue on a marker.
type Severity string

// Severities in increasing order of importance.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank returns the numeric rank of the severity for comparisons.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Issue is a single validation finding attached to a marker.
type Issue struct {
	Severity Severity `json:"severity" bson:"severity"`
	Message  string   `json:"message" bson:"message"`
}

// Marker annotates one model element with validation issues.
// Bounds point at the owning element's visual location; they are traversal
// input only and are never mutated by this package.
type Marker struct {
	OwnerID string           `json:"owner_id" bson:"owner_id"`
	Issues  []Issue          `json:"issues" bson:"issues"`
	Bounds  *geometry.Bounds `json:"bounds,omitempty" bson:"bounds,omitempty"`
}

// MaxSeverity returns the highest severity among the marker's issues,
// or the empty severity when the marker has no issues.
func (m Marker) MaxSeverity() Severity {
	var max Severity
	for _, issue := range m.Issues {
		if issue.Severity.Rank() > max.Rank() {
			max = issue.Severity
		}
	}
	return max
}

// Predicate filters markers during navigation.
type Predicate func(Marker) bool

// AnySeverity accepts every marker. This is the default predicate.
func AnySeverity(Marker) bool { return true }

// MinSeverity returns a predicate accepting markers whose maximum issue
// severity is at least s.
func MinSeverity(s Severity) Predicate {
	return func(m Marker) bool {
		return m.MaxSeverity().Rank() >= s.Rank()
	}
}
