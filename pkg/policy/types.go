package policy

import (
	"time"
)

// Severity represents the severity level of a policy violation.
type Severity string

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = "info"

	// SeverityWarning is for settings that probably need review.
	SeverityWarning Severity = "warning"

	// SeverityError is for settings that cannot work on the board.
	SeverityError Severity = "error"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Policy represents a policy rule with its Rego code.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name" validate:"required"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the Rego policy code.
	Rego string `json:"rego" validate:"required"`

	// Severity is the default severity for violations.
	Severity Severity `json:"severity" validate:"omitempty,oneof=info warning error"`

	// Enabled indicates if the policy is active.
	Enabled bool `json:"enabled"`

	// Builtin marks the policies shipped with boardcfg.
	Builtin bool `json:"builtin"`

	// Source is the file the policy was loaded from.
	Source string `json:"source,omitempty"`
}

// Violation represents a single policy violation.
type Violation struct {
	// Policy is the name of the policy that was violated.
	Policy string `json:"policy" yaml:"policy"`

	// Key is the configuration key involved, if the policy named one.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Message is a human-readable violation message.
	Message string `json:"message" yaml:"message"`

	// Severity is the violation severity level.
	Severity Severity `json:"severity" yaml:"severity"`
}

// Result represents the result of policy evaluation.
type Result struct {
	// Violations lists all policy violations, ordered by policy and key.
	Violations []Violation `json:"violations,omitempty"`

	// Errors lists policies that failed to evaluate.
	Errors []string `json:"errors,omitempty"`

	// EvaluatedPolicies lists the names of policies that were evaluated.
	EvaluatedPolicies []string `json:"evaluated_policies"`

	// Duration is how long the evaluation took.
	Duration time.Duration `json:"duration"`
}

// Count returns the number of violations with severity s.
func (r *Result) Count(s Severity) int {
	n := 0
	for i := range r.Violations {
		if r.Violations[i].Severity == s {
			n++
		}
	}
	return n
}

// Failed reports whether any error-severity violation was found.
func (r *Result) Failed() bool {
	return r.Count(SeverityError) > 0
}
