package domain

import "fmt"

// Rule identifies the check that rejected a descriptor. Rule ids are stable so that
// rejections can be grouped and grepped independently of their message text.
type Rule string

// ValidationOutcome is the typed result of validating one descriptor.
type ValidationOutcome struct {
	Valid  bool
	Rule   Rule
	Reason string
}

// Accept returns a passing outcome.
func Accept() ValidationOutcome {
	return ValidationOutcome{Valid: true}
}

// Reject returns a failing outcome for the given rule.
func Reject(rule Rule, format string, args ...any) ValidationOutcome {
	return ValidationOutcome{
		Rule:   rule,
		Reason: fmt.Sprintf(format, args...),
	}
}

// String implements fmt.Stringer.
func (o ValidationOutcome) String() string {
	if o.Valid {
		return "valid"
	}
	return fmt.Sprintf("[%s] %s", o.Rule, o.Reason)
}
