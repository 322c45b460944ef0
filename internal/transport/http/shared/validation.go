package shared

import (
	"slices"
	"strings"
)

// ValidationIssue is one rejected form field. Reason is shown to the user as is.
type ValidationIssue struct {
	Field  string
	Reason string
}

type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{issues: make([]ValidationIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{
		Field:  strings.TrimSpace(field),
		Reason: reason,
	})
}

// Check records reason against field unless ok holds.
func (v *Validator) Check(ok bool, field, reason string) {
	if !ok {
		v.Add(field, reason)
	}
}

func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return
	}
	for _, candidate := range allowed {
		if normalized == strings.ToLower(strings.TrimSpace(candidate)) {
			return
		}
	}
	v.Add(field, reason)
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns the recorded issues in the order they were added.
func (v *Validator) Issues() []ValidationIssue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	return slices.Clone(v.issues)
}

// Messages returns each distinct reason once, in order.
func (v *Validator) Messages() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.issues))
	for _, issue := range v.issues {
		if !slices.Contains(out, issue.Reason) {
			out = append(out, issue.Reason)
		}
	}
	return out
}
