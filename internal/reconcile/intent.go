package reconcile

import "regexp"

// Classifier decides whether a rewrite instruction authorizes changing job
// titles. Implementations must be pure.
type Classifier func(instruction string) bool

var titleChangePattern = regexp.MustCompile(
	`(?i)(?:change|modify|update|adapt|adjust|transform).*(?:job title|position|role)` +
		`|(?:job title|position|role).*(?:change|modify|update|adapt|adjust|transform)`)

// IsJobTitleChangeRequested is the default Classifier. It is a lexical
// heuristic: "adapt job titles for a marketing role" matches, "make it
// punchier" does not. Both false positives and false negatives are possible.
func IsJobTitleChangeRequested(instruction string) bool {
	if instruction == "" {
		return false
	}
	return titleChangePattern.MatchString(instruction)
}
