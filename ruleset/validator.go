package ruleset

import (
	"fmt"

	"nimlib/engine"
)

// ValidationError describes one problem with a rule set document.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Validate returns the list of problems with doc (empty = valid).
func Validate(doc *Document) []ValidationError {
	var errors []ValidationError

	if len(doc.Rules) == 0 {
		errors = append(errors, ValidationError{
			Field:   "rules",
			Message: "rule set has no rules",
		})
	}

	for i, rj := range doc.Rules {
		field := fmt.Sprintf("rules[%d]", i)

		switch rj.Take.Take.Kind {
		case engine.TakeExact:
			if rj.Take.Take.Amount == 0 {
				errors = append(errors, ValidationError{
					Field:   field + ".take",
					Message: "exact take amount must be at least 1",
				})
			}
		case engine.TakeAny, engine.TakePlace:
		default:
			errors = append(errors, ValidationError{
				Field:   field + ".take",
				Message: fmt.Sprintf("unknown take kind %d", rj.Take.Take.Kind),
			})
		}

		if _, err := parseSplitRule(rj.Split); err != nil {
			errors = append(errors, ValidationError{
				Field:   field + ".split",
				Message: err.Error(),
			})
		}
	}

	return errors
}

// IsValid reports whether doc has no validation errors.
func IsValid(doc *Document) bool {
	return len(Validate(doc)) == 0
}
