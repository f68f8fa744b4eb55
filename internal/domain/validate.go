package domain

import "fmt"

// ValidateToken checks required fields on a Token.
func ValidateToken(t Token) error {
	if t.Text == "" {
		return fmt.Errorf("token text is required")
	}
	if t.Tag == "" {
		return fmt.Errorf("token tag is required")
	}
	return nil
}

// ValidateResult checks every token of a Result.
func ValidateResult(r Result) error {
	for i, t := range r.Tokens {
		if err := ValidateToken(t); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
	}
	return nil
}

// ValidateOutcome checks the internal consistency of an Outcome.
func ValidateOutcome(o Outcome) error {
	if o.Line < 1 {
		return fmt.Errorf("line must be >= 1, got %d", o.Line)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("invalid status: %q", o.Status)
	}
	if o.Status == StatusMatch && (!o.PhonemesMatch || (o.TokenCountCompared && !o.TokenCountMatch)) {
		return fmt.Errorf("status %q contradicts comparison flags", o.Status)
	}
	return nil
}
