package game

import (
	"fmt"
	"strings"
)

// ConfigError reports a malformed choice table. A game must not start with
// one.
type ConfigError struct {
	Reason  string
	Choices []string
}

func (e *ConfigError) Error() string {
	if len(e.Choices) == 0 {
		return "invalid choice table: " + e.Reason
	}
	return fmt.Sprintf("invalid choice table: %s (%s)", e.Reason, strings.Join(e.Choices, ", "))
}

// InvalidChoiceError is returned when a round is requested with a name that
// is not in the table.
type InvalidChoiceError struct {
	Name string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice: %q", e.Name)
}
