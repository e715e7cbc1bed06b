package game

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Choice is one selectable move and the set of moves it defeats.
type Choice struct {
	Name  string
	Key   string // keyboard shortcut
	Emoji string
	Beats []string
}

// Defeats reports whether c beats the named choice.
func (c Choice) Defeats(name string) bool {
	return slices.Contains(c.Beats, name)
}

// String returns the choice name.
func (c Choice) String() string {
	return c.Name
}

// Label returns the emoji followed by the name when an emoji is set.
func (c Choice) Label() string {
	if c.Emoji == "" {
		return c.Name
	}
	return c.Emoji + " " + c.Name
}

// clone returns c with its own Beats slice.
func (c Choice) clone() Choice {
	c.Beats = slices.Clone(c.Beats)
	return c
}

// Validation controls how strictly NewTable checks the beats relation.
type Validation int

const (
	// Strict requires exactly one side of every distinct pair to win.
	Strict Validation = iota
	// Lenient allows pairs where neither side wins; those resolve as a bot
	// win. Contradictions and unknown names are still rejected.
	Lenient
)

// String returns the string representation of a validation mode
func (v Validation) String() string {
	switch v {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// Table is the immutable set of choices a game is played with.
type Table struct {
	choices []Choice
	byName  map[string]int
	byKey   map[string]int
}

// DefaultChoices returns the shipped choice set. Stone beats scissors and
// paper so that every pair has exactly one winner.
func DefaultChoices() []Choice {
	return []Choice{
		{Name: "rock", Key: "r", Emoji: "🪨", Beats: []string{"scissors", "stone"}},
		{Name: "paper", Key: "p", Emoji: "📄", Beats: []string{"rock"}},
		{Name: "scissors", Key: "s", Emoji: "✂️", Beats: []string{"paper"}},
		{Name: "stone", Key: "t", Emoji: "🪵", Beats: []string{"scissors", "paper"}},
	}
}

// NewTable validates choices in Strict mode and builds a Table.
func NewTable(choices []Choice) (*Table, error) {
	return NewTableWithValidation(choices, Strict)
}

// NewTableWithValidation validates choices with the given mode and builds a
// Table. Any malformed input yields a *ConfigError.
func NewTableWithValidation(choices []Choice, mode Validation) (*Table, error) {
	if len(choices) < 2 {
		return nil, &ConfigError{Reason: fmt.Sprintf("need at least 2 choices, got %d", len(choices))}
	}

	t := &Table{
		choices: make([]Choice, len(choices)),
		byName:  make(map[string]int, len(choices)),
		byKey:   make(map[string]int, len(choices)),
	}

	for i, c := range choices {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("choice %d has no name", i)}
		}
		if _, dup := t.byName[name]; dup {
			return nil, &ConfigError{Reason: "duplicate choice", Choices: []string{name}}
		}
		if c.Key != "" {
			if other, dup := t.byKey[c.Key]; dup {
				return nil, &ConfigError{
					Reason:  fmt.Sprintf("duplicate key %q", c.Key),
					Choices: []string{choices[other].Name, name},
				}
			}
			t.byKey[c.Key] = i
		}
		t.byName[name] = i

		// The table keeps its own copy; getters hand out copies too.
		c.Name = name
		t.choices[i] = c.clone()
	}

	for _, c := range t.choices {
		for _, beaten := range c.Beats {
			if beaten == c.Name {
				return nil, &ConfigError{Reason: "choice beats itself", Choices: []string{c.Name}}
			}
			if _, ok := t.byName[beaten]; !ok {
				return nil, &ConfigError{Reason: fmt.Sprintf("unknown choice %q referenced", beaten), Choices: []string{c.Name}}
			}
		}
	}

	for i := 0; i < len(t.choices); i++ {
		for j := i + 1; j < len(t.choices); j++ {
			a, b := t.choices[i], t.choices[j]
			ab, ba := a.Defeats(b.Name), b.Defeats(a.Name)
			switch {
			case ab && ba:
				return nil, &ConfigError{Reason: "contradictory pair", Choices: []string{a.Name, b.Name}}
			case !ab && !ba && mode == Strict:
				return nil, &ConfigError{Reason: "incomplete pair, neither side wins", Choices: []string{a.Name, b.Name}}
			}
		}
	}

	return t, nil
}

// Len returns the number of choices.
func (t *Table) Len() int {
	return len(t.choices)
}

// At returns the choice at index i in configuration order.
func (t *Table) At(i int) Choice {
	return t.choices[i].clone()
}

// Choices returns a copy of the choices in configuration order.
func (t *Table) Choices() []Choice {
	out := make([]Choice, len(t.choices))
	for i, c := range t.choices {
		out[i] = c.clone()
	}
	return out
}

// Names returns the choice names in configuration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.choices))
	for i, c := range t.choices {
		names[i] = c.Name
	}
	return names
}

// Get looks up a choice by name.
func (t *Table) Get(name string) (Choice, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Choice{}, false
	}
	return t.choices[i].clone(), true
}

// MustGet looks up a choice by name and panics if it is missing.
func (t *Table) MustGet(name string) Choice {
	c, ok := t.Get(name)
	if !ok {
		panic(fmt.Sprintf("unknown choice %q", name))
	}
	return c
}

// ByKey looks up a choice by its keyboard shortcut.
func (t *Table) ByKey(key string) (Choice, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Choice{}, false
	}
	return t.choices[i].clone(), true
}

// Gaps returns the pairs where neither side wins. Always empty for a table
// built in Strict mode.
func (t *Table) Gaps() [][2]string {
	var gaps [][2]string
	for i := 0; i < len(t.choices); i++ {
		for j := i + 1; j < len(t.choices); j++ {
			a, b := t.choices[i], t.choices[j]
			if !a.Defeats(b.Name) && !b.Defeats(a.Name) {
				gaps = append(gaps, [2]string{a.Name, b.Name})
			}
		}
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i][0] != gaps[j][0] {
			return gaps[i][0] < gaps[j][0]
		}
		return gaps[i][1] < gaps[j][1]
	})
	return gaps
}
