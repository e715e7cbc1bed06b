package prefs

import "fmt"

// ThemeKey is the key the theme preference is stored under.
const ThemeKey = "theme"

// Theme is the colour theme of the presentation layer.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ParseTheme parses "dark" or "light"
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case Dark, Light:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("invalid theme: %q", s)
	}
}

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// LoadTheme reads the saved theme. Missing or unrecognised values yield
// fallback.
func LoadTheme(s Store, fallback Theme) (Theme, error) {
	v, ok, err := s.Get(ThemeKey)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	theme, err := ParseTheme(v)
	if err != nil {
		return fallback, nil
	}
	return theme, nil
}

// SaveTheme stores the theme
func SaveTheme(s Store, t Theme) error {
	return s.Set(ThemeKey, string(t))
}

// ToggleTheme flips the saved theme and returns the new value
func ToggleTheme(s Store, current Theme) (Theme, error) {
	next := current.Toggle()
	if err := SaveTheme(s, next); err != nil {
		return current, err
	}
	return next, nil
}
