package style

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color in the theme file
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a named style in the theme file. Foreground refers to a
// color name, or is used verbatim when no color has that name.
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Underline   bool   `yaml:"underline,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// Theme is the parsed theme file
type Theme struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed theme.yaml
var embeddedTheme []byte

// registry maps style names to lipgloss styles
var registry = map[string]lipgloss.Style{}

func init() {
	if err := LoadDefaultTheme(); err != nil {
		registry = map[string]lipgloss.Style{}
	}
}

// LoadDefaultTheme activates the built-in theme
func LoadDefaultTheme() error {
	return LoadTheme(embeddedTheme)
}

// LoadTheme parses a YAML theme and replaces the active styles
func LoadTheme(data []byte) error {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return fmt.Errorf("failed to parse theme: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(theme.Colors))
	for name, def := range theme.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(map[string]lipgloss.Style, len(theme.Styles))
	for name, def := range theme.Styles {
		s := lipgloss.NewStyle().
			Bold(def.Bold).
			Italic(def.Italic).
			Underline(def.Underline)
		if def.Foreground != "" {
			if c, ok := colors[def.Foreground]; ok {
				s = s.Foreground(c)
			} else {
				s = s.Foreground(lipgloss.Color(def.Foreground))
			}
		}
		if def.PaddingLeft > 0 {
			s = s.PaddingLeft(def.PaddingLeft)
		}
		styles[name] = s
	}

	registry = styles
	return nil
}

// Get returns the named style, or an unstyled one
func Get(name string) lipgloss.Style {
	if s, ok := registry[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text
func Render(name, text string) string {
	return Get(name).Render(text)
}
