package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a color scheme for the live view. Applying one restyles the
// exported styles and shifts the hue the trace palette starts from.
type Theme struct {
	Name    string
	Border  lipgloss.Color
	Title   lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Hint    lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color

	// TraceHue is where CoilPalette starts on the color wheel, in degrees.
	TraceHue float64
}

var (
	ThemeNeon = Theme{
		Name:     "neon",
		Border:   lipgloss.Color("#444466"),
		Title:    lipgloss.Color("#00ffff"),
		Label:    lipgloss.Color("#888899"),
		Value:    lipgloss.Color("#00ccff"),
		Hint:     lipgloss.Color("#666688"),
		Running:  lipgloss.Color("#00ff88"),
		Paused:   lipgloss.Color("#ffaa00"),
		TraceHue: 160,
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Border:   lipgloss.Color("#005500"),
		Title:    lipgloss.Color("#00ff00"),
		Label:    lipgloss.Color("#33aa33"),
		Value:    lipgloss.Color("#88ff88"),
		Hint:     lipgloss.Color("#007700"),
		Running:  lipgloss.Color("#00ff00"),
		Paused:   lipgloss.Color("#ffff00"),
		TraceHue: 90,
	}

	ThemeEmber = Theme{
		Name:     "ember",
		Border:   lipgloss.Color("#663333"),
		Title:    lipgloss.Color("#ff6b6b"),
		Label:    lipgloss.Color("#aa8877"),
		Value:    lipgloss.Color("#feca57"),
		Hint:     lipgloss.Color("#8b6b5c"),
		Running:  lipgloss.Color("#5fd068"),
		Paused:   lipgloss.Color("#ffc048"),
		TraceHue: 0,
	}

	CurrentTheme = ThemeNeon

	Themes = []Theme{ThemeNeon, ThemePhosphor, ThemeEmber}
)

// Apply makes t the current theme and recolors the shared styles.
func Apply(t Theme) {
	CurrentTheme = t
	Panel = Panel.BorderForeground(t.Border)
	Title = Title.Foreground(t.Title)
	Subtle = Subtle.Foreground(t.Hint)
	StatusRunning = StatusRunning.Foreground(t.Running)
	StatusPaused = StatusPaused.Foreground(t.Paused)
	MetricValue = MetricValue.Foreground(t.Value)
	MetricLabel = MetricLabel.Foreground(t.Label)
	KeyHint = KeyHint.Foreground(t.Hint)
}

// SetTheme applies the named theme; unknown names fall back to neon.
func SetTheme(name string) {
	Apply(GetTheme(name))
}

// GetTheme returns a theme by name, neon if unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

// NextTheme applies and returns the theme after the current one.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			next := Themes[(i+1)%len(Themes)]
			Apply(next)
			return next
		}
	}
	Apply(ThemeNeon)
	return ThemeNeon
}

// ThemeNames returns the available theme names.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
