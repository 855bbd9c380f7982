// Package theme maps view flags to the colours the dashboard paints with.
package theme

// Flags are the two independent theme toggles of a view.
type Flags struct {
	Dark         bool
	HighContrast bool
}

// ButtonColors styles a toggle button.
type ButtonColors struct {
	Background string
	Foreground string
}

// ColorPalette is every colour a rendered page or chart needs.
type ColorPalette struct {
	Background       string
	Foreground       string
	Card             string
	FooterBackground string
	FooterForeground string
	DarkToggle       ButtonColors
	ContrastToggle   ButtonColors
	Action           ButtonColors
	Axis             string
	Grid             string
	Renewable        string
	NonRenewable     string
}

// Fixed brand colours.
const (
	Blue         = "#1976d2"
	Green        = "#388e3c"
	Yellow       = "#FFD500"
	Amber        = "#ffc107"
	Slate        = "#263238"
	NearBlack    = "#121212"
	OffWhite     = "#f5f5f5"
	White        = "#fff"
	Black        = "#000"
	Gray         = "#ccc"
	PieGreen     = "#43a047"
	PieRed       = "#e53935"
	gridLight    = "#cbd5e1"
	gridDark     = "#455a64"
	gridContrast = "#FFD500"
)

// Palette resolves the colours for the given flags. High contrast wins over
// dark mode for surfaces; each toggle button reflects only its own flag.
func Palette(f Flags) ColorPalette {
	p := ColorPalette{
		Background:       OffWhite,
		Foreground:       Black,
		Card:             White,
		FooterBackground: Blue,
		FooterForeground: White,
		DarkToggle:       ButtonColors{Background: Gray, Foreground: Black},
		ContrastToggle:   ButtonColors{Background: Gray, Foreground: Black},
		Action:           ButtonColors{Background: Blue, Foreground: White},
		Axis:             "#475569",
		Grid:             gridLight,
		Renewable:        PieGreen,
		NonRenewable:     PieRed,
	}
	if f.Dark {
		p.Background = NearBlack
		p.Foreground = White
		p.Card = Slate
		p.FooterBackground = Slate
		p.FooterForeground = Amber
		p.DarkToggle = ButtonColors{Background: Blue, Foreground: White}
		p.Axis = "#cfd8dc"
		p.Grid = gridDark
	}
	if f.HighContrast {
		p.Background = Black
		p.Foreground = Yellow
		p.Card = Black
		p.FooterBackground = Black
		p.FooterForeground = Yellow
		p.ContrastToggle = ButtonColors{Background: Yellow, Foreground: Black}
		p.Axis = Yellow
		p.Grid = gridContrast
	}
	return p
}

// SeriesColor returns the chart colour of a dataset key.
func SeriesColor(key string) string {
	if key == "Colombia" {
		return Blue
	}
	return Green
}
