package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteLightDefault(t *testing.T) {
	p := Palette(Flags{})
	assert.Equal(t, OffWhite, p.Background)
	assert.Equal(t, Black, p.Foreground)
	assert.Equal(t, White, p.Card)
	assert.Equal(t, Blue, p.FooterBackground)
}

func TestPaletteDarkRoundTrip(t *testing.T) {
	for _, contrast := range []bool{false, true} {
		flags := Flags{HighContrast: contrast}
		original := Palette(flags)

		flags.Dark = !flags.Dark
		toggled := Palette(flags)
		flags.Dark = !flags.Dark
		back := Palette(flags)

		assert.Equal(t, original.Background, back.Background)
		assert.Equal(t, original.Foreground, back.Foreground)
		assert.Equal(t, original, back)
		if !contrast {
			assert.NotEqual(t, original.Background, toggled.Background)
		}
	}
}

func TestPaletteHighContrastOverridesDark(t *testing.T) {
	p := Palette(Flags{Dark: true, HighContrast: true})
	assert.Equal(t, Black, p.Background)
	assert.Equal(t, Yellow, p.Foreground)
	assert.Equal(t, Black, p.Card)
	// each toggle keeps reflecting its own flag
	assert.Equal(t, Blue, p.DarkToggle.Background)
	assert.Equal(t, Yellow, p.ContrastToggle.Background)
}

func TestPaletteDarkFooter(t *testing.T) {
	p := Palette(Flags{Dark: true})
	assert.Equal(t, Slate, p.FooterBackground)
	assert.Equal(t, Amber, p.FooterForeground)
	assert.Equal(t, Gray, p.ContrastToggle.Background)
}

func TestSeriesColor(t *testing.T) {
	assert.Equal(t, Blue, SeriesColor("Colombia"))
	assert.Equal(t, Green, SeriesColor("Canada"))
}
