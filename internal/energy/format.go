package energy

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// FormatValue renders a chart value with Spanish grouping and decimal
// separators, dropping the fraction for whole numbers.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.1f", v)
}

// FormatPercent renders a share such as 40 as "40 %".
func FormatPercent(v float64) string {
	return FormatValue(v) + " %"
}
