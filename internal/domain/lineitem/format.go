package lineitem

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var clPrinter = message.NewPrinter(language.MustParse("es-CL"))

// FormatCLP renders an amount as Chilean pesos with es-CL digit grouping, e.g. $29.155.
func FormatCLP(v float64) string {
	rounded := int64(math.Round(v))
	if rounded < 0 {
		return "-$" + clPrinter.Sprintf("%d", -rounded)
	}
	return "$" + clPrinter.Sprintf("%d", rounded)
}

// FormatPercent renders a percentage with up to two decimals.
func FormatPercent(v float64) string {
	if v == math.Trunc(v) {
		return clPrinter.Sprintf("%d%%", int64(v))
	}
	return clPrinter.Sprintf("%.2f%%", v)
}
