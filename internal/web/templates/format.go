package templates

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// displayTag is the locale used for numbers shown in the dashboard.
var displayTag = language.English

// FormatNumber renders a numeric cell with digit grouping ("1234567" ->
// "1,234,567"). Values that do not parse are returned unchanged.
func FormatNumber(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	p := message.NewPrinter(displayTag)

	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return p.Sprint(number.Decimal(i))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return value
	}
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(6)))
}

// FormatCount renders an integer count with digit grouping.
func FormatCount(n int) string {
	return message.NewPrinter(displayTag).Sprint(number.Decimal(n))
}

// FormatStat renders an aggregate, or "n/a" when it is undefined.
func FormatStat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return message.NewPrinter(displayTag).Sprint(number.Decimal(*v, number.MaxFractionDigits(2)))
}
