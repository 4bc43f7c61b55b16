package reconcile

import (
	"math"
	"strconv"
	"strings"
	"time"

	"merchhold/domain/schema"
	"merchhold/domain/table"
)

// serialEpoch is the Excel day-count epoch. Day 1 is 1900-01-01, but
// the epoch sits at 1899-12-30 to absorb the leap-year-1900 bug the
// format inherited from Lotus.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are the string shapes dates arrive in, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"Jan/2/2006",
	"January/2/2006",
	"Jan 2, 2006",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-2006",
}

// NormalizeDate renders any supported date input as MM/DD/YYYY.
// Numeric inputs are treated as Excel serial day counts; a 12-hour
// offset counters the timezone drift serials pick up when exported.
// Unparseable strings come back verbatim.
func NormalizeDate(v table.Value) string {
	if v.IsEmpty() {
		return ""
	}

	if serial, ok := v.Float(); ok {
		return formatSerial(serial)
	}

	raw := strings.TrimSpace(v.String())
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		// Plausible serial range only; "2024" is a year, not day 2024.
		if serial > 20000 && serial < 80000 {
			return formatSerial(serial)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("01/02/2006")
		}
	}
	return raw
}

func formatSerial(serial float64) string {
	seconds := serial * 86400
	t := serialEpoch.Add(time.Duration(seconds)*time.Second + 12*time.Hour)
	return t.Format("01/02/2006")
}

// NormalizeCurrency renders a numeric input as a fixed two-decimal
// grouped numeral string ("1200.5" -> "1,200.50"). Inputs that do not
// parse as numbers are left verbatim.
func NormalizeCurrency(v table.Value) string {
	if v.IsEmpty() {
		return ""
	}

	var amount float64
	if f, ok := v.Float(); ok {
		amount = f
	} else {
		raw := strings.TrimSpace(v.String())
		cleaned := strings.ReplaceAll(raw, ",", "")
		cleaned = strings.TrimPrefix(cleaned, "$")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return raw
		}
		amount = f
	}
	return groupedFixed(amount)
}

// groupedFixed formats an amount with comma thousands grouping and
// exactly two decimals.
func groupedFixed(amount float64) string {
	neg := math.Signbit(amount)
	fixed := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// NormalizeValue applies the field's declared-kind normalization to a
// raw cell value and returns the display string.
func NormalizeValue(field schema.Field, v table.Value) string {
	switch field.ValueKind() {
	case schema.KindDate:
		return NormalizeDate(v)
	case schema.KindCurrency:
		return NormalizeCurrency(v)
	default:
		return strings.TrimSpace(v.String())
	}
}
