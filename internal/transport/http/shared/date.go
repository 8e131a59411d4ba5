package shared

import (
	"strconv"
	"strings"
	"time"

	"hrmweb/internal/forms"
)

const (
	displayDate     = "02 Jan 2006"
	displayDateTime = "02 Jan 2006 15:04"
)

// Date formats a backend date string for display; unparseable values pass
// through untouched.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "-"
	}
	parsed, err := forms.ParseDate(raw)
	if err != nil {
		return raw
	}
	return parsed.Format(displayDate)
}

func DateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayDateTime)
}

func Clock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04")
}

// InputDate renders a backend date as the value of an <input type=date>.
func InputDate(raw string) string {
	parsed, ok := forms.ParseDateValue(raw)
	if !ok {
		return ""
	}
	return parsed.Format("2006-01-02")
}

// Amount renders money with thousands separators and two decimals.
func Amount(value float64, currency string) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := strconv.FormatFloat(value, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(whole, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + "." + frac
	if negative {
		out = "-" + out
	}
	if currency != "" {
		out = currency + " " + out
	}
	return out
}

func Number(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Label turns a backend enum such as "in_progress" into "In progress".
func Label(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return "-"
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func Options(values []string) []forms.Option {
	out := make([]forms.Option, 0, len(values))
	for _, v := range values {
		out = append(out, forms.Option{Value: v, Label: Label(v)})
	}
	return out
}
