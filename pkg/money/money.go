package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Prices are canonical decimal rupees. The decorated display form
// ("₹5,00,000") survives only at the edges: legacy admin input is parsed
// once on the way in, and listings derive the string on the way out.

const rupeeSign = "₹"

// ParseDisplay converts a decorated price string into decimal rupees.
// The rupee sign and comma grouping are stripped and the longest leading
// numeric run is parsed, mirroring how the legacy data was read. Input
// with no numeric prefix fails, and the caller excludes that listing
// from price comparisons.
func ParseDisplay(value string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(rupeeSign, "", ",", "").Replace(strings.TrimSpace(value))
	numeric := leadingNumber(cleaned)
	if numeric == "" {
		return decimal.Decimal{}, fmt.Errorf("no numeric price in %q", value)
	}
	parsed, err := decimal.NewFromString(numeric)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", value, err)
	}
	return parsed, nil
}

// FormatINR renders decimal rupees as the decorated display string with
// Indian grouping: the last three digits, then groups of two
// ("₹5,00,000"). Fractional paise are kept when present.
func FormatINR(amount decimal.Decimal) string {
	whole := amount.Truncate(0)
	digits := whole.Abs().String()

	var grouped strings.Builder
	if amount.Sign() < 0 {
		grouped.WriteByte('-')
	}
	grouped.WriteString(groupIndian(digits))

	if frac := amount.Sub(whole); !frac.IsZero() {
		fracStr := frac.Abs().String()
		grouped.WriteString(strings.TrimPrefix(fracStr, "0"))
	}

	return rupeeSign + grouped.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}

func leadingNumber(value string) string {
	end := 0
	seenDot := false
	for end < len(value) {
		c := value[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if c == '-' && end == 0 {
			end++
			continue
		}
		break
	}
	candidate := strings.TrimRight(value[:end], ".")
	if candidate == "" || candidate == "-" {
		return ""
	}
	return candidate
}
