package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCurrency converts a formatted currency string such as "$1,234.50"
// back into a decimal amount. All format assumptions (leading dollar sign,
// thousands separators) live here and nowhere else.
func ParseCurrency(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty currency value %q", value)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid currency value %q: %w", value, err)
	}
	return amount, nil
}

// FormatCurrency renders an amount the way the quote service does.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
