package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency renders an amount in rupees with thousands grouping,
// e.g. 1234567.5 -> "₹1,234,567.50".
func FormatCurrency(amount float64) string {
	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, strings.Join(groups, ","), frac)
}
