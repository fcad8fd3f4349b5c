package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Form values are coerced, never rejected: the leading number is used
// ("7 hari" -> 7) and anything without one becomes zero.

var (
	leadingDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)
	leadingInt     = regexp.MustCompile(`^[+-]?\d+`)
)

func ParseCost(s string) decimal.Decimal {
	m := leadingDecimal.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDuration truncates fractional input ("7.5" -> 7). Values outside the
// int32 range become zero.
func ParseDuration(s string) int {
	n, err := strconv.ParseInt(leadingInt.FindString(strings.TrimSpace(s)), 10, 64)
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(n)
}

func ParseID(s string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return 0
	}
	return uint(n)
}
