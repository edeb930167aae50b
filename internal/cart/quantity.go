package cart

import (
	"strconv"
	"strings"
)

// ParseQuantity coerces free-form quantity input the way a browser number
// field is read: the leading integer counts ("2.5" is 2, "3abc" is 3), and
// anything without one, or below 1, becomes 1.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
