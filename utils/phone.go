package utils

import (
	"regexp"
	"strings"
)

// 10 digits with an optional +country prefix, after stripping separators.
var phonePattern = regexp.MustCompile(`^(\+\d{1,3})?\d{10}$`)

// IsValidPhone checks the customer phone format. Spaces and dashes are
// ignored so "+91 98765-43210" and "9876543210" both pass.
func IsValidPhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}
