package utils

import (
	"fmt"
	"strings"
)

// DefaultCountryCode is prefixed to bare national numbers.
const DefaultCountryCode = "+91"

// NormalizePhone formats a guardian phone number into E.164. Accepts bare
// 10-digit national numbers, numbers with a leading zero, and numbers already
// carrying a country code with or without punctuation.
func NormalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	hasPlus := strings.HasPrefix(trimmed, "+")

	var digits strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
			// punctuation is dropped
		default:
			return "", fmt.Errorf("phone number %q contains invalid character %q", raw, r)
		}
	}

	number := digits.String()
	if hasPlus {
		if len(number) < 11 || len(number) > 15 {
			return "", fmt.Errorf("phone number %q has invalid length", raw)
		}
		return "+" + number, nil
	}

	number = strings.TrimPrefix(number, "0")
	if len(number) == 10 {
		return DefaultCountryCode + number, nil
	}
	if len(number) == 12 && strings.HasPrefix(number, strings.TrimPrefix(DefaultCountryCode, "+")) {
		return "+" + number, nil
	}

	return "", fmt.Errorf("phone number %q has invalid length", raw)
}
