package auth

import "unicode/utf16"

// StrengthLevel is the coarse rating of a password.
type StrengthLevel string

const (
	StrengthVeryWeak StrengthLevel = "very-weak"
	StrengthWeak     StrengthLevel = "weak"
	StrengthMedium   StrengthLevel = "medium"
	StrengthStrong   StrengthLevel = "strong"
)

// MinPasswordLength is the length that earns the length point.
const MinPasswordLength = 8

// Strength is the result of PasswordStrength.
type Strength struct {
	Level StrengthLevel `json:"level"`
	Score int           `json:"score"`
}

// PasswordStrength scores a password with one point for each of: sufficient length,
// a lowercase letter, an uppercase letter, a digit and a symbol.
// Letters and digits are ASCII only; any other character is a symbol.
// Length is counted in UTF-16 code units, as the browser form does.
func PasswordStrength(pw string) Strength {
	var lower, upper, digit, symbol bool
	length := 0
	for _, r := range pw {
		length += max(utf16.RuneLen(r), 1)
		switch {
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	for _, ok := range []bool{length >= MinPasswordLength, lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}

	s := Strength{Score: score}
	switch {
	case score >= 4:
		s.Level = StrengthStrong
	case score >= 3:
		s.Level = StrengthMedium
	case score >= 2:
		s.Level = StrengthWeak
	default:
		s.Level = StrengthVeryWeak
	}
	return s
}
