// Package rut validates and formats Chilean RUT/RUN identifiers.
package rut

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalid is returned by Format when the identifier fails validation.
var ErrInvalid = errors.New("invalid rut")

// Clean strips every non-alphanumeric character and upper-cases the rest.
// Letters are kept so that anything but a trailing K fails validation.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Split separates a cleaned identifier into body and check character.
func Split(s string) (body, check string, ok bool) {
	clean := Clean(s)
	if len(clean) < 2 {
		return "", "", false
	}
	return clean[:len(clean)-1], clean[len(clean)-1:], true
}

// CheckDigit computes the modulo-11 check character for a numeric body.
func CheckDigit(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return "", false
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch rem := 11 - sum%11; rem {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return string(rune('0' + rem)), true
	}
}

// Validate reports whether s carries a correct check character. Malformed input is invalid.
func Validate(s string) bool {
	body, check, ok := Split(s)
	if !ok {
		return false
	}
	expected, ok := CheckDigit(body)
	if !ok {
		return false
	}
	return strings.EqualFold(expected, check)
}

// Format renders a valid identifier as 12.345.678-5.
func Format(s string) (string, error) {
	if !Validate(s) {
		return "", ErrInvalid
	}
	body, check, _ := Split(s)
	body = strings.TrimLeft(body, "0")
	if body == "" {
		body = "0"
	}

	var b strings.Builder
	lead := len(body) % 3
	if lead > 0 {
		b.WriteString(body[:lead])
	}
	for i := lead; i < len(body); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(body[i : i+3])
	}
	b.WriteByte('-')
	b.WriteString(check)
	return b.String(), nil
}
