package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// Same email rule as the session service: /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ISO 4217 style code: three uppercase letters.
var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Display names: letters (any script), spaces, dots, hyphens, apostrophes.
var displayNameRe = regexp.MustCompile(`^[\p{L}\s.\-']+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// NormalizeCurrency uppercases code. ok is false when it is not a three-letter code.
func NormalizeCurrency(code string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	return c, currencyRe.MatchString(c)
}

// IsValidMediaURL accepts absolute http(s) URLs.
func IsValidMediaURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func IsValidDisplayName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 120 && displayNameRe.MatchString(name)
}
