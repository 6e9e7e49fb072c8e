package utils

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

const (
	maxLocalPartLength = 64
	maxLabelLength     = 63
	phoneRegion        = "ID"
)

var (
	nonDigitPattern   = regexp.MustCompile(`\D`)
	phonePattern      = regexp.MustCompile(`^(?:0|62)\d{8,12}$`)
	localPartPattern  = regexp.MustCompile("^[a-zA-Z0-9!#$%&'*+/=?^_`{|}~.\\-]+$")
	domainLabelRegexp = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)
	tldPattern        = regexp.MustCompile(`^(?:[a-z]{2,63}|xn--[a-z0-9-]+)$`)

	allowedURLSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}
)

// ValidateEmail reports whether s is a syntactically valid email address
func ValidateEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]

	if len(local) > maxLocalPartLength || !localPartPattern.MatchString(local) {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}

	// Internationalized domains are checked in their ASCII form
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil || ascii == "" {
		return false
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > maxLabelLength || !domainLabelRegexp.MatchString(label) {
			return false
		}
	}
	return tldPattern.MatchString(labels[len(labels)-1])
}

// ValidatePhone reports whether s, stripped of non-digits, looks like an Indonesian
// number: a leading 0 or 62 followed by 8 to 12 digits
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(nonDigitPattern.ReplaceAllString(s, ""))
}

// CleanPhoneNumber strips non-digits and rewrites a domestic leading 0 to the 62 country code.
// The result is not validated.
func CleanPhoneNumber(s string) string {
	digits := nonDigitPattern.ReplaceAllString(s, "")
	if strings.HasPrefix(digits, "0") {
		digits = "62" + digits[1:]
	}
	return digits
}

// CleanEmail trims surrounding whitespace and lower-cases the address
func CleanEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateURL reports whether s is an absolute URL with a supported scheme and a host
func ValidateURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return allowedURLSchemes[strings.ToLower(u.Scheme)] && u.Hostname() != ""
}

// IsDialablePhone reports whether a cleaned 62-prefixed number is a valid
// Indonesian number according to libphonenumber metadata
func IsDialablePhone(s string) bool {
	digits := nonDigitPattern.ReplaceAllString(s, "")
	if digits == "" {
		return false
	}
	number, err := phonenumbers.Parse("+"+CleanPhoneNumber(digits), phoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(number, phoneRegion)
}
