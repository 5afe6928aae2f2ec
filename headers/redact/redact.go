// headers/redact/redact.go
// Package redact masks credentials before they reach the log.
package redact

import (
	"net/http"
	"strings"
)

const redacted = "REDACTED"

var sensitiveHeaders = map[string]bool{
	"Accesstoken":   true,
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

var sensitiveCookies = map[string]bool{
	"jsessionid":    true,
	"session-token": true,
}

// RedactSensitiveHeaderData redacts the value of a credential-bearing header when
// hideSensitiveData is set. Header names are matched case-insensitively.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && sensitiveHeaders[http.CanonicalHeaderKey(key)] {
		return redacted
	}
	return value
}

// RedactToken returns the token unchanged, or a fixed mask when hideSensitiveData is set.
func RedactToken(hideSensitiveData bool, token string) string {
	if hideSensitiveData {
		return redacted
	}
	return token
}

// RedactCookieValue masks session cookie values when hideSensitiveData is set.
func RedactCookieValue(hideSensitiveData bool, name, value string) string {
	if hideSensitiveData && sensitiveCookies[strings.ToLower(name)] {
		return redacted
	}
	return value
}
