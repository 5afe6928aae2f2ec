// headers/headers.go
// Package headers applies configured header profiles to requests and logs them safely.
package headers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/headers/redact"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"go.uber.org/zap"
)

// Render returns a copy of profile with every occurrence of the token placeholder replaced by
// token. The token is inserted verbatim.
func Render(profile http.Header, token string) http.Header {
	out := make(http.Header, len(profile))
	for name, values := range profile {
		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = strings.ReplaceAll(v, config.TokenPlaceholder, token)
		}
		out[name] = rendered
	}
	return out
}

// Apply sets every header of src on dst, replacing existing values.
func Apply(dst, src http.Header) {
	for name, values := range src {
		dst[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
}

// SetAuthorization sets "Authorization: Bearer <token>" with the token exactly as issued.
func SetAuthorization(h http.Header, token string) {
	h.Set("Authorization", "Bearer "+token)
}

// LogHeaders writes the headers at debug level, redacting credentials when hideSensitiveData is set.
func LogHeaders(log logger.Logger, h http.Header, hideSensitiveData bool) {
	if log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	redactedHeaders := http.Header{}
	for name, values := range h {
		if len(values) > 0 {
			redactedHeaders.Set(name, redact.RedactSensitiveHeaderData(hideSensitiveData, name, values[0]))
		}
	}

	log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(redactedHeaders)))
}

// HeadersToString converts a http.Header to a string for logging, one header per line,
// sorted by name.
func HeadersToString(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headerStrings := make([]string, 0, len(names))
	for _, name := range names {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(headers[name], ", ")))
	}
	return strings.Join(headerStrings, "\n")
}

// CheckDeprecationHeader logs a warning when the response carries a Deprecation header.
func CheckDeprecationHeader(resp *http.Response, log logger.Logger) {
	deprecationHeader := resp.Header.Get("Deprecation")
	if deprecationHeader == "" {
		return
	}

	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.String()
	}
	log.Warn("API endpoint is deprecated",
		zap.String("Date", deprecationHeader),
		zap.String("Endpoint", endpoint),
	)
}
