// cookiejar/cookiejar.go

/* Package cookiejar attaches an in-memory cookie jar to the tenant's HTTP client and prepares
cookies for logging. Jamf Pro pins a session to a node with the jpro-ingress and APBALANCEID
cookies, so keeping them across calls keeps a tenant on one node. */
package cookiejar

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/deploymenttheory/go-jamfpi/headers/redact"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// SetupCookieJar initializes the HTTP client with a cookie jar if enabled.
func SetupCookieJar(client *http.Client, enableCookieJar bool, log logger.Logger) error {
	if !enableCookieJar {
		return nil
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Error("Failed to create cookie jar", zap.Error(err))
		return fmt.Errorf("setupCookieJar failed: %w", err)
	}
	client.Jar = jar
	log.Debug("Cookie jar enabled")
	return nil
}

// RedactSensitiveCookies returns copies of the cookies with session values masked when
// hideSensitiveData is set. The input is left untouched.
func RedactSensitiveCookies(hideSensitiveData bool, cookies []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		cp := *c
		cp.Value = redact.RedactCookieValue(hideSensitiveData, c.Name, c.Value)
		out = append(out, &cp)
	}
	return out
}

// LogCookies writes the cookies set by a response at debug level.
func LogCookies(log logger.Logger, resp *http.Response, hideSensitiveData bool) {
	if log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return
	}

	names := make([]string, 0, len(cookies))
	for _, c := range RedactSensitiveCookies(hideSensitiveData, cookies) {
		names = append(names, c.Name+"="+c.Value)
	}
	log.Debug("Response cookies", zap.Strings("Cookies", names))
}
