// redirecthandler/redirecthandler.go
package redirecthandler

import (
	"fmt"
	"net/http"

	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/status"
	"go.uber.org/zap"
)

// DefaultMaxRedirects bounds the redirect chain followed for a single call.
const DefaultMaxRedirects = 5

// RedirectHandler contains configurations for handling HTTP redirects.
type RedirectHandler struct {
	log              logger.Logger
	MaxRedirects     int
	SensitiveHeaders []string // removed on cross-host redirects
}

// NewRedirectHandler creates a new instance of RedirectHandler.
func NewRedirectHandler(log logger.Logger, maxRedirects int) *RedirectHandler {
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	return &RedirectHandler{
		log:              log,
		MaxRedirects:     maxRedirects,
		SensitiveHeaders: []string{"Authorization", "Cookie"},
	}
}

// SetupRedirectHandler installs the redirect policy on client. When follow is false the
// client returns the redirect response itself.
func SetupRedirectHandler(client *http.Client, follow bool, maxRedirects int, log logger.Logger) {
	if !follow {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return
	}
	NewRedirectHandler(log, maxRedirects).WithRedirectHandling(client)
}

// WithRedirectHandling applies the redirect handling policy to an http.Client.
func (r *RedirectHandler) WithRedirectHandling(client *http.Client) {
	client.CheckRedirect = r.checkRedirect
}

func (r *RedirectHandler) checkRedirect(req *http.Request, via []*http.Request) error {
	original := via[0]
	if original.Method == http.MethodPost || original.Method == http.MethodPatch {
		r.log.Warn("Redirect attempted on non-idempotent method, not following", zap.String("method", original.Method))
		return http.ErrUseLastResponse
	}

	if len(via) >= r.MaxRedirects {
		r.log.Warn("Maximum redirects reached", zap.Int("maxRedirects", r.MaxRedirects))
		return &MaxRedirectsError{MaxRedirects: r.MaxRedirects}
	}

	target := req.URL.String()
	for _, prev := range via {
		if prev.URL.String() == target {
			r.log.Warn("Redirect loop detected", zap.String("url", target))
			return &RedirectLoopError{URL: target}
		}
	}

	previous := via[len(via)-1]
	if req.URL.Host != previous.URL.Host {
		r.secureRequest(req)
	}

	if req.Response != nil && status.IsRedirectStatusCode(req.Response.StatusCode) {
		if status.IsPermanentRedirect(req.Response.StatusCode) {
			r.log.Info("Permanent redirect, consider updating the tenant URL", zap.String("from", previous.URL.String()), zap.String("to", target))
		}
		if req.Response.StatusCode == http.StatusSeeOther {
			adjustForSeeOther(req)
		}
	}

	r.log.Info("Redirecting request", zap.String("originalURL", previous.URL.String()), zap.String("newURL", target), zap.Int("redirectCount", len(via)))
	return nil
}

// secureRequest removes sensitive headers when the redirect leaves the original host.
func (r *RedirectHandler) secureRequest(req *http.Request) {
	for _, header := range r.SensitiveHeaders {
		req.Header.Del(header)
	}
}

// adjustForSeeOther turns the follow-up of a "303 See Other" into a bodyless GET.
func adjustForSeeOther(req *http.Request) {
	req.Method = http.MethodGet
	req.Body = nil
	req.GetBody = nil
	req.ContentLength = 0
	req.Header.Del("Content-Type")
}

// RedirectLoopError represents an error when a redirect loop is detected.
type RedirectLoopError struct {
	URL string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("redirect loop detected at %s", e.URL)
}

// MaxRedirectsError represents an error when the maximum number of redirects is exceeded.
type MaxRedirectsError struct {
	MaxRedirects int
}

func (e *MaxRedirectsError) Error() string {
	return fmt.Sprintf("stopped after %d redirects", e.MaxRedirects)
}
