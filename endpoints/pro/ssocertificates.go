// endpoints/pro/ssocertificates.go
// Package pro wraps resources of the versioned API rooted at /api/v{n}.
package pro

import (
	"context"
	"net/http"

	"github.com/deploymenttheory/go-jamfpi/endpoints"
)

const uriSSOCertificate = "/sso/cert"

// SSOCertificates manages the certificate used to sign SSO requests.
type SSOCertificates struct {
	endpoints.Endpoint
}

// NewSSOCertificates binds the resource to a dispatcher of the pro family.
func NewSSOCertificates(client endpoints.Dispatcher) *SSOCertificates {
	return &SSOCertificates{endpoints.Endpoint{Client: client, Path: uriSSOCertificate}}
}

// Get returns the current SSO certificate details.
func (s *SSOCertificates) Get(ctx context.Context) (*http.Response, error) {
	return s.Call(ctx, "1", http.MethodGet, "", "basic-json", nil)
}

// Regenerate replaces the SSO certificate with a newly generated one.
func (s *SSOCertificates) Regenerate(ctx context.Context) (*http.Response, error) {
	return s.Call(ctx, "2", http.MethodPost, "", "basic-json", nil)
}

// Delete removes the SSO certificate.
func (s *SSOCertificates) Delete(ctx context.Context) (*http.Response, error) {
	return s.Call(ctx, "2", http.MethodDelete, "", "basic-json", nil)
}
