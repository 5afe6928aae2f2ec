// endpoints/endpoints.go
// Package endpoints holds what every resource wrapper shares: the dispatcher contract and a
// helper that turns a path suffix, verb and header profile into one dispatched call.
package endpoints

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
)

// Dispatcher is the part of an API client that resource wrappers depend on.
type Dispatcher interface {
	URL(version string) (string, error)
	Header(ctx context.Context, profile string) (http.Header, error)
	Do(req *http.Request) (*http.Response, error)
}

// Endpoint is a resource rooted at Path below the client's API prefix.
type Endpoint struct {
	Client Dispatcher
	Path   string
}

// Call sends one request to Path+suffix using the named header profile. The raw response is
// returned for any status.
func (e Endpoint) Call(ctx context.Context, version, method, suffix, profile string, body io.Reader) (*http.Response, error) {
	base, err := e.Client.URL(version)
	if err != nil {
		return nil, err
	}

	h, err := e.Client.Header(ctx, profile)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, base+e.Path+suffix, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	for name, values := range h {
		req.Header[name] = values
	}

	return e.Client.Do(req)
}

// Format is the representation requested from endpoints that serve both JSON and XML.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat validates a caller supplied format, case-insensitively. An empty string selects
// XML.
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case "", FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", &apierrors.RequestValidationError{Param: "format", Value: format, Reason: "allowed values are 'xml' and 'json'"}
	}
}

// IDSuffix renders the /id/{id} path segment used by the classic API.
func IDSuffix(id int) string {
	return fmt.Sprintf("/id/%d", id)
}
