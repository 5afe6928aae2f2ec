// endpoints/endpointstest/dispatcher.go
// Package endpointstest provides a recording Dispatcher for resource wrapper tests.
package endpointstest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-jamfpi/config"
)

// Recorded is one request seen by the Dispatcher, with its body read out.
type Recorded struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// Dispatcher renders URLs and headers from the default configuration for a fixed tenant and
// answers every request with StatusCode.
type Dispatcher struct {
	Family     config.Family
	Tenant     string
	StatusCode int

	mu       sync.Mutex
	requests []Recorded
}

// New returns a Dispatcher for family that answers 200.
func New(family config.Family) *Dispatcher {
	return &Dispatcher{Family: family, Tenant: "acme", StatusCode: http.StatusOK}
}

func (d *Dispatcher) URL(version string) (string, error) {
	prefix, err := config.Default().APIPrefix(d.Family, version)
	if err != nil {
		return "", err
	}
	return config.Default().BaseURL(d.Tenant) + prefix, nil
}

func (d *Dispatcher) Header(_ context.Context, profile string) (http.Header, error) {
	return config.Default().Header(d.Family, profile)
}

func (d *Dispatcher) Do(req *http.Request) (*http.Response, error) {
	rec := Recorded{Method: req.Method, URL: req.URL.String(), Header: req.Header.Clone()}
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		rec.Body = string(b)
	}

	d.mu.Lock()
	d.requests = append(d.requests, rec)
	d.mu.Unlock()

	return &http.Response{
		StatusCode: d.StatusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

// Requests returns the requests seen so far.
func (d *Dispatcher) Requests() []Recorded {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Recorded(nil), d.requests...)
}
