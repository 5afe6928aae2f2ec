// endpoints/classic/configurationprofiles.go
// Package classic wraps resources of the classic API rooted at /JSSResource.
package classic

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/endpoints"
)

const uriConfigurationProfiles = "/osxconfigurationprofiles"

// ConfigurationProfiles manages macOS configuration profiles.
type ConfigurationProfiles struct {
	endpoints.Endpoint
}

// NewConfigurationProfiles binds the resource to a dispatcher of the classic family.
func NewConfigurationProfiles(client endpoints.Dispatcher) *ConfigurationProfiles {
	return &ConfigurationProfiles{endpoints.Endpoint{Client: client, Path: uriConfigurationProfiles}}
}

// GetAll lists every configuration profile in the requested format ("xml" or "json").
func (c *ConfigurationProfiles) GetAll(ctx context.Context, format string) (*http.Response, error) {
	f, err := endpoints.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "", http.MethodGet, "", "basic-"+string(f), nil)
}

// GetByID fetches one configuration profile in the requested format.
func (c *ConfigurationProfiles) GetByID(ctx context.Context, id int, format string) (*http.Response, error) {
	f, err := endpoints.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	return c.Call(ctx, "", http.MethodGet, endpoints.IDSuffix(id), "basic-"+string(f), nil)
}

// UpdateByID replaces the profile with the given XML document.
func (c *ConfigurationProfiles) UpdateByID(ctx context.Context, id int, profileXML string) (*http.Response, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return c.Call(ctx, "", http.MethodPut, endpoints.IDSuffix(id), "put", strings.NewReader(profileXML))
}

// Create posts a new profile. The classic API assigns the ID, so the request targets /id/0.
func (c *ConfigurationProfiles) Create(ctx context.Context, profileXML string) (*http.Response, error) {
	return c.Call(ctx, "", http.MethodPost, endpoints.IDSuffix(0), "post", strings.NewReader(profileXML))
}

// DeleteByID removes a profile.
func (c *ConfigurationProfiles) DeleteByID(ctx context.Context, id int) (*http.Response, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return c.Call(ctx, "", http.MethodDelete, endpoints.IDSuffix(id), "basic-json", nil)
}

func validateID(id int) error {
	if id <= 0 {
		return &apierrors.RequestValidationError{Param: "id", Value: strconv.Itoa(id), Reason: "must be a positive integer"}
	}
	return nil
}
