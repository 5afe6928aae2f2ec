// httpclient/variants.go
package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/authenticationhandler"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/endpoints/classic"
	"github.com/deploymenttheory/go-jamfpi/endpoints/pro"
)

// ClassicClient addresses the classic API.
type ClassicClient struct {
	*Client
	ConfigurationProfiles *classic.ConfigurationProfiles
}

// NewClassicClient builds the classic API client and its resources.
func NewClassicClient(opts Options) (*ClassicClient, error) {
	c, err := NewClient(config.FamilyClassic, opts)
	if err != nil {
		return nil, err
	}
	return &ClassicClient{
		Client:                c,
		ConfigurationProfiles: classic.NewConfigurationProfiles(c),
	}, nil
}

// ProClient addresses the versioned API.
type ProClient struct {
	*Client
	SSOCertificates *pro.SSOCertificates
}

// NewProClient builds the pro API client and its resources.
func NewProClient(opts Options) (*ProClient, error) {
	c, err := NewClient(config.FamilyPro, opts)
	if err != nil {
		return nil, err
	}
	return &ProClient{
		Client:          c,
		SSOCertificates: pro.NewSSOCertificates(c),
	}, nil
}

// AuthManagerClient manages the tenant's token itself.
type AuthManagerClient struct {
	*Client
}

// NewAuthManagerClient builds the auth manager client.
func NewAuthManagerClient(opts Options) (*AuthManagerClient, error) {
	c, err := NewClient(config.FamilyAuth, opts)
	if err != nil {
		return nil, err
	}
	return &AuthManagerClient{Client: c}, nil
}

// Details returns the privileges and account of the current token.
func (a *AuthManagerClient) Details(ctx context.Context) (*http.Response, error) {
	base, err := a.URL("1")
	if err != nil {
		return nil, err
	}
	req, err := a.NewRequest(ctx, http.MethodGet, base+"/auth", "bearer_with_auth", nil)
	if err != nil {
		return nil, err
	}
	return a.Do(req)
}

type keepAliver interface {
	KeepAlive(ctx context.Context) (authenticationhandler.Token, error)
}

// KeepAlive extends the session of a bearer token. OAuth tokens cannot be kept alive.
func (a *AuthManagerClient) KeepAlive(ctx context.Context) (authenticationhandler.Token, error) {
	k, ok := a.provider.(keepAliver)
	if !ok {
		return authenticationhandler.Token{}, &apierrors.AuthError{
			Op:  "keep alive",
			Err: fmt.Errorf("not supported for %s tokens", a.provider.Scheme()),
		}
	}
	return k.KeepAlive(ctx)
}

// InvalidateToken revokes the current token. The next call through any client of the tenant
// fetches a new one.
func (a *AuthManagerClient) InvalidateToken(ctx context.Context) error {
	return a.provider.Invalidate(ctx)
}
