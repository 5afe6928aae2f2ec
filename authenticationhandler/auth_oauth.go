// authenticationhandler/auth_oauth.go
package authenticationhandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/headers"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuthProvider obtains tokens with the OAuth client-credentials grant.
type OAuthProvider struct {
	baseProvider
	clientID     string
	clientSecret string
}

func newOAuthProvider(clientID, clientSecret string, pc ProviderConfig) *OAuthProvider {
	p := &OAuthProvider{
		baseProvider: newBaseProvider(SchemeOAuth, pc),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	p.exchange = p.obtainToken
	return p
}

// obtainToken posts the client credentials form to the OAuth endpoint. The expiry is
// measured from the moment the exchange started.
func (p *OAuthProvider) obtainToken(ctx context.Context) (Token, error) {
	endpoint, err := p.cfg.AuthURL(p.tenant, config.AuthOAuth)
	if err != nil {
		return Token{}, err
	}

	cc := clientcredentials.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		TokenURL:     endpoint,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	client := p.client
	if profile, err := p.cfg.Header(config.FamilyAuth, config.AuthOAuth); err == nil {
		client = withProfileHeaders(p.client, profile)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	issued := p.now()
	started := time.Now()
	p.log.Debug("Attempting to obtain OAuth token", zap.String("endpoint", endpoint))

	ot, err := cc.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return Token{}, p.authFailure("oauth token exchange", endpoint, re.Response.StatusCode, string(re.Body), err)
		}
		return Token{}, p.authFailure("oauth token exchange", endpoint, 0, "", err)
	}
	if ot.Expiry.IsZero() {
		return Token{}, p.authFailure("oauth token exchange", endpoint, 0, "", fmt.Errorf("token response carried no expires_in"))
	}

	lifetime := time.Until(ot.Expiry).Round(time.Second)
	tok := Token{Value: ot.AccessToken, Expires: issued.Add(lifetime), Scheme: SchemeOAuth}
	p.logTokenObtained(tok, started)
	return tok, nil
}

// profileTransport adds a fixed header profile to every request it carries.
type profileTransport struct {
	base    http.RoundTripper
	profile http.Header
}

func (t *profileTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	headers.Apply(req.Header, t.profile)
	return t.base.RoundTrip(req)
}

func withProfileHeaders(client *http.Client, profile http.Header) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &profileTransport{base: base, profile: profile}
	return &wrapped
}
