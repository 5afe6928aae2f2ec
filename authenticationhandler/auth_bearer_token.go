// authenticationhandler/auth_bearer_token.go
package authenticationhandler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/headers"
	"github.com/deploymenttheory/go-jamfpi/helpers"
	"github.com/deploymenttheory/go-jamfpi/status"
	"go.uber.org/zap"
)

// TokenResponse is the body returned by the bearer token and keep-alive endpoints.
type TokenResponse struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

// BearerProvider obtains bearer tokens by presenting basic credentials.
type BearerProvider struct {
	baseProvider
	basicToken string
}

func newBearerProvider(username, password, basicToken string, pc ProviderConfig) *BearerProvider {
	if basicToken == "" {
		basicToken = base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	} else if ok, msg := IsValidBasicToken(basicToken); !ok {
		pc.Logger.Warn(msg, zap.String("tenant", pc.TenantName))
	}

	p := &BearerProvider{
		baseProvider: newBaseProvider(SchemeBearer, pc),
		basicToken:   basicToken,
	}
	p.exchange = p.obtainToken
	return p
}

// obtainToken exchanges the basic credentials for a bearer token.
func (p *BearerProvider) obtainToken(ctx context.Context) (Token, error) {
	endpoint, err := p.cfg.AuthURL(p.tenant, config.AuthBearer)
	if err != nil {
		return Token{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return Token{}, p.authFailure("bearer token exchange", endpoint, 0, "", err)
	}
	if profile, err := p.cfg.Header(config.FamilyAuth, config.AuthBearer); err == nil {
		headers.Apply(req.Header, profile)
	}
	req.Header.Set("Authorization", "Basic "+p.basicToken)

	p.log.Debug("Attempting to obtain bearer token", zap.String("endpoint", endpoint))
	return p.doTokenRequest(req, "bearer token exchange")
}

// KeepAlive trades the held token for a fresh one with a new expiry.
func (p *BearerProvider) KeepAlive(ctx context.Context) (Token, error) {
	tok, ok := p.get()
	if !ok {
		return Token{}, &apierrors.AuthError{Op: "keep alive", Err: fmt.Errorf("no token held")}
	}

	endpoint, err := p.cfg.AuthURL(p.tenant, config.AuthKeepAlive)
	if err != nil {
		return Token{}, err
	}

	return p.shared(ctx, "keep alive", func(flightCtx context.Context) (Token, error) {
		resp, err := p.post(flightCtx, endpoint, tok.Value)
		if err != nil {
			return Token{}, p.authFailure("keep alive", endpoint, 0, "", err)
		}
		fresh, err := p.readTokenResponse(resp, endpoint, "keep alive", time.Now())
		if err != nil {
			return Token{}, err
		}
		p.set(fresh)
		return fresh, nil
	})
}

func (p *BearerProvider) doTokenRequest(req *http.Request, op string) (Token, error) {
	started := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return Token{}, p.authFailure(op, req.URL.String(), 0, "", err)
	}
	return p.readTokenResponse(resp, req.URL.String(), op, started)
}

func (p *BearerProvider) readTokenResponse(resp *http.Response, endpoint, op string, started time.Time) (Token, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, p.authFailure(op, endpoint, resp.StatusCode, "", err)
	}
	if !status.IsSuccess(resp.StatusCode) {
		return Token{}, p.authFailure(op, endpoint, resp.StatusCode, string(body), nil)
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, p.authFailure(op, endpoint, resp.StatusCode, string(body), fmt.Errorf("failed to decode token response: %w", err))
	}
	if tr.Token == "" {
		return Token{}, p.authFailure(op, endpoint, resp.StatusCode, "", fmt.Errorf("token response carried no token"))
	}

	expires, err := helpers.ParseVendorTimestamp(tr.Expires)
	if err != nil {
		return Token{}, p.authFailure(op, endpoint, resp.StatusCode, "", fmt.Errorf("failed to parse token expiry %q: %w", tr.Expires, err))
	}

	tok := Token{Value: tr.Token, Expires: expires, Scheme: SchemeBearer}
	p.logTokenObtained(tok, started)
	return tok, nil
}
