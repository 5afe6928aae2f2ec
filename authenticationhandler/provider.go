// authenticationhandler/provider.go
package authenticationhandler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/headers"
	"github.com/deploymenttheory/go-jamfpi/headers/redact"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/status"
	"go.uber.org/zap"
)

// baseProvider carries what both schemes share: the token store, the tenant's collaborators
// and the invalidation call.
type baseProvider struct {
	*tokenStore
	scheme   Scheme
	tenant   string
	cfg      *config.Config
	client   *http.Client
	log      logger.Logger
	hide     bool
	exchange exchangeFunc
}

func newBaseProvider(scheme Scheme, pc ProviderConfig) baseProvider {
	return baseProvider{
		tokenStore: &tokenStore{threshold: pc.RefreshThreshold, now: pc.now},
		scheme:     scheme,
		tenant:     pc.TenantName,
		cfg:        pc.Config,
		client:     pc.HTTPClient,
		log:        pc.Logger.With(zap.String("tenant", pc.TenantName), zap.String("auth_method", string(scheme))),
		hide:       pc.HideSensitiveData,
	}
}

func (p *baseProvider) Scheme() Scheme {
	return p.scheme
}

// FetchInitialToken performs one exchange regardless of any held token.
func (p *baseProvider) FetchInitialToken(ctx context.Context) (Token, error) {
	return p.renew(ctx, p.exchange, true)
}

func (p *baseProvider) CurrentToken(ctx context.Context) (Token, error) {
	return p.current(ctx, p.exchange)
}

// Invalidate revokes the held token. Holding no token is not an error. On failure the token
// is kept.
func (p *baseProvider) Invalidate(ctx context.Context) error {
	tok, ok := p.get()
	if !ok {
		return nil
	}

	endpoint, err := p.cfg.AuthURL(p.tenant, config.AuthInvalidateToken)
	if err != nil {
		return err
	}

	resp, err := p.post(ctx, endpoint, tok.Value)
	if err != nil {
		return &apierrors.AuthError{Op: "invalidate token", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if !status.IsSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		p.log.LogError("token_invalidation", http.MethodPost, endpoint, resp.StatusCode, resp.Status, errors.New("token invalidation rejected"), string(body))
		return &apierrors.AuthError{Op: "invalidate token", URL: endpoint, StatusCode: resp.StatusCode}
	}

	p.clearIf(tok.Value)
	p.log.Info("Token invalidated")
	return nil
}

// post sends an empty POST authorized with the given bearer token.
func (p *baseProvider) post(ctx context.Context, endpoint, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if profile, err := p.cfg.Header(config.FamilyAuth, config.AuthBearer); err == nil {
		headers.Apply(req.Header, profile)
	}
	headers.SetAuthorization(req.Header, token)
	return p.client.Do(req)
}

func (p *baseProvider) logTokenObtained(tok Token, started time.Time) {
	p.log.Info("Token obtained successfully",
		zap.String("Token", redact.RedactToken(p.hide, tok.Value)),
		zap.Time("Expiry", tok.Expires),
		zap.Duration("Duration", time.Until(tok.Expires).Round(time.Second)),
		zap.Duration("ExchangeTime", time.Since(started)),
	)
}

// authFailure logs a failed exchange and wraps it as an AuthError.
func (p *baseProvider) authFailure(op, endpoint string, statusCode int, body string, err error) error {
	if err == nil {
		err = fmt.Errorf("received non-success status code")
	}
	p.log.LogError("token_exchange", http.MethodPost, endpoint, statusCode, http.StatusText(statusCode), err, body)
	return &apierrors.AuthError{Op: op, URL: endpoint, StatusCode: statusCode, Err: err}
}
