// httpclient/client.go

/* Package httpclient dispatches requests for one tenant. A Client renders URLs for its API
family, resolves header profiles, injects the current token and sends each request exactly
once over the tenant's shared connector. The raw response is returned for any status; judging
it is left to the caller, see response.Evaluate. */
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/authenticationhandler"
	"github.com/deploymenttheory/go-jamfpi/concurrency"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/cookiejar"
	"github.com/deploymenttheory/go-jamfpi/headers"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/status"
	"github.com/deploymenttheory/go-jamfpi/version"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every call made through a Client.
const DefaultTimeout = 10 * time.Second

// Options carries the collaborators shared by every Client of a tenant.
type Options struct {
	TenantName        string
	Config            *config.Config
	HTTPClient        *http.Client
	Provider          authenticationhandler.CredentialProvider
	Logger            logger.Logger
	HideSensitiveData bool
	Limiter           *concurrency.Limiter // optional cap on requests in flight
}

// Client is the dispatcher shared by the classic, pro and auth manager variants.
type Client struct {
	family   config.Family
	tenant   string
	cfg      *config.Config
	http     *http.Client
	provider authenticationhandler.CredentialProvider
	log      logger.Logger
	hide     bool
	limiter  *concurrency.Limiter
}

// NewClient builds a dispatcher for family. A connector with any other timeout is copied and
// given DefaultTimeout; the copy shares the original transport and cookie jar.
func NewClient(family config.Family, opts Options) (*Client, error) {
	switch family {
	case config.FamilyClassic, config.FamilyPro, config.FamilyAuth:
	default:
		return nil, &apierrors.InitializationError{Reason: fmt.Sprintf("unknown API family %q", family)}
	}
	if opts.TenantName == "" || opts.Config == nil || opts.HTTPClient == nil || opts.Provider == nil {
		return nil, &apierrors.InitializationError{Reason: "tenant name, configuration, http client and credential provider are required"}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	hc := opts.HTTPClient
	if hc.Timeout != DefaultTimeout {
		copied := *hc
		copied.Timeout = DefaultTimeout
		hc = &copied
	}

	return &Client{
		family:   family,
		tenant:   opts.TenantName,
		cfg:      opts.Config,
		http:     hc,
		provider: opts.Provider,
		log:      opts.Logger.With(zap.String("tenant", opts.TenantName), zap.String("api", string(family))),
		hide:     opts.HideSensitiveData,
		limiter:  opts.Limiter,
	}, nil
}

// Family reports which API surface the client addresses.
func (c *Client) Family() config.Family {
	return c.family
}

// URL renders the tenant base URL plus the family prefix. The classic prefix is fixed and
// ignores version; the pro and auth families need a numeric version tag such as "1".
func (c *Client) URL(version string) (string, error) {
	if c.family != config.FamilyClassic {
		if n, err := strconv.ParseUint(version, 10, 32); err != nil || n == 0 {
			return "", &apierrors.RequestValidationError{Param: "version", Value: version, Reason: "must be a positive integer API version"}
		}
	}

	prefix, err := c.cfg.APIPrefix(c.family, version)
	if err != nil {
		return "", err
	}
	return c.cfg.BaseURL(c.tenant) + prefix, nil
}

// Header resolves a header profile for the client's family, falling back to the universal
// profiles. Values holding the token placeholder receive the current token verbatim, which
// may trigger a refresh.
func (c *Client) Header(ctx context.Context, profile string) (http.Header, error) {
	h, err := c.cfg.Header(c.family, profile)
	if err != nil {
		return nil, err
	}
	if !needsToken(h) {
		return h, nil
	}

	tok, err := c.provider.CurrentToken(ctx)
	if err != nil {
		return nil, err
	}
	return headers.Render(h, tok.Value), nil
}

func needsToken(h http.Header) bool {
	for _, values := range h {
		for _, v := range values {
			if strings.Contains(v, config.TokenPlaceholder) {
				return true
			}
		}
	}
	return false
}

// NewRequest builds a request carrying the named header profile.
func (c *Client) NewRequest(ctx context.Context, method, url, profile string, body io.Reader) (*http.Request, error) {
	h, err := c.Header(ctx, profile)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	headers.Apply(req.Header, h)
	return req, nil
}

// Do sends req exactly once. A bearer Authorization header is added when the request has
// none, and a User-Agent when unset. The response is returned whatever its status; the
// caller must close its body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := uuid.NewString()
	log := c.log.With(zap.String("request_id", requestID))

	if req.Header == nil {
		req.Header = http.Header{}
	}
	if req.Header.Get("Authorization") == "" {
		tok, err := c.provider.CurrentToken(ctx)
		if err != nil {
			log.Warn("Could not obtain token for request", zap.String("method", req.Method), zap.String("url", req.URL.String()), zap.Error(err))
			return nil, err
		}
		headers.SetAuthorization(req.Header, tok.Value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.GetUserAgentHeader())
	}

	log.Debug("Executing request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	headers.LogHeaders(log, req.Header, c.hide)

	if c.limiter != nil {
		release, err := c.limiter.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for a request slot: %w", err)
		}
		defer release()
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.LogError("request_error", req.Method, req.URL.String(), 0, "", err, "")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	log.LogRequestEnd("request_end", req.Method, req.URL.String(), resp.StatusCode, time.Since(start))
	if status.IsRedirectStatusCode(resp.StatusCode) {
		log.Warn("Redirect response returned without following", zap.Int("status_code", resp.StatusCode), zap.String("location", resp.Header.Get("Location")))
	}
	headers.CheckDeprecationHeader(resp, log)
	cookiejar.LogCookies(log, resp, c.hide)

	return resp, nil
}

// TokenState reports the lifecycle state of the tenant's token.
func (c *Client) TokenState() authenticationhandler.TokenState {
	return c.provider.State()
}
