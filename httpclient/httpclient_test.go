// httpclient/httpclient_test.go
package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/authenticationhandler"
	"github.com/deploymenttheory/go-jamfpi/concurrency"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubProvider hands out a fixed token and counts how often it was asked.
type stubProvider struct {
	token       string
	err         error
	calls       atomic.Int32
	invalidated atomic.Bool
}

func (s *stubProvider) Scheme() authenticationhandler.Scheme { return authenticationhandler.SchemeOAuth }

func (s *stubProvider) FetchInitialToken(ctx context.Context) (authenticationhandler.Token, error) {
	return s.CurrentToken(ctx)
}

func (s *stubProvider) CurrentToken(context.Context) (authenticationhandler.Token, error) {
	s.calls.Add(1)
	if s.err != nil {
		return authenticationhandler.Token{}, s.err
	}
	return authenticationhandler.Token{Value: s.token, Expires: time.Now().Add(time.Hour), Scheme: authenticationhandler.SchemeOAuth}, nil
}

func (s *stubProvider) Invalidate(context.Context) error {
	s.invalidated.Store(true)
	return nil
}

func (s *stubProvider) Reset() {}

func (s *stubProvider) State() authenticationhandler.TokenState {
	return authenticationhandler.StateValid
}

func newOptions(srvURL string, p authenticationhandler.CredentialProvider) Options {
	return Options{
		TenantName: "acme",
		Config:     config.Default().WithBaseURL(srvURL),
		HTTPClient: &http.Client{},
		Provider:   p,
	}
}

func TestNewClient_Validation(t *testing.T) {
	p := &stubProvider{token: "t"}

	_, err := NewClient(config.FamilyUniversal, newOptions("https://x", p))
	var initErr *apierrors.InitializationError
	assert.True(t, errors.As(err, &initErr))

	_, err = NewClient(config.FamilyPro, Options{TenantName: "acme"})
	assert.True(t, errors.As(err, &initErr))
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	opts := newOptions("https://x", &stubProvider{token: "t"})
	c, err := NewClient(config.FamilyPro, opts)
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Zero(t, opts.HTTPClient.Timeout, "caller's client must not be modified")

	opts.HTTPClient = &http.Client{Timeout: 3 * time.Minute}
	c, err = NewClient(config.FamilyPro, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.http.Timeout, "a longer timeout cannot override the per-call bound")
	assert.Equal(t, 3*time.Minute, opts.HTTPClient.Timeout)

	opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	c, err = NewClient(config.FamilyPro, opts)
	require.NoError(t, err)
	assert.Same(t, opts.HTTPClient, c.http)
}

func TestClient_URL(t *testing.T) {
	p := &stubProvider{token: "t"}
	opts := Options{TenantName: "acme", Config: config.Default(), HTTPClient: &http.Client{}, Provider: p}

	classicClient, err := NewClient(config.FamilyClassic, opts)
	require.NoError(t, err)
	u, err := classicClient.URL("")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.jamfcloud.com/JSSResource", u)
	u, err = classicClient.URL("7")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.jamfcloud.com/JSSResource", u, "classic ignores the version")

	proClient, err := NewClient(config.FamilyPro, opts)
	require.NoError(t, err)
	u, err = proClient.URL("2")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.jamfcloud.com/api/v2", u)

	authClient, err := NewClient(config.FamilyAuth, opts)
	require.NoError(t, err)
	u, err = authClient.URL("1")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.jamfcloud.com/api/v1", u)

	for _, bad := range []string{"", "v1", "0", "-1", "1.5"} {
		_, err := proClient.URL(bad)
		var reqErr *apierrors.RequestValidationError
		assert.True(t, errors.As(err, &reqErr), "version %q", bad)
	}
}

func TestClient_HeaderEmbedsTokenVerbatim(t *testing.T) {
	tokens := []string{
		"eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig",
		`a b+c/d=e&f%g"h'i<j>k\l`,
		"ünïcødé-✓",
		"$1 ${token} {token}",
		"",
	}

	for _, tok := range tokens {
		p := &stubProvider{token: tok}
		c, err := NewClient(config.FamilyPro, newOptions("https://x", p))
		require.NoError(t, err)

		h, err := c.Header(context.Background(), "bearer_with_auth")
		require.NoError(t, err)
		assert.Equal(t, "Bearer "+tok, h.Get("Authorization"))
		assert.Equal(t, "application/json", h.Get("Accept"))
	}
}

func TestClient_HeaderWithoutTokenSkipsProvider(t *testing.T) {
	p := &stubProvider{token: "t"}
	c, err := NewClient(config.FamilyClassic, newOptions("https://x", p))
	require.NoError(t, err)

	h, err := c.Header(context.Background(), "put")
	require.NoError(t, err)
	assert.Equal(t, "text/xml", h.Get("Content-Type"))
	assert.Zero(t, p.calls.Load())
}

func TestClient_HeaderErrors(t *testing.T) {
	c, err := NewClient(config.FamilyPro, newOptions("https://x", &stubProvider{token: "t"}))
	require.NoError(t, err)
	_, err = c.Header(context.Background(), "missing")
	var cfgErr *apierrors.ConfigValidationError
	assert.True(t, errors.As(err, &cfgErr))

	authErr := &apierrors.AuthError{Op: "refresh"}
	c, err = NewClient(config.FamilyPro, newOptions("https://x", &stubProvider{err: authErr}))
	require.NoError(t, err)
	_, err = c.Header(context.Background(), "bearer_with_auth")
	assert.ErrorIs(t, err, authErr)
}

func TestClient_Do(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer tok+/=", r.Header.Get("Authorization"))
		assert.Equal(t, version.GetUserAgentHeader(), r.Header.Get("User-Agent"))
		w.Header().Set("Deprecation", "true")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	defer srv.Close()

	c, err := NewClient(config.FamilyPro, newOptions(srv.URL, &stubProvider{token: "tok+/="}))
	require.NoError(t, err)

	base, err := c.URL("1")
	require.NoError(t, err)
	req, err := c.NewRequest(context.Background(), http.MethodGet, base+"/sso/cert", "basic-json", nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err, "non-2xx is not an error")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "boom", string(body))
	assert.EqualValues(t, 1, hits.Load(), "exactly one attempt")
}

func TestClient_DoKeepsExplicitAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer explicit", r.Header.Get("Authorization"))
		assert.Equal(t, "custom/1.0", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	p := &stubProvider{token: "ignored"}
	c, err := NewClient(config.FamilyClassic, newOptions(srv.URL, p))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/JSSResource/computers", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")
	req.Header.Set("User-Agent", "custom/1.0")

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Zero(t, p.calls.Load())
}

func TestClient_DoTokenFailureSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, err := NewClient(config.FamilyPro, newOptions(srv.URL, &stubProvider{err: &apierrors.AuthError{Op: "refresh", StatusCode: 401}}))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sso/cert", nil)
	require.NoError(t, err)
	_, err = c.Do(req)

	var authErr *apierrors.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Zero(t, hits.Load())
}

func TestClient_DoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(config.FamilyPro, newOptions(url, &stubProvider{token: "t"}))
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, url+"/api/v1/sso/cert", nil)
	require.NoError(t, err)

	_, err = c.Do(req)
	assert.Error(t, err)
}

func TestVariants(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := &stubProvider{token: "t"}
	opts := newOptions(srv.URL, p)
	ctx := context.Background()

	classicClient, err := NewClassicClient(opts)
	require.NoError(t, err)
	resp, err := classicClient.ConfigurationProfiles.GetAll(ctx, "json")
	require.NoError(t, err)
	resp.Body.Close()

	proClient, err := NewProClient(opts)
	require.NoError(t, err)
	resp, err = proClient.SSOCertificates.Get(ctx)
	require.NoError(t, err)
	resp.Body.Close()

	authClient, err := NewAuthManagerClient(opts)
	require.NoError(t, err)
	resp, err = authClient.Details(ctx)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{
		"GET /JSSResource/osxconfigurationprofiles",
		"GET /api/v1/sso/cert",
		"GET /api/v1/auth",
	}, paths)

	require.NoError(t, authClient.InvalidateToken(ctx))
	assert.True(t, p.invalidated.Load())

	_, err = authClient.KeepAlive(ctx)
	var authErr *apierrors.AuthError
	assert.True(t, errors.As(err, &authErr), "oauth tokens cannot be kept alive")
	assert.Equal(t, authenticationhandler.StateValid, authClient.TokenState())
}

func TestClient_DoUsesLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	limiter, err := concurrency.NewLimiter(1, nil)
	require.NoError(t, err)

	opts := newOptions(srv.URL, &stubProvider{token: "t"})
	opts.Limiter = limiter
	c, err := NewClient(config.FamilyPro, opts)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sso/cert", nil)
		require.NoError(t, err)
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
	}
	m := limiter.Metrics()
	assert.EqualValues(t, 3, m.TotalRequests)
	assert.Zero(t, m.InFlight)

	hold, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer hold()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/sso/cert", nil)
	require.NoError(t, err)
	_, err = c.Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_DoWarnsOnUnfollowedRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://other.example.com/JSSResource", http.StatusFound)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	opts := newOptions(srv.URL, &stubProvider{token: "t"})
	opts.Logger = logger.NewLoggerFromZap(zap.New(core), logger.LogLevelDebug)
	opts.HTTPClient = &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	c, err := NewClient(config.FamilyClassic, opts)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/JSSResource/osxconfigurationprofiles", nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	warnings := logs.FilterMessage("Redirect response returned without following").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "https://other.example.com/JSSResource", warnings[0].ContextMap()["location"])
}
