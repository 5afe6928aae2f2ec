// tenant/tenant.go

/* Package tenant is the entry point of the library. Init validates the options, builds the
shared connector and credential provider for one Jamf Pro tenant, fetches the first token and
returns a Tenant holding the API clients selected by Mode. */
package tenant

import (
	"context"
	"net/http"

	"github.com/deploymenttheory/go-jamfpi/authenticationhandler"
	"github.com/deploymenttheory/go-jamfpi/concurrency"
	"github.com/deploymenttheory/go-jamfpi/cookiejar"
	"github.com/deploymenttheory/go-jamfpi/httpclient"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/proxy"
	"github.com/deploymenttheory/go-jamfpi/redirecthandler"
	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
)

// Tenant is an initialized connection to one tenant. It is immutable; the clients it holds
// are safe for concurrent use.
type Tenant struct {
	name        string
	authMethod  authenticationhandler.Scheme
	classic     Optional[*httpclient.ClassicClient]
	pro         Optional[*httpclient.ProClient]
	authManager Optional[*httpclient.AuthManagerClient]
	connector   *http.Client
	log         logger.Logger
}

// Init builds a Tenant. Option and credential problems are reported before any network call;
// a failed initial token exchange aborts initialization. No partial Tenant is returned.
func Init(ctx context.Context, cfg Config) (*Tenant, error) {
	cfg = setDefaultValues(cfg)

	log := cfg.Logger
	if log == nil {
		log = logger.BuildLogger(logger.ParseLogLevelFromString(cfg.LogLevel), cfg.LogOutputFormat)
	}
	log = log.With(zap.String("tenant", cfg.Name))

	apiConfig, err := loadAPIConfig(cfg)
	if err != nil {
		log.Error("Failed to load API configuration", zap.Error(err))
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		log.Error("Invalid tenant configuration", zap.Error(err))
		return nil, err
	}

	var connector *http.Client
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		copied.Timeout = httpclient.DefaultTimeout
		connector = &copied
	} else if connector, err = newConnector(cfg, log); err != nil {
		return nil, err
	}

	provider := cfg.Provider
	if provider == nil {
		provider, err = authenticationhandler.NewCredentialProvider(cfg.Credentials, authenticationhandler.ProviderConfig{
			TenantName:        cfg.Name,
			Config:            apiConfig,
			HTTPClient:        connector,
			Logger:            log,
			RefreshThreshold:  cfg.TokenRefreshThreshold,
			HideSensitiveData: cfg.HideSensitiveData,
		})
		if err != nil {
			log.Error("Failed to select credential provider", zap.Error(err))
			return nil, err
		}
	}

	if _, err := provider.FetchInitialToken(ctx); err != nil {
		log.Error("Initial token fetch failed", zap.Error(err))
		connector.CloseIdleConnections()
		return nil, err
	}

	limiter, err := concurrency.NewLimiter(cfg.MaxConcurrentRequests, log)
	if err != nil {
		return nil, err
	}

	opts := httpclient.Options{
		TenantName:        cfg.Name,
		Config:            apiConfig,
		HTTPClient:        connector,
		Provider:          provider,
		Logger:            log,
		HideSensitiveData: cfg.HideSensitiveData,
		Limiter:           limiter,
	}

	t := &Tenant{
		name:        cfg.Name,
		authMethod:  provider.Scheme(),
		classic:     None[*httpclient.ClassicClient](),
		pro:         None[*httpclient.ProClient](),
		authManager: None[*httpclient.AuthManagerClient](),
		connector:   connector,
		log:         log,
	}

	if cfg.Mode == ModeAll || cfg.Mode == ModeClassic {
		c, err := httpclient.NewClassicClient(opts)
		if err != nil {
			return nil, err
		}
		t.classic = Some(c)
	}
	if cfg.Mode == ModeAll || cfg.Mode == ModePro {
		c, err := httpclient.NewProClient(opts)
		if err != nil {
			return nil, err
		}
		t.pro = Some(c)
	}
	if cfg.Mode == ModeAuth {
		c, err := httpclient.NewAuthManagerClient(opts)
		if err != nil {
			return nil, err
		}
		t.authManager = Some(c)
	}

	log.Info("Tenant initialized",
		zap.String("auth_method", string(t.authMethod)),
		zap.String("mode", string(cfg.Mode)),
		zap.String("base_url", apiConfig.BaseURL(cfg.Name)),
	)
	return t, nil
}

// newConnector builds the pooled HTTP client shared by every API client of the tenant.
func newConnector(cfg Config, log logger.Logger) (*http.Client, error) {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = httpclient.DefaultTimeout

	if err := cookiejar.SetupCookieJar(client, cfg.EnableCookieJar, log); err != nil {
		return nil, err
	}
	if err := proxy.InitializeProxy(client, cfg.ProxyURL, cfg.ProxyUsername, cfg.ProxyPassword, log); err != nil {
		return nil, err
	}
	redirecthandler.SetupRedirectHandler(client, !cfg.DisableRedirects, cfg.MaxRedirects, log)
	return client, nil
}

// Name returns the tenant name.
func (t *Tenant) Name() string {
	return t.name
}

// AuthMethod reports the scheme the tenant authenticates with.
func (t *Tenant) AuthMethod() authenticationhandler.Scheme {
	return t.authMethod
}

// Classic returns the classic API client, present in modes "" and "classic".
func (t *Tenant) Classic() Optional[*httpclient.ClassicClient] {
	return t.classic
}

// Pro returns the pro API client, present in modes "" and "pro".
func (t *Tenant) Pro() Optional[*httpclient.ProClient] {
	return t.pro
}

// AuthManager returns the auth manager client, present in mode "auth".
func (t *Tenant) AuthManager() Optional[*httpclient.AuthManagerClient] {
	return t.authManager
}

// Close releases idle connections held by the connector.
func (t *Tenant) Close() {
	t.connector.CloseIdleConnections()
	t.log.Debug("Tenant connector closed")
}
