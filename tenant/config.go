// tenant/config.go
package tenant

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/authenticationhandler"
	"github.com/deploymenttheory/go-jamfpi/concurrency"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/redirecthandler"
)

// Mode selects which API clients a Tenant carries.
type Mode string

const (
	ModeAll     Mode = ""        // classic and pro
	ModeClassic Mode = "classic" // classic only
	ModePro     Mode = "pro"     // pro only
	ModeAuth    Mode = "auth"    // auth manager only
	ModeCustom  Mode = "custom"  // reserved, not supported
)

const (
	DefaultLogLevelString  = "LogLevelInfo"
	DefaultLogOutputFormat = logger.LogOutputJSON
	DefaultMaxRedirects    = redirecthandler.DefaultMaxRedirects
)

// Config describes one tenant connection.
type Config struct {
	// Name is the tenant, as in https://{name}.jamfcloud.com.
	Name        string
	Credentials authenticationhandler.Credentials
	Mode        Mode

	// API configuration source. APIConfig wins over ConfigPath; with neither the built-in
	// defaults are used. BaseURL replaces the jamfcloud.com template, for on-premises servers.
	APIConfig  *config.Config
	ConfigPath string
	BaseURL    string

	// Log
	LogLevel          string // e.g. "LogLevelDebug"; see logger.ParseLogLevelFromString
	LogOutputFormat   string // logger.LogOutputJSON or logger.LogOutputHumanReadable
	HideSensitiveData bool
	Logger            logger.Logger // replaces the built logger when set

	// Auth
	TokenRefreshThreshold time.Duration // zero selects authenticationhandler.DefaultRefreshThreshold
	Provider              authenticationhandler.CredentialProvider

	// Connector. HTTPClient is used as is when set; the options below apply only to the
	// connector built by Init.
	HTTPClient       *http.Client
	EnableCookieJar  bool
	ProxyURL         string
	ProxyUsername    string
	ProxyPassword    string
	DisableRedirects bool
	MaxRedirects     int

	// MaxConcurrentRequests caps requests in flight across all clients of the tenant. Zero
	// selects concurrency.DefaultMaxConcurrentRequests.
	MaxConcurrentRequests int
}

// setDefaultValues fills unset options. The caller's Config is not modified.
func setDefaultValues(cfg Config) Config {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevelString
	}
	if cfg.LogOutputFormat == "" {
		cfg.LogOutputFormat = DefaultLogOutputFormat
	}
	if cfg.TokenRefreshThreshold == 0 {
		cfg.TokenRefreshThreshold = authenticationhandler.DefaultRefreshThreshold
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.MaxConcurrentRequests == 0 {
		cfg.MaxConcurrentRequests = concurrency.DefaultMaxConcurrentRequests
	}
	return cfg
}

// validateConfig rejects setups that cannot work. It never touches the network.
func validateConfig(cfg Config) error {
	if cfg.Name == "" {
		return &apierrors.InitializationError{Reason: "tenant name is required"}
	}
	switch cfg.Mode {
	case ModeAll, ModeClassic, ModePro, ModeAuth:
	case ModeCustom:
		return &apierrors.InitializationError{Reason: "custom mode is not supported"}
	default:
		return &apierrors.InitializationError{Reason: fmt.Sprintf("invalid mode %q: use \"\", \"classic\", \"pro\" or \"auth\"", cfg.Mode)}
	}
	if cfg.TokenRefreshThreshold < 0 {
		return &apierrors.InitializationError{Reason: "token refresh threshold cannot be negative"}
	}
	if cfg.MaxRedirects < 0 {
		return &apierrors.InitializationError{Reason: "max redirects cannot be negative"}
	}
	if cfg.MaxConcurrentRequests < 0 {
		return &apierrors.InitializationError{Reason: "max concurrent requests cannot be negative"}
	}
	return nil
}

// loadAPIConfig resolves the configuration document for the tenant.
func loadAPIConfig(cfg Config) (*config.Config, error) {
	apiConfig := cfg.APIConfig
	if apiConfig == nil && cfg.ConfigPath != "" {
		loaded, err := config.LoadConfigFromFile(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		apiConfig = loaded
	}
	if apiConfig == nil {
		apiConfig = config.Default()
	}
	return apiConfig.WithBaseURL(cfg.BaseURL), nil
}
