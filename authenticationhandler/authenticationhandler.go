// authenticationhandler/authenticationhandler.go

/* Package authenticationhandler owns the token lifecycle for a tenant. A CredentialProvider
holds at most one token, judges its freshness against a refresh threshold and replaces it
inline when a caller needs a token that is about to expire. Two schemes are supported: the
OAuth client-credentials grant and the basic-credential bearer exchange. */
package authenticationhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
)

// DefaultRefreshThreshold is subtracted from a token's expiry when judging freshness.
const DefaultRefreshThreshold = 30 * time.Second

// Scheme tags the authentication method a token was obtained with.
type Scheme string

const (
	SchemeOAuth  Scheme = "oauth"
	SchemeBearer Scheme = "bearer"
)

// Token is an issued access token. Tokens are replaced on refresh, never modified.
type Token struct {
	Value   string
	Expires time.Time
	Scheme  Scheme
}

// ValidAt reports whether the token is still usable at now: now < Expires - threshold.
func (t Token) ValidAt(now time.Time, threshold time.Duration) bool {
	return t.Value != "" && now.Before(t.Expires.Add(-threshold))
}

// TokenState is the lifecycle state of a provider's held token.
type TokenState int

const (
	StateNoToken TokenState = iota
	StateValid
	StateExpiringSoon
)

func (s TokenState) String() string {
	switch s {
	case StateNoToken:
		return "NoToken"
	case StateValid:
		return "Valid"
	case StateExpiringSoon:
		return "ExpiringSoon"
	default:
		return "Unknown"
	}
}

// CredentialProvider is the contract shared by both authentication schemes.
type CredentialProvider interface {
	// Scheme reports which authentication method the provider uses.
	Scheme() Scheme
	// FetchInitialToken performs one token exchange and stores the result.
	FetchInitialToken(ctx context.Context) (Token, error)
	// CurrentToken returns the held token, refreshing it first when it is not valid.
	CurrentToken(ctx context.Context) (Token, error)
	// Invalidate revokes the held token server side and forgets it.
	Invalidate(ctx context.Context) error
	// Reset forgets the held token without contacting the server.
	Reset()
	// State reports the lifecycle state of the held token.
	State() TokenState
}

var (
	_ CredentialProvider = (*OAuthProvider)(nil)
	_ CredentialProvider = (*BearerProvider)(nil)
)

// Credentials holds the secrets a provider may be built from. Exactly one combination must
// be usable: ClientID with ClientSecret, Username with Password, or BasicToken.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	BasicToken   string // base64 of "username:password"
}

// ProviderConfig carries the collaborators a provider needs.
type ProviderConfig struct {
	TenantName        string
	Config            *config.Config
	HTTPClient        *http.Client
	Logger            logger.Logger
	RefreshThreshold  time.Duration
	HideSensitiveData bool

	now func() time.Time
}

// NewCredentialProvider selects and builds the provider matching the supplied credentials.
// An unusable combination is reported as an InitializationError before any network call.
func NewCredentialProvider(creds Credentials, pc ProviderConfig) (CredentialProvider, error) {
	if pc.TenantName == "" {
		return nil, &apierrors.InitializationError{Reason: "tenant name is required"}
	}
	if pc.Config == nil {
		return nil, &apierrors.InitializationError{Reason: "configuration is required"}
	}
	if pc.RefreshThreshold < 0 {
		return nil, &apierrors.InitializationError{Reason: "refresh threshold cannot be less than 0 seconds"}
	}
	if pc.HTTPClient == nil {
		pc.HTTPClient = cleanhttp.DefaultPooledClient()
	}
	if pc.Logger == nil {
		pc.Logger = logger.NewNopLogger()
	}
	if pc.now == nil {
		pc.now = time.Now
	}

	switch {
	case creds.ClientID != "" && creds.ClientSecret != "":
		if ok, msg := IsValidClientID(creds.ClientID); !ok {
			pc.Logger.Warn(msg, zap.String("tenant", pc.TenantName))
		}
		pc.Logger.Info("Credential Match", zap.String("AuthMethod", string(SchemeOAuth)))
		return newOAuthProvider(creds.ClientID, creds.ClientSecret, pc), nil

	case (creds.Username != "" && creds.Password != "") || creds.BasicToken != "":
		pc.Logger.Info("Credential Match", zap.String("AuthMethod", string(SchemeBearer)))
		return newBearerProvider(creds.Username, creds.Password, creds.BasicToken, pc), nil

	default:
		return nil, &apierrors.InitializationError{
			Reason: "bad combination of authentication info provided: supply a client id and secret, a username and password, or a basic token",
		}
	}
}
