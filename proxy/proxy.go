// proxy/proxy.go

package proxy

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-jamfpi/logger"
	"go.uber.org/zap"
)

// InitializeProxy routes the client's transport through proxyURL. Credentials, when given, are
// sent as proxy basic auth. The client's transport must be an *http.Transport or nil.
func InitializeProxy(httpClient *http.Client, proxyURL, proxyUsername, proxyPassword string, log logger.Logger) error {
	if proxyURL == "" {
		return nil
	}

	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil || parsedProxyURL.Host == "" {
		if err == nil {
			err = fmt.Errorf("missing host")
		}
		log.Error("Failed to parse proxy URL", zap.Error(err))
		return fmt.Errorf("invalid proxy url %q: %w", proxyURL, err)
	}

	if proxyUsername != "" && proxyPassword != "" {
		parsedProxyURL.User = url.UserPassword(proxyUsername, proxyPassword)
	}

	var transport *http.Transport
	switch t := httpClient.Transport.(type) {
	case nil:
		transport = http.DefaultTransport.(*http.Transport).Clone()
	case *http.Transport:
		transport = t.Clone()
	default:
		return fmt.Errorf("cannot configure proxy on transport of type %T", httpClient.Transport)
	}
	transport.Proxy = http.ProxyURL(parsedProxyURL)
	httpClient.Transport = transport

	log.Info("Proxy configured", zap.String("ProxyURL", parsedProxyURL.Redacted()))
	return nil
}
