// config/config.go
/* Package config holds the URL and header templates shared by every API client of a tenant.
A Config is validated once at construction and is read-only afterwards; accessors hand out
copies so no caller can change what another client sees. */
package config

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
)

// Family names an API surface, or a header group that is not tied to one.
type Family string

const (
	FamilyClassic   Family = "classic"   // Legacy XML/JSON API rooted at /JSSResource.
	FamilyPro       Family = "pro"       // Versioned API rooted at /api/v{n}.
	FamilyAuth      Family = "auth"      // Token endpoints. Resources use the pro prefix.
	FamilyUniversal Family = "universal" // Header profiles usable from any family.
)

// Keys of the urls.auth section.
const (
	AuthBearer          = "bearer"
	AuthOAuth           = "oauth"
	AuthInvalidateToken = "invalidate-token"
	AuthKeepAlive       = "keep-alive"
)

// Template placeholders.
const (
	TenantPlaceholder     = "{tenant}"
	APIVersionPlaceholder = "{jamfapiversion}"
	TokenPlaceholder      = "{token}"
)

var requiredAuthPaths = []string{AuthBearer, AuthOAuth, AuthInvalidateToken, AuthKeepAlive}

// URLs holds the URL templates of a configuration document.
type URLs struct {
	Base string
	Auth map[string]string
	API  map[string]string
}

// Config is the validated configuration document.
type Config struct {
	urls    URLs
	headers map[string]map[string]map[string]string
}

// New validates a decoded configuration document. Both the "urls" and "headers" keys must
// be present.
func New(document map[string]any) (*Config, error) {
	if document == nil {
		return nil, &apierrors.ConfigValidationError{Reason: "empty configuration document"}
	}

	rawURLs, ok := document["urls"]
	if !ok {
		return nil, &apierrors.ConfigValidationError{Field: "urls", Reason: "missing top-level key"}
	}
	rawHeaders, ok := document["headers"]
	if !ok {
		return nil, &apierrors.ConfigValidationError{Field: "headers", Reason: "missing top-level key"}
	}

	urls, err := parseURLs(rawURLs)
	if err != nil {
		return nil, err
	}
	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return nil, err
	}

	return &Config{urls: urls, headers: headers}, nil
}

func parseURLs(raw any) (URLs, error) {
	section, ok := asMap(raw)
	if !ok {
		return URLs{}, &apierrors.ConfigValidationError{Field: "urls", Reason: "must be an object"}
	}

	base, ok := section["base"].(string)
	if !ok || base == "" {
		return URLs{}, &apierrors.ConfigValidationError{Field: "urls.base", Reason: "must be a non-empty string"}
	}

	auth, err := asStringMap(section["auth"], "urls.auth")
	if err != nil {
		return URLs{}, err
	}
	for _, key := range requiredAuthPaths {
		if auth[key] == "" {
			return URLs{}, &apierrors.ConfigValidationError{Field: "urls.auth." + key, Reason: "must be a non-empty string"}
		}
	}

	api, err := asStringMap(section["api"], "urls.api")
	if err != nil {
		return URLs{}, err
	}
	for _, key := range []Family{FamilyClassic, FamilyPro} {
		if api[string(key)] == "" {
			return URLs{}, &apierrors.ConfigValidationError{Field: "urls.api." + string(key), Reason: "must be a non-empty string"}
		}
	}

	return URLs{Base: base, Auth: auth, API: api}, nil
}

func parseHeaders(raw any) (map[string]map[string]map[string]string, error) {
	section, ok := asMap(raw)
	if !ok {
		return nil, &apierrors.ConfigValidationError{Field: "headers", Reason: "must be an object"}
	}

	headers := make(map[string]map[string]map[string]string, len(section))
	for family, rawProfiles := range section {
		profiles, ok := asMap(rawProfiles)
		if !ok {
			return nil, &apierrors.ConfigValidationError{Field: "headers." + family, Reason: "must be an object"}
		}
		headers[family] = make(map[string]map[string]string, len(profiles))
		for name, rawProfile := range profiles {
			profile, err := asStringMap(rawProfile, fmt.Sprintf("headers.%s.%s", family, name))
			if err != nil {
				return nil, err
			}
			headers[family][name] = profile
		}
	}
	return headers, nil
}

func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func asStringMap(raw any, field string) (map[string]string, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, &apierrors.ConfigValidationError{Field: field, Reason: "must be an object"}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, &apierrors.ConfigValidationError{Field: field + "." + k, Reason: "must be a string"}
		}
		out[k] = s
	}
	return out, nil
}

// BaseURL renders the base URL for a tenant.
func (c *Config) BaseURL(tenant string) string {
	return strings.ReplaceAll(c.urls.Base, TenantPlaceholder, tenant)
}

// AuthURL renders the full URL of one of the urls.auth endpoints.
func (c *Config) AuthURL(tenant, key string) (string, error) {
	path, ok := c.urls.Auth[key]
	if !ok || path == "" {
		return "", &apierrors.ConfigValidationError{Field: "urls.auth." + key, Reason: "not configured"}
	}
	return c.BaseURL(tenant) + path, nil
}

// APIPrefix renders the resource prefix for a family. The classic prefix is fixed; the pro
// prefix substitutes version. FamilyAuth shares the pro prefix.
func (c *Config) APIPrefix(family Family, version string) (string, error) {
	switch family {
	case FamilyClassic:
		return c.urls.API[string(FamilyClassic)], nil
	case FamilyPro, FamilyAuth:
		return strings.ReplaceAll(c.urls.API[string(FamilyPro)], APIVersionPlaceholder, version), nil
	default:
		return "", &apierrors.ConfigValidationError{Field: "urls.api." + string(family), Reason: "unknown API family"}
	}
}

// Header returns a copy of the named header profile. Profiles of the family take precedence
// over the universal group. Values may still contain TokenPlaceholder.
func (c *Config) Header(family Family, profile string) (http.Header, error) {
	values, ok := c.headers[string(family)][profile]
	if !ok {
		values, ok = c.headers[string(FamilyUniversal)][profile]
	}
	if !ok {
		return nil, &apierrors.ConfigValidationError{
			Field:  fmt.Sprintf("headers.%s.%s", family, profile),
			Reason: "unknown header profile",
		}
	}

	header := make(http.Header, len(values))
	for k, v := range values {
		header.Set(k, v)
	}
	return header, nil
}

// Profiles lists the header profiles visible to a family, sorted.
func (c *Config) Profiles(family Family) []string {
	seen := map[string]bool{}
	for name := range c.headers[string(family)] {
		seen[name] = true
	}
	for name := range c.headers[string(FamilyUniversal)] {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithBaseURL returns a Config that renders every URL against base instead of the configured
// template, for on-premises servers. base may itself contain TenantPlaceholder.
func (c *Config) WithBaseURL(base string) *Config {
	if base == "" {
		return c
	}
	urls := c.urls
	urls.Base = strings.TrimRight(base, "/")
	return &Config{urls: urls, headers: c.headers}
}
