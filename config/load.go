// config/load.go
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/helpers"
	"github.com/spf13/viper"
)

//go:embed default_config.json
var defaultDocument []byte

// ConfigFileExtensions lists the document formats accepted by LoadConfigFromFile.
var ConfigFileExtensions = []string{".json", ".yaml", ".yml"}

var defaultConfig = sync.OnceValue(func() *Config {
	cfg, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded default configuration is invalid: %v", err))
	}
	return cfg
})

// Default returns the built-in configuration for jamfcloud.com tenants.
func Default() *Config {
	return defaultConfig()
}

// Parse decodes and validates a JSON configuration document.
func Parse(data []byte) (*Config, error) {
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, &apierrors.ConfigValidationError{Reason: fmt.Sprintf("could not unmarshal JSON: %v", err)}
	}
	return New(document)
}

// LoadConfigFromFile reads a JSON or YAML configuration document from disk and validates it
// exactly as Parse would. Keys are matched case-insensitively, so header names come back lower-cased; HTTP header
// names are case-insensitive and the profiles behave the same.
func LoadConfigFromFile(path string) (*Config, error) {
	absPath, err := helpers.ValidateFilePath(path, ConfigFileExtensions...)
	if err != nil {
		return nil, &apierrors.ConfigValidationError{Field: "path", Reason: err.Error()}
	}

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType(strings.TrimPrefix(strings.ToLower(filepath.Ext(absPath)), "."))
	if err := v.ReadInConfig(); err != nil {
		return nil, &apierrors.ConfigValidationError{Field: "path", Reason: fmt.Sprintf("could not read file: %v", err)}
	}

	return New(configDocument(v))
}

// configDocument rebuilds the top-level sections from what viper read. AllSettings drops
// empty objects, which would turn a present but empty section into a missing one.
func configDocument(v *viper.Viper) map[string]any {
	document := make(map[string]any, 2)
	for _, key := range []string{"urls", "headers"} {
		if v.InConfig(key) {
			document[key] = v.Get(key)
		}
	}
	return document
}
