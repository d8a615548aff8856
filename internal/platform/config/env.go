package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable read by the xplorehub binaries.
const EnvPrefix = "XPLOREHUB_"

// ParseEnv loads configuration from XPLOREHUB_-prefixed environment
// variables. Struct tags name the variable without the prefix.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// MustNotBeEmpty returns an error naming the first empty setting.
func MustNotBeEmpty(settings map[string]string) error {
	for name, value := range settings {
		if value == "" {
			return fmt.Errorf("%s%s is required", EnvPrefix, name)
		}
	}
	return nil
}
