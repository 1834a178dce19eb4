package config

import "fmt"

// ConfigurationError reports a required tunable that is absent. It is fatal:
// the caller must supply the value rather than rely on a silent default.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}
