package scrub

import "errors"

var (
	// ErrInvalidConfig is matched by every configuration error, including
	// *ConfigError values.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidInput reports text the pipeline cannot decode.
	ErrInvalidInput = errors.New("invalid input")
)

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid config: " + e.Field + ": " + e.Reason
}

// Is lets errors.Is(err, ErrInvalidConfig) succeed for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
