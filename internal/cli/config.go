package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/phiscrub/internal/profile"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// loadConfig layers the defaults, --profile, the config file and flags, in
// that order. Every failure matches scrub.ErrInvalidConfig.
func loadConfig(flags scrub.Overrides) (scrub.Config, error) {
	cfg := scrub.DefaultConfig()

	if rootProfile != "" {
		p, err := profile.Load(rootProfile)
		if err != nil {
			return cfg, asConfigError(err)
		}
		if cfg, err = profile.Apply(p, cfg); err != nil {
			return cfg, asConfigError(err)
		}
	}

	o, err := scrub.LoadFile(rootConfig)
	if err != nil {
		return cfg, asConfigError(err)
	}
	if o != nil {
		if cfg, err = cfg.Apply(*o); err != nil {
			return cfg, err
		}
	}

	if cfg, err = cfg.Apply(flags); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func asConfigError(err error) error {
	if errors.Is(err, scrub.ErrInvalidConfig) {
		return err
	}
	return fmt.Errorf("%w: %w", scrub.ErrInvalidConfig, err)
}
