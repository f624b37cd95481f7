package scrub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/phiscrub/internal/phi"
)

// Default MRN digit-run bounds.
const (
	DefaultMRNMinLength = 6
	DefaultMRNMaxLength = 10
)

// ConfigEnv names the environment variable consulted when no config path is
// given explicitly.
const ConfigEnv = "PHISCRUB_CONFIG"

// Config is the validated, read-only input to a Scrubber.
type Config struct {
	Names        []string
	Keywords     []string
	MRNMinLength int
	MRNMaxLength int
	Skip         phi.Set
	SafeHarbor   bool
}

// DefaultConfig returns the built-in defaults: no extra names or keywords,
// MRN bounds 6..10, nothing skipped, Safe Harbor off.
func DefaultConfig() Config {
	return Config{
		MRNMinLength: DefaultMRNMinLength,
		MRNMaxLength: DefaultMRNMaxLength,
		Skip:         phi.Set{},
	}
}

// Validate reports the first invalid field. Values are never clamped.
func (c Config) Validate() error {
	if c.MRNMinLength <= 0 {
		return &ConfigError{Field: "mrn_min_length", Reason: "must be positive, got " + strconv.Itoa(c.MRNMinLength)}
	}
	if c.MRNMaxLength <= 0 {
		return &ConfigError{Field: "mrn_max_length", Reason: "must be positive, got " + strconv.Itoa(c.MRNMaxLength)}
	}
	if c.MRNMinLength > c.MRNMaxLength {
		return &ConfigError{
			Field:  "mrn_min_length",
			Reason: fmt.Sprintf("%d exceeds mrn_max_length %d", c.MRNMinLength, c.MRNMaxLength),
		}
	}
	for cat := range c.Skip {
		if !cat.Valid() {
			return &ConfigError{Field: "skip", Reason: fmt.Sprintf("unknown category %q", string(cat))}
		}
	}
	return nil
}

// Overrides is a partial configuration as read from a file, a profile or the
// command line. Unset fields leave the base Config alone.
type Overrides struct {
	Names        []string `json:"names,omitempty" yaml:"names,omitempty"`
	Keywords     []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	MRNMinLength *int     `json:"mrn_min_length,omitempty" yaml:"mrn_min_length,omitempty"`
	MRNMaxLength *int     `json:"mrn_max_length,omitempty" yaml:"mrn_max_length,omitempty"`
	Skip         []string `json:"skip,omitempty" yaml:"skip,omitempty"`
	SafeHarbor   *bool    `json:"safe_harbor,omitempty" yaml:"safe_harbor,omitempty"`
}

// Apply layers o over c. Names and keywords are appended, skip sets are
// unioned, Safe Harbor can only be switched on, and bounds are replaced.
// Unknown skip names are a ConfigError.
func (c Config) Apply(o Overrides) (Config, error) {
	skip, err := phi.ParseSet(o.Skip)
	if err != nil {
		return c, &ConfigError{Field: "skip", Reason: err.Error()}
	}

	out := c
	out.Names = append(append([]string(nil), c.Names...), o.Names...)
	out.Keywords = append(append([]string(nil), c.Keywords...), o.Keywords...)
	out.Skip = c.Skip.Union(skip)
	if o.MRNMinLength != nil {
		out.MRNMinLength = *o.MRNMinLength
	}
	if o.MRNMaxLength != nil {
		out.MRNMaxLength = *o.MRNMaxLength
	}
	if o.SafeHarbor != nil && *o.SafeHarbor {
		out.SafeHarbor = true
	}
	return out, nil
}

// ResolveConfigPath returns the config file to read. If path is empty, it
// tries the PHISCRUB_CONFIG env var, then ~/.phiscrub/config.yaml. The
// second result reports whether the path was chosen by the caller (flag or
// env) rather than defaulted.
func ResolveConfigPath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv(ConfigEnv); env != "" {
		return env, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".phiscrub", "config.yaml"), false
}

// LoadFile reads overrides from path, resolved with ResolveConfigPath.
// Files ending in .json are decoded strictly as JSON; anything else as YAML.
// A missing default file returns nil overrides, not an error; a missing
// explicit path is an error.
func LoadFile(path string) (*Overrides, error) {
	resolved, explicit := ResolveConfigPath(path)
	if resolved == "" {
		return nil, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	o, err := ParseOverrides(data, strings.EqualFold(filepath.Ext(resolved), ".json"))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return o, nil
}

// ParseOverrides decodes JSON or YAML overrides, rejecting unknown fields.
// Decode failures wrap ErrInvalidConfig.
func ParseOverrides(data []byte, isJSON bool) (*Overrides, error) {
	var o Overrides
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&o); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return &o, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &o, nil
}

// LoadConfig returns DefaultConfig with the file at path applied and
// validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	o, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	if o != nil {
		if cfg, err = cfg.Apply(*o); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}
