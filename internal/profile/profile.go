// Package profile provides named scrub configurations: a few built in,
// more under ~/.phiscrub/profiles.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// Profile is a named, reusable set of configuration overrides.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	scrub.Overrides `yaml:",inline"`
}

// Dir returns the user profile directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".phiscrub", "profiles"), nil
}

// Load loads a profile by name. Checks built-in profiles first,
// then falls back to ~/.phiscrub/profiles/<name>.yaml.
func Load(name string) (*Profile, error) {
	if data, ok := builtinProfiles[name]; ok {
		p, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in profile %q: %w", name, err)
		}
		return p, nil
	}

	dir, err := Dir()
	if err != nil {
		return nil, &scrub.ConfigError{Field: "profile", Reason: fmt.Sprintf("%q not found (no built-in, cannot determine home dir)", name)}
	}

	data, err := readUser(dir, name)
	if err != nil {
		return nil, &scrub.ConfigError{Field: "profile", Reason: fmt.Sprintf("%q not found", name)}
	}

	p, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}
	return p, nil
}

func readUser(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name+".yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return os.ReadFile(filepath.Join(dir, name+".yml"))
	}
	return data, err
}

func parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", scrub.ErrInvalidConfig, err)
	}
	return &p, nil
}

// List returns sorted names of all available profiles (built-in + user).
func List() []string {
	seen := make(map[string]bool)
	for name := range builtinProfiles {
		seen[name] = true
	}

	if dir, err := Dir(); err == nil {
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				name := e.Name()
				if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
					seen[name[:len(name)-len(ext)]] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that a profile is well-formed: it has a name, its skip
// list names real categories, and its MRN bounds are consistent.
func Validate(p *Profile) error {
	if p.Name == "" {
		return &scrub.ConfigError{Field: "name", Reason: "profile name is required"}
	}
	if _, err := phi.ParseSet(p.Skip); err != nil {
		return &scrub.ConfigError{Field: "skip", Reason: err.Error()}
	}
	_, err := Apply(p, scrub.DefaultConfig())
	return err
}

// Apply layers the profile over cfg and validates the result. cfg is not
// modified.
func Apply(p *Profile, cfg scrub.Config) (scrub.Config, error) {
	out, err := cfg.Apply(p.Overrides)
	if err != nil {
		return cfg, err
	}
	if err := out.Validate(); err != nil {
		return cfg, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return out, nil
}
