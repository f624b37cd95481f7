package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeUserProfile(t *testing.T, home, file, content string) {
	t.Helper()
	dir := filepath.Join(home, ".phiscrub", "profiles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestBuiltinProfilesValidate(t *testing.T) {
	isolateHome(t)
	for name := range builtinProfiles {
		t.Run(name, func(t *testing.T) {
			p, err := Load(name)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if p.Name != name {
				t.Errorf("name = %q", p.Name)
			}
			if p.Description == "" {
				t.Error("expected non-empty description")
			}
			if err := Validate(p); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestLimitedDataSet(t *testing.T) {
	isolateHome(t)
	p, err := Load("limited-data-set")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Apply(p, scrub.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []phi.Category{phi.Date, phi.RelDate, phi.ZIP} {
		if !cfg.Skip.Has(c) {
			t.Errorf("%s not skipped", c)
		}
	}
	if cfg.SafeHarbor {
		t.Error("safe harbor should stay off")
	}
}

func TestSafeHarborAndStrict(t *testing.T) {
	isolateHome(t)
	p, err := Load("safe-harbor")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Apply(p, scrub.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.SafeHarbor {
		t.Error("safe-harbor profile did not enable Safe Harbor")
	}

	p, err = Load("strict")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = Apply(p, scrub.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MRNMinLength != 5 || cfg.MRNMaxLength != 12 || !cfg.SafeHarbor {
		t.Errorf("strict = %+v", cfg)
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	base := scrub.DefaultConfig()
	base.Names = []string{"Ann Roe"}
	p := &Profile{Name: "x", Overrides: scrub.Overrides{Names: []string{"Meredith Grey"}, Skip: []string{"zip"}}}

	cfg, err := Apply(p, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Names) != 2 || !cfg.Skip.Has(phi.ZIP) {
		t.Errorf("applied = %+v", cfg)
	}
	if len(base.Names) != 1 || len(base.Skip) != 0 {
		t.Errorf("base mutated: %+v", base)
	}
}

func TestLoadUnknownProfile(t *testing.T) {
	isolateHome(t)
	_, err := Load("nonexistent-profile")
	if !errors.Is(err, scrub.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadUserProfile(t *testing.T) {
	home := isolateHome(t)
	writeUserProfile(t, home, "clinic.yml", `name: clinic
description: Lakeside staff names
names: [Meredith Grey]
keywords: [Lakeside Rehab]
`)

	p, err := Load("clinic")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Names) != 1 || len(p.Keywords) != 1 {
		t.Errorf("profile = %+v", p)
	}

	found := false
	for _, n := range List() {
		if n == "clinic" {
			found = true
		}
	}
	if !found {
		t.Errorf("clinic missing from %v", List())
	}
}

func TestLoadUserProfileUnknownField(t *testing.T) {
	home := isolateHome(t)
	writeUserProfile(t, home, "typo.yaml", "name: typo\nsafeharbor: true\n")

	if _, err := Load("typo"); !errors.Is(err, scrub.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestListIncludesBuiltins(t *testing.T) {
	isolateHome(t)
	names := List()
	want := []string{"default", "limited-data-set", "safe-harbor", "strict"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	three, two := 3, 2
	tests := []struct {
		name  string
		p     Profile
		field string
	}{
		{"missing name", Profile{}, "name"},
		{"bad skip", Profile{Name: "a", Overrides: scrub.Overrides{Skip: []string{"BLOOD_TYPE"}}}, "skip"},
		{"inverted bounds", Profile{Name: "b", Overrides: scrub.Overrides{MRNMinLength: &three, MRNMaxLength: &two}}, "mrn_min_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.p)
			var ce *scrub.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestInitProfileParses(t *testing.T) {
	p, err := parse([]byte(InitProfile("ward-7")))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "ward-7" {
		t.Errorf("name = %q", p.Name)
	}
	if err := Validate(p); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
