package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ppiankov/phiscrub/internal/report"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

const contactNote = "Call 312-555-0199 or email jdoe@example.org"

// resetFlags restores every package-level flag and isolates HOME so no
// user config or profile leaks into a test.
func resetFlags(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(scrub.ConfigEnv, "")

	rootConfig, rootProfile, rootLogLevel, rootLogFormat, rootEnvFile = "", "", "", "console", ""
	scrubInput, scrubOutput = "-", "-"
	scrubSkip = nil
	scrubSafeHarbor, scrubQuiet, scrubStatsJSON, scrubFindings = false, false, false, false
	checkScenario, checkFormat = "", "text"
	categoriesJSON, categoriesSafeHarbor, categoriesSkip = false, false, nil
	profileInitOutput = ""
	return home
}

func testCmd(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())
	return cmd, &stdout, &stderr
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScrub_StdinToStdout(t *testing.T) {
	resetFlags(t)
	cmd, stdout, stderr := testCmd(contactNote)

	if err := runScrub(cmd, nil); err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	if got := stdout.String(); got != "Call [PHONE] or email [EMAIL]" {
		t.Errorf("stdout = %q", got)
	}
	want := "Redactions applied: 2\n  EMAIL : 1\n  PHONE : 1\n"
	if got := stderr.String(); got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestRunScrub_FileToFileQuiet(t *testing.T) {
	dir := resetFlags(t)
	scrubInput = writeFile(t, dir, "note.txt", contactNote)
	scrubOutput = filepath.Join(dir, "out.txt")
	scrubQuiet = true
	cmd, stdout, stderr := testCmd("")

	if err := runScrub(cmd, nil); err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	data, err := os.ReadFile(scrubOutput)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Call [PHONE] or email [EMAIL]" {
		t.Errorf("output file = %q", data)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("quiet run wrote stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestRunScrub_StatsJSON(t *testing.T) {
	dir := resetFlags(t)
	scrubInput = writeFile(t, dir, "note.txt", contactNote)
	scrubStatsJSON = true
	scrubFindings = true
	cmd, _, stderr := testCmd("")

	if err := runScrub(cmd, nil); err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	var s report.Summary
	if err := json.Unmarshal(stderr.Bytes(), &s); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, stderr)
	}
	if s.Total != 2 || s.Counts["EMAIL"] != 1 || s.Counts["PHONE"] != 1 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Findings) != 2 {
		t.Errorf("findings = %+v", s.Findings)
	}
	if s.Source != scrubInput {
		t.Errorf("source = %q", s.Source)
	}
	if strings.Contains(stderr.String(), "jdoe") {
		t.Error("summary leaked matched text")
	}
}

func TestRunScrub_Skip(t *testing.T) {
	resetFlags(t)
	scrubSkip = []string{"email"}
	scrubQuiet = true
	cmd, stdout, _ := testCmd(contactNote)

	if err := runScrub(cmd, nil); err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	if got := stdout.String(); got != "Call [PHONE] or email jdoe@example.org" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunScrub_ProfileConfigAndFlagsLayer(t *testing.T) {
	dir := resetFlags(t)
	rootProfile = "limited-data-set"
	rootConfig = writeFile(t, dir, "phi.json", `{"names": ["Meredith Grey"]}`)
	scrubSkip = []string{"PHONE"}
	scrubQuiet = true
	cmd, stdout, _ := testCmd("Seen 3 days ago on 04/02/2024 in 60614 by Meredith Grey, 312-555-0199")

	if err := runScrub(cmd, nil); err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	want := "Seen 3 days ago on 04/02/2024 in 60614 by [PERSON], 312-555-0199"
	if got := stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunScrub_ConfigErrorsExit78(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{"min above max", func(t *testing.T, dir string) {
			rootConfig = writeFile(t, dir, "bad.json", `{"mrn_min_length": 9, "mrn_max_length": 4}`)
		}},
		{"unknown field", func(t *testing.T, dir string) {
			rootConfig = writeFile(t, dir, "bad.yaml", "nmaes: [x]\n")
		}},
		{"missing explicit config", func(t *testing.T, dir string) {
			rootConfig = filepath.Join(dir, "missing.json")
		}},
		{"unknown skip", func(t *testing.T, dir string) {
			scrubSkip = []string{"BLOOD_TYPE"}
		}},
		{"unknown profile", func(t *testing.T, dir string) {
			rootProfile = "no-such-profile"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := resetFlags(t)
			tt.setup(t, dir)
			cmd, stdout, _ := testCmd(contactNote)

			err := runScrub(cmd, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := exitCode(err); code != exitConfig {
				t.Errorf("exit code = %d (%v), want %d", code, err, exitConfig)
			}
			if stdout.Len() != 0 {
				t.Errorf("output written before config was validated: %q", stdout)
			}
		})
	}
}

func TestRunScrub_InvalidInputExit1(t *testing.T) {
	resetFlags(t)
	cmd, stdout, _ := testCmd("bad \xff\xfe bytes")

	err := runScrub(cmd, nil)
	if !errors.Is(err, scrub.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if code := exitCode(err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("partial output: %q", stdout)
	}
}

func TestSetup_BadLogLevel(t *testing.T) {
	resetFlags(t)
	rootLogLevel = "loud"
	err := setup(nil, nil)
	if code := exitCode(err); err == nil || code != exitConfig {
		t.Errorf("setup err = %v, exit %d", err, code)
	}
}

func TestSetup_EnvFile(t *testing.T) {
	dir := resetFlags(t)
	cfgPath := writeFile(t, dir, "phi.yaml", "skip: [EMAIL]\n")
	rootEnvFile = writeFile(t, dir, "phiscrub.env", "PHISCRUB_CONFIG="+cfgPath+"\n")
	t.Setenv(scrub.ConfigEnv, "")
	os.Unsetenv(scrub.ConfigEnv)

	if err := setup(nil, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	scrubQuiet = true
	cmd, stdout, _ := testCmd(contactNote)
	if err := runScrub(cmd, nil); err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	if got := stdout.String(); got != "Call [PHONE] or email jdoe@example.org" {
		t.Errorf("stdout = %q", got)
	}

	rootEnvFile = filepath.Join(dir, "missing.env")
	if err := setup(nil, nil); exitCode(err) != exitConfig {
		t.Errorf("missing env file: %v", err)
	}
}

func TestRunCheck(t *testing.T) {
	resetFlags(t)
	checkScenario = filepath.Join("..", "scenario", "testdata", "*.yaml")
	cmd, stdout, _ := testCmd("")

	if err := runCheck(cmd, nil); err != nil {
		t.Fatalf("runCheck: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout.String(), "PASS") || strings.Contains(stdout.String(), "FAIL") {
		t.Errorf("unexpected report:\n%s", stdout)
	}
}

func TestRunCheck_Failure(t *testing.T) {
	dir := resetFlags(t)
	writeFile(t, dir, "wrong.yaml", `name: wrong expectation
cases:
  - input: "Call 312-555-0199"
    expect: "Call 312-555-0199"
`)
	checkScenario = filepath.Join(dir, "*.yaml")
	checkFormat = "json"
	cmd, stdout, _ := testCmd("")

	err := runCheck(cmd, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if exitCode(err) != 1 {
		t.Errorf("exit code = %d", exitCode(err))
	}
	if !strings.Contains(stdout.String(), `"failed": 1`) {
		t.Errorf("json report:\n%s", stdout)
	}
}

func TestRunCheck_NoMatches(t *testing.T) {
	dir := resetFlags(t)
	checkScenario = filepath.Join(dir, "*.yaml")
	cmd, _, _ := testCmd("")
	if err := runCheck(cmd, nil); err == nil {
		t.Fatal("expected error for empty glob")
	}
}

func TestRunCategories(t *testing.T) {
	resetFlags(t)
	cmd, stdout, _ := testCmd("")
	if err := runCategories(cmd, nil); err != nil {
		t.Fatal(err)
	}
	out := stdout.String()
	if !strings.Contains(out, "[REL_DATE]") || !strings.Contains(out, "SAFE_HARBOR") {
		t.Errorf("table:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines != 18 {
		t.Errorf("got %d lines, want header + 17", lines)
	}

	resetFlags(t)
	categoriesJSON = true
	categoriesSafeHarbor = true
	categoriesSkip = []string{"person"}
	cmd, stdout, _ = testCmd("")
	if err := runCategories(cmd, nil); err != nil {
		t.Fatal(err)
	}
	var rows []categoryRow
	if err := json.Unmarshal(stdout.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 17 || rows[0].Name != "EMAIL" {
		t.Fatalf("rows = %+v", rows)
	}
	for _, r := range rows {
		want := r.Name != "PERSON"
		if r.Enabled != want {
			t.Errorf("%s enabled = %v, want %v", r.Name, r.Enabled, want)
		}
	}
}

func TestRunProfileList(t *testing.T) {
	resetFlags(t)
	cmd, stdout, _ := testCmd("")
	if err := runProfileList(cmd, nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"default", "limited-data-set", "safe-harbor", "strict"} {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("missing %s in:\n%s", name, stdout)
		}
	}
}

func TestRunProfileShow(t *testing.T) {
	resetFlags(t)
	cmd, stdout, _ := testCmd("")
	if err := runProfileShow(cmd, []string{"limited-data-set"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "DATE, REL_DATE, ZIP") {
		t.Errorf("show output:\n%s", stdout)
	}

	cmd, _, _ = testCmd("")
	if err := runProfileShow(cmd, []string{"nope"}); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestRunProfileInit(t *testing.T) {
	home := resetFlags(t)
	cmd, _, _ := testCmd("")

	if err := runProfileInit(cmd, []string{"clinic"}); err != nil {
		t.Fatalf("runProfileInit: %v", err)
	}
	path := filepath.Join(home, ".phiscrub", "profiles", "clinic.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("profile not created: %v", err)
	}

	// The new profile loads and shows.
	cmd, stdout, _ := testCmd("")
	if err := runProfileShow(cmd, []string{"clinic"}); err != nil {
		t.Fatalf("show generated profile: %v", err)
	}
	if !strings.Contains(stdout.String(), "Profile: clinic") {
		t.Errorf("show output:\n%s", stdout)
	}

	// No overwrite.
	cmd, _, _ = testCmd("")
	if err := runProfileInit(cmd, []string{"clinic"}); err == nil {
		t.Error("expected error when profile exists")
	}
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	versionCmd.SetOut(&stdout)
	defer versionCmd.SetOut(nil)
	versionCmd.Run(versionCmd, nil)

	var info map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["name"] != "phiscrub" || info["version"] == "" {
		t.Errorf("info = %v", info)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(&scrub.ConfigError{Field: "skip", Reason: "x"}); got != exitConfig {
		t.Errorf("ConfigError exit = %d", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Errorf("plain error exit = %d", got)
	}
}
