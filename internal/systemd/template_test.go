package systemd

import (
	"strings"
	"testing"
)

func TestWatchTemplate(t *testing.T) {
	tmpl := WatchTemplate()

	// Must be a valid systemd unit with required sections.
	for _, section := range []string{"[Unit]", "[Service]", "[Install]"} {
		if !strings.Contains(tmpl, section) {
			t.Errorf("template missing section %s", section)
		}
	}

	// Must use %i instance specifier for the profile.
	if !strings.Contains(tmpl, "phiscrub watch --profile %i") {
		t.Error("template missing phiscrub watch command")
	}

	// Must write only under its own state directory.
	if !strings.Contains(tmpl, "ReadWritePaths=/var/lib/phiscrub/%i") {
		t.Error("template missing ReadWritePaths")
	}
	for _, dir := range []string{"inbox", "outbox"} {
		if !strings.Contains(tmpl, "--"+dir+" /var/lib/phiscrub/%i/"+dir) {
			t.Errorf("template missing --%s", dir)
		}
	}

	// Must have security hardening directives.
	for _, directive := range []string{"NoNewPrivileges=true", "PrivateTmp=true", "PrivateNetwork=true", "ProtectSystem=strict", "UMask=0077"} {
		if !strings.Contains(tmpl, directive) {
			t.Errorf("template missing security directive %s", directive)
		}
	}
}
