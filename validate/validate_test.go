package validate

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/initializ/vancouver/config"
)

func parse(t *testing.T, configDoc, auditsDoc string) (*config.Config, *config.Audits) {
	t.Helper()
	var cfg config.Config
	if err := toml.Unmarshal([]byte(configDoc), &cfg); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	var audits config.Audits
	if err := toml.Unmarshal([]byte(auditsDoc), &audits); err != nil {
		t.Fatalf("parsing audits: %v", err)
	}
	return &cfg, &audits
}

func TestValidInputs(t *testing.T) {
	cfg, audits := parse(t, `
[criteria.audited]
implies = "safe-to-deploy"

[default_policy]
require_all = ["audited"]

[[exempt.pkg]]
criteria = "audited"
version = "1.0"
`, `
[[audits.pkg]]
criteria = "audited"
delta = "1.0 -> 1.1"
`)
	r := Inputs(cfg, audits)
	if !r.IsValid() {
		t.Fatalf("expected valid inputs, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", r.Warnings)
	}
}

func TestEntryNeedsExactlyOneFact(t *testing.T) {
	cfg, audits := parse(t, `
[[exempt.pkg]]
criteria = "safe-to-deploy"
`, `
[[audits.pkg]]
criteria = "safe-to-deploy"
version = "1.0"
delta = "1.0 -> 1.1"
`)
	r := Inputs(cfg, audits)
	if r.IsValid() {
		t.Fatal("expected errors")
	}
	if len(r.Errors) != 2 {
		t.Fatalf("expected 2 errors (none set, two set), got %v", r.Errors)
	}
	for _, e := range r.Errors {
		if !strings.Contains(e, "exactly one of") {
			t.Fatalf("unexpected error text: %q", e)
		}
	}
}

func TestMalformedDelta(t *testing.T) {
	cfg, audits := parse(t, "", `
[[audits.pkg]]
criteria = "safe-to-deploy"
delta = "1.0 1.1"
`)
	r := Inputs(cfg, audits)
	if r.IsValid() {
		t.Fatal("expected an error for the malformed delta")
	}
}

func TestAllowUnusedOnlyInConfig(t *testing.T) {
	cfg, audits := parse(t, "", `
[[audits.pkg]]
criteria = "safe-to-deploy"
version = "1.0"
allow_unused = true
`)
	r := Inputs(cfg, audits)
	if r.IsValid() {
		t.Fatal("expected an error for allow_unused in the ledger")
	}
}

func TestUndeclaredCriteriaWarn(t *testing.T) {
	cfg, audits := parse(t, `
[default_policy]
require_all = ["made-up"]

[[exempt.pkg]]
criteria = "also-made-up"
version = "1.0"
`, "")
	r := Inputs(cfg, audits)
	if !r.IsValid() {
		t.Fatalf("undeclared criteria are warnings, not errors: %v", r.Errors)
	}
	if len(r.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", r.Warnings)
	}
}

func TestEmptyRequireAllWarns(t *testing.T) {
	cfg, audits := parse(t, `
[default_policy]
require_all = []
`, "")
	r := Inputs(cfg, audits)
	if !r.IsValid() {
		t.Fatalf("expected no errors, got %v", r.Errors)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "every dependency will pass") {
		t.Fatalf("expected empty-policy warning, got %v", r.Warnings)
	}
}
