// Package config holds the on-disk model for vancouver's three inputs:
// the config file (criteria, policies, exemptions), the audits ledger,
// and the lock file. All three are TOML. Loading stops at
// deserialization; semantic checks live in the validate package.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/initializ/vancouver/criteria"
	"github.com/initializ/vancouver/version"
)

// DefaultCriterion is required of every dependency that has no policy of
// its own and no configured default.
const DefaultCriterion = "safe-to-deploy"

// Config is the parsed vancouver.toml.
type Config struct {
	Criteria map[string]CriteriaDef `toml:"criteria,omitempty"`
	// default_policy and default-policy are accepted interchangeably.
	DefaultPolicy       *Policy            `toml:"default_policy,omitempty"`
	DefaultPolicyDashed *Policy            `toml:"default-policy,omitempty"`
	Policy              map[string]Policy  `toml:"policy,omitempty"`
	Exempt              map[string][]Entry `toml:"exempt,omitempty"`
}

// Policy names the criteria a dependency must satisfy. A nil RequireAll
// means "inherit": per-dependency policies inherit the default policy,
// and the default policy falls back to DefaultCriterion.
type Policy struct {
	RequireAll       *StringList `toml:"require_all,omitempty"`
	RequireAllDashed *StringList `toml:"require-all,omitempty"`
}

// Require resolves the policy's own require_all, honoring both key
// spellings. ok is false when neither was present.
func (p *Policy) Require() (list []string, ok bool) {
	if p == nil {
		return nil, false
	}
	if p.RequireAll != nil {
		return *p.RequireAll, true
	}
	if p.RequireAllDashed != nil {
		return *p.RequireAllDashed, true
	}
	return nil, false
}

// CriteriaDef declares one criterion's implication edges. Each field
// accepts a single string or a list of strings.
type CriteriaDef struct {
	Implies    StringList `toml:"implies,omitempty"`
	ImpliedAll StringList `toml:"implied_all,omitempty"`
	ImpliedAny StringList `toml:"implied_any,omitempty"`
}

// Audits is the parsed audits ledger.
type Audits struct {
	Criteria map[string]CriteriaDef `toml:"criteria,omitempty"`
	Audits   map[string][]Entry     `toml:"audits,omitempty"`
}

// Entry is one audit or exemption record. Exactly one of Version, Delta
// and Violation must be set. AllowUnused is only meaningful on config
// exemptions; ledger entries never carry it. MergedFrom and Private are
// bookkeeping for the merge command.
type Entry struct {
	Criteria    string `toml:"criteria"`
	Version     string `toml:"version,omitempty"`
	Delta       string `toml:"delta,omitempty"`
	Violation   string `toml:"violation,omitempty"`
	Notes       string `toml:"notes,omitempty"`
	AllowUnused bool   `toml:"allow_unused,omitempty"`
	MergedFrom  string `toml:"merged-from,omitempty"`
	Private     bool   `toml:"private,omitempty"`
}

// ParseDelta splits a delta literal "<from> -> <to>". A delta audit
// trusts the to-version whenever the from-version is trusted.
func ParseDelta(s string) (from, to version.Version, err error) {
	head, tail, found := strings.Cut(s, "->")
	if !found {
		return version.Version{}, version.Version{}, fmt.Errorf("malformed delta %q: missing \"->\"", s)
	}
	return version.Parse(strings.TrimSpace(head)), version.Parse(strings.TrimSpace(tail)), nil
}

// CriteriaDefs converts the file-shaped criteria table for compilation.
func CriteriaDefs(defs map[string]CriteriaDef) map[string]criteria.Def {
	out := make(map[string]criteria.Def, len(defs))
	for name, d := range defs {
		out[name] = criteria.Def{
			Implies:    d.Implies,
			ImpliedAll: d.ImpliedAll,
			ImpliedAny: d.ImpliedAny,
		}
	}
	return out
}

// Load reads and deserializes a vancouver.toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// LoadAudits reads and deserializes an audits ledger.
func LoadAudits(path string) (*Audits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening audits file: %w", err)
	}
	var a Audits
	if err := toml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing audits file: %w", err)
	}
	return &a, nil
}
