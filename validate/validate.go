// Package validate checks parsed config and ledger structures before a
// run is constructed. Errors here abort the run; nothing is partially
// evaluated.
package validate

import (
	"fmt"
	"sort"

	"github.com/initializ/vancouver/config"
)

// Result holds errors and warnings from input validation.
type Result struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Inputs checks a config and audits ledger pair.
func Inputs(cfg *config.Config, audits *config.Audits) *Result {
	r := &Result{}

	known := make(map[string]bool)
	known[config.DefaultCriterion] = true
	for name := range cfg.Criteria {
		known[name] = true
	}
	for name := range audits.Criteria {
		known[name] = true
	}

	for _, name := range sortedKeys(cfg.Exempt) {
		for i, e := range cfg.Exempt[name] {
			checkEntry(r, "exempt", name, i, e, known)
		}
	}
	for _, name := range sortedKeys(audits.Audits) {
		for i, e := range audits.Audits[name] {
			checkEntry(r, "audits", name, i, e, known)
			if e.AllowUnused {
				r.errorf("audits.%s[%d]: allow_unused is only valid on config exemptions", name, i)
			}
		}
	}

	checkPolicy(r, "default_policy", cfg.DefaultPolicy, known)
	checkPolicy(r, "default-policy", cfg.DefaultPolicyDashed, known)
	for _, name := range sortedKeys(cfg.Policy) {
		pol := cfg.Policy[name]
		checkPolicy(r, "policy."+name, &pol, known)
	}

	return r
}

func checkEntry(r *Result, table, name string, i int, e config.Entry, known map[string]bool) {
	set := 0
	if e.Version != "" {
		set++
	}
	if e.Delta != "" {
		set++
	}
	if e.Violation != "" {
		set++
	}
	if set != 1 {
		r.errorf("%s.%s[%d]: exactly one of version, delta or violation is required", table, name, i)
	}
	if e.Delta != "" {
		if _, _, err := config.ParseDelta(e.Delta); err != nil {
			r.errorf("%s.%s[%d]: %s", table, name, i, err)
		}
	}
	if e.Criteria == "" {
		r.errorf("%s.%s[%d]: criteria is required", table, name, i)
	} else if !known[e.Criteria] {
		r.warnf("%s.%s[%d]: criteria %q is not declared", table, name, i, e.Criteria)
	}
}

func checkPolicy(r *Result, where string, pol *config.Policy, known map[string]bool) {
	req, ok := pol.Require()
	if !ok {
		return
	}
	if len(req) == 0 {
		r.warnf("%s: require_all is empty, every dependency will pass", where)
	}
	for _, c := range req {
		if !known[c] {
			r.warnf("%s: require_all names undeclared criteria %q", where, c)
		}
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
