package check

import (
	"sort"

	"github.com/initializ/vancouver/config"
)

// RequiredCriteria resolves the criteria set a dependency must satisfy:
// its own policy's require_all when set, else the resolved default
// policy, which itself defaults to safe-to-deploy. The result is sorted
// so receipts list failures deterministically.
func RequiredCriteria(cfg *config.Config, name string) []string {
	def := []string{config.DefaultCriterion}
	if req, ok := cfg.DefaultPolicy.Require(); ok {
		def = req
	} else if req, ok := cfg.DefaultPolicyDashed.Require(); ok {
		def = req
	}

	required := def
	if pol, ok := cfg.Policy[name]; ok {
		if req, ok := pol.Require(); ok {
			required = req
		}
	}

	out := append([]string(nil), required...)
	sort.Strings(out)
	return out
}
