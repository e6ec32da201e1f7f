// Package criteria compiles criteria declarations into the implication
// rules consumed by the checker.
//
// Declarations come from two places: the audits ledger and the config.
// They are merged name-by-name with config taking precedence. Each
// criterion's `implies` edges are inverted (X implies A means A is
// implied by any of X) and folded into the compiled implied_any set
// alongside the criterion's own implied_any declaration. The compiled
// graph may be cyclic; the checker bounds traversal with its recursion
// budget rather than any preprocessing here.
package criteria

import "sort"

// Def is a single criterion declaration as it appears in a config or
// ledger file, after string-or-list normalization.
type Def struct {
	Implies    []string
	ImpliedAll []string
	ImpliedAny []string
}

// Rules holds the compiled implication edges.
type Rules struct {
	impliedAll map[string][]string
	impliedAny map[string][]string
}

// Compile merges ledger and config declarations (config wins on name
// collision) and builds the implication rule sets.
func Compile(ledger, config map[string]Def) *Rules {
	merged := make(map[string]Def, len(ledger)+len(config))
	for name, def := range ledger {
		merged[name] = def
	}
	for name, def := range config {
		merged[name] = def
	}

	r := &Rules{
		impliedAll: make(map[string][]string),
		impliedAny: make(map[string][]string),
	}

	anySets := make(map[string]map[string]struct{})
	addAny := func(target, member string) {
		set, ok := anySets[target]
		if !ok {
			set = make(map[string]struct{})
			anySets[target] = set
		}
		set[member] = struct{}{}
	}

	for name, def := range merged {
		for _, granted := range def.Implies {
			addAny(granted, name)
		}
		for _, member := range def.ImpliedAny {
			addAny(name, member)
		}
		if len(def.ImpliedAll) > 0 {
			all := append([]string(nil), def.ImpliedAll...)
			sort.Strings(all)
			r.impliedAll[name] = all
		}
	}

	for name, set := range anySets {
		members := make([]string, 0, len(set))
		for m := range set {
			members = append(members, m)
		}
		sort.Strings(members)
		r.impliedAny[name] = members
	}

	return r
}

// ImpliedAll returns the criteria that must all hold for name to be
// implied. The returned slice is shared and must not be mutated.
func (r *Rules) ImpliedAll(name string) []string { return r.impliedAll[name] }

// ImpliedAny returns the criteria any one of which implies name.
func (r *Rules) ImpliedAny(name string) []string { return r.impliedAny[name] }
