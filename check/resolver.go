// Package check evaluates dependencies against their required criteria:
// the recursive criteria resolver, the nearest-prior-audit search, and
// the parallel driver that turns a dependency list into receipts.
package check

import (
	"slices"

	"github.com/initializ/vancouver/criteria"
	"github.com/initializ/vancouver/trust"
	"github.com/initializ/vancouver/version"
)

// DefaultLimit is the default recursion budget: the maximum number of
// implication and delta hops the resolver follows before giving up.
const DefaultLimit = 621

// Outcome is the result of resolving one criterion for one dependency
// version. Everything but Validated is a normal failed result, never an
// error.
type Outcome uint8

const (
	Validated Outcome = iota
	Missing
	RecursionLimitReached
	Violation
)

// String returns the report spelling of the outcome.
func (o Outcome) String() string {
	switch o {
	case Validated:
		return "Validated"
	case RecursionLimitReached:
		return "RecursionLimitReached"
	case Violation:
		return "Violation"
	default:
		return "Missing"
	}
}

// Resolver answers whether a criterion holds for a (name, version) pair,
// consulting the trust store and the compiled implication rules. It is
// safe for concurrent use; the only mutation it performs is flipping
// usage markers, which is monotonic.
type Resolver struct {
	rules *criteria.Rules
	store *trust.Store
	limit int
}

// NewResolver builds a resolver with the given recursion budget.
func NewResolver(rules *criteria.Rules, store *trust.Store, limit int) *Resolver {
	return &Resolver{rules: rules, store: store, limit: limit}
}

// Check resolves criterion for (name, ver) with a fresh ancestor chain
// and the full budget.
func (r *Resolver) Check(name string, ver version.Version, criterion string) Outcome {
	return r.check(name, ver.String(), criterion, nil, r.limit)
}

// check is the recursive core. ancestors lists the criteria already
// being satisfied through the current implication path, closest last;
// an audit recorded under any of them counts for the original target,
// since reaching this frame at all proves the implication. The order of
// the steps is load-bearing: a violation can never be laundered through
// implication, and a direct audit is always cheaper than recursion.
func (r *Resolver) check(name, ver, criterion string, ancestors []string, budget int) Outcome {
	if r.store.Violated(criterion, name, ver) {
		return Violation
	}

	if root := r.lookupRoot(criterion, name, ver, ancestors); root != nil {
		root.MarkUsed()
		return Validated
	}

	if budget == 0 {
		return RecursionLimitReached
	}

	if delta, ok := r.lookupDelta(criterion, name, ver, ancestors); ok {
		return r.check(name, delta.Parent.String(), criterion, ancestors, budget-1)
	}

	all := r.rules.ImpliedAll(criterion)
	anyOf := r.rules.ImpliedAny(criterion)
	if len(all) == 0 && len(anyOf) == 0 {
		return Missing
	}
	chain := append(slices.Clip(ancestors), criterion)

	if len(all) > 0 {
		satisfied := true
		for _, member := range all {
			if r.check(name, ver, member, chain, budget-1) != Validated {
				satisfied = false
				break
			}
		}
		if satisfied {
			return Validated
		}
	}

	for _, member := range anyOf {
		if r.check(name, ver, member, chain, budget-1) == Validated {
			return Validated
		}
	}

	return Missing
}

func (r *Resolver) lookupRoot(criterion, name, ver string, ancestors []string) *trust.Root {
	if root := r.store.Root(criterion, name, ver); root != nil {
		return root
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if root := r.store.Root(ancestors[i], name, ver); root != nil {
			return root
		}
	}
	return nil
}

func (r *Resolver) lookupDelta(criterion, name, ver string, ancestors []string) (trust.Delta, bool) {
	if d, ok := r.store.Delta(criterion, name, ver); ok {
		return d, true
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if d, ok := r.store.Delta(ancestors[i], name, ver); ok {
			return d, true
		}
	}
	return trust.Delta{}, false
}

// FindPrev searches for the closest version of name strictly below ver
// that would validate criterion, to suggest a delta audit. Absence of a
// result is not an error.
func (r *Resolver) FindPrev(name string, ver version.Version, criterion string, budget int) (version.Version, bool) {
	if budget == 0 {
		return version.Version{}, false
	}
	budget--
	known := r.store.KnownVersions(name)
	for i := len(known) - 1; i >= 0; i-- {
		if known[i].Compare(ver) >= 0 {
			continue
		}
		if r.check(name, known[i].String(), criterion, nil, budget) == Validated {
			return known[i], true
		}
	}
	return version.Version{}, false
}
