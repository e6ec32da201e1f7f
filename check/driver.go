package check

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/initializ/vancouver/config"
	"github.com/initializ/vancouver/criteria"
	"github.com/initializ/vancouver/trust"
	"github.com/initializ/vancouver/version"
)

// Fail is one unmet required criterion on a receipt. Prev, when present,
// is the nearest earlier version that would have satisfied the
// criterion, suggesting a delta audit.
type Fail struct {
	Needed string
	Reason Outcome
	Prev   *version.Version
}

// Receipt is the outcome for one dependency.
type Receipt struct {
	Name    string
	Version version.Version
	Fails   []Fail
}

// Passed reports whether every required criterion was satisfied.
func (r Receipt) Passed() bool { return len(r.Fails) == 0 }

// Result is the engine's complete output for one run.
type Result struct {
	Receipts    []Receipt
	Total       int
	TotalPassed int
	TotalFailed int
	Unused      []trust.Unused
}

// Run evaluates every dependency against its resolved policy. Checks are
// independent pure computation over the shared read-mostly store, so
// they fan out across workers; receipts land in an index-addressed slice
// to keep input order. The unused-exemption set is collected after all
// checks settle, since any check may mark an exemption used.
func Run(deps []config.Dependency, cfg *config.Config, rules *criteria.Rules, store *trust.Store, limit int) *Result {
	resolver := NewResolver(rules, store, limit)
	receipts := make([]Receipt, len(deps))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, dep := range deps {
		i, dep := i, dep
		g.Go(func() error {
			receipts[i] = resolver.evaluate(dep, RequiredCriteria(cfg, dep.Name))
			return nil
		})
	}
	// Workers never return errors; per-dependency outcomes are data.
	_ = g.Wait()

	res := &Result{Receipts: receipts, Total: len(receipts), Unused: store.Unused()}
	for _, r := range receipts {
		if r.Passed() {
			res.TotalPassed++
		} else {
			res.TotalFailed++
		}
	}
	return res
}

func (r *Resolver) evaluate(dep config.Dependency, required []string) Receipt {
	receipt := Receipt{Name: dep.Name, Version: dep.Version}
	for _, criterion := range required {
		outcome := r.Check(dep.Name, dep.Version, criterion)
		if outcome == Validated {
			continue
		}
		fail := Fail{Needed: criterion, Reason: outcome}
		if outcome == Missing || outcome == Violation {
			if prev, ok := r.FindPrev(dep.Name, dep.Version, criterion, r.limit); ok {
				fail.Prev = &prev
			}
		}
		receipt.Fails = append(receipt.Fails, fail)
	}
	return receipt
}
