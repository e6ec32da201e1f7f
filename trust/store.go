// Package trust holds the audit facts a check run resolves against:
// trust roots (direct audits and config exemptions), trust deltas, and
// violations, each keyed by the exact (criterion, package, version)
// triple. Exemption roots carry a monotonic usage marker so a run can
// report exemptions it never needed.
package trust

import (
	"sort"
	"sync/atomic"

	"github.com/initializ/vancouver/config"
	"github.com/initializ/vancouver/version"
)

// Root is a direct audit fact: the triple it is stored under satisfies
// its criterion. Ledger audits have no usage marker; config exemptions
// carry one, initialized false unless the exemption allows being unused.
type Root struct {
	used *atomic.Bool
}

// MarkUsed flips the usage marker. Safe from concurrent checkers: the
// only transition is false to true, so no ordering is needed.
func (r *Root) MarkUsed() {
	if r.used != nil {
		r.used.Store(true)
	}
}

// Delta is a relative audit fact: the version it is stored under
// satisfies its criterion whenever Parent does.
type Delta struct {
	Parent version.Version
}

// Unused identifies an exemption no check needed.
type Unused struct {
	Name     string
	Version  version.Version
	Criteria string
}

type tracked struct {
	name     string
	ver      version.Version
	criteria string
	used     *atomic.Bool
}

// Store is built once per run and read-only thereafter except for usage
// marker flips.
type Store struct {
	roots      map[string]map[string]map[string]*Root
	deltas     map[string]map[string]map[string]Delta
	violations map[string]map[string]map[string]struct{}
	versions   map[string][]version.Version
	tracked    []tracked
	extra      []Unused
}

// NewStore populates the store: config exemptions first (skipped
// entirely with ignoreExempts), then ledger audits. A ledger audit
// landing on the same key as an exemption makes that exemption
// redundant and it is recorded for the unused report regardless of its
// allow_unused flag. Malformed delta literals fail construction.
func NewStore(cfg *config.Config, audits *config.Audits, ignoreExempts bool) (*Store, error) {
	s := &Store{
		roots:      make(map[string]map[string]map[string]*Root),
		deltas:     make(map[string]map[string]map[string]Delta),
		violations: make(map[string]map[string]map[string]struct{}),
	}

	if !ignoreExempts && cfg != nil {
		for _, name := range sortedKeys(cfg.Exempt) {
			for _, e := range cfg.Exempt[name] {
				if err := s.insertExempt(name, e); err != nil {
					return nil, err
				}
			}
		}
	}

	if audits != nil {
		for _, name := range sortedKeys(audits.Audits) {
			for _, e := range audits.Audits[name] {
				if err := s.insertAudit(name, e); err != nil {
					return nil, err
				}
			}
		}
	}

	s.indexVersions()
	return s, nil
}

func (s *Store) insertExempt(name string, e config.Entry) error {
	switch {
	case e.Version != "":
		ver := version.Parse(e.Version)
		if s.Root(e.Criteria, name, e.Version) != nil {
			// Identical exemptions collapse into one fact.
			return nil
		}
		used := &atomic.Bool{}
		used.Store(e.AllowUnused)
		putTriple(s.roots, e.Criteria, name, e.Version, &Root{used: used})
		s.tracked = append(s.tracked, tracked{name: name, ver: ver, criteria: e.Criteria, used: used})
	case e.Delta != "":
		from, to, err := config.ParseDelta(e.Delta)
		if err != nil {
			return err
		}
		putTriple(s.deltas, e.Criteria, name, to.String(), Delta{Parent: from})
	case e.Violation != "":
		putTriple(s.violations, e.Criteria, name, e.Violation, struct{}{})
	}
	return nil
}

func (s *Store) insertAudit(name string, e config.Entry) error {
	switch {
	case e.Version != "":
		if prev := s.Root(e.Criteria, name, e.Version); prev != nil && prev.used != nil {
			// A real audit supersedes the exemption at this key.
			s.extra = append(s.extra, Unused{Name: name, Version: version.Parse(e.Version), Criteria: e.Criteria})
		}
		putTriple(s.roots, e.Criteria, name, e.Version, &Root{})
	case e.Delta != "":
		from, to, err := config.ParseDelta(e.Delta)
		if err != nil {
			return err
		}
		putTriple(s.deltas, e.Criteria, name, to.String(), Delta{Parent: from})
	case e.Violation != "":
		putTriple(s.violations, e.Criteria, name, e.Violation, struct{}{})
	}
	return nil
}

// indexVersions records, per package, the sorted set of versions with
// any root or delta under any criterion. This feeds the nearest-prior
// search.
func (s *Store) indexVersions() {
	seen := make(map[string]map[string]version.Version)
	note := func(name, ver string) {
		if seen[name] == nil {
			seen[name] = make(map[string]version.Version)
		}
		if _, ok := seen[name][ver]; !ok {
			seen[name][ver] = version.Parse(ver)
		}
	}
	for _, byName := range s.roots {
		for name, byVer := range byName {
			for ver := range byVer {
				note(name, ver)
			}
		}
	}
	for _, byName := range s.deltas {
		for name, byVer := range byName {
			for ver := range byVer {
				note(name, ver)
			}
		}
	}

	s.versions = make(map[string][]version.Version, len(seen))
	for name, byVer := range seen {
		vs := make([]version.Version, 0, len(byVer))
		for _, v := range byVer {
			vs = append(vs, v)
		}
		sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
		s.versions[name] = vs
	}
}

// Root returns the trust root at the exact triple, or nil.
func (s *Store) Root(criterion, name, ver string) *Root {
	return s.roots[criterion][name][ver]
}

// Delta returns the trust delta at the exact triple.
func (s *Store) Delta(criterion, name, ver string) (Delta, bool) {
	d, ok := s.deltas[criterion][name][ver]
	return d, ok
}

// Violated reports an explicit violation at the exact triple.
func (s *Store) Violated(criterion, name, ver string) bool {
	_, ok := s.violations[criterion][name][ver]
	return ok
}

// KnownVersions returns the sorted versions of name with any root or
// delta recorded. The slice is shared and must not be mutated.
func (s *Store) KnownVersions(name string) []version.Version {
	return s.versions[name]
}

// Unused returns the exemptions whose markers were never flipped plus
// those superseded at construction, sorted by name, version, criteria.
func (s *Store) Unused() []Unused {
	out := append([]Unused(nil), s.extra...)
	for _, t := range s.tracked {
		if !t.used.Load() {
			out = append(out, Unused{Name: t.name, Version: t.ver, Criteria: t.criteria})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if c := out[i].Version.Compare(out[j].Version); c != 0 {
			return c < 0
		}
		return out[i].Criteria < out[j].Criteria
	})
	return out
}

func putTriple[T any](m map[string]map[string]map[string]T, criterion, name, ver string, v T) {
	byName, ok := m[criterion]
	if !ok {
		byName = make(map[string]map[string]T)
		m[criterion] = byName
	}
	byVer, ok := byName[name]
	if !ok {
		byVer = make(map[string]T)
		byName[name] = byVer
	}
	byVer[ver] = v
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
