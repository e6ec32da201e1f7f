package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// File mutation for the maintenance surfaces: appending audits, merging
// foreign ledgers, persisting minimal exemptions and ratcheting unused
// ones away. Files are rewritten via decode-mutate-encode, so TOML
// comments in the source file are not preserved.

// ExemptKey identifies one exemption for append/remove operations.
type ExemptKey struct {
	Name     string
	Version  string
	Criteria string
}

// SaveConfig writes cfg back to path.
func SaveConfig(path string, cfg *Config) error {
	return writeTOML(path, cfg, "config")
}

// SaveAudits writes the ledger back to path.
func SaveAudits(path string, a *Audits) error {
	return writeTOML(path, a, "audits")
}

func writeTOML(path string, v any, what string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encoding %s file: %w", what, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s file: %w", what, err)
	}
	return nil
}

// AddAudit appends one entry to the ledger at path.
func AddAudit(path, name string, entry Entry) error {
	a, err := LoadAudits(path)
	if err != nil {
		return err
	}
	if a.Audits == nil {
		a.Audits = make(map[string][]Entry)
	}
	a.Audits[name] = append(a.Audits[name], entry)
	return SaveAudits(path, a)
}

// AppendExempts appends a minimal exemption per key to the config at
// path. Keys already present are not duplicated.
func AppendExempts(path string, keys []ExemptKey) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	if cfg.Exempt == nil {
		cfg.Exempt = make(map[string][]Entry)
	}
	for _, k := range keys {
		if hasExempt(cfg.Exempt[k.Name], k) {
			continue
		}
		cfg.Exempt[k.Name] = append(cfg.Exempt[k.Name], Entry{
			Criteria: k.Criteria,
			Version:  k.Version,
		})
	}
	return SaveConfig(path, cfg)
}

// RemoveExempts drops the given exemptions from the config at path,
// leaving no empty packages behind.
func RemoveExempts(path string, keys []ExemptKey) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	drop := make(map[ExemptKey]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	for name, entries := range cfg.Exempt {
		kept := entries[:0]
		for _, e := range entries {
			if _, gone := drop[ExemptKey{Name: name, Version: e.Version, Criteria: e.Criteria}]; !gone {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(cfg.Exempt, name)
		} else {
			cfg.Exempt[name] = kept
		}
	}
	return SaveConfig(path, cfg)
}

func hasExempt(entries []Entry, k ExemptKey) bool {
	for _, e := range entries {
		if e.Criteria == k.Criteria && e.Version == k.Version {
			return true
		}
	}
	return false
}

// dupeKey identifies an audit entry for merge deduplication.
type dupeKey struct {
	name      string
	criteria  string
	delta     string
	version   string
	violation string
}

// Merge folds the ledger at srcPath into the one at destPath.
// Private source entries are skipped. Entries already present (by name,
// criteria and version/delta/violation) are not duplicated. New entries
// are tagged merged-from with identifier; with isolate, criteria are
// namespaced "<identifier>:<criteria>" and the entry is marked private
// so it never propagates further. Entries previously merged from the
// same identifier but absent from the source are pruned.
func Merge(destPath, srcPath, identifier string, isolate bool) error {
	src, err := LoadAudits(srcPath)
	if err != nil {
		return fmt.Errorf("opening merge source: %w", err)
	}
	dest, err := LoadAudits(destPath)
	if err != nil {
		return err
	}
	if dest.Audits == nil {
		dest.Audits = make(map[string][]Entry)
	}

	existing := make(map[dupeKey]struct{})
	for name, entries := range dest.Audits {
		for _, e := range entries {
			existing[entryKey(name, e)] = struct{}{}
		}
	}

	merged := make(map[dupeKey]struct{})
	names := make([]string, 0, len(src.Audits))
	for name := range src.Audits {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, e := range src.Audits[name] {
			if e.Private {
				continue
			}
			if isolate {
				e.Criteria = identifier + ":" + e.Criteria
			}
			key := entryKey(name, e)
			dup := false
			if _, dup = existing[key]; !dup {
				_, dup = merged[key]
			}
			merged[key] = struct{}{}
			if dup {
				continue
			}
			e.MergedFrom = identifier
			if isolate {
				e.Private = true
			}
			dest.Audits[name] = append(dest.Audits[name], e)
		}
	}

	// Prune entries this identifier no longer vouches for.
	for name, entries := range dest.Audits {
		kept := entries[:0]
		for _, e := range entries {
			if e.MergedFrom == identifier {
				if _, ok := merged[entryKey(name, e)]; !ok {
					continue
				}
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(dest.Audits, name)
		} else {
			dest.Audits[name] = kept
		}
	}

	return SaveAudits(destPath, dest)
}

func entryKey(name string, e Entry) dupeKey {
	return dupeKey{
		name:      name,
		criteria:  e.Criteria,
		delta:     e.Delta,
		version:   e.Version,
		violation: e.Violation,
	}
}
