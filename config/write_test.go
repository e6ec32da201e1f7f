package config

import (
	"testing"
)

func TestAddAudit(t *testing.T) {
	path := writeTemp(t, "audits.toml", `
[[audits.pkg]]
criteria = "c"
version = "1.0"
`)
	err := AddAudit(path, "pkg", Entry{Criteria: "c", Delta: "1.0 -> 1.1", Notes: "diff reviewed"})
	if err != nil {
		t.Fatalf("AddAudit failed: %v", err)
	}

	a, err := LoadAudits(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	entries := a.Audits["pkg"]
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Delta != "1.0 -> 1.1" || entries[1].Notes != "diff reviewed" {
		t.Fatalf("unexpected appended entry: %+v", entries[1])
	}
}

func TestAddAuditNewPackage(t *testing.T) {
	path := writeTemp(t, "audits.toml", "")
	if err := AddAudit(path, "fresh", Entry{Criteria: "c", Version: "1.0"}); err != nil {
		t.Fatalf("AddAudit failed: %v", err)
	}
	a, err := LoadAudits(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(a.Audits["fresh"]) != 1 {
		t.Fatalf("expected 1 entry for fresh, got %+v", a.Audits)
	}
}

func TestAppendAndRemoveExempts(t *testing.T) {
	path := writeTemp(t, "vancouver.toml", `
[[exempt.pkg]]
criteria = "c"
version = "1.0"
`)
	keys := []ExemptKey{
		{Name: "pkg", Version: "1.0", Criteria: "c"}, // duplicate, skipped
		{Name: "pkg", Version: "2.0", Criteria: "c"},
		{Name: "other", Version: "3.0", Criteria: "d"},
	}
	if err := AppendExempts(path, keys); err != nil {
		t.Fatalf("AppendExempts failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(cfg.Exempt["pkg"]) != 2 {
		t.Fatalf("expected 2 pkg exemptions, got %+v", cfg.Exempt["pkg"])
	}
	if len(cfg.Exempt["other"]) != 1 {
		t.Fatalf("expected 1 other exemption, got %+v", cfg.Exempt["other"])
	}

	err = RemoveExempts(path, []ExemptKey{
		{Name: "pkg", Version: "1.0", Criteria: "c"},
		{Name: "other", Version: "3.0", Criteria: "d"},
	})
	if err != nil {
		t.Fatalf("RemoveExempts failed: %v", err)
	}

	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(cfg.Exempt["pkg"]) != 1 || cfg.Exempt["pkg"][0].Version != "2.0" {
		t.Fatalf("expected only pkg 2.0 to remain, got %+v", cfg.Exempt["pkg"])
	}
	if _, ok := cfg.Exempt["other"]; ok {
		t.Fatal("expected other to be dropped entirely")
	}
}

func TestMerge(t *testing.T) {
	dest := writeTemp(t, "audits.toml", `
[[audits.pkg]]
criteria = "c"
version = "1.0"

[[audits.stale]]
criteria = "c"
version = "0.1"
merged-from = "peer"
`)
	src := writeTemp(t, "peer.toml", `
[[audits.pkg]]
criteria = "c"
version = "1.0"

[[audits.pkg]]
criteria = "c"
version = "2.0"

[[audits.secret]]
criteria = "c"
version = "1.0"
private = true
`)

	if err := Merge(dest, src, "peer", false); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	a, err := LoadAudits(dest)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	// The duplicate stays as-is, the new entry lands tagged, the
	// private entry never crosses, and the entry peer previously
	// vouched for but no longer ships is pruned.
	entries := a.Audits["pkg"]
	if len(entries) != 2 {
		t.Fatalf("expected 2 pkg entries, got %+v", entries)
	}
	if entries[0].MergedFrom != "" {
		t.Fatalf("pre-existing entry must stay untagged: %+v", entries[0])
	}
	if entries[1].Version != "2.0" || entries[1].MergedFrom != "peer" {
		t.Fatalf("unexpected merged entry: %+v", entries[1])
	}
	if _, ok := a.Audits["secret"]; ok {
		t.Fatal("private entries must not merge")
	}
	if _, ok := a.Audits["stale"]; ok {
		t.Fatal("expected stale peer entry to be pruned")
	}
}

func TestMergeIsolate(t *testing.T) {
	dest := writeTemp(t, "audits.toml", "")
	src := writeTemp(t, "peer.toml", `
[[audits.pkg]]
criteria = "c"
version = "1.0"
`)
	if err := Merge(dest, src, "peer", true); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	a, err := LoadAudits(dest)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	entries := a.Audits["pkg"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %+v", entries)
	}
	if entries[0].Criteria != "peer:c" {
		t.Fatalf("expected namespaced criteria, got %q", entries[0].Criteria)
	}
	if !entries[0].Private {
		t.Fatal("isolated entries must be private")
	}
}

func TestMergeIdempotent(t *testing.T) {
	dest := writeTemp(t, "audits.toml", "")
	src := writeTemp(t, "peer.toml", `
[[audits.pkg]]
criteria = "c"
version = "1.0"
`)
	for i := 0; i < 2; i++ {
		if err := Merge(dest, src, "peer", false); err != nil {
			t.Fatalf("Merge %d failed: %v", i, err)
		}
	}
	a, err := LoadAudits(dest)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(a.Audits["pkg"]) != 1 {
		t.Fatalf("expected merge to be idempotent, got %+v", a.Audits["pkg"])
	}
}
