package criteria

import (
	"reflect"
	"testing"
)

func TestCompileInvertsImplies(t *testing.T) {
	rules := Compile(nil, map[string]Def{
		"strong": {Implies: []string{"weak", "weaker"}},
	})

	if got := rules.ImpliedAny("weak"); !reflect.DeepEqual(got, []string{"strong"}) {
		t.Fatalf("implied_any[weak] = %v, expected [strong]", got)
	}
	if got := rules.ImpliedAny("weaker"); !reflect.DeepEqual(got, []string{"strong"}) {
		t.Fatalf("implied_any[weaker] = %v, expected [strong]", got)
	}
	if got := rules.ImpliedAny("strong"); got != nil {
		t.Fatalf("implied_any[strong] = %v, expected none", got)
	}
}

func TestCompileMergesDeclaredSets(t *testing.T) {
	rules := Compile(nil, map[string]Def{
		"combo":  {ImpliedAll: []string{"b", "a"}, ImpliedAny: []string{"shortcut"}},
		"strong": {Implies: []string{"combo"}},
	})

	if got := rules.ImpliedAll("combo"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("implied_all[combo] = %v, expected sorted [a b]", got)
	}
	// Declared implied_any merges with the inversion of strong's implies.
	if got := rules.ImpliedAny("combo"); !reflect.DeepEqual(got, []string{"shortcut", "strong"}) {
		t.Fatalf("implied_any[combo] = %v, expected [shortcut strong]", got)
	}
}

func TestCompileConfigWinsOnCollision(t *testing.T) {
	ledger := map[string]Def{
		"shared": {Implies: []string{"from-ledger"}},
		"only":   {Implies: []string{"kept"}},
	}
	config := map[string]Def{
		"shared": {Implies: []string{"from-config"}},
	}
	rules := Compile(ledger, config)

	if got := rules.ImpliedAny("from-config"); !reflect.DeepEqual(got, []string{"shared"}) {
		t.Fatalf("implied_any[from-config] = %v, expected [shared]", got)
	}
	// The ledger declaration for the colliding name is replaced wholesale.
	if got := rules.ImpliedAny("from-ledger"); got != nil {
		t.Fatalf("implied_any[from-ledger] = %v, expected none", got)
	}
	if got := rules.ImpliedAny("kept"); !reflect.DeepEqual(got, []string{"only"}) {
		t.Fatalf("implied_any[kept] = %v, expected [only]", got)
	}
}

func TestCompileToleratesCycles(t *testing.T) {
	// Mutually implying criteria are legal; compilation must not loop.
	rules := Compile(nil, map[string]Def{
		"a": {Implies: []string{"b"}},
		"b": {Implies: []string{"a"}},
	})
	if got := rules.ImpliedAny("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("implied_any[a] = %v, expected [b]", got)
	}
	if got := rules.ImpliedAny("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("implied_any[b] = %v, expected [a]", got)
	}
}
