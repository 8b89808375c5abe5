package command

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		wantCat  Category
		wantOK   bool
	}{
		{name: "close alias", keyword: "fixes", wantCat: CategoryClose, wantOK: true},
		{name: "case insensitive", keyword: "FiXeS", wantCat: CategoryClose, wantOK: true},
		{name: "reference alias", keyword: "refs", wantCat: CategoryReference, wantOK: true},
		{name: "testready alias", keyword: "ready_for_test", wantCat: CategoryTestReady, wantOK: true},
		{name: "already implemented alias", keyword: "already_implemented", wantCat: CategoryAlreadyImplemented, wantOK: true},
		{name: "unknown keyword", keyword: "frobnicate", wantOK: false},
		{name: "empty keyword", keyword: "", wantOK: false},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := table.Resolve(tt.keyword)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.keyword, ok, tt.wantOK)
			}
			if ok && cat != tt.wantCat {
				t.Errorf("Resolve(%q) = %q, want %q", tt.keyword, cat, tt.wantCat)
			}
		})
	}
}

func TestRegisterLastWins(t *testing.T) {
	table := NewTable()
	table.Register(CategoryClose, []string{"done"})
	table.Register(CategoryReject, []string{"done"})

	cat, ok := table.Resolve("done")
	if !ok {
		t.Fatal("expected keyword to resolve")
	}
	if cat != CategoryReject {
		t.Errorf("Resolve(done) = %q, want %q (last registration wins)", cat, CategoryReject)
	}
}

func TestRegisterNormalizesCase(t *testing.T) {
	table := NewTable()
	table.Register(CategoryClose, []string{"CLOSES"})

	if _, ok := table.Resolve("closes"); !ok {
		t.Error("expected upper-case registration to resolve lower-case keyword")
	}
}

func TestSentinelAll(t *testing.T) {
	table := NewTable()
	if table.ImplicitReference() {
		t.Fatal("implicit reference should be off by default")
	}

	table.Register(CategoryReference, []string{SentinelAll})
	if !table.ImplicitReference() {
		t.Error("expected implicit reference after registering <ALL>")
	}
	if _, ok := table.Resolve(SentinelAll); ok {
		t.Error("<ALL> must not resolve as a plain keyword")
	}

	// The sentinel only has meaning on the reference category.
	other := NewTable()
	other.Register(CategoryClose, []string{SentinelAll})
	if other.ImplicitReference() {
		t.Error("<ALL> on a non-reference category must not enable implicit references")
	}
}

func TestRegisterSkipsBlankAliases(t *testing.T) {
	table := NewTable()
	table.Register(CategoryClose, []string{"", "  ", "closes"})

	if _, ok := table.Resolve(""); ok {
		t.Error("blank alias must not register")
	}
	if _, ok := table.Resolve("closes"); !ok {
		t.Error("expected non-blank alias to register")
	}
}
