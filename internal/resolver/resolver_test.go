package resolver_test

import (
	"context"
	"reflect"
	"testing"

	"reeldex/internal/resolver"
	"reeldex/internal/testsupport"
)

func newResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	return resolver.New(store, nil)
}

func TestResolveReturnsNilForUnknownName(t *testing.T) {
	r := newResolver(t)

	actor, err := r.Resolve(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if actor != nil {
		t.Fatalf("expected nil actor, got %+v", actor)
	}
}

func TestEnsureRegistersOnce(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	first, err := r.Ensure(ctx, "Jane Doe")
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	second, err := r.Ensure(ctx, "jane doe")
	if err != nil {
		t.Fatalf("second Ensure returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same identity, got ids %d and %d", first.ID, second.ID)
	}
}

func TestNameForReturnsCanonicalName(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	actor, err := r.Register(ctx, "Jane Doe")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	name, err := r.NameFor(ctx, actor.ID)
	if err != nil {
		t.Fatalf("NameFor returned error: %v", err)
	}
	if name != "Jane Doe" {
		t.Fatalf("NameFor = %q, want %q", name, "Jane Doe")
	}

	name, err = r.NameFor(ctx, actor.ID+1000)
	if err != nil {
		t.Fatalf("NameFor returned error: %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty name for unknown id, got %q", name)
	}
}

func TestAddAliasAndResolveThroughIt(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, "Jane Doe"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	ok, err := r.AddAlias(ctx, "J. Doe", "Jane Doe")
	if err != nil || !ok {
		t.Fatalf("AddAlias = %v, %v", ok, err)
	}

	actor, err := r.Resolve(ctx, "J. Doe")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if actor == nil || actor.Name != "Jane Doe" {
		t.Fatalf("expected alias to resolve to Jane Doe, got %+v", actor)
	}

	aliases, err := r.Aliases(ctx, "Jane Doe")
	if err != nil {
		t.Fatalf("Aliases returned error: %v", err)
	}
	if !reflect.DeepEqual(aliases, []string{"J. Doe"}) {
		t.Fatalf("unexpected aliases: %v", aliases)
	}
}

func TestAddAliasConflictReportsFalse(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, "Jane Doe"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := r.Register(ctx, "John Roe"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if ok, err := r.AddAlias(ctx, "JD", "Jane Doe"); err != nil || !ok {
		t.Fatalf("AddAlias = %v, %v", ok, err)
	}

	ok, err := r.AddAlias(ctx, "JD", "John Roe")
	if err != nil {
		t.Fatalf("conflicting AddAlias returned error: %v", err)
	}
	if ok {
		t.Fatal("expected conflicting alias to be rejected")
	}

	actor, err := r.Resolve(ctx, "JD")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if actor == nil || actor.Name != "Jane Doe" {
		t.Fatalf("expected original binding intact, got %+v", actor)
	}
}

func TestAddAliasUnknownActorReportsFalse(t *testing.T) {
	r := newResolver(t)

	ok, err := r.AddAlias(context.Background(), "JD", "Nobody")
	if err != nil {
		t.Fatalf("AddAlias returned error: %v", err)
	}
	if ok {
		t.Fatal("expected false for unknown actor")
	}
}

func TestEnsureAllCanonicalizesAndDedupes(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, "Jane Doe"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if ok, err := r.AddAlias(ctx, "J. Doe", "Jane Doe"); err != nil || !ok {
		t.Fatalf("AddAlias = %v, %v", ok, err)
	}

	got, err := r.EnsureAll(ctx, []string{"J. Doe", "Jane Doe", "John Roe", ""})
	if err != nil {
		t.Fatalf("EnsureAll returned error: %v", err)
	}
	want := []string{"Jane Doe", "John Roe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EnsureAll = %v, want %v", got, want)
	}
}
