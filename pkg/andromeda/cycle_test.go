package andromeda

import (
	"reflect"
	"testing"
)

func TestCycleGuardEnterLeave(t *testing.T) {
	g := newCycleGuard()

	if _, ok := g.enter("a"); !ok {
		t.Fatalf("expected first enter of %q to succeed", "a")
	}
	if _, ok := g.enter("b"); !ok {
		t.Fatalf("expected first enter of %q to succeed", "b")
	}

	path, ok := g.enter("a")
	if ok {
		t.Fatalf("expected revisiting %q to fail", "a")
	}
	want := []Name{"a", "b", "a"}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("cycle path = %v, want %v", path, want)
	}

	g.leave("b")
	g.leave("a")
	if _, ok := g.enter("a"); !ok {
		t.Fatalf("expected %q to be re-enterable after leave", "a")
	}
}

func TestCycleGuardIndependentPaths(t *testing.T) {
	g := newCycleGuard()

	if _, ok := g.enter("x"); !ok {
		t.Fatal("unexpected cycle on first enter")
	}
	g.leave("x")

	if _, ok := g.enter("x"); !ok {
		t.Fatal("expected clean guard to allow re-entering x after a fully unwound path")
	}
}
