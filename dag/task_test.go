package dag

import (
	"context"
	"testing"
)

func TestNewTaskFields(t *testing.T) {
	a := ActionFunc(func(ctx context.Context, in Input, env *Env) (Output, error) {
		return EmptyOutput(), nil
	})
	tk := NewTask("build", a)

	if tk.Name() != "build" {
		t.Fatalf("Name() = %q, want build", tk.Name())
	}
	if tk.Action() == nil {
		t.Fatal("Action() should not be nil")
	}
	if len(tk.Predecessors()) != 0 {
		t.Fatalf("Predecessors() = %v, want empty", tk.Predecessors())
	}
}

func TestTaskDependsOnOrderAndDuplicates(t *testing.T) {
	a := NewNamedTask("A")
	b := NewNamedTask("B")
	c := NewNamedTask("C")

	d := NewNamedTask("D").DependsOn(c, a, a, b)

	got := d.Predecessors()
	want := []TaskId{c.ID(), a.ID(), a.ID(), b.ID()}
	if len(got) != len(want) {
		t.Fatalf("Predecessors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Predecessors()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNamedTaskPostHocAction(t *testing.T) {
	tk := NewNamedTask("deferred")
	if tk.Action() != nil {
		t.Fatal("a name-only task should start with a nil action")
	}
	tk.SetAction(ActionFunc(func(ctx context.Context, in Input, env *Env) (Output, error) {
		return EmptyOutput(), nil
	}))
	if tk.Action() == nil {
		t.Fatal("SetAction should assign a retrievable action")
	}
}

func TestTaskIDsAreUnique(t *testing.T) {
	a := NewNamedTask("A")
	b := NewNamedTask("B")
	if a.ID() == b.ID() {
		t.Fatal("two distinct tasks must not share an id")
	}
}
