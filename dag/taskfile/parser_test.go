package taskfile

import (
	"context"
	"errors"
	"testing"

	"github.com/arjuncodes/dagrunner/dag"
)

func TestParseShellChain(t *testing.T) {
	src := `
tasks:
  - id: a
    name: first
    action:
      kind: shell
      command: echo
      args: ["-n", "a"]
  - id: b
    name: second
    predecessors: [a]
    action:
      kind: shell
      command: echo
      args: ["-n", "b"]
`
	tasks, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[1].Name() != "second" {
		t.Fatalf("tasks[1].Name() = %q, want %q", tasks[1].Name(), "second")
	}
	if len(tasks[1].Predecessors()) != 1 || tasks[1].Predecessors()[0] != tasks[0].ID() {
		t.Fatalf("tasks[1].Predecessors() = %v, want [%v]", tasks[1].Predecessors(), tasks[0].ID())
	}
}

func TestParseNoopAction(t *testing.T) {
	src := `
tasks:
  - id: a
    name: first
    action:
      kind: noop
`
	tasks, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := tasks[0].Action().Run(context.Background(), dag.Input{}, dag.NewEnv())
	if err != nil || !out.IsEmpty() {
		t.Fatalf("Run() = (%v, %v), want (empty, nil)", out, err)
	}
}

func TestParseOverrideReplacesDeclaredAction(t *testing.T) {
	src := `
tasks:
  - id: a
    name: first
    action:
      kind: noop
`
	called := false
	overrides := map[string]dag.Action{
		"a": dag.ActionFunc(func(ctx context.Context, in dag.Input, env *dag.Env) (dag.Output, error) {
			called = true
			return dag.NewOutput("overridden"), nil
		}),
	}
	tasks, err := Parse([]byte(src), overrides)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := tasks[0].Action().Run(context.Background(), dag.Input{}, dag.NewEnv()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Fatal("override action was not invoked")
	}
}

func TestParseIllegalYAMLFails(t *testing.T) {
	_, err := Parse([]byte("tasks: [this is not: valid: yaml"), nil)
	if !errors.Is(err, ErrIllegalFile) {
		t.Fatalf("err = %v, want ErrIllegalFile", err)
	}
}

func TestParseWrongShapeFails(t *testing.T) {
	_, err := Parse([]byte("tasks: \"a plain string, not a sequence\""), nil)
	if !errors.Is(err, ErrFileContent) {
		t.Fatalf("err = %v, want ErrFileContent", err)
	}
}

func TestParseEmptyTasksFails(t *testing.T) {
	_, err := Parse([]byte("tasks: []"), nil)
	if !errors.Is(err, ErrFileContent) {
		t.Fatalf("err = %v, want ErrFileContent", err)
	}
}

func TestParseMissingIDFails(t *testing.T) {
	src := `
tasks:
  - name: first
    action:
      kind: noop
`
	_, err := Parse([]byte(src), nil)
	var yerr *YamlTaskError
	if !errors.As(err, &yerr) {
		t.Fatalf("err = %v, want *YamlTaskError", err)
	}
}

func TestParseDuplicateIDFails(t *testing.T) {
	src := `
tasks:
  - id: a
    name: first
    action: {kind: noop}
  - id: a
    name: second
    action: {kind: noop}
`
	_, err := Parse([]byte(src), nil)
	var yerr *YamlTaskError
	if !errors.As(err, &yerr) || yerr.TaskID != "a" {
		t.Fatalf("err = %v, want *YamlTaskError for id a", err)
	}
}

func TestParseUnknownPredecessorFails(t *testing.T) {
	src := `
tasks:
  - id: a
    name: first
    predecessors: [missing]
    action: {kind: noop}
`
	_, err := Parse([]byte(src), nil)
	var yerr *YamlTaskError
	if !errors.As(err, &yerr) {
		t.Fatalf("err = %v, want *YamlTaskError", err)
	}
}

func TestParseUnknownActionKindFails(t *testing.T) {
	src := `
tasks:
  - id: a
    name: first
    action: {kind: bogus}
`
	_, err := Parse([]byte(src), nil)
	var yerr *YamlTaskError
	if !errors.As(err, &yerr) {
		t.Fatalf("err = %v, want *YamlTaskError", err)
	}
}

func TestParseLLMAction(t *testing.T) {
	src := `
tasks:
  - id: a
    name: summarize
    action:
      kind: llm
      provider: anthropic
      model: claude-3-5-haiku-20241022
`
	tasks, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tasks[0].Action() == nil {
		t.Fatal("expected a non-nil Action")
	}
}
