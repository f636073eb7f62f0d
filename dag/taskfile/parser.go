// Package taskfile decodes a declarative YAML task file into the []dag.Task
// slice a Dag is built from, so a scheduling graph can be described as data
// instead of Go code.
package taskfile

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arjuncodes/dagrunner/dag"
	"github.com/arjuncodes/dagrunner/dag/llmaction"
	"github.com/arjuncodes/dagrunner/dag/shellaction"
)

type document struct {
	Tasks []yamlTask `yaml:"tasks"`
}

type yamlTask struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Predecessors []string    `yaml:"predecessors"`
	Action       *yamlAction `yaml:"action"`
}

type yamlAction struct {
	Kind     string   `yaml:"kind"`
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	Dir      string   `yaml:"dir"`
	Stdin    bool     `yaml:"stdin"`
	Provider string   `yaml:"provider"`
	Model    string   `yaml:"model"`
}

// Parse decodes data as a task file. overrides maps a task's declared id to
// a caller-supplied dag.Action that replaces whatever the "action:" block
// would otherwise build — the escape hatch for tests and for actions (like
// a closure over host-process state) that cannot be expressed in YAML.
// overrides may be nil.
func Parse(data []byte, overrides map[string]dag.Action) ([]dag.Task, error) {
	var probe yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalFile, err)
	}

	var doc document
	if err := probe.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileContent, err)
	}
	if len(doc.Tasks) == 0 {
		return nil, fmt.Errorf("%w: document declares no tasks", ErrFileContent)
	}

	byLocalID := make(map[string]*dag.BaseTask, len(doc.Tasks))
	order := make([]string, 0, len(doc.Tasks))

	for _, yt := range doc.Tasks {
		if yt.ID == "" {
			return nil, &YamlTaskError{Reason: "task entry is missing an id"}
		}
		if yt.Name == "" {
			return nil, &YamlTaskError{TaskID: yt.ID, Reason: "task is missing a name"}
		}
		if _, dup := byLocalID[yt.ID]; dup {
			return nil, &YamlTaskError{TaskID: yt.ID, Reason: "duplicate task id"}
		}
		byLocalID[yt.ID] = dag.NewNamedTask(yt.Name)
		order = append(order, yt.ID)
	}

	tasks := make([]dag.Task, 0, len(doc.Tasks))
	for i, yt := range doc.Tasks {
		t := byLocalID[order[i]]

		preds := make([]dag.Task, 0, len(yt.Predecessors))
		for _, pid := range yt.Predecessors {
			p, ok := byLocalID[pid]
			if !ok {
				return nil, &YamlTaskError{TaskID: yt.ID, Reason: fmt.Sprintf("unknown predecessor id %q", pid)}
			}
			preds = append(preds, p)
		}
		t.SetPredecessors(preds)

		action, err := resolveAction(yt, overrides)
		if err != nil {
			return nil, err
		}
		t.SetAction(action)

		tasks = append(tasks, t)
	}

	return tasks, nil
}

func resolveAction(yt yamlTask, overrides map[string]dag.Action) (dag.Action, error) {
	if override, ok := overrides[yt.ID]; ok {
		return override, nil
	}
	if yt.Action == nil {
		return nil, &YamlTaskError{TaskID: yt.ID, Reason: "task has no action and no override was supplied"}
	}

	switch yt.Action.Kind {
	case "shell":
		if yt.Action.Command == "" {
			return nil, &YamlTaskError{TaskID: yt.ID, Reason: "shell action is missing a command"}
		}
		var opts []shellaction.Option
		if yt.Action.Dir != "" {
			opts = append(opts, shellaction.WithDir(yt.Action.Dir))
		}
		if yt.Action.Stdin {
			opts = append(opts, shellaction.WithStdin())
		}
		return shellaction.NewAction(yt.Action.Command, yt.Action.Args, opts...), nil

	case "llm":
		provider, err := parseProvider(yt.Action.Provider)
		if err != nil {
			return nil, &YamlTaskError{TaskID: yt.ID, Reason: err.Error()}
		}
		if yt.Action.Model == "" {
			return nil, &YamlTaskError{TaskID: yt.ID, Reason: "llm action is missing a model"}
		}
		return llmaction.NewAction(provider, yt.Action.Model), nil

	case "noop":
		return dag.ActionFunc(func(_ context.Context, _ dag.Input, _ *dag.Env) (dag.Output, error) {
			return dag.EmptyOutput(), nil
		}), nil

	default:
		return nil, &YamlTaskError{TaskID: yt.ID, Reason: fmt.Sprintf("unknown action kind %q", yt.Action.Kind)}
	}
}

func parseProvider(name string) (llmaction.Provider, error) {
	switch name {
	case "anthropic":
		return llmaction.ProviderAnthropic, nil
	case "openai":
		return llmaction.ProviderOpenAI, nil
	case "google":
		return llmaction.ProviderGoogle, nil
	default:
		return 0, fmt.Errorf("unknown llm provider %q", name)
	}
}
