// Package shellaction provides a built-in dag.Action that runs a command
// and its arguments via os/exec (no shell is involved unless the command is
// itself a shell, such as "sh -c"), optionally feeding it the upstream Input
// as stdin, and wraps its stdout, untrimmed, as the task's Output.
package shellaction

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arjuncodes/dagrunner/dag"
)

// EnvPassthroughKey is an Env key whose string value names a host
// environment variable; when that variable is set in this process,
// NAME=value is appended to the child's environment, after the copy of
// os.Environ() the child starts with. Kept narrow and opt-in rather than forwarding the whole Env,
// since Env values are arbitrary Go types and only some are strings a shell
// command can consume.
const EnvPassthroughKey = "shellaction_env_passthrough"

type action struct {
	command string
	args    []string
	dir     string
	stdin   bool
}

// Option configures an Action built by NewAction.
type Option func(*action)

// WithDir sets the working directory the command runs in. Defaults to the
// current process's working directory.
func WithDir(dir string) Option {
	return func(a *action) { a.dir = dir }
}

// WithStdin causes the action to feed its first predecessor Output
// (unwrapped as a string) to the command's stdin. Without it, the command
// runs with no stdin and the Input is ignored.
func WithStdin() Option {
	return func(a *action) { a.stdin = true }
}

// NewAction returns a dag.Action that runs command with args via
// os/exec.CommandContext. A non-zero exit code, or a failure to start the
// process, surfaces as a dag.ActionError carrying the combined stderr
// output, never a panic.
func NewAction(command string, args []string, opts ...Option) dag.Action {
	a := &action{command: command, args: args}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *action) Run(ctx context.Context, in dag.Input, env *dag.Env) (dag.Output, error) {
	cmd := exec.CommandContext(ctx, a.command, a.args...)
	cmd.Dir = a.dir
	cmd.Env = os.Environ()

	if name, ok := dag.Get[string](env, EnvPassthroughKey); ok && name != "" {
		if value, ok := os.LookupEnv(name); ok {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", name, value))
		}
	}

	if a.stdin {
		if box, ok := in.At(0); ok {
			if text, ok := dag.UnwrapAs[string](box); ok {
				cmd.Stdin = strings.NewReader(text)
			}
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("shellaction: %q exited with error", a.command)
		if stderr.Len() > 0 {
			msg = fmt.Sprintf("%s (stderr: %s)", msg, strings.TrimSpace(stderr.String()))
		}
		return dag.Output{}, dag.NewActionError(msg, err)
	}

	return dag.NewOutput(stdout.String()), nil
}
