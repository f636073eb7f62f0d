package taskfile

import (
	"errors"
	"fmt"
)

// ErrIllegalFile is returned when the input bytes are not valid YAML at all.
var ErrIllegalFile = errors.New("taskfile: not a valid YAML document")

// ErrFileContent is returned when the input is valid YAML but does not have
// the shape a task file requires (missing top-level "tasks", wrong field
// types, and so on).
var ErrFileContent = errors.New("taskfile: document does not match the task file schema")

// YamlTaskError reports a problem with one task entry: a missing id or
// name, a duplicate id, a predecessor referencing an id that does not
// exist anywhere in the document, or an action block that cannot be built
// (missing, unknown kind, or missing a required field).
type YamlTaskError struct {
	// TaskID is the offending entry's declared id, or "" if the id field
	// itself is what's missing.
	TaskID string
	Reason string
}

func (e *YamlTaskError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("taskfile: %s", e.Reason)
	}
	return fmt.Sprintf("taskfile: task %q: %s", e.TaskID, e.Reason)
}
