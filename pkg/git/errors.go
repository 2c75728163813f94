package git

import (
	"errors"
	"fmt"

	"gitoperator/pkg/shell"
)

// ErrMergeConflict is returned when the default branch cannot be merged into
// the integration branch without manual resolution
var ErrMergeConflict = errors.New("merge conflict")

// Error represents a failed git operation
type Error struct {
	Op     string
	Output string
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s failed: %s", e.Op, e.Output)
	}
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	gitErr := &Error{Op: op, Err: err}
	var shellErr *shell.Error
	if errors.As(err, &shellErr) {
		gitErr.Output = shellErr.Output
	}
	return gitErr
}
