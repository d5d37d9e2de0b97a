package compute

import (
	"errors"
	"fmt"
)

var (
	// ErrLauncherMissing is matched when the schema gives no launcher.
	ErrLauncherMissing = errors.New("launcher attribute missing")
	// ErrLauncherNotFound is matched when the launcher executable cannot be located.
	ErrLauncherNotFound = errors.New("launcher executable not found")
	// ErrSubmissionFailed is matched when the launcher fails or its output
	// holds no job id.
	ErrSubmissionFailed = errors.New("job submission failed")
	// ErrJobIDParse is wrapped when no job id can be extracted from the launcher output.
	ErrJobIDParse = errors.New("failed to parse job id from launcher output")
)

// LauncherError reports a launcher that is missing or cannot be located.
type LauncherError struct {
	Kind     error
	Backend  string
	Launcher string
	Err      error
}

func (e *LauncherError) Error() string {
	if e.Kind == ErrLauncherMissing {
		return fmt.Sprintf("%s: the launcher attribute for %s could not be determined: %v", e.Kind, e.Backend, e.Err)
	}
	return fmt.Sprintf("%s: the executable %q for %s could not be located: %v", e.Kind, e.Launcher, e.Backend, e.Err)
}

func (e *LauncherError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match on Kind.
func (e *LauncherError) Is(target error) bool {
	return target == e.Kind
}

// SubmissionError represents a failed launch or a rejected job script.
type SubmissionError struct {
	Backend string
	Script  string
	Output  string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s submission of %s failed: %v\nOutput: %s", e.Backend, e.Script, e.Err, e.Output)
	}
	return fmt.Sprintf("%s submission of %s failed: %v", e.Backend, e.Script, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrSubmissionFailed).
func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionFailed
}
