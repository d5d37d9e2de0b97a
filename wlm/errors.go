package wlm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ohsu-comp-bio/wrkldmngr/compute"
	"github.com/ohsu-comp-bio/wrkldmngr/render"
	"github.com/ohsu-comp-bio/wrkldmngr/schema"
	"github.com/ohsu-comp-bio/wrkldmngr/shell"
)

// Stage is the pipeline step in which an error happened.
type Stage string

// Pipeline stages.
const (
	StageConfig Stage = "config"
	StageRender Stage = "render"
	StageSubmit Stage = "submit"
)

// Error kinds. Match them with errors.Is.
var (
	ErrUnsupportedBackend = errors.New("unsupported workload manager")
	ErrSchemaMissing      = errors.New("workload manager schema unavailable")
	ErrShellNotFound      = errors.New("shell not found")
	ErrLauncherMissing    = compute.ErrLauncherMissing
	ErrLauncherNotFound   = compute.ErrLauncherNotFound
	ErrTemplateNotFound   = render.ErrTemplateNotFound
	ErrTemplateInvalid    = render.ErrTemplateInvalid
	ErrWriteFailed        = render.ErrWriteFailed
	ErrLaunchFailed       = compute.ErrSubmissionFailed
	ErrCanceled           = errors.New("run canceled")

	// ErrFailed is returned by Run on an instance that already failed.
	ErrFailed = errors.New("workload manager is in a failed state")
)

// Error is the error returned by New and Run. It records the stage that
// failed, the error kind and the underlying cause.
type Error struct {
	Stage   Stage
	Kind    error
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("workload manager %s: %s stage failed: %v", e.Backend, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match on Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// IsConfigError reports whether err is a configuration error: an unsupported
// backend, a missing schema, or a shell or launcher which cannot be resolved.
func IsConfigError(err error) bool {
	for _, k := range []error{
		ErrUnsupportedBackend, ErrSchemaMissing, ErrShellNotFound,
		ErrLauncherMissing, ErrLauncherNotFound,
	} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// IsRenderError reports whether err happened while writing the job script.
func IsRenderError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) || errors.Is(err, ErrTemplateInvalid) || errors.Is(err, ErrWriteFailed)
}

// IsSubmissionError reports whether the launcher ran and failed.
func IsSubmissionError(err error) bool {
	return errors.Is(err, ErrLaunchFailed)
}

func newError(stage Stage, backend string, err error) *Error {
	return &Error{
		Stage:   stage,
		Kind:    kind(stage, err),
		Backend: backend,
		Err:     err,
	}
}

// kind classifies err from the lower level packages.
func kind(stage Stage, err error) error {
	var (
		loadErr  *schema.LoadError
		shellErr *shell.NotFoundError
	)
	switch {
	case errors.Is(err, schema.ErrUnsupported):
		return ErrUnsupportedBackend
	case errors.As(err, &loadErr):
		return ErrSchemaMissing
	case errors.As(err, &shellErr):
		return ErrShellNotFound
	}
	for _, k := range []error{
		ErrLauncherMissing, ErrLauncherNotFound,
		ErrTemplateNotFound, ErrTemplateInvalid, ErrWriteFailed,
		ErrLaunchFailed,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCanceled
	}
	switch stage {
	case StageRender:
		return ErrWriteFailed
	case StageSubmit:
		return ErrLaunchFailed
	default:
		return ErrSchemaMissing
	}
}
