package compute

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alecthomas/units"
	"github.com/armon/circbuf"
	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/wrkldmngr/logger"
	"github.com/ohsu-comp-bio/wrkldmngr/shell"
)

// DefaultBufferSize is the number of launcher stdout/stderr bytes kept.
const DefaultBufferSize = int64(64 * units.KiB)

// HPCBackend submits job scripts via a launcher executable such as
// "sbatch", "qsub" or "condor_submit".
type HPCBackend struct {
	BackendName string
	// ExtractID parses the job id from the launcher's stdout.
	// An empty id is a submission error.
	ExtractID func(string) string
	// LookPath locates the launcher. Defaults to shell.LookPath.
	LookPath shell.LookPathFunc
	// BufferSize bounds the captured stdout and stderr. Defaults to DefaultBufferSize.
	BufferSize int64
	Log        *logger.Logger
}

// Name returns the backend name.
func (b *HPCBackend) Name() string {
	return b.BackendName
}

// Submit resolves the launcher and runs it against the job script from the
// script's directory. The launcher sees the script's base name.
func (b *HPCBackend) Submit(ctx context.Context, req Request) (*Result, error) {
	words, err := shellquote.Split(req.Launcher)
	if err == nil && len(words) == 0 {
		err = fmt.Errorf("empty launcher")
	}
	if err != nil {
		return nil, &LauncherError{Kind: ErrLauncherMissing, Backend: b.Name(), Launcher: req.Launcher, Err: err}
	}

	lookup := b.LookPath
	if lookup == nil {
		lookup = shell.LookPath
	}
	exe, err := lookup(words[0])
	if err == nil && exe == "" {
		err = exec.ErrNotFound
	}
	// The launcher runs from the script's directory, so a relative
	// executable must be pinned to the current one first.
	if err == nil {
		exe, err = filepath.Abs(exe)
	}
	if err != nil {
		return nil, &LauncherError{Kind: ErrLauncherNotFound, Backend: b.Name(), Launcher: words[0], Err: err}
	}

	workdir, err := WorkDir(req.ScriptPath)
	if err != nil {
		return nil, &SubmissionError{Backend: b.Name(), Script: req.ScriptPath, Err: err}
	}
	args := append(words[1:len(words):len(words)], filepath.Base(req.ScriptPath))

	size := b.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	stdout, _ := circbuf.NewBuffer(size)
	stderr, _ := circbuf.NewBuffer(size)

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = workdir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log := b.log()
	log.Debug("running launcher", ctx, "executable", exe, "args", args, "workdir", workdir)

	res := &Result{
		Backend:    b.Name(),
		Executable: exe,
		Args:       args,
		WorkDir:    workdir,
	}

	err = cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%v: %w", err, ctx.Err())
		}
		return nil, &SubmissionError{
			Backend: b.Name(),
			Script:  req.ScriptPath,
			Output:  strings.TrimSpace(res.Stderr + res.Stdout),
			Err:     err,
		}
	}

	extract := b.ExtractID
	if extract == nil {
		extract = TrimmedID
	}
	res.JobID = extract(res.Stdout)
	if res.JobID == "" {
		return nil, &SubmissionError{
			Backend: b.Name(),
			Script:  req.ScriptPath,
			Output:  strings.TrimSpace(res.Stdout),
			Err:     ErrJobIDParse,
		}
	}

	log.Info("submitted job script", ctx, "script", req.ScriptPath, "jobID", res.JobID)
	return res, nil
}

func (b *HPCBackend) log() *logger.Logger {
	if b.Log != nil {
		return b.Log
	}
	return logger.Sub(b.Name())
}

// WorkDir returns the directory a launcher runs in for scriptPath: the
// script's directory, or the current working directory when the path has
// no directory component.
func WorkDir(scriptPath string) (string, error) {
	dir := filepath.Dir(scriptPath)
	if dir == "." || dir == "" {
		return os.Getwd()
	}
	return dir, nil
}

// TrimmedID uses the whole launcher output, trimmed, as the job id.
func TrimmedID(out string) string {
	return strings.TrimSpace(out)
}
