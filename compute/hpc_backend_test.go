package compute

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ohsu-comp-bio/wrkldmngr/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher writes an executable shell script named name into dir.
func fakeLauncher(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake launchers need a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh on this platform")
	}
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return p
}

func lookupIn(dir string) func(string) (string, error) {
	return func(name string) (string, error) {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			return "", exec.ErrNotFound
		}
		return p, nil
	}
}

func testBackend(dir string) *HPCBackend {
	return &HPCBackend{
		BackendName: "test",
		ExtractID:   TrimmedID,
		LookPath:    lookupIn(dir),
		Log:         logger.NoOp(),
	}
}

func TestSubmit(t *testing.T) {
	bin := t.TempDir()
	jobs := t.TempDir()
	// Prints the working directory and arguments, so both can be checked.
	fakeLauncher(t, bin, "fakesub", `echo "$(pwd)|$*" > launched.txt; echo 42`)

	script := filepath.Join(jobs, "job.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0755))

	res, err := testBackend(bin).Submit(context.Background(), Request{
		ScriptPath: script,
		Launcher:   "fakesub --parsable",
	})
	require.NoError(t, err)

	assert.Equal(t, "42", res.JobID)
	assert.Equal(t, filepath.Join(bin, "fakesub"), res.Executable)
	assert.Equal(t, []string{"--parsable", "job.sh"}, res.Args)
	assert.Equal(t, jobs, res.WorkDir)

	launched, err := os.ReadFile(filepath.Join(jobs, "launched.txt"))
	require.NoError(t, err)
	parts := strings.SplitN(strings.TrimSpace(string(launched)), "|", 2)
	resolved, _ := filepath.EvalSymlinks(jobs)
	assert.Contains(t, []string{jobs, resolved}, parts[0])
	assert.Equal(t, "--parsable job.sh", parts[1])
}

func TestSubmitBareFilenameUsesCwd(t *testing.T) {
	bin := t.TempDir()
	fakeLauncher(t, bin, "fakesub", "echo 7")

	cwd, err := os.Getwd()
	require.NoError(t, err)

	res, err := testBackend(bin).Submit(context.Background(), Request{
		ScriptPath: "out.sh",
		Launcher:   "fakesub",
	})
	require.NoError(t, err)
	assert.Equal(t, cwd, res.WorkDir)
	assert.Equal(t, []string{"out.sh"}, res.Args)
}

func TestSubmitRelativeLauncher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jobs"), 0755))
	fakeLauncher(t, filepath.Join(dir, "bin"), "fakesub", "echo 9")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs", "out.sh"), []byte("#!/bin/sh\n"), 0755))

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(prev) })
	cwd, err := os.Getwd()
	require.NoError(t, err)

	b := &HPCBackend{BackendName: "test", ExtractID: TrimmedID, Log: logger.NoOp()}
	res, err := b.Submit(context.Background(), Request{
		ScriptPath: filepath.Join("jobs", "out.sh"),
		Launcher:   "bin/fakesub",
	})
	require.NoError(t, err)
	assert.Equal(t, "9", res.JobID)
	assert.Equal(t, filepath.Join(cwd, "bin", "fakesub"), res.Executable)
	assert.Equal(t, "jobs", res.WorkDir)
}

func TestSubmitLauncherMissing(t *testing.T) {
	for _, launcher := range []string{"", "   ", `"unterminated`} {
		_, err := testBackend(t.TempDir()).Submit(context.Background(), Request{
			ScriptPath: "out.sh",
			Launcher:   launcher,
		})
		assert.True(t, errors.Is(err, ErrLauncherMissing), "launcher %q: %v", launcher, err)
	}
}

func TestSubmitLauncherNotFound(t *testing.T) {
	_, err := testBackend(t.TempDir()).Submit(context.Background(), Request{
		ScriptPath: "out.sh",
		Launcher:   "sbatch",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLauncherNotFound))

	var le *LauncherError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "sbatch", le.Launcher)
}

func TestSubmitNonZeroExit(t *testing.T) {
	bin := t.TempDir()
	fakeLauncher(t, bin, "fakesub", `echo "sbatch: error: invalid account" >&2; exit 1`)

	_, err := testBackend(bin).Submit(context.Background(), Request{
		ScriptPath: filepath.Join(t.TempDir(), "job.sh"),
		Launcher:   "fakesub",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubmissionFailed))

	var se *SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Output, "invalid account")
}

func TestSubmitNoJobID(t *testing.T) {
	bin := t.TempDir()
	fakeLauncher(t, bin, "fakesub", "true")

	_, err := testBackend(bin).Submit(context.Background(), Request{
		ScriptPath: filepath.Join(t.TempDir(), "job.sh"),
		Launcher:   "fakesub",
	})
	assert.True(t, errors.Is(err, ErrSubmissionFailed))
	assert.True(t, errors.Is(err, ErrJobIDParse))
}

func TestSubmitBoundedOutput(t *testing.T) {
	bin := t.TempDir()
	fakeLauncher(t, bin, "fakesub", `i=0; while [ $i -lt 200 ]; do echo "line $i"; i=$((i+1)); done; echo 99`)

	b := testBackend(bin)
	b.BufferSize = 16
	res, err := b.Submit(context.Background(), Request{
		ScriptPath: filepath.Join(t.TempDir(), "job.sh"),
		Launcher:   "fakesub",
	})
	require.NoError(t, err)
	assert.Len(t, res.Stdout, 16)
	assert.True(t, strings.HasSuffix(res.JobID, "99"))
}

func TestRegistryFallback(t *testing.T) {
	b := New("unregistered-backend")
	assert.Equal(t, "unregistered-backend", b.Name())

	Register("test-registered", func() Backend { return &HPCBackend{BackendName: "custom"} })
	assert.Equal(t, "custom", New("test-registered").Name())
	assert.Contains(t, Registered(), "test-registered")
}
