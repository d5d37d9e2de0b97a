package wlm_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
	"github.com/ohsu-comp-bio/wrkldmngr/logger"
	"github.com/ohsu-comp-bio/wrkldmngr/wlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Callers outside the module import only wlm. NewSlurm must still parse
// the job id from the sbatch output.
func TestNewSlurmParsesJobID(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake launchers need a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh on this platform")
	}

	root := t.TempDir()
	bin := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "schema"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "templates"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "schema", "wrkldmngr.yaml"),
		[]byte("slurm:\n  launcher: sbatch\n  template: templates/slurm.tmpl\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates", "slurm.tmpl"),
		[]byte("{{.HEADER}}\n#SBATCH --job-name={{.NAME}}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "sbatch"),
		[]byte("#!/bin/sh\necho 'Submitted batch job 42'\n"), 0755))

	lookPath := func(name string) (string, error) {
		if name == "bash" {
			return "/bin/bash", nil
		}
		return filepath.Join(bin, name), nil
	}

	m, err := wlm.NewSlurm("bash", nil,
		wlm.WithSchemaRoot(root, ""),
		wlm.WithLookPath(lookPath),
		wlm.WithLogger(logger.NoOp()),
	)
	require.NoError(t, err)

	job := attrs.FromStrings(map[string]string{"name": "t"})
	res, err := m.Run(context.Background(), job, filepath.Join(t.TempDir(), "job.sh"))
	require.NoError(t, err)
	assert.Equal(t, "42", res.JobID)
	assert.Equal(t, "slurm", res.Backend)
}
