package noop

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ohsu-comp-bio/wrkldmngr/compute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "job.sh")

	res, err := NewBackend("slurm").Submit(context.Background(), compute.Request{
		ScriptPath: script,
		Launcher:   "sbatch --parsable",
	})
	require.NoError(t, err)
	assert.Equal(t, "slurm", res.Backend)
	assert.Equal(t, "sbatch", res.Executable)
	assert.Equal(t, []string{"--parsable", "job.sh"}, res.Args)
	assert.Equal(t, dir, res.WorkDir)
	assert.Empty(t, res.JobID)

	// Nothing was launched, so nothing was written.
	_, err = os.Stat(script)
	assert.True(t, os.IsNotExist(err))
}
