package submit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohsu-comp-bio/wrkldmngr/batch"
	"github.com/ohsu-comp-bio/wrkldmngr/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsAndVars(t *testing.T) {
	dir := t.TempDir()
	varsFile := filepath.Join(dir, "a.yaml")
	require.NoError(t, os.WriteFile(varsFile, []byte("name: from-file\naccount: acct1\n"), 0644))

	c, h := newCommandHooks(false)
	var (
		gotConf config.Config
		gotJobs []batch.Job
		gotOpts RunOptions
	)
	h.Run = func(ctx context.Context, conf config.Config, jobs []batch.Job, opts RunOptions) error {
		gotConf, gotJobs, gotOpts = conf, jobs, opts
		return nil
	}

	c.SetArgs([]string{
		"--backend", "pbs",
		"-o", filepath.Join(dir, "job.sh"),
		"--vars-file", varsFile,
		"--vars", "time=01:00:00 command='echo hi'",
		"--var", "name=t",
		"--strict",
	})
	require.NoError(t, c.Execute())

	assert.Equal(t, "pbs", gotConf.Backend)
	assert.False(t, gotConf.SkipMissing)
	assert.False(t, gotOpts.DryRun)

	require.Len(t, gotJobs, 1)
	job := gotJobs[0]
	assert.Equal(t, filepath.Join(dir, "job.sh"), job.Output)
	assert.Equal(t, "t", job.Attrs.GetString("name"))
	assert.Equal(t, "acct1", job.Attrs.GetString("account"))
	assert.Equal(t, "01:00:00", job.Attrs.GetString("time"))
	assert.Equal(t, "echo hi", job.Attrs.GetString("command"))
}

func TestBadVar(t *testing.T) {
	c, h := newCommandHooks(false)
	h.Run = func(context.Context, config.Config, []batch.Job, RunOptions) error {
		t.Fatal("run should not be called")
		return nil
	}
	c.SetArgs([]string{"--var", "novalue"})
	assert.Error(t, c.Execute())
}

func TestOutputFor(t *testing.T) {
	assert.Equal(t, "run/job.a.sh", outputFor("run/job.sh", "vars/a.yaml"))
	assert.Equal(t, "job.b", outputFor("job", "b.json"))
}

func TestBuildJobsPerFile(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, n := range []string{"a", "b"} {
		p := filepath.Join(dir, n+".yaml")
		require.NoError(t, os.WriteFile(p, []byte("name: "+n+"\n"), 0644))
		files = append(files, p)
	}

	jobs, err := buildJobs("out/job.sh", "", []string{"account=acct1"}, files)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "out/job.a.sh", jobs[0].Output)
	assert.Equal(t, "out/job.b.sh", jobs[1].Output)
	assert.Equal(t, "b", jobs[1].Attrs.GetString("name"))
	assert.Equal(t, "acct1", jobs[1].Attrs.GetString("account"))
}

func TestBuildJobsDuplicateOutput(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
		p := filepath.Join(dir, sub, "x.yaml")
		require.NoError(t, os.WriteFile(p, []byte("name: "+sub+"\n"), 0644))
		files = append(files, p)
	}

	_, err := buildJobs("out/job.sh", "", nil, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out/job.x.sh")

	// The same file given twice is a duplicate too.
	_, err = buildJobs("out/job.sh", "", nil, []string{files[0], files[0]})
	assert.Error(t, err)
}

func writeRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "schema"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "templates"), 0755))
	schema := "slurm:\n  launcher: sbatch --parsable\n  template: templates/slurm.tmpl\n  time: \"00:10:00\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "schema", "wrkldmngr.yaml"), []byte(schema), 0644))
	tpl := "#!/bin/sh\n#SBATCH --job-name={{.NAME}}\n#SBATCH --time={{.TIME}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates", "slurm.tmpl"), []byte(tpl), 0644))
	return root
}

func TestRenderDryRun(t *testing.T) {
	root := writeRoot(t)
	out := filepath.Join(t.TempDir(), "scripts", "job.sh")
	metricsFile := filepath.Join(t.TempDir(), "wrkldmngr.prom")

	c := NewRenderCommand()
	var stdout bytes.Buffer
	c.SetOut(&stdout)
	c.SetArgs([]string{
		"--root", root,
		"--shell", "sh",
		"-o", out,
		"--var", "name=t",
		"--metricsfile", metricsFile,
		"--logger.level", "error",
	})
	require.NoError(t, c.Execute())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n#SBATCH --job-name=t\n#SBATCH --time=00:10:00\n", string(b))

	line := strings.TrimSpace(stdout.String())
	assert.True(t, strings.HasPrefix(line, out+"\t"), line)
	assert.Contains(t, line, "sbatch --parsable job.sh")

	m, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(m), "wrkldmngr_runs_total")
}

func TestRenderUnsupported(t *testing.T) {
	root := writeRoot(t)

	c := NewRenderCommand()
	c.SetOut(&bytes.Buffer{})
	c.SetArgs([]string{"--root", root, "--backend", "lsf", "--logger.level", "error"})
	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lsf")
}
