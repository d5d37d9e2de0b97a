package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "schema"), 0755))
	doc := "slurm:\n  launcher: sbatch\n  template: templates/slurm.tmpl\n  time: \"00:10:00\"\npbs:\n  launcher: qsub\n  template: templates/pbs.tmpl\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "schema", "wrkldmngr.yaml"), []byte(doc), 0644))
	return root
}

func TestList(t *testing.T) {
	root := writeRoot(t)
	c := NewCommand()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"list", "--root", root})
	require.NoError(t, c.Execute())
	assert.Equal(t, "pbs\nslurm\n", out.String())
}

func TestShow(t *testing.T) {
	root := writeRoot(t)
	c := NewCommand()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"show", "slurm", "--root", root})
	require.NoError(t, c.Execute())

	assert.Contains(t, out.String(), "launcher: sbatch")
	assert.Contains(t, out.String(), "template: "+filepath.Join(root, "templates", "slurm.tmpl"))
	assert.Contains(t, out.String(), "00:10:00")
}

func TestShowUnsupported(t *testing.T) {
	root := writeRoot(t)
	c := NewCommand()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"show", "lsf", "--root", root})
	assert.Error(t, c.Execute())
}
