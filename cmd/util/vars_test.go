package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/ohsu-comp-bio/wrkldmngr/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"name=t", "command=echo a=b"})
	require.NoError(t, err)
	if diff := deep.Equal(vars, map[string]string{"name": "t", "command": "echo a=b"}); diff != nil {
		t.Error(diff)
	}

	_, err = ParseVars([]string{"name"})
	assert.Error(t, err)
	_, err = ParseVars([]string{"=x"})
	assert.Error(t, err)
	_, err = ParseVars([]string{"name=a", "name=b"})
	assert.Error(t, err)
}

func TestParseVarString(t *testing.T) {
	vars, err := ParseVarString(`name=t account=acct1 command='echo hello world'`)
	require.NoError(t, err)
	assert.Equal(t, "echo hello world", vars["command"])
	assert.Len(t, vars, 3)

	_, err = ParseVarString(`command='unterminated`)
	assert.Error(t, err)
}

func TestMergeVars(t *testing.T) {
	merged, err := MergeVars(
		map[string]string{"name": "a", "time": "00:10:00"},
		map[string]string{"name": "b"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "b", "time": "00:10:00"}, merged)
}

func TestReadVarsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(p, []byte("name: t\naccount: acct1\nnodes: 2\n"), 0644))

	m, err := ReadVarsFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "account", "nodes"}, m.Keys())

	job := JobAttrs(m, map[string]string{"name": "override"})
	assert.Equal(t, "override", job.GetString("name"))
	assert.Equal(t, "acct1", job.GetString("account"))
	assert.Equal(t, "2", job.GetString("nodes"))

	_, err = ReadVarsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReadVarsFileNumbers(t *testing.T) {
	p := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(p, []byte("account: 123456789\nmem: 1000000\nratio: 0.5\n"), 0644))

	m, err := ReadVarsFile(p)
	require.NoError(t, err)

	out, err := render.Execute("job", "#!/bin/sh\n--account={{.account}} --mem={{.mem}} --ratio={{.ratio}}\n", m, render.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n--account=123456789 --mem=1000000 --ratio=0.5\n", string(out))
}

func TestReadVarsFileJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "job.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"name": "t", "nodes": 2}`), 0644))

	m, err := ReadVarsFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "nodes"}, m.Keys())
	assert.Equal(t, "2", m.GetString("nodes"))

	require.NoError(t, os.WriteFile(p, []byte("- a\n- b\n"), 0644))
	_, err = ReadVarsFile(p)
	assert.Error(t, err)
}
