// Package noop contains a backend which never launches anything. It is
// used for dry runs.
package noop

import (
	"context"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/wrkldmngr/compute"
)

// NewBackend returns a new noop Backend instance.
func NewBackend(name string) *Backend {
	return &Backend{name}
}

// Backend is a submission backend that doesn't submit anything,
// which is useful for dry runs and testing.
type Backend struct {
	name string
}

// Name returns the name of the workload manager being imitated.
func (b *Backend) Name() string {
	return b.name
}

// Submit returns the invocation that would have been run, with no job id.
func (b *Backend) Submit(ctx context.Context, req compute.Request) (*compute.Result, error) {
	words, _ := shellquote.Split(req.Launcher)
	workdir, err := compute.WorkDir(req.ScriptPath)
	if err != nil {
		return nil, err
	}
	res := &compute.Result{
		Backend: b.name,
		WorkDir: workdir,
	}
	if len(words) > 0 {
		res.Executable = words[0]
		res.Args = append(words[1:len(words):len(words)], filepath.Base(req.ScriptPath))
	}
	return res, nil
}
