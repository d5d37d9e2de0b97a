// Package compute submits rendered job scripts to workload managers.
package compute

import (
	"context"
	"sort"
	"sync"
)

// Backend is responsible for submitting a rendered job script to a
// workload manager and returning the job handle it assigns.
type Backend interface {
	Name() string
	Submit(ctx context.Context, req Request) (*Result, error)
}

// Request describes one submission.
type Request struct {
	// ScriptPath is the rendered job script.
	ScriptPath string
	// Launcher is the submission command from the schema, e.g. "sbatch"
	// or "sbatch --parsable". Extra words are passed before the script.
	Launcher string
}

// Result is the outcome of a successful submission.
type Result struct {
	RunID      string
	Backend    string
	JobID      string
	Executable string
	Args       []string
	WorkDir    string
	Stdout     string
	Stderr     string
}

// Factory returns a new Backend instance.
type Factory func() Backend

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a backend available by name. Registering a name twice
// replaces the earlier factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New returns the backend registered under name. Unregistered names get a
// generic HPCBackend which uses the launcher's trimmed stdout as the job id.
func New(name string) Backend {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if ok {
		return f()
	}
	return &HPCBackend{BackendName: name, ExtractID: TrimmedID}
}

// Registered returns the sorted names of registered backends.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
