// Package shell resolves the interpreter a job script runs under.
package shell

import (
	"fmt"
	"os/exec"

	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
)

// LookPathFunc finds an executable by name and returns its absolute path.
type LookPathFunc func(name string) (string, error)

// LookPath is the platform executable lookup.
var LookPath LookPathFunc = exec.LookPath

// Info describes a resolved execution shell.
type Info struct {
	Shell  string
	Path   string
	Header string
}

// NotFoundError is returned when a shell cannot be located.
type NotFoundError struct {
	Shell string
	Err   error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shell %q is not supported or could not be found on this platform: %v", e.Shell, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Resolve locates name using lookup (LookPath when nil) and builds its
// script header.
func Resolve(name string, lookup LookPathFunc) (Info, error) {
	if lookup == nil {
		lookup = LookPath
	}
	if name == "" {
		return Info{}, &NotFoundError{Shell: name, Err: fmt.Errorf("empty shell name")}
	}
	p, err := lookup(name)
	if err == nil && p == "" {
		err = exec.ErrNotFound
	}
	if err != nil {
		return Info{}, &NotFoundError{Shell: name, Err: err}
	}
	return Info{
		Shell:  name,
		Path:   p,
		Header: "#!" + p,
	}, nil
}

// Fields returns the shell attributes as an ordered mapping.
func (i Info) Fields() *attrs.Mapping {
	m := attrs.New()
	m.Set("shell", i.Shell)
	m.Set("path", i.Path)
	m.Set("header", i.Header)
	return m
}
