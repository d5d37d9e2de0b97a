// Package schema loads the workload manager schema: the launcher, job script
// template and default attributes of every supported workload manager.
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
	"gopkg.in/yaml.v2"
)

const (
	// RootEnv names the environment variable holding the schema root directory.
	RootEnv = "WRKLDMNGR_ROOT"
	// DefaultTool is the schema document name used when none is given.
	DefaultTool = "wrkldmngr"
)

// ErrUnsupported is matched by errors.Is for any UnsupportedError.
var ErrUnsupported = errors.New("unsupported workload manager")

// Spec holds the schema attributes of one workload manager.
type Spec struct {
	Name     string
	Launcher string
	// Template is the job script template path. Relative paths in the schema
	// are resolved against the schema root.
	Template string
	// Defaults holds every field of the schema entry, in document order.
	// It is frozen.
	Defaults *attrs.Mapping
}

// Store is a read-only view of a schema document.
type Store struct {
	path    string
	root    string
	names   []string
	entries map[string]yaml.MapSlice
}

// DefaultPath returns the schema document path for tool under root.
func DefaultPath(root, tool string) string {
	if tool == "" {
		tool = DefaultTool
	}
	return filepath.Join(root, "schema", tool+".yaml")
}

// LoadFromRoot loads <root>/schema/<tool>.yaml. An empty root is read from
// the WRKLDMNGR_ROOT environment variable.
func LoadFromRoot(root, tool string) (*Store, error) {
	if root == "" {
		root = os.Getenv(RootEnv)
	}
	if root == "" {
		return nil, &LoadError{
			Path: DefaultPath("$"+RootEnv, tool),
			Err:  fmt.Errorf("environment variable %s is not set", RootEnv),
		}
	}
	return Load(DefaultPath(root, tool))
}

// Load reads and parses the schema document at path.
func Load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	s, err := Parse(b)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	s.path = path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s.root = filepath.Dir(filepath.Dir(path))
	return s, nil
}

// Parse parses a schema document. Relative template paths in a store
// built by Parse are left as they are.
func Parse(raw []byte) (*Store, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema: %v", err)
	}

	s := &Store{entries: map[string]yaml.MapSlice{}}
	for _, item := range doc {
		name := fmt.Sprint(item.Key)
		entry, ok := item.Value.(yaml.MapSlice)
		if !ok && item.Value != nil {
			return nil, fmt.Errorf("schema entry %q is not a mapping", name)
		}
		s.entries[name] = entry
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// Path returns the path the store was loaded from, if any.
func (s *Store) Path() string {
	return s.path
}

// Names returns the workload managers defined in the schema, sorted.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Lookup returns the spec for the named workload manager. It fails with an
// UnsupportedError when the name is not in the schema or the entry lacks a
// launcher or template.
func (s *Store) Lookup(name string) (Spec, error) {
	entry, ok := s.entries[name]
	if !ok {
		return Spec{}, &UnsupportedError{
			Name: name,
			Path: s.path,
			Err:  fmt.Errorf("no schema entry"),
		}
	}

	defaults := attrs.FromMapSlice(entry)

	var errs error
	for _, field := range []string{"launcher", "template"} {
		if defaults.GetString(field) == "" {
			errs = multierror.Append(errs, fmt.Errorf("missing required field %q", field))
		}
	}
	if errs != nil {
		return Spec{}, &UnsupportedError{Name: name, Path: s.path, Err: errs}
	}

	tmpl := defaults.GetString("template")
	if s.root != "" && !filepath.IsAbs(tmpl) {
		tmpl = filepath.Join(s.root, tmpl)
	}

	return Spec{
		Name:     name,
		Launcher: defaults.GetString("launcher"),
		Template: tmpl,
		Defaults: defaults.Freeze(),
	}, nil
}

// LoadError is returned when the schema document cannot be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading schema file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UnsupportedError is returned by Lookup for unknown or incomplete entries.
type UnsupportedError struct {
	Name string
	Path string
	Err  error
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("the attributes for workload manager %q could not be determined from the schema file %s: %v",
		e.Name, e.Path, e.Err)
}

func (e *UnsupportedError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrUnsupported).
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
