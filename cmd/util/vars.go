package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imdario/mergo"
	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
)

// ParseVars parses KEY=VALUE arguments. A value may itself contain "=".
func ParseVars(args []string) (map[string]string, error) {
	data := map[string]string{}
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.New("Arguments passed to --var must be of the form: KEY=VALUE, got: " + arg)
		}
		if _, ok := data[key]; ok {
			return nil, errors.New("Can't use the same KEY for multiple --var arguments: " + key)
		}
		data[key] = val
	}
	return data, nil
}

// ParseVarString splits s with shell quoting rules and parses each word as
// KEY=VALUE, e.g. `name=t account=acct1 command='echo hello'`.
func ParseVarString(s string) (map[string]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parsing --vars %q: %v", s, err)
	}
	return ParseVars(words)
}

// MergeVars merges maps from lowest to highest precedence.
func MergeVars(maps ...map[string]string) (map[string]string, error) {
	merged := map[string]string{}
	for _, m := range maps {
		if err := mergo.MergeWithOverwrite(&merged, m); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// ReadVarsFile reads a YAML or JSON mapping of job attributes, keeping the
// document order and integer values. The path "-" reads from stdin.
func ReadVarsFile(path string) (*attrs.Mapping, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(StdinPipe())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading vars file %s: %v", path, err)
	}

	vars, err := attrs.ParseYAML(b)
	if err != nil {
		return nil, fmt.Errorf("parsing vars file %s: %v", path, err)
	}
	return vars, nil
}

// JobAttrs layers the string vars over base, which may be nil.
func JobAttrs(base *attrs.Mapping, vars map[string]string) *attrs.Mapping {
	return attrs.Merge(base, attrs.FromStrings(vars))
}
