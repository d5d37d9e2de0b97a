// Package render writes job scripts from templates and attribute mappings.
//
// Templates use text/template syntax with the Sprig function library.
// A plain placeholder is a single field reference such as {{.NAME}} or
// {{ .account }}. When Options.SkipMissing is set, plain placeholders whose
// key is absent from the mapping are copied to the output unchanged, so
// scheduler directives unknown to the mapping survive rendering.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
)

var (
	// ErrTemplateNotFound is matched when the template file cannot be read.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateInvalid is matched when the template cannot be parsed or executed.
	ErrTemplateInvalid = errors.New("invalid template")
	// ErrWriteFailed is matched when the job script cannot be written.
	ErrWriteFailed = errors.New("job script write failed")
)

// placeholder matches a plain field reference, e.g. {{.NAME}} or {{- .name -}}.
var placeholder = regexp.MustCompile(`\{\{-?\s*\.([A-Za-z_][A-Za-z0-9_]*)\s*-?\}\}`)

// Options controls rendering.
type Options struct {
	// SkipMissing leaves plain placeholders with no matching key as literal
	// text. When false, a missing key is an error.
	SkipMissing bool
	// Mode is the file mode of the written script.
	Mode os.FileMode
}

// DefaultOptions returns the options used by the workload manager.
func DefaultOptions() Options {
	return Options{
		SkipMissing: true,
		Mode:        0755,
	}
}

// Error describes a rendering failure. Kind is one of the Err* values above.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match on Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Render renders the template at templatePath with m and writes the result
// to outputPath, replacing any existing file.
func Render(templatePath string, m *attrs.Mapping, outputPath string, opts Options) error {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return &Error{Kind: ErrTemplateNotFound, Path: templatePath, Err: err}
	}

	out, err := Execute(templatePath, string(raw), m, opts)
	if err != nil {
		return err
	}

	mode := opts.Mode
	if mode == 0 {
		mode = 0755
	}
	if err := os.WriteFile(outputPath, out, mode); err != nil {
		return &Error{Kind: ErrWriteFailed, Path: outputPath, Err: err}
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(outputPath, mode); err != nil {
		return &Error{Kind: ErrWriteFailed, Path: outputPath, Err: err}
	}
	return nil
}

// Execute renders text with m. The result always starts with the mapping's
// shell header line: when the rendered text does not begin with "#!", the
// HEADER value is prepended on its own line.
func Execute(name, text string, m *attrs.Mapping, opts Options) ([]byte, error) {
	if opts.SkipMissing {
		text = escapeMissing(text, m)
	}

	tpl := template.New(name).Funcs(sprig.TxtFuncMap())
	if opts.SkipMissing {
		tpl = tpl.Option("missingkey=zero")
	} else {
		tpl = tpl.Option("missingkey=error")
	}
	tpl, err := tpl.Parse(text)
	if err != nil {
		return nil, &Error{Kind: ErrTemplateInvalid, Path: name, Err: err}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, m.Map()); err != nil {
		return nil, &Error{Kind: ErrTemplateInvalid, Path: name, Err: err}
	}

	header := header(m)
	if header != "" && !bytes.HasPrefix(buf.Bytes(), []byte("#!")) {
		return append([]byte(header+"\n"), buf.Bytes()...), nil
	}
	return buf.Bytes(), nil
}

// escapeMissing rewrites plain placeholders whose key is absent from m into
// actions that print the placeholder text itself.
func escapeMissing(text string, m *attrs.Mapping) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		if m.Has(key) {
			return match
		}
		return "{{" + strconv.Quote(match) + "}}"
	})
}

func header(m *attrs.Mapping) string {
	for _, k := range []string{"HEADER", "header"} {
		if h := strings.TrimSpace(m.GetString(k)); h != "" {
			return h
		}
	}
	return ""
}
