package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/units"
	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
)

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ToYamlFile writes the configuration to a YAML file.
func ToYamlFile(c Config, path string) error {
	b, err := ToYaml(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// Parse parses a YAML doc into the given Config instance. Fields absent
// from the document keep their current values.
func Parse(raw []byte, conf *Config) error {
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return err
	}
	return Validate(*conf)
}

// ParseFile parses a wrkldmngr config file, which is formatted in YAML.
// An empty path is a no-op.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: \n%v", path, err)
	}

	err = Parse(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: \n%v", path, err)
	}
	return nil
}

// Validate reports every invalid field of c.
func Validate(c Config) error {
	var errs error
	if c.Workers < 0 {
		errs = multierror.Append(errs, fmt.Errorf("Workers must not be negative, got %d", c.Workers))
	}
	if c.SubmitTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("SubmitTimeout must not be negative, got %s", c.SubmitTimeout.String()))
	}
	if c.SubmitRate < 0 {
		errs = multierror.Append(errs, fmt.Errorf("SubmitRate must not be negative, got %g", c.SubmitRate))
	}
	if _, err := OutputLimitBytes(c); err != nil {
		errs = multierror.Append(errs, err)
	}
	switch c.Logger.Formatter {
	case "", "text", "json":
	default:
		errs = multierror.Append(errs, fmt.Errorf("Logger.Formatter must be text or json, got %q", c.Logger.Formatter))
	}
	return errs
}

// OutputLimitBytes parses c.OutputLimit, e.g. "64KiB" or "1MB". An empty
// limit returns 0, meaning the backend default.
func OutputLimitBytes(c Config) (int64, error) {
	if c.OutputLimit == "" {
		return 0, nil
	}
	n, err := units.ParseStrictBytes(c.OutputLimit)
	if err != nil {
		return 0, fmt.Errorf("OutputLimit %q: %v", c.OutputLimit, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("OutputLimit must be positive, got %q", c.OutputLimit)
	}
	return n, nil
}
