// Package config contains the wrkldmngr command line configuration.
package config

import (
	"os"
	"time"

	"github.com/ohsu-comp-bio/wrkldmngr/logger"
	"github.com/ohsu-comp-bio/wrkldmngr/schema"
)

// Config describes configuration for wrkldmngr.
type Config struct {
	// Root is the directory holding schema/<Tool>.yaml and the templates.
	// Defaults to $WRKLDMNGR_ROOT.
	Root string
	// Tool names the schema document under Root/schema.
	Tool string
	// Backend is the workload manager to submit to, e.g. "slurm".
	Backend string
	// Shell is the interpreter named in the job script header.
	Shell string
	// Output is the job script path used when a job doesn't name one.
	Output string
	// SkipMissing leaves unknown template placeholders in the script
	// instead of failing.
	SkipMissing bool
	// Workers bounds concurrent submissions of a batch of jobs.
	Workers int
	// SubmitTimeout bounds a whole submit command. Zero means no limit.
	SubmitTimeout Duration
	// SubmitRate bounds submissions per second across a batch of jobs.
	// Zero means no limit.
	SubmitRate float64
	// OutputLimit bounds the launcher stdout and stderr kept for error
	// reports, e.g. "64KiB".
	OutputLimit string
	// MetricsFile, when set, receives the run metrics in Prometheus text
	// format after each command.
	MetricsFile string
	Logger      logger.Config
}

// DefaultConfig returns configuration with simple defaults.
func DefaultConfig() Config {
	return Config{
		Root:          os.Getenv(schema.RootEnv),
		Tool:          schema.DefaultTool,
		Backend:       "slurm",
		Shell:         "bash",
		Output:        "wrkldmngr.job",
		SkipMissing:   true,
		Workers:       4,
		SubmitTimeout: Duration(time.Minute * 2),
		OutputLimit:   "64KiB",
		Logger:        logger.DefaultConfig(),
	}
}
