// Package submit contains the submit and render commands.
package submit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ohsu-comp-bio/wrkldmngr/batch"
	"github.com/ohsu-comp-bio/wrkldmngr/cmd/util"
	"github.com/ohsu-comp-bio/wrkldmngr/config"
	wutil "github.com/ohsu-comp-bio/wrkldmngr/util"
	"github.com/spf13/cobra"
)

// NewCommand returns the submit command.
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks(false)
	return cmd
}

// NewRenderCommand returns the render command, which writes job scripts
// without submitting them.
func NewRenderCommand() *cobra.Command {
	cmd, _ := newCommandHooks(true)
	return cmd
}

type hooks struct {
	Run func(ctx context.Context, conf config.Config, jobs []batch.Job, opts RunOptions) error
}

func newCommandHooks(dryRun bool) (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile string
		flagConf   config.Config
		varArgs    []string
		varString  string
		varsFiles  []string
		strict     bool
	)

	use, short := "submit", "Render a job script and submit it to a workload manager."
	if dryRun {
		use, short = "render", "Render a job script without submitting it."
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			if strict {
				conf.SkipMissing = false
			}

			jobs, err := buildJobs(conf.Output, varString, varArgs, varsFiles)
			if err != nil {
				return err
			}

			ctx := wutil.SignalContext(context.Background(), time.Millisecond, syscall.SIGINT, syscall.SIGTERM)
			return hooks.Run(ctx, conf, jobs, RunOptions{DryRun: dryRun, Out: cmd.OutOrStdout()})
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.Flags()
	f.AddFlagSet(util.ConfigFlags(&flagConf, &configFile))
	f.StringArrayVar(&varArgs, "var", nil, "Job attribute as KEY=VALUE. This flag can be used multiple times")
	f.StringVar(&varString, "vars", "", "Space separated KEY=VALUE job attributes, with shell quoting")
	f.StringArrayVar(&varsFiles, "vars-file", nil, "YAML file of job attributes, one job per file. This flag can be used multiple times")
	f.BoolVar(&strict, "strict", false, "Fail when the template uses an attribute that is not set")

	return cmd, hooks
}

// buildJobs returns one job per vars file, or a single job when there are
// none. Attributes from --vars and --var override those from files.
func buildJobs(output, varString string, varArgs, varsFiles []string) ([]batch.Job, error) {
	strVars, err := util.ParseVarString(varString)
	if err != nil {
		return nil, err
	}
	argVars, err := util.ParseVars(varArgs)
	if err != nil {
		return nil, err
	}
	vars, err := util.MergeVars(strVars, argVars)
	if err != nil {
		return nil, err
	}

	if len(varsFiles) == 0 {
		return []batch.Job{{Name: "job", Attrs: util.JobAttrs(nil, vars), Output: output}}, nil
	}

	var jobs []batch.Job
	seen := map[string]string{}
	for _, p := range varsFiles {
		base, err := util.ReadVarsFile(p)
		if err != nil {
			return nil, err
		}
		out := output
		if len(varsFiles) > 1 {
			out = outputFor(output, p)
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("vars files %s and %s would both write %s", prev, p, out)
		}
		seen[out] = p
		jobs = append(jobs, batch.Job{Name: p, Attrs: util.JobAttrs(base, vars), Output: out})
	}
	return jobs, nil
}

// outputFor inserts the vars file name before the output extension:
// ("run/job.sh", "a.yaml") gives "run/job.a.sh".
func outputFor(output, varsFile string) string {
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(output, ext)
	name := strings.TrimSuffix(filepath.Base(varsFile), filepath.Ext(varsFile))
	return stem + "." + name + ext
}
