package submit

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/wrkldmngr/batch"
	"github.com/ohsu-comp-bio/wrkldmngr/compute/noop"
	"github.com/ohsu-comp-bio/wrkldmngr/config"
	"github.com/ohsu-comp-bio/wrkldmngr/logger"
	"github.com/ohsu-comp-bio/wrkldmngr/metrics"
	"github.com/ohsu-comp-bio/wrkldmngr/render"
	"github.com/ohsu-comp-bio/wrkldmngr/version"
	"github.com/ohsu-comp-bio/wrkldmngr/wlm"
)

// RunOptions controls how Run reports and submits.
type RunOptions struct {
	// DryRun writes the job scripts without launching anything.
	DryRun bool
	// Out receives one line per job. Defaults to stdout.
	Out io.Writer
}

// Run renders and submits every job with the given config.
func Run(ctx context.Context, conf config.Config, jobs []batch.Job, opts RunOptions) error {
	logger.Configure(conf.Logger)
	log := logger.Sub("submit")
	log.Debug("Version", version.LogFields()...)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if conf.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(conf.SubmitTimeout))
		defer cancel()
	}

	outLimit, err := config.OutputLimitBytes(conf)
	if err != nil {
		return err
	}

	newManager := func() (*wlm.WorkloadManager, error) {
		wopts := []wlm.Option{
			wlm.WithSchemaRoot(conf.Root, conf.Tool),
			wlm.WithRenderOptions(render.Options{SkipMissing: conf.SkipMissing, Mode: render.DefaultOptions().Mode}),
			wlm.WithOutputLimit(outLimit),
			wlm.WithLogger(log),
		}
		if opts.DryRun {
			wopts = append(wopts, wlm.WithBackend(noop.NewBackend(conf.Backend)))
		}
		return wlm.New(conf.Backend, conf.Shell, nil, wopts...)
	}

	outcomes, err := batch.SubmitAll(ctx, newManager, jobs, conf.Workers, batch.NewLimiter(conf.SubmitRate))
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		if opts.DryRun {
			cmdline := shellquote.Join(append([]string{o.Result.Executable}, o.Result.Args...)...)
			fmt.Fprintf(out, "%s\t(cd %s && %s)\n", o.Job.Output, o.Result.WorkDir, cmdline)
		} else {
			fmt.Fprintf(out, "%s\t%s\n", o.Job.Output, strings.TrimSpace(o.Result.JobID))
		}
	}

	if conf.MetricsFile != "" {
		if merr := metrics.WriteTextfile(conf.MetricsFile); merr != nil {
			log.Error("writing metrics file", merr)
		}
	}
	return err
}
