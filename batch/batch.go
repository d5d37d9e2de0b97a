// Package batch submits many independent jobs concurrently.
package batch

import (
	"context"
	"fmt"

	"github.com/gammazero/workerpool"
	"github.com/hashicorp/go-multierror"
	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
	"github.com/ohsu-comp-bio/wrkldmngr/compute"
	"github.com/ohsu-comp-bio/wrkldmngr/util/fsutil"
	"github.com/ohsu-comp-bio/wrkldmngr/wlm"
	"golang.org/x/time/rate"
)

// DefaultWorkers is the number of concurrent submissions used when none is
// configured.
const DefaultWorkers = 4

// Job is one job script to render and submit.
type Job struct {
	// Name identifies the job in errors, e.g. the vars file it came from.
	Name   string
	Attrs  *attrs.Mapping
	Output string
}

// Outcome is the result of one Job. Exactly one of Result and Err is set.
type Outcome struct {
	Job    Job
	Result *compute.Result
	Err    error
}

// ManagerFunc returns a new configured workload manager.
type ManagerFunc func() (*wlm.WorkloadManager, error)

// NewLimiter returns a limiter allowing perSecond submissions per second
// with bursts of twice that rate. It returns nil, meaning no limit, when
// perSecond is not positive.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SubmitAll runs every job on its own workload manager from newManager, at
// most workers at a time and, when limiter is not nil, no faster than the
// limiter allows. Outcomes are returned in job order. The error
// aggregates every failed job and is nil when all jobs were submitted.
//
// A failed job does not stop the others. Jobs which have not started when
// ctx is canceled fail with the context error.
func SubmitAll(ctx context.Context, newManager ManagerFunc, jobs []Job, workers int, limiter *rate.Limiter) ([]Outcome, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make([]Outcome, len(jobs))
	wp := workerpool.New(workers)
	for i, j := range jobs {
		i, j := i, j
		wp.Submit(func() {
			res, err := submit(ctx, newManager, limiter, j)
			out[i] = Outcome{Job: j, Result: res, Err: err}
		})
	}
	wp.StopWait()

	var errs error
	for _, o := range out {
		if o.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("job %s: %w", o.Job.Name, o.Err))
		}
	}
	return out, errs
}

func submit(ctx context.Context, newManager ManagerFunc, limiter *rate.Limiter, j Job) (*compute.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	m, err := newManager()
	if err != nil {
		return nil, err
	}
	if err := fsutil.EnsurePath(j.Output); err != nil {
		return nil, &wlm.Error{Stage: wlm.StageRender, Kind: wlm.ErrWriteFailed, Backend: m.Name(), Err: err}
	}
	return m.Run(ctx, j.Attrs, j.Output)
}
