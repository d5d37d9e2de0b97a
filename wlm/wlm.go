// Package wlm prepares job scripts for a workload manager and submits them.
//
// A WorkloadManager is configured once from the schema entry of a backend and
// a shell, then each Run merges per-job attributes, renders the backend's
// template to a script and hands the script to the backend's launcher.
package wlm

import (
	"context"
	"sync"
	"time"

	"github.com/ohsu-comp-bio/wrkldmngr/attrs"
	"github.com/ohsu-comp-bio/wrkldmngr/compute"
	"github.com/ohsu-comp-bio/wrkldmngr/compute/slurm"
	"github.com/ohsu-comp-bio/wrkldmngr/logger"
	"github.com/ohsu-comp-bio/wrkldmngr/metrics"
	"github.com/ohsu-comp-bio/wrkldmngr/render"
	"github.com/ohsu-comp-bio/wrkldmngr/schema"
	"github.com/ohsu-comp-bio/wrkldmngr/shell"
	"github.com/ohsu-comp-bio/wrkldmngr/util"
)

// DefaultShell is the shell used when none is given.
const DefaultShell = "bash"

// WorkloadManager renders and submits job scripts for one backend.
// Run calls on the same instance are serialized.
type WorkloadManager struct {
	name       string
	spec       schema.Spec
	shell      shell.Info
	overrides  *attrs.Mapping
	backend    compute.Backend
	renderOpts render.Options
	log        *logger.Logger

	mu    sync.Mutex
	state State
	err   error
}

type options struct {
	store      *schema.Store
	root       string
	tool       string
	lookPath   shell.LookPathFunc
	backend    compute.Backend
	renderOpts render.Options
	outLimit   int64
	log        *logger.Logger
}

// Option configures New.
type Option func(*options)

// WithStore uses an already loaded schema store.
func WithStore(s *schema.Store) Option {
	return func(o *options) { o.store = s }
}

// WithSchemaRoot loads the schema from <root>/schema/<tool>.yaml instead of
// the WRKLDMNGR_ROOT environment variable. An empty tool means the default.
func WithSchemaRoot(root, tool string) Option {
	return func(o *options) {
		o.root = root
		o.tool = tool
	}
}

// WithLookPath replaces the executable lookup used for the shell and, when
// the backend is an HPCBackend without its own lookup, for the launcher.
func WithLookPath(f shell.LookPathFunc) Option {
	return func(o *options) { o.lookPath = f }
}

// WithBackend replaces the backend registered for the workload manager name.
func WithBackend(b compute.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithOutputLimit bounds the launcher output kept in a Result when the
// backend is an HPCBackend without its own limit.
func WithOutputLimit(n int64) Option {
	return func(o *options) { o.outLimit = n }
}

// WithRenderOptions replaces render.DefaultOptions.
func WithRenderOptions(r render.Options) Option {
	return func(o *options) { o.renderOpts = r }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New returns a configured WorkloadManager for the named backend.
//
// The schema entry is looked up before the shell is resolved, so an
// unsupported backend fails without touching the shell or the filesystem.
// overrides are applied to every run and may be nil.
func New(name, shellName string, overrides *attrs.Mapping, opts ...Option) (*WorkloadManager, error) {
	o := options{renderOpts: render.DefaultOptions()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Sub("wlm")
	}
	log := o.log.WithFields("backend", name)

	store := o.store
	if store == nil {
		var err error
		store, err = schema.LoadFromRoot(o.root, o.tool)
		if err != nil {
			return nil, configFailed(log, name, err)
		}
	}

	spec, err := store.Lookup(name)
	if err != nil {
		return nil, configFailed(log, name, err)
	}

	if shellName == "" {
		shellName = DefaultShell
	}
	sh, err := shell.Resolve(shellName, o.lookPath)
	if err != nil {
		return nil, configFailed(log, name, err)
	}

	b := o.backend
	if b == nil {
		b = compute.New(name)
	}
	if hpc, ok := b.(*compute.HPCBackend); ok {
		if hpc.LookPath == nil {
			hpc.LookPath = o.lookPath
		}
		if hpc.Log == nil {
			hpc.Log = log
		}
		if hpc.BufferSize == 0 {
			hpc.BufferSize = o.outLimit
		}
	}

	if overrides == nil {
		overrides = attrs.New()
	}

	m := &WorkloadManager{
		name:       name,
		spec:       spec,
		shell:      sh,
		overrides:  overrides.Clone().Freeze(),
		backend:    b,
		renderOpts: o.renderOpts,
		log:        log,
		state:      Configured,
	}
	log.Debug("configured workload manager",
		"launcher", spec.Launcher, "template", spec.Template, "shell", sh.Path)
	return m, nil
}

func configFailed(log *logger.Logger, name string, err error) error {
	e := newError(StageConfig, name, err)
	log.Error("configuring workload manager", e)
	metrics.RecordRun(name, string(StageConfig), metrics.Failed, 0)
	return e
}

// NewSlurm returns a WorkloadManager for the "slurm" schema entry, submitting
// with sbatch and reading the job id from its output. A WithBackend option
// replaces the SLURM backend.
func NewSlurm(shellName string, overrides *attrs.Mapping, opts ...Option) (*WorkloadManager, error) {
	opts = append([]Option{WithBackend(slurm.NewBackend())}, opts...)
	return New("slurm", shellName, overrides, opts...)
}

// Name returns the workload manager name.
func (m *WorkloadManager) Name() string {
	return m.name
}

// Spec returns the schema entry.
func (m *WorkloadManager) Spec() schema.Spec {
	return m.spec
}

// Shell returns the resolved shell.
func (m *WorkloadManager) Shell() shell.Info {
	return m.shell
}

// Attributes returns the configured mapping: schema defaults, shell fields
// and construction overrides, without any job attributes.
func (m *WorkloadManager) Attributes() *attrs.Mapping {
	return attrs.Build(m.spec.Defaults, m.shell.Fields(), m.overrides)
}

// State returns the current lifecycle state.
func (m *WorkloadManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the error which moved the instance to Failed, if any.
func (m *WorkloadManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Run merges job attributes into the configured mapping, renders the job
// script to outputPath and submits it. The script is written completely
// before the launcher starts. A failure in any step moves the instance to
// Failed; later calls return ErrFailed.
//
// A script written before a failed or canceled submission is left in place.
func (m *WorkloadManager) Run(ctx context.Context, job *attrs.Mapping, outputPath string) (*compute.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Failed {
		return nil, &Error{Stage: StageConfig, Kind: ErrFailed, Backend: m.name, Err: m.err}
	}

	runID := util.GenRunID()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)
	start := time.Now()

	mapping := attrs.Build(m.spec.Defaults, m.shell.Fields(), m.overrides, job)

	if err := ctx.Err(); err != nil {
		return nil, m.fail(ctx, StageRender, err, start)
	}
	m.log.Debug("writing job script", ctx, "output", outputPath, "template", m.spec.Template)
	if err := render.Render(m.spec.Template, mapping, outputPath, m.renderOpts); err != nil {
		return nil, m.fail(ctx, StageRender, err, start)
	}
	m.state = Rendered

	if err := ctx.Err(); err != nil {
		return nil, m.fail(ctx, StageSubmit, err, start)
	}
	res, err := m.backend.Submit(ctx, compute.Request{
		ScriptPath: outputPath,
		Launcher:   mapping.GetString("launcher"),
	})
	if err != nil {
		return nil, m.fail(ctx, StageSubmit, err, start)
	}
	res.RunID = runID
	m.state = Submitted

	metrics.RecordRun(m.name, string(StageSubmit), metrics.Submitted, time.Since(start))
	m.log.Info("job submitted", ctx, "output", outputPath, "jobID", res.JobID, "workdir", res.WorkDir)
	return res, nil
}

func (m *WorkloadManager) fail(ctx context.Context, stage Stage, err error, start time.Time) error {
	e := newError(stage, m.name, err)
	m.state = Failed
	m.err = e
	metrics.RecordRun(m.name, string(stage), metrics.Failed, time.Since(start))
	m.log.Error("run failed", ctx, "stage", stage, "error", err)
	return e
}

// RunResult is the outcome of RunAsync.
type RunResult struct {
	Result *compute.Result
	Err    error
}

// RunAsync calls Run in a new goroutine. The returned channel receives
// exactly one RunResult and is then closed.
func (m *WorkloadManager) RunAsync(ctx context.Context, job *attrs.Mapping, outputPath string) <-chan RunResult {
	ch := make(chan RunResult, 1)
	go func() {
		defer close(ch)
		res, err := m.Run(ctx, job, outputPath)
		ch <- RunResult{Result: res, Err: err}
	}()
	return ch
}
