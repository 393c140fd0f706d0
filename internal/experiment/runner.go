package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/xai-saliency-mcp/internal/dataset"
	"github.com/ironsheep/xai-saliency-mcp/internal/detection"
	"github.com/ironsheep/xai-saliency-mcp/internal/explain"
	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// DefaultConcurrency is used when no positive worker count is given.
const DefaultConcurrency = 4

// MethodOutcome is the score of one explanation method on one slice.
type MethodOutcome struct {
	Method saliency.Method   `json:"method"`
	Scores saliency.ScoreSet `json:"scores"`
	Err    error             `json:"-"`
}

// Outcome is everything computed for one slice.
type Outcome struct {
	Sample   dataset.Sample     `json:"sample"`
	Location detection.Location `json:"location"`
	Methods  []MethodOutcome    `json:"methods"`

	// Err is set when the slice could not be prepared or located; Methods
	// is then empty.
	Err error `json:"-"`
}

// Run is the result of a batch.
type Run struct {
	Started  time.Time
	Finished time.Time
	Methods  []saliency.Method
	Outcomes []Outcome
}

// Runner evaluates explanation tools over dataset samples.
type Runner struct {
	locator     *detection.Locator
	tools       []explain.Tool
	imageSize   int
	concurrency int
	logger      zerolog.Logger
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency sets the maximum number of slices processed at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithImageSize sets the edge length scans are prepared to.
func WithImageSize(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			r.imageSize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner. A nil locator uses detection defaults.
func NewRunner(locator *detection.Locator, tools []explain.Tool, opts ...Option) *Runner {
	if locator == nil {
		locator = detection.NewLocator(nil, nil)
	}
	r := &Runner{
		locator:     locator,
		tools:       tools,
		imageSize:   imaging.DefaultScanSize,
		concurrency: DefaultConcurrency,
		logger:      zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Methods returns the methods evaluated by the runner, in tool order.
func (r *Runner) Methods() []saliency.Method {
	methods := make([]saliency.Method, len(r.tools))
	for i, t := range r.tools {
		methods[i] = t.Method()
	}
	return methods
}

// Run evaluates every sample. The returned Run is complete unless ctx was
// cancelled, in which case the context error is returned with whatever
// finished.
func (r *Runner) Run(ctx context.Context, samples []dataset.Sample) (*Run, error) {
	run := &Run{
		Started:  r.now(),
		Methods:  r.Methods(),
		Outcomes: make([]Outcome, len(samples)),
	}
	r.logger.Info().
		Int("samples", len(samples)).
		Int("concurrency", r.concurrency).
		Strs("methods", methodNames(run.Methods)).
		Msg("starting evaluation")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, s := range samples {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := r.evaluate(ctx, s)
			if out.Err != nil {
				r.logger.Warn().Err(out.Err).Str("sample", s.ID).Msg("sample failed")
			}
			run.Outcomes[i] = out
			return ctx.Err()
		})
	}

	err := g.Wait()
	run.Finished = r.now()
	r.logger.Info().
		Int("samples", len(samples)).
		Dur("elapsed", run.Finished.Sub(run.Started)).
		Msg("evaluation complete")
	return run, err
}

// Evaluate processes a single sample synchronously.
func (r *Runner) Evaluate(ctx context.Context, s dataset.Sample) Outcome {
	return r.evaluate(ctx, s)
}

func (r *Runner) evaluate(ctx context.Context, s dataset.Sample) Outcome {
	out := Outcome{Sample: s}

	raw, err := imaging.Decode(s.Path)
	if err != nil {
		out.Err = err
		return out
	}
	scan, err := imaging.PrepareScan(raw, r.imageSize)
	if err != nil {
		out.Err = fmt.Errorf("prepare %s: %w", s.ID, err)
		return out
	}
	loc, err := r.locator.Locate(scan)
	if err != nil {
		out.Err = err
		return out
	}
	out.Location = loc
	r.logger.Debug().Str("sample", s.ID).Bool("tumour", loc.Found).Stringer("location", loc).Msg("located")

	sample := explain.Sample{ID: s.ID, Scan: scan}
	for _, tool := range r.tools {
		mo := MethodOutcome{Method: tool.Method()}
		explanation, err := tool.Explain(ctx, sample)
		if err == nil {
			var a *saliency.Analyser
			a, err = saliency.AnalyseLocated(loc, explanation, tool.Method())
			if err == nil {
				mo.Scores = a.Scores()
			}
		}
		if err != nil {
			mo.Err = err
			r.logger.Warn().Err(err).Str("sample", s.ID).Stringer("method", tool.Method()).Msg("explanation failed")
		}
		out.Methods = append(out.Methods, mo)
	}
	return out
}

func methodNames(methods []saliency.Method) []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return names
}
