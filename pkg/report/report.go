// Package report evaluates a whole intent file against a host's facts and
// collects the verdicts into a report.
package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newtron-network/ifcheck/pkg/audit"
	"github.com/newtron-network/ifcheck/pkg/compare"
	"github.com/newtron-network/ifcheck/pkg/facts"
	"github.com/newtron-network/ifcheck/pkg/filter"
	"github.com/newtron-network/ifcheck/pkg/intent"
	"github.com/newtron-network/ifcheck/pkg/metrics"
	"github.com/newtron-network/ifcheck/pkg/util"
)

// DefaultWorkers bounds concurrent evaluations when no limit is given.
const DefaultWorkers = 8

// Result is the verdict for one interface.
type Result struct {
	Kind     intent.Kind   `json:"kind"`
	Filter   string        `json:"filter"`
	Device   string        `json:"device"`
	Diff     bool          `json:"diff"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Verdict returns the result as a Verdict.
func (r Result) Verdict() compare.Verdict {
	return compare.Verdict{Diff: r.Diff, Reason: r.Reason}
}

// Report contains every result for one host, in intent file order.
type Report struct {
	Host      string        `json:"host"`
	Timestamp time.Time     `json:"timestamp"`
	Diff      bool          `json:"diff"`
	Results   []Result      `json:"results"`
	Duration  time.Duration `json:"duration"`
}

// Diverged returns the results that found a divergence.
func (r *Report) Diverged() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Diff {
			out = append(out, res)
		}
	}
	return out
}

// Summary returns a one-line description of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d interfaces checked, %d diverged", r.Host, len(r.Results), len(r.Diverged()))
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers limits how many checks run at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithAuditLogger records every check with logger instead of the
// package default audit logger.
func WithAuditLogger(logger audit.Logger) Option {
	return func(r *Runner) { r.audit = logger }
}

// WithMetrics records check outcomes in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithUser sets the user recorded in audit events.
func WithUser(user string) Option {
	return func(r *Runner) { r.user = user }
}

// Runner evaluates intent entries against fact snapshots.
type Runner struct {
	workers int
	audit   audit.Logger
	metrics *metrics.Collector
	user    string
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{workers: DefaultWorkers}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates every entry of file against snap. Checks run concurrently;
// results keep the order of file.Entries.
func (r *Runner) Run(ctx context.Context, host string, snap *facts.Snapshot, file *intent.File) (*Report, error) {
	start := time.Now()
	entries := file.Entries()
	results := make([]Result, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.evaluate(host, snap, e.Kind, &e.Interface)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checking %s: %w", host, err)
	}

	report := &Report{
		Host:      host,
		Timestamp: start,
		Results:   results,
	}
	for _, res := range results {
		if res.Diff {
			report.Diff = true
			break
		}
	}
	report.Duration = time.Since(start)

	if r.metrics != nil {
		r.metrics.ObserveRun(host, report.Diff)
	}
	util.WithHost(host).Infof("%d interfaces checked in %s, diff=%t", len(results), report.Duration, report.Diff)
	return report, nil
}

// RunOne evaluates a single interface.
func (r *Runner) RunOne(ctx context.Context, host string, snap *facts.Snapshot, kind intent.Kind, iface *intent.Interface) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.evaluate(host, snap, kind, iface)
}

// RunHosts loads each host's facts from src and runs file against them.
// Reports are returned in host order; the first load or run error aborts.
func (r *Runner) RunHosts(ctx context.Context, src facts.Source, hosts []string, file *intent.File) ([]*Report, error) {
	reports := make([]*Report, len(hosts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, host := range hosts {
		i, host := i, host
		g.Go(func() error {
			snap, err := src.Load(ctx, host)
			if err != nil {
				return fmt.Errorf("loading facts for %s: %w", host, err)
			}
			rep, err := r.Run(ctx, host, snap, file)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *Runner) evaluate(host string, snap *facts.Snapshot, kind intent.Kind, iface *intent.Interface) (*Result, error) {
	f, err := filter.ForKind(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	verdict := f.Check(snap, iface)
	elapsed := time.Since(start)

	util.WithHost(host).WithField("filter", f.Name).WithField("device", iface.Device).Debugf("%s", verdict)

	event := audit.NewEvent(r.user, host, f.Name, iface.Device).
		WithVerdict(verdict).
		WithIntent(iface).
		WithDuration(elapsed)
	if err := r.logEvent(event); err != nil {
		util.Warnf("audit: %v", err)
	}
	if r.metrics != nil {
		r.metrics.ObserveCheck(f.Name, verdict, elapsed)
	}

	return &Result{
		Kind:     kind,
		Filter:   f.Name,
		Device:   iface.Device,
		Diff:     verdict.Diff,
		Reason:   verdict.Reason,
		Duration: elapsed,
	}, nil
}

func (r *Runner) logEvent(event *audit.Event) error {
	if r.audit != nil {
		return r.audit.Log(event)
	}
	return audit.Log(event)
}
