package splitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/xscreensplit/internal/display"
	"github.com/1broseidon/xscreensplit/internal/layout"
)

// ErrAlreadySplit is returned when the primary monitor is itself a generated
// virtual monitor.
var ErrAlreadySplit = errors.New("primary display is already split; run restore and split again")

// Backend lists, defines and deletes monitors. *xrandr.Client implements it.
type Backend interface {
	ListMonitors(ctx context.Context) ([]display.Monitor, error)
	SetMonitor(ctx context.Context, req display.Request) error
	DeleteMonitor(ctx context.Context, name string) error
}

// Outcome is the result of one external call.
type Outcome struct {
	Name    string
	Request *display.Request // nil for deletes
	Err     error
}

// Report collects the outcomes of a split or restore in call order.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the outcomes that carry an error.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Err joins every failed outcome, or returns nil when all calls succeeded.
func (r Report) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", o.Name, o.Err))
	}
	return errors.Join(errs...)
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithLogger sets the logger used for per-call progress.
func WithLogger(l *log.Logger) Option {
	return func(s *Splitter) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrefix overrides the virtual monitor name prefix.
func WithPrefix(prefix string) Option {
	return func(s *Splitter) {
		if strings.TrimSpace(prefix) != "" {
			s.prefix = prefix
		}
	}
}

// Splitter applies layouts to the primary display through a Backend.
type Splitter struct {
	backend Backend
	logger  *log.Logger
	prefix  string
}

// New creates a Splitter.
func New(backend Backend, opts ...Option) *Splitter {
	s := &Splitter{
		backend: backend,
		logger:  log.New(io.Discard),
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the virtual monitor name prefix in use.
func (s *Splitter) Prefix() string {
	return s.prefix
}

// Primary re-reads the listing and returns the primary monitor.
func (s *Splitter) Primary(ctx context.Context) (display.Monitor, error) {
	monitors, err := s.backend.ListMonitors(ctx)
	if err != nil {
		return display.Monitor{}, fmt.Errorf("list monitors: %w", err)
	}
	primary, err := display.FindPrimary(monitors)
	if err != nil {
		if len(display.Virtual(monitors, s.prefix)) > 0 {
			return display.Monitor{}, fmt.Errorf("%w: %w", ErrAlreadySplit, err)
		}
		return display.Monitor{}, err
	}
	if strings.HasPrefix(primary.Name, s.prefix) {
		return display.Monitor{}, fmt.Errorf("%w (primary is %s)", ErrAlreadySplit, primary.Name)
	}
	return primary, nil
}

// Plan verifies root and returns the requests a split would issue against
// the current primary, without applying them.
func (s *Splitter) Plan(ctx context.Context, root *layout.Node) ([]display.Request, error) {
	if err := layout.VerifyTree(root, layout.RootPath); err != nil {
		return nil, err
	}
	primary, err := s.Primary(ctx)
	if err != nil {
		return nil, err
	}
	return Plan(root, primary, s.prefix), nil
}

// Split verifies root, re-reads the primary display and defines one virtual
// monitor per window leaf. Requests are applied synchronously in traversal
// order; a failed request is logged and recorded in the report and the
// traversal continues. The returned error covers only failures that stop the
// split before any request is issued.
func (s *Splitter) Split(ctx context.Context, root *layout.Node) (Report, error) {
	if err := layout.VerifyTree(root, layout.RootPath); err != nil {
		return Report{}, err
	}
	primary, err := s.Primary(ctx)
	if err != nil {
		return Report{}, err
	}
	s.logger.Debug("splitting primary", "name", primary.Name, "geometry", primary.Geometry.String())

	var report Report
	Partition(root, primary, s.prefix, func(req display.Request) {
		err := s.backend.SetMonitor(ctx, req)
		if err != nil {
			s.logger.Error("setmonitor failed", "name", req.Name, "geometry", req.Geometry.String(), "err", err)
		} else {
			s.logger.Info("setmonitor", "name", req.Name, "geometry", req.Geometry.String(), "clone", req.CloneSource)
		}
		r := req
		report.add(Outcome{Name: req.Name, Request: &r, Err: err})
	})
	return report, nil
}

// Restore deletes every monitor whose name carries the generated prefix, in
// listing order. A failed delete does not stop the remaining ones. With no
// virtual monitors present it issues no calls.
func (s *Splitter) Restore(ctx context.Context) (Report, error) {
	monitors, err := s.backend.ListMonitors(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list monitors: %w", err)
	}

	var report Report
	for _, m := range display.Virtual(monitors, s.prefix) {
		err := s.backend.DeleteMonitor(ctx, m.Name)
		if err != nil {
			s.logger.Error("delmonitor failed", "name", m.Name, "err", err)
		} else {
			s.logger.Info("delmonitor", "name", m.Name)
		}
		report.add(Outcome{Name: m.Name, Err: err})
	}
	if len(report.Outcomes) == 0 {
		s.logger.Debug("no virtual monitors to remove", "prefix", s.prefix)
	}
	return report, nil
}
