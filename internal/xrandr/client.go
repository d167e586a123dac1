// Package xrandr runs the xrandr binary to list, define and delete monitors.
package xrandr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/1broseidon/xscreensplit/internal/display"
)

// DefaultTimeout bounds each xrandr invocation.
const DefaultTimeout = 5 * time.Second

// ErrNotInstalled is returned when the xrandr binary cannot be found.
var ErrNotInstalled = errors.New("xrandr is not available in PATH")

// ExternalCallError reports a failed xrandr invocation.
type ExternalCallError struct {
	Args   []string
	Output string // combined stdout/stderr, trimmed
	Err    error
}

func (e *ExternalCallError) Error() string {
	if e == nil {
		return "<nil>"
	}
	cmd := strings.Join(e.Args, " ")
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %v: %s", cmd, e.Err, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", cmd, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the xrandr executable.
func WithBinary(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.binary = path
		}
	}
}

// WithTimeout overrides the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client invokes xrandr. Every call re-runs the binary; nothing is cached.
type Client struct {
	binary  string
	timeout time.Duration

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates a client for the xrandr binary on PATH.
func New(opts ...Option) *Client {
	c := &Client{
		binary:   "xrandr",
		timeout:  DefaultTimeout,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Available reports whether the binary can be found.
func (c *Client) Available() bool {
	_, err := c.lookPath(c.binary)
	return err == nil
}

// ListMonitors returns the current `--listactivemonitors` view.
func (c *Client) ListMonitors(ctx context.Context) ([]display.Monitor, error) {
	out, err := c.call(ctx, "--listactivemonitors")
	if err != nil {
		return nil, err
	}
	return display.ParseListing(out)
}

// SetMonitor defines or replaces the virtual monitor described by req.
func (c *Client) SetMonitor(ctx context.Context, req display.Request) error {
	clone := req.CloneSource
	if clone == "" {
		clone = display.NoClone
	}
	_, err := c.call(ctx, "--setmonitor", req.Name, req.Geometry.String(), clone)
	return err
}

// DeleteMonitor removes the named monitor.
func (c *Client) DeleteMonitor(ctx context.Context, name string) error {
	_, err := c.call(ctx, "--delmonitor", name)
	return err
}

func (c *Client) call(ctx context.Context, args ...string) (string, error) {
	argv := append([]string{c.binary}, args...)
	if !c.Available() {
		return "", &ExternalCallError{Args: argv, Err: ErrNotInstalled}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.run(callCtx, c.binary, args...)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, context.DeadlineExceeded)
		}
		return "", &ExternalCallError{Args: argv, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return string(out), nil
}
