// Package cli implements the xscreensplit command line.
//
// Commands:
//   - split [profile]: carve the primary display into virtual monitors
//   - restore: remove every generated virtual monitor
//   - watch [profile]: split again whenever the profile file changes
//   - monitors / outputs: show the xrandr monitor list or the physical outputs
//   - configs: list, create, print, edit, delete and verify layout profiles
//   - mcp serve: expose the same operations as MCP tools over stdio
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/xscreensplit/internal/config"
	"github.com/1broseidon/xscreensplit/internal/splitter"
	"github.com/1broseidon/xscreensplit/internal/x11"
	"github.com/1broseidon/xscreensplit/internal/xrandr"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// errReported marks an error whose message was already printed.
var errReported = errors.New("command failed")

// CLI holds the collaborators shared by all commands. Tests replace the
// function fields with fakes.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configDir string
	verbose   bool

	settings *config.Settings
	store    *config.Store

	newBackend  func(*config.Settings) splitter.Backend
	listOutputs func() (x11.Snapshot, error)
	confirm     func(title string) (bool, error)
	interactive func() bool
	runEditor   func(path string) error
	watch       func(ctx context.Context, store *config.Store, name string, onChange func()) error
}

// New returns a CLI wired to the real xrandr binary, X server and terminal.
func New() *CLI {
	return &CLI{
		out:    os.Stdout,
		errOut: os.Stderr,
		newBackend: func(s *config.Settings) splitter.Backend {
			return xrandr.New(xrandr.WithBinary(s.XrandrBinary), xrandr.WithTimeout(s.CallTimeout))
		},
		listOutputs: x11.OutputsStandalone,
		confirm:     confirmPrompt,
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		runEditor:   runEditor,
		watch:       watchStore,
	}
}

// Execute runs the command line and returns the error of the failed command.
func Execute() error {
	return New().Run(context.Background(), os.Args[1:])
}

// Run executes the command tree with args.
func (c *CLI) Run(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		printError(c.errOut, "%v", err)
	}
	return err
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "xscreensplit",
		Short:         "Split the primary display into virtual monitors",
		Long:          "xscreensplit reads a nested layout profile and defines xrandr virtual monitors that carve the primary display into the declared regions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "configuration directory (default $XDG_CONFIG_HOME/x-screen-split)")

	root.AddCommand(c.splitCommand())
	root.AddCommand(c.restoreCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.monitorsCommand())
	root.AddCommand(c.outputsCommand())
	root.AddCommand(c.configsCommand())
	root.AddCommand(c.mcpCommand())
	return root
}

func (c *CLI) setup(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(c.configDir)
	if err != nil {
		return err
	}
	level := settings.LogLevel
	if c.verbose {
		level = "debug"
	}
	logger := newLogger(c.errOut, level)
	logger.Debug("settings loaded", "file", settings.File, "profiles", settings.ProfileDir)

	c.settings = settings
	c.store = config.NewStore(settings.ProfileDir)
	if err := c.store.EnsureDefault(settings.DefaultProfile); err != nil {
		return err
	}
	cmd.SetContext(withLogger(cmd.Context(), logger))
	return nil
}

func (c *CLI) newSplitter(ctx context.Context) *splitter.Splitter {
	return splitter.New(c.newBackend(c.settings),
		splitter.WithLogger(loggerFromContext(ctx)),
		splitter.WithPrefix(c.settings.Prefix),
	)
}

// profileArg returns the profile named in args, or the configured default.
func (c *CLI) profileArg(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return c.settings.DefaultProfile
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func runEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "nano"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}
