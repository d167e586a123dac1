package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/xscreensplit/internal/config"
	"github.com/1broseidon/xscreensplit/internal/layout"
	"github.com/1broseidon/xscreensplit/internal/splitter"
)

func watchStore(ctx context.Context, store *config.Store, name string, onChange func()) error {
	return store.Watch(ctx, name, config.DefaultWatchDebounce, onChange)
}

func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [profile]",
		Short: "Split now and split again whenever the profile changes",
		Long: `Apply the profile, then watch its file and re-apply it after every save.
An invalid edit is reported and the current split is left in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.profileArg(args)
			path, err := c.store.Path(name)
			if err != nil {
				return err
			}
			if _, err := c.store.Read(name); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := c.newSplitter(ctx)
			c.reapply(ctx, s, name)
			printDetail(c.out, "Watching %s (Ctrl+C to stop)", path)
			return c.watch(ctx, c.store, name, func() {
				c.reapply(ctx, s, name)
			})
		},
	}
}

// reapply restores the display and splits it with the named profile. Failures
// are printed and never end the watch.
func (c *CLI) reapply(ctx context.Context, s *splitter.Splitter, name string) {
	logger := loggerFromContext(ctx)

	root, err := c.store.Load(name)
	if err != nil {
		printError(c.out, "%v", err)
		return
	}
	if err := layout.VerifyTree(root, layout.RootPath); err != nil {
		printError(c.out, "The tree is invalid.")
		printDetail(c.out, "%v", err)
		return
	}

	restored, err := s.Restore(ctx)
	if err != nil {
		printError(c.out, "%v", err)
		return
	}
	if err := restored.Err(); err != nil {
		logger.Warn("restore incomplete", "err", err)
	}

	report, err := s.Split(ctx, root)
	if err != nil {
		printError(c.out, "%v", err)
		return
	}
	if err := report.Err(); err != nil {
		printError(c.out, "%d of %d virtual monitors failed", len(report.Failed()), len(report.Outcomes))
		return
	}
	printSuccess(c.out, "Primary monitor split into %d virtual monitors.", len(report.Outcomes))
}
