package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/xscreensplit/internal/display"
	"github.com/1broseidon/xscreensplit/internal/layout"
	"github.com/1broseidon/xscreensplit/internal/splitter"
)

func (c *CLI) splitCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "split [profile]",
		Short: "Split the primary display using a layout profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.profileArg(args)
			root, err := c.store.Load(name)
			if err != nil {
				return err
			}
			if err := layout.VerifyTree(root, layout.RootPath); err != nil {
				printError(c.out, "The tree is invalid.")
				printDetail(c.out, "%v", err)
				return errReported
			}

			s := c.newSplitter(cmd.Context())
			if dryRun {
				reqs, err := s.Plan(cmd.Context(), root)
				if err != nil {
					return err
				}
				printTitle(c.out, "Plan for %s", name)
				for _, r := range reqs {
					printMonitorRow(c.out, r.Name, r.Geometry.String(), cloneLabel(r))
				}
				return nil
			}

			report, err := s.Split(cmd.Context(), root)
			if err != nil {
				if errors.Is(err, splitter.ErrAlreadySplit) {
					printWarning(c.out, "Error: if you are in split mode, restore and split again")
				}
				return err
			}
			printTitle(c.out, "Split %s", name)
			printOutcomes(c, report)
			if err := report.Err(); err != nil {
				printError(c.out, "%d of %d virtual monitors failed", len(report.Failed()), len(report.Outcomes))
				return errReported
			}
			printSuccess(c.out, "Primary monitor split into %d virtual monitors.", len(report.Outcomes))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the monitors that would be defined without applying them")
	return cmd
}

func (c *CLI) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Remove all generated virtual monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.newSplitter(cmd.Context()).Restore(cmd.Context())
			if err != nil {
				return err
			}
			printOutcomes(c, report)
			if err := report.Err(); err != nil {
				printError(c.out, "%d of %d virtual monitors could not be removed", len(report.Failed()), len(report.Outcomes))
				return errReported
			}
			printSuccess(c.out, "Primary monitor restored to original state.")
			return nil
		},
	}
}

func (c *CLI) monitorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List active monitors as xrandr reports them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monitors, err := c.newBackend(c.settings).ListMonitors(cmd.Context())
			if err != nil {
				return err
			}
			printMonitors(c, "Active monitors", monitors)
			return nil
		},
	}
}

func (c *CLI) outputsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List connected physical outputs read through RandR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.listOutputs()
			if err != nil {
				return err
			}
			printTitle(c.out, "Physical outputs (%d)", len(snap.Outputs))
			for i, m := range snap.Outputs {
				var tags []string
				if m.Primary {
					tags = append(tags, styleSuccess.Render("primary"))
				}
				if i == snap.Pointer {
					tags = append(tags, styleDim.Render("pointer"))
				}
				printMonitorRow(c.out, m.Name, m.Geometry.String(), strings.Join(tags, " "))
			}
			return nil
		},
	}
}

func printMonitors(c *CLI, title string, monitors []display.Monitor) {
	printTitle(c.out, "%s (%d)", title, len(monitors))
	for _, m := range monitors {
		var tags []string
		if m.Primary {
			tags = append(tags, styleSuccess.Render("primary"))
		}
		if strings.HasPrefix(m.Name, c.settings.Prefix) {
			tags = append(tags, styleWarning.Render("virtual"))
		}
		printMonitorRow(c.out, m.Name, m.Geometry.String(), strings.Join(tags, " "))
	}
}

func printOutcomes(c *CLI, report splitter.Report) {
	for _, o := range report.Outcomes {
		geometry := ""
		extra := ""
		if o.Request != nil {
			geometry = o.Request.Geometry.String()
			extra = cloneLabel(*o.Request)
		}
		if o.Err != nil {
			extra = styleError.Render(fmt.Sprintf("%s %v", iconError, o.Err))
		}
		printMonitorRow(c.out, o.Name, geometry, extra)
	}
}

func cloneLabel(r display.Request) string {
	if r.Clones() {
		return styleDim.Render("clone " + r.CloneSource)
	}
	return styleDim.Render("new output")
}
