package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/xscreensplit/internal/config"
	"github.com/1broseidon/xscreensplit/internal/layout"
)

func (c *CLI) configsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Manage layout profiles",
	}
	cmd.AddCommand(c.configsListCommand())
	cmd.AddCommand(c.configsNewCommand())
	cmd.AddCommand(c.configsPrintCommand())
	cmd.AddCommand(c.configsEditCommand())
	cmd.AddCommand(c.configsDeleteCommand())
	cmd.AddCommand(c.configsVerifyCommand())
	return cmd
}

func (c *CLI) configsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.store.List()
			if err != nil {
				return err
			}
			printTitle(c.out, "Profiles in %s", c.store.Dir)
			for _, name := range names {
				fmt.Fprintln(c.out, "  "+name)
			}
			return nil
		},
	}
}

func (c *CLI) configsNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <profile>",
		Short: "Create a profile from the example layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := c.store.Exists(args[0])
			if err != nil {
				return err
			}
			if exists {
				printWarning(c.out, "Config file %s.yaml already exists.", args[0])
				return nil
			}
			if err := c.store.Create(args[0]); err != nil {
				return err
			}
			printSuccess(c.out, "Config file %s.yaml created.", args[0])
			return nil
		},
	}
}

func (c *CLI) configsPrintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print [profile]",
		Short: "Print a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.profileArg(args)
			data, err := c.store.Read(name)
			if err != nil {
				return err
			}
			printTitle(c.out, "Contents of %s.yaml:", name)
			fmt.Fprint(c.out, string(data))
			return nil
		},
	}
}

func (c *CLI) configsEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [profile]",
		Short: "Open a profile in $EDITOR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.profileArg(args)
			exists, err := c.store.Exists(name)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w: %s.yaml not found in %s", config.ErrProfileNotFound, name, c.store.Dir)
			}
			path, err := c.store.Path(name)
			if err != nil {
				return err
			}
			return c.runEditor(path)
		},
	}
}

func (c *CLI) configsDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [profile]",
		Short: "Delete a profile after confirmation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.profileArg(args)
			data, err := c.store.Read(name)
			if err != nil {
				return err
			}
			printWarning(c.out, "Contents of %s.yaml:", name)
			fmt.Fprint(c.out, string(data))

			if !yes {
				if !c.interactive() {
					return fmt.Errorf("refusing to delete %s without confirmation; pass --yes", name)
				}
				ok, err := c.confirm("Are you sure you want to delete this file?")
				if err != nil {
					return err
				}
				if !ok {
					printDetail(c.out, "Kept %s.yaml", name)
					return nil
				}
			}
			if err := c.store.Delete(name); err != nil {
				return err
			}
			printSuccess(c.out, "Config file %s.yaml deleted.", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func (c *CLI) configsVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [profile]",
		Short: "Check that every level of a profile sums to 100",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.store.Load(c.profileArg(args))
			if err != nil {
				return err
			}
			ok, diag := layout.Verify(root)
			if !ok {
				printError(c.out, "The tree is invalid.")
				printDetail(c.out, "%s", diag)
				return errReported
			}
			printSuccess(c.out, "The tree is valid.")
			return nil
		},
	}
}
