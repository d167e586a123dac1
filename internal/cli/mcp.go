package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/xscreensplit/internal/mcp"
	"github.com/1broseidon/xscreensplit/internal/splitter"
)

func (c *CLI) mcpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. Designed to be invoked by MCP clients.

Example:
  claude mcp add xscreensplit -- xscreensplit mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			server := mcp.NewServer(c.store, c.newBackend(c.settings), []splitter.Option{
				splitter.WithLogger(logger),
				splitter.WithPrefix(c.settings.Prefix),
			}, c.settings.DefaultProfile)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			logger.Info("mcp server listening on stdio", "profiles", c.store.Dir)
			return server.Run(ctx)
		},
	})
	return cmd
}
