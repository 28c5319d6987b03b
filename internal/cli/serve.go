package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/mcpserver"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/server"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/keywords"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := config.Validate(a.cfg); err != nil {
				return err
			}
			return server.New(a.cfg, a.svc, a.log).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extract_keywords tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context(), a.svc, a.version)
		},
	}
}

func newStopwordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stopwords",
		Short: "Print the stop-word list, one word per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, w := range keywords.Stopwords() {
				if _, err := fmt.Fprintln(out, w); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
