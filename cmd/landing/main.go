// Command landing serves the landing page and manages its stored content.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "landing",
		Short: "A landing page with an embedded content editor",
		Long: `landing serves a single marketing page whose sections are edited from
an admin panel at /admin/ or /?admin=1.

Configuration comes from LANDING_* environment variables, optionally
loaded from a .env file in the working directory.`,
		SilenceUsage: true,
	}
	root.AddCommand(serveCommand(), contentCommand(), versionCommand())
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the landing version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "landing %s\n", version)
		},
	}
}
