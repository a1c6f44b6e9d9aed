package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/userform/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "userform",
		Short: "Server-driven user form backed by the PokeAPI listing",
		Long: `userform serves a validated user form whose select is filled from
the public PokeAPI listing.

The form is rendered on the server. Browsers receive HTML and send
change events back over a WebSocket; without JavaScript the form
posts normally. The same form can be filled in a terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default userform.json or userform.yaml if present)")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		fetchCmd(&configPath),
		fillCmd(&configPath),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
