package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/userform/internal/userform"
)

func fillCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the user form in the terminal",
		Long: `Ask every form field in the terminal, validate with the same
rules as the web form and print the submitted values as JSON.

Press Ctrl+C to abort.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd.Context(), *configPath)
		},
	}
	return cmd
}

func runFill(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Keep log lines from interleaving with the prompts.
	a, err := newApp(ctx, configPath, io.Discard, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	driver := userform.NewSurveyDriver(os.Stdin, os.Stdout, os.Stderr)
	values, err := userform.Fill(ctx, driver, a.listing, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
