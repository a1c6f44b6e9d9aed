package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func fetchCmd(configPath *string) *cobra.Command {
	var (
		asJSON  bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the listing and print the select options",
		Long: `Fetch the listing the select is filled from and print it.

With a shared Redis cache configured, the cached copy is used unless
--refresh is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), *configPath, asJSON, refresh)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the shared cache")

	return cmd
}

func runFetch(ctx context.Context, configPath string, asJSON, refresh bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, configPath, nil, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if refresh {
		a.listing.Invalidate()
	}
	records, err := a.listing.Load(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Faint(true)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "NAME", "URL")
	for _, r := range records {
		t.Row(strconv.Itoa(r.ID), r.Name, r.URL)
	}
	_, err = fmt.Fprintln(os.Stdout, t.Render())
	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)
