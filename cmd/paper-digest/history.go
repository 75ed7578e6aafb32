// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs recorded in the archive",
	Long: `History reads the SQLite archive written by "run --archive" and lists
recent runs, newest first. With --papers, the papers shown in each run are
listed under it.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, viper.GetViper(), map[string]string{
			keyArchivePath: "archive",
		})
	},
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("archive", "", "SQLite file recording run history")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("papers", false, "also list the papers shown in each run")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString(keyArchivePath)
	if path == "" {
		return fmt.Errorf("no archive configured: set --archive or %s in the config file", keyArchivePath)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	withPapers, _ := cmd.Flags().GetBool("papers")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return printHistory(cmd.Context(), store, os.Stdout, limit, withPapers, jsonOutput)
}

// historyEntry is the JSON shape of one listed run.
type historyEntry struct {
	archive.Run
	Papers []archive.Paper `json:"papers,omitempty"`
}

func printHistory(ctx context.Context, store *archive.Store, w io.Writer, limit int, withPapers, jsonOutput bool) error {
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, r := range runs {
		e := historyEntry{Run: r}
		if withPapers {
			if e.Papers, err = store.Papers(ctx, r.ID); err != nil {
				return err
			}
		}
		entries = append(entries, e)
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-10s  %-20s  %-7s  %-5s  %-5s  %-9s  %s\n",
		"Date", "Started", "Fetched", "Found", "Shown", "Delivered", "Summary")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, e := range entries {
		delivered := "no"
		if e.Delivered {
			delivered = "yes"
		}
		fmt.Fprintf(w, "%-10s  %-20s  %-7d  %-5d  %-5d  %-9s  %s\n",
			e.TargetDate, e.StartedAt.UTC().Format("2006-01-02 15:04:05"), e.Fetched, e.Total, e.Shown,
			delivered, e.Summary)
		for _, p := range e.Papers {
			title := p.Title
			if len([]rune(title)) > 60 {
				title = string([]rune(title)[:57]) + "..."
			}
			fmt.Fprintf(w, "    #%-2d  %3d  %-60s  %s\n", p.Rank, p.Score, title, p.Link)
		}
	}

	fmt.Fprintf(w, "\n%d run(s)\n", len(entries))
	return nil
}
