package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dbmrq/otp/internal/config"
	"github.com/dbmrq/otp/internal/history"
	"github.com/dbmrq/otp/internal/labeler"
)

// historyCmd lists and maintains the remembered projects.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List remembered projects",
	Long: `List remembered projects, most recent first, with the labels the
chooser shows. Projects held by a running editor are marked with *.

Examples:
  otp history
  otp history --format json
  otp history forget ~/src/old/old.sublime-project
  otp history prune`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyForgetCmd = &cobra.Command{
	Use:   "forget <project-file>",
	Short: "Remove a project from the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryForget,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove projects whose file no longer exists",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyForgetCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
}

// historyEntry is one row of `otp history` output.
type historyEntry struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
	Open  bool   `json:"open" yaml:"open"`
}

// runHistory is the main entry point for the history command.
func runHistory(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q: use text, json or yaml", format)
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	paths, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	paths = history.Unique(paths)
	recentFirst := make([]string, len(paths))
	for i, p := range paths {
		recentFirst[len(paths)-1-i] = p
	}

	open := make(map[string]bool)
	for _, p := range e.host.OpenResources() {
		open[p] = true
	}

	entries := []historyEntry{}
	if len(recentFirst) > 0 {
		items, err := e.labeler.Label(recentFirst, open)
		if err != nil {
			return err
		}
		for _, it := range items {
			entries = append(entries, historyEntry{Label: it.Label, Path: it.Path, Open: it.Kind == labeler.KindOpen})
		}
	}

	return writeHistory(cmd.OutOrStdout(), format, entries)
}

func writeHistory(w io.Writer, format string, entries []historyEntry) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, labeler.EmptyLabel)
		return err
	}
	width := 0
	for _, en := range entries {
		if len(en.Label) > width {
			width = len(en.Label)
		}
	}
	for _, en := range entries {
		mark := " "
		if en.Open {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %-*s  %s\n", mark, width, en.Label, config.ShortenUser(en.Path)); err != nil {
			return err
		}
	}
	return nil
}

// runHistoryForget is the main entry point for the history forget command.
func runHistoryForget(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	path, err := absPath(args[0])
	if err != nil {
		return err
	}
	removed, err := e.store.Forget(path)
	if err != nil {
		return err
	}
	if !removed {
		cmd.Printf("Not in history: %s\n", path)
		return nil
	}
	cmd.Printf("Forgot %s\n", path)
	return nil
}

// runHistoryPrune is the main entry point for the history prune command.
func runHistoryPrune(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	removed, err := e.store.Prune(e.host.PathExists)
	if err != nil {
		return err
	}
	for _, p := range removed {
		cmd.Printf("Removed %s\n", p)
	}
	cmd.Printf("%d stale entries removed.\n", len(removed))
	return nil
}
