// Package cmd provides the CLI commands for otp.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbmrq/otp/internal/chooser"
	otperrors "github.com/dbmrq/otp/internal/errors"
	"github.com/dbmrq/otp/internal/logging"
	"github.com/dbmrq/otp/internal/tui"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// runChooser runs the chooser. Tests replace it to avoid starting a TUI.
var runChooser = tui.RunChooser

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "otp",
	Short: "Open recently used projects",
	Long: `otp remembers the project files you work on and reopens them.

Called without a subcommand it lists the remembered projects, most recent
first, and waits for a choice:
  enter       open in a new editor window (or switch, see chooser.new_window)
  tab         open using the other mode
  alt+enter   close the project's editor and keep choosing
  esc         cancel

Examples:
  otp                                   # Choose from history
  otp --path ~/src/app/app.sublime-project
  otp --selected-index 0 --new-window=false`,
	Args:          cobra.NoArgs,
	RunE:          runRoot,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.otp/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	addChooserFlags(rootCmd)
}

func addChooserFlags(c *cobra.Command) {
	c.Flags().String("path", "", "Open this project file directly")
	c.Flags().StringArray("assume-closed", nil, "Treat this project as closed (repeatable)")
	c.Flags().Int("selected-index", -1, "Row highlighted initially (default: chooser.selected_index)")
	c.Flags().Bool("new-window", true, "Default open mode (default: chooser.new_window)")
}

// runRoot is called when otp is invoked with no subcommand.
func runRoot(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	req, err := chooserRequest(cmd, e)
	if err != nil {
		return err
	}

	result, err := runChooser(e.host, e.store, e.labeler, req)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}
	logging.Debug("chooser finished", "outcome", result.Outcome.String())
	return nil
}

// chooserRequest builds the session request from flags and config.
func chooserRequest(cmd *cobra.Command, e *env) (chooser.Request, error) {
	path, _ := cmd.Flags().GetString("path")
	assumeClosed, _ := cmd.Flags().GetStringArray("assume-closed")
	selected, _ := cmd.Flags().GetInt("selected-index")

	req := chooser.Request{
		SelectedIndex: e.cfg.Chooser.SelectedIndex,
		NewInstance:   e.cfg.Chooser.NewWindow,
	}
	if selected >= 0 {
		req.SelectedIndex = selected
	}
	if cmd.Flags().Changed("new-window") {
		req.NewInstance, _ = cmd.Flags().GetBool("new-window")
	}

	if path != "" {
		abs, err := absPath(path)
		if err != nil {
			return req, err
		}
		req.ChosenPath = abs
	}
	for _, p := range assumeClosed {
		abs, err := absPath(p)
		if err != nil {
			return req, err
		}
		req.AssumeClosed = append(req.AssumeClosed, abs)
	}
	return req, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("otp {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, otperrors.FormatError(err))
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
