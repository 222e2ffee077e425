package cmd

import (
	"github.com/spf13/cobra"

	otperrors "github.com/dbmrq/otp/internal/errors"
	"github.com/dbmrq/otp/internal/logging"
)

// rememberCmd records a project as the most recently used one.
var rememberCmd = &cobra.Command{
	Use:   "remember <project-file>",
	Short: "Record a project as just used",
	Long: `Move a project file to the most recent position in the history.

Editors call this when a project window gains focus. With --pid the
calling editor process is also recorded as holding the project, which
lets the chooser mark it as open and close it with alt+enter.

Examples:
  otp remember ~/src/app/app.sublime-project
  otp remember ~/src/app/app.sublime-project --pid 4242`,
	Args: cobra.ExactArgs(1),
	RunE: runRemember,
}

// releaseCmd forgets which editor holds a project.
var releaseCmd = &cobra.Command{
	Use:   "release <project-file>",
	Short: "Record that a project's editor has closed",
	Long: `Remove a project from the open-editor registry.

Editors call this when a project window closes. Entries for editors that
exit without calling it are dropped automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(releaseCmd)

	rememberCmd.Flags().Int("pid", 0, "Process id of the editor holding the project")
}

// runRemember is the main entry point for the remember command.
func runRemember(cmd *cobra.Command, args []string) error {
	pid, _ := cmd.Flags().GetInt("pid")

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	descriptor, err := absPath(args[0])
	if err != nil {
		return err
	}
	if !e.host.PathExists(descriptor) {
		return otperrors.New(otperrors.ErrNotFound, "project file not found: "+descriptor)
	}

	changed, err := e.store.Touch(descriptor)
	if err != nil {
		return err
	}
	logging.Debug("remembered project", "path", descriptor, "moved", changed)

	if pid > 0 {
		if err := e.host.Registry().Register(descriptor, pid); err != nil {
			return otperrors.Wrap(err, otperrors.ErrHost, "failed to record editor process")
		}
	}
	return nil
}

// runRelease is the main entry point for the release command.
func runRelease(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	descriptor, err := absPath(args[0])
	if err != nil {
		return err
	}
	removed, err := e.host.Registry().Unregister(descriptor)
	if err != nil {
		return otperrors.Wrap(err, otperrors.ErrHost, "failed to update editor registry")
	}
	logging.Debug("released project", "path", descriptor, "removed", removed)
	return nil
}
