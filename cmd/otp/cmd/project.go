package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbmrq/otp/internal/config"
	otperrors "github.com/dbmrq/otp/internal/errors"
	"github.com/dbmrq/otp/internal/project"
	"github.com/dbmrq/otp/internal/tui"
)

// confirmCreate asks before creating a project file. Tests replace it.
var confirmCreate = tui.ConfirmCreateDescriptor

// attachCmd opens a folder as a project, creating the project file if needed.
var attachCmd = &cobra.Command{
	Use:   "attach [folder]",
	Short: "Open a folder as a project, creating the project file if needed",
	Long: `Open the project file of a folder in the current editor window.

When the folder has no project file, descriptor.auto_generate decides:
  ask      ask before creating one (default)
  always   create one without asking
  never    do nothing

The home directory and the filesystem root never get a project file.

Examples:
  otp attach             # Use the current directory
  otp attach ~/src/app
  otp attach --yes       # Create without asking`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttach,
}

// initCmd creates the standard project file for a folder.
var initCmd = &cobra.Command{
	Use:   "init [folder]",
	Short: "Create a project file for a folder",
	Long: `Create <folder-name>.sublime-project in the folder with the standard
template and open it in the current editor window.

Examples:
  otp init               # Use the current directory
  otp init --confirm     # Ask first`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// openCmd opens the project file already present in a folder.
var openCmd = &cobra.Command{
	Use:   "open [folder]",
	Short: "Open the folder's project file instead of the folder",
	Long: `Open the single project file found in the folder in the current
editor window. A folder without one is an error; with more than one,
the candidates are listed and nothing is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(openCmd)

	attachCmd.Flags().BoolP("yes", "y", false, "Create a missing project file without asking")
	initCmd.Flags().Bool("confirm", false, "Ask before creating the project file")
}

// runAttach is the main entry point for the attach command.
func runAttach(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	folder, err := folderArg(args)
	if err != nil {
		return err
	}

	mode := project.Mode(e.cfg.Descriptor.AutoGenerate)
	if yes {
		mode = project.ModeAlways
	}

	res, err := e.detector.Attach(folder, mode, confirmCreate)
	if err != nil {
		return err
	}

	switch {
	case res.Declined:
		return nil
	case len(res.Multiple) > 0:
		printMultiple(cmd, folder, res.Multiple)
		return nil
	case res.Existing:
		cmd.Printf("Project file '%s' already exists.\n", filepath.Base(res.Path))
	case res.Created:
		cmd.Printf("Created project file %s\n", config.ShortenUser(res.Path))
	}
	return e.openAndRemember(res.Path)
}

// runInit is the main entry point for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	confirm, _ := cmd.Flags().GetBool("confirm")

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	folder, err := folderArg(args)
	if err != nil {
		return err
	}

	target, err := e.detector.DescriptorPath(folder)
	if err != nil {
		return err
	}
	if e.host.PathExists(target) {
		cmd.Printf("Project file '%s' already exists.\n", filepath.Base(target))
		return nil
	}
	if confirm && !confirmCreate(filepath.Base(target)) {
		return nil
	}

	path, err := e.detector.Create(folder)
	if err != nil {
		if otperrors.Is(err, otperrors.ErrDescriptor) {
			cmd.Printf("Project file '%s' already exists.\n", filepath.Base(target))
			return nil
		}
		return err
	}
	cmd.Printf("Created project file %s\n", config.ShortenUser(path))
	return e.openAndRemember(path)
}

// runOpen is the main entry point for the open command.
func runOpen(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	folder, err := folderArg(args)
	if err != nil {
		return err
	}
	path, err := e.detector.FindOne(folder)
	if otperrors.Is(err, otperrors.ErrDescriptor) {
		paths, _ := e.detector.Find(folder)
		printMultiple(cmd, folder, paths)
		return nil
	}
	if err != nil {
		return err
	}
	return e.openAndRemember(path)
}

func printMultiple(cmd *cobra.Command, folder string, paths []string) {
	cmd.Printf("More than one project file in %s; nothing opened.\n", config.ShortenUser(folder))
	for _, p := range paths {
		cmd.Printf("  %s\n", filepath.Base(p))
	}
}
