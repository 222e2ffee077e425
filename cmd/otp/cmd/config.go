package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbmrq/otp/internal/config"
	"github.com/dbmrq/otp/internal/fileutil"
)

// configCmd groups configuration commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the otp configuration",
	Long: `Manage the otp configuration file (~/.otp/config.yaml).

Every setting can also be overridden with an OTP_ environment variable,
for example OTP_EDITOR_OPEN or OTP_HISTORY_MAX_ENTRIES.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
}

func configFilePath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return absPath(path)
	}
	return config.DefaultPath()
}

// runConfigInit is the main entry point for the config init command.
func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}
	if fileutil.Exists(path) && !force {
		cmd.Printf("Configuration already exists: %s\n", path)
		cmd.Println("Use --force to overwrite it.")
		return nil
	}

	data, err := config.NewConfig().YAML()
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return err
	}
	cmd.Printf("Created %s\n", path)
	return nil
}

// runConfigShow is the main entry point for the config show command.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// runConfigPath is the main entry point for the config path command.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}
	cmd.Println(path)
	return nil
}
