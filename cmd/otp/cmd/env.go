package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbmrq/otp/internal/config"
	otperrors "github.com/dbmrq/otp/internal/errors"
	"github.com/dbmrq/otp/internal/history"
	"github.com/dbmrq/otp/internal/host"
	"github.com/dbmrq/otp/internal/labeler"
	"github.com/dbmrq/otp/internal/logging"
	"github.com/dbmrq/otp/internal/project"
)

// hostLauncher overrides how editor commands are started. Nil means the
// commands are run as detached processes.
var hostLauncher host.Launcher

// env holds what a command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	store    *history.Store
	host     *host.Host
	labeler  *labeler.Labeler
	detector *project.Detector

	closeLog bool
}

// setup loads the configuration named by --config, starts logging and builds
// the stores. Callers must Close the result.
func setup(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}

	logConfig, err := cfg.LoggingConfig(verbose)
	if err == nil {
		err = logging.InitGlobal(logConfig)
	}
	if err != nil {
		// Non-fatal: warn but continue, logging warnings to stderr
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
		logging.SetGlobal(logging.NewWithWriter(cmd.ErrOrStderr(), &logging.Config{Level: logging.LevelWarn}))
	} else {
		logging.Info("otp starting", "version", Version, "command", cmd.CommandPath())
	}
	e.closeLog = true

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		e.Close()
		return nil, err
	}
	registryPath, err := cfg.RegistryPath()
	if err != nil {
		e.Close()
		return nil, err
	}

	e.store = history.NewStore(historyPath, cfg.History.MaxEntries)
	e.host = host.New(host.Commands{
		Open:          cfg.Editor.Open,
		OpenNew:       cfg.Editor.OpenNew,
		TrackLaunched: cfg.Editor.TrackLaunched,
	}, host.NewRegistry(registryPath))
	if hostLauncher != nil {
		e.host.SetLauncher(hostLauncher)
	}
	e.labeler = labeler.New(cfg.Descriptor.Extension)
	e.detector = project.NewDetector(cfg.Descriptor.Extension)
	return e, nil
}

// Close flushes the log and resets the global logger.
func (e *env) Close() {
	if e.closeLog {
		_ = logging.CloseGlobal()
		e.closeLog = false
	}
}

// openAndRemember switches the current editor to descriptor and records it
// as the most recently used project.
func (e *env) openAndRemember(descriptor string) error {
	if err := e.host.OpenOrFocus(descriptor, false); err != nil {
		return err
	}
	if _, err := e.store.Touch(descriptor); err != nil {
		return err
	}
	return nil
}

// loadConfig loads the configuration, falling back to defaults when the file
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		path = config.ExpandUser(path)
	}
	cfg, err := config.NewLoader().LoadOrDefault(path)
	if err == nil {
		return cfg, nil
	}

	var le *config.LoadError
	if errors.As(err, &le) {
		var verrs config.ValidationErrors
		if errors.As(le.Err, &verrs) && len(verrs) > 0 {
			return nil, otperrors.ConfigValidationError(verrs[0].Field, verrs.Error(), nil)
		}
		return nil, otperrors.ConfigParseError(le.Path, le.Err)
	}
	return nil, err
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(config.ExpandUser(p))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", p, err)
	}
	return abs, nil
}

// folderArg returns the folder named by args, or the working directory.
func folderArg(args []string) (string, error) {
	if len(args) == 0 {
		return filepath.Abs(".")
	}
	return absPath(args[0])
}
