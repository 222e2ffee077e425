// Package host connects the chooser to real editor processes. Projects are
// opened by running the configured editor command, and an open project is
// one whose editor process is listed in the registry and still alive.
package host

import (
	"github.com/dbmrq/otp/internal/fileutil"
	"github.com/dbmrq/otp/internal/logging"
)

// Commands holds the editor command templates.
type Commands struct {
	// Open switches an existing editor to the project.
	Open string
	// OpenNew opens the project in a new editor instance.
	OpenNew string
	// TrackLaunched records the pid of a launched new instance as the
	// project's editor. Only useful when the command stays in the foreground
	// for as long as the editor runs.
	TrackLaunched bool
}

// Launcher starts argv and returns the new process id.
type Launcher func(args []string) (int, error)

// Host opens, tracks and closes editor processes.
type Host struct {
	commands Commands
	registry *Registry

	launch    Launcher
	terminate func(pid int) error
}

// New returns a Host that launches commands and tracks editors in registry.
func New(commands Commands, registry *Registry) *Host {
	return &Host{
		commands:  commands,
		registry:  registry,
		launch:    launch,
		terminate: terminate,
	}
}

// SetLauncher replaces the function used to start editor commands.
func (h *Host) SetLauncher(l Launcher) {
	h.launch = l
}

// Registry returns the registry the host tracks editors in.
func (h *Host) Registry() *Registry {
	return h.registry
}

// OpenResources returns the project files held by a running editor.
func (h *Host) OpenResources() []string {
	return h.registry.Paths()
}

// CloseResource terminates the editor registered for path. Paths without a
// live editor, or whose pid now belongs to another process, are ignored.
func (h *Host) CloseResource(path string) error {
	pid, ok := h.registry.Lookup(path)
	if !ok {
		logging.Debug("no editor registered", "path", path)
		return nil
	}
	if err := h.terminate(pid); err != nil {
		return err
	}
	logging.Info("editor closed", "path", path, "pid", pid)
	if _, err := h.registry.Unregister(path); err != nil {
		logging.Warn("failed to update registry", "path", path, "error", err)
	}
	return nil
}

// OpenOrFocus runs the editor command for path. With TrackLaunched set, a
// new instance is recorded in the registry under its pid.
func (h *Host) OpenOrFocus(path string, newInstance bool) error {
	template := h.commands.Open
	if newInstance {
		template = h.commands.OpenNew
	}
	args, err := BuildCommand(template, path)
	if err != nil {
		return err
	}

	pid, err := h.launch(args)
	if err != nil {
		return err
	}
	logging.Info("editor launched", "path", path, "pid", pid, "new_instance", newInstance)

	if newInstance && h.commands.TrackLaunched {
		if err := h.registry.Register(path, pid); err != nil {
			logging.Warn("failed to update registry", "path", path, "error", err)
		}
	}
	return nil
}

// PathExists reports whether the project file exists.
func (h *Host) PathExists(path string) bool {
	return fileutil.Exists(path)
}
