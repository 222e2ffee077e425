package host

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/dbmrq/otp/internal/fileutil"
	"github.com/dbmrq/otp/internal/logging"
)

// Registry records which editor process holds which project file. It is the
// source of the "open" marks in the chooser.
//
// Each entry also stores the process start time when the platform exposes
// it, so a pid reused by an unrelated process is treated as gone.
type Registry struct {
	mu      sync.Mutex
	path    string
	alive   func(pid int) bool
	started func(pid int) string
}

type registryEntry struct {
	PID     int    `json:"pid"`
	Started string `json:"started,omitempty"`
}

type registryFile struct {
	Open map[string]registryEntry `json:"open"`
}

// NewRegistry returns a Registry stored at path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path, alive: processAlive, started: processStart}
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return r.path
}

// Register records pid as the editor holding project.
func (r *Registry) Register(project string, pid int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.load()
	entries[project] = registryEntry{PID: pid, Started: r.started(pid)}
	return r.save(entries)
}

// Unregister forgets project. It reports whether an entry was removed.
func (r *Registry) Unregister(project string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.load()
	if _, ok := entries[project]; !ok {
		return false, nil
	}
	delete(entries, project)
	return true, r.save(entries)
}

// Lookup returns the pid registered for project, if that process is still
// the one that was registered.
func (r *Registry) Lookup(project string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live()[project]
	return e.PID, ok
}

// Paths returns the projects whose editor process is still running, sorted.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.live()
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// live loads the registry and drops entries whose process has exited or
// whose pid now belongs to a different process. The pruned registry is
// written back when anything was dropped.
func (r *Registry) live() map[string]registryEntry {
	entries := r.load()
	pruned := false
	for p, e := range entries {
		if !r.current(e) {
			logging.Debug("dropping stale editor entry", "path", p, "pid", e.PID)
			delete(entries, p)
			pruned = true
		}
	}
	if pruned {
		if err := r.save(entries); err != nil {
			logging.Warn("failed to save pruned registry", "path", r.path, "error", err)
		}
	}
	return entries
}

func (r *Registry) current(e registryEntry) bool {
	if !r.alive(e.PID) {
		return false
	}
	return e.Started == "" || r.started(e.PID) == e.Started
}

func (r *Registry) load() map[string]registryEntry {
	entries := make(map[string]registryEntry)
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("registry unreadable", "path", r.path, "error", err)
		}
		return entries
	}

	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		logging.Warn("registry corrupt, starting empty", "path", r.path, "error", err)
		return entries
	}
	for p, e := range f.Open {
		entries[p] = e
	}
	return entries
}

func (r *Registry) save(entries map[string]registryEntry) error {
	data, err := json.MarshalIndent(registryFile{Open: entries}, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(r.path, data, 0o644)
}
