// Package project finds and creates project descriptor files in folders.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	otperrors "github.com/dbmrq/otp/internal/errors"
	"github.com/dbmrq/otp/internal/logging"
)

// Template is written into newly created descriptor files.
const Template = `
{
    "folders": [
        {
            "path": "."
        },
    ],

    "settings": {
    }
}

`

// Mode controls whether Attach creates a missing descriptor.
type Mode string

const (
	// ModeAsk creates the descriptor after the user confirms.
	ModeAsk Mode = "ask"
	// ModeAlways creates the descriptor without asking.
	ModeAlways Mode = "always"
	// ModeNever only uses descriptors that already exist.
	ModeNever Mode = "never"
)

// Detector locates descriptor files by extension.
type Detector struct {
	// Extension is the descriptor suffix including the dot.
	Extension string
}

// NewDetector creates a Detector for descriptors ending in ext.
func NewDetector(ext string) *Detector {
	return &Detector{Extension: ext}
}

// Find returns the descriptor files directly inside folder, sorted.
func (d *Detector) Find(folder string) ([]string, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}

	matches, err := filepath.Glob(filepath.Join(escapeGlob(abs), "*"+escapeGlob(d.Extension)))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// FindOne returns the single descriptor in folder, failing when there is
// none or more than one.
func (d *Detector) FindOne(folder string) (string, error) {
	paths, err := d.Find(folder)
	if err != nil {
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", otperrors.NoDescriptor(folder, d.Extension)
	case 1:
		return paths[0], nil
	default:
		return "", otperrors.MultipleDescriptors(folder, paths)
	}
}

// DescriptorPath returns the path Create would write for folder.
func (d *Detector) DescriptorPath(folder string) (string, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", err
	}
	return filepath.Join(abs, filepath.Base(abs)+d.Extension), nil
}

// Create writes a descriptor named after folder using Template.
func (d *Detector) Create(folder string) (string, error) {
	path, err := d.DescriptorPath(folder)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", otperrors.DescriptorExists(path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", otperrors.DescriptorExists(path)
		}
		return "", err
	}
	if _, err := f.WriteString(Template); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	logging.Info("created project file", "path", path)
	return path, nil
}

// Result describes what Attach did.
type Result struct {
	// Path is the descriptor to use. Empty when nothing should be opened.
	Path string
	// Created is set when Attach wrote a new descriptor.
	Created bool
	// Existing is set when a single descriptor was already present.
	Existing bool
	// Declined is set when the user refused to create one.
	Declined bool
	// Multiple lists the descriptors found when there is more than one.
	// Nothing is opened in that case.
	Multiple []string
}

// Attach resolves the descriptor for folder, creating one when the folder has
// none and mode allows it. confirm is asked with the new file name in ModeAsk.
// The home and root directories never get a descriptor created.
func (d *Detector) Attach(folder string, mode Mode, confirm func(name string) bool) (Result, error) {
	paths, err := d.Find(folder)
	if err != nil {
		return Result{}, err
	}

	switch len(paths) {
	case 1:
		logging.Debug("project file already exists", "path", paths[0])
		return Result{Path: paths[0], Existing: true}, nil
	case 0:
	default:
		logging.Debug("several project files, not attaching", "folder", folder, "count", len(paths))
		return Result{Multiple: paths}, nil
	}

	if mode == ModeNever || IsHomeDirectory(folder) || IsRootDirectory(folder) {
		return Result{}, otperrors.NoDescriptor(folder, d.Extension)
	}

	if mode == ModeAsk {
		target, err := d.DescriptorPath(folder)
		if err != nil {
			return Result{}, err
		}
		if confirm == nil || !confirm(filepath.Base(target)) {
			return Result{Declined: true}, nil
		}
	}

	path, err := d.Create(folder)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, Created: true}, nil
}

// escapeGlob quotes glob metacharacters in a literal path segment. Windows
// patterns have no escape character, so paths are used as they are.
func escapeGlob(s string) string {
	if filepath.Separator == '\\' {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '*' || c == '?' || c == '[' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// IsHomeDirectory returns true if the directory is the user's home directory.
func IsHomeDirectory(dir string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absHome, err := filepath.Abs(home)
	if err != nil {
		return false
	}
	return absDir == absHome
}

// IsRootDirectory returns true if the directory is the root directory.
func IsRootDirectory(dir string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return absDir == "/" || absDir == filepath.VolumeName(absDir)+"\\"
}
