package errors

import (
	"fmt"
	"strings"
)

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *OTPError {
	return &OTPError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check the file for YAML syntax errors, or regenerate it:
  otp config init --force`,
	}
}

// ConfigValidationError creates an error for an invalid configuration value.
func ConfigValidationError(field, message string, validOptions []string) *OTPError {
	suggestion := fmt.Sprintf("Fix the %q field in your otp config.yaml", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}
	return &OTPError{
		Kind:       ErrConfig,
		Message:    fmt.Sprintf("invalid configuration: %s", message),
		Details:    map[string]string{"field": field},
		Suggestion: suggestion,
	}
}

// HistoryWriteError creates an error for a failed history file write.
func HistoryWriteError(path string, cause error) *OTPError {
	return &OTPError{
		Kind:       ErrHistory,
		Message:    "failed to save project history",
		Cause:      cause,
		Details:    map[string]string{"path": path},
		Suggestion: "Check that the directory is writable, or point history.file somewhere else.",
	}
}

// DuplicatePath creates an error for a path that appears twice in a list
// that must hold unique paths.
func DuplicatePath(path string) *OTPError {
	return &OTPError{
		Kind:    ErrDuplicate,
		Message: fmt.Sprintf("path listed more than once: %s", path),
		Details: map[string]string{"path": path},
		Suggestion: `History entries must be unique. Remove the duplicate with:
  otp history forget ` + path,
	}
}

// DescriptorExists creates an error when a project file is already present.
func DescriptorExists(path string) *OTPError {
	return &OTPError{
		Kind:    ErrDescriptor,
		Message: fmt.Sprintf("project file already exists: %s", path),
		Details: map[string]string{"path": path},
	}
}

// NoDescriptor creates an error when a folder has no project file.
func NoDescriptor(folder, ext string) *OTPError {
	return &OTPError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("no project file in %s", folder),
		Details: map[string]string{"folder": folder, "pattern": "*" + ext},
		Suggestion: `Create one with:
  otp init ` + folder,
	}
}

// MultipleDescriptors creates an error when a folder has several project files.
func MultipleDescriptors(folder string, paths []string) *OTPError {
	return &OTPError{
		Kind:       ErrDescriptor,
		Message:    fmt.Sprintf("more than one project file in %s", folder),
		Details:    map[string]string{"folder": folder, "candidates": strings.Join(paths, ", ")},
		Suggestion: "Open the one you want directly with: otp --path <file>",
	}
}

// EditorLaunchError creates an error for a failed editor start.
func EditorLaunchError(command string, cause error) *OTPError {
	return &OTPError{
		Kind:    ErrHost,
		Message: "failed to launch editor",
		Cause:   cause,
		Details: map[string]string{"command": command},
		Suggestion: `Set the editor commands in your config, for example:
  editor:
    open: "subl --project {path}"
    open_new: "subl -n --project {path}"`,
	}
}
