package host

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	otperrors "github.com/dbmrq/otp/internal/errors"
)

// Placeholders recognised in editor command templates.
const (
	PathPlaceholder = "{path}"
	DirPlaceholder  = "{dir}"
)

// BuildCommand splits template into argv and substitutes the placeholders.
// Substitution happens after splitting so paths containing spaces or quotes
// stay a single argument. A template without placeholders gets the path
// appended as the last argument.
func BuildCommand(template, path string) ([]string, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		return nil, fmt.Errorf("editor command is empty")
	}
	args, err := shellquote.Split(template)
	if err != nil {
		return nil, fmt.Errorf("parse editor command %q: %w", template, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	dir := filepath.Dir(path)
	replaced := false
	for i, arg := range args {
		if strings.Contains(arg, PathPlaceholder) || strings.Contains(arg, DirPlaceholder) {
			replaced = true
			arg = strings.ReplaceAll(arg, PathPlaceholder, path)
			arg = strings.ReplaceAll(arg, DirPlaceholder, dir)
			args[i] = arg
		}
	}
	if !replaced {
		args = append(args, path)
	}
	return args, nil
}

// launch starts args detached from otp and returns the pid of the new process.
func launch(args []string) (int, error) {
	command := shellquote.Join(args...)

	cmd := exec.Command(args[0], args[1:]...)
	configureDetached(cmd)
	if err := cmd.Start(); err != nil {
		return 0, otperrors.EditorLaunchError(command, err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
