package gitquery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes a git command and returns stdout. If the command fails,
// stderr is folded into the returned error so callers see git's own message.
// The exit code (if any) is preserved via exitError for callers that treat
// specific statuses as valid outcomes.
func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", gitArgs(dir, args)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		code := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			code = ee.ExitCode()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, &exitError{code: code, msg: msg}
	}
	return out, nil
}

// exitError carries a git exit status alongside its stderr output.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return fmt.Sprintf("git: %s (exit %d)", e.msg, e.code)
}

// exitCode extracts the git exit status from an error produced by runGit.
// Returns -1 for non-exit failures (binary missing, context cancelled).
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}
