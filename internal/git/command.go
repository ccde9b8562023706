// Package git provides git and GitHub operations for syncer.
// This file provides shared command execution utilities.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	syncererrors "github.com/dev-users/syncer/internal/errors"
)

// CommandExecutor executes shell commands. A mock implementation is used
// for testing; the default executor shells out.
type CommandExecutor interface {
	// Execute runs a command in workDir and returns its combined output.
	Execute(ctx context.Context, workDir, name string, args ...string) ([]byte, error)
}

// defaultCommandExecutor runs commands via os/exec. Extra environment
// variables (such as GH_TOKEN) are appended to the inherited environment.
type defaultCommandExecutor struct {
	extraEnv []string
}

// Execute implements CommandExecutor.
func (e *defaultCommandExecutor) Execute(ctx context.Context, workDir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir
	if len(e.extraEnv) > 0 {
		cmd.Env = append(os.Environ(), e.extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s %s failed: %s: %w",
				name, firstArg(args), strings.TrimSpace(stderr.String()), syncererrors.ErrCommandFailed)
		}
		return nil, fmt.Errorf("%s %s failed: %w", name, firstArg(args), syncererrors.ErrCommandFailed)
	}

	return stdout.Bytes(), nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
