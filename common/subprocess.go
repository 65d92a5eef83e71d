package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// RunCommand runs name with args to completion, merging extraEnv on top of
// the current process environment, and returns stdout. A non-zero exit
// returns the captured stderr alongside the error so callers can attach it
// to a ConversionError.
func RunCommand(ctx context.Context, extraEnv map[string]string, name string, args ...string) (stdout string, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	for k, v := range extraEnv {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout, stderr = outBuf.String(), errBuf.String()
	if runErr != nil {
		return stdout, stderr, fmt.Errorf("command %s failed: %w", name, runErr)
	}
	return stdout, stderr, nil
}
