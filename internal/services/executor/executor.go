// Package executor wraps external tool invocation so services can be tested
// without the real binaries installed.
package executor

import (
	"context"
	"os"
	"os/exec"
)

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
	ExecuteWithEnv(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
	// ExecuteInDir runs the command with the given working directory.
	ExecuteInDir(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// ExecuteInteractive wires the tool's stdin and stderr to the terminal
	// so it can prompt the user itself, and returns captured stdout only.
	ExecuteInteractive(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// Default is the default command executor using os/exec.
type Default struct{}

// Execute runs a command and returns its combined output.
func (e *Default) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// ExecuteWithEnv runs a command with additional environment variables.
func (e *Default) ExecuteWithEnv(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd.CombinedOutput()
}

// ExecuteInDir runs a command with the given working directory.
func (e *Default) ExecuteInDir(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// ExecuteInteractive runs a command that may prompt on the terminal. Stdout
// is captured for the caller; stdin and stderr stay attached to the process.
func (e *Default) ExecuteInteractive(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	return cmd.Output()
}
