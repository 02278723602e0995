package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Runner defines an interface for running git commands
type Runner interface {
	Run(name string, args ...string) (string, error)
}

var _ Runner = (*DefaultRunner)(nil)

// DefaultRunner implements the Runner interface using exec.Command
type DefaultRunner struct {
	Dir string
}

// NewDefaultRunner creates a runner executing in dir
func NewDefaultRunner(dir string) *DefaultRunner {
	return &DefaultRunner{Dir: dir}
}

// Run executes a command and returns its trimmed output
func (r *DefaultRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running command: %s\nstderr: %s", err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client answers questions about the repository around the working directory
type Client struct {
	runner Runner
}

func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// TopLevel returns the root of the work tree
func (c *Client) TopLevel() (string, error) {
	root, err := c.runner.Run("git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git work tree: %w", err)
	}
	if root == "" {
		return "", fmt.Errorf("git returned an empty work tree root")
	}
	return root, nil
}

// WorkspaceDir returns the work tree root containing dir, or dir itself outside of a repository
func WorkspaceDir(runner Runner, dir string) string {
	root, err := NewClient(runner).TopLevel()
	if err != nil {
		return dir
	}
	return root
}
