package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Field separator for --format output. Author names may contain anything
// printable, so a control character is used instead of "|".
const sep = "\x1f"

// GetRepoRoot returns the root directory of the git repository
func GetRepoRoot() (string, error) {
	return runGitCommand("rev-parse", "--show-toplevel")
}

// IsGitRepo checks if the current directory is inside a git repository
func IsGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// GetCurrentCommit returns HEAD with its line stats.
func GetCurrentCommit() (*LogEntry, error) {
	output, err := runGitCommand("log", "-1", "--format="+logFormat, "--numstat", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}

	entries, err := parseLog(output)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no commit at HEAD")
	}
	return &entries[0], nil
}

func runGitCommand(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
