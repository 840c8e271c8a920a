package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const marker = "# workday hook"

const hookScript = `#!/bin/sh
` + marker + `
# Chain existing hook if present
if [ -x "$0.legacy" ]; then
    "$0.legacy" "$@"
fi
# Record the commit in the background
workday ingest >/dev/null 2>&1 &
`

// Hook names installed by workday. post-merge covers fast-forward pulls.
var Names = []string{"post-commit", "post-merge"}

// HooksDir returns the global git hooks directory
func HooksDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "git", "hooks"), nil
}

// Install sets up global git hooks and points core.hooksPath at them.
func Install(log logrus.FieldLogger) error {
	hooksDir, err := HooksDir()
	if err != nil {
		return err
	}

	currentPath, err := getGitConfig("core.hooksPath")
	if err == nil && currentPath != "" && currentPath != hooksDir {
		log.WithField("path", currentPath).Info("found existing hooks path")
		if err := os.MkdirAll(hooksDir, 0755); err != nil {
			return fmt.Errorf("failed to create hooks directory: %w", err)
		}
		if err := migrateExistingHooks(currentPath, hooksDir, log); err != nil {
			return fmt.Errorf("failed to migrate existing hooks: %w", err)
		}
	}

	if err := InstallInto(hooksDir, log); err != nil {
		return err
	}

	if err := setGitConfig("core.hooksPath", hooksDir); err != nil {
		return fmt.Errorf("failed to set core.hooksPath: %w", err)
	}
	return nil
}

// InstallInto writes the hooks into dir, backing up foreign hooks as .legacy.
func InstallInto(dir string, log logrus.FieldLogger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}
	for _, name := range Names {
		if err := installHook(dir, name, log); err != nil {
			return err
		}
	}
	return nil
}

// Uninstall removes workday hooks and unsets core.hooksPath when nothing is left.
func Uninstall(log logrus.FieldLogger) error {
	hooksDir, err := HooksDir()
	if err != nil {
		return err
	}

	empty, err := UninstallFrom(hooksDir, log)
	if err != nil {
		return err
	}
	if empty {
		os.Remove(hooksDir)
		unsetGitConfig("core.hooksPath")
	}
	return nil
}

// UninstallFrom removes workday hooks from dir, restoring any .legacy
// backups. It reports whether dir is left empty.
func UninstallFrom(dir string, log logrus.FieldLogger) (bool, error) {
	for _, name := range Names {
		hookPath := filepath.Join(dir, name)
		legacyPath := hookPath + ".legacy"

		if !IsInstalled(hookPath) {
			continue
		}
		if err := os.Remove(hookPath); err != nil {
			return false, fmt.Errorf("failed to remove %s hook: %w", name, err)
		}
		if _, err := os.Stat(legacyPath); err == nil {
			if err := os.Rename(legacyPath, hookPath); err != nil {
				return false, fmt.Errorf("failed to restore %s hook: %w", name, err)
			}
			log.WithField("hook", name).Info("restored original hook")
		}
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// IsInstalled reports whether the file at path is a workday hook.
func IsInstalled(path string) bool {
	content, err := os.ReadFile(path)
	return err == nil && strings.Contains(string(content), marker)
}

func installHook(hooksDir, name string, log logrus.FieldLogger) error {
	hookPath := filepath.Join(hooksDir, name)
	legacyPath := hookPath + ".legacy"

	if _, err := os.Stat(hookPath); err == nil && !IsInstalled(hookPath) {
		if err := os.Rename(hookPath, legacyPath); err != nil {
			return fmt.Errorf("failed to backup existing %s hook: %w", name, err)
		}
		log.WithField("hook", name).Info("backed up existing hook to .legacy")
	}

	if err := os.WriteFile(hookPath, []byte(hookScript), 0755); err != nil {
		return fmt.Errorf("failed to write %s hook: %w", name, err)
	}
	return nil
}

func migrateExistingHooks(oldDir, newDir string, log logrus.FieldLogger) error {
	entries, err := os.ReadDir(oldDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".legacy") {
			continue
		}

		oldPath := filepath.Join(oldDir, entry.Name())
		newPath := filepath.Join(newDir, entry.Name()+".legacy")

		content, err := os.ReadFile(oldPath)
		if err != nil {
			continue
		}
		if err := os.WriteFile(newPath, content, 0755); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"hook": entry.Name(), "to": newPath}).Info("migrated hook")
	}

	return nil
}

func getGitConfig(key string) (string, error) {
	output, err := exec.Command("git", "config", "--global", key).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func setGitConfig(key, value string) error {
	return exec.Command("git", "config", "--global", key, value).Run()
}

func unsetGitConfig(key string) error {
	return exec.Command("git", "config", "--global", "--unset", key).Run()
}
