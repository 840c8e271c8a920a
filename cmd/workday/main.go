package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emilianohg/workday/internal/config"
	"github.com/emilianohg/workday/internal/db"
	"github.com/emilianohg/workday/internal/git"
	"github.com/emilianohg/workday/internal/git/hooks"
	"github.com/emilianohg/workday/internal/logging"
	"github.com/emilianohg/workday/internal/tui"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "workday",
	Short: "Infer hours worked from commit history",
	Long: `Workday groups commits into work sessions separated by long gaps of
inactivity and reports hours worked, commit share and line-change share.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log = logging.New(os.Stderr, verbose)
		if logPath, err := config.ErrorLogPath(); err == nil {
			log.AddHook(logging.NewFileHook(logPath))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database, err := db.Open()
		if err != nil {
			fail("failed to open database", err)
		}
		defer db.Close()

		// Run initial migration if this is a fresh database
		status, _ := db.GetMigrationStatus()
		if status != nil && status.Pending {
			if err := db.RunMigrations(); err != nil {
				fail("failed to run migrations", err)
			}
		}

		configPath, _ := config.ConfigPath()
		if err := tui.Run(database, cfg, configPath); err != nil {
			fail("tui exited with error", err)
		}
	},
}

var ingestCmd = &cobra.Command{
	Use:    "ingest",
	Short:  "Record the current commit to the database (called by git hooks)",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			// Hooks run inside other git commands; errors still reach errors.log.
			log.SetOutput(io.Discard)
		}

		cfg := loadConfig()
		database := openStore()
		defer db.Close()

		result, err := git.Ingest(database, cfg)
		if err != nil {
			fail("failed to ingest commit", err)
		}

		if result.Skipped {
			log.WithField("reason", result.SkipReason).Debug("Skipped")
			return
		}
		log.WithFields(logrus.Fields{"commit": shortHash(result.CommitHash), "repo": result.RepoPath}).Info("Recorded commit")
	},
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage git hooks",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install global git hooks for commit tracking",
	Run: func(cmd *cobra.Command, args []string) {
		if err := hooks.Install(log); err != nil {
			fail("failed to install hooks", err)
		}
		fmt.Println("Global git hooks installed successfully!")
		fmt.Println("All commits in your configured scan_paths will now be tracked.")
	},
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove workday git hooks",
	Run: func(cmd *cobra.Command, args []string) {
		if err := hooks.Uninstall(log); err != nil {
			fail("failed to uninstall hooks", err)
		}
		fmt.Println("Workday git hooks removed.")
	},
}

var importCmd = &cobra.Command{
	Use:   "import [count|date]",
	Short: "Import commits from the current git repository",
	Long: `Import historical commits from the current git repository.

Examples:
  workday import 10          # Last 10 commits
  workday import 2025-01-15  # Commits since date
  workday import             # All commits
  workday import -b main     # Only commits reachable from main`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := git.ImportOptions{}

		if len(args) > 0 {
			var err error
			if opts.Count, opts.Since, err = parseImportArg(args[0]); err != nil {
				fail("invalid argument", err)
			}
		}
		opts.Branch, _ = cmd.Flags().GetString("branch")

		database := openStore()
		defer db.Close()

		fmt.Println("Importing commits...")

		result, err := git.Import(database, opts)
		if err != nil {
			fail("failed to import commits", err)
		}

		fmt.Printf("Repository: %s\n", result.RepoPath)
		fmt.Printf("Found: %d commits\n", result.TotalFound)
		fmt.Printf("Imported: %d\n", result.Inserted)
		fmt.Printf("Updated: %d\n", result.Updated)
		fmt.Printf("Unchanged: %d (already stored)\n", result.Unchanged)

		fmt.Println("\nDone! Use 'workday report' or 'workday' to see your hours.")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksUninstallCmd)

	importCmd.Flags().StringP("branch", "b", "", "Specific branch (default: all branches)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseImportArg reads the import argument as a commit count or a start date.
func parseImportArg(arg string) (int, time.Time, error) {
	if count, err := strconv.Atoi(arg); err == nil {
		if count <= 0 {
			return 0, time.Time{}, fmt.Errorf("count must be positive, got %d", count)
		}
		return count, time.Time{}, nil
	}
	if date, err := time.Parse("2006-01-02", arg); err == nil {
		return 0, date, nil
	}
	return 0, time.Time{}, fmt.Errorf("%q is not a number or YYYY-MM-DD date", arg)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config", err)
	}
	return cfg
}

func fail(msg string, err error) {
	log.WithError(err).Error(msg)
	os.Exit(1)
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
