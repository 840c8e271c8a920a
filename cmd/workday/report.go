package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilianohg/workday/internal/cache"
	"github.com/emilianohg/workday/internal/config"
	"github.com/emilianohg/workday/internal/db"
	"github.com/emilianohg/workday/internal/git"
	"github.com/emilianohg/workday/internal/models"
	"github.com/emilianohg/workday/internal/report"
	"github.com/emilianohg/workday/internal/repository"
	"github.com/emilianohg/workday/internal/timesheet"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print hours worked and contribution share",
	Long: `Print the report for one repository's stored commits.

Without --repo the configured GitHub repository is used, then the git
repository in the current directory. Sessions are always inferred from the
whole history; the date range only limits which sessions count as hours.

Examples:
  workday report --from 2024-01-01 --to 2024-01-31 --author me@example.com
  workday report --repo github:acme/api --gap 8 --sessions
  workday report --json-cache ~/.workday/commits.json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		applyReportFlags(cmd, cfg)

		opts, err := cfg.Options(time.Now())
		if err != nil {
			fail("invalid report options", err)
		}

		source, commits := reportCommits(cmd, cfg)

		summary, err := timesheet.Summarize(commits, opts)
		if err != nil {
			fail("failed to summarize commits", err)
		}

		showSessions, _ := cmd.Flags().GetBool("sessions")
		err = report.Render(os.Stdout, summary, report.Options{
			Source:       source,
			Authors:      opts.Authors.Emails(),
			Start:        opts.StartDate,
			End:          opts.EndDate,
			ShowSessions: showSessions,
		})
		if err != nil {
			fail("failed to write report", err)
		}
	},
}

func init() {
	addReportFlags(reportCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo", "", "Stored repository (github:owner/name or local path)")
	cmd.Flags().String("from", "", "Start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date, inclusive (YYYY-MM-DD, default today)")
	cmd.Flags().StringSlice("author", nil, "Author email to report on (repeatable)")
	cmd.Flags().Float64("gap", 0, "Hours of inactivity that end a work session")
	cmd.Flags().String("policy", "", "Gap policy: strict or inclusive")
	cmd.Flags().Bool("author-sessions", false, "Infer sessions from the selected authors' commits only")
	cmd.Flags().Bool("sessions", false, "List every work session")
	cmd.Flags().String("json-cache", "", "Read commits from this JSON cache instead of the database")
}

// applyReportFlags overlays explicitly set flags on the loaded config.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("from") {
		cfg.StartDate, _ = flags.GetString("from")
	}
	if flags.Changed("to") {
		cfg.EndDate, _ = flags.GetString("to")
	}
	if flags.Changed("author") {
		cfg.Authors, _ = flags.GetStringSlice("author")
	}
	if flags.Changed("gap") {
		cfg.GapThresholdHours, _ = flags.GetFloat64("gap")
	}
	if flags.Changed("policy") {
		cfg.GapPolicy, _ = flags.GetString("policy")
	}
	if flags.Changed("author-sessions") {
		cfg.AuthorSessionsOnly, _ = flags.GetBool("author-sessions")
	}
}

func reportCommits(cmd *cobra.Command, cfg *config.Config) (string, []models.Commit) {
	if path, _ := cmd.Flags().GetString("json-cache"); path != "" {
		commits, err := cache.Load(path)
		if err != nil {
			fail("failed to read cache", err)
		}
		return path, commits
	}

	source, _ := cmd.Flags().GetString("repo")
	if source == "" {
		source = defaultSource(cfg)
	}
	if source == "" {
		fail("no repository selected", fmt.Errorf("use --repo, configure github_owner/github_repo, or run inside a git repository"))
	}

	database := openStore()
	defer db.Close()

	commits, err := storedCommits(database, source)
	if err != nil {
		fail("failed to load commits", err)
	}
	return source, commits
}

func defaultSource(cfg *config.Config) string {
	if cfg.GitHubOwner != "" && cfg.GitHubRepo != "" {
		return models.GitHubSource(cfg.GitHubOwner, cfg.GitHubRepo)
	}
	if git.IsGitRepo() {
		if root, err := git.GetRepoRoot(); err == nil {
			return root
		}
	}
	return ""
}

func storedCommits(database *sql.DB, source string) ([]models.Commit, error) {
	repo, err := repository.NewRepoRepo(database).GetBySource(source)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, fmt.Errorf("no commits stored for %s; run 'workday fetch' or 'workday import' first", source)
	}
	return repository.NewCommitRepo(database).GetByRepo(repo.ID)
}
