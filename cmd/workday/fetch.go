package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilianohg/workday/internal/cache"
	"github.com/emilianohg/workday/internal/db"
	"github.com/emilianohg/workday/internal/github"
	"github.com/emilianohg/workday/internal/models"
	"github.com/emilianohg/workday/internal/repository"
	"github.com/emilianohg/workday/internal/timesheet"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch commits and line stats from GitHub",
	Long: `Fetch every commit of a GitHub repository with its line stats, store
them and refresh the JSON cache file.

The token is read from GITHUB_TOKEN (a .env file in the working directory is
honored). Owner and repo default to github_owner and github_repo from the
config file or GITHUB_OWNER and GITHUB_REPO.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		owner, _ := cmd.Flags().GetString("owner")
		repoName, _ := cmd.Flags().GetString("repo")
		if owner == "" {
			owner = cfg.GitHubOwner
		}
		if repoName == "" {
			repoName = cfg.GitHubRepo
		}
		if owner == "" || repoName == "" {
			fail("missing repository", fmt.Errorf("set --owner and --repo, or github_owner and github_repo in the config"))
		}

		var since time.Time
		if s, _ := cmd.Flags().GetString("since"); s != "" {
			var err error
			if since, err = time.Parse("2006-01-02", s); err != nil {
				fail("invalid --since", err)
			}
		}

		client, err := github.NewClient(github.Options{
			Token:             cfg.GitHubToken,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Workers:           cfg.Workers,
		}, log)
		if err != nil {
			fail("failed to create GitHub client", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		raws, err := client.FetchCommits(ctx, owner, repoName, since)
		if err != nil {
			fail("failed to fetch commits", err)
		}
		fmt.Printf("Total commits fetched: %d\n", len(raws))

		commits, err := timesheet.NormalizeAll(raws)
		if err != nil {
			fail("failed to normalize commits", err)
		}

		database := openStore()
		defer db.Close()

		source := models.GitHubSource(owner, repoName)
		stored, err := saveAndCache(database, source, commits, cfg.CacheFile)
		if err != nil {
			fail("failed to store commits", err)
		}

		fmt.Printf("Repository: %s\n", source)
		fmt.Printf("Imported: %d\n", stored.Inserted)
		fmt.Printf("Updated: %d\n", stored.Updated)
		fmt.Printf("Unchanged: %d (already stored)\n", stored.Unchanged)
		if cfg.CacheFile != "" {
			fmt.Printf("Cache: %s\n", cfg.CacheFile)
		}
	},
}

func init() {
	fetchCmd.Flags().String("owner", "", "Repository owner (default: github_owner)")
	fetchCmd.Flags().String("repo", "", "Repository name (default: github_repo)")
	fetchCmd.Flags().String("since", "", "Only commits after this date (YYYY-MM-DD)")
}

// saveAndCache stores commits under source and rewrites the JSON cache with
// everything stored for that repository, oldest first.
func saveAndCache(database *sql.DB, source string, commits []models.Commit, cacheFile string) (*repository.SaveResult, error) {
	repo, err := repository.NewRepoRepo(database).GetOrCreate(source)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create repo: %w", err)
	}

	commitRepo := repository.NewCommitRepo(database)
	saved, err := commitRepo.SaveAll(repo.ID, commits)
	if err != nil {
		return nil, err
	}

	if cacheFile == "" {
		return saved, nil
	}
	all, err := commitRepo.GetByRepo(repo.ID)
	if err != nil {
		return nil, err
	}
	if err := cache.Save(cacheFile, all); err != nil {
		return nil, err
	}
	log.WithField("path", cacheFile).Debug("Wrote cache")
	return saved, nil
}

// openStore opens the default database and applies pending migrations.
func openStore() *sql.DB {
	database, err := db.OpenAndMigrate()
	if err != nil {
		fail("failed to open database", err)
	}
	return database
}
