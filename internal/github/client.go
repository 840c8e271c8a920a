package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/emilianohg/workday/internal/models"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Token             string
	RequestsPerSecond float64
	Workers           int
	BaseURL           string // API root, mostly for tests
}

// Client lists commits and their line stats from the GitHub REST API. Every
// request waits on a shared rate limiter.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	workers     int
	logger      *logrus.Logger
}

func NewClient(opts Options, logger *logrus.Logger) (*Client, error) {
	client := github.NewClient(nil)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = u
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
		workers:     workers,
		logger:      logger,
	}, nil
}

// FetchCommits pages through the repository's commits (optionally only those
// after since) and then fetches per-commit stats concurrently. The result is
// in the order GitHub listed the commits; callers sort before segmenting.
func (c *Client) FetchCommits(ctx context.Context, owner, repo string, since time.Time) ([]models.RawCommit, error) {
	listed, err := c.listCommits(ctx, owner, repo, since)
	if err != nil {
		return nil, err
	}
	c.logger.WithField("count", len(listed)).Debug("Listed commits, fetching stats")

	raws := make([]models.RawCommit, len(listed))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, rc := range listed {
		i, rc := i, rc
		g.Go(func() error {
			additions, deletions, err := c.fetchStats(ctx, owner, repo, rc.GetSHA())
			if err != nil {
				return err
			}
			raws[i] = toRaw(rc, additions, deletions)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{"repo": owner + "/" + repo, "commits": len(raws)}).Info("Fetched commits")
	return raws, nil
}

func (c *Client) listCommits(ctx context.Context, owner, repo string, since time.Time) ([]*github.RepositoryCommit, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []*github.RepositoryCommit
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		page, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch commits: %w", err)
		}
		all = append(all, page...)
		c.logRateLimit(resp)

		if resp.NextPage == 0 || len(page) == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *Client) fetchStats(ctx context.Context, owner, repo, sha string) (int, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limiter: %w", err)
	}

	detail, _, err := c.client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch commit details for %s: %w", sha, err)
	}

	stats := detail.GetStats()
	return stats.GetAdditions(), stats.GetDeletions(), nil
}

func (c *Client) logRateLimit(resp *github.Response) {
	if resp == nil {
		return
	}
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < resp.Rate.Limit/10 {
		c.logger.WithFields(logrus.Fields{
			"remaining": resp.Rate.Remaining,
			"reset":     resp.Rate.Reset.Time.Format(time.RFC3339),
		}).Warn("GitHub rate limit running low")
	}
}

// toRaw maps the commit author (not the committer) into the raw record. The
// API reports UTC, so the offset is fixed.
func toRaw(rc *github.RepositoryCommit, additions, deletions int) models.RawCommit {
	author := rc.GetCommit().GetAuthor()
	ts := author.GetDate().Time.UTC()
	return models.RawCommit{
		Hash:      rc.GetSHA(),
		Name:      author.GetName(),
		Email:     author.GetEmail(),
		Date:      ts.Format("2006-01-02"),
		Time:      ts.Format("15:04:05"),
		TZ:        "+0000",
		Additions: additions,
		Deletions: deletions,
	}
}
