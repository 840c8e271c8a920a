package timesheet

import (
	"sort"
	"strings"

	"github.com/emilianohg/workday/internal/models"
)

// TotalHoursInRange sums session durations whose date lies in [start, end].
// A zero start leaves the range open at the bottom.
func TotalHoursInRange(sessions []WorkSession, start, end Date) float64 {
	var total float64
	for _, s := range sessions {
		if s.Date.Within(start, end) {
			total += s.DurationHours()
		}
	}
	return total
}

// LongestSession returns the session with the largest duration. Ties go to the
// earliest one. ok is false when sessions is empty.
func LongestSession(sessions []WorkSession) (longest WorkSession, ok bool) {
	for i, s := range sessions {
		if i == 0 || s.DurationHours() > longest.DurationHours() {
			longest = s
		}
	}
	return longest, len(sessions) > 0
}

// CommitCountShare is the percentage of all that filtered represents.
func CommitCountShare(filtered, all []models.Commit) (float64, error) {
	if len(all) == 0 {
		return 0, ErrEmptyDenominator
	}
	return float64(len(filtered)) / float64(len(all)) * 100, nil
}

// LineChangeShare is the percentage of changed lines (additions plus
// deletions) in all that filtered accounts for.
func LineChangeShare(filtered, all []models.Commit) (float64, error) {
	total := Totals(all).TotalChanges
	if len(all) == 0 || total == 0 {
		return 0, ErrEmptyDenominator
	}
	return float64(Totals(filtered).TotalChanges) / float64(total) * 100, nil
}

type LineTotals struct {
	Additions    int
	Deletions    int
	TotalChanges int
}

func Totals(commits []models.Commit) LineTotals {
	var t LineTotals
	for _, c := range commits {
		t.Additions += c.Additions
		t.Deletions += c.Deletions
		t.TotalChanges += c.TotalChanges()
	}
	return t
}

// AuthorSet is a set of author emails, compared case-insensitively.
type AuthorSet map[string]struct{}

func NewAuthorSet(emails ...string) AuthorSet {
	set := make(AuthorSet, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

func (s AuthorSet) Contains(email string) bool {
	_, ok := s[normalizeEmail(email)]
	return ok
}

func (s AuthorSet) Matches(c models.Commit) bool {
	return s.Contains(c.AuthorEmail)
}

// Emails returns the members sorted.
func (s AuthorSet) Emails() []string {
	emails := make([]string, 0, len(s))
	for e := range s {
		emails = append(emails, e)
	}
	sort.Strings(emails)
	return emails
}

// FilterByAuthors keeps the commits whose author is in set, in input order.
func FilterByAuthors(commits []models.Commit, set AuthorSet) []models.Commit {
	filtered := make([]models.Commit, 0)
	for _, c := range commits {
		if set.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Exclude returns the commits of all whose hash is not in subset.
func Exclude(all, subset []models.Commit) []models.Commit {
	skip := make(map[string]struct{}, len(subset))
	for _, c := range subset {
		skip[c.Hash] = struct{}{}
	}
	rest := make([]models.Commit, 0, len(all))
	for _, c := range all {
		if _, ok := skip[c.Hash]; !ok {
			rest = append(rest, c)
		}
	}
	return rest
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
