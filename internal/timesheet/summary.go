package timesheet

import (
	"fmt"

	"github.com/emilianohg/workday/internal/models"
)

// Options carries everything the calculations need. It replaces reading
// thresholds and identities from the process environment.
type Options struct {
	GapThresholdHours float64
	GapPolicy         GapPolicy
	StartDate         Date // zero means no lower bound
	EndDate           Date
	Authors           AuthorSet

	// AuthorSessionsOnly segments only the selected authors' commits instead
	// of the whole repository history.
	AuthorSessionsOnly bool
}

func (o Options) Validate() error {
	if err := validateThreshold(o.GapThresholdHours); err != nil {
		return err
	}
	if o.EndDate.IsZero() {
		return fmt.Errorf("%w: end date is required", ErrInvalidDate)
	}
	if o.EndDate.Before(o.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidDate, o.EndDate, o.StartDate)
	}
	return nil
}

// Summary holds every figure a report shows.
type Summary struct {
	Sessions      []WorkSession
	HoursInRange  float64
	Longest       WorkSession
	HasLongest    bool
	CommitCount   int
	AuthorCommits []models.Commit

	// Shares are only meaningful when SharesDefined is set; they are
	// undefined for an empty history.
	CommitShare      float64
	LineShare        float64
	SharesDefined    bool
	LineShareDefined bool

	Totals       LineTotals
	AuthorTotals LineTotals
}

// Summarize sorts commits, segments them and computes all metrics.
func Summarize(commits []models.Commit, opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}

	all := SortCommits(commits)
	mine := FilterByAuthors(all, opts.Authors)

	source := all
	if opts.AuthorSessionsOnly {
		source = mine
	}
	sessions, err := SegmentWithPolicy(source, opts.GapThresholdHours, opts.GapPolicy)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Sessions:      sessions,
		HoursInRange:  TotalHoursInRange(sessions, opts.StartDate, opts.EndDate),
		CommitCount:   len(all),
		AuthorCommits: mine,
		Totals:        Totals(all),
		AuthorTotals:  Totals(mine),
	}
	s.Longest, s.HasLongest = LongestSession(sessions)

	if len(all) > 0 {
		// Cannot fail: all is non-empty.
		s.CommitShare, _ = CommitCountShare(mine, all)
		s.SharesDefined = true
		if share, err := LineChangeShare(mine, all); err == nil {
			s.LineShare = share
			s.LineShareDefined = true
		}
	}

	return s, nil
}
