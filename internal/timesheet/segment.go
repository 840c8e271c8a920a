package timesheet

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/emilianohg/workday/internal/models"
)

// WorkSession is one inferred workday: a maximal run of commits with no gap
// longer than the threshold. Commits is never empty and is in chronological
// order. Sessions are not modified once Segment returns them.
type WorkSession struct {
	Date    Date
	Commits []models.Commit
}

func (s WorkSession) First() models.Commit { return s.Commits[0] }
func (s WorkSession) Last() models.Commit  { return s.Commits[len(s.Commits)-1] }

// DurationHours is the span from first to last commit. One commit spans zero.
func (s WorkSession) DurationHours() float64 {
	if len(s.Commits) == 0 {
		return 0
	}
	return hoursBetween(s.First().Timestamp, s.Last().Timestamp)
}

// GapPolicy decides whether a gap equal to the threshold starts a new session.
type GapPolicy int

const (
	// GapStrict splits only when gap > threshold.
	GapStrict GapPolicy = iota
	// GapInclusive splits when gap >= threshold.
	GapInclusive
)

func ParseGapPolicy(s string) (GapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return GapStrict, nil
	case "inclusive":
		return GapInclusive, nil
	default:
		return GapStrict, fmt.Errorf("unknown gap policy: %s (expected strict or inclusive)", s)
	}
}

func (p GapPolicy) String() string {
	if p == GapInclusive {
		return "inclusive"
	}
	return "strict"
}

func (p GapPolicy) splits(gap, threshold float64) bool {
	if p == GapInclusive {
		return gap >= threshold
	}
	return gap > threshold
}

// Segment partitions chronologically ordered commits into work sessions using
// the strict policy. Gaps are measured against the last commit of the open
// session regardless of author.
func Segment(commits []models.Commit, gapThresholdHours float64) ([]WorkSession, error) {
	return SegmentWithPolicy(commits, gapThresholdHours, GapStrict)
}

// SegmentWithPolicy is Segment with an explicit boundary policy. Unsorted
// input is rejected rather than mis-segmented.
func SegmentWithPolicy(commits []models.Commit, gapThresholdHours float64, policy GapPolicy) ([]WorkSession, error) {
	if err := validateThreshold(gapThresholdHours); err != nil {
		return nil, err
	}
	if err := CheckOrdered(commits); err != nil {
		return nil, err
	}

	sessions := make([]WorkSession, 0)
	var open []models.Commit
	for _, c := range commits {
		if len(open) > 0 {
			gap := hoursBetween(open[len(open)-1].Timestamp, c.Timestamp)
			if !policy.splits(gap, gapThresholdHours) {
				open = append(open, c)
				continue
			}
			sessions = append(sessions, newSession(open))
		}
		open = []models.Commit{c}
	}
	if len(open) > 0 {
		sessions = append(sessions, newSession(open))
	}

	return sessions, nil
}

func newSession(commits []models.Commit) WorkSession {
	return WorkSession{
		Date:    DateOf(commits[0].Timestamp),
		Commits: commits,
	}
}

func validateThreshold(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, hours)
	}
	return nil
}

func hoursBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}
