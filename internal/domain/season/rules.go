package season

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStartInPast        = errors.New("season start is in the past")
	ErrStartNotBeforeEnd  = errors.New("season start must be before end")
	ErrNameRequired       = errors.New("season name is required")
	ErrMaxTeamsNotAllowed = errors.New("season max teams does not match the allowed value")
)

// Validate checks the season shape against the block time.
func (s Season) Validate(now time.Time) error {
	if s.StartDate.Before(now) {
		return fmt.Errorf("%w: start %s, now %s", ErrStartInPast, s.StartDate.UTC(), now.UTC())
	}
	if !s.StartDate.Before(s.EndDate) {
		return ErrStartNotBeforeEnd
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if s.MaxTeamsAllowed != MaxTeamsAllowed {
		return fmt.Errorf("%w: got %d, want %d", ErrMaxTeamsNotAllowed, s.MaxTeamsAllowed, MaxTeamsAllowed)
	}
	return nil
}

// Overlaps is the half-open interval test a.start < b.end && b.start < a.end.
func Overlaps(a, b Season) bool {
	return RangesOverlap(a.StartDate, a.EndDate, b.StartDate, b.EndDate)
}

func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// JoinWindowOpen reports whether a team may still ask to join at now.
func (s Season) JoinWindowOpen(now time.Time) bool {
	return s.StartDate.Sub(now) >= PriorToSeasonStartPadding
}

func (s Season) Started(now time.Time) bool {
	return now.After(s.StartDate)
}

// CanCancel allows cancellation before the start, or after it when fewer than
// two teams ever accepted.
func (s Season) CanCancel(now time.Time, acceptedTeams int) bool {
	return !(s.Started(now) && acceptedTeams >= 2)
}

// Matches applies a block-time filter.
func (s Season) Matches(filter Filter, now time.Time) bool {
	switch filter {
	case FilterUpcoming:
		return s.StartDate.After(now)
	case FilterActive:
		return s.StartDate.Before(now) && s.EndDate.After(now)
	case FilterPast:
		return s.EndDate.Before(now)
	default:
		return true
	}
}
