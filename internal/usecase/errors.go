package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
)

// Categories. Every named failure below unwraps to one of them so callers can
// branch on the category alone.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrFunding               = errors.New("funding error")
	ErrAlreadyHandled        = errors.New("already handled")
	ErrReplyProcessing       = errors.New("reply processing error")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NewKindError declares a named failure that belongs to a category.
func NewKindError(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

var (
	ErrInvalidSeason                      = NewKindError(ErrInvalidInput, "invalid season")
	ErrSeasonNotFound                     = NewKindError(ErrNotFound, "season not found")
	ErrItemNotFound                       = NewKindError(ErrNotFound, "item not found")
	ErrTooLateToRequestToJoinLeagueSeason = NewKindError(ErrInvalidInput, "too late to request to join league season")
	ErrSeasonStatusNotSet                 = NewKindError(ErrInvalidInput, "season status not set")
	ErrSeasonStatusCancelled              = NewKindError(ErrInvalidInput, "season status cancelled")
	ErrSeasonStatusPrivate                = NewKindError(ErrInvalidInput, "season status private")
	ErrSeasonTypeNotSet                   = NewKindError(ErrInvalidInput, "season type not set")
	ErrSeasonHasReachedCapacity           = NewKindError(ErrConflict, "season has reached capacity")
	ErrTeamAlreadyMemberOfSeason          = NewKindError(ErrConflict, "team already member of season")
	ErrTeamNotMemberOfSeason              = NewKindError(ErrNotFound, "team not member of season")
	ErrSeasonScheduleConflict             = NewKindError(ErrConflict, "season schedule conflict")
	ErrIncorrectFundingSent               = NewKindError(ErrFunding, "incorrect funding sent")
	ErrWithdrawExceedsTreasury            = NewKindError(ErrFunding, "withdraw exceeds treasury")
	ErrTooLateToCancelSeason              = NewKindError(ErrInvalidInput, "too late to cancel season")
	ErrSeasonDepositAlreadyClaimed        = NewKindError(ErrAlreadyHandled, "season deposit already claimed")
	ErrInvalidTeamSubmissions             = NewKindError(ErrInvalidInput, "invalid team submissions")
	ErrTeamAlreadyMemberOfALeague         = NewKindError(ErrConflict, "team already member of a league")
	ErrAddPlayerErrors                    = NewKindError(ErrConflict, "add player errors")
	ErrAssetAlreadyRegistered             = NewKindError(ErrConflict, "asset already registered")
	ErrInvalidManagedStatus               = NewKindError(ErrInvalidInput, "invalid managed status")
	ErrFeeNotFound                        = NewKindError(ErrNotFound, "fee not found")
	ErrInvalidFee                         = NewKindError(ErrInvalidInput, "invalid fee")
)

// UnauthorizedError names the sender that was refused.
type UnauthorizedError struct {
	Sender string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: sender=%s", e.Sender)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

func Unauthorized(sender string) error {
	return &UnauthorizedError{Sender: sender}
}

// SeasonScheduleConflictError lists the seasons that overlap the requested range.
type SeasonScheduleConflictError struct {
	ConflictingSeasons []uint64
}

func (e *SeasonScheduleConflictError) Error() string {
	ids := make([]string, 0, len(e.ConflictingSeasons))
	for _, id := range e.ConflictingSeasons {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("season schedule conflict: conflicting_seasons=[%s]", strings.Join(ids, ","))
}

func (e *SeasonScheduleConflictError) Unwrap() error { return ErrSeasonScheduleConflict }

type SeasonStatusCancelledError struct {
	CancelledAt *time.Time
}

func (e *SeasonStatusCancelledError) Error() string {
	if e.CancelledAt == nil {
		return "season status cancelled"
	}
	return fmt.Sprintf("season status cancelled: date=%s", e.CancelledAt.UTC().Format(time.RFC3339))
}

func (e *SeasonStatusCancelledError) Unwrap() error { return ErrSeasonStatusCancelled }

type TeamAlreadyMemberOfALeagueError struct {
	Team   string
	League string
}

func (e *TeamAlreadyMemberOfALeagueError) Error() string {
	return fmt.Sprintf("team already member of a league: team=%s league=%s", e.Team, e.League)
}

func (e *TeamAlreadyMemberOfALeagueError) Unwrap() error { return ErrTeamAlreadyMemberOfALeague }

type ItemNotFoundError struct {
	Address string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item not found: address=%s", e.Address)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// AddPlayerError collects every problem found in one add-players batch.
type AddPlayerError struct {
	PlayersAssignedToAnotherTeam []player.Player
	SourceDupeNameCount          int
	UnauthorizedRequest          bool
}

func (e *AddPlayerError) Error() string {
	return fmt.Sprintf("add player errors: assigned_to_another_team=%d source_dupe_name_count=%d unauthorized_request=%t",
		len(e.PlayersAssignedToAnotherTeam), e.SourceDupeNameCount, e.UnauthorizedRequest)
}

func (e *AddPlayerError) Unwrap() error { return ErrAddPlayerErrors }
