package asset

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

// Type is the kind of contract a managed asset is.
type Type uint8

const (
	TypeTeam Type = iota
	TypeLeague
	TypeDisplay
	TypeApplication
)

func (t Type) String() string {
	switch t {
	case TypeTeam:
		return "team"
	case TypeLeague:
		return "league"
	case TypeDisplay:
		return "display"
	case TypeApplication:
		return "application"
	default:
		return fmt.Sprintf("asset_type(%d)", uint8(t))
	}
}

func (t Type) Valid() bool {
	return t <= TypeApplication
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid asset type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func ParseType(s string) (Type, error) {
	switch s {
	case "team":
		return TypeTeam, nil
	case "league":
		return TypeLeague, nil
	case "display":
		return TypeDisplay, nil
	case "application":
		return TypeApplication, nil
	default:
		return 0, fmt.Errorf("unknown asset type %q", s)
	}
}

type ManagedStatus uint8

const (
	StatusPending ManagedStatus = iota
	StatusEnabled
	StatusDisabled
	StatusSuspended
)

func (s ManagedStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusEnabled:
		return "enabled"
	case StatusDisabled:
		return "disabled"
	case StatusSuspended:
		return "suspended"
	default:
		return fmt.Sprintf("managed_status(%d)", uint8(s))
	}
}

func (s ManagedStatus) Valid() bool {
	return s <= StatusSuspended
}

func (s ManagedStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid managed status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *ManagedStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*s = StatusPending
	case "enabled":
		*s = StatusEnabled
	case "disabled":
		*s = StatusDisabled
	case "suspended":
		*s = StatusSuspended
	default:
		return fmt.Errorf("unknown managed status %q", text)
	}
	return nil
}

var ErrOwnershipHistoryCorrupt = errors.New("ownership history must have exactly one open record matching the owner")

// OwnershipRecord is one holding period. ReleasedAt is nil for the current owner.
type OwnershipRecord struct {
	Owner      string     `json:"owner"`
	AcquiredAt time.Time  `json:"acquired_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

// ManagedAsset is the manager's record of a contract it manages.
type ManagedAsset struct {
	Address             string            `json:"address"`
	Name                string            `json:"name"`
	Owner               string            `json:"owner"`
	Type                Type              `json:"type"`
	Status              ManagedStatus     `json:"status"`
	ForSale             uint8             `json:"for_sale"`
	ForSalePrice        *coin.Coin        `json:"for_sale_price,omitempty"`
	ForSalePriceVersion uint64            `json:"for_sale_price_version"`
	ForSaleLastUpdated  *time.Time        `json:"for_sale_last_updated,omitempty"`
	OwnershipHistory    []OwnershipRecord `json:"ownership_history"`
	Created             time.Time         `json:"created"`
	Updated             time.Time         `json:"updated"`
}

func (a ManagedAsset) IsForSale() bool {
	return a.ForSale == 1
}

func (a ManagedAsset) Enabled() bool {
	return a.Status == StatusEnabled
}

// Validate checks the ownership history invariant.
func (a ManagedAsset) Validate() error {
	open := 0
	for _, rec := range a.OwnershipHistory {
		if rec.ReleasedAt != nil {
			continue
		}
		open++
		if rec.Owner != a.Owner {
			return fmt.Errorf("%w: open record owner %s, asset owner %s", ErrOwnershipHistoryCorrupt, rec.Owner, a.Owner)
		}
	}
	if open != 1 {
		return fmt.Errorf("%w: %d open records", ErrOwnershipHistoryCorrupt, open)
	}
	return nil
}

// Transfer closes the current holding period and opens one for newOwner.
func (a *ManagedAsset) Transfer(newOwner string, at time.Time) {
	for i := range a.OwnershipHistory {
		if a.OwnershipHistory[i].ReleasedAt == nil {
			released := at
			a.OwnershipHistory[i].ReleasedAt = &released
		}
	}
	a.OwnershipHistory = append(a.OwnershipHistory, OwnershipRecord{Owner: newOwner, AcquiredAt: at})
	a.Owner = newOwner
	a.Updated = at
}
