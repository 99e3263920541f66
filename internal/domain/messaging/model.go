package messaging

import (
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
)

type Status string

const (
	StatusAccepted     Status = "accepted"
	StatusCancelSeason Status = "cancel_season"
)

// Packet addresses one side of a message.
type Packet struct {
	AssetType asset.Type `json:"asset_type"`
	Address   string     `json:"address"`
}

type Delivery struct {
	From Packet `json:"from"`
	To   Packet `json:"to"`
}

type Data struct {
	SeasonID uint64 `json:"season_id"`
	Status   Status `json:"status"`
}

// JoinRequest is a team's enrollment in a league season. Status is the only
// field that changes after it is written.
type JoinRequest struct {
	ID       uint64    `json:"id"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Delivery Delivery  `json:"delivery"`
	Data     Data      `json:"data"`
}

func (r JoinRequest) Accepted() bool {
	return r.Data.Status == StatusAccepted
}

// TeamAddress returns the team side of the request.
func (r JoinRequest) TeamAddress() string {
	if r.Delivery.From.AssetType == asset.TypeTeam {
		return r.Delivery.From.Address
	}
	return r.Delivery.To.Address
}
