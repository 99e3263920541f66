package postgres

import "time"

type contractEventTableModel struct {
	ID         int64     `db:"id"`
	EventID    string    `db:"event_id"`
	ChainID    string    `db:"chain_id"`
	Height     int64     `db:"height"`
	BlockTime  time.Time `db:"block_time"`
	Contract   string    `db:"contract"`
	Sender     string    `db:"sender"`
	Action     string    `db:"action"`
	EventIndex int       `db:"event_index"`
	EventType  string    `db:"event_type"`
	Attributes string    `db:"attributes"`
	CreatedAt  time.Time `db:"created_at"`
}

type contractEventInsertModel struct {
	EventID    string    `db:"event_id"`
	ChainID    string    `db:"chain_id"`
	Height     int64     `db:"height"`
	BlockTime  time.Time `db:"block_time"`
	Contract   string    `db:"contract"`
	Sender     string    `db:"sender"`
	Action     string    `db:"action"`
	EventIndex int       `db:"event_index"`
	EventType  string    `db:"event_type"`
	Attributes string    `db:"attributes"`
}
