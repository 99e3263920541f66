package eventlog

import "time"

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entry is one event of a committed transaction. Contract is the contract
// that emitted the event, which may differ from the transaction target when
// the event came from a sub-message.
type Entry struct {
	EventID    string      `json:"event_id"`
	ChainID    string      `json:"chain_id"`
	Height     uint64      `json:"height"`
	BlockTime  time.Time   `json:"block_time"`
	Contract   string      `json:"contract"`
	Sender     string      `json:"sender"`
	Action     string      `json:"action"`
	Index      int         `json:"event_index"`
	Type       string      `json:"event_type"`
	Attributes []Attribute `json:"attributes"`
}

// Attr returns the first value stored under key.
func (e Entry) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
