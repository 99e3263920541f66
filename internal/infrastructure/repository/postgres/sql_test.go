package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation contract_events does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation contract_events does not exist")
		if isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestRetryStaleStatement(t *testing.T) {
	t.Run("retries once on stale statement", func(t *testing.T) {
		calls := 0
		err := retryStaleStatement(context.Background(), func(context.Context) error {
			calls++
			if calls == 1 {
				return fakeErr("pq: unnamed prepared statement does not exist (26000)")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if calls != 2 {
			t.Fatalf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		err := retryStaleStatement(context.Background(), func(context.Context) error {
			calls++
			return fakeErr("pq: relation contract_events does not exist")
		})
		if err == nil || calls != 1 {
			t.Fatalf("expected one failing call, got calls=%d err=%v", calls, err)
		}
	})
}

func TestBuildInsertContractEventsQuery(t *testing.T) {
	at := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	entries := []eventlog.Entry{
		{EventID: "ev-1", ChainID: "fantasy-1", Height: 7, BlockTime: at, Contract: "wasm1manager", Sender: "wasm1team", Index: 0, Type: "execute"},
		{
			EventID:    "ev-1",
			ChainID:    "fantasy-1",
			Height:     7,
			BlockTime:  at,
			Contract:   "wasm1manager",
			Sender:     "wasm1team",
			Action:     "join_league",
			Index:      1,
			Type:       "wasm",
			Attributes: []eventlog.Attribute{{Key: "season_id", Value: "3"}},
		},
	}

	query, args, err := buildInsertContractEventsQuery(entries)
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO contract_events (event_id, chain_id, height, block_time, contract, sender, action, event_index, event_type, attributes) VALUES ($1,") {
		t.Fatalf("unexpected query prefix: %s", query)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (event_id, event_index) DO NOTHING") {
		t.Fatalf("unexpected query suffix: %s", query)
	}
	if len(args) != 2*len(contractEventColumns) {
		t.Fatalf("unexpected arg count: %d", len(args))
	}
	if got := args[9]; got != "[]" {
		t.Fatalf("expected empty attributes to encode as [], got %v", got)
	}
	if got := args[19]; got != `[{"key":"season_id","value":"3"}]` {
		t.Fatalf("unexpected attributes payload: %v", got)
	}
	if got := args[2]; got != int64(7) {
		t.Fatalf("expected height as int64, got %T %v", got, got)
	}
}

func TestBuildListContractEventsQuery(t *testing.T) {
	query, args, err := buildListContractEventsQuery(" wasm1manager ", 25)
	if err != nil {
		t.Fatalf("build list query: %v", err)
	}
	want := "SELECT * FROM contract_events WHERE contract = $1 ORDER BY height DESC, event_index ASC LIMIT 25"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 1 || args[0] != "wasm1manager" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := buildListContractEventsQuery("  ", 10); err == nil {
		t.Fatalf("expected error for empty contract")
	}
}

func TestContractEventTableModelToDomain(t *testing.T) {
	row := contractEventTableModel{
		ID:         3,
		EventID:    "ev-9",
		Height:     12,
		Contract:   "wasm1team",
		EventIndex: 2,
		EventType:  "transfer",
		Attributes: `[{"key":"recipient","value":"wasm1coach"},{"key":"amount","value":"1000ujuno"}]`,
	}
	entry, err := row.toDomain()
	if err != nil {
		t.Fatalf("to domain: %v", err)
	}
	if v, ok := entry.Attr("amount"); !ok || v != "1000ujuno" {
		t.Fatalf("unexpected amount attribute: %q %t", v, ok)
	}
	if entry.Height != 12 || entry.Index != 2 {
		t.Fatalf("unexpected position: height=%d index=%d", entry.Height, entry.Index)
	}

	row.Attributes = "{not json"
	if _, err := row.toDomain(); err == nil {
		t.Fatalf("expected decode error")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
