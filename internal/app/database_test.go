package app

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		disable bool
		want    string
	}{
		{
			name:    "adds text result flag",
			in:      "postgres://indexer:secret@db:5432/contract_events?sslmode=disable",
			disable: true,
			want:    "postgres://indexer:secret@db:5432/contract_events?disable_prepared_binary_result=yes&sslmode=disable",
		},
		{
			name:    "keeps explicit flag",
			in:      "postgres://indexer@db/contract_events?disable_prepared_binary_result=no",
			disable: true,
			want:    "postgres://indexer@db/contract_events?disable_prepared_binary_result=no",
		},
		{
			name: "disabled",
			in:   "postgres://indexer@db/contract_events",
			want: "postgres://indexer@db/contract_events",
		},
		{
			name:    "key value dsn untouched",
			in:      "host=db dbname=contract_events",
			disable: true,
			want:    "host=db dbname=contract_events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDBURL(tt.in, tt.disable); got != tt.want {
				t.Fatalf("normalizeDBURL(%q)=%q want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDBNameFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "postgres://indexer@db:5432/fantasy_events?sslmode=disable", want: "fantasy_events"},
		{in: "postgres://indexer@db:5432", want: ""},
		{in: "host=db user=indexer dbname='fantasy_events' sslmode=disable", want: "fantasy_events"},
		{in: "host=db user=indexer", want: ""},
	}
	for _, tt := range tests {
		if got := dbNameFromURL(tt.in); got != tt.want {
			t.Fatalf("dbNameFromURL(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	got := formatDBQueryForTrace(" SELECT   event_id\nFROM contract_events \t WHERE contract = $1 ")
	if want := "SELECT event_id FROM contract_events WHERE contract = $1"; got != want {
		t.Fatalf("unexpected formatted query: %q", got)
	}

	long := formatDBQueryForTrace("SELECT " + strings.Repeat("é", maxTracedQueryLength))
	if !strings.HasSuffix(long, "...") || len(long) > maxTracedQueryLength+3 {
		t.Fatalf("expected truncated query, got %d bytes", len(long))
	}
	if !strings.HasPrefix(long, "SELECT é") || strings.ContainsRune(long, utf8.RuneError) {
		t.Fatalf("truncation split a rune: %q", long[len(long)-8:])
	}
}
