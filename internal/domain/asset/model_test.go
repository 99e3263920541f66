package asset

import (
	"errors"
	"testing"
	"time"
)

func TestManagedAssetTransferKeepsSingleOpenRecord(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := ManagedAsset{
		Address:          "team1",
		Owner:            "alice",
		OwnershipHistory: []OwnershipRecord{{Owner: "alice", AcquiredAt: created}},
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("fresh asset should be valid: %v", err)
	}

	sold := created.Add(48 * time.Hour)
	a.Transfer("bob", sold)
	if err := a.Validate(); err != nil {
		t.Fatalf("transferred asset should be valid: %v", err)
	}
	if len(a.OwnershipHistory) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(a.OwnershipHistory))
	}
	if a.OwnershipHistory[0].ReleasedAt == nil || !a.OwnershipHistory[0].ReleasedAt.Equal(sold) {
		t.Fatalf("previous record should be released at sale time")
	}
}

func TestManagedAssetValidateRejectsMismatchedOwner(t *testing.T) {
	a := ManagedAsset{
		Owner:            "bob",
		OwnershipHistory: []OwnershipRecord{{Owner: "alice"}},
	}
	if err := a.Validate(); !errors.Is(err, ErrOwnershipHistoryCorrupt) {
		t.Fatalf("expected ErrOwnershipHistoryCorrupt, got %v", err)
	}

	empty := ManagedAsset{Owner: "bob"}
	if err := empty.Validate(); !errors.Is(err, ErrOwnershipHistoryCorrupt) {
		t.Fatalf("expected ErrOwnershipHistoryCorrupt for empty history, got %v", err)
	}
}
