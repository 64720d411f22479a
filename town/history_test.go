package town

import (
	"testing"
	"time"

	"townManagerBot/models"
)

func TestHistoryListOrdering(t *testing.T) {
	tn, db := newTestTown(t)

	earlier := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)

	db.Create(&models.HistoryEntry{GuildID: "guild1", ActionType: "a", Description: "first", User: "u", Timestamp: earlier})
	db.Create(&models.HistoryEntry{GuildID: "guild1", ActionType: "b", Description: "second", User: "u", Timestamp: later})
	// Same timestamp as "second": insertion id breaks the tie.
	db.Create(&models.HistoryEntry{GuildID: "guild1", ActionType: "c", Description: "third", User: "u", Timestamp: later})

	entries, err := tn.History.List("guild1", 10, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 3, len(entries), "entry count")
	assertEqual(t, "third", entries[0].Description, "newest id first on tie")
	assertEqual(t, "second", entries[1].Description, "tied timestamp, older id second")
	assertEqual(t, "first", entries[2].Description, "oldest last")
}

func TestHistoryPagination(t *testing.T) {
	tn, _ := newTestTown(t)

	for i := 0; i < 7; i++ {
		if err := tn.History.Append("guild1", "action", "entry", "u"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	page, err := tn.History.List("guild1", 5, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 5, len(page), "first page size")

	rest, err := tn.History.List("guild1", 5, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 2, len(rest), "second page size")

	count, err := tn.History.Count("guild1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 7, count, "total count")
}

func TestHistoryGuildIsolation(t *testing.T) {
	tn, _ := newTestTown(t)

	if err := tn.History.Append("guild1", "action", "only guild1", "u"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	entries, err := tn.History.List("guild2", 10, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 0, len(entries), "guild2 sees nothing")
}
