package town

import (
	"errors"
	"testing"

	"townManagerBot/models"
)

// Walks the full happy path from the Bridge scenario: three votes against
// a three-vote milestone, request, confirm, votes consumed.
func TestUpgradeScenario(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	if err := tn.Milestones.Set("guild1", bridge.ID, 2, 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	adventureID, err := tn.Votes.StartSession("guild1", []string{"u1", "u2", "u3"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, user := range []string{"u1", "u2", "u3"} {
		if err := tn.Votes.Cast("guild1", user, bridge.ID, adventureID); err != nil {
			t.Fatalf("Unexpected error casting for %s: %v", user, err)
		}
	}

	count, _ := tn.Votes.Tally("guild1", bridge.ID, 0)
	assertEqual(t, 3, count, "tally before upgrade")

	quote, err := tn.Upgrades.Request("guild1", "Bridge")
	if err != nil {
		t.Fatalf("Request should pass all gates: %v", err)
	}
	assertEqual(t, 2, quote.NextLevel, "next level")
	assertEqual(t, 3, quote.VotesRequired, "required votes")
	assertEqual(t, 3, quote.Tally, "quoted tally")

	result, err := tn.Upgrades.Confirm("guild1", bridge.ID, "gm")
	if err != nil {
		t.Fatalf("Confirm should succeed: %v", err)
	}
	assertEqual(t, "Bridge", result.Name, "result name")
	assertEqual(t, 1, result.OldLevel, "old level")
	assertEqual(t, 2, result.NewLevel, "new level")

	upgraded, _ := tn.Structures.GetByID("guild1", bridge.ID)
	assertEqual(t, 2, upgraded.Level, "persisted level")
	assertEqual(t, adventureID, upgraded.LastResetAdventure, "reset marker at latest adventure")

	count, _ = tn.Votes.Tally("guild1", bridge.ID, upgraded.LastResetAdventure)
	assertEqual(t, 0, count, "votes consumed")

	// No milestone exists for level 3, so an immediate retry fails there.
	_, err = tn.Upgrades.Confirm("guild1", bridge.ID, "gm")
	if !errors.Is(err, ErrMilestoneNotSet) {
		t.Errorf("Expected ErrMilestoneNotSet on retry, got %v", err)
	}
}

func TestUpgradeRequestGates(t *testing.T) {
	tn, _ := newTestTown(t)

	_, err := tn.Upgrades.Request("guild1", "Bridge")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")

	_, err = tn.Upgrades.Request("guild1", "Bridge")
	if !errors.Is(err, ErrMilestoneNotSet) {
		t.Errorf("Expected ErrMilestoneNotSet, got %v", err)
	}

	if err := tn.Milestones.Set("guild1", bridge.ID, 2, 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	adventureID, _ := tn.Votes.StartSession("guild1", nil)
	if err := tn.Votes.Cast("guild1", "u1", bridge.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = tn.Upgrades.Request("guild1", "Bridge")
	var insufficient *InsufficientVotesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientVotesError, got %v", err)
	}
	assertEqual(t, 3, insufficient.Required, "required")
	assertEqual(t, 1, insufficient.Have, "have")
	assertEqual(t, 2, insufficient.Deficit(), "deficit")
}

func TestUpgradeMaxLevel(t *testing.T) {
	tn, db := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	db.Model(&models.Structure{}).Where("id = ?", bridge.ID).Updates(map[string]interface{}{
		"level": 10, "max_level": 10,
	})

	_, err := tn.Upgrades.Request("guild1", "Bridge")
	if !errors.Is(err, ErrAlreadyMaxLevel) {
		t.Errorf("Expected ErrAlreadyMaxLevel, got %v", err)
	}

	_, err = tn.Upgrades.Confirm("guild1", bridge.ID, "gm")
	if !errors.Is(err, ErrAlreadyMaxLevel) {
		t.Errorf("Expected ErrAlreadyMaxLevel on confirm, got %v", err)
	}
}

// Confirm revalidates against current state, so votes spent by an earlier
// upgrade cannot be double-counted by a pending prompt.
func TestConfirmRevalidates(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	if err := tn.Milestones.Replace("guild1", bridge.ID, []int{2, 2}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	adventureID, _ := tn.Votes.StartSession("guild1", nil)
	for _, user := range []string{"u1", "u2"} {
		if err := tn.Votes.Cast("guild1", user, bridge.ID, adventureID); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	// Two prompts are outstanding; the first confirm consumes the votes.
	if _, err := tn.Upgrades.Request("guild1", "Bridge"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := tn.Upgrades.Confirm("guild1", bridge.ID, "gm"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err := tn.Upgrades.Confirm("guild1", bridge.ID, "gm")
	var insufficient *InsufficientVotesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientVotesError on stale confirm, got %v", err)
	}
	assertEqual(t, 0, insufficient.Have, "votes already consumed")

	upgraded, _ := tn.Structures.GetByID("guild1", bridge.ID)
	assertEqual(t, 2, upgraded.Level, "level advanced exactly once")
}

func TestUpgradeAppendsHistory(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	if err := tn.Milestones.Set("guild1", bridge.ID, 2, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	adventureID, _ := tn.Votes.StartSession("guild1", nil)
	if err := tn.Votes.Cast("guild1", "u1", bridge.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := tn.Upgrades.Confirm("guild1", bridge.ID, "gm"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	entries, err := tn.History.List("guild1", 10, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 1, len(entries), "one history entry")
	assertEqual(t, "structure_upgraded", entries[0].ActionType, "action type")
	assertEqual(t, "gm", entries[0].User, "acting user")
}

func TestCancelLogsAndMutatesNothing(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	if err := tn.Milestones.Set("guild1", bridge.ID, 2, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	adventureID, _ := tn.Votes.StartSession("guild1", nil)
	if err := tn.Votes.Cast("guild1", "u1", bridge.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := tn.Upgrades.Cancel("guild1", bridge.ID, "gm"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	unchanged, _ := tn.Structures.GetByID("guild1", bridge.ID)
	assertEqual(t, 1, unchanged.Level, "level untouched")

	count, _ := tn.Votes.Tally("guild1", bridge.ID, 0)
	assertEqual(t, 1, count, "votes untouched")

	entries, _ := tn.History.List("guild1", 10, 0)
	assertEqual(t, 1, len(entries), "cancel logged")
	assertEqual(t, "upgrade_canceled", entries[0].ActionType, "action type")
}
