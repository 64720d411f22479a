package town

import (
	"errors"
	"testing"

	"townManagerBot/models"
)

func TestSingleVotePerUserPerSession(t *testing.T) {
	tn, db := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	tavern := mustCreate(t, tn, "guild1", "Tavern", "")

	adventureID, err := tn.Votes.StartSession("guild1", []string{"user1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := tn.Votes.Cast("guild1", "user1", bridge.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := tn.Votes.Cast("guild1", "user1", tavern.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := tn.Votes.Cast("guild1", "user1", bridge.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var votes []models.Vote
	db.Where("guild_id = ? AND adventure_id = ? AND user_id = ?", "guild1", adventureID, "user1").Find(&votes)
	assertEqual(t, 1, len(votes), "exactly one vote row")
	assertEqual(t, bridge.ID, votes[0].StructureID, "last cast wins")
}

func TestCastValidation(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")

	err := tn.Votes.Cast("guild1", "user1", bridge.ID, 1)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession before any adventure, got %v", err)
	}

	first, err := tn.Votes.StartSession("guild1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := tn.Votes.StartSession("guild1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err = tn.Votes.Cast("guild1", "user1", bridge.ID, first)
	if !errors.Is(err, ErrStaleSession) {
		t.Errorf("Expected ErrStaleSession for superseded adventure, got %v", err)
	}

	err = tn.Votes.Cast("guild1", "user1", bridge.ID+99, second)
	if !errors.Is(err, ErrUnknownStructure) {
		t.Errorf("Expected ErrUnknownStructure, got %v", err)
	}

	if err := tn.Votes.Cast("guild1", "user1", bridge.ID, second); err != nil {
		t.Errorf("Valid cast should succeed, got %v", err)
	}
}

func TestRestrictVotingPolicy(t *testing.T) {
	tn, db := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	adventureID, err := tn.Votes.StartSession("guild1", []string{"member1", "member2"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Default policy: anyone may vote, the roster is just a hint.
	if err := tn.Votes.Cast("guild1", "outsider", bridge.ID, adventureID); err != nil {
		t.Errorf("Unrestricted guild should accept any voter, got %v", err)
	}

	db.Create(&models.Guild{GuildID: "guild1", RestrictVoting: true})

	err = tn.Votes.Cast("guild1", "outsider2", bridge.ID, adventureID)
	if !errors.Is(err, ErrNotParticipant) {
		t.Errorf("Expected ErrNotParticipant under restriction, got %v", err)
	}

	if err := tn.Votes.Cast("guild1", "member1", bridge.ID, adventureID); err != nil {
		t.Errorf("Roster member should vote under restriction, got %v", err)
	}

	participants, err := tn.Votes.Participants("guild1", adventureID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 2, len(participants), "roster size")
}

func TestTallyIsolationAcrossSessions(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")

	first, _ := tn.Votes.StartSession("guild1", nil)
	if err := tn.Votes.Cast("guild1", "user1", bridge.ID, first); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := tn.Votes.Cast("guild1", "user2", bridge.ID, first); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, _ := tn.Votes.StartSession("guild1", nil)
	if err := tn.Votes.Cast("guild1", "user3", bridge.ID, second); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	count, err := tn.Votes.Tally("guild1", bridge.ID, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 3, count, "all votes count from marker 0")

	// Once the reset marker reaches the first adventure, its votes stop
	// counting.
	count, err = tn.Votes.Tally("guild1", bridge.ID, first)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 1, count, "only second-session votes past marker")

	count, err = tn.Votes.Tally("guild1", bridge.ID, second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 0, count, "no votes past latest marker")
}

func TestTallyGuildIsolation(t *testing.T) {
	tn, _ := newTestTown(t)

	b1 := mustCreate(t, tn, "guild1", "Bridge", "")
	b2 := mustCreate(t, tn, "guild2", "Bridge", "")

	a1, _ := tn.Votes.StartSession("guild1", nil)
	a2, _ := tn.Votes.StartSession("guild2", nil)

	if err := tn.Votes.Cast("guild1", "user1", b1.ID, a1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := tn.Votes.Cast("guild2", "user1", b2.ID, a2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	count, _ := tn.Votes.Tally("guild1", b1.ID, 0)
	assertEqual(t, 1, count, "guild1 tally")
	count, _ = tn.Votes.Tally("guild2", b2.ID, 0)
	assertEqual(t, 1, count, "guild2 tally")
}

func TestTallyAll(t *testing.T) {
	tn, _ := newTestTown(t)

	bridge := mustCreate(t, tn, "guild1", "Bridge", "")
	mustCreate(t, tn, "guild1", "Tavern", "")

	adventureID, _ := tn.Votes.StartSession("guild1", nil)
	if err := tn.Votes.Cast("guild1", "user1", bridge.ID, adventureID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tallies, err := tn.Votes.TallyAll("guild1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, 2, len(tallies), "one tally per structure")

	byName := make(map[string]int)
	for _, tally := range tallies {
		byName[tally.Structure.Name] = tally.Votes
	}
	assertEqual(t, 1, byName["Bridge"], "bridge votes")
	assertEqual(t, 0, byName["Tavern"], "tavern votes")
}

func TestLatestAdventureID(t *testing.T) {
	tn, _ := newTestTown(t)

	_, err := tn.Votes.LatestAdventureID("guild1")
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}

	first, _ := tn.Votes.StartSession("guild1", nil)
	second, _ := tn.Votes.StartSession("guild1", nil)
	if second <= first {
		t.Errorf("Adventure ids must increase: first %d, second %d", first, second)
	}

	latest, err := tn.Votes.LatestAdventureID("guild1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertEqual(t, second, latest, "latest adventure id")
}
