package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// withClock makes created_at values strictly increasing.
func withClock(s *Store) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveRound(t *testing.T) {
	store := openTestStore(t)
	withClock(store)

	saved, err := store.SaveRound(RoundRecord{
		GameID:         "dodge",
		Session:        "local",
		Score:          120,
		ElapsedSeconds: 12,
		EnemiesSpawned: 4,
		FinalSpeed:     6,
	})
	if err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveRound() did not assign an id")
	}

	got, err := store.RoundByID(saved.ID)
	if err != nil {
		t.Fatalf("RoundByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RoundByID() returned nil")
	}
	if got.Score != 120 || got.ElapsedSeconds != 12 || got.EnemiesSpawned != 4 || got.FinalSpeed != 6 || got.Session != "local" {
		t.Errorf("round mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}

	missing, err := store.RoundByID("nope")
	if err != nil || missing != nil {
		t.Errorf("RoundByID(missing) = %v, %v", missing, err)
	}
}

func TestStoreSaveRoundRequiresGame(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRound(RoundRecord{Score: 10}); err == nil {
		t.Error("expected error for empty game id")
	}
}

func TestStoreTopRounds(t *testing.T) {
	store := openTestStore(t)
	withClock(store)

	for _, score := range []int{100, 50, 200, 100} {
		if _, err := store.SaveRound(RoundRecord{GameID: "dodge", Score: score}); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}
	if _, err := store.SaveRound(RoundRecord{GameID: "other", Score: 500}); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}

	rounds, err := store.TopRounds("dodge", 10)
	if err != nil {
		t.Fatalf("TopRounds() failed: %v", err)
	}
	if len(rounds) != 4 {
		t.Fatalf("Expected 4 rounds, got %d", len(rounds))
	}
	want := []int{200, 100, 100, 50}
	for i, r := range rounds {
		if r.Score != want[i] {
			t.Errorf("rank %d: score %d, want %d", i, r.Score, want[i])
		}
	}
	if !rounds[1].CreatedAt.Before(rounds[2].CreatedAt) {
		t.Error("ties should list the earlier round first")
	}

	limited, err := store.TopRounds("dodge", 2)
	if err != nil {
		t.Fatalf("TopRounds() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 rounds, got %d", len(limited))
	}
}

func TestStoreRecentRounds(t *testing.T) {
	store := openTestStore(t)
	withClock(store)

	for i := 1; i <= 5; i++ {
		if _, err := store.SaveRound(RoundRecord{GameID: "dodge", Score: i * 10}); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	rounds, err := store.RecentRounds("dodge", 3)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("Expected 3 rounds, got %d", len(rounds))
	}
	for i, want := range []int{50, 40, 30} {
		if rounds[i].Score != want {
			t.Errorf("position %d: score %d, want %d", i, rounds[i].Score, want)
		}
	}
}

func TestStoreHighScoreAndStats(t *testing.T) {
	store := openTestStore(t)

	hs, err := store.HighScore("dodge")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if hs != 0 {
		t.Errorf("Expected 0 for empty journal, got %d", hs)
	}
	st, err := store.Stats("dodge")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st != (Stats{}) {
		t.Errorf("Expected empty stats, got %+v", st)
	}

	for _, r := range []RoundRecord{
		{GameID: "dodge", Score: 10, ElapsedSeconds: 1},
		{GameID: "dodge", Score: 30, ElapsedSeconds: 3},
		{GameID: "dodge", Score: 20, ElapsedSeconds: 2},
	} {
		if _, err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	hs, _ = store.HighScore("dodge")
	if hs != 30 {
		t.Errorf("Expected high score 30, got %d", hs)
	}
	st, err = store.Stats("dodge")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	want := Stats{Rounds: 3, BestScore: 30, AverageScore: 20, TotalSeconds: 6}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}
}

func TestStoreClearRounds(t *testing.T) {
	store := openTestStore(t)

	store.SaveRound(RoundRecord{GameID: "dodge", Score: 10})
	store.SaveRound(RoundRecord{GameID: "other", Score: 10})

	if err := store.ClearRounds("dodge"); err != nil {
		t.Fatalf("ClearRounds() failed: %v", err)
	}

	rounds, _ := store.TopRounds("dodge", 10)
	if len(rounds) != 0 {
		t.Errorf("Expected 0 rounds after clear, got %d", len(rounds))
	}
	others, _ := store.TopRounds("other", 10)
	if len(others) != 1 {
		t.Errorf("Expected other game untouched, got %d", len(others))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
