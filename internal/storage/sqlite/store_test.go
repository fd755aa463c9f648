package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

var testNow = time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)

func setupTestSQLiteStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedCatalog(t *testing.T, store *Store) {
	t.Helper()
	goals := []models.GoalTemplate{{ID: "fitness", Title: "Fitness", TotalLevels: 2}}
	habits := []models.HabitTemplate{
		{ID: "walk", GoalTemplateID: "fitness", Title: "Walk", Level: 1, XPReward: 10},
		{ID: "run", GoalTemplateID: "fitness", Title: "Run", Level: 2, XPReward: 20},
	}
	achievements := []models.Achievement{
		{ID: "first", Name: "First Step", XPReward: 25, Criteria: models.UnlockCriteria{Type: models.CriteriaHabitCompletions, Value: 1}},
	}
	if err := store.SaveCatalog(goals, habits, achievements); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}
}

func seedGoal(t *testing.T, store *Store) models.GoalInstance {
	t.Helper()
	seedCatalog(t, store)
	unlocked := testNow
	goal := models.GoalInstance{ID: "g1", UserID: "local", GoalTemplateID: "fitness", Status: models.GoalActive, CurrentLevel: 1, StartDate: "2026-04-01"}
	cs := models.ChangeSet{
		Goals: []models.GoalInstance{goal},
		Progress: []models.HabitProgress{
			{ID: "p1", UserID: "local", GoalInstanceID: "g1", HabitTemplateID: "walk", Level: 1, Status: models.HabitAvailable, UnlockedAt: &unlocked},
			{ID: "p2", UserID: "local", GoalInstanceID: "g1", HabitTemplateID: "run", Level: 2, Status: models.HabitLocked},
		},
	}
	if err := store.ApplyChangeSet(cs); err != nil {
		t.Fatalf("ApplyChangeSet failed: %v", err)
	}
	return goal
}

func completion(id, habitID, day string) models.HabitCompletion {
	return models.HabitCompletion{ID: id, UserID: "local", HabitTemplateID: habitID, GoalInstanceID: "g1", Date: day, XPEarned: 10, CreatedAt: testNow}
}

func TestInitDefaultSettings(t *testing.T) {
	store := setupTestSQLiteStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.UserID != "local" {
		t.Errorf("UserID = %q, want local", settings.UserID)
	}
	if settings.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", settings.Timezone)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestSQLiteStore(t)
	if err := store.SaveSettings(models.Settings{UserID: "me", Timezone: "UTC", CatalogVersion: 3}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.UserID != "me" || settings.Timezone != "UTC" || settings.CatalogVersion != 3 {
		t.Errorf("settings overwritten: %+v", settings)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("expected error loading uninitialized store")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer second.Close()

	st, err := second.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("expected schema up to date, got %+v", st)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	store := setupTestSQLiteStore(t)
	seedCatalog(t, store)

	goals, err := store.GetGoalTemplates()
	if err != nil || len(goals) != 1 || goals[0].TotalLevels != 2 {
		t.Fatalf("GetGoalTemplates = %+v, %v", goals, err)
	}

	habits, err := store.GetHabitTemplates("fitness")
	if err != nil {
		t.Fatalf("GetHabitTemplates failed: %v", err)
	}
	if len(habits) != 2 || habits[0].ID != "walk" || habits[1].ID != "run" {
		t.Errorf("habits out of level order: %+v", habits)
	}

	achievements, err := store.GetAchievements()
	if err != nil || len(achievements) != 1 {
		t.Fatalf("GetAchievements = %+v, %v", achievements, err)
	}
	if achievements[0].Criteria.Type != models.CriteriaHabitCompletions || achievements[0].Criteria.Value != 1 {
		t.Errorf("criteria not preserved: %+v", achievements[0].Criteria)
	}

	if _, err := store.GetGoalTemplate("nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveCatalogPrunesUnreferenced(t *testing.T) {
	store := setupTestSQLiteStore(t)
	seedGoal(t, store)

	// Drop "run" (referenced by progress) and the achievement; add a new goal.
	err := store.SaveCatalog(
		[]models.GoalTemplate{{ID: "reading", Title: "Reading", TotalLevels: 1}},
		[]models.HabitTemplate{{ID: "read", GoalTemplateID: "reading", Title: "Read", Level: 1, XPReward: 5}},
		nil,
	)
	if err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}

	goals, _ := store.GetGoalTemplates()
	if len(goals) != 2 {
		t.Errorf("expected referenced goal template to survive, got %+v", goals)
	}
	habits, _ := store.GetHabitTemplates("fitness")
	if len(habits) != 2 {
		t.Errorf("expected referenced habit templates to survive, got %+v", habits)
	}
	achievements, _ := store.GetAchievements()
	if len(achievements) != 0 {
		t.Errorf("expected achievements pruned, got %+v", achievements)
	}
}

func TestGoalQueries(t *testing.T) {
	store := setupTestSQLiteStore(t)

	if _, err := store.GetActiveGoal("local"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any goal, got %v", err)
	}

	goal := seedGoal(t, store)

	active, err := store.GetActiveGoal("local")
	if err != nil {
		t.Fatalf("GetActiveGoal failed: %v", err)
	}
	if active.ID != goal.ID || active.CurrentLevel != 1 {
		t.Errorf("unexpected active goal %+v", active)
	}

	progress, err := store.GetHabitProgress(goal.ID)
	if err != nil {
		t.Fatalf("GetHabitProgress failed: %v", err)
	}
	if len(progress) != 2 || progress[0].HabitTemplateID != "walk" {
		t.Fatalf("unexpected progress %+v", progress)
	}
	if progress[0].UnlockedAt == nil || !progress[0].UnlockedAt.Equal(testNow) {
		t.Errorf("unlocked_at not preserved: %v", progress[0].UnlockedAt)
	}
	if progress[1].UnlockedAt != nil {
		t.Errorf("locked habit should have no unlocked_at")
	}

	completedAt := testNow
	goal.Status = models.GoalCompleted
	goal.CompletedAt = &completedAt
	if err := store.ApplyChangeSet(models.ChangeSet{Goals: []models.GoalInstance{goal}}); err != nil {
		t.Fatalf("ApplyChangeSet failed: %v", err)
	}
	n, err := store.CountCompletedGoals("local")
	if err != nil || n != 1 {
		t.Errorf("CountCompletedGoals = %d, %v", n, err)
	}
	got, err := store.GetGoalInstance(goal.ID)
	if err != nil || got.CompletedAt == nil {
		t.Errorf("GetGoalInstance = %+v, %v", got, err)
	}
}

func TestApplyChangeSetCompletion(t *testing.T) {
	store := setupTestSQLiteStore(t)
	seedGoal(t, store)

	rating := 4
	c := completion("c1", "walk", "2026-04-02")
	c.Rating = &rating
	ledger := models.XPLedger{UserID: "local", TotalXP: 35, CurrentLevel: 1, CurrentStreak: 1, BestStreak: 1, LastActivityDate: "2026-04-02"}
	cs := models.ChangeSet{
		Completions: []models.HabitCompletion{c},
		Ledger:      &ledger,
		Transactions: []models.XPTransaction{
			{ID: "t1", UserID: "local", Type: models.TxHabitCompletion, Amount: 10, Source: "walk", CreatedAt: testNow},
			{ID: "t2", UserID: "local", Type: models.TxAchievementUnlock, Amount: 25, Source: "first", CreatedAt: testNow},
		},
		Unlocks: []models.AchievementUnlock{{UserID: "local", AchievementID: "first", UnlockedAt: testNow}},
	}
	if err := store.ApplyChangeSet(cs); err != nil {
		t.Fatalf("ApplyChangeSet failed: %v", err)
	}

	day, err := store.GetCompletionsForDay("local", "2026-04-02")
	if err != nil || len(day) != 1 {
		t.Fatalf("GetCompletionsForDay = %+v, %v", day, err)
	}
	if day[0].Rating == nil || *day[0].Rating != 4 || day[0].ElapsedMinutes != nil {
		t.Errorf("optional fields not preserved: %+v", day[0])
	}

	count, _ := store.CountCompletions("local")
	if count != 1 {
		t.Errorf("CountCompletions = %d, want 1", count)
	}

	got, err := store.GetLedger("local")
	if err != nil || got != ledger {
		t.Errorf("GetLedger = %+v, %v", got, err)
	}

	txs, err := store.GetTransactions("local", 10)
	if err != nil || len(txs) != 2 {
		t.Errorf("GetTransactions = %+v, %v", txs, err)
	}

	unlocks, err := store.GetUnlocks("local")
	if err != nil || len(unlocks) != 1 || unlocks[0].AchievementID != "first" {
		t.Errorf("GetUnlocks = %+v, %v", unlocks, err)
	}
}

func TestApplyChangeSetDuplicateCompletion(t *testing.T) {
	store := setupTestSQLiteStore(t)
	seedGoal(t, store)

	first := models.ChangeSet{Completions: []models.HabitCompletion{completion("c1", "walk", "2026-04-02")}}
	if err := store.ApplyChangeSet(first); err != nil {
		t.Fatalf("first ApplyChangeSet failed: %v", err)
	}

	ledger := models.XPLedger{UserID: "local", TotalXP: 999, CurrentLevel: 5}
	second := models.ChangeSet{
		Completions: []models.HabitCompletion{completion("c2", "walk", "2026-04-02")},
		Ledger:      &ledger,
	}
	err := store.ApplyChangeSet(second)
	if !errors.Is(err, apperrors.ErrDuplicateCompletion) {
		t.Fatalf("expected ErrDuplicateCompletion, got %v", err)
	}

	// Nothing from the rejected change set may persist.
	if _, err := store.GetLedger("local"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ledger written despite rollback: %v", err)
	}

	// Same habit on another day is fine.
	third := models.ChangeSet{Completions: []models.HabitCompletion{completion("c3", "walk", "2026-04-03")}}
	if err := store.ApplyChangeSet(third); err != nil {
		t.Errorf("next-day completion failed: %v", err)
	}
}

func TestApplyChangeSetRollsBackOnLateFailure(t *testing.T) {
	store := setupTestSQLiteStore(t)
	goal := seedGoal(t, store)

	goal.CurrentLevel = 2
	cs := models.ChangeSet{
		Goals: []models.GoalInstance{goal},
		Unlocks: []models.AchievementUnlock{
			{UserID: "local", AchievementID: "first", UnlockedAt: testNow},
			{UserID: "local", AchievementID: "first", UnlockedAt: testNow},
		},
	}
	err := store.ApplyChangeSet(cs)
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	got, _ := store.GetGoalInstance(goal.ID)
	if got.CurrentLevel != 1 {
		t.Errorf("goal update not rolled back: level %d", got.CurrentLevel)
	}
}

func TestApplyChangeSetEmpty(t *testing.T) {
	store := setupTestSQLiteStore(t)
	if err := store.ApplyChangeSet(models.ChangeSet{}); err != nil {
		t.Errorf("empty change set: %v", err)
	}
}

func TestTasks(t *testing.T) {
	store := setupTestSQLiteStore(t)

	tasks := []models.Task{
		{ID: "t1", UserID: "local", SeriesID: "s1", Title: "Review", Date: "2026-04-06", CreatedAt: testNow},
		{ID: "t2", UserID: "local", SeriesID: "s1", Title: "Review", Date: "2026-04-13", CreatedAt: testNow},
		{ID: "t3", UserID: "local", Title: "Taxes", Date: "2026-04-15", CreatedAt: testNow},
	}
	if err := store.ApplyChangeSet(models.ChangeSet{Tasks: tasks}); err != nil {
		t.Fatalf("ApplyChangeSet failed: %v", err)
	}

	tests := []struct {
		name     string
		from, to string
		want     int
	}{
		{"all", "", "", 3},
		{"from", "2026-04-10", "", 2},
		{"to", "", "2026-04-13", 2},
		{"single day", "2026-04-15", "2026-04-15", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetTasks("local", tt.from, tt.to)
			if err != nil {
				t.Fatalf("GetTasks failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d tasks, want %d", len(got), tt.want)
			}
		})
	}

	if err := store.CompleteTask("t1", testNow); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	got, err := store.GetTask("t1")
	if err != nil || got.CompletedAt == nil {
		t.Errorf("GetTask = %+v, %v", got, err)
	}

	if err := store.DeleteTask("t3"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := store.GetTask("t3"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteTask("t3"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := store.CompleteTask("missing", testNow); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound completing missing task, got %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.db")
	if got := NewStore(path).GetConfigPath(); got != path {
		t.Errorf("GetConfigPath() = %q, want %q", got, path)
	}
}
