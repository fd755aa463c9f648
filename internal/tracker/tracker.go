// Package tracker runs engine operations against storage: it loads the state an
// operation needs, lets the engine compute the writes, and commits them in one
// transaction.
package tracker

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/ascend/internal/engine"
	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/logger"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/progression"
	"github.com/julianstephens/ascend/internal/recurrence"
	"github.com/julianstephens/ascend/internal/storage"
	"github.com/julianstephens/ascend/internal/utils"
	"github.com/julianstephens/ascend/internal/validation"
)

type Service struct {
	store  storage.Provider
	engine *engine.Engine
	clock  utils.Clock
	log    *log.Logger
}

func New(store storage.Provider, clock utils.Clock) *Service {
	if clock == nil {
		clock = utils.RealClock{}
	}
	return &Service{
		store:  store,
		engine: engine.New(),
		clock:  clock,
		log:    logger.With("component", "tracker"),
	}
}

// Store exposes the underlying provider for read-only listings.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Today returns the user id and the current date in the configured timezone.
func (s *Service) Today() (userID, today string, err error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return "", "", fmt.Errorf("reading settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	today, err = utils.TodayInTimezone(s.clock.Now(), settings.Timezone)
	if err != nil {
		return "", "", err
	}
	return settings.UserID, today, nil
}

func (s *Service) ledger(userID string) (models.XPLedger, error) {
	ledger, err := s.store.GetLedger(userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return progression.NewLedger(userID), nil
	}
	return ledger, err
}

// Snapshot loads everything a habit completion is evaluated against.
func (s *Service) Snapshot() (engine.Snapshot, error) {
	userID, today, err := s.Today()
	if err != nil {
		return engine.Snapshot{}, err
	}
	snap := engine.Snapshot{UserID: userID, Today: today}

	goal, err := s.store.GetActiveGoal(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return snap, apperrors.InvalidState("no active goal, start one with 'ascend goal start'")
		}
		return snap, err
	}
	snap.Goal = goal
	if snap.GoalTemplate, err = s.store.GetGoalTemplate(goal.GoalTemplateID); err != nil {
		return snap, fmt.Errorf("loading goal template %s: %w", goal.GoalTemplateID, err)
	}
	if snap.HabitTemplates, err = s.store.GetHabitTemplates(goal.GoalTemplateID); err != nil {
		return snap, err
	}
	if snap.Progress, err = s.store.GetHabitProgress(goal.ID); err != nil {
		return snap, err
	}

	completions, err := s.store.GetCompletionsForDay(userID, today)
	if err != nil {
		return snap, err
	}
	for _, c := range completions {
		snap.CompletedToday = append(snap.CompletedToday, c.HabitTemplateID)
	}
	if snap.TotalCompletions, err = s.store.CountCompletions(userID); err != nil {
		return snap, err
	}
	if snap.CompletedGoals, err = s.store.CountCompletedGoals(userID); err != nil {
		return snap, err
	}
	if snap.Achievements, err = s.store.GetAchievements(); err != nil {
		return snap, err
	}
	if snap.Unlocked, err = s.store.GetUnlocks(userID); err != nil {
		return snap, err
	}
	if snap.Ledger, err = s.ledger(userID); err != nil {
		return snap, err
	}
	return snap, nil
}

// CompleteHabit records a completion of a habit in the active goal. A repeat
// completion on the same day is not an error: the result comes back with
// Accepted false and a reason.
func (s *Service) CompleteHabit(cmd models.CompletionCommand) (models.CompletionResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.CompletionResult{}, err
	}
	if cmd.UserID == "" {
		cmd.UserID = snap.UserID
	}
	if err := validation.Struct(cmd); err != nil {
		return models.CompletionResult{}, err
	}

	out, err := s.engine.CompleteHabit(snap, cmd, s.clock.Now())
	if err == nil {
		err = s.store.ApplyChangeSet(out.Changes)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateCompletion) {
			s.log.Info("Duplicate completion rejected", "habit", cmd.HabitTemplateID, "date", snap.Today)
			return models.CompletionResult{
				Accepted:                  false,
				Reason:                    "already completed today",
				NewlyUnlockedAchievements: []models.Achievement{},
				NewlyUnlockedHabits:       []string{},
				GoalLevel:                 snap.Goal.CurrentLevel,
			}, nil
		}
		if errors.Is(err, apperrors.ErrInvalidState) {
			s.log.Error("Habit completion rejected", "habit", cmd.HabitTemplateID, "error", err)
		}
		return models.CompletionResult{}, err
	}

	s.log.Debug("Habit completed",
		"habit", cmd.HabitTemplateID,
		"xp", out.Result.XPAwarded,
		"achievements", len(out.Result.NewlyUnlockedAchievements),
		"unlocked_habits", len(out.Result.NewlyUnlockedHabits))
	return out.Result, nil
}

// StartGoal begins pursuing the goal template with the given id.
func (s *Service) StartGoal(templateID string) (models.GoalInstance, error) {
	userID, today, err := s.Today()
	if err != nil {
		return models.GoalInstance{}, err
	}
	tmpl, err := s.store.GetGoalTemplate(templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.GoalInstance{}, fmt.Errorf("goal %q not found in catalog: %w", templateID, err)
		}
		return models.GoalInstance{}, err
	}
	habitTemplates, err := s.store.GetHabitTemplates(templateID)
	if err != nil {
		return models.GoalInstance{}, err
	}
	existing, err := s.store.GetGoalInstances(userID)
	if err != nil {
		return models.GoalInstance{}, err
	}

	goal, cs, err := s.engine.StartGoal(userID, existing, tmpl, habitTemplates, today, s.clock.Now())
	if err != nil {
		return models.GoalInstance{}, err
	}
	if err := s.store.ApplyChangeSet(cs); err != nil {
		return models.GoalInstance{}, err
	}
	s.log.Info("Goal started", "goal", templateID, "instance", goal.ID)
	return goal, nil
}

// PauseGoal pauses the active goal.
func (s *Service) PauseGoal() (models.GoalInstance, error) {
	userID, _, err := s.Today()
	if err != nil {
		return models.GoalInstance{}, err
	}
	goal, err := s.store.GetActiveGoal(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.GoalInstance{}, apperrors.InvalidState("no active goal to pause")
		}
		return models.GoalInstance{}, err
	}
	goal, cs, err := s.engine.PauseGoal(goal)
	if err != nil {
		return goal, err
	}
	return goal, s.store.ApplyChangeSet(cs)
}

// ResumeGoal resumes the paused instance of templateID. With an empty id the
// only paused goal is resumed.
func (s *Service) ResumeGoal(templateID string) (models.GoalInstance, error) {
	userID, _, err := s.Today()
	if err != nil {
		return models.GoalInstance{}, err
	}
	existing, err := s.store.GetGoalInstances(userID)
	if err != nil {
		return models.GoalInstance{}, err
	}

	var paused []models.GoalInstance
	for _, g := range existing {
		if g.Status == models.GoalPaused && (templateID == "" || g.GoalTemplateID == templateID) {
			paused = append(paused, g)
		}
	}
	switch {
	case len(paused) == 0 && templateID == "":
		return models.GoalInstance{}, apperrors.InvalidState("no paused goal to resume")
	case len(paused) == 0:
		return models.GoalInstance{}, apperrors.InvalidState("goal %s is not paused", templateID)
	case len(paused) > 1:
		return models.GoalInstance{}, apperrors.InvalidState("%d goals are paused, name the one to resume", len(paused))
	}

	goal, cs, err := s.engine.ResumeGoal(paused[0], existing)
	if err != nil {
		return goal, err
	}
	return goal, s.store.ApplyChangeSet(cs)
}

// AddTask schedules title on day, or on every date spec produces when it is set.
func (s *Service) AddTask(title string, day time.Time, spec *recurrence.Spec) ([]models.Task, error) {
	userID, _, err := s.Today()
	if err != nil {
		return nil, err
	}
	tasks, cs, err := s.engine.ScheduleTasks(userID, title, day, spec, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if spec != nil && len(tasks) == 0 {
		return nil, apperrors.MalformedRecurrence("recurrence produces no dates")
	}
	if err := s.store.ApplyChangeSet(cs); err != nil {
		return nil, err
	}
	s.log.Debug("Tasks scheduled", "title", title, "count", len(tasks))
	return tasks, nil
}

// CompleteTask marks a task done now.
func (s *Service) CompleteTask(id string) error {
	return s.store.CompleteTask(id, s.clock.Now())
}

// HabitView pairs a habit template with the user's progress on it.
type HabitView struct {
	Template  models.HabitTemplate
	Progress  models.HabitProgress
	DoneToday bool
}

// Dashboard is the state shown by the goal view and the TUI.
type Dashboard struct {
	Today        string
	Goal         *models.GoalInstance
	GoalTemplate models.GoalTemplate
	Habits       []HabitView
	Stats        Stats
}

// Stats summarizes a user's overall progression.
type Stats struct {
	Ledger            models.XPLedger
	LevelPercent      float64
	XPToNextLevel     int
	TotalCompletions  int
	CompletedGoals    int
	Unlocked          int
	TotalAchievements int
}

// Stats loads the user's progression summary.
func (s *Service) Stats() (Stats, error) {
	userID, _, err := s.Today()
	if err != nil {
		return Stats{}, err
	}
	return s.stats(userID)
}

func (s *Service) stats(userID string) (Stats, error) {
	var st Stats
	var err error
	if st.Ledger, err = s.ledger(userID); err != nil {
		return st, err
	}
	st.LevelPercent = progression.ProgressPercent(st.Ledger.TotalXP)
	st.XPToNextLevel = progression.XPToNextLevel(st.Ledger.TotalXP)
	if st.TotalCompletions, err = s.store.CountCompletions(userID); err != nil {
		return st, err
	}
	if st.CompletedGoals, err = s.store.CountCompletedGoals(userID); err != nil {
		return st, err
	}
	unlocks, err := s.store.GetUnlocks(userID)
	if err != nil {
		return st, err
	}
	st.Unlocked = len(unlocks)
	defs, err := s.store.GetAchievements()
	if err != nil {
		return st, err
	}
	st.TotalAchievements = len(defs)
	return st, nil
}

// Dashboard loads the active goal with its habits. Goal is nil when nothing is active.
func (s *Service) Dashboard() (Dashboard, error) {
	snap, err := s.Snapshot()
	if err != nil && !errors.Is(err, apperrors.ErrInvalidState) {
		return Dashboard{}, err
	}
	d := Dashboard{Today: snap.Today}
	if d.Stats, err = s.stats(snap.UserID); err != nil {
		return d, err
	}
	if snap.Goal.ID == "" {
		return d, nil
	}

	goal := snap.Goal
	d.Goal = &goal
	d.GoalTemplate = snap.GoalTemplate
	for _, tmpl := range snap.HabitTemplates {
		i := slices.IndexFunc(snap.Progress, func(p models.HabitProgress) bool {
			return p.HabitTemplateID == tmpl.ID
		})
		if i < 0 {
			continue
		}
		d.Habits = append(d.Habits, HabitView{
			Template:  tmpl,
			Progress:  snap.Progress[i],
			DoneToday: slices.Contains(snap.CompletedToday, tmpl.ID),
		})
	}
	return d, nil
}
