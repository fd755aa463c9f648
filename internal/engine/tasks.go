package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/recurrence"
	"github.com/julianstephens/ascend/internal/utils"
)

// ScheduleTasks creates the task occurrences for title. With a nil spec a single
// task is created on day; otherwise one task per generated date, all sharing a
// series id.
func (e *Engine) ScheduleTasks(userID, title string, day time.Time, spec *recurrence.Spec, now time.Time) ([]models.Task, models.ChangeSet, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.ChangeSet{}, apperrors.InvalidState("task title is required")
	}

	dates := []time.Time{day}
	seriesID := ""
	if spec != nil {
		var err error
		dates, err = recurrence.Generate(*spec)
		if err != nil {
			return nil, models.ChangeSet{}, err
		}
		seriesID = uuid.New().String()
	}

	tasks := make([]models.Task, 0, len(dates))
	for _, d := range dates {
		tasks = append(tasks, models.Task{
			ID:        uuid.New().String(),
			UserID:    userID,
			SeriesID:  seriesID,
			Title:     title,
			Date:      utils.FormatDate(d),
			CreatedAt: now,
		})
	}
	return tasks, models.ChangeSet{Tasks: tasks}, nil
}
