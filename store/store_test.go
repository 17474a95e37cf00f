package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planwise/planwise/config"
	"github.com/planwise/planwise/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), config.GormConfig(logger.Discard))
	require.NoError(t, err)
	return New(db), mock
}

var taskColumns = []string{"id", "user_id", "title", "priority", "estimated_duration", "cognitive_load", "is_deep_work", "completed"}

func TestUpdateTaskTransitionLocksAndAppliesBothWrites(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `tasks` WHERE id = \\? AND user_id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow("t1", "u1", "report", "medium", 30, 5, false, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `total_points`=total_points + ?")).
		WithArgs(4, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `tasks` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `tasks` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow("t1", "u1", "report", "medium", 30, 5, false, true))
	mock.ExpectCommit()

	var seen models.Task
	task, change, err := s.UpdateTaskTransition(context.Background(), "u1", "t1", func(current *models.Task) TaskChange {
		seen = *current
		return TaskChange{Fields: map[string]interface{}{"completed": true}, PointsDelta: 4}
	})
	require.NoError(t, err)
	assert.False(t, seen.Completed, "plan sees the locked row")
	assert.True(t, task.Completed)
	assert.Equal(t, 4, change.PointsDelta)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskTransitionRollsBackPointsWhenTaskWriteFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `tasks`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow("t1", "u1", "report", "medium", 30, 5, false, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `total_points`=total_points + ?")).
		WithArgs(4, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `tasks` SET")).
		WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	_, _, err := s.UpdateTaskTransition(context.Background(), "u1", "t1", func(*models.Task) TaskChange {
		return TaskChange{Fields: map[string]interface{}{"completed": true}, PointsDelta: 4}
	})
	assert.EqualError(t, err, "deadlock found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskTransitionUnknownOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `tasks`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(taskColumns))
	mock.ExpectRollback()

	planned := false
	_, _, err := s.UpdateTaskTransition(context.Background(), "intruder", "t1", func(*models.Task) TaskChange {
		planned = true
		return TaskChange{}
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, planned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskTransitionMissingUserRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `tasks`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow("t1", "u1", "report", "medium", 30, 5, false, true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `total_points`=total_points + ?")).
		WithArgs(-4, "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := s.UpdateTaskTransition(context.Background(), "u1", "t1", func(*models.Task) TaskChange {
		return TaskChange{Fields: map[string]interface{}{"completed": false}, PointsDelta: -4}
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountTasksAppliesFilters(t *testing.T) {
	s, mock := newMockStore(t)
	done := true
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT count(*) FROM `tasks` WHERE user_id = ? AND completed = ? AND updated_at >= ? AND updated_at < ?")).
		WithArgs("u1", true, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(7))

	n, err := s.CountTasks(context.Background(), "u1", TaskFilter{Completed: &done, UpdatedFrom: &from, UpdatedTo: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTaskNotOwned(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `tasks` WHERE id = ? AND user_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindTask(context.Background(), "someone-else", "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTaskMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `tasks` WHERE id = ? AND user_id = ?")).
		WithArgs("t1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteTask(context.Background(), "u1", "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPracticeLocksAndRecomputesLevel(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_skills` WHERE id = \\? AND user_id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "skill_name", "target_level", "current_level", "total_practice_time"}).
			AddRow("s1", "u1", "piano", 10, 2, 100))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `user_skills` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	skill, err := s.AddPractice(context.Background(), "u1", "s1", 25, at, func(total int) int { return total/60 + 1 })
	require.NoError(t, err)
	assert.Equal(t, 125, skill.TotalPracticeTime)
	assert.Equal(t, 3, skill.CurrentLevel)
	require.NotNil(t, skill.LastPracticed)
	assert.True(t, skill.LastPracticed.Equal(at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPracticeUnknownSkill(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.AddPractice(context.Background(), "u1", "nope", 10, time.Now(), func(int) int { return 1 })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEventsByCategory(t *testing.T) {
	s, mock := newMockStore(t)
	when := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campus_events` WHERE category = ? ORDER BY event_date ASC")).
		WithArgs("career").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "event_date", "created_by"}).
			AddRow("e1", "Career fair", "career", when, "u1"))

	events, err := s.ListEvents(context.Background(), "career")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Career fair", events[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
