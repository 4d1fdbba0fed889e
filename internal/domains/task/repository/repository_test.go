package repository_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"taskapp/infras/otel/mocks"
	"taskapp/infras/postgres"
	"taskapp/internal/domains/task/model"
	"taskapp/internal/domains/task/repository"
	gDto "taskapp/shared/dto"
	"taskapp/shared/failure"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumns = []string{"id", "title", "description", "completed"}

func newRepository(t *testing.T) (repository.Task, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mocks.NewOtel()), sqlxDB, mock
}

func TestFindAll(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT tasks.id, tasks.title, tasks.description, tasks.completed FROM tasks\s+ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(1, "Buy milk", nil, false).
			AddRow(2, "Write report", "quarterly", true))

	tasks, err := repo.FindAll(context.Background(), gDto.QueryParams{})

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Nil(t, tasks[0].Description)
	require.NotNil(t, tasks[1].Description)
	assert.Equal(t, "quarterly", *tasks[1].Description)
	assert.True(t, tasks[1].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_Empty(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM tasks`).WillReturnRows(sqlmock.NewRows(taskColumns))

	tasks, err := repo.FindAll(context.Background(), gDto.QueryParams{})

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestFindAll_Sorted(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`ORDER BY title DESC`).WillReturnRows(sqlmock.NewRows(taskColumns))

	_, err := repo.FindAll(context.Background(), gDto.QueryParams{SortBy: model.FieldTitle, SortDir: gDto.SortDirDesc})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "unreachable database",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")},
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "rejected statement",
			err:      errors.New(`relation "tasks" does not exist`),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newRepository(t)

			mock.ExpectQuery(`SELECT (.+) FROM tasks`).WillReturnError(tt.err)

			_, err := repo.FindAll(context.Background(), gDto.QueryParams{})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestFindByID(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE \(tasks.id = \$1\)`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(7, "Buy milk", nil, false))

	task, err := repo.FindByID(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, task.Exists())
	assert.Equal(t, "Buy milk", task.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_Missing(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE`).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	task, err := repo.FindByID(context.Background(), 999)

	require.NoError(t, err)
	assert.False(t, task.Exists())
}

func TestFindByIDTx(t *testing.T) {
	repo, db, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE \(tasks.id = \$1\)`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(3, "Walk dog", nil, true))

	tx, err := db.Beginx()
	require.NoError(t, err)

	task, err := repo.FindByIDTx(context.Background(), tx, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), task.ID)
	assert.True(t, task.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCompleted(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE \(tasks.completed = \$1\) ORDER BY id ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(2, "Write report", nil, true))

	tasks, err := repo.FindByCompleted(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByTitleContaining(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		wantArg string
	}{
		{name: "plain keyword", keyword: "milk", wantArg: "%milk%"},
		{name: "wildcards are literal", keyword: "100%_done", wantArg: `%100\%\_done%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newRepository(t)

			mock.ExpectQuery(`WHERE \(LOWER\(tasks.title\) LIKE LOWER\(\$1\) ESCAPE '\\'\)`).
				WithArgs(tt.wantArg).
				WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(1, "Buy Milk", nil, false))

			tasks, err := repo.FindByTitleContaining(context.Background(), tt.keyword)

			require.NoError(t, err)
			assert.Len(t, tasks, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFindByTitleContaining_MixedCase(t *testing.T) {
	repo, _, mock := newRepository(t)

	// both sides go through LOWER, so the keyword is bound as typed
	mock.ExpectQuery(`WHERE \(LOWER\(tasks.title\) LIKE LOWER\(\$1\) ESCAPE '\\'\)`).
		WithArgs("%Ab%").
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(1, "AB testing", nil, false).
			AddRow(2, "Abbey road", nil, false).
			AddRow(3, "kebab", nil, true))

	tasks, err := repo.FindByTitleContaining(context.Background(), "Ab")

	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "AB testing", tasks[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Insert(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`INSERT INTO tasks \(title, description, completed\) VALUES \(\$1, \$2, \$3\) RETURNING id, title, description, completed`).
		WithArgs("Buy milk", sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(1, "Buy milk", nil, false))

	saved, err := repo.Save(context.Background(), nil, model.Task{Title: "Buy milk"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertTx(t *testing.T) {
	repo, db, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs("Buy milk", sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(5, "Buy milk", nil, true))

	tx, err := db.Beginx()
	require.NoError(t, err)

	saved, err := repo.Save(context.Background(), tx, model.Task{Title: "Buy milk", Completed: true})

	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Update(t *testing.T) {
	repo, db, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tasks SET completed = \$1, description = \$2, title = \$3 WHERE \(tasks.id = \$4\)`).
		WithArgs(true, sqlmock.AnyArg(), "Renamed", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)

	task := model.Task{ID: 4, Title: "Renamed", Completed: true}
	saved, err := repo.Save(context.Background(), tx, task)

	require.NoError(t, err)
	assert.Equal(t, task, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpdateMissing(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectExec(`UPDATE tasks SET`).
		WithArgs(false, sqlmock.AnyArg(), "Ghost", int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Save(context.Background(), nil, model.Task{ID: 999, Title: "Ghost"})

	require.Error(t, err)
	assert.True(t, failure.IsNotFound(err))
	assert.EqualError(t, err, "Task not found with id: 999")
}

func TestDeleteByID(t *testing.T) {
	repo, db, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM tasks WHERE \(tasks.id = \$1\)`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)

	assert.NoError(t, repo.DeleteByID(context.Background(), tx, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID_Error(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs(int64(2)).
		WillReturnError(errors.New("connection reset"))

	err := repo.DeleteByID(context.Background(), nil, 2)

	assert.ErrorContains(t, err, "failed to delete task")
}
