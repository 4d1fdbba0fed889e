package service_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"taskapp/config"
	"taskapp/infras/kafka"
	kafkaMocks "taskapp/infras/kafka/mocks"
	"taskapp/infras/otel/mocks"
	"taskapp/infras/postgres"
	taskMocks "taskapp/internal/domains/task/mocks"
	"taskapp/internal/domains/task/model"
	"taskapp/internal/domains/task/model/dto"
	"taskapp/internal/domains/task/service"
	gDto "taskapp/shared/dto"
	"taskapp/shared/failure"
	txMocks "taskapp/shared/transaction/mocks"
)

var errDatabase = errors.New("database error")

func ptr[T any](v T) *T {
	return &v
}

const eventTopic = "task-events"

type fixture struct {
	repo   *taskMocks.MockTask
	tx     *txMocks.MockManager
	events *kafkaMocks.MockClient
	svc    service.Task
}

// newFixture accepts any event publication; tests asserting on events use newStrictFixture.
func newFixture(t *testing.T) fixture {
	t.Helper()

	f := newStrictFixture(t)
	f.events.EXPECT().SendMessages(gomock.Any(), eventTopic, gomock.Any()).Return(nil).AnyTimes()

	return f
}

func newStrictFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := taskMocks.NewMockTask(ctrl)
	tx := txMocks.NewMockManager(ctrl)
	events := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.External.Kafka.Topic = eventTopic

	return fixture{
		repo:   repo,
		tx:     tx,
		events: events,
		svc:    service.New(repo, tx, events, cfg, mocks.NewOtel()),
	}
}

// expectTx runs the unit of work directly, without a real transaction.
func (f fixture) expectTx() {
	f.tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

// memoryStore backs the repository mock with a map so that sequences of calls
// observe each other's writes.
type memoryStore struct {
	nextID int64
	tasks  map[int64]model.Task
}

func (f fixture) withMemoryStore() *memoryStore {
	store := &memoryStore{tasks: map[int64]model.Task{}}

	f.tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		}).AnyTimes()

	f.repo.EXPECT().
		FindAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams) ([]model.Task, error) {
			return store.list(func(model.Task) bool { return true }), nil
		}).AnyTimes()

	f.repo.EXPECT().
		FindByCompleted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, completed bool) ([]model.Task, error) {
			return store.list(func(task model.Task) bool { return task.Completed == completed }), nil
		}).AnyTimes()

	find := func(_ context.Context, _ *sqlx.Tx, id int64) (model.Task, error) {
		return store.tasks[id], nil
	}

	f.repo.EXPECT().
		FindByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id int64) (model.Task, error) {
			return find(ctx, nil, id)
		}).AnyTimes()

	f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(find).AnyTimes()

	f.repo.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.Task) (model.Task, error) {
			if !task.Exists() {
				store.nextID++
				task.ID = store.nextID
			}

			store.tasks[task.ID] = task

			return task, nil
		}).AnyTimes()

	f.repo.EXPECT().
		DeleteByID(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, id int64) error {
			delete(store.tasks, id)

			return nil
		}).AnyTimes()

	return store
}

func (s *memoryStore) list(keep func(model.Task) bool) []model.Task {
	tasks := []model.Task{}

	for id := int64(1); id <= s.nextID; id++ {
		if task, ok := s.tasks[id]; ok && keep(task) {
			tasks = append(tasks, task)
		}
	}

	return tasks
}

func TestTaskService_GetAllTasks(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		want      dto.TasksResponse
		wantErr   bool
	}{
		{
			name: "returns every task",
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					FindAll(gomock.Any(), gDto.QueryParams{}).
					Return([]model.Task{{ID: 1, Title: "Buy milk"}, {ID: 2, Title: "Walk dog", Completed: true}}, nil)
			},
			want: dto.TasksResponse{{ID: 1, Title: "Buy milk"}, {ID: 2, Title: "Walk dog", Completed: true}},
		},
		{
			name: "empty store yields empty list",
			setupMock: func(f fixture) {
				f.repo.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return([]model.Task{}, nil)
			},
			want: dto.TasksResponse{},
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(nil, errDatabase)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			got, err := f.svc.GetAllTasks(context.Background(), gDto.QueryParams{})

			if tt.wantErr {
				assert.ErrorIs(t, err, errDatabase)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskService_GetTaskByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(model.Task{ID: 1, Title: "Buy milk"}, nil)

		got, found, err := f.svc.GetTaskByID(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, dto.TaskResponse{ID: 1, Title: "Buy milk"}, got)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().FindByID(gomock.Any(), int64(999)).Return(model.Task{}, nil)

		_, found, err := f.svc.GetTaskByID(context.Background(), 999)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(model.Task{}, errDatabase)

		_, found, err := f.svc.GetTaskByID(context.Background(), 1)

		assert.ErrorIs(t, err, errDatabase)
		assert.False(t, found)
	})
}

func TestTaskService_GetTasksByStatus(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FindByCompleted(gomock.Any(), true).Return([]model.Task{{ID: 2, Title: "Walk dog", Completed: true}}, nil)

	got, err := f.svc.GetTasksByStatus(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)
}

func TestTaskService_SearchTasks(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FindByTitleContaining(gomock.Any(), "MILK").Return([]model.Task{{ID: 1, Title: "Buy milk"}}, nil)

	got, err := f.svc.SearchTasks(context.Background(), "MILK")

	require.NoError(t, err)
	assert.Equal(t, dto.TasksResponse{{ID: 1, Title: "Buy milk"}}, got)
}

func TestTaskService_SearchTasks_Error(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FindByTitleContaining(gomock.Any(), gomock.Any()).Return(nil, errDatabase)

	_, err := f.svc.SearchTasks(context.Background(), "x")

	assert.ErrorIs(t, err, errDatabase)
}

func TestTaskService_CreateTask(t *testing.T) {
	t.Run("assigns id", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().
			Save(gomock.Any(), gomock.Nil(), model.Task{Title: "Buy milk", Description: ptr("2 liters")}).
			Return(model.Task{ID: 1, Title: "Buy milk", Description: ptr("2 liters")}, nil)

		got, err := f.svc.CreateTask(context.Background(), dto.CreateTaskRequest{Title: ptr("Buy milk"), Description: ptr("2 liters")})

		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.False(t, got.Completed)
		assert.Equal(t, "2 liters", *got.Description)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Task{}, errDatabase)

		_, err := f.svc.CreateTask(context.Background(), dto.CreateTaskRequest{Title: ptr("Buy milk")})

		assert.ErrorIs(t, err, errDatabase)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	t.Run("replaces every field", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().
			FindByIDTx(gomock.Any(), gomock.Any(), int64(1)).
			Return(model.Task{ID: 1, Title: "Buy milk", Description: ptr("2 liters"), Completed: true}, nil)
		f.repo.EXPECT().
			Save(gomock.Any(), gomock.Any(), model.Task{ID: 1, Title: "Buy oat milk"}).
			Return(model.Task{ID: 1, Title: "Buy oat milk"}, nil)

		got, err := f.svc.UpdateTask(context.Background(), 1, dto.UpdateTaskRequest{Title: ptr("Buy oat milk")})

		require.NoError(t, err)
		assert.Equal(t, dto.TaskResponse{ID: 1, Title: "Buy oat milk"}, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(999)).Return(model.Task{}, nil)

		_, err := f.svc.UpdateTask(context.Background(), 999, dto.UpdateTaskRequest{Title: ptr("x")})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "Task not found with id: 999")
	})

	t.Run("save error", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(1)).Return(model.Task{ID: 1, Title: "a"}, nil)
		f.repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Task{}, errDatabase)

		_, err := f.svc.UpdateTask(context.Background(), 1, dto.UpdateTaskRequest{Title: ptr("b")})

		assert.ErrorIs(t, err, errDatabase)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(1)).Return(model.Task{ID: 1, Title: "a"}, nil)
		f.repo.EXPECT().DeleteByID(gomock.Any(), gomock.Any(), int64(1)).Return(nil)

		assert.NoError(t, f.svc.DeleteTask(context.Background(), 1))
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(999)).Return(model.Task{}, nil)

		err := f.svc.DeleteTask(context.Background(), 999)

		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("transaction error", func(t *testing.T) {
		f := newFixture(t)
		f.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).Return(errDatabase)

		err := f.svc.DeleteTask(context.Background(), 1)

		assert.ErrorIs(t, err, errDatabase)
	})
}

func TestTaskService_ToggleTaskStatus(t *testing.T) {
	t.Run("flips completed", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(1)).Return(model.Task{ID: 1, Title: "a"}, nil)
		f.repo.EXPECT().
			Save(gomock.Any(), gomock.Any(), model.Task{ID: 1, Title: "a", Completed: true}).
			Return(model.Task{ID: 1, Title: "a", Completed: true}, nil)

		got, err := f.svc.ToggleTaskStatus(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, got.Completed)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(999)).Return(model.Task{}, nil)

		_, err := f.svc.ToggleTaskStatus(context.Background(), 999)

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestTaskService_CreateThenGet(t *testing.T) {
	f := newFixture(t)
	f.withMemoryStore()
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, dto.CreateTaskRequest{Title: ptr("Buy milk"), Description: ptr("2 liters")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, found, err := f.svc.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created, got)
}

func TestTaskService_ToggleTwiceRestores(t *testing.T) {
	f := newFixture(t)
	f.withMemoryStore()
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, dto.CreateTaskRequest{Title: ptr("Buy milk")})
	require.NoError(t, err)

	once, err := f.svc.ToggleTaskStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.Completed, once.Completed)

	twice, err := f.svc.ToggleTaskStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, twice)
}

func TestTaskService_StatusPartitionsAll(t *testing.T) {
	f := newFixture(t)
	f.withMemoryStore()
	ctx := context.Background()

	for i, title := range []string{"a", "b", "c", "d"} {
		_, err := f.svc.CreateTask(ctx, dto.CreateTaskRequest{Title: ptr(title), Completed: i%2 == 0})
		require.NoError(t, err)
	}

	all, err := f.svc.GetAllTasks(ctx, gDto.QueryParams{})
	require.NoError(t, err)

	done, err := f.svc.GetTasksByStatus(ctx, true)
	require.NoError(t, err)

	pending, err := f.svc.GetTasksByStatus(ctx, false)
	require.NoError(t, err)

	assert.Len(t, all, len(done)+len(pending))
	assert.ElementsMatch(t, all, append(append(dto.TasksResponse{}, done...), pending...))
}

func TestTaskService_DeleteThenGet(t *testing.T) {
	f := newFixture(t)
	f.withMemoryStore()
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, dto.CreateTaskRequest{Title: ptr("Buy milk")})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTask(ctx, created.ID))

	_, found, err := f.svc.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)

	assert.True(t, failure.IsNotFound(f.svc.DeleteTask(ctx, created.ID)))
}

func TestTaskService_PublishesEvents(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newStrictFixture(t)
		f.expectTx()
		f.repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Task{ID: 4, Title: "a"}, nil)
		f.events.EXPECT().
			SendMessages(gomock.Any(), eventTopic, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)
				assert.Equal(t, "4", messages[0].Key)

				event, ok := messages[0].Value.(dto.TaskEvent)
				require.True(t, ok)
				assert.Equal(t, model.EventCreated, event.Type)
				assert.Equal(t, int64(4), event.Task.ID)

				return nil
			})

		_, err := f.svc.CreateTask(context.Background(), dto.CreateTaskRequest{Title: ptr("a")})

		require.NoError(t, err)
	})

	t.Run("publish failure keeps the change", func(t *testing.T) {
		f := newStrictFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(1)).Return(model.Task{ID: 1, Title: "a"}, nil)
		f.repo.EXPECT().DeleteByID(gomock.Any(), gomock.Any(), int64(1)).Return(nil)
		f.events.EXPECT().SendMessages(gomock.Any(), eventTopic, gomock.Any()).Return(errors.New("broker down"))

		assert.NoError(t, f.svc.DeleteTask(context.Background(), 1))
	})

	t.Run("nothing on not found", func(t *testing.T) {
		f := newStrictFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(9)).Return(model.Task{}, nil)

		_, err := f.svc.ToggleTaskStatus(context.Background(), 9)

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestTaskService_StorageUnavailable(t *testing.T) {
	errUnreachable := fmt.Errorf("failed to get data (task): %w",
		postgres.MarkUnavailable(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}))

	assertUnavailable := func(t *testing.T, err error) {
		t.Helper()

		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
		assert.Equal(t, "storage unavailable", failure.GetMessage(err))
	}

	t.Run("read", func(t *testing.T) {
		f := newStrictFixture(t)
		f.repo.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(nil, errUnreachable)

		_, err := f.svc.GetAllTasks(context.Background(), gDto.QueryParams{})

		assertUnavailable(t, err)
	})

	t.Run("lookup by id", func(t *testing.T) {
		f := newStrictFixture(t)
		f.repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(model.Task{}, errUnreachable)

		_, found, err := f.svc.GetTaskByID(context.Background(), 1)

		assertUnavailable(t, err)
		assert.False(t, found)
	})

	t.Run("mutation publishes nothing", func(t *testing.T) {
		f := newStrictFixture(t)
		f.expectTx()
		f.repo.EXPECT().FindByIDTx(gomock.Any(), gomock.Any(), int64(1)).Return(model.Task{}, errUnreachable)

		_, err := f.svc.ToggleTaskStatus(context.Background(), 1)

		assertUnavailable(t, err)
	})
}
