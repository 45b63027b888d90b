package extensionhandler

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"work-tracker-backend/models"
	extensionapimodels "work-tracker-backend/models/api/extension"
	reportapimodels "work-tracker-backend/models/api/report"
	taskapimodels "work-tracker-backend/models/api/task"
	dbmodels "work-tracker-backend/models/db"
)

const (
	testSpaceID = "space-1"
	testTaskID  = "task-1"
	testUserID  = "user-1"
)

type fakeExtensionStore struct {
	seq      int
	requests map[string]*dbmodels.ExtensionRequest
}

func (f *fakeExtensionStore) Create(rec dbmodels.ExtensionRequest) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("ext-%d", f.seq)
	rec.CreatedAt = time.Now()
	f.requests[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeExtensionStore) GetByID(spaceID, id string) (*dbmodels.ExtensionRequest, error) {
	rec, ok := f.requests[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	found := *rec
	return &found, nil
}

func (f *fakeExtensionStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	rec, ok := f.requests[id]
	if !ok || rec.SpaceID != spaceID {
		return errors.New("запрос не найден")
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.ExtensionStatus)
		case "decided_by_id":
			rec.DecidedByID = value.(string)
		case "decided_at":
			decidedAt := value.(time.Time)
			rec.DecidedAt = &decidedAt
		}
	}
	return nil
}

func (f *fakeExtensionStore) List(spaceID string, filter extensionapimodels.ExtensionFilter) ([]dbmodels.ExtensionRequest, error) {
	list := []dbmodels.ExtensionRequest{}
	for _, rec := range f.requests {
		if rec.SpaceID != spaceID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeExtensionStore) ListCount(spaceID string, filter extensionapimodels.ExtensionFilter) (int64, error) {
	list, _ := f.List(spaceID, filter)
	return int64(len(list)), nil
}

type fakeTaskStore struct {
	tasks map[string]*dbmodels.Task
}

func (f *fakeTaskStore) Create(rec dbmodels.Task) (string, error) { return "", nil }

func (f *fakeTaskStore) GetByID(spaceID, id string) (*dbmodels.Task, error) {
	rec, ok := f.tasks[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	found := *rec
	return &found, nil
}

func (f *fakeTaskStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	rec, ok := f.tasks[id]
	if !ok || rec.SpaceID != spaceID {
		return errors.New("задача не найдена")
	}
	if value, exist := updMap["due_date"]; exist {
		dueDate := value.(time.Time)
		rec.DueDate = &dueDate
	}
	return nil
}

func (f *fakeTaskStore) List(spaceID string, filter taskapimodels.TaskFilter) ([]dbmodels.Task, error) {
	return nil, nil
}

func (f *fakeTaskStore) ListCount(spaceID string, filter taskapimodels.TaskFilter) (int64, error) {
	return 0, nil
}

func (f *fakeTaskStore) ListForReport(spaceID string, filter reportapimodels.ReportFilter) ([]dbmodels.Task, error) {
	return nil, nil
}

func (f *fakeTaskStore) ListUpdatedSince(since time.Time, limit int) ([]dbmodels.Task, error) {
	return nil, nil
}

type fakeUserStore struct{}

func (f *fakeUserStore) GetByID(id string) (*dbmodels.SpaceUser, error) { return nil, nil }

func (f *fakeUserStore) List(spaceID string) ([]dbmodels.SpaceUser, error) { return nil, nil }

type fixture struct {
	store   *fakeExtensionStore
	tasks   *fakeTaskStore
	handler impl
}

func newFixture(status models.TaskStatus) *fixture {
	f := &fixture{
		store: &fakeExtensionStore{requests: map[string]*dbmodels.ExtensionRequest{}},
		tasks: &fakeTaskStore{tasks: map[string]*dbmodels.Task{}},
	}
	f.tasks.tasks[testTaskID] = &dbmodels.Task{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: testTaskID},
			SpaceID:   testSpaceID,
		},
		Title:           "Задача",
		AssignedUserIDs: []string{testUserID},
		Status:          status,
		IsActive:        true,
	}
	f.handler = impl{
		store:     f.store,
		taskStore: f.tasks,
		userStore: &fakeUserStore{},
	}
	return f
}

func testData() extensionapimodels.ExtensionRequestData {
	proposed := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return extensionapimodels.ExtensionRequestData{
		ProposedDueDate: &proposed,
		Reason:          "нужно согласование смежной команды",
	}
}

func TestCreateRequest(t *testing.T) {
	t.Run(`без причины`, func(t *testing.T) {
		f := newFixture(models.TaskStatusInProgress)
		data := testData()
		data.Reason = ""
		_, err := f.handler.Create(testSpaceID, testTaskID, testUserID, data)
		require.True(t, models.IsErrorKind(err, models.ErrKindValidation))
	})

	t.Run(`не исполнитель`, func(t *testing.T) {
		f := newFixture(models.TaskStatusInProgress)
		_, err := f.handler.Create(testSpaceID, testTaskID, "stranger", testData())
		require.True(t, models.IsErrorKind(err, models.ErrKindPermission))
	})

	t.Run(`по завершенной задаче`, func(t *testing.T) {
		f := newFixture(models.TaskStatusCompleted)
		_, err := f.handler.Create(testSpaceID, testTaskID, testUserID, testData())
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
	})

	t.Run(`успешное создание`, func(t *testing.T) {
		f := newFixture(models.TaskStatusInProgress)
		id, err := f.handler.Create(testSpaceID, testTaskID, testUserID, testData())
		require.Nil(t, err)
		require.Equal(t, models.ExtensionStatusPending, f.store.requests[id].Status)
	})
}

func TestApprove(t *testing.T) {
	f := newFixture(models.TaskStatusInProgress)
	id, err := f.handler.Create(testSpaceID, testTaskID, testUserID, testData())
	require.Nil(t, err)

	t.Run(`одобрение меняет срок задачи`, func(t *testing.T) {
		require.Nil(t, f.handler.Approve(testSpaceID, id, "admin-1"))
		rec := f.store.requests[id]
		require.Equal(t, models.ExtensionStatusApproved, rec.Status)
		require.Equal(t, "admin-1", rec.DecidedByID)
		require.NotNil(t, rec.DecidedAt)
		task := f.tasks.tasks[testTaskID]
		require.NotNil(t, task.DueDate)
		require.Equal(t, rec.ProposedDueDate, *task.DueDate)
	})

	t.Run(`повторное решение недопустимо`, func(t *testing.T) {
		err := f.handler.Approve(testSpaceID, id, "admin-1")
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
		err = f.handler.Reject(testSpaceID, id, "admin-1")
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
	})
}

func TestReject(t *testing.T) {
	f := newFixture(models.TaskStatusInProgress)
	id, err := f.handler.Create(testSpaceID, testTaskID, testUserID, testData())
	require.Nil(t, err)

	require.Nil(t, f.handler.Reject(testSpaceID, id, "admin-1"))
	rec := f.store.requests[id]
	require.Equal(t, models.ExtensionStatusRejected, rec.Status)
	// срок задачи не меняется
	require.Nil(t, f.tasks.tasks[testTaskID].DueDate)
}
