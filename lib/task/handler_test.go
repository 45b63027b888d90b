package taskhandler

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"work-tracker-backend/models"
	companyapimodels "work-tracker-backend/models/api/company"
	reportapimodels "work-tracker-backend/models/api/report"
	taskapimodels "work-tracker-backend/models/api/task"
	dbmodels "work-tracker-backend/models/db"
)

const (
	testSpaceID = "space-1"
	testUserID  = "user-1"
)

type fakeTaskStore struct {
	seq   int
	tasks map[string]*dbmodels.Task
}

func (f *fakeTaskStore) Create(rec dbmodels.Task) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("task-%d", f.seq)
	rec.CreatedAt = time.Now()
	f.tasks[rec.ID] = &rec
	return rec.ID, nil
}

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
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.TaskStatus)
		case "status_history":
			rec.StatusHistory = value.(dbmodels.StatusHistory)
		case "is_active":
			rec.IsActive = value.(bool)
		case "total_time_spent":
			rec.TotalTimeSpent = value.(int)
		case "total_cost":
			rec.TotalCost = value.(float64)
		}
	}
	return nil
}

func (f *fakeTaskStore) List(spaceID string, filter taskapimodels.TaskFilter) ([]dbmodels.Task, error) {
	list := []dbmodels.Task{}
	for _, rec := range f.tasks {
		if rec.SpaceID == spaceID && rec.IsActive {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeTaskStore) ListCount(spaceID string, filter taskapimodels.TaskFilter) (int64, error) {
	list, _ := f.List(spaceID, filter)
	return int64(len(list)), nil
}

func (f *fakeTaskStore) ListForReport(spaceID string, filter reportapimodels.ReportFilter) ([]dbmodels.Task, error) {
	return f.List(spaceID, taskapimodels.TaskFilter{})
}

func (f *fakeTaskStore) ListUpdatedSince(since time.Time, limit int) ([]dbmodels.Task, error) {
	list := []dbmodels.Task{}
	for _, rec := range f.tasks {
		if rec.IsActive {
			list = append(list, *rec)
		}
	}
	return list, nil
}

type fakeSessionStore struct {
	seq      int
	sessions map[string]*dbmodels.TimeSession
}

func (f *fakeSessionStore) Create(rec dbmodels.TimeSession) (string, error) {
	// поведение частичного уникального индекса
	if rec.Status == models.SessionStatusActive {
		for _, existing := range f.sessions {
			if existing.TaskID == rec.TaskID && existing.UserID == rec.UserID && existing.IsActive() {
				return "", models.NewConflictError("по задаче уже есть активная сессия")
			}
		}
	}
	f.seq++
	rec.ID = fmt.Sprintf("session-%d", f.seq)
	f.sessions[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeSessionStore) GetActive(spaceID, taskID, userID string) (*dbmodels.TimeSession, error) {
	for _, rec := range f.sessions {
		if rec.SpaceID == spaceID && rec.TaskID == taskID && rec.UserID == userID && rec.IsActive() {
			found := *rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	rec, ok := f.sessions[id]
	if !ok || rec.SpaceID != spaceID {
		return errors.New("сессия не найдена")
	}
	for key, value := range updMap {
		switch key {
		case "ended_at":
			endedAt := value.(time.Time)
			rec.EndedAt = &endedAt
		case "duration_minutes":
			rec.DurationMinutes = value.(int)
		case "status":
			rec.Status = value.(models.SessionStatus)
		case "cost":
			rec.Cost = value.(float64)
		}
	}
	return nil
}

func (f *fakeSessionStore) ListByTask(spaceID, taskID string) ([]dbmodels.TimeSession, error) {
	list := []dbmodels.TimeSession{}
	for _, rec := range f.sessions {
		if rec.SpaceID == spaceID && rec.TaskID == taskID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeSessionStore) ListByTaskIDs(spaceID string, taskIDs []string) ([]dbmodels.TimeSession, error) {
	list := []dbmodels.TimeSession{}
	for _, taskID := range taskIDs {
		byTask, _ := f.ListByTask(spaceID, taskID)
		list = append(list, byTask...)
	}
	return list, nil
}

type fakeCompanyStore struct {
	companies map[string]*dbmodels.Company
}

func (f *fakeCompanyStore) Create(rec dbmodels.Company) (string, error) {
	f.companies[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeCompanyStore) GetByID(spaceID, id string) (*dbmodels.Company, error) {
	rec, ok := f.companies[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	found := *rec
	return &found, nil
}

func (f *fakeCompanyStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	rec, ok := f.companies[id]
	if !ok || rec.SpaceID != spaceID {
		return errors.New("компания не найдена")
	}
	for key, value := range updMap {
		switch key {
		case "cost_per_hour":
			rec.CostPerHour = value.(float64)
		case "is_active":
			rec.IsActive = value.(bool)
		}
	}
	return nil
}

func (f *fakeCompanyStore) List(spaceID string, filter companyapimodels.CompanyFilter) ([]dbmodels.Company, error) {
	return nil, nil
}

func (f *fakeCompanyStore) ListCount(spaceID string, filter companyapimodels.CompanyFilter) (int64, error) {
	return 0, nil
}

type fakeUserStore struct {
	users map[string]*dbmodels.SpaceUser
}

func (f *fakeUserStore) GetByID(id string) (*dbmodels.SpaceUser, error) {
	rec, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	found := *rec
	return &found, nil
}

func (f *fakeUserStore) List(spaceID string) ([]dbmodels.SpaceUser, error) {
	list := []dbmodels.SpaceUser{}
	for _, rec := range f.users {
		if rec.SpaceID == spaceID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

type fixture struct {
	tasks     *fakeTaskStore
	sessions  *fakeSessionStore
	companies *fakeCompanyStore
	users     *fakeUserStore
	handler   impl
}

func newFixture() *fixture {
	f := &fixture{
		tasks:     &fakeTaskStore{tasks: map[string]*dbmodels.Task{}},
		sessions:  &fakeSessionStore{sessions: map[string]*dbmodels.TimeSession{}},
		companies: &fakeCompanyStore{companies: map[string]*dbmodels.Company{}},
		users:     &fakeUserStore{users: map[string]*dbmodels.SpaceUser{}},
	}
	f.handler = impl{
		store:        f.tasks,
		sessionStore: f.sessions,
		companyStore: f.companies,
		userStore:    f.users,
	}
	return f
}

func (f *fixture) seedCompany(id string, ratePerHour float64) {
	f.companies.companies[id] = &dbmodels.Company{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   testSpaceID,
		},
		Name:        "Компания " + id,
		CostPerHour: ratePerHour,
		Currency:    "RUB",
		IsActive:    true,
	}
}

func (f *fixture) seedTask(t *testing.T, companyID string, assignees ...string) string {
	t.Helper()
	id, err := f.handler.Create(testSpaceID, testUserID, taskapimodels.TaskData{
		Title:           "Задача",
		CompanyID:       companyID,
		AssignedUserIDs: assignees,
	})
	require.Nil(t, err)
	// обработчик читает задачу с предзагруженной компанией
	f.tasks.tasks[id].Company = f.companies.companies[companyID]
	return id
}

// backdateSession сдвигает начало активной сессии в прошлое
func (f *fixture) backdateSession(t *testing.T, taskID, userID string, ago time.Duration) {
	t.Helper()
	for _, rec := range f.sessions.sessions {
		if rec.TaskID == taskID && rec.UserID == userID && rec.IsActive() {
			rec.StartedAt = time.Now().Add(-ago)
			return
		}
	}
	t.Fatal("активная сессия не найдена")
}

func TestCreate(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)

	t.Run(`без названия`, func(t *testing.T) {
		_, err := f.handler.Create(testSpaceID, testUserID, taskapimodels.TaskData{
			CompanyID:       "company-1",
			AssignedUserIDs: []string{testUserID},
		})
		require.True(t, models.IsErrorKind(err, models.ErrKindValidation))
	})

	t.Run(`несуществующая компания`, func(t *testing.T) {
		_, err := f.handler.Create(testSpaceID, testUserID, taskapimodels.TaskData{
			Title:           "Задача",
			CompanyID:       "missing",
			AssignedUserIDs: []string{testUserID},
		})
		require.True(t, models.IsErrorKind(err, models.ErrKindNotFound))
	})

	t.Run(`успешное создание`, func(t *testing.T) {
		id := f.seedTask(t, "company-1", testUserID)
		rec := f.tasks.tasks[id]
		require.Equal(t, models.TaskStatusNotStarted, rec.Status)
		require.Equal(t, models.TaskPriorityMedium, rec.Priority)
		require.Len(t, rec.StatusHistory, 1)
		require.Equal(t, rec.Status, rec.LastHistoryStatus())
	})
}

func TestStart(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)
	taskID := f.seedTask(t, "company-1", testUserID)

	t.Run(`не исполнитель`, func(t *testing.T) {
		err := f.handler.Start(testSpaceID, taskID, "stranger")
		require.True(t, models.IsErrorKind(err, models.ErrKindPermission))
	})

	t.Run(`успешный старт`, func(t *testing.T) {
		err := f.handler.Start(testSpaceID, taskID, testUserID)
		require.Nil(t, err)
		rec := f.tasks.tasks[taskID]
		require.Equal(t, models.TaskStatusInProgress, rec.Status)
		require.Equal(t, rec.Status, rec.LastHistoryStatus())
		active, err := f.sessions.GetActive(testSpaceID, taskID, testUserID)
		require.Nil(t, err)
		require.NotNil(t, active)
	})

	t.Run(`повторный старт дает конфликт`, func(t *testing.T) {
		err := f.handler.Start(testSpaceID, taskID, testUserID)
		require.True(t, models.IsErrorKind(err, models.ErrKindConflict))
	})

	t.Run(`старт завершенной задачи`, func(t *testing.T) {
		doneID := f.seedTask(t, "company-1", testUserID)
		f.tasks.tasks[doneID].Status = models.TaskStatusCompleted
		err := f.handler.Start(testSpaceID, doneID, testUserID)
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
	})
}

func TestPause(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)
	taskID := f.seedTask(t, "company-1", testUserID)

	t.Run(`без активной сессии`, func(t *testing.T) {
		err := f.handler.Pause(testSpaceID, taskID, testUserID)
		require.True(t, models.IsErrorKind(err, models.ErrKindNotFound))
	})

	t.Run(`пауза закрывает сессию и фиксирует стоимость`, func(t *testing.T) {
		require.Nil(t, f.handler.Start(testSpaceID, taskID, testUserID))
		f.backdateSession(t, taskID, testUserID, time.Hour)

		err := f.handler.Pause(testSpaceID, taskID, testUserID)
		require.Nil(t, err)

		rec := f.tasks.tasks[taskID]
		require.Equal(t, models.TaskStatusPaused, rec.Status)
		require.Equal(t, rec.Status, rec.LastHistoryStatus())
		require.Equal(t, 60, rec.TotalTimeSpent)
		require.InDelta(t, 20.0, rec.TotalCost, 1e-9)

		list, err := f.sessions.ListByTask(testSpaceID, taskID)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, models.SessionStatusCompleted, list[0].Status)
		require.Equal(t, 60, list[0].DurationMinutes)
		require.InDelta(t, 20.0, list[0].Cost, 1e-9)
		require.NotNil(t, list[0].EndedAt)
	})
}

func TestResume(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)
	taskID := f.seedTask(t, "company-1", testUserID)

	t.Run(`возобновление не из паузы`, func(t *testing.T) {
		err := f.handler.Resume(testSpaceID, taskID, testUserID)
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
	})

	t.Run(`возобновление после паузы`, func(t *testing.T) {
		require.Nil(t, f.handler.Start(testSpaceID, taskID, testUserID))
		require.Nil(t, f.handler.Pause(testSpaceID, taskID, testUserID))

		err := f.handler.Resume(testSpaceID, taskID, testUserID)
		require.Nil(t, err)
		rec := f.tasks.tasks[taskID]
		require.Equal(t, models.TaskStatusInProgress, rec.Status)
		active, err := f.sessions.GetActive(testSpaceID, taskID, testUserID)
		require.Nil(t, err)
		require.NotNil(t, active)
	})
}

func TestComplete(t *testing.T) {
	t.Run(`завершение с активной сессией`, func(t *testing.T) {
		f := newFixture()
		f.seedCompany("company-1", 20)
		taskID := f.seedTask(t, "company-1", testUserID)
		require.Nil(t, f.handler.Start(testSpaceID, taskID, testUserID))
		f.backdateSession(t, taskID, testUserID, 30*time.Minute)

		err := f.handler.Complete(testSpaceID, taskID, testUserID, taskapimodels.CompleteData{})
		require.Nil(t, err)
		rec := f.tasks.tasks[taskID]
		require.Equal(t, models.TaskStatusCompleted, rec.Status)
		require.Equal(t, rec.Status, rec.LastHistoryStatus())
		require.Equal(t, 30, rec.TotalTimeSpent)
		require.InDelta(t, 10.0, rec.TotalCost, 1e-9)
	})

	t.Run(`повторное завершение не меняет историю`, func(t *testing.T) {
		f := newFixture()
		f.seedCompany("company-1", 20)
		taskID := f.seedTask(t, "company-1", testUserID)
		require.Nil(t, f.handler.Start(testSpaceID, taskID, testUserID))
		require.Nil(t, f.handler.Complete(testSpaceID, taskID, testUserID, taskapimodels.CompleteData{}))
		historyLen := len(f.tasks.tasks[taskID].StatusHistory)

		err := f.handler.Complete(testSpaceID, taskID, testUserID, taskapimodels.CompleteData{})
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
		require.Len(t, f.tasks.tasks[taskID].StatusHistory, historyLen)
	})

	t.Run(`завершение без учтенного времени с ручными минутами`, func(t *testing.T) {
		f := newFixture()
		f.seedCompany("company-1", 20)
		taskID := f.seedTask(t, "company-1", testUserID)

		err := f.handler.Complete(testSpaceID, taskID, testUserID, taskapimodels.CompleteData{ManualMinutes: 120})
		require.Nil(t, err)
		rec := f.tasks.tasks[taskID]
		require.Equal(t, models.TaskStatusCompleted, rec.Status)
		require.Equal(t, 120, rec.TotalTimeSpent)
		require.InDelta(t, 40.0, rec.TotalCost, 1e-9)

		list, err := f.sessions.ListByTask(testSpaceID, taskID)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, models.SessionStatusManual, list[0].Status)
	})
}

func TestAddManualTime(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)
	taskID := f.seedTask(t, "company-1", testUserID)

	t.Run(`неположительная длительность`, func(t *testing.T) {
		err := f.handler.AddManualTime(testSpaceID, taskID, testUserID, taskapimodels.ManualTimeData{})
		require.True(t, models.IsErrorKind(err, models.ErrKindValidation))
	})

	t.Run(`не исполнитель`, func(t *testing.T) {
		err := f.handler.AddManualTime(testSpaceID, taskID, "stranger", taskapimodels.ManualTimeData{Minutes: 15})
		require.True(t, models.IsErrorKind(err, models.ErrKindPermission))
	})

	t.Run(`успешное добавление`, func(t *testing.T) {
		err := f.handler.AddManualTime(testSpaceID, taskID, testUserID, taskapimodels.ManualTimeData{Minutes: 45})
		require.Nil(t, err)
		rec := f.tasks.tasks[taskID]
		require.Equal(t, 45, rec.TotalTimeSpent)
		require.InDelta(t, 15.0, rec.TotalCost, 1e-9)
	})

	t.Run(`добавление в завершенную задачу`, func(t *testing.T) {
		f.tasks.tasks[taskID].Status = models.TaskStatusCompleted
		err := f.handler.AddManualTime(testSpaceID, taskID, testUserID, taskapimodels.ManualTimeData{Minutes: 15})
		require.True(t, models.IsErrorKind(err, models.ErrKindInvalidState))
	})
}

func TestRecompute(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)
	taskID := f.seedTask(t, "company-1", testUserID)
	require.Nil(t, f.handler.AddManualTime(testSpaceID, taskID, testUserID, taskapimodels.ManualTimeData{Minutes: 90}))

	t.Run(`повторный пересчет дает тот же результат`, func(t *testing.T) {
		require.Nil(t, f.handler.Recompute(testSpaceID, taskID))
		first := *f.tasks.tasks[taskID]
		require.Nil(t, f.handler.Recompute(testSpaceID, taskID))
		require.Equal(t, first.TotalTimeSpent, f.tasks.tasks[taskID].TotalTimeSpent)
		require.InDelta(t, first.TotalCost, f.tasks.tasks[taskID].TotalCost, 1e-9)
		require.Equal(t, 90, f.tasks.tasks[taskID].TotalTimeSpent)
		require.InDelta(t, 30.0, f.tasks.tasks[taskID].TotalCost, 1e-9)
	})

	t.Run(`новая ставка применяется при пересчете`, func(t *testing.T) {
		f.companies.companies["company-1"].CostPerHour = 40
		require.Nil(t, f.handler.Recompute(testSpaceID, taskID))
		require.InDelta(t, 60.0, f.tasks.tasks[taskID].TotalCost, 1e-9)
	})

	t.Run(`недоступная компания не мешает учету времени`, func(t *testing.T) {
		f.companies.companies["company-1"].IsActive = false
		err := f.handler.Recompute(testSpaceID, taskID)
		require.True(t, models.IsErrorKind(err, models.ErrKindDependencyMissing))
		// время пересчитано, стоимость осталась прежней
		require.Equal(t, 90, f.tasks.tasks[taskID].TotalTimeSpent)
		require.InDelta(t, 60.0, f.tasks.tasks[taskID].TotalCost, 1e-9)
	})
}

func TestDeactivate(t *testing.T) {
	f := newFixture()
	f.seedCompany("company-1", 20)
	taskID := f.seedTask(t, "company-1", testUserID)

	require.Nil(t, f.handler.Deactivate(testSpaceID, taskID))
	_, err := f.handler.GetByID(testSpaceID, taskID)
	require.True(t, models.IsErrorKind(err, models.ErrKindNotFound))
}
