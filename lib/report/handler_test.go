package reporthandler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"work-tracker-backend/models"
	reportapimodels "work-tracker-backend/models/api/report"
	taskapimodels "work-tracker-backend/models/api/task"
	dbmodels "work-tracker-backend/models/db"
)

const testSpaceID = "space-1"

type fakeTaskStore struct {
	tasks []dbmodels.Task
}

func (f *fakeTaskStore) Create(rec dbmodels.Task) (string, error) { return "", nil }

func (f *fakeTaskStore) GetByID(spaceID, id string) (*dbmodels.Task, error) { return nil, nil }

func (f *fakeTaskStore) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }

func (f *fakeTaskStore) List(spaceID string, filter taskapimodels.TaskFilter) ([]dbmodels.Task, error) {
	return nil, nil
}

func (f *fakeTaskStore) ListCount(spaceID string, filter taskapimodels.TaskFilter) (int64, error) {
	return 0, nil
}

func (f *fakeTaskStore) ListForReport(spaceID string, filter reportapimodels.ReportFilter) ([]dbmodels.Task, error) {
	list := []dbmodels.Task{}
	for _, rec := range f.tasks {
		if rec.SpaceID != spaceID {
			continue
		}
		if filter.CompanyID != "" && rec.CompanyID != filter.CompanyID {
			continue
		}
		list = append(list, rec)
	}
	return list, nil
}

func (f *fakeTaskStore) ListUpdatedSince(since time.Time, limit int) ([]dbmodels.Task, error) {
	return nil, nil
}

type fakeSessionStore struct {
	sessions []dbmodels.TimeSession
}

func (f *fakeSessionStore) Create(rec dbmodels.TimeSession) (string, error) { return "", nil }

func (f *fakeSessionStore) GetActive(spaceID, taskID, userID string) (*dbmodels.TimeSession, error) {
	return nil, nil
}

func (f *fakeSessionStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeSessionStore) ListByTask(spaceID, taskID string) ([]dbmodels.TimeSession, error) {
	return nil, nil
}

func (f *fakeSessionStore) ListByTaskIDs(spaceID string, taskIDs []string) ([]dbmodels.TimeSession, error) {
	byID := map[string]bool{}
	for _, taskID := range taskIDs {
		byID[taskID] = true
	}
	list := []dbmodels.TimeSession{}
	for _, rec := range f.sessions {
		if rec.SpaceID == spaceID && byID[rec.TaskID] {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeUserStore struct {
	users []dbmodels.SpaceUser
}

func (f *fakeUserStore) GetByID(id string) (*dbmodels.SpaceUser, error) {
	for _, rec := range f.users {
		if rec.ID == id {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) List(spaceID string) ([]dbmodels.SpaceUser, error) {
	list := []dbmodels.SpaceUser{}
	for _, rec := range f.users {
		if rec.SpaceID == spaceID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fixture struct {
	tasks    *fakeTaskStore
	sessions *fakeSessionStore
	users    *fakeUserStore
	handler  impl
}

func newFixture() *fixture {
	f := &fixture{
		tasks:    &fakeTaskStore{},
		sessions: &fakeSessionStore{},
		users:    &fakeUserStore{},
	}
	f.handler = impl{
		taskStore:    f.tasks,
		sessionStore: f.sessions,
		userStore:    f.users,
	}
	return f
}

func (f *fixture) addUser(id, firstName, lastName string, role models.UserRole) {
	f.users.users = append(f.users.users, dbmodels.SpaceUser{
		BaseModel: dbmodels.BaseModel{ID: id},
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		SpaceID:   testSpaceID,
		Role:      role,
	})
}

func (f *fixture) addTask(id string, company *dbmodels.Company, status models.TaskStatus, assignees ...string) {
	companyID := ""
	if company != nil {
		companyID = company.ID
	}
	f.tasks.tasks = append(f.tasks.tasks, dbmodels.Task{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id, CreatedAt: time.Now()},
			SpaceID:   testSpaceID,
		},
		Title:           "Задача " + id,
		CompanyID:       companyID,
		Company:         company,
		AssignedUserIDs: assignees,
		Status:          status,
		IsActive:        true,
	})
}

func (f *fixture) addSession(taskID, userID string, startedAt time.Time, minutes int) {
	f.sessions.sessions = append(f.sessions.sessions, dbmodels.TimeSession{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: fmt.Sprintf("session-%d", len(f.sessions.sessions)+1)},
			SpaceID:   testSpaceID,
		},
		TaskID:          taskID,
		UserID:          userID,
		StartedAt:       startedAt,
		DurationMinutes: minutes,
		Status:          models.SessionStatusCompleted,
	})
}

func testCompany(id, name string, ratePerHour float64) *dbmodels.Company {
	return &dbmodels.Company{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   testSpaceID,
		},
		Name:        name,
		CostPerHour: ratePerHour,
		IsActive:    true,
	}
}

// 10 задач исполнителя, 7 завершены по 4 часа каждая:
// 0.7*70 + (4/8)*30 = 64
func newProductivityFixture() *fixture {
	f := newFixture()
	f.addUser("u1", "Иван", "Петров", models.SpaceUserRole)
	f.addUser("admin", "Анна", "Сидорова", models.SpaceAdminRole)
	company := testCompany("c1", "Ромашка", 60)
	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for idx := 0; idx < 7; idx++ {
		id := fmt.Sprintf("done-%d", idx+1)
		f.addTask(id, company, models.TaskStatusCompleted, "u1")
		f.addSession(id, "u1", day.AddDate(0, 0, idx%3), 240)
	}
	for idx := 0; idx < 3; idx++ {
		f.addTask(fmt.Sprintf("open-%d", idx+1), company, models.TaskStatusInProgress, "u1")
	}
	return f
}

func TestGeneralReport(t *testing.T) {
	f := newProductivityFixture()

	report, err := f.handler.General(testSpaceID, reportapimodels.ReportFilter{})
	require.Nil(t, err)
	require.Equal(t, 10, report.TotalTasks)
	require.Equal(t, 7*240, report.TotalTimeMin)
	require.Equal(t, 7, report.CountsByStatus[models.TaskStatusCompleted])
	require.Equal(t, 3, report.CountsByStatus[models.TaskStatusInProgress])
	require.Equal(t, 7*240, report.TimeByCompany["Ромашка"])
	require.Equal(t, 7*240, report.TimeByUser["Иван Петров"])
	// 1680 минут по ставке 60 в час
	require.InDelta(t, 1680.0, report.TotalCost, 1e-9)
}

func TestByUserReport(t *testing.T) {
	f := newProductivityFixture()

	report, err := f.handler.ByUser(testSpaceID, reportapimodels.ReportFilter{})
	require.Nil(t, err)
	// администраторы и сотрудники без задач не попадают в отчет
	require.Len(t, report.Users, 1)
	item := report.Users[0]
	require.Equal(t, "u1", item.UserID)
	require.Equal(t, "Иван Петров", item.UserName)
	require.Equal(t, 10, item.TaskCount)
	require.Equal(t, 7*240, item.TotalTimeMin)
	require.InDelta(t, 64.0, item.ProductivityScore, 1e-9)
	require.Len(t, item.RecentTasks, 10)
	// последние задачи идут от новых к старым
	require.Equal(t, "open-3", item.RecentTasks[0].ID)
}

func TestProductivityScore(t *testing.T) {
	t.Run(`без задач`, func(t *testing.T) {
		require.InDelta(t, 0.0, productivityScore(0, 0, 0), 1e-9)
	})

	t.Run(`все завершены мгновенно`, func(t *testing.T) {
		require.InDelta(t, 70.0, productivityScore(5, 5, 0), 1e-9)
	})

	t.Run(`средняя длительность ограничена 8 часами`, func(t *testing.T) {
		require.InDelta(t, 100.0, productivityScore(4, 4, 4*16*60), 1e-9)
	})
}

func TestTimeReport(t *testing.T) {
	f := newFixture()
	company := testCompany("c1", "Ромашка", 60)
	f.addTask("t1", company, models.TaskStatusCompleted, "u1")
	f.addTask("t2", company, models.TaskStatusInProgress, "u1")
	f.addSession("t1", "u1", time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC), 60)
	f.addSession("t1", "u1", time.Date(2026, 8, 4, 9, 0, 0, 0, time.UTC), 30)
	f.addSession("t2", "u1", time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC), 90)

	report, err := f.handler.Time(testSpaceID, reportapimodels.ReportFilter{})
	require.Nil(t, err)
	require.Equal(t, 180, report.TotalTimeMin)
	require.Equal(t, map[string]int{
		"2026-08-03": 60,
		"2026-08-04": 30,
		"2026-08-05": 90,
	}, report.DailyBreakdown)
	require.InDelta(t, 90.0, report.AvgTimePerTaskMin, 1e-9)
	require.Len(t, report.TopTasks, 2)
	require.Equal(t, "t1", report.TopTasks[0].ID)
	require.Equal(t, 90, report.TopTasks[0].TimeSpentMin)
}

func TestCostReport(t *testing.T) {
	f := newFixture()
	romashka := testCompany("c1", "Ромашка", 60)
	vasilek := testCompany("c2", "Василек", 120)
	f.addTask("t1", romashka, models.TaskStatusCompleted, "u1")
	f.addTask("t2", vasilek, models.TaskStatusCompleted, "u1")
	// задача без компании попадает в отчет с нулевой стоимостью
	f.addTask("t3", nil, models.TaskStatusInProgress, "u1")
	f.addSession("t1", "u1", time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC), 60)
	f.addSession("t2", "u1", time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC), 30)
	f.addSession("t3", "u1", time.Date(2026, 8, 6, 9, 0, 0, 0, time.UTC), 45)

	report, err := f.handler.Cost(testSpaceID, reportapimodels.ReportFilter{})
	require.Nil(t, err)
	require.InDelta(t, 120.0, report.TotalCost, 1e-9)
	require.InDelta(t, 60.0, report.CostByCompany["Ромашка"], 1e-9)
	require.InDelta(t, 60.0, report.CostByCompany["Василек"], 1e-9)
	require.InDelta(t, 0.0, report.CostByCompany["Неизвестная компания"], 1e-9)
	require.InDelta(t, 60.0, report.CostByMonth["2026-07"], 1e-9)
	require.InDelta(t, 60.0, report.CostByMonth["2026-08"], 1e-9)
	require.Len(t, report.TopTasks, 3)
	// при равной стоимости сохраняется исходный порядок
	require.Equal(t, "t1", report.TopTasks[0].ID)
	require.Equal(t, "t2", report.TopTasks[1].ID)
	require.Equal(t, "t3", report.TopTasks[2].ID)
}

func TestReportCompanyFilter(t *testing.T) {
	f := newFixture()
	romashka := testCompany("c1", "Ромашка", 60)
	vasilek := testCompany("c2", "Василек", 120)
	f.addTask("t1", romashka, models.TaskStatusInProgress, "u1")
	f.addTask("t2", vasilek, models.TaskStatusInProgress, "u1")

	report, err := f.handler.ByCompany(testSpaceID, reportapimodels.ReportFilter{CompanyID: "c2"})
	require.Nil(t, err)
	require.Len(t, report.Companies, 1)
	require.Equal(t, "Василек", report.Companies[0].CompanyName)
	require.Equal(t, 1, report.Companies[0].TaskCount)
}
