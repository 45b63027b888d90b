package reporthandler

import (
	"sort"

	"github.com/pkg/errors"

	"work-tracker-backend/db"
	"work-tracker-backend/lib/costing"
	sessionstore "work-tracker-backend/lib/task/session-store"
	taskstore "work-tracker-backend/lib/task/store"
	spaceusersstore "work-tracker-backend/lib/users/store"
	initchecker "work-tracker-backend/lib/utils/init-checker"
	"work-tracker-backend/models"
	reportapimodels "work-tracker-backend/models/api/report"
	dbmodels "work-tracker-backend/models/db"
)

// Отчеты только читают данные. Стоимость всегда выводится из сессий
// на момент построения, кешированные итоги задач не используются -
// отчет остается верным даже при пропущенном пересчете.

type Provider interface {
	General(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.GeneralReport, error)
	ByCompany(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.CompanyReport, error)
	ByUser(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.UserReport, error)
	Time(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.TimeReport, error)
	Cost(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.CostReport, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		taskStore:    taskstore.NewInstance(db.DB),
		sessionStore: sessionstore.NewInstance(db.DB),
		userStore:    spaceusersstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"taskStore", instance.taskStore,
		"sessionStore", instance.sessionStore,
		"userStore", instance.userStore,
	)
	Instance = instance
}

type impl struct {
	taskStore    taskstore.Provider
	sessionStore sessionstore.Provider
	userStore    spaceusersstore.Provider
}

const unknownCompanyName = "Неизвестная компания"

const (
	maxReportTasks = 10
	// веса метрики продуктивности и потолок средней длительности -
	// внешний контракт, воспроизводится как есть
	completionRateWeight = 70
	avgTimeWeight        = 30
	avgHoursCap          = 8.0
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

type reportData struct {
	tasks    []dbmodels.Task
	sessions map[string][]dbmodels.TimeSession // по идентификатору задачи
}

func (i impl) load(spaceID string, filter reportapimodels.ReportFilter) (reportData, error) {
	tasks, err := i.taskStore.ListForReport(spaceID, filter)
	if err != nil {
		return reportData{}, errors.Wrap(err, "ошибка получения задач для отчета")
	}
	taskIDs := make([]string, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	sessions, err := i.sessionStore.ListByTaskIDs(spaceID, taskIDs)
	if err != nil {
		return reportData{}, errors.Wrap(err, "ошибка получения сессий для отчета")
	}
	data := reportData{
		tasks:    tasks,
		sessions: map[string][]dbmodels.TimeSession{},
	}
	for _, session := range sessions {
		data.sessions[session.TaskID] = append(data.sessions[session.TaskID], session)
	}
	return data, nil
}

// taskTime - время задачи, выведенное заново из сессий
func (d reportData) taskTime(taskID string) int {
	total := 0
	for _, session := range d.sessions[taskID] {
		total += session.DurationMinutes
	}
	return total
}

// taskCost - стоимость задачи по текущей ставке компании,
// без компании безопасный ноль вместо ошибки
func (d reportData) taskCost(task dbmodels.Task, minutes int) float64 {
	if task.Company == nil {
		return 0
	}
	return costing.Cost(minutes, task.Company.CostPerHour)
}

func companyName(task dbmodels.Task) string {
	if task.Company == nil {
		return unknownCompanyName
	}
	return task.Company.Name
}

func (d reportData) brief(task dbmodels.Task) reportapimodels.TaskBrief {
	minutes := d.taskTime(task.ID)
	return reportapimodels.TaskBrief{
		ID:           task.ID,
		Title:        task.Title,
		CompanyName:  companyName(task),
		Status:       task.Status,
		TimeSpentMin: minutes,
		Cost:         costing.RoundMoney(d.taskCost(task, minutes)),
		CreatedAt:    task.CreatedAt,
	}
}

func (i impl) General(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.GeneralReport, error) {
	data, err := i.load(spaceID, filter)
	if err != nil {
		return reportapimodels.GeneralReport{}, err
	}
	report := reportapimodels.GeneralReport{
		TotalTasks:     len(data.tasks),
		CountsByStatus: map[models.TaskStatus]int{},
		TimeByCompany:  map[string]int{},
		TimeByUser:     map[string]int{},
	}
	totalCost := 0.0
	for _, task := range data.tasks {
		minutes := data.taskTime(task.ID)
		report.CountsByStatus[task.Status]++
		report.TotalTimeMin += minutes
		totalCost += data.taskCost(task, minutes)
		report.TimeByCompany[companyName(task)] += minutes
		for _, session := range data.sessions[task.ID] {
			report.TimeByUser[i.userName(session.UserID)] += session.DurationMinutes
		}
	}
	report.TotalCost = costing.RoundMoney(totalCost)
	return report, nil
}

func (i impl) ByCompany(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.CompanyReport, error) {
	data, err := i.load(spaceID, filter)
	if err != nil {
		return reportapimodels.CompanyReport{}, err
	}
	order := []string{}
	items := map[string]*reportapimodels.CompanyReportItem{}
	costs := map[string]float64{}
	for _, task := range data.tasks {
		name := companyName(task)
		item, exist := items[name]
		if !exist {
			item = &reportapimodels.CompanyReportItem{
				CompanyID:       task.CompanyID,
				CompanyName:     name,
				StatusHistogram: map[models.TaskStatus]int{},
			}
			items[name] = item
			order = append(order, name)
		}
		minutes := data.taskTime(task.ID)
		item.TaskCount++
		item.TotalTimeMin += minutes
		costs[name] += data.taskCost(task, minutes)
		item.StatusHistogram[task.Status]++
		if len(item.Tasks) < maxReportTasks {
			item.Tasks = append(item.Tasks, data.brief(task))
		}
	}
	report := reportapimodels.CompanyReport{
		Companies: make([]reportapimodels.CompanyReportItem, 0, len(order)),
	}
	for _, name := range order {
		item := items[name]
		item.TotalCost = costing.RoundMoney(costs[name])
		report.Companies = append(report.Companies, *item)
	}
	return report, nil
}

func (i impl) ByUser(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.UserReport, error) {
	data, err := i.load(spaceID, filter)
	if err != nil {
		return reportapimodels.UserReport{}, err
	}
	users, err := i.userStore.List(spaceID)
	if err != nil {
		return reportapimodels.UserReport{}, errors.Wrap(err, "ошибка получения сотрудников для отчета")
	}
	report := reportapimodels.UserReport{Users: []reportapimodels.UserReportItem{}}
	for _, user := range users {
		if user.Role.IsSpaceAdmin() || user.Role == models.UserRoleSuperAdmin {
			continue
		}
		userTasks := []dbmodels.Task{}
		for _, task := range data.tasks {
			if task.IsAssignee(user.ID) {
				userTasks = append(userTasks, task)
			}
		}
		if len(userTasks) == 0 {
			continue
		}
		item := reportapimodels.UserReportItem{
			UserID:          user.ID,
			UserName:        user.GetFullName(),
			TaskCount:       len(userTasks),
			StatusHistogram: map[models.TaskStatus]int{},
		}
		completedCount := 0
		completedMinutes := 0
		for _, task := range userTasks {
			minutes := data.taskTime(task.ID)
			item.TotalTimeMin += minutes
			item.StatusHistogram[task.Status]++
			if task.Status == models.TaskStatusCompleted {
				completedCount++
				completedMinutes += minutes
			}
		}
		item.ProductivityScore = productivityScore(len(userTasks), completedCount, completedMinutes)
		// до 10 последних задач
		for idx := len(userTasks) - 1; idx >= 0 && len(item.RecentTasks) < maxReportTasks; idx-- {
			item.RecentTasks = append(item.RecentTasks, data.brief(userTasks[idx]))
		}
		report.Users = append(report.Users, item)
	}
	return report, nil
}

// productivityScore - составная метрика 0-100: доля завершенных задач
// с весом 70 и средняя длительность завершенной задачи, ограниченная
// 8 часами, с весом 30
func productivityScore(taskCount, completedCount, completedMinutes int) float64 {
	if taskCount == 0 {
		return 0
	}
	completionRate := float64(completedCount) / float64(taskCount)
	avgHours := 0.0
	if completedCount > 0 {
		avgHours = float64(completedMinutes) / 60.0 / float64(completedCount)
	}
	if avgHours > avgHoursCap {
		avgHours = avgHoursCap
	}
	score := completionRate*completionRateWeight + avgHours/avgHoursCap*avgTimeWeight
	return costing.RoundMoney(score)
}

func (i impl) Time(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.TimeReport, error) {
	data, err := i.load(spaceID, filter)
	if err != nil {
		return reportapimodels.TimeReport{}, err
	}
	report := reportapimodels.TimeReport{
		DailyBreakdown: map[string]int{},
		TopTasks:       []reportapimodels.TaskBrief{},
	}
	for _, task := range data.tasks {
		report.TotalTimeMin += data.taskTime(task.ID)
		for _, session := range data.sessions[task.ID] {
			if session.DurationMinutes == 0 {
				continue
			}
			report.DailyBreakdown[session.StartedAt.Format(dayKeyLayout)] += session.DurationMinutes
		}
		report.TopTasks = append(report.TopTasks, data.brief(task))
	}
	if len(data.tasks) > 0 {
		report.AvgTimePerTaskMin = costing.RoundMoney(float64(report.TotalTimeMin) / float64(len(data.tasks)))
	}
	// стабильная сортировка: при равном времени сохраняется исходный порядок
	sort.SliceStable(report.TopTasks, func(a, b int) bool {
		return report.TopTasks[a].TimeSpentMin > report.TopTasks[b].TimeSpentMin
	})
	if len(report.TopTasks) > maxReportTasks {
		report.TopTasks = report.TopTasks[:maxReportTasks]
	}
	return report, nil
}

func (i impl) Cost(spaceID string, filter reportapimodels.ReportFilter) (reportapimodels.CostReport, error) {
	data, err := i.load(spaceID, filter)
	if err != nil {
		return reportapimodels.CostReport{}, err
	}
	report := reportapimodels.CostReport{
		CostByCompany: map[string]float64{},
		CostByMonth:   map[string]float64{},
		TopTasks:      []reportapimodels.TaskBrief{},
	}
	totalCost := 0.0
	companyCosts := map[string]float64{}
	monthCosts := map[string]float64{}
	for _, task := range data.tasks {
		minutes := data.taskTime(task.ID)
		cost := data.taskCost(task, minutes)
		totalCost += cost
		companyCosts[companyName(task)] += cost
		for _, session := range data.sessions[task.ID] {
			if session.DurationMinutes == 0 {
				continue
			}
			monthCosts[session.StartedAt.Format(monthKeyLayout)] += data.taskCost(task, session.DurationMinutes)
		}
		report.TopTasks = append(report.TopTasks, data.brief(task))
	}
	report.TotalCost = costing.RoundMoney(totalCost)
	for name, cost := range companyCosts {
		report.CostByCompany[name] = costing.RoundMoney(cost)
	}
	for month, cost := range monthCosts {
		report.CostByMonth[month] = costing.RoundMoney(cost)
	}
	sort.SliceStable(report.TopTasks, func(a, b int) bool {
		return report.TopTasks[a].Cost > report.TopTasks[b].Cost
	})
	if len(report.TopTasks) > maxReportTasks {
		report.TopTasks = report.TopTasks[:maxReportTasks]
	}
	return report, nil
}

func (i impl) userName(userID string) string {
	user, err := i.userStore.GetByID(userID)
	if err != nil || user == nil {
		return userID
	}
	return user.GetFullName()
}
