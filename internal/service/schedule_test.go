package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yipai/yipai/internal/config"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/scheduler/expander"
)

// fakePool 内存员工池
type fakePool struct {
	employees []*model.Employee
	listErr   error
}

func (p *fakePool) ListActive(ctx context.Context) ([]*model.Employee, error) {
	return p.employees, p.listErr
}

func (p *fakePool) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	for _, emp := range p.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return nil, nil
}

// fakeStore 内存分配存储
type fakeStore struct {
	existing []*model.ShiftAssignment
	saved    [][]*model.ShiftAssignment
	created  []*model.ShiftAssignment
	saveErr  error
}

func (s *fakeStore) SaveBatch(ctx context.Context, assignments []*model.ShiftAssignment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, assignments)
	return nil
}

func (s *fakeStore) Create(ctx context.Context, a *model.ShiftAssignment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.created = append(s.created, a)
	return nil
}

func (s *fakeStore) ListBetween(ctx context.Context, startDate, endDate string) ([]*model.ShiftAssignment, error) {
	var result []*model.ShiftAssignment
	for _, a := range s.existing {
		if a.Date >= startDate && a.Date <= endDate {
			result = append(result, a)
		}
	}
	return result, nil
}

// fakeNotifier 记录发布的运行结果
type fakeNotifier struct {
	published []*model.ScheduleRun
}

func (n *fakeNotifier) PublishRun(run *model.ScheduleRun) {
	n.published = append(n.published, run)
}

func makeNurse(name string, maxShifts int) *model.Employee {
	return &model.Employee{
		BaseModel:         model.BaseModel{ID: uuid.New()},
		Name:              name,
		Role:              model.RoleNurse,
		Status:            "active",
		MaxShiftsPerMonth: maxShifts,
	}
}

func makePool(n, maxShifts int) []*model.Employee {
	pool := make([]*model.Employee, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, makeNurse("护士"+string(rune('A'+i)), maxShifts))
	}
	return pool
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		DefaultTimeout:    30 * time.Second,
		MinCapacityRatio:  0.30,
		WarnCapacityRatio: 0.80,
	}
}

// futureDate 返回明年的固定日期，避免撞上过去日期排除
func futureDate() string {
	return time.Now().AddDate(1, 0, 0).Format("2006-01-02")
}

func wardRequest(count int) *expander.Request {
	return &expander.Request{
		Locations: []model.Location{
			{Name: "内科病区", Class: model.UnitGeneral},
		},
		Pattern: map[string]map[model.ShiftType]int{
			"内科病区": {model.ShiftMorning: count},
		},
	}
}

func TestRunDaySavesAndNotifies(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := NewScheduleService(&fakePool{employees: makePool(5, 20)}, store, notifier, testConfig())

	run, err := svc.RunDay(context.Background(), wardRequest(3), futureDate())
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}

	if len(run.Assignments) != 3 {
		t.Errorf("应产生3条分配，实际 %d", len(run.Assignments))
	}
	if len(store.saved) != 1 {
		t.Fatalf("应恰好调用1次批量写入，实际 %d", len(store.saved))
	}
	if len(store.saved[0]) != 3 {
		t.Errorf("批量写入应包含3条分配，实际 %d", len(store.saved[0]))
	}
	if len(notifier.published) != 1 {
		t.Errorf("应发布1次运行通知，实际 %d", len(notifier.published))
	}
}

func TestRunDayPersistenceFailure(t *testing.T) {
	store := &fakeStore{saveErr: stderrors.New("connection reset")}
	notifier := &fakeNotifier{}
	svc := NewScheduleService(&fakePool{employees: makePool(5, 20)}, store, notifier, testConfig())

	_, err := svc.RunDay(context.Background(), wardRequest(3), futureDate())
	if err == nil {
		t.Fatal("写入失败应返回错误")
	}
	// 写入失败与排班失败严格区分
	if !errors.Is(err, errors.CodePersistenceFail) {
		t.Errorf("错误码应为 PERSISTENCE_FAILURE，实际 %s", errors.GetCode(err))
	}
	if len(notifier.published) != 0 {
		t.Error("写入失败时不应发布通知")
	}
}

func TestRunDayInsufficientStaff(t *testing.T) {
	store := &fakeStore{}
	svc := NewScheduleService(&fakePool{employees: makePool(2, 1)}, store, nil, testConfig())

	// 容量2，需求10 → 容量比0.2
	_, err := svc.RunDay(context.Background(), wardRequest(10), futureDate())
	if !errors.Is(err, errors.CodeInsufficientStaff) {
		t.Errorf("错误码应为 INSUFFICIENT_STAFF，实际 %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("排班失败时不应写入任何数据")
	}
}

func TestRunDayNilNotifier(t *testing.T) {
	svc := NewScheduleService(&fakePool{employees: makePool(3, 20)}, &fakeStore{}, nil, testConfig())

	// 通知器为空时不应崩溃
	if _, err := svc.RunDay(context.Background(), wardRequest(2), futureDate()); err != nil {
		t.Fatalf("无通知器也应正常运行: %v", err)
	}
}

func TestValidateShiftEmployeeNotFound(t *testing.T) {
	svc := NewScheduleService(&fakePool{employees: makePool(2, 20)}, &fakeStore{}, nil, testConfig())

	req := &ShiftRequest{
		EmployeeID: uuid.New(),
		Date:       futureDate(),
		Location:   model.Location{Name: "内科病区", Class: model.UnitGeneral},
		ShiftType:  model.ShiftMorning,
	}
	_, err := svc.ValidateShift(context.Background(), req)
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("未知员工应返回 NOT_FOUND，实际 %v", err)
	}
}

func TestCreateShiftConflictRejected(t *testing.T) {
	pool := makePool(2, 20)
	busy := pool[0]
	date := futureDate()

	start, end := model.ShiftMorning.DefaultWindow()
	store := &fakeStore{existing: []*model.ShiftAssignment{{
		ID:         uuid.New(),
		EmployeeID: busy.ID,
		Date:       date,
		ShiftType:  model.ShiftMorning,
		StartTime:  start,
		EndTime:    end,
	}}}
	svc := NewScheduleService(&fakePool{employees: pool}, store, nil, testConfig())

	req := &ShiftRequest{
		EmployeeID: busy.ID,
		Date:       date,
		Location:   model.Location{Name: "内科病区", Class: model.UnitGeneral},
		ShiftType:  model.ShiftMorning,
	}
	_, err := svc.CreateShift(context.Background(), req)
	if !errors.Is(err, errors.CodeConflict) {
		t.Fatalf("重叠班次应返回 CONFLICT，实际 %v", err)
	}
	if len(store.created) != 0 {
		t.Error("冲突时不应写入任何数据")
	}
}

func TestCreateShiftSuccess(t *testing.T) {
	pool := makePool(2, 20)
	store := &fakeStore{}
	svc := NewScheduleService(&fakePool{employees: pool}, store, nil, testConfig())

	req := &ShiftRequest{
		EmployeeID: pool[0].ID,
		Date:       futureDate(),
		Location:   model.Location{Name: "内科病区", Class: model.UnitGeneral},
		ShiftType:  model.ShiftNight,
	}
	a, err := svc.CreateShift(context.Background(), req)
	if err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}
	if a.EmployeeID != pool[0].ID || a.ShiftType != model.ShiftNight {
		t.Errorf("分配内容错误: %+v", a)
	}
	if len(store.created) != 1 {
		t.Errorf("应写入1条分配，实际 %d", len(store.created))
	}
	t.Logf("手工班次: %s %s 分数=%.1f", a.Date, a.ShiftType, a.Score)
}

func TestWorkloadStatsValidation(t *testing.T) {
	svc := NewScheduleService(&fakePool{}, &fakeStore{}, nil, testConfig())

	if _, err := svc.WorkloadStats(context.Background(), "bad", "2026-09-30"); !errors.Is(err, errors.CodeInvalidInput) {
		t.Error("非法日期应返回 INVALID_INPUT")
	}
	if _, err := svc.WorkloadStats(context.Background(), "2026-09-30", "2026-09-01"); !errors.Is(err, errors.CodeInvalidInput) {
		t.Error("起始晚于结束应返回 INVALID_INPUT")
	}
}

func TestWorkloadStatsReport(t *testing.T) {
	pool := makePool(2, 20)
	start, end := model.ShiftMorning.DefaultWindow()
	store := &fakeStore{existing: []*model.ShiftAssignment{{
		ID:         uuid.New(),
		EmployeeID: pool[0].ID,
		Date:       "2026-09-01",
		ShiftType:  model.ShiftMorning,
		StartTime:  start,
		EndTime:    end,
	}}}
	svc := NewScheduleService(&fakePool{employees: pool}, store, nil, testConfig())

	report, err := svc.WorkloadStats(context.Background(), "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if report.Fairness == nil || len(report.Fairness.EmployeeStats) != 2 {
		t.Errorf("报告应覆盖2名在池员工: %+v", report.Fairness)
	}
}
