package score

import (
	"math"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/workload"
)

func makeEmployee(name string, role model.Role) *model.Employee {
	return &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      name,
		Role:      role,
		Status:    "active",
	}
}

func makeAssignment(empID uuid.UUID, date string) *model.ShiftAssignment {
	start, end := model.ShiftMorning.DefaultWindow()
	return &model.ShiftAssignment{
		ID:         uuid.New(),
		EmployeeID: empID,
		Date:       date,
		ShiftType:  model.ShiftMorning,
		StartTime:  start,
		EndTime:    end,
	}
}

func makeDemand() *model.ShiftDemand {
	return model.NewShiftDemand("2026-09-15",
		model.Location{Name: "内科病区", Class: model.UnitGeneral}, model.ShiftMorning, 1, 5)
}

func TestScoreBaseOnly(t *testing.T) {
	scorer := NewScorer(model.DefaultWorkloadLimits())
	emp := makeEmployee("护士甲", model.RoleNurse)
	tracker := workload.NewTracker(nil)

	// 中位数0、无偏好、无负载：只有基础分
	cand := scorer.Score(emp, makeDemand(), tracker, 0)
	if cand.Score != 50 {
		t.Errorf("空白员工应得基础分50，实际 %.1f", cand.Score)
	}
}

func TestScoreUnderMedianBonus(t *testing.T) {
	scorer := NewScorer(model.DefaultWorkloadLimits())
	emp := makeEmployee("护士乙", model.RoleNurse)
	tracker := workload.NewTracker(nil)

	cand := scorer.Score(emp, makeDemand(), tracker, 5)
	if cand.Score != 80 {
		t.Errorf("月班次低于中位数应得50+30=80，实际 %.1f", cand.Score)
	}
}

func TestScoreRoleMatchBonus(t *testing.T) {
	scorer := NewScorer(model.DefaultWorkloadLimits())
	emp := makeEmployee("医师甲", model.RolePhysician)
	tracker := workload.NewTracker(nil)

	demand := makeDemand()
	demand.PreferredRoles = []model.Role{model.RolePhysician}

	cand := scorer.Score(emp, demand, tracker, 0)
	if cand.Score != 60 {
		t.Errorf("角色命中偏好应得50+10=60，实际 %.1f", cand.Score)
	}
}

func TestScoreNearCapPenalty(t *testing.T) {
	limits := model.WorkloadLimits{MaxShiftsPerPerson: 10}.Normalize()
	scorer := NewScorer(limits)
	emp := makeEmployee("护士丙", model.RoleNurse)

	var existing []*model.ShiftAssignment
	for day := 1; day <= 9; day++ {
		existing = append(existing, makeAssignment(emp.ID, "2026-09-0"+string(rune('0'+day))))
	}
	tracker := workload.NewTracker(existing)

	// 分配后 10/10 = 100% 使用率，扣满20分
	cand := scorer.Score(emp, makeDemand(), tracker, 20)
	// 9 < 中位数20 → +30；满惩罚 -20
	// 惩罚经过比例除法，浮点比较需用误差界
	if math.Abs(cand.Score-60) > 1e-9 {
		t.Errorf("逼近上限应扣满惩罚，期望 50+30-20=60，实际 %v", cand.Score)
	}
}

func TestSortDeterministic(t *testing.T) {
	empA := makeEmployee("甲", model.RoleNurse)
	empB := makeEmployee("乙", model.RoleNurse)

	candidates := []Candidate{
		{Employee: empA, Score: 80, MonthCount: 5},
		{Employee: empB, Score: 80, MonthCount: 3},
	}
	Sort(candidates)
	if candidates[0].Employee.Name != "乙" {
		t.Error("平分时应取月班次更少者")
	}

	// 分数与月班次都相同时按员工ID字典序
	ids := []string{empA.ID.String(), empB.ID.String()}
	sort.Strings(ids)
	candidates = []Candidate{
		{Employee: empA, Score: 80, MonthCount: 3},
		{Employee: empB, Score: 80, MonthCount: 3},
	}
	Sort(candidates)
	if candidates[0].Employee.ID.String() != ids[0] {
		t.Error("完全平分时应按员工ID字典序")
	}
}

func TestPoolMedian(t *testing.T) {
	empA := makeEmployee("甲", model.RoleNurse)
	empB := makeEmployee("乙", model.RoleNurse)
	empC := makeEmployee("丙", model.RoleNurse)

	tracker := workload.NewTracker([]*model.ShiftAssignment{
		makeAssignment(empB.ID, "2026-09-01"),
		makeAssignment(empB.ID, "2026-09-02"),
		makeAssignment(empC.ID, "2026-09-01"),
		makeAssignment(empC.ID, "2026-09-02"),
		makeAssignment(empC.ID, "2026-09-03"),
		makeAssignment(empC.ID, "2026-09-04"),
	})

	// 计数 [0, 2, 4] → 中位数 2
	median := PoolMedian([]*model.Employee{empA, empB, empC}, tracker, "2026-09")
	if median != 2 {
		t.Errorf("中位数应为2，实际 %d", median)
	}

	if PoolMedian(nil, tracker, "2026-09") != 0 {
		t.Error("空池中位数应为0")
	}
}
