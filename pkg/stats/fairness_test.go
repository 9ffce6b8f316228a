package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/model"
)

func makeEmployee(name string) *model.Employee {
	return &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      name,
		Role:      model.RoleNurse,
		Status:    "active",
	}
}

func makeAssignment(empID uuid.UUID, date string, shiftType model.ShiftType) *model.ShiftAssignment {
	start, end := shiftType.DefaultWindow()
	return &model.ShiftAssignment{
		ID:         uuid.New(),
		EmployeeID: empID,
		Date:       date,
		ShiftType:  shiftType,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestAnalyzePerfectFairness(t *testing.T) {
	analyzer := NewFairnessAnalyzer()
	empA := makeEmployee("甲")
	empB := makeEmployee("乙")

	assignments := []*model.ShiftAssignment{
		makeAssignment(empA.ID, "2026-09-01", model.ShiftMorning),
		makeAssignment(empA.ID, "2026-09-02", model.ShiftMorning),
		makeAssignment(empB.ID, "2026-09-01", model.ShiftAfternoon),
		makeAssignment(empB.ID, "2026-09-02", model.ShiftAfternoon),
	}

	m := analyzer.Analyze(assignments, []*model.Employee{empA, empB})
	if m.ShiftGini != 0 {
		t.Errorf("均匀分配基尼系数应为0，实际 %.3f", m.ShiftGini)
	}
	if m.AvgShifts != 2 {
		t.Errorf("人均班次应为2，实际 %.1f", m.AvgShifts)
	}
	if m.MaxShifts != 2 || m.MinShifts != 2 {
		t.Errorf("最多/最少班次应为2/2，实际 %d/%d", m.MaxShifts, m.MinShifts)
	}
	if m.OverallFairnessScore != 100 {
		t.Errorf("完全公平评分应为100，实际 %.1f", m.OverallFairnessScore)
	}
}

func TestAnalyzeEmptyPool(t *testing.T) {
	m := NewFairnessAnalyzer().Analyze(nil, nil)
	if m.OverallFairnessScore != 100 {
		t.Errorf("空池评分应为100，实际 %.1f", m.OverallFairnessScore)
	}
}

func TestAnalyzeZeroShiftMember(t *testing.T) {
	analyzer := NewFairnessAnalyzer()
	empA := makeEmployee("甲")
	idle := makeEmployee("乙")

	assignments := []*model.ShiftAssignment{
		makeAssignment(empA.ID, "2026-09-01", model.ShiftMorning),
		makeAssignment(empA.ID, "2026-09-02", model.ShiftMorning),
	}

	// 无班次的在池员工必须参与统计，否则排除人会显得异常公平
	m := analyzer.Analyze(assignments, []*model.Employee{empA, idle})
	if len(m.EmployeeStats) != 2 {
		t.Fatalf("员工统计应包含2人，实际 %d", len(m.EmployeeStats))
	}
	if m.ShiftGini == 0 {
		t.Error("一人全包的方案基尼系数不应为0")
	}
	if m.MinShifts != 0 {
		t.Errorf("最少班次应为0，实际 %d", m.MinShifts)
	}
	// 排序：班次多者在前
	if m.EmployeeStats[0].EmployeeID != empA.ID {
		t.Error("员工统计应按班次数降序")
	}
	if m.EmployeeStats[1].ShiftCount != 0 {
		t.Errorf("闲置员工班次应为0，实际 %d", m.EmployeeStats[1].ShiftCount)
	}
}

func TestAnalyzeSkipsOutOfPoolAssignments(t *testing.T) {
	analyzer := NewFairnessAnalyzer()
	empA := makeEmployee("甲")
	outsider := uuid.New()

	assignments := []*model.ShiftAssignment{
		makeAssignment(empA.ID, "2026-09-01", model.ShiftMorning),
		makeAssignment(outsider, "2026-09-01", model.ShiftMorning),
	}

	m := analyzer.Analyze(assignments, []*model.Employee{empA})
	if len(m.EmployeeStats) != 1 || m.EmployeeStats[0].ShiftCount != 1 {
		t.Errorf("池外员工班次不应计入: %+v", m.EmployeeStats)
	}
}

func TestAnalyzeNightAndWeekend(t *testing.T) {
	analyzer := NewFairnessAnalyzer()
	empA := makeEmployee("甲")
	empB := makeEmployee("乙")

	// 2026-09-05 是周六；夜班全压在甲身上
	assignments := []*model.ShiftAssignment{
		makeAssignment(empA.ID, "2026-09-01", model.ShiftNight),
		makeAssignment(empA.ID, "2026-09-02", model.ShiftNight),
		makeAssignment(empB.ID, "2026-09-05", model.ShiftMorning),
		makeAssignment(empB.ID, "2026-09-03", model.ShiftMorning),
	}

	m := analyzer.Analyze(assignments, []*model.Employee{empA, empB})
	if m.ShiftGini != 0 {
		t.Errorf("总班次均匀，基尼应为0，实际 %.3f", m.ShiftGini)
	}
	if m.NightShiftGini == 0 {
		t.Error("夜班集中在一人，夜班基尼不应为0")
	}
	if m.WeekendShiftGini == 0 {
		t.Error("周末班集中在一人，周末基尼不应为0")
	}

	var aStat *EmployeeStat
	for i := range m.EmployeeStats {
		if m.EmployeeStats[i].EmployeeID == empA.ID {
			aStat = &m.EmployeeStats[i]
		}
	}
	if aStat == nil || aStat.NightShifts != 2 {
		t.Errorf("甲的夜班数应为2: %+v", aStat)
	}

	dist := m.ShiftTypeDistribution
	if dist[model.ShiftNight] != 50 || dist[model.ShiftMorning] != 50 {
		t.Errorf("班次类型占比应各为50%%: %+v", dist)
	}
}

func TestCompareRuns(t *testing.T) {
	analyzer := NewFairnessAnalyzer()
	empA := makeEmployee("甲")
	empB := makeEmployee("乙")
	pool := []*model.Employee{empA, empB}

	fair := []*model.ShiftAssignment{
		makeAssignment(empA.ID, "2026-09-01", model.ShiftMorning),
		makeAssignment(empB.ID, "2026-09-02", model.ShiftMorning),
	}
	unfair := []*model.ShiftAssignment{
		makeAssignment(empA.ID, "2026-09-01", model.ShiftMorning),
		makeAssignment(empA.ID, "2026-09-02", model.ShiftMorning),
	}

	diff := analyzer.CompareRuns(fair, unfair, pool)
	if diff["shift_gini_diff"] <= 0 {
		t.Errorf("方案2更不公平，基尼差应为正，实际 %.3f", diff["shift_gini_diff"])
	}
	if diff["overall_score_diff"] >= 0 {
		t.Errorf("方案2评分应更低，实际差 %.1f", diff["overall_score_diff"])
	}
	t.Logf("公平性对比: %v", diff)
}
