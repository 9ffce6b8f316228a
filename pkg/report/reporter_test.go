package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/workload"
)

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

func TestBuildFulfillmentRate(t *testing.T) {
	empID := uuid.New()
	assignments := []*model.ShiftAssignment{
		makeAssignment(empID, "2026-09-01"),
	}

	run := NewReporter().Build(Input{
		RunID:         uuid.New(),
		StartedAt:     time.Now(),
		TotalSeats:    4,
		Assignments:   assignments,
		Tracker:       workload.NewTracker(assignments),
		Limits:        model.DefaultWorkloadLimits(),
		CapacityRatio: 1.2,
	})

	if run.FilledSeats != 1 {
		t.Errorf("已填席位应为1，实际 %d", run.FilledSeats)
	}
	if run.FulfillmentRate != 25 {
		t.Errorf("满足率应为25%%，实际 %.1f", run.FulfillmentRate)
	}
	if !run.Success {
		t.Error("运行完成应标记成功")
	}
}

func TestBuildDedupesConflicts(t *testing.T) {
	empID := uuid.New()
	demandID := uuid.New()
	c := model.Conflict{
		Kind:       model.ConflictMonthlyCap,
		EmployeeID: empID,
		DemandID:   demandID,
		Date:       "2026-09-01",
		Severity:   model.SeverityBlocking,
	}

	run := NewReporter().Build(Input{
		RunID:      uuid.New(),
		StartedAt:  time.Now(),
		TotalSeats: 1,
		Conflicts:  []model.Conflict{c, c, c},
		Tracker:    workload.NewTracker(nil),
		Limits:     model.DefaultWorkloadLimits(),
	})

	if len(run.Conflicts) != 1 {
		t.Errorf("相同冲突应去重为1条，实际 %d", len(run.Conflicts))
	}

	// 不同类型不去重
	c2 := c
	c2.Kind = model.ConflictWeeklyCap
	run = NewReporter().Build(Input{
		RunID:      uuid.New(),
		StartedAt:  time.Now(),
		TotalSeats: 1,
		Conflicts:  []model.Conflict{c, c2},
		Tracker:    workload.NewTracker(nil),
		Limits:     model.DefaultWorkloadLimits(),
	})
	if len(run.Conflicts) != 2 {
		t.Errorf("不同类型冲突不应去重，实际 %d", len(run.Conflicts))
	}
}

func TestBuildWorkloadAlerts(t *testing.T) {
	heavy := &model.Employee{
		BaseModel:         model.BaseModel{ID: uuid.New()},
		Name:              "高负载护士",
		Status:            "active",
		MaxShiftsPerMonth: 10,
	}
	light := &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      "低负载护士",
		Status:    "active",
	}

	var assignments []*model.ShiftAssignment
	for day := 1; day <= 9; day++ {
		assignments = append(assignments, makeAssignment(heavy.ID, "2026-09-0"+string(rune('0'+day))))
	}

	run := NewReporter().Build(Input{
		RunID:       uuid.New(),
		StartedAt:   time.Now(),
		TotalSeats:  9,
		Assignments: assignments,
		Outcomes: []model.DemandOutcome{
			{Date: "2026-09-01", State: model.DemandFulfilled},
		},
		Pool:          []*model.Employee{heavy, light},
		Tracker:       workload.NewTracker(assignments),
		Limits:        model.DefaultWorkloadLimits(),
		CapacityRatio: 1.5,
	})

	if len(run.WorkloadAlerts) != 1 {
		t.Fatalf("仅高负载员工应产生预警，实际 %d", len(run.WorkloadAlerts))
	}
	alert := run.WorkloadAlerts[0]
	if alert.EmployeeID != heavy.ID || alert.Level != model.AlertApproaching {
		t.Errorf("预警内容错误: %+v", alert)
	}
	if alert.ShiftCount != 9 || alert.Cap != 10 {
		t.Errorf("预警计数错误: %d/%d", alert.ShiftCount, alert.Cap)
	}
}

func TestBuildExceededAlert(t *testing.T) {
	emp := &model.Employee{
		BaseModel:         model.BaseModel{ID: uuid.New()},
		Name:              "超载护士",
		Status:            "active",
		MaxShiftsPerMonth: 5,
	}

	// 运行前就已超上限的员工同样上报
	var existing []*model.ShiftAssignment
	for day := 1; day <= 6; day++ {
		existing = append(existing, makeAssignment(emp.ID, "2026-09-0"+string(rune('0'+day))))
	}

	run := NewReporter().Build(Input{
		RunID:      uuid.New(),
		StartedAt:  time.Now(),
		TotalSeats: 1,
		Outcomes: []model.DemandOutcome{
			{Date: "2026-09-10", State: model.DemandUnfulfilled},
		},
		Pool:          []*model.Employee{emp},
		Tracker:       workload.NewTracker(existing),
		Limits:        model.DefaultWorkloadLimits(),
		CapacityRatio: 1,
	})

	if len(run.WorkloadAlerts) != 1 || run.WorkloadAlerts[0].Level != model.AlertExceeded {
		t.Errorf("6/5 应产生 exceeded 预警: %+v", run.WorkloadAlerts)
	}
}

func TestBuildRecommendations(t *testing.T) {
	run := NewReporter().Build(Input{
		RunID:      uuid.New(),
		StartedAt:  time.Now(),
		TotalSeats: 100,
		Pool: []*model.Employee{
			{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "甲", Status: "active"},
		},
		Tracker:       workload.NewTracker(nil),
		Limits:        model.DefaultWorkloadLimits(),
		CapacityRatio: 0.5,
		PartialMode:   true,
	})

	if len(run.Recommendations) == 0 {
		t.Fatal("容量缺口应产生建议")
	}
	t.Logf("建议: %v", run.Recommendations)
}
