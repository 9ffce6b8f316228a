package engine

import (
	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/scheduler/conflict"
	"github.com/yipai/yipai/pkg/scheduler/score"
	"github.com/yipai/yipai/pkg/workload"
)

// Validation 单班次校验结果
type Validation struct {
	IsValid                bool             `json:"is_valid"`
	Score                  float64          `json:"score"`
	Violations             []model.Conflict `json:"violations"`
	Warnings               []string         `json:"warnings"`
	CanProceedWithWarnings bool             `json:"can_proceed_with_warnings"`
}

// ValidateSingle 校验"把某员工排进某需求"这一个候选分配
// 不落库、不修改任何状态；阻断级冲突进 Violations，
// 非阻断提示（如接近月上限）进 Warnings
func (e *Engine) ValidateSingle(
	emp *model.Employee,
	demand *model.ShiftDemand,
	pool []*model.Employee,
	existing []*model.ShiftAssignment,
	limits model.WorkloadLimits,
) (*Validation, error) {
	if emp == nil || demand == nil {
		return nil, errors.InvalidDemand("员工和需求都不能为空")
	}
	if !calendar.IsValidDate(demand.Date) {
		return nil, errors.InvalidDemand("日期格式应为 YYYY-MM-DD: " + demand.Date)
	}

	limits = limits.Normalize()
	tracker := workload.NewTracker(existing)
	detector := conflict.NewDetector(limits)
	scorer := score.NewScorer(limits)

	v := &Validation{IsValid: true}

	if !emp.IsActive() {
		v.IsValid = false
		v.Violations = append(v.Violations, model.Conflict{
			Kind:       model.ConflictIneligible,
			EmployeeID: emp.ID,
			DemandID:   demand.ID,
			Date:       demand.Date,
			Severity:   model.SeverityBlocking,
			Message:    "员工 " + emp.Name + " 当前不在岗",
		})
	}
	if demand.Location.IsCritical() && !emp.IsClinical() {
		v.IsValid = false
		v.Violations = append(v.Violations, model.Conflict{
			Kind:       model.ConflictIneligible,
			EmployeeID: emp.ID,
			DemandID:   demand.ID,
			Date:       demand.Date,
			Severity:   model.SeverityBlocking,
			Message:    "地点 " + demand.Location.Name + " 仅限临床角色",
		})
	}

	if res := detector.Check(emp, demand, tracker); !res.OK {
		v.IsValid = false
		v.Violations = append(v.Violations, model.Conflict{
			Kind:       res.Kind,
			EmployeeID: emp.ID,
			DemandID:   demand.ID,
			Date:       demand.Date,
			Severity:   model.SeverityBlocking,
			Message:    res.Message,
		})
	}

	if approaching, msg := detector.CheckApproaching(emp, demand, tracker); approaching {
		v.Warnings = append(v.Warnings, msg)
	}

	monthKey := calendar.MonthKey(demand.Date)
	median := score.PoolMedian(pool, tracker, monthKey)
	cand := scorer.Score(emp, demand, tracker, median)
	v.Score = cand.Score

	// 无阻断冲突且分数尚可时，允许带警告继续
	v.CanProceedWithWarnings = v.IsValid && v.Score > 30
	return v, nil
}
