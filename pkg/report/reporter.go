// Package report 提供排班运行结果汇总
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/workload"
)

// Input 汇总输入：引擎一次运行产生的全部原始产物
type Input struct {
	RunID         uuid.UUID
	StartedAt     time.Time
	TotalSeats    int
	Assignments   []*model.ShiftAssignment
	Conflicts     []model.Conflict
	Outcomes      []model.DemandOutcome
	Pool          []*model.Employee
	Tracker       *workload.Tracker
	Limits        model.WorkloadLimits
	CapacityRatio float64
	PartialMode   bool
}

// Reporter 结果汇总器
type Reporter struct{}

// NewReporter 创建结果汇总器
func NewReporter() *Reporter {
	return &Reporter{}
}

// Build 汇总为一次运行的最终结果
func (r *Reporter) Build(in Input) *model.ScheduleRun {
	filled := len(in.Assignments)

	rate := 100.0
	if in.TotalSeats > 0 {
		rate = float64(filled) / float64(in.TotalSeats) * 100
	}

	run := &model.ScheduleRun{
		ID:              in.RunID,
		StartedAt:       in.StartedAt,
		Duration:        time.Since(in.StartedAt),
		Success:         true,
		PartialMode:     in.PartialMode,
		CapacityRatio:   in.CapacityRatio,
		TotalSeats:      in.TotalSeats,
		FilledSeats:     filled,
		FulfillmentRate: rate,
		Assignments:     in.Assignments,
		Conflicts:       dedupeConflicts(in.Conflicts),
		WorkloadAlerts:  r.buildAlerts(in),
		Outcomes:        in.Outcomes,
		Recommendations: r.buildRecommendations(in, rate),
	}
	return run
}

// dedupeConflicts 按 员工+需求+类型 去重，保留首次出现的条目
func dedupeConflicts(conflicts []model.Conflict) []model.Conflict {
	seen := make(map[string]bool, len(conflicts))
	result := make([]model.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		key := fmt.Sprintf("%s|%s|%s", c.EmployeeID, c.DemandID, c.Kind)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, c)
	}
	return result
}

// buildAlerts 生成工作量预警：运行后月班次达到90%/100%上限的员工
// 运行前就已超上限的员工同样上报，不做静默修正
func (r *Reporter) buildAlerts(in Input) []model.WorkloadAlert {
	months := make(map[string]bool)
	for _, o := range in.Outcomes {
		if len(o.Date) >= 7 {
			months[o.Date[:7]] = true
		}
	}

	var alerts []model.WorkloadAlert
	for month := range months {
		for _, emp := range in.Pool {
			monthCap := emp.MonthlyCap(in.Limits)
			if monthCap <= 0 {
				continue
			}
			count := in.Tracker.MonthlyCount(emp.ID, month)
			util := float64(count) / float64(monthCap)
			if util < 0.9 {
				continue
			}
			level := model.AlertApproaching
			if util >= 1.0 {
				level = model.AlertExceeded
			}
			alerts = append(alerts, model.WorkloadAlert{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Month:        month,
				ShiftCount:   count,
				Cap:          monthCap,
				Utilization:  util,
				Level:        level,
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Month != alerts[j].Month {
			return alerts[i].Month < alerts[j].Month
		}
		return alerts[i].EmployeeID.String() < alerts[j].EmployeeID.String()
	})
	return alerts
}

// buildRecommendations 根据容量缺口生成改进建议
func (r *Reporter) buildRecommendations(in Input, rate float64) []string {
	var recs []string

	if in.TotalSeats == 0 {
		return recs
	}

	active := 0
	for _, emp := range in.Pool {
		if emp.IsActive() {
			active++
		}
	}

	if in.CapacityRatio < 1.0 {
		capacity := int(math.Round(in.CapacityRatio * float64(in.TotalSeats)))
		shortfall := in.TotalSeats - capacity
		perPerson := in.Limits.MaxShiftsPerPerson
		if perPerson <= 0 {
			perPerson = model.DefaultMaxShiftsPerMonth
		}
		need := int(math.Ceil(float64(shortfall) / float64(perPerson)))
		if need > 0 {
			recs = append(recs, fmt.Sprintf("人力容量缺口 %d 个席位，建议增加 %d 名在岗员工", shortfall, need))
		}
		if active > 0 {
			raiseTo := int(math.Ceil(float64(in.TotalSeats) / float64(active)))
			if raiseTo > in.Limits.MaxShiftsPerPerson {
				recs = append(recs, fmt.Sprintf("或将每人每月最大班次提高到 %d", raiseTo))
			}
		}
	}

	if in.PartialMode {
		recs = append(recs, fmt.Sprintf("本次运行处于部分满足模式，满足率 %.1f%%，请复核未填补的席位", rate))
	}

	unfulfilled := 0
	for _, o := range in.Outcomes {
		if o.State != model.DemandFulfilled {
			unfulfilled++
		}
	}
	if unfulfilled > 0 && !in.PartialMode {
		recs = append(recs, fmt.Sprintf("有 %d 条需求未完全满足，请检查相关日期的可用人力", unfulfilled))
	}

	return recs
}
