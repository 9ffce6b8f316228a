// Package conflict 提供候选分配的冲突检测
package conflict

import (
	"fmt"

	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/workload"
)

// Detector 冲突检测器
type Detector struct {
	limits model.WorkloadLimits
}

// NewDetector 创建冲突检测器
func NewDetector(limits model.WorkloadLimits) *Detector {
	return &Detector{limits: limits.Normalize()}
}

// Result 单次检测结果
type Result struct {
	Kind    model.ConflictKind
	OK      bool
	Message string
}

// ok 表示无冲突
var ok = Result{OK: true}

// IsCapKind 检查冲突类型是否属于上限类
// 上限类冲突在部分满足模式下、且该需求完全无合规候选人时降级为警告上报
func IsCapKind(kind model.ConflictKind) bool {
	switch kind {
	case model.ConflictWeeklyCap, model.ConflictMonthlyCap, model.ConflictConsecutiveDays:
		return true
	}
	return false
}

// Check 检查候选分配是否与员工既有排班冲突
// 检查顺序：时间重叠、日上限、周上限、月上限、连续天数
func (d *Detector) Check(emp *model.Employee, demand *model.ShiftDemand, tracker *workload.Tracker) Result {
	// 时间重叠：同日既有班次的窗口与需求窗口相交
	win, err := demand.Window()
	if err == nil {
		for _, w := range tracker.WindowsOn(emp.ID, demand.Date) {
			if win.Overlaps(w) {
				return Result{
					Kind:    model.ConflictTimeOverlap,
					Message: fmt.Sprintf("员工 %s 在 %s 已有时间重叠的班次", emp.Name, demand.Date),
				}
			}
		}
	}

	// 日上限：当日已有班次达到上限
	if tracker.DailyCount(emp.ID, demand.Date) >= model.MaxShiftsPerDay {
		return Result{
			Kind:    model.ConflictDailyCap,
			Message: fmt.Sprintf("员工 %s 在 %s 当日班次已达 %d 个", emp.Name, demand.Date, model.MaxShiftsPerDay),
		}
	}

	// 周上限：分配后超过ISO周最大班次
	weekKey := calendar.ISOWeekKey(demand.Date)
	if tracker.WeeklyCount(emp.ID, weekKey)+1 > d.limits.MaxShiftsPerWeek {
		return Result{
			Kind:    model.ConflictWeeklyCap,
			Message: fmt.Sprintf("员工 %s 在 %s 周班次将超过上限 %d", emp.Name, weekKey, d.limits.MaxShiftsPerWeek),
		}
	}

	// 月上限：分配后超过月最大班次
	monthKey := calendar.MonthKey(demand.Date)
	monthCap := emp.MonthlyCap(d.limits)
	if tracker.MonthlyCount(emp.ID, monthKey)+1 > monthCap {
		return Result{
			Kind:    model.ConflictMonthlyCap,
			Message: fmt.Sprintf("员工 %s 在 %s 月班次将超过上限 %d", emp.Name, monthKey, monthCap),
		}
	}

	// 连续天数：分配后连续工作超过上限
	consecutiveCap := emp.ConsecutiveCap(d.limits)
	if streak := tracker.ConsecutiveAround(emp.ID, demand.Date); streak > consecutiveCap {
		return Result{
			Kind:    model.ConflictConsecutiveDays,
			Message: fmt.Sprintf("员工 %s 将连续工作 %d 天，超过上限 %d 天", emp.Name, streak, consecutiveCap),
		}
	}

	return ok
}

// CheckApproaching 检查分配后是否接近月上限（≥90%），用于非阻断告警
func (d *Detector) CheckApproaching(emp *model.Employee, demand *model.ShiftDemand, tracker *workload.Tracker) (bool, string) {
	monthKey := calendar.MonthKey(demand.Date)
	monthCap := emp.MonthlyCap(d.limits)
	if monthCap <= 0 {
		return false, ""
	}
	after := tracker.MonthlyCount(emp.ID, monthKey) + 1
	if float64(after) >= 0.9*float64(monthCap) {
		return true, fmt.Sprintf("员工 %s 在 %s 的班次将达到 %d/%d，接近月上限", emp.Name, monthKey, after, monthCap)
	}
	return false, ""
}
