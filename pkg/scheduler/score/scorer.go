// Package score 提供候选分配的适配度评分
package score

import (
	"fmt"
	"sort"

	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/workload"
)

// 评分构成
const (
	baseScore        = 50.0 // 基础分
	underMedianBonus = 30.0 // 月班次低于池中位数的奖励
	roleMatchBonus   = 10.0 // 角色命中偏好的奖励
	nearCapPenalty   = 20.0 // 接近月上限时的最大惩罚
	nearCapThreshold = 0.9  // 惩罚起点（月上限使用率）
)

// Scorer 适配度评分器
type Scorer struct {
	limits model.WorkloadLimits
}

// NewScorer 创建评分器
func NewScorer(limits model.WorkloadLimits) *Scorer {
	return &Scorer{limits: limits.Normalize()}
}

// Candidate 带评分的候选人
type Candidate struct {
	Employee   *model.Employee
	Score      float64
	MonthCount int
	Reason     string
}

// Score 计算 (员工, 需求) 的适配度分数 (0-100)
// 构成：基础50；月班次低于池中位数 +30；角色命中偏好 +10；
// 月上限使用率超过90%后按超出比例扣分，逼近上限扣满
func (s *Scorer) Score(emp *model.Employee, demand *model.ShiftDemand, tracker *workload.Tracker, poolMedian int) Candidate {
	monthKey := calendar.MonthKey(demand.Date)
	monthCount := tracker.MonthlyCount(emp.ID, monthKey)

	total := baseScore
	reason := "基础分50"

	if monthCount < poolMedian {
		total += underMedianBonus
		reason += fmt.Sprintf("；本月%d班低于中位数%d +30", monthCount, poolMedian)
	}

	if len(demand.PreferredRoles) > 0 {
		for _, r := range demand.PreferredRoles {
			if r == emp.Role {
				total += roleMatchBonus
				reason += fmt.Sprintf("；角色%s命中偏好 +10", emp.Role)
				break
			}
		}
	}

	monthCap := emp.MonthlyCap(s.limits)
	if monthCap > 0 {
		util := float64(monthCount+1) / float64(monthCap)
		if util > nearCapThreshold {
			penalty := nearCapPenalty * (util - nearCapThreshold) / (1 - nearCapThreshold)
			if penalty > nearCapPenalty {
				penalty = nearCapPenalty
			}
			total -= penalty
			reason += fmt.Sprintf("；接近月上限 -%.0f", penalty)
		}
	}

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return Candidate{
		Employee:   emp,
		Score:      total,
		MonthCount: monthCount,
		Reason:     reason,
	}
}

// Sort 按分数降序排序候选人
// 平分时取月班次更少者，仍平则取员工ID更小者，保证结果可复现
func Sort(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].MonthCount != candidates[j].MonthCount {
			return candidates[i].MonthCount < candidates[j].MonthCount
		}
		return candidates[i].Employee.ID.String() < candidates[j].Employee.ID.String()
	})
}

// PoolMedian 返回员工池某月班次数的中位数
func PoolMedian(pool []*model.Employee, tracker *workload.Tracker, monthKey string) int {
	if len(pool) == 0 {
		return 0
	}
	counts := make([]int, 0, len(pool))
	for _, emp := range pool {
		counts = append(counts, tracker.MonthlyCount(emp.ID, monthKey))
	}
	sort.Ints(counts)
	return counts[len(counts)/2]
}
