// Package stats 提供排班结果的统计分析
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 班次数公平性
	ShiftGini      float64 `json:"shift_gini"`       // 班次数基尼系数 (0=完全公平, 1=完全不公平)
	ShiftVariance  float64 `json:"shift_variance"`   // 班次数方差
	ShiftStdDev    float64 `json:"shift_std_dev"`    // 班次数标准差
	AvgShifts      float64 `json:"avg_shifts"`       // 人均班次
	AvgHours       float64 `json:"avg_hours"`        // 人均工时
	MaxShifts      int     `json:"max_shifts"`       // 最多班次
	MinShifts      int     `json:"min_shifts"`       // 最少班次

	// 班次类型公平性
	ShiftTypeDistribution map[model.ShiftType]float64 `json:"shift_type_distribution"` // 各班次类型占比（百分比）
	NightShiftGini        float64                     `json:"night_shift_gini"`        // 夜班分配基尼系数
	WeekendShiftGini      float64                     `json:"weekend_shift_gini"`      // 周末班分配基尼系数

	// 员工级别统计
	EmployeeStats []EmployeeStat `json:"employee_stats"`

	// 综合评分
	OverallFairnessScore float64 `json:"overall_fairness_score"` // 综合公平性评分 (0-100)
}

// EmployeeStat 单名员工的工作量统计
type EmployeeStat struct {
	EmployeeID    uuid.UUID `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	ShiftCount    int       `json:"shift_count"`
	TotalHours    float64   `json:"total_hours"`
	NightShifts   int       `json:"night_shifts"`
	WeekendShifts int       `json:"weekend_shifts"`
	Deviation     float64   `json:"deviation"` // 班次数与池均值的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析一批排班分配在员工池内的公平性
// 未获得任何班次的在池员工按 0 班次参与统计，
// 否则"把某些人完全排除在外"的方案会显得异常公平
func (f *FairnessAnalyzer) Analyze(assignments []*model.ShiftAssignment, pool []*model.Employee) *FairnessMetrics {
	if len(pool) == 0 {
		return &FairnessMetrics{
			ShiftTypeDistribution: make(map[model.ShiftType]float64),
			OverallFairnessScore:  100,
		}
	}

	stats := f.employeeStats(assignments, pool)

	counts := make([]float64, len(stats))
	nights := make([]float64, len(stats))
	weekends := make([]float64, len(stats))
	totalHours := 0.0
	for i, s := range stats {
		counts[i] = float64(s.ShiftCount)
		nights[i] = float64(s.NightShifts)
		weekends[i] = float64(s.WeekendShifts)
		totalHours += s.TotalHours
	}

	avg := mean(counts)
	variance := varianceOf(counts, avg)
	stdDev := math.Sqrt(variance)
	maxC, minC := rangeOf(counts)

	for i := range stats {
		if avg > 0 {
			stats[i].Deviation = (float64(stats[i].ShiftCount) - avg) / avg * 100
		}
	}

	shiftGini := gini(counts)
	nightGini := gini(nights)
	weekendGini := gini(weekends)

	return &FairnessMetrics{
		ShiftGini:             shiftGini,
		ShiftVariance:         variance,
		ShiftStdDev:           stdDev,
		AvgShifts:             avg,
		AvgHours:              totalHours / float64(len(pool)),
		MaxShifts:             int(maxC),
		MinShifts:             int(minC),
		ShiftTypeDistribution: f.typeDistribution(assignments),
		NightShiftGini:        nightGini,
		WeekendShiftGini:      weekendGini,
		EmployeeStats:         stats,
		OverallFairnessScore:  f.overallScore(shiftGini, nightGini, weekendGini, stdDev, avg),
	}
}

// employeeStats 按员工聚合分配，池内无班次者计为全零
func (f *FairnessAnalyzer) employeeStats(assignments []*model.ShiftAssignment, pool []*model.Employee) []EmployeeStat {
	statMap := make(map[uuid.UUID]*EmployeeStat, len(pool))
	for _, emp := range pool {
		statMap[emp.ID] = &EmployeeStat{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
		}
	}

	for _, a := range assignments {
		stat, ok := statMap[a.EmployeeID]
		if !ok {
			// 池外员工的历史班次不参与本次公平性比较
			continue
		}
		stat.ShiftCount++
		if win, err := a.Window(); err == nil {
			stat.TotalHours += win.Hours()
		}
		if a.ShiftType == model.ShiftNight {
			stat.NightShifts++
		}
		if calendar.IsWeekend(a.Date) {
			stat.WeekendShifts++
		}
	}

	result := make([]EmployeeStat, 0, len(statMap))
	for _, stat := range statMap {
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ShiftCount != result[j].ShiftCount {
			return result[i].ShiftCount > result[j].ShiftCount
		}
		return result[i].EmployeeID.String() < result[j].EmployeeID.String()
	})
	return result
}

// typeDistribution 计算班次类型占比（百分比）
func (f *FairnessAnalyzer) typeDistribution(assignments []*model.ShiftAssignment) map[model.ShiftType]float64 {
	counts := make(map[model.ShiftType]int)
	for _, a := range assignments {
		counts[a.ShiftType]++
	}
	dist := make(map[model.ShiftType]float64, len(counts))
	total := len(assignments)
	if total == 0 {
		return dist
	}
	for t, c := range counts {
		dist[t] = float64(c) / float64(total) * 100
	}
	return dist
}

// overallScore 计算综合公平性评分
func (f *FairnessAnalyzer) overallScore(shiftGini, nightGini, weekendGini, stdDev, avg float64) float64 {
	const (
		shiftWeight   = 0.4
		nightWeight   = 0.25
		weekendWeight = 0.25
		stdDevWeight  = 0.1
	)

	shiftScore := (1 - shiftGini) * 100
	nightScore := (1 - nightGini) * 100
	weekendScore := (1 - weekendGini) * 100

	// 变异系数越低分数越高
	cvScore := 100.0
	if avg > 0 {
		cv := stdDev / avg
		cvScore = math.Max(0, 100-cv*200)
	}

	score := shiftWeight*shiftScore +
		nightWeight*nightScore +
		weekendWeight*weekendScore +
		stdDevWeight*cvScore
	return math.Max(0, math.Min(100, score))
}

// CompareRuns 比较两个排班方案的公平性，正值表示方案2更不公平
func (f *FairnessAnalyzer) CompareRuns(run1, run2 []*model.ShiftAssignment, pool []*model.Employee) map[string]float64 {
	m1 := f.Analyze(run1, pool)
	m2 := f.Analyze(run2, pool)
	return map[string]float64{
		"shift_gini_diff":    m2.ShiftGini - m1.ShiftGini,
		"night_gini_diff":    m2.NightShiftGini - m1.NightShiftGini,
		"weekend_gini_diff":  m2.WeekendShiftGini - m1.WeekendShiftGini,
		"overall_score_diff": m2.OverallFairnessScore - m1.OverallFairnessScore,
		"run1_overall_score": m1.OverallFairnessScore,
		"run2_overall_score": m2.OverallFairnessScore,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

func rangeOf(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// gini 计算基尼系数，全零序列视为完全公平
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
