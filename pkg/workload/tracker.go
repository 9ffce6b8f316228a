// Package workload 提供员工工作量跟踪
// 跟踪器是"员工在上限内是否可用"的唯一事实来源：
// 运行开始时从既有排班初始化，每次成功分配后立即更新，运行结束后丢弃
package workload

import (
	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/model"
)

// Tracker 员工工作量跟踪器
type Tracker struct {
	daily   map[uuid.UUID]map[string]int // 按日计数 (key: YYYY-MM-DD)
	weekly  map[uuid.UUID]map[string]int // 按ISO周计数 (key: YYYY-Www)
	monthly map[uuid.UUID]map[string]int // 按月计数 (key: YYYY-MM)

	// 工作日期集合，用于连续天数计算
	workDates map[uuid.UUID]map[string]bool

	// 每人每日的时间窗口，用于重叠检测
	windows map[uuid.UUID]map[string][]calendar.TimeWindow
}

// NewTracker 创建跟踪器并用既有排班初始化
// 既有排班中无法解析时间窗口的条目仅计数，不参与重叠检测
func NewTracker(existing []*model.ShiftAssignment) *Tracker {
	t := &Tracker{
		daily:     make(map[uuid.UUID]map[string]int),
		weekly:    make(map[uuid.UUID]map[string]int),
		monthly:   make(map[uuid.UUID]map[string]int),
		workDates: make(map[uuid.UUID]map[string]bool),
		windows:   make(map[uuid.UUID]map[string][]calendar.TimeWindow),
	}
	for _, a := range existing {
		if w, err := a.Window(); err == nil {
			t.record(a.EmployeeID, a.Date, &w)
		} else {
			t.record(a.EmployeeID, a.Date, nil)
		}
	}
	return t
}

// Record 记录一次新分配
func (t *Tracker) Record(a *model.ShiftAssignment) {
	if w, err := a.Window(); err == nil {
		t.record(a.EmployeeID, a.Date, &w)
	} else {
		t.record(a.EmployeeID, a.Date, nil)
	}
}

func (t *Tracker) record(empID uuid.UUID, date string, w *calendar.TimeWindow) {
	if t.daily[empID] == nil {
		t.daily[empID] = make(map[string]int)
		t.weekly[empID] = make(map[string]int)
		t.monthly[empID] = make(map[string]int)
		t.workDates[empID] = make(map[string]bool)
		t.windows[empID] = make(map[string][]calendar.TimeWindow)
	}
	t.daily[empID][date]++
	t.weekly[empID][calendar.ISOWeekKey(date)]++
	t.monthly[empID][calendar.MonthKey(date)]++
	t.workDates[empID][date] = true
	if w != nil {
		t.windows[empID][date] = append(t.windows[empID][date], *w)
	}
}

// DailyCount 返回员工某日的班次数
func (t *Tracker) DailyCount(empID uuid.UUID, date string) int {
	return t.daily[empID][date]
}

// WeeklyCount 返回员工某ISO周的班次数
func (t *Tracker) WeeklyCount(empID uuid.UUID, weekKey string) int {
	return t.weekly[empID][weekKey]
}

// MonthlyCount 返回员工某月的班次数
func (t *Tracker) MonthlyCount(empID uuid.UUID, monthKey string) int {
	return t.monthly[empID][monthKey]
}

// WindowsOn 返回员工某日的全部时间窗口
func (t *Tracker) WindowsOn(empID uuid.UUID, date string) []calendar.TimeWindow {
	return t.windows[empID][date]
}

// ConsecutiveAround 返回若在 date 排班将形成的连续工作天数
// （向前与向后的既有连续天数之和再加上 date 当天）
func (t *Tracker) ConsecutiveAround(empID uuid.UUID, date string) int {
	dates := t.workDates[empID]
	if dates == nil {
		return 1
	}

	count := 1
	cur := calendar.PreviousDate(date)
	for i := 0; i < 62 && dates[cur]; i++ {
		count++
		cur = calendar.PreviousDate(cur)
	}
	cur = calendar.NextDate(date)
	for i := 0; i < 62 && dates[cur]; i++ {
		count++
		cur = calendar.NextDate(cur)
	}
	return count
}

// Utilization 返回员工某月相对上限的使用率
func (t *Tracker) Utilization(emp *model.Employee, monthKey string, limits model.WorkloadLimits) float64 {
	cap := emp.MonthlyCap(limits)
	if cap <= 0 {
		return 0
	}
	return float64(t.MonthlyCount(emp.ID, monthKey)) / float64(cap)
}

// Clone 返回跟踪器的独立副本
// 并行运行互不相干的员工池时，每个运行必须持有自己的副本
func (t *Tracker) Clone() *Tracker {
	c := &Tracker{
		daily:     make(map[uuid.UUID]map[string]int, len(t.daily)),
		weekly:    make(map[uuid.UUID]map[string]int, len(t.weekly)),
		monthly:   make(map[uuid.UUID]map[string]int, len(t.monthly)),
		workDates: make(map[uuid.UUID]map[string]bool, len(t.workDates)),
		windows:   make(map[uuid.UUID]map[string][]calendar.TimeWindow, len(t.windows)),
	}
	for id, m := range t.daily {
		c.daily[id] = copyIntMap(m)
	}
	for id, m := range t.weekly {
		c.weekly[id] = copyIntMap(m)
	}
	for id, m := range t.monthly {
		c.monthly[id] = copyIntMap(m)
	}
	for id, m := range t.workDates {
		nm := make(map[string]bool, len(m))
		for k, v := range m {
			nm[k] = v
		}
		c.workDates[id] = nm
	}
	for id, m := range t.windows {
		nm := make(map[string][]calendar.TimeWindow, len(m))
		for k, v := range m {
			ws := make([]calendar.TimeWindow, len(v))
			copy(ws, v)
			nm[k] = ws
		}
		c.windows[id] = nm
	}
	return c
}

func copyIntMap(m map[string]int) map[string]int {
	nm := make(map[string]int, len(m))
	for k, v := range m {
		nm[k] = v
	}
	return nm
}
