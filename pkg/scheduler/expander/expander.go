// Package expander 提供批量排班需求展开
// 把紧凑的批量请求（地点 × 班次类型人数模式）展开为逐日、逐地点、
// 逐班次类型的有序需求列表；周末/夜班折减与过去日期排除都集中在这里，
// 不允许在别处重复这套比例计算
package expander

import (
	"math"
	"sort"
	"time"

	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/model"
)

// RatioTable 人数折减比例表（唯一权威定义）
type RatioTable struct {
	WeekendMorning   float64 // 周末白班
	WeekendAfternoon float64 // 周末中班
	Night            float64 // 夜班（每天）
}

// DefaultRatioTable 返回默认折减比例
func DefaultRatioTable() RatioTable {
	return RatioTable{
		WeekendMorning:   0.7,
		WeekendAfternoon: 0.8,
		Night:            0.6,
	}
}

// Request 批量展开请求
type Request struct {
	Locations []model.Location                   `json:"locations"`
	Pattern   map[string]map[model.ShiftType]int `json:"shift_pattern"` // 地点名 -> 班次类型 -> 基准人数
	Limits    *model.WorkloadLimits              `json:"workload_limits,omitempty"`
	Priority  int                                `json:"priority"`
}

// Expander 需求展开器
type Expander struct {
	ratios RatioTable
	today  string
}

// NewExpander 创建需求展开器
func NewExpander() *Expander {
	return &Expander{
		ratios: DefaultRatioTable(),
		today:  calendar.Today(),
	}
}

// WithToday 固定"今天"，用于可复现测试
func (e *Expander) WithToday(today string) *Expander {
	e.today = today
	return e
}

// WithRatios 覆盖折减比例表
func (e *Expander) WithRatios(r RatioTable) *Expander {
	e.ratios = r
	return e
}

// ExpandDay 展开单日需求
func (e *Expander) ExpandDay(req *Request, date string) ([]*model.ShiftDemand, error) {
	if !calendar.IsValidDate(date) {
		return nil, errors.InvalidDemand("日期格式应为 YYYY-MM-DD: " + date)
	}
	if err := e.validate(req); err != nil {
		return nil, err
	}
	return e.expand(req, []string{date}), nil
}

// ExpandWeek 展开从 start 起7天的需求
func (e *Expander) ExpandWeek(req *Request, start string) ([]*model.ShiftDemand, error) {
	dates, err := calendar.WeekDates(start)
	if err != nil {
		return nil, errors.InvalidDemand("起始日期格式应为 YYYY-MM-DD: " + start)
	}
	if err := e.validate(req); err != nil {
		return nil, err
	}
	return e.expand(req, dates), nil
}

// ExpandMonth 展开整月需求
func (e *Expander) ExpandMonth(req *Request, year int, month time.Month) ([]*model.ShiftDemand, error) {
	if year < 2000 || month < time.January || month > time.December {
		return nil, errors.InvalidDemand("年月无效")
	}
	if err := e.validate(req); err != nil {
		return nil, err
	}
	return e.expand(req, calendar.MonthDates(year, month)), nil
}

// validate 严格校验请求
// 模式表中出现未在地点列表声明的地点时必须显式失败，
// 禁止静默回落到"全部地点"
func (e *Expander) validate(req *Request) error {
	if len(req.Locations) == 0 {
		return errors.InvalidDemand("地点列表不能为空")
	}
	if len(req.Pattern) == 0 {
		return errors.InvalidDemand("班次模式不能为空")
	}

	declared := make(map[string]bool, len(req.Locations))
	for _, loc := range req.Locations {
		if loc.Name == "" {
			return errors.InvalidDemand("地点名称不能为空")
		}
		declared[loc.Name] = true
	}

	for locName, shifts := range req.Pattern {
		if !declared[locName] {
			return errors.InvalidDemand("班次模式包含未声明的地点: " + locName)
		}
		for shiftType, count := range shifts {
			if !shiftType.IsValid() {
				return errors.InvalidDemand("未知班次类型: " + string(shiftType))
			}
			if count < 0 {
				return errors.InvalidDemand("人数不能为负: " + locName + "/" + string(shiftType))
			}
		}
	}
	return nil
}

// expand 逐日展开，输出按 (日期, 地点, 班次类型) 有序
// 早于"今天"的日期一律跳过，绝不为已过去的日期生成需求
func (e *Expander) expand(req *Request, dates []string) []*model.ShiftDemand {
	priority := req.Priority
	if priority == 0 {
		priority = 5
	}

	// 地点按名称排序，保证遍历顺序确定
	locations := make([]model.Location, len(req.Locations))
	copy(locations, req.Locations)
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Name < locations[j].Name
	})

	var demands []*model.ShiftDemand
	for _, date := range dates {
		if calendar.IsPast(date, e.today) {
			continue
		}
		weekend := calendar.IsWeekend(date)

		for _, loc := range locations {
			shifts := req.Pattern[loc.Name]
			if shifts == nil {
				continue
			}
			for _, shiftType := range model.ShiftTypeOrder {
				base := shifts[shiftType]
				if base <= 0 {
					continue
				}
				required := e.adjusted(base, shiftType, weekend)
				if required <= 0 {
					continue
				}
				demands = append(demands, model.NewShiftDemand(date, loc, shiftType, required, priority))
			}
		}
	}
	return demands
}

// adjusted 按比例表折减人数（向上取整）
// 夜班每天折减；白班/中班仅周末折减
func (e *Expander) adjusted(base int, shiftType model.ShiftType, weekend bool) int {
	ratio := 1.0
	switch shiftType {
	case model.ShiftNight:
		ratio = e.ratios.Night
	case model.ShiftMorning:
		if weekend {
			ratio = e.ratios.WeekendMorning
		}
	case model.ShiftAfternoon:
		if weekend {
			ratio = e.ratios.WeekendAfternoon
		}
	}
	return int(math.Ceil(float64(base) * ratio))
}

// TotalSeats 统计需求列表的总席位数
func TotalSeats(demands []*model.ShiftDemand) int {
	total := 0
	for _, d := range demands {
		total += d.Required
	}
	return total
}
