// Package calendar 提供日期与日历工具
// 所有日期均使用 YYYY-MM-DD 字符串，时刻使用 HH:MM 字符串
package calendar

import (
	"fmt"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// TimeLayout 时刻格式
const TimeLayout = "15:04"

// ParseDate 解析日期字符串
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式无效 %q: %w", date, err)
	}
	return t, nil
}

// IsValidDate 检查日期字符串是否合法
func IsValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// IsValidTime 检查时刻字符串是否合法
func IsValidTime(hhmm string) bool {
	_, err := time.Parse(TimeLayout, hhmm)
	return err == nil
}

// Today 返回今天的日期
func Today() string {
	return time.Now().Format(DateLayout)
}

// IsWeekend 检查日期是否为周末
func IsWeekend(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextDate 返回后一天日期
func NextDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

// PreviousDate 返回前一天日期
func PreviousDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// DaysInMonth 返回某月的天数
func DaysInMonth(year int, month time.Month) int {
	// 下月第一天减一天即月末
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// MonthDates 返回某月的全部日期（升序）
func MonthDates(year int, month time.Month) []string {
	days := DaysInMonth(year, month)
	dates := make([]string, 0, days)
	for d := 1; d <= days; d++ {
		dates = append(dates, time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(DateLayout))
	}
	return dates
}

// WeekDates 返回从 start 开始的连续7天日期（升序）
func WeekDates(start string) ([]string, error) {
	t, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, t.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates, nil
}

// MonthKey 返回日期所在月份（YYYY-MM）
func MonthKey(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

// ISOWeekKey 返回日期所在 ISO 周（YYYY-Www）
func ISOWeekKey(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// SameMonth 检查日期是否位于指定年月
func SameMonth(date string, year int, month time.Month) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// IsPast 检查 date 是否早于 today（ISO 日期字符串按字典序比较即可）
func IsPast(date, today string) bool {
	return date < today
}

// IsConsecutive 检查两个日期是否相邻（date2 = date1 + 1天）
func IsConsecutive(date1, date2 string) bool {
	t1, err1 := ParseDate(date1)
	t2, err2 := ParseDate(date2)
	if err1 != nil || err2 != nil {
		return false
	}
	return t2.Sub(t1).Hours()/24 == 1
}

// TimeWindow 某日期上的一段时间窗口 [Start, End)
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps 检查两个时间窗口是否相交
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Hours 返回窗口时长（小时）
func (w TimeWindow) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}

// Window 将日期与起止时刻组合为时间窗口
// 跨日班次（结束时刻不晚于开始时刻）结束时间加24小时后再参与重叠比较
func Window(date, startHHMM, endHHMM string) (TimeWindow, error) {
	d, err := ParseDate(date)
	if err != nil {
		return TimeWindow{}, err
	}
	st, err := time.Parse(TimeLayout, startHHMM)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("开始时刻格式无效 %q: %w", startHHMM, err)
	}
	et, err := time.Parse(TimeLayout, endHHMM)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("结束时刻格式无效 %q: %w", endHHMM, err)
	}

	start := time.Date(d.Year(), d.Month(), d.Day(), st.Hour(), st.Minute(), 0, 0, time.UTC)
	end := time.Date(d.Year(), d.Month(), d.Day(), et.Hour(), et.Minute(), 0, 0, time.UTC)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return TimeWindow{Start: start, End: end}, nil
}
