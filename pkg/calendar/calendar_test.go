package calendar

import (
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-01", "2026-12-31", "2024-02-29"}
	for _, d := range valid {
		if !IsValidDate(d) {
			t.Errorf("%s 应为合法日期", d)
		}
	}

	invalid := []string{"", "2026-13-01", "2026-02-30", "2026/01/01", "01-01-2026"}
	for _, d := range invalid {
		if IsValidDate(d) {
			t.Errorf("%s 不应为合法日期", d)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	// 2026-08-29 是周六，2026-08-30 是周日
	if !IsWeekend("2026-08-29") {
		t.Error("2026-08-29 应为周末")
	}
	if !IsWeekend("2026-08-30") {
		t.Error("2026-08-30 应为周末")
	}
	if IsWeekend("2026-08-31") {
		t.Error("2026-08-31 是周一，不应为周末")
	}
}

func TestMonthDates(t *testing.T) {
	dates := MonthDates(2026, time.February)
	if len(dates) != 28 {
		t.Errorf("2026年2月应有28天，实际 %d", len(dates))
	}
	if dates[0] != "2026-02-01" || dates[27] != "2026-02-28" {
		t.Errorf("月份边界错误: %s .. %s", dates[0], dates[len(dates)-1])
	}

	leap := MonthDates(2024, time.February)
	if len(leap) != 29 {
		t.Errorf("2024年2月应有29天，实际 %d", len(leap))
	}
}

func TestWeekDates(t *testing.T) {
	dates, err := WeekDates("2026-08-31")
	if err != nil {
		t.Fatalf("展开周日期失败: %v", err)
	}
	if len(dates) != 7 {
		t.Fatalf("应有7天，实际 %d", len(dates))
	}
	if dates[0] != "2026-08-31" || dates[6] != "2026-09-06" {
		t.Errorf("跨月展开错误: %s .. %s", dates[0], dates[6])
	}

	if _, err := WeekDates("bad-date"); err == nil {
		t.Error("非法起始日期应返回错误")
	}
}

func TestMonthKeyAndISOWeekKey(t *testing.T) {
	if key := MonthKey("2026-08-15"); key != "2026-08" {
		t.Errorf("月份键错误: %s", key)
	}
	// 2026-01-01 属于 2026 年第1周
	if key := ISOWeekKey("2026-01-01"); key != "2026-W01" {
		t.Errorf("ISO周键错误: %s", key)
	}
	// 2026-12-31 落在次年的第53周边界由 ISOWeek 决定，只验证格式
	if key := ISOWeekKey("2026-12-31"); len(key) != 8 {
		t.Errorf("ISO周键格式错误: %s", key)
	}
}

func TestIsPast(t *testing.T) {
	if !IsPast("2026-08-27", "2026-08-28") {
		t.Error("昨天应判定为过去")
	}
	if IsPast("2026-08-28", "2026-08-28") {
		t.Error("今天不应判定为过去")
	}
	if IsPast("2026-09-01", "2026-08-28") {
		t.Error("未来日期不应判定为过去")
	}
}

func TestWindowOvernight(t *testing.T) {
	// 夜班 22:00-06:00 跨日，结束时间应加24小时
	w, err := Window("2026-08-28", "22:00", "06:00")
	if err != nil {
		t.Fatalf("构建窗口失败: %v", err)
	}
	if w.Hours() != 8 {
		t.Errorf("夜班应为8小时，实际 %.1f", w.Hours())
	}
	if !w.End.After(w.Start) {
		t.Error("归一化后结束时间应晚于开始时间")
	}
}

func TestWindowOverlaps(t *testing.T) {
	day, _ := Window("2026-08-28", "08:00", "16:00")
	evening, _ := Window("2026-08-28", "16:00", "22:00")
	night, _ := Window("2026-08-28", "22:00", "06:00")
	overlap, _ := Window("2026-08-28", "14:00", "18:00")

	if day.Overlaps(evening) {
		t.Error("白班与中班首尾相接，不应重叠")
	}
	if evening.Overlaps(night) {
		t.Error("中班与夜班首尾相接，不应重叠")
	}
	if !day.Overlaps(overlap) || !evening.Overlaps(overlap) {
		t.Error("14:00-18:00 应与白班和中班都重叠")
	}
}

func TestConsecutiveHelpers(t *testing.T) {
	if NextDate("2026-08-31") != "2026-09-01" {
		t.Error("NextDate 跨月错误")
	}
	if PreviousDate("2026-09-01") != "2026-08-31" {
		t.Error("PreviousDate 跨月错误")
	}
	if !IsConsecutive("2026-08-31", "2026-09-01") {
		t.Error("相邻日期应判定为连续")
	}
	if IsConsecutive("2026-08-28", "2026-08-30") {
		t.Error("间隔日期不应判定为连续")
	}
}
