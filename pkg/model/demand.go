// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/calendar"
)

// ShiftDemand 单条排班需求：某日期、某地点、某班次类型需要的人数
// 由需求展开器创建后不再修改
type ShiftDemand struct {
	ID             uuid.UUID `json:"id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	Location       Location  `json:"location"`
	ShiftType      ShiftType `json:"shift_type"`
	Required       int       `json:"required"`
	Priority       int       `json:"priority"` // 1-10
	PreferredRoles []Role    `json:"preferred_roles,omitempty"`
	StartTime      string    `json:"start_time"` // HH:MM
	EndTime        string    `json:"end_time"`   // HH:MM
}

// NewShiftDemand 创建排班需求，起止时刻取班次类型的默认窗口
func NewShiftDemand(date string, loc Location, shiftType ShiftType, required, priority int) *ShiftDemand {
	start, end := shiftType.DefaultWindow()
	return &ShiftDemand{
		ID:        uuid.New(),
		Date:      date,
		Location:  loc,
		ShiftType: shiftType,
		Required:  required,
		Priority:  priority,
		StartTime: start,
		EndTime:   end,
	}
}

// Window 返回需求的时间窗口（跨日已归一化）
func (d *ShiftDemand) Window() (calendar.TimeWindow, error) {
	return calendar.Window(d.Date, d.StartTime, d.EndTime)
}

// Key 返回需求的排序键 (date, location, shift_type)
func (d *ShiftDemand) Key() string {
	return fmt.Sprintf("%s|%s|%s", d.Date, d.Location.Name, d.ShiftType)
}

// PrefersRole 检查角色是否在偏好列表中（空列表视为全部角色）
func (d *ShiftDemand) PrefersRole(role Role) bool {
	if len(d.PreferredRoles) == 0 {
		return true
	}
	for _, r := range d.PreferredRoles {
		if r == role {
			return true
		}
	}
	return false
}
