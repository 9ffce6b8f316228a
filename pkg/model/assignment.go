// Package model 定义排班引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/calendar"
)

// ShiftAssignment 一次排班分配：一名员工占用一条需求的一个席位
// 仅由贪心分配引擎创建，创建后不再修改
type ShiftAssignment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	DemandID   uuid.UUID `json:"demand_id" db:"demand_id"`
	Date       string    `json:"date" db:"date"`
	Location   Location  `json:"location" db:"location"`
	ShiftType  ShiftType `json:"shift_type" db:"shift_type"`
	StartTime  string    `json:"start_time" db:"start_time"` // HH:MM
	EndTime    string    `json:"end_time" db:"end_time"`     // HH:MM
	Score      float64   `json:"score" db:"score"`
	Reason     string    `json:"reason,omitempty" db:"reason"`
}

// NewShiftAssignment 基于需求创建排班分配
func NewShiftAssignment(emp *Employee, demand *ShiftDemand, score float64, reason string) *ShiftAssignment {
	return &ShiftAssignment{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		DemandID:   demand.ID,
		Date:       demand.Date,
		Location:   demand.Location,
		ShiftType:  demand.ShiftType,
		StartTime:  demand.StartTime,
		EndTime:    demand.EndTime,
		Score:      score,
		Reason:     reason,
	}
}

// Window 返回分配的时间窗口（跨日已归一化）
func (a *ShiftAssignment) Window() (calendar.TimeWindow, error) {
	return calendar.Window(a.Date, a.StartTime, a.EndTime)
}

// IsOnDate 检查分配是否在指定日期
func (a *ShiftAssignment) IsOnDate(date string) bool {
	return a.Date == date
}
