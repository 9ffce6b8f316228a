// Package model 定义排班引擎的核心数据模型
package model

// Employee 员工
type Employee struct {
	BaseModel
	Name   string `json:"name" db:"name"`
	Code   string `json:"code" db:"code"`
	Role   Role   `json:"role" db:"role"`
	Status string `json:"status" db:"status"` // active/inactive/leave
	Unit   string `json:"unit,omitempty" db:"unit"`

	// 个人上限（0 表示使用默认值）
	MaxShiftsPerMonth  int `json:"max_shifts_per_month" db:"max_shifts_per_month"`
	MaxConsecutiveDays int `json:"max_consecutive_days" db:"max_consecutive_days"`
}

// IsActive 检查员工是否在岗
func (e *Employee) IsActive() bool {
	return e.Status == "active"
}

// IsClinical 检查员工是否为临床角色
func (e *Employee) IsClinical() bool {
	return e.Role.IsClinical()
}

// MonthlyCap 返回员工的月班次上限，未设置时回落到给定上限
func (e *Employee) MonthlyCap(limits WorkloadLimits) int {
	if e.MaxShiftsPerMonth > 0 {
		return e.MaxShiftsPerMonth
	}
	return limits.MaxShiftsPerPerson
}

// ConsecutiveCap 返回员工的连续工作天数上限，未设置时回落到给定上限
func (e *Employee) ConsecutiveCap(limits WorkloadLimits) int {
	if e.MaxConsecutiveDays > 0 {
		return e.MaxConsecutiveDays
	}
	return limits.MaxConsecutiveDays
}
