// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftType 班次类型
type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"   // 白班
	ShiftAfternoon ShiftType = "afternoon" // 中班
	ShiftNight     ShiftType = "night"     // 夜班
)

// ShiftTypeOrder 班次类型的固定遍历顺序（决定需求展开的确定性排序）
var ShiftTypeOrder = []ShiftType{ShiftMorning, ShiftAfternoon, ShiftNight}

// IsValid 检查班次类型是否合法
func (s ShiftType) IsValid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// DefaultWindow 返回班次类型的默认起止时刻（HH:MM）
// 夜班跨日，重叠比较前结束时间加24小时
func (s ShiftType) DefaultWindow() (start, end string) {
	switch s {
	case ShiftMorning:
		return "08:00", "16:00"
	case ShiftAfternoon:
		return "16:00", "22:00"
	case ShiftNight:
		return "22:00", "06:00"
	}
	return "08:00", "16:00"
}

// Role 员工角色
type Role string

const (
	RoleNurse      Role = "nurse"      // 护士
	RolePhysician  Role = "physician"  // 医师
	RoleTechnician Role = "technician" // 技师
	RoleAssistant  Role = "assistant"  // 护理员
)

// IsClinical 检查角色是否为临床角色（可进入重症/急诊单元）
func (r Role) IsClinical() bool {
	return r == RoleNurse || r == RolePhysician
}

// UnitClass 科室单元类别
type UnitClass string

const (
	UnitGeneral   UnitClass = "general"   // 普通病区
	UnitIntensive UnitClass = "intensive" // 重症监护
	UnitEmergency UnitClass = "emergency" // 急诊
)

// Location 排班地点（病区/科室）
type Location struct {
	Name  string    `json:"name" db:"name"`
	Class UnitClass `json:"class" db:"class"`
}

// IsCritical 检查地点是否为关键单元（仅限临床角色）
func (l Location) IsCritical() bool {
	return l.Class == UnitIntensive || l.Class == UnitEmergency
}

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WorkloadLimits 工作量上限配置
type WorkloadLimits struct {
	MaxShiftsPerPerson int `json:"max_shifts_per_person"` // 每人每月最大班次
	MaxShiftsPerWeek   int `json:"max_shifts_per_week"`   // 每人每周（ISO周）最大班次
	MaxConsecutiveDays int `json:"max_consecutive_days"`  // 最大连续工作天数
}

// 默认上限
const (
	DefaultMaxShiftsPerMonth  = 22
	DefaultMaxShiftsPerWeek   = 6
	DefaultMaxConsecutiveDays = 6
	// MaxShiftsPerDay 每人每日最大班次数（第2个班次即触发日上限）
	MaxShiftsPerDay = 2
)

// DefaultWorkloadLimits 返回默认工作量上限
func DefaultWorkloadLimits() WorkloadLimits {
	return WorkloadLimits{
		MaxShiftsPerPerson: DefaultMaxShiftsPerMonth,
		MaxShiftsPerWeek:   DefaultMaxShiftsPerWeek,
		MaxConsecutiveDays: DefaultMaxConsecutiveDays,
	}
}

// Normalize 补齐未设置的上限
func (w WorkloadLimits) Normalize() WorkloadLimits {
	d := DefaultWorkloadLimits()
	if w.MaxShiftsPerPerson <= 0 {
		w.MaxShiftsPerPerson = d.MaxShiftsPerPerson
	}
	if w.MaxShiftsPerWeek <= 0 {
		w.MaxShiftsPerWeek = d.MaxShiftsPerWeek
	}
	if w.MaxConsecutiveDays <= 0 {
		w.MaxConsecutiveDays = d.MaxConsecutiveDays
	}
	return w
}
