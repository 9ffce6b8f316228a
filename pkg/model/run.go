// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// ConflictKind 冲突类型
type ConflictKind string

const (
	ConflictTimeOverlap       ConflictKind = "TIME_OVERLAP"       // 时间窗口重叠
	ConflictDailyCap          ConflictKind = "DAILY_CAP"          // 当日班次已达上限（同日重复排班）
	ConflictWeeklyCap         ConflictKind = "WEEKLY_CAP"         // 超过ISO周班次上限
	ConflictMonthlyCap        ConflictKind = "MONTHLY_CAP"        // 超过月班次上限
	ConflictConsecutiveDays   ConflictKind = "CONSECUTIVE_DAYS"   // 超过连续工作天数上限
	ConflictInsufficientStaff ConflictKind = "INSUFFICIENT_STAFF" // 需求无任何可用候选人
	ConflictIneligible        ConflictKind = "INELIGIBLE"         // 候选人不符合资格（不在岗或角色不符）
)

// 冲突严重级别
const (
	SeverityBlocking = "blocking"
	SeverityWarning  = "warning"
)

// Conflict 检测到的冲突
type Conflict struct {
	Kind       ConflictKind `json:"kind"`
	EmployeeID uuid.UUID    `json:"employee_id,omitempty"`
	DemandID   uuid.UUID    `json:"demand_id"`
	Date       string       `json:"date"`
	Severity   string       `json:"severity"` // blocking/warning
	Message    string       `json:"message"`
}

// IsBlocking 检查冲突是否为阻断级
func (c Conflict) IsBlocking() bool {
	return c.Severity == SeverityBlocking
}

// WorkloadAlert 工作量预警：运行结束后月班次达到90%或100%上限的员工
type WorkloadAlert struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Month        string    `json:"month"` // YYYY-MM
	ShiftCount   int       `json:"shift_count"`
	Cap          int       `json:"cap"`
	Utilization  float64   `json:"utilization"` // 0-1
	Level        string    `json:"level"`       // approaching/exceeded
}

// 工作量预警级别
const (
	AlertApproaching = "approaching" // ≥90%
	AlertExceeded    = "exceeded"    // ≥100%
)

// DemandState 需求处理状态机
type DemandState string

const (
	DemandPending            DemandState = "PENDING"
	DemandFiltering          DemandState = "FILTERING"
	DemandScoring            DemandState = "SCORING"
	DemandAssigning          DemandState = "ASSIGNING"
	DemandFulfilled          DemandState = "FULFILLED"
	DemandPartiallyFulfilled DemandState = "PARTIALLY_FULFILLED"
	DemandUnfulfilled        DemandState = "UNFULFILLED"
)

// DemandOutcome 单条需求的最终处理结果
type DemandOutcome struct {
	DemandID  uuid.UUID   `json:"demand_id"`
	Date      string      `json:"date"`
	Location  string      `json:"location"`
	ShiftType ShiftType   `json:"shift_type"`
	State     DemandState `json:"state"`
	Required  int         `json:"required"`
	Assigned  int         `json:"assigned"`
}

// ScheduleRun 一次排班调用的聚合结果，创建后不再修改
type ScheduleRun struct {
	ID              uuid.UUID          `json:"id"`
	StartedAt       time.Time          `json:"started_at"`
	Duration        time.Duration      `json:"duration"`
	Success         bool               `json:"success"`
	PartialMode     bool               `json:"partial_mode"`
	CapacityRatio   float64            `json:"capacity_ratio"`
	TotalSeats      int                `json:"total_seats"`
	FilledSeats     int                `json:"filled_seats"`
	FulfillmentRate float64            `json:"fulfillment_rate"` // 百分比 0-100
	Assignments     []*ShiftAssignment `json:"assignments"`
	Conflicts       []Conflict         `json:"conflicts"`
	WorkloadAlerts  []WorkloadAlert    `json:"workload_alerts"`
	Outcomes        []DemandOutcome    `json:"outcomes"`
	Recommendations []string           `json:"recommendations"`
}
