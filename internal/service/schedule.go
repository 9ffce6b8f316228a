// Package service 提供排班业务流程编排
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yipai/yipai/internal/config"
	"github.com/yipai/yipai/internal/metrics"
	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/logger"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/scheduler/engine"
	"github.com/yipai/yipai/pkg/scheduler/expander"
	"github.com/yipai/yipai/pkg/stats"
)

// EmployeePool 员工池读取接口
type EmployeePool interface {
	ListActive(ctx context.Context) ([]*model.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
}

// AssignmentStore 排班分配读写接口
type AssignmentStore interface {
	SaveBatch(ctx context.Context, assignments []*model.ShiftAssignment) error
	Create(ctx context.Context, a *model.ShiftAssignment) error
	ListBetween(ctx context.Context, startDate, endDate string) ([]*model.ShiftAssignment, error)
}

// Notifier 通知派发接口
type Notifier interface {
	PublishRun(run *model.ScheduleRun)
}

// ScheduleService 排班业务服务
// 负责 展开需求 → 加载数据 → 引擎运行 → 事务落库 → 旁路通知 的完整流程
type ScheduleService struct {
	employees   EmployeePool
	assignments AssignmentStore
	engine      *engine.Engine
	notifier    Notifier
	analyzer    *stats.FairnessAnalyzer
	cfg         config.SchedulerConfig
}

// NewScheduleService 创建排班服务
func NewScheduleService(
	employees EmployeePool,
	assignments AssignmentStore,
	notifier Notifier,
	cfg config.SchedulerConfig,
) *ScheduleService {
	return &ScheduleService{
		employees:   employees,
		assignments: assignments,
		engine: engine.New(engine.Config{
			MinCapacityRatio:  cfg.MinCapacityRatio,
			WarnCapacityRatio: cfg.WarnCapacityRatio,
		}),
		notifier: notifier,
		analyzer: stats.NewFairnessAnalyzer(),
		cfg:      cfg,
	}
}

// RunDay 生成单日排班
func (s *ScheduleService) RunDay(ctx context.Context, req *expander.Request, date string) (*model.ScheduleRun, error) {
	demands, err := expander.NewExpander().ExpandDay(req, date)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, demands, req.Limits)
}

// RunWeek 生成一周排班
func (s *ScheduleService) RunWeek(ctx context.Context, req *expander.Request, start string) (*model.ScheduleRun, error) {
	demands, err := expander.NewExpander().ExpandWeek(req, start)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, demands, req.Limits)
}

// RunMonth 生成整月排班
func (s *ScheduleService) RunMonth(ctx context.Context, req *expander.Request, year int, month time.Month) (*model.ScheduleRun, error) {
	demands, err := expander.NewExpander().ExpandMonth(req, year, month)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, demands, req.Limits)
}

// run 公共运行流程：计算成功但写入失败时返回 PERSISTENCE_FAILURE，
// 与排班本身的失败严格区分
func (s *ScheduleService) run(ctx context.Context, demands []*model.ShiftDemand, limits *model.WorkloadLimits) (*model.ScheduleRun, error) {
	if s.cfg.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DefaultTimeout)
		defer cancel()
	}

	pool, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工池失败")
	}

	effLimits := model.DefaultWorkloadLimits()
	if limits != nil {
		effLimits = limits.Normalize()
	}

	existing, err := s.loadExisting(ctx, demands)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载既有排班失败")
	}

	run, err := s.engine.Run(ctx, demands, pool, existing, effLimits)
	if err != nil {
		metrics.RecordScheduleRun(false, false, 0)
		return nil, err
	}

	if err := s.assignments.SaveBatch(ctx, run.Assignments); err != nil {
		metrics.RecordScheduleRun(run.PartialMode, false, run.Duration)
		return nil, errors.PersistenceFailure(err)
	}

	s.recordRunMetrics(run, pool)

	// 通知是尽力而为的旁路，失败不影响返回结果
	if s.notifier != nil {
		s.notifier.PublishRun(run)
	}

	return run, nil
}

// loadExisting 加载需求日期附近的既有分配
// 连续天数与周/月上限检查都依赖需求区间之外的既有班次，
// 因此装载窗口向两侧各扩一个月
func (s *ScheduleService) loadExisting(ctx context.Context, demands []*model.ShiftDemand) ([]*model.ShiftAssignment, error) {
	if len(demands) == 0 {
		return nil, nil
	}

	minDate, maxDate := demands[0].Date, demands[0].Date
	for _, d := range demands[1:] {
		if d.Date < minDate {
			minDate = d.Date
		}
		if d.Date > maxDate {
			maxDate = d.Date
		}
	}

	start := minDate
	for i := 0; i < 31; i++ {
		start = calendar.PreviousDate(start)
	}
	end := maxDate
	for i := 0; i < 31; i++ {
		end = calendar.NextDate(end)
	}
	return s.assignments.ListBetween(ctx, start, end)
}

func (s *ScheduleService) recordRunMetrics(run *model.ScheduleRun, pool []*model.Employee) {
	metrics.RecordScheduleRun(run.PartialMode, run.Success, run.Duration)
	metrics.SetRunQuality(run.FulfillmentRate, run.CapacityRatio)
	for _, c := range run.Conflicts {
		metrics.RecordConflict(string(c.Kind))
	}

	fairness := s.analyzer.Analyze(run.Assignments, pool)
	metrics.SetFairnessGini("shift", fairness.ShiftGini)
	metrics.SetFairnessGini("night", fairness.NightShiftGini)
	metrics.SetFairnessGini("weekend", fairness.WeekendShiftGini)
}

// ShiftRequest 单班次请求（校验与创建共用）
type ShiftRequest struct {
	EmployeeID uuid.UUID             `json:"employee_id"`
	Date       string                `json:"date"`
	Location   model.Location        `json:"location"`
	ShiftType  model.ShiftType       `json:"shift_type"`
	StartTime  string                `json:"start_time,omitempty"`
	EndTime    string                `json:"end_time,omitempty"`
	Limits     *model.WorkloadLimits `json:"workload_limits,omitempty"`
}

// toDemand 把单班次请求转成容量为1的需求
func (req *ShiftRequest) toDemand() (*model.ShiftDemand, error) {
	if !req.ShiftType.IsValid() {
		return nil, errors.InvalidDemand("未知班次类型: " + string(req.ShiftType))
	}
	demand := model.NewShiftDemand(req.Date, req.Location, req.ShiftType, 1, 5)
	if req.StartTime != "" && req.EndTime != "" {
		if !calendar.IsValidTime(req.StartTime) || !calendar.IsValidTime(req.EndTime) {
			return nil, errors.InvalidDemand("时刻格式应为 HH:MM")
		}
		demand.StartTime = req.StartTime
		demand.EndTime = req.EndTime
	}
	return demand, nil
}

// ValidateShift 校验单个候选班次，不落库
func (s *ScheduleService) ValidateShift(ctx context.Context, req *ShiftRequest) (*engine.Validation, error) {
	demand, err := req.toDemand()
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工失败")
	}
	if emp == nil {
		return nil, errors.NotFound("员工", req.EmployeeID.String())
	}

	pool, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工池失败")
	}

	existing, err := s.loadExisting(ctx, []*model.ShiftDemand{demand})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载既有排班失败")
	}

	limits := model.DefaultWorkloadLimits()
	if req.Limits != nil {
		limits = req.Limits.Normalize()
	}
	return s.engine.ValidateSingle(emp, demand, pool, existing, limits)
}

// CreateShift 校验通过后创建单个班次
// 存在阻断冲突时返回 CONFLICT，不写入任何数据
func (s *ScheduleService) CreateShift(ctx context.Context, req *ShiftRequest) (*model.ShiftAssignment, error) {
	validation, err := s.ValidateShift(ctx, req)
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		appErr := errors.New(errors.CodeConflict, "班次与既有排班冲突")
		for i, v := range validation.Violations {
			appErr.WithField(string(v.Kind), v.Message)
			if i == 0 {
				appErr.WithDetails(v.Message)
			}
		}
		return nil, appErr
	}

	demand, err := req.toDemand()
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工失败")
	}

	a := model.NewShiftAssignment(emp, demand, validation.Score, "手工指定")
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, errors.PersistenceFailure(err)
	}

	logger.Info().
		Str("employee_id", a.EmployeeID.String()).
		Str("date", a.Date).
		Str("shift_type", string(a.ShiftType)).
		Float64("score", a.Score).
		Msg("手工创建班次")

	return a, nil
}

// WorkloadReport 工作量统计报告
type WorkloadReport struct {
	StartDate string                 `json:"start_date"`
	EndDate   string                 `json:"end_date"`
	Fairness  *stats.FairnessMetrics `json:"fairness"`
}

// WorkloadStats 统计日期区间内员工池的工作量与公平性
func (s *ScheduleService) WorkloadStats(ctx context.Context, startDate, endDate string) (*WorkloadReport, error) {
	if !calendar.IsValidDate(startDate) || !calendar.IsValidDate(endDate) {
		return nil, errors.InvalidInput("date", "日期格式应为 YYYY-MM-DD")
	}
	if startDate > endDate {
		return nil, errors.InvalidInput("date", "起始日期不能晚于结束日期")
	}

	pool, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工池失败")
	}
	assignments, err := s.assignments.ListBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载排班失败")
	}

	return &WorkloadReport{
		StartDate: startDate,
		EndDate:   endDate,
		Fairness:  s.analyzer.Analyze(assignments, pool),
	}, nil
}
