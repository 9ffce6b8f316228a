// Package engine 提供贪心排班分配引擎
// 引擎在一次运行内是单线程且有状态的：第 k 条需求的分配会更新共享的
// 工作量跟踪器，第 k+1 条需求必须看到最新负载。不重算分数就并行化
// 会让同一员工吃下整周的班次，这正是引擎要防止的缺陷
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/calendar"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/logger"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/report"
	"github.com/yipai/yipai/pkg/scheduler/conflict"
	"github.com/yipai/yipai/pkg/scheduler/eligibility"
	"github.com/yipai/yipai/pkg/scheduler/score"
	"github.com/yipai/yipai/pkg/workload"
)

// Config 引擎配置
// 容量阈值是可配置参数而非硬编码常量
type Config struct {
	MinCapacityRatio  float64 // 低于该比例直接失败（INSUFFICIENT_STAFF）
	WarnCapacityRatio float64 // 低于该比例进入部分满足模式
}

// DefaultConfig 返回默认引擎配置
func DefaultConfig() Config {
	return Config{
		MinCapacityRatio:  0.30,
		WarnCapacityRatio: 0.80,
	}
}

// Engine 贪心排班分配引擎
// 引擎自身不持有跨运行状态，所有可变状态都在单次 Run 的局部变量里
type Engine struct {
	cfg      Config
	filter   *eligibility.Filter
	reporter *report.Reporter
	logger   *logger.EngineLogger
}

// New 创建引擎
func New(cfg Config) *Engine {
	if cfg.MinCapacityRatio <= 0 {
		cfg.MinCapacityRatio = DefaultConfig().MinCapacityRatio
	}
	if cfg.WarnCapacityRatio <= 0 {
		cfg.WarnCapacityRatio = DefaultConfig().WarnCapacityRatio
	}
	return &Engine{
		cfg:      cfg,
		filter:   eligibility.NewFilter(),
		reporter: report.NewReporter(),
		logger:   logger.NewEngineLogger(),
	}
}

// Run 执行一次排班运行
// 需求按展开器给出的顺序消费；取消发生在需求迭代之间，
// 运行内所有可变状态都是局部的，取消即整体丢弃
func (e *Engine) Run(
	ctx context.Context,
	demands []*model.ShiftDemand,
	pool []*model.Employee,
	existing []*model.ShiftAssignment,
	limits model.WorkloadLimits,
) (*model.ScheduleRun, error) {
	limits = limits.Normalize()
	runID := uuid.New()
	startedAt := time.Now()

	tracker := workload.NewTracker(existing)
	detector := conflict.NewDetector(limits)
	scorer := score.NewScorer(limits)

	totalSeats := 0
	for _, d := range demands {
		totalSeats += d.Required
	}

	e.logger.RunStarted(runID.String(), len(demands), len(pool))

	if totalSeats == 0 {
		return e.reporter.Build(report.Input{
			RunID:         runID,
			StartedAt:     startedAt,
			Pool:          pool,
			Tracker:       tracker,
			Limits:        limits,
			CapacityRatio: 1,
		}), nil
	}

	// 容量预检：理论容量与总需求席位的比值决定运行模式
	capacity := remainingCapacity(demands, pool, tracker, limits)
	ratio := float64(capacity) / float64(totalSeats)
	if ratio < e.cfg.MinCapacityRatio {
		return nil, errors.InsufficientStaff(capacity, totalSeats, ratio)
	}
	partialMode := ratio < e.cfg.WarnCapacityRatio
	if partialMode {
		e.logger.CapacityWarning(runID.String(), ratio)
	}

	var (
		assignments []*model.ShiftAssignment
		conflicts   []model.Conflict
		outcomes    []model.DemandOutcome
	)

	for _, demand := range demands {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeTimeout, "排班运行被取消")
		}

		// 状态机：PENDING → FILTERING → SCORING → ASSIGNING → 终态
		eligible := e.filter.Eligible(pool, demand)

		monthKey := calendar.MonthKey(demand.Date)
		median := score.PoolMedian(eligible, tracker, monthKey)

		var survivors []score.Candidate
		var demandConflicts []model.Conflict
		for _, emp := range eligible {
			res := detector.Check(emp, demand, tracker)
			if !res.OK {
				e.logger.ConflictFound(string(res.Kind), emp.ID.String(), demand.Date)
				demandConflicts = append(demandConflicts, model.Conflict{
					Kind:       res.Kind,
					EmployeeID: emp.ID,
					DemandID:   demand.ID,
					Date:       demand.Date,
					Severity:   model.SeverityBlocking,
					Message:    res.Message,
				})
				continue
			}
			survivors = append(survivors, scorer.Score(emp, demand, tracker, median))
		}
		score.Sort(survivors)

		assigned := 0
		for _, cand := range survivors {
			if assigned >= demand.Required {
				break
			}
			a := model.NewShiftAssignment(cand.Employee, demand, cand.Score, cand.Reason)
			tracker.Record(a)
			assignments = append(assignments, a)
			assigned++
		}

		var state model.DemandState
		switch {
		case assigned >= demand.Required:
			state = model.DemandFulfilled
		case assigned > 0:
			state = model.DemandPartiallyFulfilled
		default:
			state = model.DemandUnfulfilled
		}

		if assigned < demand.Required {
			e.logger.DemandUnfulfilled(demand.Date, demand.Location.Name, string(demand.ShiftType),
				demand.Required, assigned)

			// 部分满足模式下该需求完全无合规候选人时，
			// 上限类冲突降级为警告上报（席位仍然空缺，上限不被突破）
			if partialMode && len(survivors) == 0 {
				for i := range demandConflicts {
					if conflict.IsCapKind(demandConflicts[i].Kind) {
						demandConflicts[i].Severity = model.SeverityWarning
					}
				}
			}

			demandConflicts = append(demandConflicts, model.Conflict{
				Kind:     model.ConflictInsufficientStaff,
				DemandID: demand.ID,
				Date:     demand.Date,
				Severity: model.SeverityWarning,
				Message: fmt.Sprintf("%s %s %s 需要 %d 人，仅分配 %d 人",
					demand.Date, demand.Location.Name, demand.ShiftType, demand.Required, assigned),
			})
		}

		conflicts = append(conflicts, demandConflicts...)
		outcomes = append(outcomes, model.DemandOutcome{
			DemandID:  demand.ID,
			Date:      demand.Date,
			Location:  demand.Location.Name,
			ShiftType: demand.ShiftType,
			State:     state,
			Required:  demand.Required,
			Assigned:  assigned,
		})
	}

	run := e.reporter.Build(report.Input{
		RunID:         runID,
		StartedAt:     startedAt,
		TotalSeats:    totalSeats,
		Assignments:   assignments,
		Conflicts:     conflicts,
		Outcomes:      outcomes,
		Pool:          pool,
		Tracker:       tracker,
		Limits:        limits,
		CapacityRatio: ratio,
		PartialMode:   partialMode,
	})

	e.logger.RunComplete(runID.String(), run.Duration, run.FulfillmentRate)
	return run, nil
}

// remainingCapacity 计算员工池在需求覆盖月份内的剩余理论容量
// 每名在岗员工贡献 max(0, 月上限 - 该月已有班次)，按月累加
func remainingCapacity(demands []*model.ShiftDemand, pool []*model.Employee, tracker *workload.Tracker, limits model.WorkloadLimits) int {
	months := make(map[string]bool)
	for _, d := range demands {
		months[calendar.MonthKey(d.Date)] = true
	}

	total := 0
	for month := range months {
		for _, emp := range pool {
			if !emp.IsActive() {
				continue
			}
			remaining := emp.MonthlyCap(limits) - tracker.MonthlyCount(emp.ID, month)
			if remaining > 0 {
				total += remaining
			}
		}
	}
	return total
}
