package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yipai/yipai/internal/service"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/model"
	"github.com/yipai/yipai/pkg/scheduler/expander"
)

// ScheduleHandler 批量排班处理器
type ScheduleHandler struct {
	svc *service.ScheduleService
}

// NewScheduleHandler 创建批量排班处理器
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// BulkRequest 批量排班请求
// scope 决定展开范围：day 需要 date，week 需要 start_date，month 需要 year+month
type BulkRequest struct {
	Scope     string                             `json:"scope"` // day/week/month
	Date      string                             `json:"date,omitempty"`
	StartDate string                             `json:"start_date,omitempty"`
	Year      int                                `json:"year,omitempty"`
	Month     int                                `json:"month,omitempty"`
	Locations []model.Location                   `json:"locations"`
	Pattern   map[string]map[model.ShiftType]int `json:"shift_pattern"`
	Limits    *model.WorkloadLimits              `json:"workload_limits,omitempty"`
	Priority  int                                `json:"priority,omitempty"`
}

// BulkResponse 批量排班响应
type BulkResponse struct {
	Success         bool                     `json:"success"`
	RunID           string                   `json:"run_id"`
	PartialMode     bool                     `json:"partial_mode"`
	CapacityRatio   float64                  `json:"capacity_ratio"`
	TotalSeats      int                      `json:"total_seats"`
	FilledSeats     int                      `json:"filled_seats"`
	FulfillmentRate float64                  `json:"fulfillment_rate"`
	Duration        string                   `json:"duration"`
	Assignments     []*model.ShiftAssignment `json:"assignments"`
	Conflicts       []model.Conflict         `json:"conflicts,omitempty"`
	WorkloadAlerts  []model.WorkloadAlert    `json:"workload_alerts,omitempty"`
	Outcomes        []model.DemandOutcome    `json:"outcomes"`
	Recommendations []string                 `json:"recommendations,omitempty"`
}

// Bulk 生成批量排班
func (h *ScheduleHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	expReq := &expander.Request{
		Locations: req.Locations,
		Pattern:   req.Pattern,
		Limits:    req.Limits,
		Priority:  req.Priority,
	}

	var (
		run *model.ScheduleRun
		err error
	)
	switch req.Scope {
	case "day":
		run, err = h.svc.RunDay(r.Context(), expReq, req.Date)
	case "week":
		run, err = h.svc.RunWeek(r.Context(), expReq, req.StartDate)
	case "month":
		if req.Month < 1 || req.Month > 12 {
			respondError(w, errors.InvalidInput("month", "月份应在 1-12 之间"))
			return
		}
		run, err = h.svc.RunMonth(r.Context(), expReq, req.Year, time.Month(req.Month))
	default:
		respondError(w, errors.InvalidInput("scope", "应为 day/week/month"))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, BulkResponse{
		Success:         run.Success,
		RunID:           run.ID.String(),
		PartialMode:     run.PartialMode,
		CapacityRatio:   run.CapacityRatio,
		TotalSeats:      run.TotalSeats,
		FilledSeats:     run.FilledSeats,
		FulfillmentRate: run.FulfillmentRate,
		Duration:        run.Duration.String(),
		Assignments:     run.Assignments,
		Conflicts:       run.Conflicts,
		WorkloadAlerts:  run.WorkloadAlerts,
		Outcomes:        run.Outcomes,
		Recommendations: run.Recommendations,
	})
}
