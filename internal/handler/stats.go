package handler

import (
	"net/http"

	"github.com/yipai/yipai/internal/service"
	"github.com/yipai/yipai/pkg/errors"
)

// StatsHandler 统计分析处理器
type StatsHandler struct {
	svc *service.ScheduleService
}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler(svc *service.ScheduleService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Workload 查询日期区间内的工作量与公平性统计
// GET /api/v1/stats/workload?start_date=...&end_date=...
func (h *StatsHandler) Workload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if start == "" || end == "" {
		respondError(w, errors.InvalidInput("start_date/end_date", "不能为空"))
		return
	}

	report, err := h.svc.WorkloadStats(r.Context(), start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
