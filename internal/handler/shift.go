package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/yipai/yipai/internal/service"
	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/model"
)

// ShiftHandler 单班次处理器
type ShiftHandler struct {
	svc *service.ScheduleService
}

// NewShiftHandler 创建单班次处理器
func NewShiftHandler(svc *service.ScheduleService) *ShiftHandler {
	return &ShiftHandler{svc: svc}
}

// shiftInput 单班次输入
type shiftInput struct {
	EmployeeID string                `json:"employee_id"`
	Date       string                `json:"date"`
	Location   model.Location        `json:"location"`
	ShiftType  model.ShiftType       `json:"shift_type"`
	StartTime  string                `json:"start_time,omitempty"`
	EndTime    string                `json:"end_time,omitempty"`
	Limits     *model.WorkloadLimits `json:"workload_limits,omitempty"`
}

func (in *shiftInput) toRequest() (*service.ShiftRequest, error) {
	empID, err := uuid.Parse(in.EmployeeID)
	if err != nil {
		return nil, errors.InvalidInput("employee_id", "无效的员工ID格式")
	}
	return &service.ShiftRequest{
		EmployeeID: empID,
		Date:       in.Date,
		Location:   in.Location,
		ShiftType:  in.ShiftType,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Limits:     in.Limits,
	}, nil
}

// Validate 校验单个候选班次，不写入数据
func (h *ShiftHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var in shiftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	req, err := in.toRequest()
	if err != nil {
		respondError(w, err)
		return
	}

	validation, err := h.svc.ValidateShift(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, validation)
}

// Create 校验通过后创建单个班次
func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var in shiftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	req, err := in.toRequest()
	if err != nil {
		respondError(w, err)
		return
	}

	assignment, err := h.svc.CreateShift(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}
