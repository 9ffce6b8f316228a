// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yipai/yipai/pkg/errors"
	"github.com/yipai/yipai/pkg/logger"
)

// respondJSON 输出JSON响应
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error().Err(err).Msg("写入响应失败")
		}
	}
}

// errorResponse 错误响应体
type errorResponse struct {
	Error   bool                   `json:"error"`
	Code    errors.Code            `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// respondError 输出错误响应，状态码由错误码决定
func respondError(w http.ResponseWriter, err error) {
	resp := errorResponse{
		Error:   true,
		Code:    errors.GetCode(err),
		Message: err.Error(),
	}
	if appErr, ok := err.(*errors.AppError); ok {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
		resp.Fields = appErr.Fields
	}
	respondJSON(w, errors.GetHTTPStatus(err), resp)
}

// requirePost 校验请求方法为POST
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return false
	}
	return true
}
