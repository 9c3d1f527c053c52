package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// 业务规则错误到用户提示的映射。
// 每种错误必须有各自独立的提示，前端要依赖这些提示做出不同反应，
// 比如「申请已被处理」和「名额已满」不允许合并成同一个报错
var engineErrorMessages = map[error]string{
	lifecycle.ErrInvalidTransition:             "不允许的班次状态转换",
	lifecycle.ErrShiftNotAcceptingApplications: "该班次当前不接受申请",
	lifecycle.ErrDuplicateApplication:          "您已有一条处理中的申请",
	lifecycle.ErrApplicationNotFound:           "该申请不属于此班次",
	lifecycle.ErrApplicationAlreadyDecided:     "该申请已被处理",
	lifecycle.ErrShiftFull:                     "该班次名额已满",
	lifecycle.ErrNotApplicant:                  "只能撤回自己的申请",
	lifecycle.ErrNotAssigned:                   "您没有被录用到该班次",
	lifecycle.ErrShiftNotFull:                  "班次未满员，无需排队候补",
	lifecycle.ErrAlreadyOnWaitlist:             "您已在该班次的候补队列中",
	lifecycle.ErrWaitlistEntryNotFound:         "候补记录不存在",
	lifecycle.ErrConcurrencyConflict:           "操作冲突，请重试",
}

// engineError 尝试把错误作为业务规则错误处理，返回是否已经响应了客户端
func (h *Handler) engineError(w http.ResponseWriter, r *http.Request, err error) bool {
	for engineErr, msg := range engineErrorMessages {
		if errors.Is(err, engineErr) {
			h.errorResponse(w, r, msg)
			return true
		}
	}
	return false
}
