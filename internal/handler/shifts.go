package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/utils"
)

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title                   string     `json:"title" validate:"required"`
		Description             string     `json:"description"`
		StartTime               time.Time  `json:"startTime" validate:"required"`
		EndTime                 time.Time  `json:"endTime" validate:"required"`
		HourlyRate              string     `json:"hourlyRate" validate:"required"`
		Location                string     `json:"location" validate:"required"`
		Capacity                *int32     `json:"capacity"`
		AssigneeID              *int64     `json:"assigneeID"`
		CancellationWindowHours *int32     `json:"cancellationWindowHours"`
		KillFeeAmount           *string    `json:"killFeeAmount"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shift := &domain.Shift{
		EmployerID:              employerID,
		Title:                   req.Title,
		Description:             req.Description,
		StartTime:               req.StartTime,
		EndTime:                 req.EndTime,
		HourlyRate:              req.HourlyRate,
		Location:                req.Location,
		Capacity:                1,
		AssigneeID:              req.AssigneeID,
		CancellationWindowHours: h.config.Engine.DefaultCancellationWindowHours,
		KillFeeAmount:           req.KillFeeAmount,
	}
	if req.Capacity != nil {
		shift.Capacity = *req.Capacity
	}
	if req.CancellationWindowHours != nil {
		shift.CancellationWindowHours = *req.CancellationWindowHours
	}

	// 指定了受邀人的班次直接开放，否则先保存为草稿
	if shift.AssigneeID != nil {
		shift.Status = domain.ShiftStatusOpen
	} else {
		shift.Status = domain.ShiftStatusDraft
	}

	if err := utils.ValidateShift(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	h.successResponse(w, r, "获取班次成功", shift)
}

// GetShiftFeed 是求职信息流，默认只返回开放中的班次
func (h *Handler) GetShiftFeed(w http.ResponseWriter, r *http.Request) {
	status := domain.ShiftStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.ShiftStatusOpen
	}

	shifts, err := h.repository.GetShiftsByStatus(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

// requireShiftOwner 检查当前场馆是不是班次的发布方
func (h *Handler) requireShiftOwner(w http.ResponseWriter, r *http.Request, shift *domain.Shift) bool {
	employerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return false
	}
	if shift.EmployerID != employerID {
		h.errorResponse(w, r, "无权操作该班次")
		return false
	}
	return true
}

func (h *Handler) TransitionShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		TargetStatus domain.ShiftStatus `json:"targetStatus" validate:"required,oneof=draft open invited filled confirmed pending_completion completed cancelled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !h.requireShiftOwner(w, r, shift) {
		return
	}

	from := shift.Status
	if err := lifecycle.Transition(shift, req.TargetStatus); err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	// 名额重新空出时触发候补队列的递补
	if lifecycle.FreesSlot(from, shift.Status) {
		h.handleSlotFreed(shift)
	}

	h.successResponse(w, r, "班次状态已更新", shift)
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Reason string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	actorID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if role == domain.RoleVenue && !h.requireShiftOwner(w, r, shift) {
		return
	}

	outcome, err := h.repository.CancelShift(shift, req.Reason, role, actorID)
	if err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	switch role {
	case domain.RoleVenue:
		affected := append(outcome.RejectedApplications, outcome.AcceptedApplications...)
		h.notifyShiftCancelled(shift, req.Reason, affected)
		h.successResponse(w, r, "班次已取消", outcome)
	case domain.RoleProfessional:
		if outcome.SlotFreed {
			h.handleSlotFreed(shift)
		}
		h.successResponse(w, r, "已取消该班次的排班", outcome)
	}
}

func (h *Handler) GenerateRecurrences(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Frequency           string     `json:"frequency" validate:"required,oneof=weekly"`
		EndDate             *time.Time `json:"endDate"`
		NumberOfOccurrences int32      `json:"numberOfOccurrences" validate:"min=0"`
		AssigneeOption      string     `json:"assigneeOption" validate:"required,oneof=keep open-slot"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !h.requireShiftOwner(w, r, shift) {
		return
	}

	cfg := &lifecycle.RecurrenceConfig{
		Frequency:           req.Frequency,
		EndDate:             req.EndDate,
		NumberOfOccurrences: req.NumberOfOccurrences,
		AssigneeOption:      lifecycle.AssigneeOption(req.AssigneeOption),
	}

	shifts, err := lifecycle.GenerateSeries(shift, cfg, utils.GenerateSeriesID())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if int32(len(shifts)) > h.config.Engine.MaxSeriesOccurrences {
		h.errorResponse(w, r, "超过了单个序列允许的最大期数")
		return
	}

	if err := h.repository.CreateShiftSeries(shifts); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成周期性班次成功", shifts)
}

// GetShiftSeries 返回与该班次同属一个周期性序列的全部班次，
// 各期生成后独立走各自的生命周期，这里只做列表展示
func (h *Handler) GetShiftSeries(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if shift.RecurringSeriesID == nil {
		h.errorResponse(w, r, "该班次不属于任何周期性序列")
		return
	}

	shifts, err := h.repository.GetShiftsBySeriesID(*shift.RecurringSeriesID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周期性班次序列成功", shifts)
}

func (h *Handler) GetShiftApplications(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if !h.requireShiftOwner(w, r, shift) {
		return
	}

	apps, err := h.repository.GetApplicationsByShiftID(shift.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次申请列表成功", apps)
}

func (h *Handler) GetShiftWaitlist(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if !h.requireShiftOwner(w, r, shift) {
		return
	}

	entries, err := h.repository.GetWaitlistByShiftID(shift.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取候补队列成功", entries)
}
