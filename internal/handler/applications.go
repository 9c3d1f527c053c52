package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
)

func (h *Handler) ApplyToShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		CoverLetter string `json:"coverLetter"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	app, err := h.repository.ApplyToShift(shift, userID, req.CoverLetter)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "applications_live_user_shift_key":
			// 并发场景下事务内的重复检查可能漏网，由部分唯一索引兜底
			h.errorResponse(w, r, engineErrorMessages[lifecycle.ErrDuplicateApplication])
		case h.engineError(w, r, err):
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "申请已提交", app)
}

func (h *Handler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtx).(*domain.Application)

	var req struct {
		Decision string `json:"decision" validate:"required,oneof=accept reject"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.repository.GetShiftByID(app.ShiftID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !h.requireShiftOwner(w, r, shift) {
		return
	}

	result, err := h.repository.DecideApplication(shift, app.ID, lifecycle.Decision(req.Decision))
	if err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyDecision(result)

	h.successResponse(w, r, "已处理该申请", result)
}

func (h *Handler) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtx).(*domain.Application)

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := lifecycle.Withdraw(app, userID); err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.WithdrawApplication(app); err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "申请已撤回", app)
}

func (h *Handler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	apps, err := h.repository.GetApplicationsByUserID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的申请成功", apps)
}
