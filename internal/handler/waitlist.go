package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func (h *Handler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	entry, err := h.repository.JoinWaitlist(shift, userID)
	if err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "已加入候补队列", entry)
}

func (h *Handler) LeaveWaitlist(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(WaitlistEntryCtx).(*domain.WaitlistEntry)

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 只能移除自己的候补记录
	if entry.UserID != userID {
		h.errorResponse(w, r, "无权操作该候补记录")
		return
	}

	shift, err := h.repository.GetShiftByID(entry.ShiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	removed, err := h.repository.LeaveWaitlist(shift, entry.ID)
	if err != nil {
		if !h.engineError(w, r, err) {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "已退出候补队列", removed)
}
