package handler

import (
	"net/http"
	"strconv"
)

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	ShiftCtx         ContextKey = "shift"
	ApplicationCtx   ContextKey = "application"
	WaitlistEntryCtx ContextKey = "waitlistEntry"
)

// currentUserID 从 JWT 的 sub 中解析出当前用户的 ID，不需要访问数据库
func (h *Handler) currentUserID(r *http.Request) (int64, error) {
	subString := r.Context().Value(SubCtxKey).(string)
	return strconv.ParseInt(subString, 10, 64)
}
