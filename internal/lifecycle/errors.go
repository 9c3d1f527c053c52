package lifecycle

import "errors"

// 业务规则错误，handler 层负责将它们映射为各自独立的用户提示，
// 不允许合并成笼统的请求失败
var (
	ErrInvalidTransition             = errors.New("invalid shift status transition")
	ErrShiftNotAcceptingApplications = errors.New("shift is not accepting applications")
	ErrDuplicateApplication          = errors.New("user already has a live application for this shift")
	ErrApplicationNotFound           = errors.New("application does not belong to this shift")
	ErrApplicationAlreadyDecided     = errors.New("application has already been decided")
	ErrShiftFull                     = errors.New("shift capacity is already met")
	ErrNotApplicant                  = errors.New("only the applicant may withdraw the application")
	ErrNotAssigned                   = errors.New("professional has no accepted application for this shift")
	ErrShiftNotFull                  = errors.New("shift capacity is not met yet")
	ErrAlreadyOnWaitlist             = errors.New("user already has a waitlist entry for this shift")
	ErrWaitlistEntryNotFound         = errors.New("waitlist entry does not exist")

	// 乐观并发检查失败，说明有另一个事务已经抢先提交，
	// 调用方可以在重新读取最新状态后重试一次
	ErrConcurrencyConflict = errors.New("shift version check failed")
)
