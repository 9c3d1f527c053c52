package domain

// 生命周期事件类型，notifier 根据类型选择邮件模板；
// slot_freed 没有收件人，仅用于审计
const (
	EventTypeCreateUser          = "create_user"
	EventTypeResetPassword       = "reset_password"
	EventTypeApplicationAccepted = "application_accepted"
	EventTypeApplicationRejected = "application_rejected"
	EventTypeStandbyPromoted     = "standby_promoted"
	EventTypeShiftCancelled      = "shift_cancelled"
	EventTypeSlotFreed           = "slot_freed"
)

type LifecycleEvent struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserEventData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordEventData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ApplicationAcceptedEventData struct {
	FullName   string `json:"fullName"`
	ShiftTitle string `json:"shiftTitle"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Location   string `json:"location"`
	HourlyRate string `json:"hourlyRate"`
}

type ApplicationRejectedEventData struct {
	FullName   string `json:"fullName"`
	ShiftTitle string `json:"shiftTitle"`
}

type StandbyPromotedEventData struct {
	FullName   string `json:"fullName"`
	ShiftTitle string `json:"shiftTitle"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Location   string `json:"location"`
}

type ShiftCancelledEventData struct {
	FullName   string `json:"fullName"`
	ShiftTitle string `json:"shiftTitle"`
	StartTime  string `json:"startTime"`
	Reason     string `json:"reason"`
}

type SlotFreedEventData struct {
	ShiftID    int64  `json:"shiftID"`
	ShiftTitle string `json:"shiftTitle"`
}
