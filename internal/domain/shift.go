package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusDraft             ShiftStatus = "draft"
	ShiftStatusOpen              ShiftStatus = "open"
	ShiftStatusInvited           ShiftStatus = "invited"
	ShiftStatusFilled            ShiftStatus = "filled"
	ShiftStatusConfirmed         ShiftStatus = "confirmed"
	ShiftStatusPendingCompletion ShiftStatus = "pending_completion"
	ShiftStatusCompleted         ShiftStatus = "completed"
	ShiftStatusCancelled         ShiftStatus = "cancelled"
)

// HourlyRate 和 KillFeeAmount 均为保留两位小数的定点数字符串（如 "45.00"），
// 避免浮点数带来的金额误差
type Shift struct {
	ID                      int64       `json:"id"`
	EmployerID              int64       `json:"employerID"`
	Title                   string      `json:"title"`
	Description             string      `json:"description"`
	StartTime               time.Time   `json:"startTime"`
	EndTime                 time.Time   `json:"endTime"`
	HourlyRate              string      `json:"hourlyRate"`
	Location                string      `json:"location"`
	Capacity                int32       `json:"capacity"`
	Status                  ShiftStatus `json:"status"`
	AssigneeID              *int64      `json:"assigneeID"`
	RecurringSeriesID       *string     `json:"recurringSeriesID"`
	IsRecurring             bool        `json:"isRecurring"`
	RecurringIndex          int32       `json:"recurringIndex"`
	CancellationWindowHours int32       `json:"cancellationWindowHours"`
	KillFeeAmount           *string     `json:"killFeeAmount"`
	IsEmergencyFill         bool        `json:"isEmergencyFill"`
	CancellationReason      *string     `json:"cancellationReason"`
	StaffCancellationReason *string     `json:"staffCancellationReason"`
	CreatedAt               time.Time   `json:"createdAt"`
	Version                 int32       `json:"-"`
}

// IsTerminal 表示班次是否已处于终态，终态班次除审计字段外不允许再修改
func (s *Shift) IsTerminal() bool {
	return s.Status == ShiftStatusCompleted || s.Status == ShiftStatusCancelled
}
