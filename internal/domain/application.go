package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

type Application struct {
	ID            int64             `json:"id"`
	ShiftID       int64             `json:"shiftID"`
	UserID        int64             `json:"userID"`
	CoverLetter   string            `json:"coverLetter"`
	Status        ApplicationStatus `json:"status"`
	AppliedDate   time.Time         `json:"appliedDate"`
	RespondedDate *time.Time        `json:"respondedDate"`
}

// IsLive 表示该申请是否仍占用着名额（待处理或已录用）。
// 对于同一 (shiftID, userID)，同一时刻最多只能存在一条 live 的申请
func (a *Application) IsLive() bool {
	return a.Status == ApplicationStatusPending || a.Status == ApplicationStatusAccepted
}
