package lifecycle

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

// NewApplication 为 userID 在指定班次上创建一条待处理的申请。
// existing 必须是该班次下已有的全部申请，用于检查重复申请
func NewApplication(shift *domain.Shift, existing []*domain.Application, userID int64, coverLetter string, now time.Time) (*domain.Application, error) {
	if shift.Status != domain.ShiftStatusOpen && shift.Status != domain.ShiftStatusInvited {
		return nil, ErrShiftNotAcceptingApplications
	}

	for _, app := range existing {
		if app.UserID == userID && app.IsLive() {
			return nil, ErrDuplicateApplication
		}
	}

	return &domain.Application{
		ShiftID:     shift.ID,
		UserID:      userID,
		CoverLetter: coverLetter,
		Status:      domain.ApplicationStatusPending,
		AppliedDate: now,
	}, nil
}

// CountAccepted 统计班次下已录用的申请数量
func CountAccepted(apps []*domain.Application) int32 {
	var count int32
	for _, app := range apps {
		if app.Status == domain.ApplicationStatusAccepted {
			count++
		}
	}
	return count
}
