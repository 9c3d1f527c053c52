package lifecycle

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

type CancelOutcome struct {
	Shift *domain.Shift `json:"shift"`
	// 场馆取消时被一并拒绝的待处理申请
	RejectedApplications []*domain.Application `json:"rejectedApplications"`
	// 场馆取消时受影响的已录用申请，状态不变，仅用于通知
	AcceptedApplications []*domain.Application `json:"acceptedApplications"`
	// 兼职人员取消时被撤回的已录用申请
	WithdrawnApplication *domain.Application `json:"withdrawnApplication"`
	// 是否空出了名额（只有兼职人员取消会空出名额）
	SlotFreed bool `json:"slotFreed"`
}

// Cancel 取消班次或班次上的排班。
// 场馆取消：班次进入 cancelled 终态，所有待处理申请被拒绝，候补队列由调用方清空；
// 兼职人员取消：撤回其已录用的申请并让班次重新回到 open，名额空出。
// 距开始时间不足 cancellationWindowHours 的人员取消会被记为紧急补位，
// 解约费金额本身由场馆政策决定，这里只负责记录取消原因
func Cancel(shift *domain.Shift, apps []*domain.Application, reason string, actorRole domain.Role, actorID int64, now time.Time) (*CancelOutcome, error) {
	outcome := &CancelOutcome{
		Shift:                shift,
		RejectedApplications: []*domain.Application{},
	}

	switch actorRole {
	case domain.RoleVenue:
		if err := Transition(shift, domain.ShiftStatusCancelled); err != nil {
			return nil, err
		}
		shift.CancellationReason = &reason

		for _, app := range apps {
			switch app.Status {
			case domain.ApplicationStatusPending:
				app.Status = domain.ApplicationStatusRejected
				app.RespondedDate = &now
				outcome.RejectedApplications = append(outcome.RejectedApplications, app)
			case domain.ApplicationStatusAccepted:
				outcome.AcceptedApplications = append(outcome.AcceptedApplications, app)
			}
		}
	case domain.RoleProfessional:
		var assigned *domain.Application
		for _, app := range apps {
			if app.UserID == actorID && app.Status == domain.ApplicationStatusAccepted {
				assigned = app
				break
			}
		}
		if assigned == nil {
			return nil, ErrNotAssigned
		}

		if shift.IsTerminal() {
			return nil, ErrInvalidTransition
		}

		assigned.Status = domain.ApplicationStatusWithdrawn
		assigned.RespondedDate = &now
		outcome.WithdrawnApplication = assigned

		shift.StaffCancellationReason = &reason
		if WithinCancellationWindow(shift, now) {
			shift.IsEmergencyFill = true
		}

		// 名额重新空出，filled/confirmed 都回到 open。
		// confirmed -> open 不在通用边表里，人员解约是唯一能让已确认班次
		// 重新开放的途径，所以这里直接改状态而不走 Transition；
		// 容量大于 1 时班次可能本来就还是 open，不需要改
		shift.Status = domain.ShiftStatusOpen
		outcome.SlotFreed = true
	default:
		return nil, ErrInvalidTransition
	}

	return outcome, nil
}

// WithinCancellationWindow 判断当前时刻是否已经进入班次的取消窗口期
func WithinCancellationWindow(shift *domain.Shift, now time.Time) bool {
	window := time.Duration(shift.CancellationWindowHours) * time.Hour
	return shift.StartTime.Sub(now) <= window
}
