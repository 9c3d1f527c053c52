package lifecycle

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

type DecisionResult struct {
	Application *domain.Application `json:"application"`
	Shift       *domain.Shift       `json:"shift"`
	// 录用时被级联拒绝的其他待处理申请，调用方需要据此逐个通知申请人
	RejectedApplications []*domain.Application `json:"rejectedApplications"`
}

// Decide 对班次下的一条申请做出录用或拒绝的决定。
// 录用会把同一班次下其余所有待处理申请一并置为 rejected（使用同一个 respondedDate），
// 并在名额因此满员时把班次推进到 filled。整个结果必须在同一个事务里落库，
// 不允许出现只录用了一人而其余申请仍然挂着的中间状态
func Decide(shift *domain.Shift, apps []*domain.Application, applicationID int64, decision Decision, now time.Time) (*DecisionResult, error) {
	var target *domain.Application
	for _, app := range apps {
		if app.ID == applicationID {
			target = app
			break
		}
	}
	if target == nil {
		return nil, ErrApplicationNotFound
	}

	if target.Status != domain.ApplicationStatusPending {
		return nil, ErrApplicationAlreadyDecided
	}

	result := &DecisionResult{
		Application:          target,
		Shift:                shift,
		RejectedApplications: []*domain.Application{},
	}

	switch decision {
	case DecisionReject:
		target.Status = domain.ApplicationStatusRejected
		target.RespondedDate = &now
	case DecisionAccept:
		// target 还是 pending，正常情况下这里不可能满员，防御性地再查一次
		if CountAccepted(apps) >= shift.Capacity {
			return nil, ErrShiftFull
		}

		target.Status = domain.ApplicationStatusAccepted
		target.RespondedDate = &now

		for _, app := range apps {
			if app.ID == target.ID || app.Status != domain.ApplicationStatusPending {
				continue
			}
			app.Status = domain.ApplicationStatusRejected
			app.RespondedDate = &now
			result.RejectedApplications = append(result.RejectedApplications, app)
		}

		if CountAccepted(apps) >= shift.Capacity {
			if err := Transition(shift, domain.ShiftStatusFilled); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	return result, nil
}
