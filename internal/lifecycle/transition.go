package lifecycle

import (
	"slices"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

// 班次状态机的边表，不在表里的转换一律拒绝。
// completed 和 cancelled 是终态，没有出边
var allowedTransitions = map[domain.ShiftStatus][]domain.ShiftStatus{
	domain.ShiftStatusDraft: {
		domain.ShiftStatusOpen,
		domain.ShiftStatusCancelled,
	},
	domain.ShiftStatusOpen: {
		domain.ShiftStatusInvited,
		domain.ShiftStatusFilled,
		domain.ShiftStatusCancelled,
	},
	domain.ShiftStatusInvited: {
		domain.ShiftStatusOpen,
		domain.ShiftStatusFilled,
		domain.ShiftStatusCancelled,
	},
	// filled -> open：已录用的申请被撤回后名额重新空出
	domain.ShiftStatusFilled: {
		domain.ShiftStatusConfirmed,
		domain.ShiftStatusOpen,
		domain.ShiftStatusCancelled,
	},
	domain.ShiftStatusConfirmed: {
		domain.ShiftStatusPendingCompletion,
		domain.ShiftStatusCancelled,
	},
	domain.ShiftStatusPendingCompletion: {
		domain.ShiftStatusCompleted,
		domain.ShiftStatusCancelled,
	},
	domain.ShiftStatusCompleted: {},
	domain.ShiftStatusCancelled: {},
}

func CanTransition(from domain.ShiftStatus, to domain.ShiftStatus) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// Transition 将班次推进到目标状态，不合法的转换返回 ErrInvalidTransition
func Transition(shift *domain.Shift, target domain.ShiftStatus) error {
	if !CanTransition(shift.Status, target) {
		return ErrInvalidTransition
	}

	shift.Status = target
	return nil
}

// FreesSlot 判断一次状态转换是否空出了名额。
// 从 filled/confirmed/invited 回到 open 都会触发候补队列的递补
func FreesSlot(from domain.ShiftStatus, to domain.ShiftStatus) bool {
	if to != domain.ShiftStatusOpen {
		return false
	}

	switch from {
	case domain.ShiftStatusFilled, domain.ShiftStatusConfirmed, domain.ShiftStatusInvited:
		return true
	default:
		return false
	}
}
