package lifecycle

import (
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

// Withdraw 由申请人主动撤回自己的申请，只允许撤回待处理状态的申请。
// 已录用的申请不能在这里撤回，只能走班次取消流程（会触发名额重新开放）
func Withdraw(app *domain.Application, userID int64) error {
	if app.UserID != userID {
		return ErrNotApplicant
	}

	if app.Status != domain.ApplicationStatusPending {
		return ErrApplicationAlreadyDecided
	}

	app.Status = domain.ApplicationStatusWithdrawn
	return nil
}
