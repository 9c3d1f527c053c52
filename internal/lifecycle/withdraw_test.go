package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func TestWithdraw(t *testing.T) {
	app := pendingApp(1, 1, 42)

	err := Withdraw(app, 42)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusWithdrawn, app.Status)
}

func TestWithdraw_NotApplicant(t *testing.T) {
	app := pendingApp(1, 1, 42)

	err := Withdraw(app, 99)
	require.ErrorIs(t, err, ErrNotApplicant)
	require.Equal(t, domain.ApplicationStatusPending, app.Status)
}

// 已录用的申请不能直接撤回，必须走班次取消流程
func TestWithdraw_AlreadyDecided(t *testing.T) {
	for _, status := range []domain.ApplicationStatus{
		domain.ApplicationStatusAccepted, domain.ApplicationStatusRejected, domain.ApplicationStatusWithdrawn,
	} {
		app := pendingApp(1, 1, 42)
		app.Status = status

		err := Withdraw(app, 42)
		require.ErrorIs(t, err, ErrApplicationAlreadyDecided, "%s 状态的申请不应允许撤回", status)
	}
}
