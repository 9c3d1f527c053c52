package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func TestTransition_AllowedEdges(t *testing.T) {
	cases := []struct {
		from domain.ShiftStatus
		to   domain.ShiftStatus
	}{
		{domain.ShiftStatusDraft, domain.ShiftStatusOpen},
		{domain.ShiftStatusDraft, domain.ShiftStatusCancelled},
		{domain.ShiftStatusOpen, domain.ShiftStatusInvited},
		{domain.ShiftStatusOpen, domain.ShiftStatusFilled},
		{domain.ShiftStatusOpen, domain.ShiftStatusCancelled},
		{domain.ShiftStatusInvited, domain.ShiftStatusOpen},
		{domain.ShiftStatusInvited, domain.ShiftStatusFilled},
		{domain.ShiftStatusFilled, domain.ShiftStatusConfirmed},
		{domain.ShiftStatusFilled, domain.ShiftStatusOpen},
		{domain.ShiftStatusConfirmed, domain.ShiftStatusPendingCompletion},
		{domain.ShiftStatusPendingCompletion, domain.ShiftStatusCompleted},
		{domain.ShiftStatusPendingCompletion, domain.ShiftStatusCancelled},
	}

	for _, c := range cases {
		shift := &domain.Shift{Status: c.from}
		err := Transition(shift, c.to)
		require.NoError(t, err, "%s -> %s 应当是合法转换", c.from, c.to)
		require.Equal(t, c.to, shift.Status)
	}
}

func TestTransition_RejectedEdges(t *testing.T) {
	cases := []struct {
		from domain.ShiftStatus
		to   domain.ShiftStatus
	}{
		{domain.ShiftStatusDraft, domain.ShiftStatusFilled},
		{domain.ShiftStatusOpen, domain.ShiftStatusConfirmed},
		{domain.ShiftStatusOpen, domain.ShiftStatusCompleted},
		{domain.ShiftStatusFilled, domain.ShiftStatusDraft},
		{domain.ShiftStatusConfirmed, domain.ShiftStatusOpen},
		{domain.ShiftStatusConfirmed, domain.ShiftStatusCompleted},
		{domain.ShiftStatusPendingCompletion, domain.ShiftStatusOpen},
	}

	for _, c := range cases {
		shift := &domain.Shift{Status: c.from}
		err := Transition(shift, c.to)
		require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s 不应当是合法转换", c.from, c.to)
		// 转换失败时状态不变
		require.Equal(t, c.from, shift.Status)
	}
}

func TestTransition_TerminalStatesHaveNoOutEdges(t *testing.T) {
	all := []domain.ShiftStatus{
		domain.ShiftStatusDraft, domain.ShiftStatusOpen, domain.ShiftStatusInvited,
		domain.ShiftStatusFilled, domain.ShiftStatusConfirmed, domain.ShiftStatusPendingCompletion,
		domain.ShiftStatusCompleted, domain.ShiftStatusCancelled,
	}

	for _, terminal := range []domain.ShiftStatus{domain.ShiftStatusCompleted, domain.ShiftStatusCancelled} {
		for _, to := range all {
			require.False(t, CanTransition(terminal, to), "终态 %s 不应有到 %s 的出边", terminal, to)
		}
	}
}

func TestFreesSlot(t *testing.T) {
	require.True(t, FreesSlot(domain.ShiftStatusFilled, domain.ShiftStatusOpen))
	require.True(t, FreesSlot(domain.ShiftStatusConfirmed, domain.ShiftStatusOpen))
	require.True(t, FreesSlot(domain.ShiftStatusInvited, domain.ShiftStatusOpen))

	require.False(t, FreesSlot(domain.ShiftStatusDraft, domain.ShiftStatusOpen))
	require.False(t, FreesSlot(domain.ShiftStatusFilled, domain.ShiftStatusConfirmed))
	require.False(t, FreesSlot(domain.ShiftStatusOpen, domain.ShiftStatusCancelled))
}
