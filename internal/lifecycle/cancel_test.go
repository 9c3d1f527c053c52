package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func TestCancel_ByVenue(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusFilled

	accepted := pendingApp(1, shift.ID, 100)
	accepted.Status = domain.ApplicationStatusAccepted
	pending := pendingApp(2, shift.ID, 200)

	outcome, err := Cancel(shift, []*domain.Application{accepted, pending}, "门店装修", domain.RoleVenue, 1, now)
	require.NoError(t, err)

	require.Equal(t, domain.ShiftStatusCancelled, shift.Status)
	require.NotNil(t, shift.CancellationReason)
	require.Equal(t, "门店装修", *shift.CancellationReason)

	// 待处理申请被一并拒绝，已录用的申请保持原状但会被通知
	require.Equal(t, domain.ApplicationStatusRejected, pending.Status)
	require.Equal(t, &now, pending.RespondedDate)
	require.Len(t, outcome.RejectedApplications, 1)
	require.Equal(t, domain.ApplicationStatusAccepted, accepted.Status)
	require.Len(t, outcome.AcceptedApplications, 1)

	require.False(t, outcome.SlotFreed)
}

// 取消尚无任何申请的草稿班次不应产生任何附带效果
func TestCancel_DraftByVenue(t *testing.T) {
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusDraft

	outcome, err := Cancel(shift, nil, "计划有变", domain.RoleVenue, 1, time.Now())
	require.NoError(t, err)

	require.Equal(t, domain.ShiftStatusCancelled, shift.Status)
	require.Empty(t, outcome.RejectedApplications)
	require.Empty(t, outcome.AcceptedApplications)
	require.Nil(t, outcome.WithdrawnApplication)
	require.False(t, outcome.SlotFreed)
}

func TestCancel_VenueCannotCancelTerminalShift(t *testing.T) {
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusCompleted

	_, err := Cancel(shift, nil, "来不及了", domain.RoleVenue, 1, time.Now())
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_ByProfessional(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusFilled
	shift.StartTime = now.Add(72 * time.Hour)
	shift.CancellationWindowHours = 24

	accepted := pendingApp(1, shift.ID, 100)
	accepted.Status = domain.ApplicationStatusAccepted

	outcome, err := Cancel(shift, []*domain.Application{accepted}, "临时有事", domain.RoleProfessional, 100, now)
	require.NoError(t, err)

	require.Equal(t, domain.ApplicationStatusWithdrawn, accepted.Status)
	require.Equal(t, &now, accepted.RespondedDate)
	require.Equal(t, outcome.WithdrawnApplication, accepted)

	// 名额重新空出
	require.Equal(t, domain.ShiftStatusOpen, shift.Status)
	require.True(t, outcome.SlotFreed)

	// 距开始还有 72 小时，不在 24 小时窗口内，不算紧急补位
	require.False(t, shift.IsEmergencyFill)
	require.NotNil(t, shift.StaffCancellationReason)
	require.Equal(t, "临时有事", *shift.StaffCancellationReason)
}

func TestCancel_ByProfessionalWithinWindow(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusFilled
	shift.StartTime = now.Add(6 * time.Hour)
	shift.CancellationWindowHours = 24

	accepted := pendingApp(1, shift.ID, 100)
	accepted.Status = domain.ApplicationStatusAccepted

	_, err := Cancel(shift, []*domain.Application{accepted}, "生病了", domain.RoleProfessional, 100, now)
	require.NoError(t, err)

	// 距开始不足 24 小时，记为紧急补位
	require.True(t, shift.IsEmergencyFill)
}

// 已确认的班次在人员解约后同样要重新开放
func TestCancel_ByProfessionalOnConfirmedShift(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusConfirmed
	shift.StartTime = now.Add(72 * time.Hour)

	accepted := pendingApp(1, shift.ID, 100)
	accepted.Status = domain.ApplicationStatusAccepted

	outcome, err := Cancel(shift, []*domain.Application{accepted}, "行程冲突", domain.RoleProfessional, 100, now)
	require.NoError(t, err)
	require.Equal(t, domain.ShiftStatusOpen, shift.Status)
	require.True(t, outcome.SlotFreed)
}

func TestCancel_ProfessionalNotAssigned(t *testing.T) {
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusFilled

	// 只有待处理申请，没有已录用的申请
	pending := pendingApp(1, shift.ID, 100)

	_, err := Cancel(shift, []*domain.Application{pending}, "不想去了", domain.RoleProfessional, 100, time.Now())
	require.ErrorIs(t, err, ErrNotAssigned)
}

func TestCancel_ProfessionalCannotCancelTerminalShift(t *testing.T) {
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusCancelled

	accepted := pendingApp(1, shift.ID, 100)
	accepted.Status = domain.ApplicationStatusAccepted

	_, err := Cancel(shift, []*domain.Application{accepted}, "晚了", domain.RoleProfessional, 100, time.Now())
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWithinCancellationWindow(t *testing.T) {
	now := time.Now()
	shift := &domain.Shift{
		StartTime:               now.Add(10 * time.Hour),
		CancellationWindowHours: 24,
	}
	require.True(t, WithinCancellationWindow(shift, now))

	shift.StartTime = now.Add(48 * time.Hour)
	require.False(t, WithinCancellationWindow(shift, now))
}
