package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func pendingApp(id int64, shiftID int64, userID int64) *domain.Application {
	return &domain.Application{
		ID:      id,
		ShiftID: shiftID,
		UserID:  userID,
		Status:  domain.ApplicationStatusPending,
	}
}

// 名额为 1 的班次上 A、B 两人都在申请，录用 A 必须同时拒绝 B，
// 且两条申请拿到同一个 respondedDate，班次进入 filled
func TestDecide_AcceptCascadesReject(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	a := pendingApp(1, shift.ID, 100)
	b := pendingApp(2, shift.ID, 200)

	result, err := Decide(shift, []*domain.Application{a, b}, a.ID, DecisionAccept, now)
	require.NoError(t, err)

	require.Equal(t, domain.ApplicationStatusAccepted, a.Status)
	require.Equal(t, domain.ApplicationStatusRejected, b.Status)
	require.Equal(t, &now, a.RespondedDate)
	require.Equal(t, &now, b.RespondedDate)

	require.Len(t, result.RejectedApplications, 1)
	require.Equal(t, b.ID, result.RejectedApplications[0].ID)
	require.Equal(t, domain.ShiftStatusFilled, shift.Status)

	// 被级联拒绝后再试图录用 B 必须失败
	_, err = Decide(shift, []*domain.Application{a, b}, b.ID, DecisionAccept, now)
	require.ErrorIs(t, err, ErrApplicationAlreadyDecided)
}

func TestDecide_AcceptCascadeCount(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	apps := []*domain.Application{
		pendingApp(1, shift.ID, 100),
		pendingApp(2, shift.ID, 200),
		pendingApp(3, shift.ID, 300),
		pendingApp(4, shift.ID, 400),
	}

	result, err := Decide(shift, apps, 2, DecisionAccept, now)
	require.NoError(t, err)
	require.Len(t, result.RejectedApplications, 3)
	for _, rejected := range result.RejectedApplications {
		require.Equal(t, domain.ApplicationStatusRejected, rejected.Status)
		require.Equal(t, &now, rejected.RespondedDate)
	}
}

// 名额未满时录用不会把班次推进到 filled
func TestDecide_AcceptBelowCapacity(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(2)
	a := pendingApp(1, shift.ID, 100)

	result, err := Decide(shift, []*domain.Application{a}, a.ID, DecisionAccept, now)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusAccepted, a.Status)
	require.Empty(t, result.RejectedApplications)
	require.Equal(t, domain.ShiftStatusOpen, shift.Status)
}

func TestDecide_Reject(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)
	a := pendingApp(1, shift.ID, 100)
	b := pendingApp(2, shift.ID, 200)

	result, err := Decide(shift, []*domain.Application{a, b}, a.ID, DecisionReject, now)
	require.NoError(t, err)

	require.Equal(t, domain.ApplicationStatusRejected, a.Status)
	require.Equal(t, &now, a.RespondedDate)
	// 拒绝不级联，也不改变班次状态
	require.Equal(t, domain.ApplicationStatusPending, b.Status)
	require.Empty(t, result.RejectedApplications)
	require.Equal(t, domain.ShiftStatusOpen, shift.Status)
}

func TestDecide_ApplicationNotFound(t *testing.T) {
	shift := newOpenShift(1)

	_, err := Decide(shift, nil, 99, DecisionAccept, time.Now())
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	shift := newOpenShift(1)
	a := pendingApp(1, shift.ID, 100)
	a.Status = domain.ApplicationStatusRejected

	_, err := Decide(shift, []*domain.Application{a}, a.ID, DecisionAccept, time.Now())
	require.ErrorIs(t, err, ErrApplicationAlreadyDecided)
}

func TestDecide_AcceptWhenFull(t *testing.T) {
	shift := newOpenShift(1)
	accepted := pendingApp(1, shift.ID, 100)
	accepted.Status = domain.ApplicationStatusAccepted
	b := pendingApp(2, shift.ID, 200)

	_, err := Decide(shift, []*domain.Application{accepted, b}, b.ID, DecisionAccept, time.Now())
	require.ErrorIs(t, err, ErrShiftFull)
	// 失败时申请保持原状
	require.Equal(t, domain.ApplicationStatusPending, b.Status)
}
