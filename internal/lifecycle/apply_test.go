package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func newOpenShift(capacity int32) *domain.Shift {
	return &domain.Shift{
		ID:       1,
		Capacity: capacity,
		Status:   domain.ShiftStatusOpen,
	}
}

func TestNewApplication(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)

	app, err := NewApplication(shift, nil, 42, "求职信", now)
	require.NoError(t, err)
	require.Equal(t, shift.ID, app.ShiftID)
	require.Equal(t, int64(42), app.UserID)
	require.Equal(t, domain.ApplicationStatusPending, app.Status)
	require.Equal(t, now, app.AppliedDate)
	require.Nil(t, app.RespondedDate)
}

func TestNewApplication_ShiftNotAccepting(t *testing.T) {
	now := time.Now()

	for _, status := range []domain.ShiftStatus{
		domain.ShiftStatusDraft, domain.ShiftStatusFilled, domain.ShiftStatusConfirmed,
		domain.ShiftStatusCompleted, domain.ShiftStatusCancelled,
	} {
		shift := newOpenShift(1)
		shift.Status = status

		_, err := NewApplication(shift, nil, 42, "", now)
		require.ErrorIs(t, err, ErrShiftNotAcceptingApplications, "%s 状态的班次不应接受申请", status)
	}

	// invited 状态仍然接受申请
	shift := newOpenShift(1)
	shift.Status = domain.ShiftStatusInvited
	_, err := NewApplication(shift, nil, 42, "", now)
	require.NoError(t, err)
}

func TestNewApplication_DuplicateLiveApplication(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)

	for _, status := range []domain.ApplicationStatus{
		domain.ApplicationStatusPending, domain.ApplicationStatusAccepted,
	} {
		existing := []*domain.Application{{ID: 1, ShiftID: shift.ID, UserID: 42, Status: status}}
		_, err := NewApplication(shift, existing, 42, "", now)
		require.ErrorIs(t, err, ErrDuplicateApplication, "已有 %s 申请时不应允许再次申请", status)
	}
}

func TestNewApplication_AllowReapplyAfterRejection(t *testing.T) {
	now := time.Now()
	shift := newOpenShift(1)

	// 被拒绝或已撤回的申请不算在世申请，允许重新申请
	existing := []*domain.Application{
		{ID: 1, ShiftID: shift.ID, UserID: 42, Status: domain.ApplicationStatusRejected},
		{ID: 2, ShiftID: shift.ID, UserID: 42, Status: domain.ApplicationStatusWithdrawn},
	}

	_, err := NewApplication(shift, existing, 42, "", now)
	require.NoError(t, err)
}

func TestCountAccepted(t *testing.T) {
	apps := []*domain.Application{
		{Status: domain.ApplicationStatusAccepted},
		{Status: domain.ApplicationStatusPending},
		{Status: domain.ApplicationStatusAccepted},
		{Status: domain.ApplicationStatusRejected},
	}

	require.Equal(t, int32(2), CountAccepted(apps))
}
