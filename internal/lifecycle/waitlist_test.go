package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func newFilledShift() *domain.Shift {
	return &domain.Shift{ID: 1, Capacity: 1, Status: domain.ShiftStatusFilled}
}

func entry(id int64, userID int64, rank int32) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{ID: id, ShiftID: 1, UserID: userID, Rank: rank}
}

func TestJoin_RanksAssignedInOrder(t *testing.T) {
	now := time.Now()
	shift := newFilledShift()

	entries := []*domain.WaitlistEntry{}
	for i := int64(1); i <= 3; i++ {
		e, err := Join(shift, entries, i*100, now)
		require.NoError(t, err)
		require.Equal(t, int32(i), e.Rank, "第 %d 个加入者的名次错误", i)

		e.ID = i
		entries = append(entries, e)
	}
}

func TestJoin_OnlyFilledOrConfirmed(t *testing.T) {
	now := time.Now()

	for _, status := range []domain.ShiftStatus{
		domain.ShiftStatusDraft, domain.ShiftStatusOpen, domain.ShiftStatusInvited,
		domain.ShiftStatusCompleted, domain.ShiftStatusCancelled,
	} {
		shift := newFilledShift()
		shift.Status = status

		_, err := Join(shift, nil, 100, now)
		require.ErrorIs(t, err, ErrShiftNotFull, "%s 状态的班次不应允许候补", status)
	}

	shift := newFilledShift()
	shift.Status = domain.ShiftStatusConfirmed
	_, err := Join(shift, nil, 100, now)
	require.NoError(t, err)
}

func TestJoin_Duplicate(t *testing.T) {
	shift := newFilledShift()
	entries := []*domain.WaitlistEntry{entry(1, 100, 1)}

	_, err := Join(shift, entries, 100, time.Now())
	require.ErrorIs(t, err, ErrAlreadyOnWaitlist)
}

// 移除中间的记录后，剩余名次仍然是从 1 开始的连续序列
func TestRemove_DensifiesRanks(t *testing.T) {
	entries := []*domain.WaitlistEntry{
		entry(1, 100, 1),
		entry(2, 200, 2),
		entry(3, 300, 3),
	}

	removed, remaining, err := Remove(entries, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed.ID)

	require.Len(t, remaining, 2)
	require.Equal(t, int32(1), remaining[0].Rank)
	require.Equal(t, int64(100), remaining[0].UserID)
	require.Equal(t, int32(2), remaining[1].Rank)
	require.Equal(t, int64(300), remaining[1].UserID)
}

func TestRemove_NotFound(t *testing.T) {
	entries := []*domain.WaitlistEntry{entry(1, 100, 1)}

	_, _, err := Remove(entries, 99)
	require.ErrorIs(t, err, ErrWaitlistEntryNotFound)
}

func TestPopFront(t *testing.T) {
	entries := []*domain.WaitlistEntry{
		entry(1, 100, 1),
		entry(2, 200, 2),
	}

	front, remaining := PopFront(entries)
	require.NotNil(t, front)
	require.Equal(t, int64(100), front.UserID)

	require.Len(t, remaining, 1)
	require.Equal(t, int32(1), remaining[0].Rank)
	require.Equal(t, int64(200), remaining[0].UserID)
}

func TestPopFront_Empty(t *testing.T) {
	front, remaining := PopFront(nil)
	require.Nil(t, front)
	require.Empty(t, remaining)
}
