package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func newBaseShift() *domain.Shift {
	start := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)
	assignee := int64(100)

	return &domain.Shift{
		ID:                      1,
		EmployerID:              10,
		Title:                   "晚市传菜",
		StartTime:               start,
		EndTime:                 start.Add(5 * time.Hour),
		HourlyRate:              "45.00",
		Location:                "珠江新城店",
		Capacity:                1,
		Status:                  domain.ShiftStatusOpen,
		AssigneeID:              &assignee,
		CancellationWindowHours: 24,
	}
}

func TestGenerateSeries_WeeklySpacing(t *testing.T) {
	base := newBaseShift()
	cfg := &RecurrenceConfig{
		Frequency:           "weekly",
		NumberOfOccurrences: 4,
		AssigneeOption:      AssigneeOptionKeep,
	}

	shifts, err := GenerateSeries(base, cfg, "series01")
	require.NoError(t, err)
	require.Len(t, shifts, 4)

	duration := base.EndTime.Sub(base.StartTime)
	for i, shift := range shifts {
		// 第 i 期的开始时间恰好是模板开始时间加 i 周，时长与模板一致
		require.Equal(t, base.StartTime.Add(time.Duration(i)*7*24*time.Hour), shift.StartTime, "第 %d 期的开始时间错误", i)
		require.Equal(t, duration, shift.EndTime.Sub(shift.StartTime), "第 %d 期的时长错误", i)

		require.True(t, shift.IsRecurring)
		require.Equal(t, int32(i), shift.RecurringIndex)
		require.NotNil(t, shift.RecurringSeriesID)
		require.Equal(t, "series01", *shift.RecurringSeriesID)

		require.Equal(t, base.Status, shift.Status)
		require.Equal(t, base.AssigneeID, shift.AssigneeID)
	}
}

// open-slot 选项无条件清空受邀人并以草稿状态生成
func TestGenerateSeries_OpenSlotOverridesAssignee(t *testing.T) {
	base := newBaseShift()
	cfg := &RecurrenceConfig{
		Frequency:           "weekly",
		NumberOfOccurrences: 3,
		AssigneeOption:      AssigneeOptionOpenSlot,
	}

	shifts, err := GenerateSeries(base, cfg, "series02")
	require.NoError(t, err)

	for _, shift := range shifts {
		require.Nil(t, shift.AssigneeID)
		require.Equal(t, domain.ShiftStatusDraft, shift.Status)
	}
}

func TestGenerateSeries_UnsupportedFrequency(t *testing.T) {
	base := newBaseShift()
	cfg := &RecurrenceConfig{
		Frequency:           "daily",
		NumberOfOccurrences: 3,
		AssigneeOption:      AssigneeOptionKeep,
	}

	_, err := GenerateSeries(base, cfg, "series03")
	require.Error(t, err)
}

// 显式指定的期数优先于结束日期
func TestOccurrenceCount_ExplicitCountWins(t *testing.T) {
	base := newBaseShift()
	endDate := base.StartTime.Add(10 * 7 * 24 * time.Hour)
	cfg := &RecurrenceConfig{
		NumberOfOccurrences: 3,
		EndDate:             &endDate,
	}

	count, err := OccurrenceCount(base, cfg)
	require.NoError(t, err)
	require.Equal(t, int32(3), count)
}

func TestOccurrenceCount_FromEndDate(t *testing.T) {
	base := newBaseShift()

	cases := []struct {
		offset   time.Duration
		expected int32
	}{
		// 结束日期恰好落在第 3 周的开始时间：floor(21/7)+1 = 4 期
		{21 * 24 * time.Hour, 4},
		// 不满一周时向下取整
		{20 * 24 * time.Hour, 3},
		// 结束日期早于开始时间，至少生成 1 期
		{-7 * 24 * time.Hour, 1},
	}

	for _, c := range cases {
		endDate := base.StartTime.Add(c.offset)
		cfg := &RecurrenceConfig{EndDate: &endDate}

		count, err := OccurrenceCount(base, cfg)
		require.NoError(t, err)
		require.Equal(t, c.expected, count, "偏移 %v 时期数错误", c.offset)
	}
}

func TestOccurrenceCount_MissingBound(t *testing.T) {
	base := newBaseShift()

	_, err := OccurrenceCount(base, &RecurrenceConfig{})
	require.Error(t, err)
}
