package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

func TestNormalizeMoney(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"45", "45.00"},
		{"45.5", "45.50"},
		{"45.50", "45.50"},
		{"0", "0.00"},
	}

	for _, c := range cases {
		got, err := NormalizeMoney("时薪", c.input)
		require.NoError(t, err)
		require.Equal(t, c.expected, got)
	}
}

func TestNormalizeMoney_Invalid(t *testing.T) {
	for _, input := range []string{"abc", "-1", "45.505", ""} {
		_, err := NormalizeMoney("时薪", input)
		require.Error(t, err, "金额 %q 应当校验失败", input)
	}
}

func validShift() *domain.Shift {
	start := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)
	return &domain.Shift{
		StartTime:               start,
		EndTime:                 start.Add(5 * time.Hour),
		HourlyRate:              "45.5",
		Capacity:                1,
		CancellationWindowHours: 24,
	}
}

func TestValidateShift(t *testing.T) {
	shift := validShift()
	fee := "100"
	shift.KillFeeAmount = &fee

	err := ValidateShift(shift)
	require.NoError(t, err)

	// 金额字段被归一化为两位小数
	require.Equal(t, "45.50", shift.HourlyRate)
	require.Equal(t, "100.00", *shift.KillFeeAmount)
}

func TestValidateShift_Invalid(t *testing.T) {
	shift := validShift()
	shift.EndTime = shift.StartTime
	require.Error(t, ValidateShift(shift), "结束时间不晚于开始时间时应当失败")

	shift = validShift()
	shift.Capacity = 0
	require.Error(t, ValidateShift(shift), "名额数小于 1 时应当失败")

	shift = validShift()
	shift.CancellationWindowHours = -1
	require.Error(t, ValidateShift(shift), "取消窗口期为负数时应当失败")

	shift = validShift()
	shift.HourlyRate = "-45"
	require.Error(t, ValidateShift(shift), "时薪为负数时应当失败")
}
