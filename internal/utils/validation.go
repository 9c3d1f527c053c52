package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

// NormalizeMoney 校验金额字符串并归一化为保留两位小数的定点数格式。
// 金额字段持久化为字符串，避免浮点数在结算相关数字上产生漂移
func NormalizeMoney(field string, value string) (string, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return "", fmt.Errorf("%s 不是合法的金额", field)
	}

	if amount.IsNegative() {
		return "", fmt.Errorf("%s 不能为负数", field)
	}

	if amount.Exponent() < -2 {
		return "", fmt.Errorf("%s 最多保留两位小数", field)
	}

	return amount.StringFixed(2), nil
}

// ValidateShift 校验新建或生成的班次的字段约束，
// 并把金额字段归一化为两位小数的字符串
func ValidateShift(shift *domain.Shift) error {
	if !shift.EndTime.After(shift.StartTime) {
		return fmt.Errorf("班次的结束时间必须晚于开始时间")
	}

	if shift.Capacity < 1 {
		return fmt.Errorf("班次的名额数必须大于等于 1")
	}

	if shift.CancellationWindowHours < 0 {
		return fmt.Errorf("取消窗口期不能为负数")
	}

	rate, err := NormalizeMoney("时薪", shift.HourlyRate)
	if err != nil {
		return err
	}
	shift.HourlyRate = rate

	if shift.KillFeeAmount != nil {
		fee, err := NormalizeMoney("解约费", *shift.KillFeeAmount)
		if err != nil {
			return err
		}
		shift.KillFeeAmount = &fee
	}

	return nil
}
