package lifecycle

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

type AssigneeOption string

const (
	// 每一期都沿用模板班次的受邀人和状态
	AssigneeOptionKeep AssigneeOption = "keep"
	// 每一期都清空受邀人并以 draft 状态生成，场馆希望每周都重新招人
	AssigneeOptionOpenSlot AssigneeOption = "open-slot"
)

type RecurrenceConfig struct {
	Frequency           string         `json:"frequency"`
	EndDate             *time.Time     `json:"endDate"`
	NumberOfOccurrences int32          `json:"numberOfOccurrences"`
	AssigneeOption      AssigneeOption `json:"assigneeOption"`
}

const week = 7 * 24 * time.Hour

// OccurrenceCount 计算周期性班次的期数。
// 显式指定的期数优先；否则按结束日期推算 floor((endDate-startDate)/7天)+1，至少为 1
func OccurrenceCount(base *domain.Shift, cfg *RecurrenceConfig) (int32, error) {
	if cfg.NumberOfOccurrences > 0 {
		return cfg.NumberOfOccurrences, nil
	}

	if cfg.EndDate == nil {
		return 0, fmt.Errorf("必须指定重复次数或结束日期")
	}

	count := int32(cfg.EndDate.Sub(base.StartTime)/week) + 1
	if count < 1 {
		count = 1
	}
	return count, nil
}

// GenerateSeries 把模板班次展开为一个每周重复的班次序列。
// 所有班次共享同一个 seriesID，但生成之后各自独立走完整的生命周期，
// 取消或完成其中一期不影响其他期
func GenerateSeries(base *domain.Shift, cfg *RecurrenceConfig, seriesID string) ([]*domain.Shift, error) {
	if cfg.Frequency != "weekly" {
		return nil, fmt.Errorf("暂时只支持每周重复的班次")
	}
	if cfg.AssigneeOption != AssigneeOptionKeep && cfg.AssigneeOption != AssigneeOptionOpenSlot {
		return nil, fmt.Errorf("未知的受邀人选项: %s", cfg.AssigneeOption)
	}

	count, err := OccurrenceCount(base, cfg)
	if err != nil {
		return nil, err
	}

	duration := base.EndTime.Sub(base.StartTime)
	shifts := make([]*domain.Shift, count)

	for i := int32(0); i < count; i++ {
		start := base.StartTime.Add(time.Duration(i) * week)

		shift := &domain.Shift{
			EmployerID:              base.EmployerID,
			Title:                   base.Title,
			Description:             base.Description,
			StartTime:               start,
			EndTime:                 start.Add(duration),
			HourlyRate:              base.HourlyRate,
			Location:                base.Location,
			Capacity:                base.Capacity,
			Status:                  base.Status,
			AssigneeID:              base.AssigneeID,
			RecurringSeriesID:       &seriesID,
			IsRecurring:             true,
			RecurringIndex:          i,
			CancellationWindowHours: base.CancellationWindowHours,
			KillFeeAmount:           base.KillFeeAmount,
			IsEmergencyFill:         base.IsEmergencyFill,
		}

		if cfg.AssigneeOption == AssigneeOptionOpenSlot {
			shift.AssigneeID = nil
			shift.Status = domain.ShiftStatusDraft
		}

		shifts[i] = shift
	}

	return shifts, nil
}
