package lifecycle

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
)

// NextRank 返回新加入者应得的名次，队列为空时为 1
func NextRank(entries []*domain.WaitlistEntry) int32 {
	var max int32
	for _, entry := range entries {
		if entry.Rank > max {
			max = entry.Rank
		}
	}
	return max + 1
}

// Join 让 userID 排入已满员班次的候补队列。
// 名次严格按加入顺序分配，不按评分或其他信号重排
func Join(shift *domain.Shift, entries []*domain.WaitlistEntry, userID int64, now time.Time) (*domain.WaitlistEntry, error) {
	if shift.Status != domain.ShiftStatusFilled && shift.Status != domain.ShiftStatusConfirmed {
		return nil, ErrShiftNotFull
	}

	for _, entry := range entries {
		if entry.UserID == userID {
			return nil, ErrAlreadyOnWaitlist
		}
	}

	return &domain.WaitlistEntry{
		ShiftID:  shift.ID,
		UserID:   userID,
		Rank:     NextRank(entries),
		JoinedAt: now,
	}, nil
}

// Remove 把指定记录移出队列，并把名次在它之后的记录各往前挪一位，
// 保证剩余名次仍然是从 1 开始的连续序列
func Remove(entries []*domain.WaitlistEntry, entryID int64) (*domain.WaitlistEntry, []*domain.WaitlistEntry, error) {
	var removed *domain.WaitlistEntry
	for _, entry := range entries {
		if entry.ID == entryID {
			removed = entry
			break
		}
	}
	if removed == nil {
		return nil, nil, ErrWaitlistEntryNotFound
	}

	remaining := make([]*domain.WaitlistEntry, 0, len(entries)-1)
	for _, entry := range entries {
		if entry.ID == entryID {
			continue
		}
		if entry.Rank > removed.Rank {
			entry.Rank--
		}
		remaining = append(remaining, entry)
	}

	return removed, remaining, nil
}

// PopFront 取出名次为 1 的记录用于递补，队列为空时返回 nil
func PopFront(entries []*domain.WaitlistEntry) (*domain.WaitlistEntry, []*domain.WaitlistEntry) {
	for _, entry := range entries {
		if entry.Rank == 1 {
			_, remaining, _ := Remove(entries, entry.ID)
			return entry, remaining
		}
	}
	return nil, entries
}
