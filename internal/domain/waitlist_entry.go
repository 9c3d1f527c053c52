package domain

import "time"

// WaitlistEntry 是候补队列中的一条记录。
// 同一班次下所有记录的 rank 必须构成从 1 开始的连续序列，1 表示下一个被递补的人
type WaitlistEntry struct {
	ID       int64     `json:"id"`
	ShiftID  int64     `json:"shiftID"`
	UserID   int64     `json:"userID"`
	Rank     int32     `json:"rank"`
	JoinedAt time.Time `json:"joinedAt"`
}
