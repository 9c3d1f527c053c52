package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
)

const waitlistColumns = `id, shift_id, user_id, rank, joined_at`

func scanWaitlistEntry(row interface{ Scan(...any) error }) (*domain.WaitlistEntry, error) {
	entry := &domain.WaitlistEntry{}
	dst := []any{&entry.ID, &entry.ShiftID, &entry.UserID, &entry.Rank, &entry.JoinedAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *Repository) getWaitlistByShiftIDTx(ctx context.Context, tx *sql.Tx, shiftID int64) ([]*domain.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE shift_id = $1 ORDER BY rank`

	rows, err := tx.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.WaitlistEntry{}
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) GetWaitlistByShiftID(shiftID int64) ([]*domain.WaitlistEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries, err := r.getWaitlistByShiftIDTx(ctx, tx, shiftID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) GetWaitlistEntryByID(id int64) (*domain.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanWaitlistEntry(r.dbpool.QueryRowContext(ctx, query, id))
}

// JoinWaitlist 让用户排入已满员班次的候补队列。
// 名次的分配和班次行的版本递增在同一个事务里，避免并发加入产生重复名次
func (r *Repository) JoinWaitlist(shift *domain.Shift, userID int64) (*domain.WaitlistEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries, err := r.getWaitlistByShiftIDTx(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}

	entry, err := lifecycle.Join(shift, entries, userID, time.Now())
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO waitlist_entries (shift_id, user_id, rank, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, entry.ShiftID, entry.UserID, entry.Rank, entry.JoinedAt).Scan(&entry.ID); err != nil {
		return nil, err
	}

	if err := r.updateShiftTx(ctx, tx, shift); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entry, nil
}

// LeaveWaitlist 把一条候补记录移出队列，并在同一个事务里把后面的名次整体前移，
// 保证名次始终是从 1 开始的连续序列
func (r *Repository) LeaveWaitlist(shift *domain.Shift, entryID int64) (*domain.WaitlistEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries, err := r.getWaitlistByShiftIDTx(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}

	removed, _, err := lifecycle.Remove(entries, entryID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, removed.ID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE waitlist_entries SET rank = rank - 1 WHERE shift_id = $1 AND rank > $2`, shift.ID, removed.Rank); err != nil {
		return nil, err
	}

	if err := r.updateShiftTx(ctx, tx, shift); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return removed, nil
}

// PopWaitlistEntry 取出名次为 1 的候补记录并重排剩余名次，队列为空时返回 nil。
// 取出即出队：即使后续的自动递补失败，该记录也不会被放回队列
func (r *Repository) PopWaitlistEntry(shift *domain.Shift) (*domain.WaitlistEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries, err := r.getWaitlistByShiftIDTx(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}

	front, _ := lifecycle.PopFront(entries)
	if front == nil {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, front.ID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE waitlist_entries SET rank = rank - 1 WHERE shift_id = $1`, shift.ID); err != nil {
		return nil, err
	}

	if err := r.updateShiftTx(ctx, tx, shift); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return front, nil
}

// AutoAcceptFromStandby 替出队的候补人员创建申请并直接录用，
// 级联拒绝与班次状态更新和普通录用走同一套事务逻辑
func (r *Repository) AutoAcceptFromStandby(shift *domain.Shift, userID int64) (*lifecycle.DecisionResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()

	apps, err := r.getApplicationsByShiftIDTx(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}

	app, err := lifecycle.NewApplication(shift, apps, userID, "", now)
	if err != nil {
		return nil, err
	}

	if err := r.insertApplicationTx(ctx, tx, app); err != nil {
		return nil, err
	}
	apps = append(apps, app)

	result, err := lifecycle.Decide(shift, apps, app.ID, lifecycle.DecisionAccept, now)
	if err != nil {
		return nil, err
	}

	if err := r.updateApplicationTx(ctx, tx, result.Application); err != nil {
		return nil, err
	}
	for _, rejected := range result.RejectedApplications {
		if err := r.updateApplicationTx(ctx, tx, rejected); err != nil {
			return nil, err
		}
	}

	if err := r.updateShiftTx(ctx, tx, shift); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}
