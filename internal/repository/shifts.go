package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
)

const shiftColumns = `
	id, employer_id, title, description, start_time, end_time, hourly_rate, location,
	capacity, status, assignee_id, recurring_series_id, is_recurring, recurring_index,
	cancellation_window_hours, kill_fee_amount, is_emergency_fill,
	cancellation_reason, staff_cancellation_reason, created_at, version
`

func scanShift(row interface{ Scan(...any) error }) (*domain.Shift, error) {
	shift := &domain.Shift{}
	dst := []any{
		&shift.ID,
		&shift.EmployerID,
		&shift.Title,
		&shift.Description,
		&shift.StartTime,
		&shift.EndTime,
		&shift.HourlyRate,
		&shift.Location,
		&shift.Capacity,
		&shift.Status,
		&shift.AssigneeID,
		&shift.RecurringSeriesID,
		&shift.IsRecurring,
		&shift.RecurringIndex,
		&shift.CancellationWindowHours,
		&shift.KillFeeAmount,
		&shift.IsEmergencyFill,
		&shift.CancellationReason,
		&shift.StaffCancellationReason,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *Repository) insertShiftTx(ctx context.Context, tx *sql.Tx, shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (
			employer_id, title, description, start_time, end_time, hourly_rate, location,
			capacity, status, assignee_id, recurring_series_id, is_recurring, recurring_index,
			cancellation_window_hours, kill_fee_amount, is_emergency_fill
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, version
	`

	params := []any{
		shift.EmployerID,
		shift.Title,
		shift.Description,
		shift.StartTime,
		shift.EndTime,
		shift.HourlyRate,
		shift.Location,
		shift.Capacity,
		shift.Status,
		shift.AssigneeID,
		shift.RecurringSeriesID,
		shift.IsRecurring,
		shift.RecurringIndex,
		shift.CancellationWindowHours,
		shift.KillFeeAmount,
		shift.IsEmergencyFill,
	}
	dst := []any{&shift.ID, &shift.CreatedAt, &shift.Version}
	return tx.QueryRowContext(ctx, query, params...).Scan(dst...)
}

// updateShiftTx 带乐观版本检查地更新班次的可变字段。
// 即使状态没有变化也会递增 version，以此让同一班次上的并发关键操作互相串行化；
// 版本不匹配时返回 ErrConcurrencyConflict
func (r *Repository) updateShiftTx(ctx context.Context, tx *sql.Tx, shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			status = $1,
			assignee_id = $2,
			kill_fee_amount = $3,
			is_emergency_fill = $4,
			cancellation_reason = $5,
			staff_cancellation_reason = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	params := []any{
		shift.Status,
		shift.AssigneeID,
		shift.KillFeeAmount,
		shift.IsEmergencyFill,
		shift.CancellationReason,
		shift.StaffCancellationReason,
		shift.ID,
		shift.Version,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lifecycle.ErrConcurrencyConflict
		}
		return err
	}

	return nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.insertShiftTx(ctx, tx, shift); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateShiftSeries 在一个事务里落库整个周期性班次序列，要么全部生成要么全部失败
func (r *Repository) CreateShiftSeries(shifts []*domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, shift := range shifts {
		if err := r.insertShiftTx(ctx, tx, shift); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShift(r.dbpool.QueryRowContext(ctx, query, id))
}

// GetShiftsByStatus 用于求职信息流等列表场景，不加锁，
// 读到的是最近一次已提交事务的结果
func (r *Repository) GetShiftsByStatus(status domain.ShiftStatus) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE status = $1 ORDER BY start_time`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftsBySeriesID(seriesID string) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE recurring_series_id = $1 ORDER BY recurring_index`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// UpdateShift 在独立事务里带版本检查地更新班次，用于普通的状态转换
func (r *Repository) UpdateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.updateShiftTx(ctx, tx, shift); err != nil {
		return err
	}

	return tx.Commit()
}

// CancelShift 在一个事务里完成取消班次的全部级联效果：
// 场馆取消会拒绝所有待处理申请并清空候补队列，
// 兼职人员取消会撤回其已录用申请并让班次重新回到 open
func (r *Repository) CancelShift(shift *domain.Shift, reason string, actorRole domain.Role, actorID int64) (*lifecycle.CancelOutcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	apps, err := r.getApplicationsByShiftIDTx(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}

	outcome, err := lifecycle.Cancel(shift, apps, reason, actorRole, actorID, time.Now())
	if err != nil {
		return nil, err
	}

	for _, app := range outcome.RejectedApplications {
		if err := r.updateApplicationTx(ctx, tx, app); err != nil {
			return nil, err
		}
	}
	if outcome.WithdrawnApplication != nil {
		if err := r.updateApplicationTx(ctx, tx, outcome.WithdrawnApplication); err != nil {
			return nil, err
		}
	}

	// 班次被场馆取消后候补队列不再有意义，直接清空
	if actorRole == domain.RoleVenue {
		if _, err := tx.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE shift_id = $1`, shift.ID); err != nil {
			return nil, err
		}
	}

	if err := r.updateShiftTx(ctx, tx, shift); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return outcome, nil
}
