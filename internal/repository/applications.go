package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
)

const applicationColumns = `id, shift_id, user_id, cover_letter, status, applied_date, responded_date`

func scanApplication(row interface{ Scan(...any) error }) (*domain.Application, error) {
	app := &domain.Application{}
	dst := []any{&app.ID, &app.ShiftID, &app.UserID, &app.CoverLetter, &app.Status, &app.AppliedDate, &app.RespondedDate}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *Repository) getApplicationsByShiftIDTx(ctx context.Context, tx *sql.Tx, shiftID int64) ([]*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE shift_id = $1 ORDER BY applied_date`

	rows, err := tx.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []*domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *Repository) insertApplicationTx(ctx context.Context, tx *sql.Tx, app *domain.Application) error {
	query := `
		INSERT INTO applications (shift_id, user_id, cover_letter, status, applied_date, responded_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	params := []any{app.ShiftID, app.UserID, app.CoverLetter, app.Status, app.AppliedDate, app.RespondedDate}
	return tx.QueryRowContext(ctx, query, params...).Scan(&app.ID)
}

func (r *Repository) updateApplicationTx(ctx context.Context, tx *sql.Tx, app *domain.Application) error {
	query := `UPDATE applications SET status = $1, responded_date = $2 WHERE id = $3`

	if _, err := tx.ExecContext(ctx, query, app.Status, app.RespondedDate, app.ID); err != nil {
		return err
	}
	return nil
}

func (r *Repository) GetApplicationByID(id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanApplication(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetApplicationsByShiftID(shiftID int64) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	apps, err := r.getApplicationsByShiftIDTx(ctx, tx, shiftID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *Repository) GetApplicationsByUserID(userID int64) ([]*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY applied_date DESC`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []*domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// ApplyToShift 创建一条待处理申请。
// 重复申请在事务内检查，数据库上的部分唯一索引 applications_live_user_shift_key
// 兜底拦截并发场景下的重复申请
func (r *Repository) ApplyToShift(shift *domain.Shift, userID int64, coverLetter string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, err := r.getApplicationsByShiftIDTx(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}

	app, err := lifecycle.NewApplication(shift, existing, userID, coverLetter, time.Now())
	if err != nil {
		return nil, err
	}

	if err := r.insertApplicationTx(ctx, tx, app); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return app, nil
}

// DecideApplication 在一个事务里完成对申请的决定及其全部级联效果：
// 录用会连带拒绝其余待处理申请并在满员时把班次置为 filled。
// 班次行的版本检查保证两个并发的录用不可能同时成功
func (r *Repository) DecideApplication(shift *domain.Shift, applicationID int64, decision lifecycle.Decision) (*lifecycle.DecisionResult, error) {
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

	result, err := lifecycle.Decide(shift, apps, applicationID, decision, time.Now())
	if err != nil {
		return nil, err
	}

	if err := r.updateApplicationTx(ctx, tx, result.Application); err != nil {
		return nil, err
	}
	for _, app := range result.RejectedApplications {
		if err := r.updateApplicationTx(ctx, tx, app); err != nil {
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

// WithdrawApplication 撤回一条待处理申请。
// SQL 里再带上 status = 'pending' 的条件，避免和场馆的决定操作竞争时覆盖已决定的申请
func (r *Repository) WithdrawApplication(app *domain.Application) error {
	query := `UPDATE applications SET status = $1 WHERE id = $2 AND status = 'pending'`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, domain.ApplicationStatusWithdrawn, app.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return lifecycle.ErrConcurrencyConflict
	}

	return nil
}
