package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/model"
)

// AssignmentRepository 排班分配仓储
type AssignmentRepository struct {
	db Transactor
}

// NewAssignmentRepository 创建排班分配仓储
func NewAssignmentRepository(db Transactor) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, employee_id, demand_id, date, location_name, location_class,
	shift_type, start_time, end_time, score, reason`

const insertAssignment = `
	INSERT INTO shift_assignments (
		id, employee_id, demand_id, date, location_name, location_class,
		shift_type, start_time, end_time, score, reason, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// SaveBatch 在单个事务中写入一次运行的全部分配
// 任何一条失败都回滚整批，绝不留下半个排班结果
func (r *AssignmentRepository) SaveBatch(ctx context.Context, assignments []*model.ShiftAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertAssignment)
		if err != nil {
			return fmt.Errorf("准备批量写入失败: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, a := range assignments {
			if _, err := stmt.ExecContext(ctx,
				a.ID, a.EmployeeID, a.DemandID, a.Date, a.Location.Name, a.Location.Class,
				a.ShiftType, a.StartTime, a.EndTime, a.Score, a.Reason, now,
			); err != nil {
				return fmt.Errorf("写入分配 %s 失败: %w", a.ID, err)
			}
		}
		return nil
	})
}

// Create 写入单条分配
func (r *AssignmentRepository) Create(ctx context.Context, a *model.ShiftAssignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, insertAssignment,
		a.ID, a.EmployeeID, a.DemandID, a.Date, a.Location.Name, a.Location.Class,
		a.ShiftType, a.StartTime, a.EndTime, a.Score, a.Reason, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("写入分配失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取分配
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftAssignment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM shift_assignments
		WHERE id = $1 AND deleted_at IS NULL
	`, assignmentColumns)

	a := &model.ShiftAssignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.EmployeeID, &a.DemandID, &a.Date, &a.Location.Name, &a.Location.Class,
		&a.ShiftType, &a.StartTime, &a.EndTime, &a.Score, &a.Reason,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询分配失败: %w", err)
	}
	return a, nil
}

// ListBetween 查询日期区间内的全部分配（闭区间，YYYY-MM-DD 字符串可直接比较）
func (r *AssignmentRepository) ListBetween(ctx context.Context, startDate, endDate string) ([]*model.ShiftAssignment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM shift_assignments
		WHERE date >= $1 AND date <= $2 AND deleted_at IS NULL
		ORDER BY date, location_name, shift_type
	`, assignmentColumns)

	return r.list(ctx, query, startDate, endDate)
}

// ListByEmployee 查询员工在日期区间内的分配
func (r *AssignmentRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, startDate, endDate string) ([]*model.ShiftAssignment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM shift_assignments
		WHERE employee_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY date, shift_type
	`, assignmentColumns)

	return r.list(ctx, query, employeeID, startDate, endDate)
}

// ListByMonth 查询某月（YYYY-MM）的全部分配
func (r *AssignmentRepository) ListByMonth(ctx context.Context, month string) ([]*model.ShiftAssignment, error) {
	return r.ListBetween(ctx, month+"-01", month+"-31")
}

// Delete 软删除分配
func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shift_assignments SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除分配失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("分配不存在")
	}
	return nil
}

// CountByDate 统计某日的分配数量
func (r *AssignmentRepository) CountByDate(ctx context.Context, date string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shift_assignments WHERE date = $1 AND deleted_at IS NULL`,
		date,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("统计分配失败: %w", err)
	}
	return count, nil
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.ShiftAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询分配列表失败: %w", err)
	}
	defer rows.Close()

	var assignments []*model.ShiftAssignment
	for rows.Next() {
		a := &model.ShiftAssignment{}
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.DemandID, &a.Date, &a.Location.Name, &a.Location.Class,
			&a.ShiftType, &a.StartTime, &a.EndTime, &a.Score, &a.Reason,
		); err != nil {
			return nil, fmt.Errorf("扫描分配数据失败: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
