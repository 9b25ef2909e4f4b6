package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
)

type taskRepository struct {
	db *sql.DB
}

func (r *taskRepository) Create(ctx context.Context, task entities.Task) (entities.Task, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, meeting_id, assigned_to, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Title,
		task.Description,
		string(task.Status),
		nullableString(string(task.Priority)),
		formatNullableTime(task.DueDate),
		nullableInt(task.MeetingID),
		nullableInt(task.AssignedTo),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return entities.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return entities.Task{}, err
	}
	task.ID = id
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (entities.Task, error) {
	return scanTask(ctx, r.db, id)
}

func (r *taskRepository) Update(ctx context.Context, id int64, apply func(*entities.Task) error) (entities.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entities.Task{}, err
	}
	defer tx.Rollback()

	task, err := scanTask(ctx, tx, id)
	if err != nil {
		return entities.Task{}, err
	}

	if err := apply(&task); err != nil {
		return entities.Task{}, err
	}
	task.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, meeting_id = ?, assigned_to = ?, updated_at = ?
		WHERE id = ?`,
		task.Title,
		task.Description,
		string(task.Status),
		nullableString(string(task.Priority)),
		formatNullableTime(task.DueDate),
		nullableInt(task.MeetingID),
		nullableInt(task.AssignedTo),
		formatTime(task.UpdatedAt),
		id,
	)
	if err != nil {
		return entities.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entities.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (entities.Task, error) {
	task, err := scanTask(ctx, r.db, id)
	if err != nil {
		return entities.Task{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return entities.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]entities.Task, error) {
	return r.listWhere(ctx, ``, nil)
}

func (r *taskRepository) ListByMeeting(ctx context.Context, meetingID int64) ([]entities.Task, error) {
	return r.listWhere(ctx, `WHERE meeting_id = ?`, []interface{}{meetingID})
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID int64) ([]entities.Task, error) {
	return r.listWhere(ctx, `WHERE assigned_to = ?`, []interface{}{userID})
}

func (r *taskRepository) listWhere(ctx context.Context, clause string, args []interface{}) ([]entities.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, status, priority, due_date, meeting_id, assigned_to, created_at, updated_at
		FROM tasks `+clause+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []entities.Task{}
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(ctx context.Context, q querier, id int64) (entities.Task, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, title, description, status, priority, due_date, meeting_id, assigned_to, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Task{}, ports.ErrNotFound
	}
	return task, err
}

func scanTaskRow(row rowScanner) (entities.Task, error) {
	var (
		task        entities.Task
		status      string
		priority    sql.NullString
		due         sql.NullString
		meetingID   sql.NullInt64
		assignedTo  sql.NullInt64
		created, up string
	)
	err := row.Scan(
		&task.ID, &task.Title, &task.Description,
		&status, &priority, &due, &meetingID, &assignedTo,
		&created, &up,
	)
	if err != nil {
		return entities.Task{}, err
	}

	task.Status = entities.TaskStatus(status)
	if priority.Valid {
		task.Priority = entities.TaskPriority(priority.String)
	}
	if task.DueDate, err = parseNullableTime(due); err != nil {
		return entities.Task{}, err
	}
	task.MeetingID = fromNullableInt(meetingID)
	task.AssignedTo = fromNullableInt(assignedTo)
	if task.CreatedAt, err = parseTime(created); err != nil {
		return entities.Task{}, err
	}
	if task.UpdatedAt, err = parseTime(up); err != nil {
		return entities.Task{}, err
	}
	return task, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
