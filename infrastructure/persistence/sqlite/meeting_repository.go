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

type meetingRepository struct {
	db *sql.DB
}

func (r *meetingRepository) Create(ctx context.Context, meeting entities.Meeting) (entities.Meeting, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entities.Meeting{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO meetings (title, description, start_time, end_time, location, meeting_link, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meeting.Title,
		meeting.Description,
		formatTime(meeting.StartTime),
		formatNullableTime(meeting.EndTime),
		meeting.Location,
		meeting.MeetingLink,
		string(meeting.Status),
		formatTime(meeting.CreatedAt),
		formatTime(meeting.UpdatedAt),
	)
	if err != nil {
		return entities.Meeting{}, fmt.Errorf("failed to insert meeting: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return entities.Meeting{}, err
	}
	meeting.ID = id

	if err := replaceParticipants(ctx, tx, id, meeting.Participants); err != nil {
		return entities.Meeting{}, err
	}

	if err := tx.Commit(); err != nil {
		return entities.Meeting{}, err
	}
	return meeting, nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id int64) (entities.Meeting, error) {
	return scanMeeting(ctx, r.db, id)
}

// Update runs the read-apply-write sequence inside one transaction, which
// is the relational rendition of the atomic Mutate primitive.
func (r *meetingRepository) Update(ctx context.Context, id int64, apply func(*entities.Meeting) error) (entities.Meeting, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entities.Meeting{}, err
	}
	defer tx.Rollback()

	meeting, err := scanMeeting(ctx, tx, id)
	if err != nil {
		return entities.Meeting{}, err
	}

	if err := apply(&meeting); err != nil {
		return entities.Meeting{}, err
	}
	meeting.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE meetings
		SET title = ?, description = ?, start_time = ?, end_time = ?, location = ?, meeting_link = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		meeting.Title,
		meeting.Description,
		formatTime(meeting.StartTime),
		formatNullableTime(meeting.EndTime),
		meeting.Location,
		meeting.MeetingLink,
		string(meeting.Status),
		formatTime(meeting.UpdatedAt),
		id,
	)
	if err != nil {
		return entities.Meeting{}, fmt.Errorf("failed to update meeting: %w", err)
	}

	if err := replaceParticipants(ctx, tx, id, meeting.Participants); err != nil {
		return entities.Meeting{}, err
	}

	if err := tx.Commit(); err != nil {
		return entities.Meeting{}, err
	}
	return meeting, nil
}

func (r *meetingRepository) Delete(ctx context.Context, id int64) (entities.Meeting, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entities.Meeting{}, err
	}
	defer tx.Rollback()

	meeting, err := scanMeeting(ctx, tx, id)
	if err != nil {
		return entities.Meeting{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id); err != nil {
		return entities.Meeting{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_participants WHERE meeting_id = ?`, id); err != nil {
		return entities.Meeting{}, err
	}

	if err := tx.Commit(); err != nil {
		return entities.Meeting{}, err
	}
	return meeting, nil
}

func (r *meetingRepository) List(ctx context.Context) ([]entities.Meeting, error) {
	return r.listWhere(ctx, ``, nil)
}

func (r *meetingRepository) ListByParticipant(ctx context.Context, userID int64) ([]entities.Meeting, error) {
	return r.listWhere(ctx, `
		WHERE id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = ?)`,
		[]interface{}{userID})
}

func (r *meetingRepository) listWhere(ctx context.Context, clause string, args []interface{}) ([]entities.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, location, meeting_link, status, created_at, updated_at
		FROM meetings `+clause+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []entities.Meeting
	for rows.Next() {
		meeting, err := scanMeetingRow(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range meetings {
		participants, err := loadParticipants(ctx, r.db, meetings[i].ID)
		if err != nil {
			return nil, err
		}
		meetings[i].Participants = participants
	}
	if meetings == nil {
		meetings = []entities.Meeting{}
	}
	return meetings, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func scanMeeting(ctx context.Context, q querier, id int64) (entities.Meeting, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, location, meeting_link, status, created_at, updated_at
		FROM meetings WHERE id = ?`, id)

	meeting, err := scanMeetingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Meeting{}, ports.ErrNotFound
	}
	if err != nil {
		return entities.Meeting{}, err
	}

	participants, err := loadParticipants(ctx, q, id)
	if err != nil {
		return entities.Meeting{}, err
	}
	meeting.Participants = participants
	return meeting, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeetingRow(row rowScanner) (entities.Meeting, error) {
	var (
		meeting            entities.Meeting
		status             string
		start, created, up string
		end                sql.NullString
	)
	err := row.Scan(
		&meeting.ID, &meeting.Title, &meeting.Description,
		&start, &end, &meeting.Location, &meeting.MeetingLink,
		&status, &created, &up,
	)
	if err != nil {
		return entities.Meeting{}, err
	}

	meeting.Status = entities.MeetingStatus(status)
	if meeting.StartTime, err = parseTime(start); err != nil {
		return entities.Meeting{}, err
	}
	if meeting.EndTime, err = parseNullableTime(end); err != nil {
		return entities.Meeting{}, err
	}
	if meeting.CreatedAt, err = parseTime(created); err != nil {
		return entities.Meeting{}, err
	}
	if meeting.UpdatedAt, err = parseTime(up); err != nil {
		return entities.Meeting{}, err
	}
	return meeting, nil
}

func loadParticipants(ctx context.Context, q querier, meetingID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id FROM meeting_participants WHERE meeting_id = ? ORDER BY position`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []int64{}
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		participants = append(participants, userID)
	}
	return participants, rows.Err()
}

func replaceParticipants(ctx context.Context, tx *sql.Tx, meetingID int64, participants []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_participants WHERE meeting_id = ?`, meetingID); err != nil {
		return err
	}
	for i, userID := range participants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meeting_participants (meeting_id, user_id, position) VALUES (?, ?, ?)`,
			meetingID, userID, i)
		if err != nil {
			return err
		}
	}
	return nil
}
