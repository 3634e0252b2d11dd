package labels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mark3t-rep/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, subjectID uint32) (string, bool, error) {
	var label string
	err := r.db.QueryRowContext(ctx, `SELECT label FROM labels WHERE subject_id = ?`, subjectID).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get label[%d]: %w", subjectID, err)
	}
	return label, true, nil
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, subjectID uint32, label string) (string, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO labels (subject_id, label) VALUES (?, ?)
		ON CONFLICT(subject_id) DO NOTHING
	`, subjectID, label)
	if err != nil {
		return "", fmt.Errorf("failed to insert label[%d]: %w", subjectID, err)
	}

	stored, ok, err := r.Get(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("label[%d] missing after insert", subjectID)
	}
	return stored, nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[uint32]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subject_id, label FROM labels`)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	result := make(map[uint32]string)
	for rows.Next() {
		var (
			id    uint32
			label string
		)
		if err := rows.Scan(&id, &label); err != nil {
			return nil, fmt.Errorf("failed to scan label row: %w", err)
		}
		result[id] = label
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate label rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM labels`); err != nil {
		return fmt.Errorf("failed to clear labels: %w", err)
	}
	return nil
}
