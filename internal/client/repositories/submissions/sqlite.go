package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/dbx"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add stores s, assigning a fresh id when s.ID is empty.
func (r *SQLiteRepository) Add(ctx context.Context, s *Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, hash, subject_id, article_score, shipping_score, communication_score, comment, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Hash, s.SubjectID, s.Article, s.Shipping, s.Communication, s.Comment, s.SubmittedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", s.Hash, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Submission, error) {
	query := `
		SELECT id, hash, subject_id, article_score, shipping_score, communication_score, comment, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var result []Submission
	for rows.Next() {
		var (
			s  Submission
			ms int64
		)
		if err := rows.Scan(&s.ID, &s.Hash, &s.SubjectID, &s.Article, &s.Shipping, &s.Communication, &s.Comment, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		s.SubmittedAt = time.UnixMilli(ms)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submission rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM submissions`); err != nil {
		return fmt.Errorf("failed to clear submissions: %w", err)
	}
	return nil
}
