package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const resumeColumns = `id, user_id, file_name, file_path, file_size, is_default, uploaded_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var r Resume
	err := row.Scan(&r.ID, &r.UserID, &r.FileName, &r.FilePath, &r.FileSize, &r.IsDefault, &r.UploadedAt)
	return r, err
}

// Create inserts a resume. The default flag is only kept when the user has
// no default yet; the partial unique index settles concurrent inserts.
func (r *PGRepo) Create(ctx context.Context, res Resume) (Resume, error) {
	const query = `
INSERT INTO user_resumes (user_id, file_name, file_path, file_size, is_default, uploaded_at)
VALUES ($1, $2, $3, $4,
    $5 AND NOT EXISTS (SELECT 1 FROM user_resumes WHERE user_id = $1 AND is_default),
    COALESCE($6, NOW()))
RETURNING ` + resumeColumns

	var uploadedAt sql.NullTime
	if !res.UploadedAt.IsZero() {
		uploadedAt = sql.NullTime{Time: res.UploadedAt, Valid: true}
	}

	created, err := scanResume(r.DB.QueryRowContext(ctx, query,
		res.UserID, res.FileName, res.FilePath, res.FileSize, res.IsDefault, uploadedAt))
	if err != nil && res.IsDefault && isUniqueViolation(err) {
		created, err = scanResume(r.DB.QueryRowContext(ctx, query,
			res.UserID, res.FileName, res.FilePath, res.FileSize, false, uploadedAt))
	}
	if err != nil {
		return Resume{}, fmt.Errorf("insert resume: %w", err)
	}
	return created, nil
}

// GetByID fetches a resume by ID.
func (r *PGRepo) GetByID(ctx context.Context, resumeID int64) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM user_resumes WHERE id = $1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// ListByUser lists a user's resumes ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Resume, error) {
	const query = `SELECT ` + resumeColumns + `
FROM user_resumes
WHERE user_id = $1
ORDER BY uploaded_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetDefault returns the user's default resume.
func (r *PGRepo) GetDefault(ctx context.Context, userID int64) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM user_resumes WHERE user_id = $1 AND is_default LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// CountByUser counts a user's resumes.
func (r *PGRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM user_resumes WHERE user_id = $1`
	var n int64
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetDefault clears the current default and marks resumeID in one transaction.
func (r *PGRepo) SetDefault(ctx context.Context, userID, resumeID int64) (Resume, error) {
	var out Resume
	err := r.withUserTx(ctx, userID, func(tx *sql.Tx) error {
		const clear = `UPDATE user_resumes SET is_default = FALSE WHERE user_id = $1 AND is_default AND id <> $2`
		if _, err := tx.ExecContext(ctx, clear, userID, resumeID); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}

		const mark = `UPDATE user_resumes SET is_default = TRUE WHERE id = $1 AND user_id = $2 RETURNING ` + resumeColumns
		res, err := scanResume(tx.QueryRowContext(ctx, mark, resumeID, userID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("mark default: %w", err)
		}
		out = res
		return nil
	})
	return out, err
}

// Delete removes resumeID and promotes the newest remaining resume when the
// deleted row was the default.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID int64) (*Resume, error) {
	var promoted *Resume
	err := r.withUserTx(ctx, userID, func(tx *sql.Tx) error {
		const del = `DELETE FROM user_resumes WHERE id = $1 AND user_id = $2 RETURNING is_default`
		var wasDefault bool
		if err := tx.QueryRowContext(ctx, del, resumeID, userID).Scan(&wasDefault); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("delete resume: %w", err)
		}
		if !wasDefault {
			return nil
		}

		const promote = `
UPDATE user_resumes SET is_default = TRUE
WHERE id = (
    SELECT id FROM user_resumes
    WHERE user_id = $1
    ORDER BY uploaded_at DESC, id DESC
    LIMIT 1
)
RETURNING ` + resumeColumns
		res, err := scanResume(tx.QueryRowContext(ctx, promote, userID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("promote resume: %w", err)
		}
		promoted = &res
		return nil
	})
	return promoted, err
}

// withUserTx runs fn in a transaction holding row locks on every resume of
// userID, serializing default changes across processes.
func (r *PGRepo) withUserTx(ctx context.Context, userID int64, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const lock = `SELECT id FROM user_resumes WHERE user_id = $1 FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lock, userID)
	if err != nil {
		return fmt.Errorf("lock resumes: %w", err)
	}
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("lock resumes: %w", err)
	}
	rows.Close()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ Repo = (*PGRepo)(nil)
