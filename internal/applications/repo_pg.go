package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo on the job_applications and jobs tables.
type PGRepo struct {
	DB *sql.DB
}

// GetByID fetches an application together with the poster of its job.
func (r *PGRepo) GetByID(ctx context.Context, applicationID int64) (Application, error) {
	const query = `
SELECT a.id, a.applicant_id, a.job_id, j.posted_by_id, a.cover_letter_path, a.resume_path
FROM job_applications a
JOIN jobs j ON j.id = a.job_id
WHERE a.id = $1`

	var app Application
	var coverLetter sql.NullString
	var resume sql.NullString
	err := r.DB.QueryRowContext(ctx, query, applicationID).Scan(
		&app.ID,
		&app.ApplicantID,
		&app.JobID,
		&app.JobPostedByID,
		&coverLetter,
		&resume,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if coverLetter.Valid {
		app.CoverLetterPath = &coverLetter.String
	}
	if resume.Valid {
		app.ResumePath = &resume.String
	}
	return app, nil
}

// SetDocumentPaths fills empty document paths in a single statement.
func (r *PGRepo) SetDocumentPaths(ctx context.Context, applicationID int64, coverLetter, resume *string) error {
	const query = `
UPDATE job_applications
SET cover_letter_path = COALESCE($2, cover_letter_path),
    resume_path = COALESCE($3, resume_path)
WHERE id = $1
  AND ($2::text IS NULL OR cover_letter_path IS NULL)
  AND ($3::text IS NULL OR resume_path IS NULL)`

	res, err := r.DB.ExecContext(ctx, query, applicationID, nullString(coverLetter), nullString(resume))
	if err != nil {
		return fmt.Errorf("update application documents: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, applicationID); err != nil {
		return err
	}
	return ErrAlreadyAttached
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
