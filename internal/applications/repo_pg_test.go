package applications

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var applicationCols = []string{"id", "applicant_id", "job_id", "posted_by_id", "cover_letter_path", "resume_path"}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("JOIN jobs j ON j.id = a.job_id")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(applicationCols).AddRow(int64(10), int64(1), int64(4), int64(2), nil, "resumes/x_cv.pdf"))

	app, err := repo.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if app.JobPostedByID != 2 || app.CoverLetterPath != nil || app.ResumePath == nil || *app.ResumePath != "resumes/x_cv.pdf" {
		t.Fatalf("unexpected application %+v", app)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM job_applications a")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(applicationCols))
	if _, err := repo.GetByID(context.Background(), 11); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetDocumentPaths(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	key := "cover-letters/x_letter.pdf"

	mock.ExpectExec("UPDATE job_applications").
		WithArgs(int64(10), key, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetDocumentPaths(context.Background(), 10, &key, nil); err != nil {
		t.Fatalf("SetDocumentPaths: %v", err)
	}

	mock.ExpectExec("UPDATE job_applications").
		WithArgs(int64(10), key, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM job_applications a")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(applicationCols).AddRow(int64(10), int64(1), int64(4), int64(2), key, nil))
	if err := repo.SetDocumentPaths(context.Background(), 10, &key, nil); !errors.Is(err, ErrAlreadyAttached) {
		t.Fatalf("expected ErrAlreadyAttached, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
