package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var pgCols = []string{
	"id", "email", "name", "role", "assistant_access",
	"assigned_assistants", "assigned_assistant_names",
	"default_assistant_id", "default_assistant_name",
	"language", "questions", "qa_form_submitted",
	"created_by", "created_at", "updated_at",
}

func TestPGStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(pgCols).AddRow(
			"u1", "guest@hotel.test", "Guest", "editor", "single",
			[]byte(`["asst-1"]`), []byte(`["Reception Bot"]`),
			"asst-1", "Reception Bot",
			"en", []byte(`{"rooms":42}`), true,
			"admin-1", created, created,
		))

	a, err := NewPGStore(db).Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Role != RoleEditor || a.AssistantAccess != AccessSingle {
		t.Errorf("role/access = %q/%q", a.Role, a.AssistantAccess)
	}
	if len(a.AssignedAssistants) != 1 || a.AssignedAssistants[0] != "asst-1" {
		t.Errorf("assigned = %v", a.AssignedAssistants)
	}
	if !a.QuestionsSubmitted || string(a.Questions) != `{"rooms":42}` {
		t.Errorf("questions = %s submitted=%v", a.Questions, a.QuestionsSubmitted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(pgCols))

	if _, err := NewPGStore(db).Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGStoreCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_pkey"})

	now := time.Now().UTC()
	err = NewPGStore(db).Create(context.Background(), Account{
		ID: "u1", Email: "guest@hotel.test", Role: RoleUser,
		AssistantAccess: AccessSingle, Language: "en",
		CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPGStore(db).Update(context.Background(), Account{ID: "ghost", Role: RoleUser, AssistantAccess: AccessSingle})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGStoreDelete(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewPGStore(db).Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
