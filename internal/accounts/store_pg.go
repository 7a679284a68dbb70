package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGStore persists accounts in Postgres via database/sql (pgx stdlib driver).
//
// List columns (assigned assistants and their names) are stored as JSONB so
// the store works through database/sql without driver-specific array types.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

const accountColumns = `
	id, email, name, role, assistant_access,
	assigned_assistants, assigned_assistant_names,
	default_assistant_id, default_assistant_name,
	language, questions, qa_form_submitted,
	created_by, created_at, updated_at`

func (s *PGStore) Get(ctx context.Context, id string) (Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (s *PGStore) List(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("accounts list: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) Create(ctx context.Context, a Account) error {
	assigned, names, err := marshalLists(a)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		a.ID, a.Email, nullable(a.Name), string(a.Role), string(a.AssistantAccess),
		assigned, names,
		nullable(a.DefaultAssistantID), nullable(a.DefaultAssistantName),
		a.Language, nullableJSON(a.Questions), a.QuestionsSubmitted,
		nullable(a.CreatedBy), a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("accounts create: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, a Account) error {
	assigned, names, err := marshalLists(a)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET
			email = $2, name = $3, role = $4, assistant_access = $5,
			assigned_assistants = $6, assigned_assistant_names = $7,
			default_assistant_id = $8, default_assistant_name = $9,
			language = $10, questions = $11, qa_form_submitted = $12,
			updated_at = $13
		WHERE id = $1`,
		a.ID, a.Email, nullable(a.Name), string(a.Role), string(a.AssistantAccess),
		assigned, names,
		nullable(a.DefaultAssistantID), nullable(a.DefaultAssistantName),
		a.Language, nullableJSON(a.Questions), a.QuestionsSubmitted,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("accounts update: %w", err)
	}
	return requireRow(res)
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("accounts delete: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (Account, error) {
	var a Account
	var name, defaultID, defaultName, createdBy sql.NullString
	var assigned, names, questions []byte

	err := r.Scan(
		&a.ID, &a.Email, &name, &a.Role, &a.AssistantAccess,
		&assigned, &names,
		&defaultID, &defaultName,
		&a.Language, &questions, &a.QuestionsSubmitted,
		&createdBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("accounts scan: %w", err)
	}

	a.Name = name.String
	a.DefaultAssistantID = defaultID.String
	a.DefaultAssistantName = defaultName.String
	a.CreatedBy = createdBy.String
	if len(questions) > 0 {
		a.Questions = questions
	}
	if len(assigned) > 0 {
		if err := json.Unmarshal(assigned, &a.AssignedAssistants); err != nil {
			return Account{}, fmt.Errorf("accounts scan assigned: %w", err)
		}
	}
	if len(names) > 0 {
		if err := json.Unmarshal(names, &a.AssignedAssistantNames); err != nil {
			return Account{}, fmt.Errorf("accounts scan names: %w", err)
		}
	}
	return a, nil
}

func marshalLists(a Account) ([]byte, []byte, error) {
	assigned, err := json.Marshal(orEmpty(a.AssignedAssistants))
	if err != nil {
		return nil, nil, fmt.Errorf("accounts marshal assigned: %w", err)
	}
	names, err := json.Marshal(orEmpty(a.AssignedAssistantNames))
	if err != nil {
		return nil, nil, fmt.Errorf("accounts marshal names: %w", err)
	}
	return assigned, names, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullableJSON(v json.RawMessage) any {
	if len(v) == 0 {
		return nil
	}
	return []byte(v)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
