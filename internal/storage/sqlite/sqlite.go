// Package sqlite provides the SQLite-backed implementation of
// storage.Storage using database/sql. SQLite keeps the whole dataset
// in a single file — no server process, nothing to install beyond the
// driver — which is plenty for registration-desk traffic.
//
// tech_stack is persisted as a JSON array in a TEXT column. Tag
// filtering matches the quoted tag as a substring of that column,
// which is exact as long as tags contain no embedded quotes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hackfest-dev/hackathon-api/internal/config"
	"github.com/hackfest-dev/hackathon-api/internal/storage"
	"github.com/hackfest-dev/hackathon-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage. The
// embedded *sql.DB is a pool and safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

const columns = `id, full_name, email, phone_number, college_name, degree,
	year_of_study, cgpa, tech_stack, other_skills, project_idea, github,
	linkedin, registration_date, verification_status, created_at, updated_at`

// New opens the database at cfg.StoragePath and creates the
// participants table if needed. Running the DDL on every startup is
// idempotent.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS participants (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name           TEXT     NOT NULL,
			email               TEXT     NOT NULL UNIQUE,
			phone_number        TEXT     NOT NULL,
			college_name        TEXT     NOT NULL,
			degree              TEXT     NOT NULL,
			year_of_study       TEXT     NOT NULL,
			cgpa                REAL     NOT NULL,
			tech_stack          TEXT     NOT NULL,
			other_skills        TEXT     NOT NULL DEFAULT '',
			project_idea        TEXT     NOT NULL DEFAULT '',
			github              TEXT     NOT NULL DEFAULT '',
			linkedin            TEXT     NOT NULL DEFAULT '',
			registration_date   DATETIME NOT NULL,
			verification_status TEXT     NOT NULL DEFAULT 'pending',
			created_at          DATETIME NOT NULL,
			updated_at          DATETIME NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

func (s *SQLite) CreateParticipant(ctx context.Context, p types.Participant) (types.Participant, error) {
	// Explicit existence check so the caller gets a clean conflict
	// message instead of a generic constraint failure. Two concurrent
	// creates can both pass this check; the UNIQUE column catches the
	// loser below.
	var existing int64
	err := s.Db.QueryRowContext(ctx,
		"SELECT id FROM participants WHERE email = ? LIMIT 1", p.Email,
	).Scan(&existing)
	if err == nil {
		return types.Participant{}, storage.ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.Participant{}, fmt.Errorf("CreateParticipant: email check: %w", err)
	}

	tags, err := json.Marshal(p.TechStack)
	if err != nil {
		return types.Participant{}, fmt.Errorf("CreateParticipant: marshal tech_stack: %w", err)
	}

	now := time.Now().UTC()
	if p.RegistrationDate.IsZero() {
		p.RegistrationDate = now
	}
	if p.VerificationStatus == "" {
		p.VerificationStatus = types.VerificationPending
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	result, err := s.Db.ExecContext(ctx, `
		INSERT INTO participants (
			full_name, email, phone_number, college_name, degree,
			year_of_study, cgpa, tech_stack, other_skills, project_idea,
			github, linkedin, registration_date, verification_status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Email, p.PhoneNumber, p.CollegeName, p.Degree,
		p.YearOfStudy, p.CGPA, string(tags), p.OtherSkills, p.ProjectIdea,
		p.GitHub, p.LinkedIn, p.RegistrationDate, p.VerificationStatus,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Participant{}, storage.ErrDuplicateEmail
		}
		return types.Participant{}, fmt.Errorf("CreateParticipant: insert: %w", err)
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		return types.Participant{}, fmt.Errorf("CreateParticipant: last insert id: %w", err)
	}
	return p, nil
}

func (s *SQLite) GetParticipantByID(ctx context.Context, id int64) (types.Participant, error) {
	row := s.Db.QueryRowContext(ctx,
		"SELECT "+columns+" FROM participants WHERE id = ? LIMIT 1", id)

	p, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Participant{}, storage.ErrNotFound
		}
		return types.Participant{}, fmt.Errorf("GetParticipantByID: %w", err)
	}
	return p, nil
}

func (s *SQLite) GetParticipants(ctx context.Context, f storage.Filter, limit, offset int) ([]types.Participant, error) {
	where, args := buildFilter(f)

	query := "SELECT " + columns + " FROM participants" + where +
		" ORDER BY registration_date DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := s.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetParticipants: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty result encodes as [] rather than null.
	participants := make([]types.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("GetParticipants: scan row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetParticipants: rows iteration: %w", err)
	}
	return participants, nil
}

func (s *SQLite) CountParticipants(ctx context.Context, f storage.Filter) (int64, error) {
	where, args := buildFilter(f)

	var total int64
	err := s.Db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants"+where, args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("CountParticipants: %w", err)
	}
	return total, nil
}

func (s *SQLite) UpdateParticipantByID(ctx context.Context, id int64, p types.Participant) (types.Participant, error) {
	tags, err := json.Marshal(p.TechStack)
	if err != nil {
		return types.Participant{}, fmt.Errorf("UpdateParticipantByID: marshal tech_stack: %w", err)
	}

	result, err := s.Db.ExecContext(ctx, `
		UPDATE participants SET
			full_name = ?, email = ?, phone_number = ?, college_name = ?,
			degree = ?, year_of_study = ?, cgpa = ?, tech_stack = ?,
			other_skills = ?, project_idea = ?, github = ?, linkedin = ?,
			updated_at = ?
		WHERE id = ?`,
		p.FullName, p.Email, p.PhoneNumber, p.CollegeName,
		p.Degree, p.YearOfStudy, p.CGPA, string(tags),
		p.OtherSkills, p.ProjectIdea, p.GitHub, p.LinkedIn,
		time.Now().UTC(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Participant{}, storage.ErrDuplicateEmail
		}
		return types.Participant{}, fmt.Errorf("UpdateParticipantByID: exec: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return types.Participant{}, storage.ErrNotFound
	}

	// Re-fetch so the caller gets exactly what is stored.
	return s.GetParticipantByID(ctx, id)
}

func (s *SQLite) DeleteParticipantByID(ctx context.Context, id int64) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteParticipantByID: exec: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SQLite) SetVerificationStatus(ctx context.Context, id int64, status string) (types.Participant, error) {
	result, err := s.Db.ExecContext(ctx,
		"UPDATE participants SET verification_status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return types.Participant{}, fmt.Errorf("SetVerificationStatus: exec: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return types.Participant{}, storage.ErrNotFound
	}
	return s.GetParticipantByID(ctx, id)
}

// buildFilter renders a Filter as a WHERE clause. Tag membership is an
// OR across the requested tags: a record matches if any of its tags is
// in the set.
func buildFilter(f storage.Filter) (string, []any) {
	var clauses []string
	var args []any

	if len(f.TechStack) > 0 {
		tagClauses := make([]string, 0, len(f.TechStack))
		for _, tag := range f.TechStack {
			tagClauses = append(tagClauses, "instr(tech_stack, ?) > 0")
			args = append(args, `"`+tag+`"`)
		}
		clauses = append(clauses, "("+strings.Join(tagClauses, " OR ")+")")
	}
	if f.Degree != "" {
		clauses = append(clauses, "degree = ?")
		args = append(args, f.Degree)
	}
	if f.YearOfStudy != "" {
		clauses = append(clauses, "year_of_study = ?")
		args = append(args, f.YearOfStudy)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (types.Participant, error) {
	var p types.Participant
	var tags string

	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.PhoneNumber, &p.CollegeName,
		&p.Degree, &p.YearOfStudy, &p.CGPA, &tags, &p.OtherSkills,
		&p.ProjectIdea, &p.GitHub, &p.LinkedIn, &p.RegistrationDate,
		&p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return types.Participant{}, err
	}
	if err := json.Unmarshal([]byte(tags), &p.TechStack); err != nil {
		return types.Participant{}, fmt.Errorf("decode tech_stack: %w", err)
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
