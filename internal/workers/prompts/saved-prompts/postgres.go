// internal/workers/prompts/saved-prompts/postgres.go
package savedprompts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"oci-bom-generator/internal/models"
)

const Schema = `
CREATE TABLE IF NOT EXISTS saved_prompts (
	id                UUID PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL DEFAULT '',
	requirements      TEXT NOT NULL,
	follow_up_answers JSONB NOT NULL DEFAULT '{}'::jsonb,
	llm_provider      TEXT NOT NULL DEFAULT '',
	tags              TEXT[] NOT NULL DEFAULT '{}',
	created_at        TIMESTAMPTZ NOT NULL,
	last_used         TIMESTAMPTZ NOT NULL,
	usage_count       INTEGER NOT NULL DEFAULT 0
)`

const promptColumns = `id, name, description, category, requirements, follow_up_answers,
		       llm_provider, tags, created_at, last_used, usage_count`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the saved_prompts table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create saved_prompts: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrompt(row rowScanner) (models.SavedPrompt, error) {
	var p models.SavedPrompt
	var answers []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Requirements, &answers,
		&p.LLMProvider, pq.Array(&p.Tags), &p.CreatedAt, &p.LastUsed, &p.UsageCount,
	)
	if err != nil {
		return p, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &p.FollowUpAnswers); err != nil {
			return p, fmt.Errorf("decode follow_up_answers: %w", err)
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.SavedPrompt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+promptColumns+`
		FROM saved_prompts
		ORDER BY last_used DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := []models.SavedPrompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.SavedPrompt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+promptColumns+`
		FROM saved_prompts
		WHERE id = $1`, id)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Insert(ctx context.Context, p models.SavedPrompt) error {
	answers, err := encodeAnswers(p.FollowUpAnswers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_prompts (`+promptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Description, p.Category, p.Requirements, answers,
		p.LLMProvider, pq.Array(p.Tags), p.CreatedAt, p.LastUsed, p.UsageCount,
	)
	return err
}

func (s *PostgresStore) Update(ctx context.Context, p models.SavedPrompt) error {
	answers, err := encodeAnswers(p.FollowUpAnswers)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE saved_prompts
		SET name = $2, description = $3, category = $4, requirements = $5,
		    follow_up_answers = $6, llm_provider = $7, tags = $8,
		    last_used = $9, usage_count = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, p.Requirements,
		answers, p.LLMProvider, pq.Array(p.Tags),
		p.LastUsed, p.UsageCount,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_prompts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPromptNotFound
	}
	return nil
}

func encodeAnswers(answers map[string]string) ([]byte, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode follow_up_answers: %w", err)
	}
	return b, nil
}
