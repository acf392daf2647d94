package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scriptvoice/internal/scripts"
)

const defaultListLimit = 20

// PostgresRepository persists enhancements and generations in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveEnhancement inserts one script rewrite.
func (r *PostgresRepository) SaveEnhancement(ctx context.Context, enh scripts.Enhancement) error {
	const insert = `
		INSERT INTO script_enhancements (id, input_script, output_script, created_at)
		VALUES ($1,$2,$3,$4)
	`
	if _, err := r.db.ExecContext(ctx, insert, enh.ID, enh.Input, enh.Output, enh.CreatedAt); err != nil {
		return fmt.Errorf("insert enhancement: %w", err)
	}
	return nil
}

// RecentEnhancements returns the newest enhancements first.
func (r *PostgresRepository) RecentEnhancements(ctx context.Context, limit int) ([]scripts.Enhancement, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	const query = `
		SELECT id, input_script, output_script, created_at
		FROM script_enhancements
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select enhancements: %w", err)
	}
	defer rows.Close()

	var result []scripts.Enhancement
	for rows.Next() {
		var enh scripts.Enhancement
		if err := rows.Scan(&enh.ID, &enh.Input, &enh.Output, &enh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan enhancement: %w", err)
		}
		result = append(result, enh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// CreateGeneration inserts a generation with its WAV container.
func (r *PostgresRepository) CreateGeneration(ctx context.Context, gen scripts.Generation) error {
	const insert = `
		INSERT INTO voice_generations (
			id, script, speaker1_voice, speaker2_voice, sample_rate, channels, bits_per_sample, duration_ms, wav_data, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	if _, err := r.db.ExecContext(ctx, insert,
		gen.ID,
		gen.Script,
		string(gen.Speaker1),
		string(gen.Speaker2),
		gen.SampleRate,
		gen.Channels,
		gen.BitsPerSample,
		gen.Duration.Milliseconds(),
		gen.Audio,
		gen.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// GetGeneration fetches a generation including its audio.
func (r *PostgresRepository) GetGeneration(ctx context.Context, id uuid.UUID) (scripts.Generation, error) {
	const query = `
		SELECT id, script, speaker1_voice, speaker2_voice, sample_rate, channels, bits_per_sample, duration_ms, wav_data, created_at
		FROM voice_generations
		WHERE id = $1
	`
	var (
		gen        scripts.Generation
		s1, s2     string
		durationMS int64
	)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&gen.ID,
		&gen.Script,
		&s1,
		&s2,
		&gen.SampleRate,
		&gen.Channels,
		&gen.BitsPerSample,
		&durationMS,
		&gen.Audio,
		&gen.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scripts.Generation{}, scripts.ErrNotFound
		}
		return scripts.Generation{}, fmt.Errorf("select generation: %w", err)
	}
	gen.Speaker1 = scripts.Voice(s1)
	gen.Speaker2 = scripts.Voice(s2)
	gen.Duration = time.Duration(durationMS) * time.Millisecond
	return gen, nil
}

// ListGenerations returns generation metadata without audio, newest first.
func (r *PostgresRepository) ListGenerations(ctx context.Context, filter scripts.GenerationFilter) ([]scripts.Generation, error) {
	query := strings.Builder{}
	args := []any{}

	query.WriteString(`
		SELECT id, script, speaker1_voice, speaker2_voice, sample_rate, channels, bits_per_sample, duration_ms, created_at
		FROM voice_generations
		WHERE 1=1
	`)

	if filter.Voice != nil && *filter.Voice != "" {
		args = append(args, string(*filter.Voice))
		query.WriteString(fmt.Sprintf(" AND (speaker1_voice = $%d OR speaker2_voice = $%d)", len(args), len(args)))
	}

	query.WriteString(" ORDER BY created_at DESC")
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var result []scripts.Generation
	for rows.Next() {
		var (
			gen        scripts.Generation
			s1, s2     string
			durationMS int64
		)
		if err := rows.Scan(
			&gen.ID,
			&gen.Script,
			&s1,
			&s2,
			&gen.SampleRate,
			&gen.Channels,
			&gen.BitsPerSample,
			&durationMS,
			&gen.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gen.Speaker1 = scripts.Voice(s1)
		gen.Speaker2 = scripts.Voice(s2)
		gen.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
