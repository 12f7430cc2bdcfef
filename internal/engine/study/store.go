package study

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatolykoptev/go_study/internal/engine"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// DB holds the pgx connection pool for study material storage.
// It implements engine.Store.
type DB struct {
	pool *pgxpool.Pool
}

// Connect creates a pgx pool and runs schema migrations.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("study postgres connected", slog.String("addr", config.ConnConfig.Host))
	return db, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

func (db *DB) runMigrations(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := db.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// SaveVideoWithMaterials persists one successful video and its materials in a
// single transaction. Re-saving the same video for a user updates the summary
// and replaces its questions and flashcards. Sections carrying extraction
// sentinels are skipped, not stored.
func (db *DB) SaveVideoWithMaterials(ctx context.Context, userID, topic string, video engine.ProcessedVideo) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var summary string
	if video.Summary != nil {
		summary = video.Summary.Content
	}
	var transcript string
	if video.Transcript != nil {
		transcript = video.Transcript.Preview
	}

	var videoRef int64
	err = tx.QueryRow(ctx, `
		INSERT INTO study_videos (user_id, topic, video_id, title, channel, url, summary, transcript)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, video_id) DO UPDATE
		SET topic = EXCLUDED.topic, title = EXCLUDED.title,
		    channel = EXCLUDED.channel, summary = EXCLUDED.summary,
		    transcript = EXCLUDED.transcript
		RETURNING id`,
		userID, topic, video.VideoID, video.Title, video.Channel, video.URL, summary, transcript,
	).Scan(&videoRef)
	if err != nil {
		return 0, fmt.Errorf("insert video %s: %w", video.VideoID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM study_quiz_questions WHERE video_ref = $1`, videoRef); err != nil {
		return 0, fmt.Errorf("clear questions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM study_flashcards WHERE video_ref = $1`, videoRef); err != nil {
		return 0, fmt.Errorf("clear flashcards: %w", err)
	}

	if engine.UsableSection(video.QuestionsText) {
		for _, q := range video.Questions {
			if _, err := tx.Exec(ctx, `
				INSERT INTO study_quiz_questions (video_ref, number, question, answer)
				VALUES ($1, $2, $3, $4)`,
				videoRef, q.Number, q.Question, q.Answer); err != nil {
				return 0, fmt.Errorf("insert question %d: %w", q.Number, err)
			}
		}
	}
	if engine.UsableSection(video.FlashcardsText) {
		for _, f := range video.Flashcards {
			if _, err := tx.Exec(ctx, `
				INSERT INTO study_flashcards (video_ref, number, front, back)
				VALUES ($1, $2, $3, $4)`,
				videoRef, f.Number, f.Front, f.Back); err != nil {
				return 0, fmt.Errorf("insert flashcard %d: %w", f.Number, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return videoRef, nil
}

// SaveLearningPlan persists one learning plan. Plans are append-only; a user
// accumulates one row per run.
func (db *DB) SaveLearningPlan(ctx context.Context, userID, topic, plan, preference string) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO study_learning_plans (user_id, topic, preference, plan)
		VALUES ($1, $2, $3, $4)`,
		userID, topic, preference, plan)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}
