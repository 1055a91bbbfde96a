package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"learning-challenge-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProgressStore persists course state as one JSONB row per (user, course).
type ProgressStore struct {
	pool *pgxpool.Pool
}

func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool}
}

func (s *ProgressStore) Get(ctx context.Context, userID, courseID string) (*domain.CourseState, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM course_states WHERE user_id=$1 AND course_id=$2`,
		userID, courseID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course state: %w", err)
	}
	var state domain.CourseState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal course state: %w", err)
	}
	return &state, nil
}

func (s *ProgressStore) Put(ctx context.Context, state *domain.CourseState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal course state: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO course_states (user_id, course_id, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		state.UserID, state.CourseID, data,
	)
	if err != nil {
		return fmt.Errorf("save course state: %w", err)
	}
	return nil
}

func (s *ProgressStore) List(ctx context.Context, courseID string) ([]*domain.CourseState, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM course_states WHERE course_id=$1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course states: %w", err)
	}
	defer rows.Close()

	var out []*domain.CourseState
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan course state: %w", err)
		}
		var state domain.CourseState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, fmt.Errorf("unmarshal course state: %w", err)
		}
		out = append(out, &state)
	}
	return out, rows.Err()
}
