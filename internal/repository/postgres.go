package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
)

// PostgresPlanStore хранит текущий план в единственной строке current_plan, историю - в plan_history
type PostgresPlanStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPostgresPlanStore(db *pgxpool.Pool) service.PlanStore {
	return &PostgresPlanStore{
		db:  db,
		now: time.Now,
	}
}

// Persist обновляет current_plan и добавляет запись в plan_history.
// Запросы выполняются вне транзакции: сбой истории не откатывает текущий план.
func (r *PostgresPlanStore) Persist(ctx context.Context, record models.EnrichedRecord) (string, error) {
	data, err := encodeRecord(record)
	if err != nil {
		return "", err
	}
	key := historyKey(r.now())

	err = persistBoth(
		func() error {
			query := `
				INSERT INTO current_plan (id, record, updated_at)
				VALUES (1, $1, NOW())
				ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, updated_at = NOW();
			`
			if _, err := r.db.Exec(ctx, query, data); err != nil {
				return fmt.Errorf("failed to upsert current plan: %w", err)
			}
			return nil
		},
		func() error {
			query := `
				INSERT INTO plan_history (history_key, record)
				VALUES ($1, $2)
				ON CONFLICT (history_key) DO UPDATE SET record = EXCLUDED.record, created_at = NOW();
			`
			if _, err := r.db.Exec(ctx, query, key, data); err != nil {
				return fmt.Errorf("failed to insert plan history: %w", err)
			}
			return nil
		},
	)
	return key, err
}

// Current возвращает текущий план
func (r *PostgresPlanStore) Current(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT record FROM current_plan WHERE id = 1;`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get current plan: %w", err)
	}
	return data, nil
}

// History возвращает запись истории по ключу
func (r *PostgresPlanStore) History(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT record FROM plan_history WHERE history_key = $1;`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan history %s: %w", key, err)
	}
	return data, nil
}

// ListHistory возвращает ключи истории, начиная с самого нового
func (r *PostgresPlanStore) ListHistory(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT history_key
		FROM plan_history
		ORDER BY history_key DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan history: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan plan history row: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return keys, nil
}
