package sqlite

import (
	"context"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/store"
)

type strategiesRepo struct {
	db dbtx
}

func (r *strategiesRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Strategy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT strategy FROM mfa_strategies WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var strategies []domain.Strategy
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		s, err := domain.ParseStrategy(raw)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, rows.Err()
}

func (r *strategiesRepo) Enroll(ctx context.Context, userID string, s domain.Strategy) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mfa_strategies (user_id, strategy, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)`,
		userID, s.String(),
	)
	return mapConstraint(err)
}

func (r *strategiesRepo) Remove(ctx context.Context, userID string, s domain.Strategy) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM mfa_strategies WHERE user_id = ? AND strategy = ?`,
		userID, s.String(),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
