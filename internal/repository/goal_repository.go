package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluebird1313/reporder/internal/domain"
)

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *domain.RepGoal) error
	UpdateGoal(ctx context.Context, goal *domain.RepGoal) error
	GetGoal(ctx context.Context, id string) (*domain.RepGoal, error)
	ListGoalsByRep(ctx context.Context, repID string, since time.Time) ([]domain.RepGoal, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

const goalColumns = `
	g.id, g.rep_id, g.store_id, s.name AS store_name, g.brand,
	g.goal_type, g.goal_amount, g.goal_month, g.created_at, g.updated_at
`

func (r *goalRepository) CreateGoal(ctx context.Context, goal *domain.RepGoal) error {
	query := `
		INSERT INTO rep_goals (rep_id, store_id, brand, goal_type, goal_amount, goal_month, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		goal.RepID, goal.StoreID, goal.Brand, goal.GoalType, goal.GoalAmount, goal.GoalMonth)
	if err := row.Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return fmt.Errorf("error creating rep goal: %w", err)
	}

	return nil
}

func (r *goalRepository) UpdateGoal(ctx context.Context, goal *domain.RepGoal) error {
	query := `
		UPDATE rep_goals
		SET brand = $2, goal_type = $3, goal_amount = $4, goal_month = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		goal.ID, goal.Brand, goal.GoalType, goal.GoalAmount, goal.GoalMonth)
	if err := row.Scan(&goal.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("error updating rep goal: %w", err)
	}

	return nil
}

func (r *goalRepository) GetGoal(ctx context.Context, id string) (*domain.RepGoal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM rep_goals g
		JOIN stores s ON s.id = g.store_id
		WHERE g.id = $1
	`, goalColumns)

	var goal domain.RepGoal
	if err := r.db.GetContext(ctx, &goal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting rep goal: %w", err)
	}

	return &goal, nil
}

func (r *goalRepository) ListGoalsByRep(ctx context.Context, repID string, since time.Time) ([]domain.RepGoal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM rep_goals g
		JOIN stores s ON s.id = g.store_id
		WHERE g.rep_id = $1 AND g.goal_month >= $2
		ORDER BY g.goal_month DESC
	`, goalColumns)

	var goals []domain.RepGoal
	if err := r.db.SelectContext(ctx, &goals, query, repID, since); err != nil {
		return nil, fmt.Errorf("error listing rep goals: %w", err)
	}

	return goals, nil
}
