package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StateRepository keeps the registry's single state row.
type StateRepository struct {
	q Executor
}

func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{q: db.Pool}
}

func (r *StateRepository) CreateState(ctx context.Context, state *domain.RegistryState) error {
	query := `INSERT INTO registry_state (id, owner_id, min_deposit, initialized_at)
				VALUES (1, $1, $2::numeric, $3)`

	_, err := r.q.Exec(ctx, query, state.OwnerID, state.MinDeposit.String(), state.InitializedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewInvalidAmbientStateError("registry is already initialized")
		}
		return fmt.Errorf("failed to create registry state: %w", err)
	}
	return nil
}

func (r *StateRepository) LoadState(ctx context.Context) (*domain.RegistryState, error) {
	query := `SELECT owner_id, min_deposit::text, initialized_at FROM registry_state WHERE id = 1`

	var (
		state      domain.RegistryState
		minDeposit string
	)
	err := r.q.QueryRow(ctx, query).Scan(&state.OwnerID, &minDeposit, &state.InitializedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewInvalidAmbientStateError("registry must be initialized before use")
		}
		return nil, fmt.Errorf("failed to load registry state: %w", err)
	}

	state.MinDeposit, err = decimal.NewFromString(minDeposit)
	if err != nil {
		return nil, fmt.Errorf("invalid min deposit %q: %w", minDeposit, err)
	}
	state.InitializedAt = state.InitializedAt.UTC()
	return &state, nil
}
