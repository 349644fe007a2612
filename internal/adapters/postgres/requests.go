package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const requestColumns = `seq, originator_id, request_id, data_key, data_item, callback_ref, deposit::text, created_at`

type RequestRepository struct {
	pool *pgxpool.Pool
	q    Executor
}

func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{
		pool: db.Pool,
		q:    db.Pool,
	}
}

// Append stores a new pending request and sets its sequence number.
func (r *RequestRepository) Append(ctx context.Context, req *domain.Request) error {
	query := `INSERT INTO pending_requests (
				originator_id, request_id, data_key, data_item, callback_ref, deposit, created_at)
				VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)
				RETURNING seq
	`

	err := r.q.QueryRow(ctx, query,
		req.OriginatorID,
		req.RequestID,
		req.DataKey,
		req.DataItem,
		req.CallbackRef,
		req.Deposit.String(),
		req.CreatedAt,
	).Scan(&req.Seq)
	if err != nil {
		if IsUniqueViolation(err) && constraintName(err) == "pending_requests_correlation_key" {
			return domain.NewDuplicateRequestError(req.OriginatorID, req.RequestID)
		}
		return fmt.Errorf("failed to append request: %w", err)
	}
	return nil
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM pending_requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return n, nil
}

// List returns pending requests ordered by arrival. A NULL limit means no limit.
func (r *RequestRepository) List(ctx context.Context, limit int) ([]*domain.Request, error) {
	query := `SELECT ` + requestColumns + `
			FROM pending_requests
			ORDER BY seq ASC
			LIMIT $1
	`

	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := r.q.Query(ctx, query, lim)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return requests, nil
}

func (r *RequestRepository) ExistsPending(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM pending_requests WHERE originator_id = $1 AND request_id = $2
			)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, originator, requestID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// RemoveFirst deletes the earliest entry with the given correlation key.
func (r *RequestRepository) RemoveFirst(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) (*domain.Request, error) {
	query := `DELETE FROM pending_requests
			WHERE seq = (
				SELECT seq FROM pending_requests
				WHERE originator_id = $1 AND request_id = $2
				ORDER BY seq ASC
				LIMIT 1
				FOR UPDATE
			)
			RETURNING ` + requestColumns

	req, err := scanRequest(r.q.QueryRow(ctx, query, originator, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError(originator, requestID)
		}
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) Balance(ctx context.Context, account domain.AccountID) (decimal.Decimal, error) {
	var balance string
	err := r.q.QueryRow(ctx,
		`SELECT balance::text FROM account_balances WHERE account_id = $1`, account,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to load balance: %w", err)
	}
	return parseAmount(balance)
}

// Credit upserts the account's balance row.
func (r *RequestRepository) Credit(ctx context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `INSERT INTO account_balances (account_id, balance, updated_at)
			VALUES ($1, $2::numeric, NOW())
			ON CONFLICT (account_id) DO UPDATE
			SET balance = account_balances.balance + EXCLUDED.balance,
				updated_at = NOW()
			RETURNING balance::text
	`

	var balance string
	if err := r.q.QueryRow(ctx, query, account, amount.String()).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit balance: %w", err)
	}
	return parseAmount(balance)
}

// Debit only updates a row that covers amount, so concurrent debits cannot
// take a balance below zero.
func (r *RequestRepository) Debit(ctx context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return r.Balance(ctx, account)
	}

	query := `UPDATE account_balances
			SET balance = balance - $2::numeric, updated_at = NOW()
			WHERE account_id = $1 AND balance >= $2::numeric
			RETURNING balance::text
	`

	var balance string
	err := r.q.QueryRow(ctx, query, account, amount.String()).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, err := r.Balance(ctx, account)
			if err != nil {
				return decimal.Zero, err
			}
			return current, domain.NewInsufficientBalanceError(account, current, amount)
		}
		return decimal.Zero, fmt.Errorf("failed to debit balance: %w", err)
	}
	return parseAmount(balance)
}

// WithTx executes a function within a database transaction
func (r *RequestRepository) WithTx(ctx context.Context, fn func(ports.RequestRepository) error) error {
	if _, inTx := r.q.(pgx.Tx); inTx {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	repoWithTx := &RequestRepository{
		pool: r.pool,
		q:    tx,
	}

	if err := fn(repoWithTx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var (
		req     domain.Request
		deposit string
	)
	err := row.Scan(
		&req.Seq,
		&req.OriginatorID,
		&req.RequestID,
		&req.DataKey,
		&req.DataItem,
		&req.CallbackRef,
		&deposit,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan request: %w", err)
	}

	req.Deposit, err = parseAmount(deposit)
	if err != nil {
		return nil, err
	}
	req.CreatedAt = req.CreatedAt.UTC()
	return &req, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
