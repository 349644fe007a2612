package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const responseColumns = `request_id, err, payload_kind, payload::text, received_at`

// ResponseStore persists delivered callback results. The row with the highest
// seq is the latest response.
type ResponseStore struct {
	q Executor
}

func NewResponseStore(db *DB) *ResponseStore {
	return &ResponseStore{q: db.Pool}
}

// Put stores resp, replacing any earlier response for the same request id and
// making it the latest.
func (s *ResponseStore) Put(ctx context.Context, resp *domain.Response) error {
	query := `INSERT INTO callback_responses (request_id, err, payload_kind, payload, received_at)
				VALUES ($1, $2, $3, $4::jsonb, $5)
				ON CONFLICT (request_id) DO UPDATE SET
					err = EXCLUDED.err,
					payload_kind = EXCLUDED.payload_kind,
					payload = EXCLUDED.payload,
					received_at = EXCLUDED.received_at,
					seq = nextval(pg_get_serial_sequence('callback_responses', 'seq'))
	`

	_, err := s.q.Exec(ctx, query,
		resp.RequestID,
		resp.Err,
		resp.Payload.Kind,
		payloadParam(resp.Payload),
		resp.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}
	return nil
}

func (s *ResponseStore) Latest(ctx context.Context) (*domain.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM callback_responses ORDER BY seq DESC LIMIT 1`

	resp, err := scanResponse(s.q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Response{Payload: domain.NoData()}, nil
		}
		return nil, err
	}
	return resp, nil
}

func (s *ResponseStore) Get(ctx context.Context, requestID domain.RequestID) (*domain.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM callback_responses WHERE request_id = $1`

	resp, err := scanResponse(s.q.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewResponseNotFoundError(requestID)
		}
		return nil, err
	}
	return resp, nil
}

func (s *ResponseStore) ClearPayload(ctx context.Context) error {
	query := `UPDATE callback_responses
			SET payload_kind = $1, payload = NULL
			WHERE seq = (SELECT MAX(seq) FROM callback_responses)`

	if _, err := s.q.Exec(ctx, query, domain.PayloadNone); err != nil {
		return fmt.Errorf("failed to clear response payload: %w", err)
	}
	return nil
}

func payloadParam(p domain.Payload) *string {
	if len(p.Data) == 0 {
		return nil
	}
	s := string(p.Data)
	return &s
}

func scanResponse(row pgx.Row) (*domain.Response, error) {
	var (
		resp domain.Response
		data *string
	)
	err := row.Scan(
		&resp.RequestID,
		&resp.Err,
		&resp.Payload.Kind,
		&data,
		&resp.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan response: %w", err)
	}

	if data != nil {
		resp.Payload.Data = json.RawMessage(*data)
	}
	resp.ReceivedAt = resp.ReceivedAt.UTC()
	return &resp, nil
}
